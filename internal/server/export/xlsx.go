// Package export renders an owner's receipts as an XLSX workbook.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/linkproof/internal/digest"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
)

const (
	SheetName = "Receipts"
	// ContentType is the media type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{"Filename", "Digest", "Created At", "Proof Link"}

// WriteReceiptsXLSX returns a workbook with one row per receipt, in the order
// given. base is the public base URL used to build proof links.
func WriteReceiptsXLSX(receipts []*models.Receipt, base string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// rename the default sheet instead of leaving an empty "Sheet1" behind
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for i, r := range receipts {
		row := i + 2
		values := []any{
			r.DisplayName(),
			r.Digest,
			r.CreatedAt.UTC().Format(time.RFC3339),
			digest.Locator(base, digest.Value(r.Digest)),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 32)
	_ = f.SetColWidth(SheetName, "B", "B", 68)
	_ = f.SetColWidth(SheetName, "C", "C", 22)
	_ = f.SetColWidth(SheetName, "D", "D", 96)
	_ = f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

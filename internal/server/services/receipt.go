package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/dbx"
	"github.com/dmitrijs2005/linkproof/internal/digest"
	"github.com/dmitrijs2005/linkproof/internal/logging"
	"github.com/dmitrijs2005/linkproof/internal/server/config"
	"github.com/dmitrijs2005/linkproof/internal/server/export"
	"github.com/dmitrijs2005/linkproof/internal/server/metrics"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
	"github.com/dmitrijs2005/linkproof/internal/server/notify"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/repomanager"
)

const maxFilenameRunes = 255

// SubmitResult is the outcome of a successful Submit.
type SubmitResult struct {
	Receipt *models.Receipt
	Link    string
}

// ReceiptService records and checks proofs of existence. The caller's
// identity always arrives as an explicit ownerID resolved by the transport.
type ReceiptService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	notifier     notify.Notifier
	metrics      *metrics.Metrics
	logger       logging.Logger
	baseURL      string
	storeTimeout time.Duration
}

func NewReceiptService(db *sql.DB, m repomanager.RepositoryManager, n notify.Notifier, mt *metrics.Metrics, l logging.Logger, cfg *config.Config) *ReceiptService {
	return &ReceiptService{
		db:           db,
		repomanager:  m,
		notifier:     n,
		metrics:      mt,
		logger:       l.With("module", "receipts"),
		baseURL:      cfg.PublicBaseURL,
		storeTimeout: cfg.StoreTimeout,
	}
}

// Submit fingerprints content and records a new receipt owned by ownerID.
// A ReceiptCreated event is published after the insert; its delivery never
// affects the result.
func (s *ReceiptService) Submit(ctx context.Context, ownerID, filename, contactEmail string, content io.Reader) (*SubmitResult, error) {
	if ownerID == "" {
		return nil, common.ErrorUnauthorized
	}

	email, err := normalizeEmail(contactEmail)
	if err != nil {
		return nil, err
	}

	d, err := digest.Sum(content)
	if err != nil {
		return nil, err
	}

	r := &models.Receipt{
		Digest:       d.String(),
		Filename:     cleanFilename(filename),
		OwnerID:      &ownerID,
		ContactEmail: email,
	}

	created, err := callStore(ctx, s, "create", func(ctx context.Context) (*models.Receipt, error) {
		return s.repomanager.Receipts(s.db).Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementReceiptsCreated()
	link := digest.Locator(s.baseURL, d)
	s.logger.Info(ctx, "receipt created", "receipt_id", created.ID, "digest", created.Digest, "owner_id", ownerID)

	s.notifier.Publish(ctx, notify.Event{
		Kind:    notify.ReceiptCreated,
		Receipt: *created,
		Locator: link,
		At:      time.Now().UTC(),
	})

	return &SubmitResult{Receipt: created, Link: link}, nil
}

// Verify reports whether any receipt exists for the digest of content.
func (s *ReceiptService) Verify(ctx context.Context, content io.Reader) (bool, error) {
	d, err := digest.Sum(content)
	if err != nil {
		return false, err
	}

	exists, err := callStore(ctx, s, "exists", func(ctx context.Context) (bool, error) {
		return s.repomanager.Receipts(s.db).ExistsByDigest(ctx, d.String())
	})
	if err != nil {
		return false, err
	}

	s.metrics.ObserveVerification(exists)
	return exists, nil
}

// List returns the receipts owned by ownerID, newest first.
func (s *ReceiptService) List(ctx context.Context, ownerID string) ([]*models.Receipt, error) {
	if ownerID == "" {
		return nil, common.ErrorUnauthorized
	}
	return callStore(ctx, s, "list", func(ctx context.Context) ([]*models.Receipt, error) {
		return s.repomanager.Receipts(s.db).ListByOwner(ctx, ownerID)
	})
}

// Lookup resolves a public proof path segment to the earliest receipt for
// that digest. A malformed segment yields common.ErrInvalidDigest.
func (s *ReceiptService) Lookup(ctx context.Context, raw string) (*models.Receipt, bool, error) {
	d, err := digest.Parse(raw)
	if err != nil {
		s.metrics.ObserveLookup("invalid")
		return nil, false, err
	}

	type result struct {
		r     *models.Receipt
		found bool
	}
	res, err := callStore(ctx, s, "find", func(ctx context.Context) (result, error) {
		r, found, err := s.repomanager.Receipts(s.db).FindByDigest(ctx, d.String())
		return result{r: r, found: found}, err
	})
	if err != nil {
		return nil, false, err
	}

	if res.found {
		s.metrics.ObserveLookup("found")
	} else {
		s.metrics.ObserveLookup("not_found")
	}
	return res.r, res.found, nil
}

// Export renders the owner's receipts as an XLSX workbook.
func (s *ReceiptService) Export(ctx context.Context, ownerID string) ([]byte, error) {
	list, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	data, err := export.WriteReceiptsXLSX(list, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return data, nil
}

// Link returns the public proof locator for r.
func (s *ReceiptService) Link(r *models.Receipt) string {
	return digest.Locator(s.baseURL, digest.Value(r.Digest))
}

// callStore runs fn under the store timeout. The caller is released as soon as
// the deadline passes even if the driver ignores cancellation; any late
// result is discarded.
func callStore[T any](ctx context.Context, s *ReceiptService, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := dbx.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{v: v, err: err}
	}()

	var zero T
	select {
	case o := <-done:
		if o.err != nil {
			return zero, s.storeError(ctx, op, dbx.Classify(o.err))
		}
		return o.v, nil
	case <-ctx.Done():
		go s.reportLate(context.WithoutCancel(ctx), op, func() (any, error) {
			o := <-done
			return o.v, o.err
		})
		return zero, s.storeError(ctx, op, fmt.Errorf("%w: %w", common.ErrStoreUnavailable, ctx.Err()))
	}
}

// reportLate waits for an abandoned store call. A call that succeeds anyway
// may have committed a receipt the caller was told failed; no event is
// published for it, so it is logged for reconciliation.
func (s *ReceiptService) reportLate(ctx context.Context, op string, wait func() (any, error)) {
	v, err := wait()
	if err != nil {
		return
	}
	args := []any{"operation", op}
	if r, ok := v.(*models.Receipt); ok && r != nil {
		args = append(args, "receipt_id", r.ID, "digest", r.Digest)
	}
	s.logger.Warn(ctx, "store call succeeded after its deadline", args...)
}

func (s *ReceiptService) storeError(ctx context.Context, op string, err error) error {
	s.metrics.IncrementStoreErrors(op)
	if errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Warn(ctx, "receipt store unavailable", "operation", op, "error", err)
	} else {
		s.logger.Error(ctx, "receipt store failed", "operation", op, "error", err)
	}
	return err
}

// cleanFilename keeps the last path element of a client-supplied name,
// drops control characters and caps the length. The result is only a label.
func cleanFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base(name))
	if name == "." || name == "/" {
		return ""
	}
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if utf8.RuneCountInString(name) > maxFilenameRunes {
		name = string([]rune(name)[:maxFilenameRunes])
	}
	return name
}

func normalizeEmail(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	addr, err := mail.ParseAddress(v)
	if err != nil {
		return "", fmt.Errorf("%w: invalid contact email", common.ErrorValidation)
	}
	return addr.Address, nil
}

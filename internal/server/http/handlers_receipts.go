package httptransport

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/linkproof/internal/common"
	"github.com/dmitrijs2005/linkproof/internal/server/export"
)

const fileField = "myFile"

type uploadResponse struct {
	Digest    string `json:"digest"`
	Link      string `json:"link"`
	CreatedAt string `json:"created_at"`
}

type verifyResponse struct {
	Exists bool `json:"exists"`
}

type receiptItem struct {
	Digest string `json:"digest"`
	// Hash duplicates Digest for older clients.
	Hash      string `json:"hash"`
	Filename  string `json:"filename"`
	Timestamp string `json:"timestamp"`
	Link      string `json:"link"`
}

type proofResponse struct {
	Digest    string `json:"digest"`
	CreatedAt string `json:"created_at"`
	Link      string `json:"link"`
}

// bodyReader remembers the first error the client connection returned, so a
// broken upload is not mistaken for a malformed one.
type bodyReader struct {
	io.ReadCloser
	err error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && b.err == nil {
		b.err = err
	}
	return n, err
}

// openUpload parses a bounded multipart body and opens the file part.
// A body that ends early or fails mid-read yields ErrInputUnavailable; a
// request that is not a multipart form at all yields ErrorValidation.
func (h *Handler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	body := &bodyReader{ReadCloser: r.Body}
	r.Body = http.MaxBytesReader(w, body, h.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, nil, err
		case body.err != nil:
			return nil, nil, fmt.Errorf("%w: reading upload: %w", common.ErrInputUnavailable, body.err)
		case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
			return nil, nil, fmt.Errorf("%w: upload ended early", common.ErrInputUnavailable)
		}
		return nil, nil, fmt.Errorf("%w: expected a multipart form", common.ErrorValidation)
	}
	f, hdr, err := r.FormFile(fileField)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: missing %s part", common.ErrorValidation, fileField)
	}
	return f, hdr, nil
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, hdr, err := h.openUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()
	defer r.MultipartForm.RemoveAll()

	filename := r.FormValue("filename")
	if filename == "" {
		filename = hdr.Filename
	}

	res, err := h.receipts.Submit(ctx, GetUserID(ctx), filename, r.FormValue("email"), f)
	if err != nil {
		h.logFailure(r, "upload failed", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		Digest:    res.Receipt.Digest,
		Link:      res.Link,
		CreatedAt: res.Receipt.CreatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	f, _, err := h.openUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()
	defer r.MultipartForm.RemoveAll()

	exists, err := h.receipts.Verify(r.Context(), f)
	if err != nil {
		h.logFailure(r, "verify failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Exists: exists})
}

func (h *Handler) handleUserReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.receipts.List(ctx, GetUserID(ctx))
	if err != nil {
		h.logFailure(r, "listing receipts failed", err)
		writeError(w, err)
		return
	}

	out := make([]receiptItem, 0, len(list))
	for _, rc := range list {
		out = append(out, receiptItem{
			Digest:    rc.Digest,
			Hash:      rc.Digest,
			Filename:  rc.DisplayName(),
			Timestamp: rc.CreatedAt.Format(time.RFC3339),
			Link:      h.receipts.Link(rc),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data, err := h.receipts.Export(ctx, GetUserID(ctx))
	if err != nil {
		h.logFailure(r, "export failed", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="receipts.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleProof is the public proof page. It discloses only the digest, the
// earliest timestamp and the link; owner and filename stay private.
func (h *Handler) handleProof(w http.ResponseWriter, r *http.Request) {
	rc, found, err := h.receipts.Lookup(r.Context(), chi.URLParam(r, "digest"))
	if err != nil {
		h.logFailure(r, "proof lookup failed", err)
		writeError(w, err)
		return
	}
	if !found {
		writeErrorCode(w, http.StatusNotFound, CodeNotFound, "no proof recorded for this digest")
		return
	}
	writeJSON(w, http.StatusOK, proofResponse{
		Digest:    rc.Digest,
		CreatedAt: rc.CreatedAt.Format(time.RFC3339),
		Link:      h.receipts.Link(rc),
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/linkproof/internal/client/client"
	"github.com/dmitrijs2005/linkproof/internal/client/models"
	"github.com/dmitrijs2005/linkproof/internal/client/repositories/history"
	"github.com/dmitrijs2005/linkproof/internal/client/repositories/session"
	"github.com/dmitrijs2005/linkproof/internal/digest"
	"github.com/dmitrijs2005/linkproof/internal/filex"
)

// ErrDigestMismatch means the server fingerprinted different bytes than the
// ones read from disk.
var ErrDigestMismatch = errors.New("server digest does not match local file")

// ReceiptService works with files on the local disk.
type ReceiptService interface {
	Submit(ctx context.Context, path, email string) (*models.Receipt, error)
	Verify(ctx context.Context, path string) (bool, error)
	List(ctx context.Context) ([]models.Receipt, error)
	Lookup(ctx context.Context, digest string) (*models.Proof, error)
	History(ctx context.Context) ([]models.HistoryEntry, error)
	// Digest fingerprints a file without contacting the server.
	Digest(path string) (string, error)
}

type receiptService struct {
	client      client.Client
	sessions    session.Repository
	history     history.Repository
	maxFileSize int64
}

func NewReceiptService(c client.Client, sessions session.Repository, h history.Repository, maxFileSize int64) ReceiptService {
	return &receiptService{client: c, sessions: sessions, history: h, maxFileSize: maxFileSize}
}

// Submit sends the file at path and records the receipt locally. The digest
// the server returns is checked against one computed here.
func (s *receiptService) Submit(ctx context.Context, path, email string) (*models.Receipt, error) {
	data, err := filex.ReadFile(path, s.maxFileSize)
	if err != nil {
		return nil, err
	}
	local := digest.SumBytes(data)

	r, err := s.client.Submit(ctx, filepath.Base(path), email, data)
	if err != nil {
		return nil, err
	}
	s.keepSession(ctx)

	if r.Digest != local.String() {
		return nil, fmt.Errorf("%w: local %s, server %s", ErrDigestMismatch, local, r.Digest)
	}

	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}
	if err := s.history.Add(ctx, &models.HistoryEntry{Receipt: *r, Source: source}); err != nil {
		return r, fmt.Errorf("receipt %s recorded but not saved locally: %w", r.ID, err)
	}
	return r, nil
}

func (s *receiptService) Verify(ctx context.Context, path string) (bool, error) {
	data, err := filex.ReadFile(path, s.maxFileSize)
	if err != nil {
		return false, err
	}
	ok, err := s.client.Verify(ctx, data)
	s.keepSession(ctx)
	return ok, err
}

func (s *receiptService) List(ctx context.Context) ([]models.Receipt, error) {
	list, err := s.client.List(ctx)
	s.keepSession(ctx)
	return list, err
}

func (s *receiptService) Lookup(ctx context.Context, raw string) (*models.Proof, error) {
	d, err := digest.Parse(raw)
	if err != nil {
		return nil, err
	}
	p, err := s.client.Lookup(ctx, d.String())
	s.keepSession(ctx)
	return p, err
}

func (s *receiptService) History(ctx context.Context) ([]models.HistoryEntry, error) {
	return s.history.List(ctx)
}

// Digest streams the file, so it is not bound by the upload limit.
func (s *receiptService) Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	d, err := digest.Sum(f)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// keepSession persists a token rotated by the call that just finished. A
// failure only costs the next run its automatic login.
func (s *receiptService) keepSession(ctx context.Context) {
	_ = saveRotatedToken(ctx, s.client, s.sessions)
}

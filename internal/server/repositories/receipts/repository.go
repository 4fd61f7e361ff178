// Package receipts stores proof-of-existence receipts keyed by content digest.
package receipts

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/linkproof/internal/server/models"
)

// Repository is the durable digest → receipt store.
//
// Digests are not unique: every Create inserts a new receipt. There is no
// update or delete.
type Repository interface {
	// Create inserts r in a single statement, assigning ID and CreatedAt when
	// they are unset, and returns it.
	Create(ctx context.Context, r *models.Receipt) (*models.Receipt, error)

	// ExistsByDigest reports whether at least one receipt carries digest.
	ExistsByDigest(ctx context.Context, digest string) (bool, error)

	// ListByOwner returns every receipt owned by ownerID, newest first.
	// An owner with no receipts gets an empty slice.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Receipt, error)

	// FindByDigest returns the earliest receipt for digest. found is false,
	// with a nil error, when no receipt exists.
	FindByDigest(ctx context.Context, digest string) (r *models.Receipt, found bool, err error)
}

// now is the insertion clock. Postgres keeps microseconds, so the value is
// truncated to match what a read returns.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func prepare(r *models.Receipt) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now()
	} else {
		r.CreatedAt = r.CreatedAt.UTC().Truncate(time.Microsecond)
	}
}

func ownerArg(r *models.Receipt) any {
	if r.OwnerID == nil {
		return nil
	}
	return *r.OwnerID
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(s scanner) (*models.Receipt, error) {
	r := &models.Receipt{}
	var owner sql.NullString
	if err := s.Scan(&r.ID, &r.Digest, &r.Filename, &r.CreatedAt, &owner, &r.ContactEmail); err != nil {
		return nil, err
	}
	if owner.Valid {
		r.OwnerID = &owner.String
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

func collect(rows *sql.Rows) ([]*models.Receipt, error) {
	defer rows.Close()

	list := make([]*models.Receipt, 0)
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

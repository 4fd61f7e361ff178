// Package models defines server-side data models persisted in the database.
package models

import "time"

// UntitledFile is shown in place of an empty filename.
const UntitledFile = "Untitled File"

// Receipt records that content with Digest was submitted at CreatedAt.
// Several receipts may share a digest; ID tells them apart. Receipts are
// never updated or deleted.
type Receipt struct {
	ID string
	// Digest is the lowercase hex SHA-256 of the submitted bytes.
	Digest string
	// Filename is an advisory label supplied by the submitter.
	Filename  string
	CreatedAt time.Time
	// OwnerID is nil for anonymous receipts.
	OwnerID *string
	// ContactEmail is used only for the post-commit notification.
	ContactEmail string
}

// DisplayName returns Filename, or UntitledFile when it is empty.
func (r *Receipt) DisplayName() string {
	if r.Filename == "" {
		return UntitledFile
	}
	return r.Filename
}


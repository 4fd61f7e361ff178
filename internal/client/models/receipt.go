// Package models defines the client-side views of receipts and the local
// session.
package models

import "time"

// Receipt is a receipt as returned to its owner.
type Receipt struct {
	ID        string
	Digest    string
	Filename  string
	CreatedAt time.Time
	Link      string
}

// Proof is the public record for a digest. It never names the owner.
type Proof struct {
	Digest    string
	CreatedAt time.Time
	Link      string
}

// HistoryEntry is a receipt this CLI obtained, together with the local path
// that was submitted.
type HistoryEntry struct {
	Receipt
	Source string
}

// Session is what survives a CLI restart after a successful login.
type Session struct {
	UserName     string
	RefreshToken string
}

// Empty reports whether no one is logged in.
func (s Session) Empty() bool {
	return s.RefreshToken == ""
}

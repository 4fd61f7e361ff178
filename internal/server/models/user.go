package models

import "time"

// User is an identity that can own receipts. PasswordHash is a bcrypt hash;
// the plain password never reaches the store.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

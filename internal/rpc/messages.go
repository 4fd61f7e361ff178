package rpc

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes the access token sent in metadata; RefreshToken is
// optional.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LogoutResponse struct{}

// SubmitRequest carries the whole file; Content is base64 on the wire.
type SubmitRequest struct {
	Filename     string `json:"filename,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Content      []byte `json:"content"`
}

type SubmitResponse struct {
	ReceiptID string    `json:"receipt_id"`
	Digest    string    `json:"digest"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

type VerifyRequest struct {
	Content []byte `json:"content"`
}

type VerifyResponse struct {
	Exists bool `json:"exists"`
}

type ListRequest struct{}

type Receipt struct {
	ID        string    `json:"id"`
	Digest    string    `json:"digest"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Link      string    `json:"link"`
}

type ListResponse struct {
	Receipts []Receipt `json:"receipts"`
}

type LookupRequest struct {
	Digest string `json:"digest"`
}

// LookupResponse is the public view of a proof.
type LookupResponse struct {
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"created_at"`
	Link      string    `json:"link"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

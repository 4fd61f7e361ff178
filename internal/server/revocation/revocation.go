// Package revocation keeps the ids (jti) of access tokens that were logged
// out before they expired.
package revocation

import (
	"context"
	"time"
)

// List is a token revocation list keyed by token id.
type List interface {
	// Revoke marks jti as revoked for ttl. An empty jti or non-positive ttl is a no-op.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	// IsRevoked reports whether jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Package digest computes the content fingerprint that identifies a proof.
//
// A digest is the lowercase hex SHA-256 of the raw file bytes. It depends on
// nothing but the bytes, so two uploads of identical content always map to
// the same Value on every platform.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/linkproof/internal/common"
)

// Size is the length of a rendered digest in hex characters.
const Size = sha256.Size * 2

// Value is a rendered digest: Size lowercase hex characters.
type Value string

func (v Value) String() string { return string(v) }

// Sum streams r through SHA-256. A read failure is reported as
// common.ErrInputUnavailable; the content itself can never be rejected.
func Sum(r io.Reader) (Value, error) {
	const errCtx = "calculating digest"

	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("%s: %w: %v", errCtx, common.ErrInputUnavailable, err)
	}
	return Value(hex.EncodeToString(h.Sum(nil))), nil
}

// SumBytes is Sum for an in-memory buffer.
func SumBytes(b []byte) Value {
	s := sha256.Sum256(b)
	return Value(hex.EncodeToString(s[:]))
}

// Parse validates a digest taken from an untrusted string such as a URL path
// segment. Upper-case hex is accepted and normalised.
func Parse(s string) (Value, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != Size {
		return "", fmt.Errorf("%w: expected %d hex characters, got %d", common.ErrInvalidDigest, Size, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidDigest, err)
	}
	return Value(s), nil
}

// Locator builds the public proof address for v under base, e.g.
// https://linkproof.co/proof/<digest>. It is a pure function of its inputs.
func Locator(base string, v Value) string {
	return strings.TrimRight(base, "/") + common.ProofPathPrefix + string(v)
}

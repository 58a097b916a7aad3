package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrEntropyUnavailable wraps a failure of the system randomness source.
// It is fatal for the calling operation: there is no weaker fallback.
var ErrEntropyUnavailable = errors.New("entropy source unavailable")

// Issuer generates opaque fixed-length tokens. The byte length is injected
// at construction so the same issuer code serves every token purpose and
// stays testable with varying lengths.
type Issuer struct {
	lengthBytes int
}

// NewIssuer creates an [Issuer] producing tokens of exactly lengthBytes
// bytes of entropy each.
func NewIssuer(lengthBytes int) (*Issuer, error) {
	if lengthBytes <= 0 {
		return nil, fmt.Errorf("token length must be positive, got %d", lengthBytes)
	}
	return &Issuer{lengthBytes: lengthBytes}, nil
}

// LengthBytes returns the configured entropy width.
func (i *Issuer) LengthBytes() int {
	return i.lengthBytes
}

// Issue draws lengthBytes bytes from crypto/rand and encodes them as a
// padding-free base64url string. The underlying entropy is exactly
// lengthBytes bytes regardless of the encoded length.
func (i *Issuer) Issue() (string, error) {
	b := make([]byte, i.lengthBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

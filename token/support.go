package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrSupportTokenInvalid is returned when a support token fails signature
// or claim validation.
var ErrSupportTokenInvalid = errors.New("invalid support token")

// SupportConfig configures the [SupportSigner].
type SupportConfig struct {
	TTL        time.Duration
	Issuer     string
	SigningKey []byte
}

// SupportClaims are the claims carried by a signed support token. The
// fiscal code binds the token to one identity for assistance tooling.
type SupportClaims struct {
	FiscalCode string `json:"fiscal_code"`
	jwt.RegisteredClaims
}

// SupportSigner mints and verifies short-lived HS256 support tokens.
type SupportSigner struct {
	config SupportConfig
}

// NewSupportSigner validates the configuration and returns a [SupportSigner].
func NewSupportSigner(cfg SupportConfig) (*SupportSigner, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("support token TTL must be positive")
	}
	if len(cfg.SigningKey) < 32 {
		return nil, errors.New("support token signing key must be at least 32 bytes")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("support token issuer required")
	}
	return &SupportSigner{config: cfg}, nil
}

// Sign mints a support token bound to the given fiscal code. Each token
// carries a fresh jti so callers can correlate assistance requests.
func (s *SupportSigner) Sign(fiscalCode string) (string, error) {
	if fiscalCode == "" {
		return "", errors.New("fiscal code required")
	}

	now := time.Now()
	claims := SupportClaims{
		FiscalCode: fiscalCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.SigningKey)
}

// Verify parses a support token and returns its claims.
func (s *SupportSigner) Verify(tokenString string) (*SupportClaims, error) {
	claims := &SupportClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrSupportTokenInvalid
		}
		return s.config.SigningKey, nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Join(ErrSupportTokenInvalid, err)
	}
	if !parsed.Valid || claims.FiscalCode == "" {
		return nil, ErrSupportTokenInvalid
	}
	return claims, nil
}

package appsession

import (
	"errors"
	"time"
)

// Config defines a public type used by appsession APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token   TokenConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by appsession APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	// LengthBytes is the entropy width of every opaque token issued for
	// session records.
	LengthBytes int

	// Support token settings. Support tokens stay disabled until a signing
	// key is configured.
	SupportTTL    time.Duration
	SupportIssuer string
	SupportKey    []byte
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by appsession APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
	// TTL is the lifetime of newly created session records.
	TTL time.Duration
	// DurationFallback bounds a record rewrite whose key lost its TTL.
	DurationFallback time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by appsession APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by appsession APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the development-friendly baseline configuration.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			LengthBytes: 48,
			SupportTTL:  5 * time.Minute,
		},
		Session: SessionConfig{
			RedisPrefix:      "sess",
			TTL:              30 * 24 * time.Hour,
			DurationFallback: 30 * 24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// ProductionConfig returns [DefaultConfig] hardened for production use:
// audit on, latency histograms on.
//
// ProductionConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func ProductionConfig() Config {
	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = true
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func defaultConfig() Config {
	return DefaultConfig()
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Token.LengthBytes <= 0 {
		return errors.New("Token.LengthBytes must be positive")
	}
	if c.Session.TTL <= 0 {
		return errors.New("Session.TTL must be positive")
	}
	if c.Session.DurationFallback <= 0 {
		return errors.New("Session.DurationFallback must be positive")
	}
	if c.Session.RedisPrefix == "" {
		return errors.New("Session.RedisPrefix must not be empty")
	}
	if len(c.Token.SupportKey) > 0 {
		if c.Token.SupportTTL <= 0 {
			return errors.New("Token.SupportTTL must be positive when support tokens are enabled")
		}
		if c.Token.SupportIssuer == "" {
			return errors.New("Token.SupportIssuer required when support tokens are enabled")
		}
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.SupportKey = cloneBytes(cfg.Token.SupportKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

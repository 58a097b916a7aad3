// Package appsession is the session and identity state layer behind a
// mobile-app backend. It reconciles stored user records across schema
// generations, issues per-purpose opaque tokens exactly once per session,
// and aggregates the full session inventory of one identity.
//
// The package is designed for concurrent server workloads: Manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. The Redis store is the only shared state; there is no
// in-process locking across requests and no internal retry or timeout —
// cancellation belongs to the transport wrapping each call.
//
// # Architecture boundaries
//
// appsession is the public surface. It exposes [Manager], [Builder],
// [Config], and value types (PublicSession, SessionsList, MetricsSnapshot).
// Record persistence lives in the session sub-package, token issuance in the
// token sub-package.
//
// # What this package must NOT do
//
//   - Authenticate callers; every operation receives an identity already
//     resolved upstream.
//   - Swallow storage failures or return partially upgraded session views.
//   - Regenerate an auxiliary token that a record already carries.
package appsession

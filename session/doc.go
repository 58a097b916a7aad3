// Package session provides Redis-backed persistence for per-login user
// records and the structural generation model used to upgrade them.
//
// # Record generations
//
// Stored records are JSON documents whose schema evolved additively:
// generation 1 carries the base identity fields, generation 2 added the
// myportal token, generation 3 added the bpd token. There is no version tag
// in the document — a record's generation is computed from which optional
// token fields are present. The codec is append-only: new generations add
// fields but never reinterpret old ones.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [User] record
// model. It does NOT issue tokens, decide when a record needs upgrading, or
// build client-facing views — those responsibilities belong to the Manager.
//
// # What this package must NOT do
//
//   - Import appsession or token (no upward imports).
//   - Regenerate or drop token fields on a stored record.
//   - Hide storage failures; every Redis error surfaces wrapped in
//     [ErrRedisUnavailable].
package session

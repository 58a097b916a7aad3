// Package token issues the credentials embedded in session records.
//
// Two kinds exist: opaque fixed-length tokens drawn from the operating
// system's CSPRNG ([Issuer]), and short-lived signed support tokens for
// assistance tooling ([SupportSigner]). Opaque tokens carry no structure and
// are never parsed; support tokens are JWTs and are the only structured
// token this layer produces.
//
// The package holds no state beyond configuration and performs no
// persistence.
package token

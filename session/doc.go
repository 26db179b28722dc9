// Package session provides the session record model, its JSON wire codec, and
// Redis-backed persistence with touch-on-read expiration renewal.
//
// # Persistence model
//
// Each session is a single JSON object stored at "session:<id>" with a TTL
// equal to the session duration (30 minutes, or 30 days with rememberMe).
// Every read rewrites the record with a refreshed last-accessed timestamp and
// TTL, so an active caller never expires mid-use.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Value] model. It
// does not decide which requests need a session or what kind they must be —
// that policy belongs to the middleware gate.
//
// # What this package must NOT do
//
//   - Import the root dirauth package or middleware (no upward imports).
//   - Hold request-scoped state; the "current session" lives in the request
//     context, not here.
package session

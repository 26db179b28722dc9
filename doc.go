// Package dirauth is the session and phone-registration subsystem of the
// facility-directory platform: opaque Redis-backed sessions with sliding
// expiration, an SMS one-time-passcode registration flow, and the per-request
// gate that decides which paths require a session.
//
// The package is designed for concurrent server workloads: manager methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// dirauth is the public surface. It exposes [SessionManager],
// [RegistrationManager], [Builder], [Config], the error sentinels, and the
// audit/metrics types. Storage lives in the session and registration
// sub-packages; request policy lives in middleware; SMS delivery lives in
// sms. The entity DAOs, resource routing, and rate limiting of the wider
// platform are collaborators, not residents.
//
// # What this package must NOT do
//
//   - Expose Redis clients or key layouts in its public API.
//   - Return one-time codes on production call paths; only the SMS channel
//     and the explicit [CodeSink] hook may observe them.
//   - Keep the "current session" in package state; it rides the request
//     context.
package dirauth

// Package registration stores the transient records behind the phone
// verification flows: pending registrations and authentication challenges.
//
// # Persistence model
//
// Pending registrations live as Redis hashes at "registration:<phone>:<code>"
// with a fixed ten-minute TTL. Authentication challenge tokens live as plain
// strings at "authentication:<phone>:<token>" with a five-minute TTL. Both
// are single-use: consumption deletes the record atomically, so a code or
// token can never be redeemed twice even under concurrent confirms.
//
// # What this package must NOT do
//
//   - Generate codes, send SMS, or validate phone numbers — the registration
//     manager owns the flow; this package owns storage only.
//   - Import the root dirauth package (no upward imports).
package registration

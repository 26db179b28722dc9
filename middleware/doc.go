// Package middleware provides the per-request authentication gate: it reads
// the session header, decides from the request path whether a session is
// required and of which kind, resolves it, and hands it to downstream
// handlers through the request context.
//
// The path policy is ordered and exact: allow-list entries carry a leading
// slash and match whole paths, while the open catalog prefix "types/" has no
// leading slash on purpose — "types/peopleStatuses" is public but
// "/types/peopleStatuses" is not. Tests pin this asymmetry.
package middleware

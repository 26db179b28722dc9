package middleware

import (
	"net/http"
	"strings"

	"github.com/facilitydir/dirauth"
	"github.com/facilitydir/dirauth/session"
)

// HeaderSession is the request header that carries the opaque session ID.
const HeaderSession = "X-Session-ID"

const (
	// pathRegister completes sign-up and is the one path that demands a
	// registration session.
	pathRegister = "/peoples/register"
	// pathAdmins guards administrator management.
	pathAdmins = "/admins"
	// prefixFacilities is the public facility-search surface.
	prefixFacilities = "/facilities"
	// prefixTypes is the read-only type catalog. No leading slash: the
	// routing layer mounts it unrooted, and a slash-rooted lookalike must
	// not ride through.
	prefixTypes = "types/"
)

// noAuthPaths are the exact paths reachable without a session: the
// registration and login entry points plus operational probes.
var noAuthPaths = []string{
	"/admins/auth",
	"/customers/auth",
	"/info/health",
	"/info/ping",
	"/info/version",
	"/peoples/auth",
	"/peoples/confirm",
	"/peoples/start",
}

// Gate is the authentication gate. Wrap a router with [Gate.Handler].
type Gate struct {
	sessions *dirauth.SessionManager
}

// NewGate builds a gate over the given session manager.
func NewGate(sessions *dirauth.SessionManager) *Gate {
	return &Gate{sessions: sessions}
}

// RequiresAuth reports whether a request path needs a session. Pure function
// of the path: open prefixes and the allow-list pass, everything else — the
// empty path included — requires a session.
func (g *Gate) RequiresAuth(path string) bool {
	if path == "" {
		return true
	}
	if strings.HasPrefix(path, prefixFacilities) || strings.HasPrefix(path, prefixTypes) {
		return false
	}
	for _, p := range noAuthPaths {
		if p == path {
			return false
		}
	}
	return true
}

// Handler resolves the session for each request and rejects requests whose
// path demands a session (or a session kind) they do not have. On success
// the resolved session is available to handlers via [dirauth.Current].
func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := g.resolve(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		if sess != nil {
			r = r.WithContext(dirauth.WithCurrent(r.Context(), sess))
		}
		next.ServeHTTP(w, r)
	})
}

// resolve applies the ordered policy from the original gate: register path
// first, then the admin surface, then the general registration-session
// exclusion. A supplied session ID is always resolved — even on open paths —
// so downstream handlers may use it; only a missing ID is forgiven there.
func (g *Gate) resolve(r *http.Request) (*session.Value, error) {
	path := strings.TrimSpace(r.URL.Path)
	id := strings.TrimSpace(r.Header.Get(HeaderSession))

	if id == "" {
		if g.RequiresAuth(path) {
			return nil, dirauth.NotAuthenticated("Session ID is required.")
		}
		return nil, nil
	}

	sess, err := g.sessions.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}

	switch {
	case path == pathRegister:
		if !sess.IsRegistration() {
			return nil, dirauth.NotAuthenticated("Requires a Registration Session.")
		}
	case strings.HasPrefix(path, pathAdmins):
		if !sess.IsAdmin() {
			return nil, dirauth.NotAuthenticated("Requires an Administrative Session.")
		}
	case sess.IsRegistration() && g.RequiresAuth(path):
		return nil, dirauth.NotAuthenticated("Requires a Non-registration Session.")
	}

	return sess, nil
}

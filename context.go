package dirauth

import (
	"context"

	"github.com/facilitydir/dirauth/session"
)

type currentSessionContextKey struct{}

// WithCurrent attaches the session resolved for this request to ctx. The
// middleware gate calls it once per request; handlers read it back with
// [Current]. Request-scoped by construction — nothing leaks across pooled
// workers because the context dies with the request.
func WithCurrent(ctx context.Context, v *session.Value) context.Context {
	return context.WithValue(ctx, currentSessionContextKey{}, v)
}

// Current returns the session resolved for this request, if any.
func Current(ctx context.Context) (*session.Value, bool) {
	if ctx == nil {
		return nil, false
	}

	v, ok := ctx.Value(currentSessionContextKey{}).(*session.Value)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// RequireCurrent returns the current session or [ErrNotAuthenticated] when
// the request carried none.
func RequireCurrent(ctx context.Context) (*session.Value, error) {
	v, ok := Current(ctx)
	if !ok {
		return nil, NotAuthenticated("No current session is available.")
	}
	return v, nil
}

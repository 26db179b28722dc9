package dirauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facilitydir/dirauth/actor"
	"github.com/facilitydir/dirauth/session"
)

// SessionManager creates, resolves, promotes, and removes sessions. Every
// successful Get slides the session's expiration forward.
type SessionManager struct {
	store   *session.Store
	metrics *metricsRecorder
	audit   *auditDispatcher
}

// AddAdmin opens an administrative session.
func (m *SessionManager) AddAdmin(ctx context.Context, a *actor.Admin, rememberMe bool) (*session.Value, error) {
	return m.add(ctx, session.NewAdmin(a, rememberMe))
}

// AddPerson opens an end-user session, the direct-login path.
func (m *SessionManager) AddPerson(ctx context.Context, p *actor.Person, rememberMe bool) (*session.Value, error) {
	return m.add(ctx, session.NewPerson(p, rememberMe))
}

// AddCustomer opens an API-customer session.
func (m *SessionManager) AddCustomer(ctx context.Context, c *actor.Customer) (*session.Value, error) {
	return m.add(ctx, session.NewCustomer(c))
}

// AddRegistration opens the short-term session issued right after a phone
// number is confirmed, before sign-up completes.
func (m *SessionManager) AddRegistration(ctx context.Context, r *actor.Registration) (*session.Value, error) {
	return m.add(ctx, session.NewRegistration(r))
}

func (m *SessionManager) add(ctx context.Context, v *session.Value) (*session.Value, error) {
	if err := m.store.Save(ctx, v); err != nil {
		return nil, err
	}

	m.metrics.inc(MetricSessionCreated)
	m.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: EventSessionCreated,
		SessionID: v.ID,
		Kind:      string(v.Kind),
		Actor:     v.Name(),
		Success:   true,
	})

	return v, nil
}

// Get resolves a session by ID, touching it so the TTL slides forward.
// An absent or expired ID fails with [ErrNotAuthenticated]; store I/O
// failures propagate unchanged.
func (m *SessionManager) Get(ctx context.Context, id string) (*session.Value, error) {
	v, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			m.metrics.inc(MetricSessionMiss)
			return nil, NotAuthenticated(fmt.Sprintf("The ID '%s' is invalid.", id))
		}
		return nil, err
	}

	m.metrics.inc(MetricSessionRenewed)
	return v, nil
}

// Promote replaces a registration session with a person session under the
// same ID. The session must still resolve; expiry during sign-up forces the
// caller back to the start of the flow.
func (m *SessionManager) Promote(ctx context.Context, id string, p *actor.Person, rememberMe bool) (*session.Value, error) {
	v, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	promoted := v.Promote(p, rememberMe)
	if err := m.store.Save(ctx, promoted); err != nil {
		return nil, err
	}

	m.metrics.inc(MetricSessionPromoted)
	m.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: EventSessionPromoted,
		SessionID: promoted.ID,
		Kind:      string(promoted.Kind),
		Actor:     promoted.Name(),
		Success:   true,
	})

	return promoted, nil
}

// Remove deletes a session. Removing an absent ID is a no-op, so logout is
// always safe to repeat.
func (m *SessionManager) Remove(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return err
	}

	m.metrics.inc(MetricSessionRemoved)
	m.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: EventSessionRemoved,
		SessionID: id,
		Success:   true,
	})

	return nil
}

// RemoveCurrent deletes the session attached to the request context, if any.
func (m *SessionManager) RemoveCurrent(ctx context.Context) error {
	v, ok := Current(ctx)
	if !ok {
		return nil
	}
	return m.Remove(ctx, v.ID)
}

// Ping reports session-store availability and latency.
func (m *SessionManager) Ping(ctx context.Context) (time.Duration, error) {
	return m.store.Ping(ctx)
}

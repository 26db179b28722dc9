package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/facilitydir/dirauth/actor"
)

// Kind discriminates what a session represents. Exactly one payload field on
// [Value] is non-nil and it always matches the kind.
type Kind string

const (
	// KindRegistration is a short-term session issued after a phone number is
	// confirmed but before sign-up completes.
	KindRegistration Kind = "registration"
	// KindPerson is a fully authenticated end-user session.
	KindPerson Kind = "person"
	// KindAdmin is an administrative session.
	KindAdmin Kind = "admin"
	// KindCustomer is an API-customer session.
	KindCustomer Kind = "customer"
)

const (
	// DurationShort is the default session lifetime.
	DurationShort = 30 * time.Minute
	// DurationLong is the session lifetime when the caller asked to be
	// remembered.
	DurationLong = 30 * 24 * time.Hour
)

// Value is a single session record. The ID is the opaque token clients
// present on every request; everything else is a server-side snapshot.
type Value struct {
	ID         string        `json:"id"`
	Kind       Kind          `json:"kind"`
	RememberMe bool          `json:"rememberMe"`
	Duration   time.Duration `json:"duration"`

	Admin        *actor.Admin        `json:"admin,omitempty"`
	Person       *actor.Person       `json:"person,omitempty"`
	Customer     *actor.Customer     `json:"customer,omitempty"`
	Registration *actor.Registration `json:"registration,omitempty"`

	ExpiresAt      time.Time `json:"expiresAt"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	CreatedAt      time.Time `json:"createdAt"`
}

func duration(rememberMe bool) time.Duration {
	if rememberMe {
		return DurationLong
	}
	return DurationShort
}

func newValue(kind Kind, rememberMe bool, d time.Duration) *Value {
	now := time.Now()
	return &Value{
		ID:             uuid.NewString(),
		Kind:           kind,
		RememberMe:     rememberMe,
		Duration:       d,
		ExpiresAt:      now.Add(d),
		LastAccessedAt: now,
		CreatedAt:      now,
	}
}

// NewAdmin builds an admin session.
func NewAdmin(a *actor.Admin, rememberMe bool) *Value {
	v := newValue(KindAdmin, rememberMe, duration(rememberMe))
	v.Admin = a
	return v
}

// NewPerson builds an end-user session.
func NewPerson(p *actor.Person, rememberMe bool) *Value {
	v := newValue(KindPerson, rememberMe, duration(rememberMe))
	v.Person = p
	return v
}

// NewCustomer builds an API-customer session. Customer sessions never use the
// long duration.
func NewCustomer(c *actor.Customer) *Value {
	v := newValue(KindCustomer, false, DurationShort)
	v.Customer = c
	return v
}

// NewRegistration builds the short-term session issued after a confirmed
// phone verification.
func NewRegistration(r *actor.Registration) *Value {
	v := newValue(KindRegistration, false, DurationShort)
	v.Registration = r
	return v
}

// IsRegistration reports whether the session is a pre-sign-up session.
func (v *Value) IsRegistration() bool { return v.Kind == KindRegistration }

// IsAdmin reports whether the session belongs to an administrator.
func (v *Value) IsAdmin() bool { return v.Kind == KindAdmin }

// IsPerson reports whether the session belongs to an end user.
func (v *Value) IsPerson() bool { return v.Kind == KindPerson }

// IsCustomer reports whether the session belongs to an API customer.
func (v *Value) IsCustomer() bool { return v.Kind == KindCustomer }

// CanAdmin reports whether the session may perform full administrative
// operations (admins that are not editors).
func (v *Value) CanAdmin() bool { return v.IsAdmin() && v.Admin.CanAdmin() }

// Name returns a human-readable label for audit events.
func (v *Value) Name() string {
	switch {
	case v.Admin != nil:
		return v.Admin.ID
	case v.Person != nil:
		return v.Person.Name
	case v.Customer != nil:
		return v.Customer.Name
	case v.Registration != nil:
		return v.Registration.Phone
	}
	return ""
}

// Seconds is the store TTL for this record.
func (v *Value) Seconds() int { return int(v.Duration / time.Second) }

// Accessed moves the expiration window forward from now. Called on every
// read so active sessions slide instead of dying at a fixed point.
func (v *Value) Accessed(now time.Time) *Value {
	v.LastAccessedAt = now
	v.ExpiresAt = now.Add(v.Duration)
	return v
}

// Promote turns a registration session into a person session in place,
// preserving the ID and creation time. The caller owns writing the result
// back to the store.
func (v *Value) Promote(p *actor.Person, rememberMe bool) *Value {
	now := time.Now()
	d := duration(rememberMe)
	return &Value{
		ID:             v.ID,
		Kind:           KindPerson,
		RememberMe:     rememberMe,
		Duration:       d,
		Person:         p,
		ExpiresAt:      now.Add(d),
		LastAccessedAt: now,
		CreatedAt:      v.CreatedAt,
	}
}

package dirauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facilitydir/dirauth/actor"
	"github.com/facilitydir/dirauth/internal"
	"github.com/facilitydir/dirauth/registration"
	"github.com/facilitydir/dirauth/sms"
)

// CodeSink observes generated codes and tokens. It exists for tests and dev
// tooling only: production builds leave it unset and the SMS channel is the
// only way a code ever reaches a user.
type CodeSink func(phone, code string)

// RegistrationManager drives the phone-verification flows: OTP registration
// (Start/Confirm) and the login challenge for existing users
// (Auth/VerifyAuth). Codes and tokens are single-use and expire on their own
// when a flow is abandoned.
type RegistrationManager struct {
	store    *registration.Store
	gateway  sms.Gateway
	conf     Config
	metrics  *metricsRecorder
	audit    *auditDispatcher
	codeSink CodeSink

	// generate is swapped out by tests that need a deterministic code
	// sequence; everything else uses crypto/rand.
	generate func(length int) (string, error)
}

// Start begins registration for a phone number: validates it, generates a
// collision-free confirmation code, dispatches it over SMS, and stores the
// start request under (phone, code) for ten minutes. The code is not
// returned; only the SMS channel (and the optional [CodeSink]) carries it.
func (m *RegistrationManager) Start(ctx context.Context, req *actor.Registration) error {
	phone, err := validatePhone(req.Phone)
	if err != nil {
		return err
	}
	req.Phone = phone

	code, err := m.newCode(ctx, phone)
	if err != nil {
		return err
	}

	if err := m.send(ctx, phone, fmt.Sprintf(m.conf.SMS.RegistrationTemplate, code)); err != nil {
		return err
	}

	if err := m.store.Put(ctx, phone, code, req, m.conf.Registration.TTL); err != nil {
		return err
	}

	m.observe(phone, code)
	m.metrics.inc(MetricRegistrationStarted)
	m.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: EventRegistrationStarted,
		Phone:     phone,
		Success:   true,
	})

	return nil
}

// Confirm redeems a confirmation code and returns the original start
// request. The record is deleted atomically with the read, so a code can be
// confirmed at most once. Any miss — wrong phone, wrong code, expired, or
// already used — fails with the same [ErrInvalidCode].
func (m *RegistrationManager) Confirm(ctx context.Context, phone, code string) (*actor.Registration, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return nil, ErrInvalidCode
	}

	req, err := m.store.Consume(ctx, phone, code)
	if err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			m.metrics.inc(MetricRegistrationInvalid)
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	m.metrics.inc(MetricRegistrationConfirmed)
	m.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: EventRegistrationConfirmed,
		Phone:     phone,
		Success:   true,
	})

	return req, nil
}

// Auth begins a login challenge for an existing user: a short-lived token is
// dispatched to the phone to prove possession.
func (m *RegistrationManager) Auth(ctx context.Context, phone string) error {
	phone, err := validatePhone(phone)
	if err != nil {
		return err
	}

	token, err := m.generate(m.conf.Authentication.TokenLength)
	if err != nil {
		return err
	}

	if err := m.send(ctx, phone, fmt.Sprintf(m.conf.SMS.AuthenticationTemplate, token)); err != nil {
		return err
	}

	if err := m.store.PutToken(ctx, phone, token, m.conf.Authentication.TTL); err != nil {
		return err
	}

	m.observe(phone, token)
	m.metrics.inc(MetricAuthenticationStarted)
	m.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: EventAuthenticationStarted,
		Phone:     phone,
		Success:   true,
	})

	return nil
}

// VerifyAuth redeems a login challenge token. Single-use; any miss fails
// with the generic [ErrInvalidCode].
func (m *RegistrationManager) VerifyAuth(ctx context.Context, phone, token string) error {
	phone = strings.TrimSpace(phone)
	token = strings.TrimSpace(token)
	if phone == "" || token == "" {
		return ErrInvalidCode
	}

	if err := m.store.ConsumeToken(ctx, phone, token); err != nil {
		if errors.Is(err, registration.ErrNotFound) {
			m.metrics.inc(MetricAuthenticationInvalid)
			m.audit.Emit(ctx, AuditEvent{
				Timestamp: time.Now(),
				EventType: EventAuthenticationRejected,
				Phone:     phone,
				Success:   false,
				Error:     "invalid token",
			})
			return ErrInvalidCode
		}
		return err
	}

	m.metrics.inc(MetricAuthenticationVerified)
	m.audit.Emit(ctx, AuditEvent{
		Timestamp: time.Now(),
		EventType: EventAuthenticationVerified,
		Phone:     phone,
		Success:   true,
	})

	return nil
}

// List returns outstanding registrations, optionally for one phone number.
// Admin use only.
func (m *RegistrationManager) List(ctx context.Context, phone string) ([]registration.Pending, error) {
	return m.store.List(ctx, phone)
}

// RemoveKey cancels one pending registration by store key. Admin use only;
// idempotent.
func (m *RegistrationManager) RemoveKey(ctx context.Context, key string) error {
	return m.store.RemoveKey(ctx, key)
}

// newCode generates a confirmation code that is not already outstanding for
// this phone. The retry budget is a hard bound; exhausting it is fatal
// rather than a validation failure.
func (m *RegistrationManager) newCode(ctx context.Context, phone string) (string, error) {
	for i := 0; i < m.conf.Registration.MaxCodeAttempts; i++ {
		code, err := m.generate(m.conf.Registration.CodeLength)
		if err != nil {
			return "", err
		}

		exists, err := m.store.Exists(ctx, phone, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", ErrCodeGeneration
}

func (m *RegistrationManager) send(ctx context.Context, phone, body string) error {
	_, err := m.gateway.Send(ctx, sms.Request{From: m.conf.SMS.From, Body: body, To: phone})
	if err != nil {
		m.metrics.inc(MetricSMSFailure)
	}
	return err
}

func (m *RegistrationManager) observe(phone, code string) {
	if m.codeSink != nil {
		m.codeSink(phone, code)
	}
}

func defaultGenerate(length int) (string, error) {
	return internal.NewCode(length)
}

package dirauth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/facilitydir/dirauth/actor"
	"github.com/facilitydir/dirauth/registration"
)

func validRegistration() *actor.Registration {
	return &actor.Registration{Phone: "888-555-1000", NewUser: true, RememberMe: true}
}

func TestStartSendsCodeOverSMS(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := validRegistration()
	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("start: %v", err)
	}

	code := st.lastCode(reg.Phone)
	if len(code) != 10 {
		t.Fatalf("expected 10-char code, got %q", code)
	}
	if code != strings.ToUpper(code) {
		t.Fatalf("expected uppercase code, got %q", code)
	}

	sent := st.gateway.sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	if sent[0].To != reg.Phone {
		t.Fatalf("expected message to %s, got %s", reg.Phone, sent[0].To)
	}
	if !strings.Contains(sent[0].Body, code) {
		t.Fatalf("expected body to carry the code, got %q", sent[0].Body)
	}
}

func TestStartValidatesPhone(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	cases := []string{
		"",
		"555-1000",              // too short
		strings.Repeat("1", 33), // too long
		"888 555 1000",
		"+18885551000",
		"888-555-100a",
	}
	for _, phone := range cases {
		err := st.svc.Registrations().Start(ctx, &actor.Registration{Phone: phone})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("phone %q: expected ErrValidation, got %v", phone, err)
		}
	}

	if len(st.gateway.sent()) != 0 {
		t.Fatal("expected no messages for invalid phones")
	}
}

func TestStartTrimsPhone(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := &actor.Registration{Phone: "  888-555-1000  "}
	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("start: %v", err)
	}
	if reg.Phone != "888-555-1000" {
		t.Fatalf("expected trimmed phone, got %q", reg.Phone)
	}
}

func TestConfirmReturnsStartRequest(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := validRegistration()
	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("start: %v", err)
	}

	got, err := st.svc.Registrations().Confirm(ctx, reg.Phone, st.lastCode(reg.Phone))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Phone != reg.Phone || !got.NewUser || !got.RememberMe {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestConfirmIsSingleUse(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := validRegistration()
	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("start: %v", err)
	}
	code := st.lastCode(reg.Phone)

	if _, err := st.svc.Registrations().Confirm(ctx, reg.Phone, code); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if _, err := st.svc.Registrations().Confirm(ctx, reg.Phone, code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode on second confirm, got %v", err)
	}
}

func TestConfirmRejectsBadInput(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := validRegistration()
	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("start: %v", err)
	}

	cases := []struct{ phone, code string }{
		{"", ""},
		{reg.Phone, ""},
		{"", st.lastCode(reg.Phone)},
		{reg.Phone, "WRONGCODE0"},
		{"888-555-9999", st.lastCode(reg.Phone)},
	}
	for _, c := range cases {
		if _, err := st.svc.Registrations().Confirm(ctx, c.phone, c.code); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("phone=%q code=%q: expected ErrInvalidCode, got %v", c.phone, c.code, err)
		}
	}

	// The real pair still works after all the misses.
	if _, err := st.svc.Registrations().Confirm(ctx, reg.Phone, st.lastCode(reg.Phone)); err != nil {
		t.Fatalf("confirm after misses: %v", err)
	}
}

func TestRestartedRegistrationIssuesFreshCode(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := validRegistration()
	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("first start: %v", err)
	}
	first := st.lastCode(reg.Phone)

	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("second start: %v", err)
	}
	second := st.lastCode(reg.Phone)

	if first == second {
		t.Fatalf("expected a fresh code on restart, got %q twice", first)
	}

	// Both codes are redeemable; each exactly once.
	if _, err := st.svc.Registrations().Confirm(ctx, reg.Phone, first); err != nil {
		t.Fatalf("confirm first: %v", err)
	}
	if _, err := st.svc.Registrations().Confirm(ctx, reg.Phone, second); err != nil {
		t.Fatalf("confirm second: %v", err)
	}
}

func TestCodeCollisionRetryBudget(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := validRegistration()

	// Seed the colliding record, then force the generator to keep producing
	// the same code. All ten attempts collide and generation fails.
	if err := st.svc.registrations.store.Put(ctx, reg.Phone, "COLLIDE001", reg, DefaultConfig().Registration.TTL); err != nil {
		t.Fatalf("seed: %v", err)
	}
	st.svc.registrations.generate = func(int) (string, error) { return "COLLIDE001", nil }

	if err := st.svc.Registrations().Start(ctx, reg); !errors.Is(err, ErrCodeGeneration) {
		t.Fatalf("expected ErrCodeGeneration, got %v", err)
	}

	// Nine collisions followed by a unique code succeeds.
	attempts := 0
	st.svc.registrations.generate = func(int) (string, error) {
		attempts++
		if attempts <= 9 {
			return "COLLIDE001", nil
		}
		return "UNIQUE0001", nil
	}

	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("expected success on tenth attempt: %v", err)
	}
	if attempts != 10 {
		t.Fatalf("expected 10 generation attempts, got %d", attempts)
	}
}

func TestStartFailsWhenGatewayDown(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	st.gateway.fail = true

	reg := validRegistration()
	if err := st.svc.Registrations().Start(ctx, reg); err == nil {
		t.Fatal("expected error when gateway is down")
	}

	// Nothing redeemable may exist when the code never left the building.
	pending, err := st.svc.Registrations().List(ctx, reg.Phone)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending registration, got %+v", pending)
	}

	snap := st.svc.MetricsSnapshot()
	if snap.Counters[MetricSMSFailure] != 1 {
		t.Fatalf("expected 1 sms failure, got %d", snap.Counters[MetricSMSFailure])
	}
}

func TestAuthChallengeFlow(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	phone := "888-555-1000"
	if err := st.svc.Registrations().Auth(ctx, phone); err != nil {
		t.Fatalf("auth: %v", err)
	}

	token := st.lastCode(phone)
	if len(token) != 10 {
		t.Fatalf("expected 10-char token, got %q", token)
	}
	sent := st.gateway.sent()
	if len(sent) != 1 || !strings.Contains(sent[0].Body, token) {
		t.Fatalf("expected token in message body, got %+v", sent)
	}

	if err := st.svc.Registrations().VerifyAuth(ctx, phone, token); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := st.svc.Registrations().VerifyAuth(ctx, phone, token); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode on reuse, got %v", err)
	}
}

func TestVerifyAuthRejectsBadToken(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	if err := st.svc.Registrations().VerifyAuth(ctx, "888-555-1000", "NEVERSENT0"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}

	snap := st.svc.MetricsSnapshot()
	if snap.Counters[MetricAuthenticationInvalid] != 1 {
		t.Fatalf("expected 1 invalid verification, got %d", snap.Counters[MetricAuthenticationInvalid])
	}
}

func TestListAndRemovePending(t *testing.T) {
	st, done := newServiceTest(t)
	defer done()
	ctx := context.Background()

	reg := validRegistration()
	if err := st.svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("start: %v", err)
	}

	pending, err := st.svc.Registrations().List(ctx, reg.Phone)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending registration, got %d", len(pending))
	}

	key := registration.Key(pending[0].Phone, pending[0].Code)
	if err := st.svc.Registrations().RemoveKey(ctx, key); err != nil {
		t.Fatalf("remove: %v", err)
	}

	// The cancelled code is no longer redeemable.
	if _, err := st.svc.Registrations().Confirm(ctx, reg.Phone, pending[0].Code); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode after removal, got %v", err)
	}
}

package dirauth

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)

	ctx := context.Background()
	d.Emit(ctx, AuditEvent{EventType: EventSessionCreated, Success: true})
	d.Emit(ctx, AuditEvent{EventType: EventSessionRemoved, Success: true})
	d.Close()

	first := <-sink.Events()
	second := <-sink.Events()
	if first.EventType != EventSessionCreated || second.EventType != EventSessionRemoved {
		t.Fatalf("unexpected order: %s then %s", first.EventType, second.EventType)
	}
}

func TestDisabledDispatcherIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when auditing disabled")
	}

	// Everything is safe on a nil dispatcher.
	d.Emit(context.Background(), AuditEvent{EventType: EventSessionCreated})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero dropped on nil dispatcher")
	}
}

func TestDispatcherShedsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := sinkFunc(func(context.Context, AuditEvent) { <-block })

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	ctx := context.Background()
	// First event occupies the sink, second fills the buffer, the rest shed.
	for i := 0; i < 5; i++ {
		d.Emit(ctx, AuditEvent{EventType: EventSessionCreated})
	}

	deadline := time.After(2 * time.Second)
	for d.Dropped() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected dropped events under backpressure")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	close(block)
	d.Close()
}

type sinkFunc func(ctx context.Context, event AuditEvent)

func (f sinkFunc) Emit(ctx context.Context, event AuditEvent) { f(ctx, event) }

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now(),
		EventType: EventRegistrationStarted,
		Phone:     "888-555-1000",
		Success:   true,
	})

	line := strings.TrimSpace(buf.String())
	var event AuditEvent
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.EventType != EventRegistrationStarted || event.Phone != "888-555-1000" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestManagersEmitAuditEvents(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sink := NewChannelSink(16)
	var code string

	svc, err := New().
		WithRedis(rdb).
		WithSMS(&fakeGateway{}).
		WithAuditSink(sink).
		WithCodeSink(func(_, c string) { code = c }).
		Build()
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	ctx := context.Background()
	reg := validRegistration()
	if err := svc.Registrations().Start(ctx, reg); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Registrations().Confirm(ctx, reg.Phone, code); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.Sessions().AddRegistration(ctx, reg); err != nil {
		t.Fatalf("add session: %v", err)
	}

	// Close drains the dispatcher so the sink has seen everything.
	svc.Close()
	if svc.AuditDropped() != 0 {
		t.Fatalf("expected no dropped events, got %d", svc.AuditDropped())
	}

	want := []string{EventRegistrationStarted, EventRegistrationConfirmed, EventSessionCreated}
	for _, eventType := range want {
		event := <-sink.Events()
		if event.EventType != eventType {
			t.Fatalf("expected %s, got %s", eventType, event.EventType)
		}
		if !event.Success {
			t.Fatalf("expected success on %s", eventType)
		}
	}
}

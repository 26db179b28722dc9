package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/facilitydir/dirauth/actor"
)

func newStoreTest(t *testing.T) (*Store, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(rdb, "")
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestSaveThenGet(t *testing.T) {
	store, mr, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	v := NewPerson(&actor.Person{ID: "p-1", Name: "Jane"}, false)
	if err := store.Save(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}

	if ttl := mr.TTL(store.Key(v.ID)); ttl != DurationShort {
		t.Fatalf("expected ttl %v, got %v", DurationShort, ttl)
	}

	got, err := store.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != v.ID || got.Kind != KindPerson {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestGetTouchesRecord(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	v := NewPerson(&actor.Person{ID: "p-1"}, false)
	if err := store.Save(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}
	before := v.ExpiresAt

	time.Sleep(5 * time.Millisecond)

	got, err := store.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.ExpiresAt.After(before) {
		t.Fatalf("expected expiry to slide forward: before=%v after=%v", before, got.ExpiresAt)
	}
	if got.LastAccessedAt.Before(got.CreatedAt) {
		t.Fatalf("last accessed %v precedes creation %v", got.LastAccessedAt, got.CreatedAt)
	}

	again, err := store.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if !again.ExpiresAt.After(got.ExpiresAt) && !again.ExpiresAt.Equal(got.ExpiresAt) {
		t.Fatalf("expected expiry to keep sliding")
	}
}

func TestGetMissingID(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()

	if _, err := store.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetStaleRecordDeletes(t *testing.T) {
	store, mr, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	// A record whose logical expiry passed but whose Redis TTL has not. The
	// read must treat it as gone and clean up the key.
	v := NewPerson(&actor.Person{ID: "p-1"}, false)
	v.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Save(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}

	if _, err := store.Get(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for stale record, got %v", err)
	}
	if mr.Exists(store.Key(v.ID)) {
		t.Fatal("expected stale record to be deleted")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	v := NewRegistration(&actor.Registration{Phone: "888-555-1000"})
	if err := store.Save(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, v.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, v.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := store.Get(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRememberMeUsesLongDuration(t *testing.T) {
	store, mr, done := newStoreTest(t)
	defer done()
	ctx := context.Background()

	v := NewPerson(&actor.Person{ID: "p-1"}, true)
	if err := store.Save(ctx, v); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ttl := mr.TTL(store.Key(v.ID)); ttl != DurationLong {
		t.Fatalf("expected ttl %v, got %v", DurationLong, ttl)
	}
}

func TestPromotePreservesIdentity(t *testing.T) {
	reg := NewRegistration(&actor.Registration{Phone: "888-555-1000", NewUser: true})

	p := reg.Promote(&actor.Person{ID: "p-1", Phone: "888-555-1000"}, true)
	if p.ID != reg.ID {
		t.Fatalf("expected promoted id %q, got %q", reg.ID, p.ID)
	}
	if p.Kind != KindPerson {
		t.Fatalf("expected person kind, got %q", p.Kind)
	}
	if !p.CreatedAt.Equal(reg.CreatedAt) {
		t.Fatalf("expected creation time preserved")
	}
	if p.Duration != DurationLong {
		t.Fatalf("expected long duration after rememberMe promote, got %v", p.Duration)
	}
	if p.Registration != nil {
		t.Fatal("expected registration payload cleared")
	}
}

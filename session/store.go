package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no live record exists for a session ID.
var ErrNotFound = errors.New("session not found")

// ErrRedisUnavailable wraps any Redis I/O failure from the session store.
var ErrRedisUnavailable = errors.New("session redis unavailable")

// DefaultPrefix is the Redis key namespace for session records.
const DefaultPrefix = "session"

// Store persists [Value] records in Redis under "session:<id>" with a TTL
// equal to the session duration.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// An empty prefix selects [DefaultPrefix].
func NewStore(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{redis: client, prefix: prefix}
}

// Key returns the Redis key for a session ID.
func (s *Store) Key(id string) string { return s.prefix + ":" + id }

// Save writes a record with its full TTL. Used for creation and promotion;
// reads renew through [Store.Get].
func (s *Store) Save(ctx context.Context, v *Value) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.Key(v.ID), data, v.Duration).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Get reads a record and touches it: the last-accessed timestamp moves to
// now and the record is rewritten with a renewed TTL.
//
// The touch is a plain read-modify-rewrite, not a transaction. Concurrent
// gets on the same ID each rewrite the record and the last writer wins;
// losing a TTL refresh is harmless because every rewrite carries the same
// intent. Payloads are only replaced through promotion, which happens once
// per session, so the rewrite never clobbers a concurrent payload change.
func (s *Store) Get(ctx context.Context, id string) (*Value, error) {
	key := s.Key(id)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	v, err := Decode(data)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !v.ExpiresAt.After(now) {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	v.Accessed(now)
	renewed, err := Encode(v)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, key, renewed, v.Duration).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return v, nil
}

// Delete removes a record. Deleting an absent ID is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, s.Key(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

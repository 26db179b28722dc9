package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/facilitydir/dirauth/actor"
)

// ErrNotFound is returned when no record exists for a (phone, code) or
// (phone, token) pair. Callers translate it into a generic invalid-code
// error so the response never reveals which half was wrong.
var ErrNotFound = errors.New("registration record not found")

// ErrRedisUnavailable wraps any Redis I/O failure from the registration store.
var ErrRedisUnavailable = errors.New("registration redis unavailable")

const (
	registrationPrefix   = "registration"
	authenticationPrefix = "authentication"

	// consumeRetries bounds optimistic-transaction retries when a watched
	// key changes between read and delete.
	consumeRetries = 4
)

// Pending is one outstanding registration, as surfaced to admin listings.
type Pending struct {
	Phone   string
	Code    string
	Request *actor.Registration
}

// Key returns the registration hash key for a (phone, code) pair.
func Key(phone, code string) string {
	return registrationPrefix + ":" + phone + ":" + code
}

// TokenKey returns the authentication challenge key for a (phone, token) pair.
func TokenKey(phone, token string) string {
	return authenticationPrefix + ":" + phone + ":" + token
}

// Store persists pending registrations and authentication challenges.
type Store struct {
	redis redis.UniversalClient
}

// NewStore creates a registration [Store] backed by the given Redis client.
func NewStore(client redis.UniversalClient) *Store {
	return &Store{redis: client}
}

// Put stores a start request under (phone, code) with the given TTL.
func (s *Store) Put(ctx context.Context, phone, code string, r *actor.Registration, ttl time.Duration) error {
	key := Key(phone, code)

	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, encode(r))
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Exists reports whether a record is present for (phone, code).
func (s *Store) Exists(ctx context.Context, phone, code string) (bool, error) {
	n, err := s.redis.Exists(ctx, Key(phone, code)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// Consume fetches and deletes the record for (phone, code) in one atomic
// step. Two concurrent consumers of the same code cannot both succeed: the
// watched transaction fails for the loser and the retry observes the key
// gone.
func (s *Store) Consume(ctx context.Context, phone, code string) (*actor.Registration, error) {
	key := Key(phone, code)

	for i := 0; i < consumeRetries; i++ {
		var matched *actor.Registration

		err := s.redis.Watch(ctx, func(tx *redis.Tx) error {
			fields, err := tx.HGetAll(ctx, key).Result()
			if err != nil {
				return err
			}
			if len(fields) == 0 {
				return ErrNotFound
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			if err != nil {
				return err
			}

			matched = decode(fields)
			return nil
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}

		return matched, nil
	}

	return nil, ErrNotFound
}

// PutToken stores an authentication challenge for phone with the given TTL.
func (s *Store) PutToken(ctx context.Context, phone, token string, ttl time.Duration) error {
	if err := s.redis.Set(ctx, TokenKey(phone, token), phone, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// ConsumeToken redeems an authentication challenge. GETDEL makes the token
// single-use without a transaction.
func (s *Store) ConsumeToken(ctx context.Context, phone, token string) error {
	_, err := s.redis.GetDel(ctx, TokenKey(phone, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// List scans outstanding registrations, optionally restricted to one phone
// number. It is an admin operation, O(keys), and must not be used on request
// hot paths.
func (s *Store) List(ctx context.Context, phone string) ([]Pending, error) {
	match := registrationPrefix + ":*"
	if phone != "" {
		match = registrationPrefix + ":" + phone + ":*"
	}

	var (
		cursor uint64
		out    []Pending
	)
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, match, 1000).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}

		for _, key := range keys {
			parts := strings.SplitN(key, ":", 3)
			if len(parts) != 3 {
				continue
			}

			fields, err := s.redis.HGetAll(ctx, key).Result()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
			}
			if len(fields) == 0 {
				continue // expired between scan and read
			}

			out = append(out, Pending{Phone: parts[1], Code: parts[2], Request: decode(fields)})
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return out, nil
}

// RemoveKey deletes one pending registration by its full store key.
// Removing an absent key is not an error.
func (s *Store) RemoveKey(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

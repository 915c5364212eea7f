// Package session implements the server-side session collaborator: an
// opaque session identifier handed to the client in a cookie, mapped to an
// attribute bag held in Redis under a TTL. The identifier carries no
// meaning by itself; everything trusted about the caller lives in the bag.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no session exists for the given identifier,
// either because it never existed or because its TTL elapsed.
var ErrNotFound = errors.New("session not found")

// Attributes is the bag of values attached to a session. After a
// successful login it contains at least "user_id". The bag is stored as
// JSON, so numeric attributes come back as float64; consumers must accept
// that shape.
type Attributes map[string]any

// Store is the contract for the session collaborator. Reads and writes are
// atomic at the granularity of a whole bag; no multi-step transaction is
// offered or needed.
type Store interface {
	// New creates a session with a fresh random identifier and stores the
	// given attributes under the configured TTL.
	New(ctx context.Context, attrs Attributes) (string, error)

	// Get returns the attribute bag for id, or ErrNotFound.
	Get(ctx context.Context, id string) (Attributes, error)

	// Set replaces the attribute bag for id and resets its TTL.
	Set(ctx context.Context, id string, attrs Attributes) error

	// Rotate replaces id with a fresh identifier carrying the same
	// attributes and invalidates the old one. Used after login so that a
	// pre-authentication identifier can never name an authenticated
	// session.
	Rotate(ctx context.Context, id string) (string, error)

	// Delete removes the session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, id string) error
}

// RedisStore keeps sessions in Redis under "sess:<id>" keys. Expiry is
// entirely Redis' TTL; the store never inspects timestamps itself.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore constructs a RedisStore. ttl governs every key written by
// the store and is refreshed on each Set.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if rdb == nil {
		panic("nil redis client passed to NewRedisStore")
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func sessionKey(id string) string { return "sess:" + id }

// newSessionID returns a hex-encoded string generated from 32 bytes of
// cryptographically secure random data.
func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// New creates a session with a fresh identifier.
func (s *RedisStore) New(ctx context.Context, attrs Attributes) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	if err := s.Set(ctx, id, attrs); err != nil {
		return "", err
	}
	return id, nil
}

// Get returns the attribute bag for id.
func (s *RedisStore) Get(ctx context.Context, id string) (Attributes, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var attrs Attributes
	if err := json.Unmarshal(raw, &attrs); err != nil {
		// A bag that cannot be decoded is treated like a missing one.
		return nil, ErrNotFound
	}
	return attrs, nil
}

// Set stores the attribute bag under the configured TTL.
func (s *RedisStore) Set(ctx context.Context, id string, attrs Attributes) error {
	raw, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(id), raw, s.ttl).Err()
}

// Rotate moves the bag to a fresh identifier and deletes the old key.
func (s *RedisStore) Rotate(ctx context.Context, id string) (string, error) {
	attrs, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	newID, err := s.New(ctx, attrs)
	if err != nil {
		return "", err
	}
	if err := s.Delete(ctx, id); err != nil {
		return "", err
	}
	return newID, nil
}

// Delete removes the session key.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

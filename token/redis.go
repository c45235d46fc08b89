package token

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// expiryGrace is how long an expired record stays resident in Redis past its
// logical expiry. Within the grace window a lookup can still distinguish
// "expired" from "never existed"; after it, the key vanishes and lookups
// degrade to ErrNotFound, which the lazy-eviction contract allows.
const expiryGrace = time.Minute

// RedisStore is a token registry backed by Redis, for callers that want
// issued tokens to survive a process restart. Logical expiry is still decided
// against the injected clock; the Redis TTL is a backstop that garbage
// collects records shortly after they expire.
type RedisStore struct {
	client redis.UniversalClient
	clock  clockwork.Clock
	prefix string
}

// NewRedisStore creates a RedisStore writing keys under prefix.
func NewRedisStore(client redis.UniversalClient, clock clockwork.Clock, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "tok:"
	}
	return &RedisStore{client: client, clock: clock, prefix: prefix}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Save inserts or replaces the record under its ID.
func (s *RedisStore) Save(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ttl := rec.ExpiresAt.Sub(s.clock.Now()) + expiryGrace
	if ttl <= 0 {
		ttl = expiryGrace
	}
	return s.client.Set(context.Background(), s.key(rec.ID), data, ttl).Err()
}

// Get returns the live record for id, deleting it if expired.
func (s *RedisStore) Get(id string) (Record, error) {
	return s.load(id)
}

// Touch refreshes the record's last-access stamp, keeping the existing TTL.
func (s *RedisStore) Touch(id string) error {
	rec, err := s.load(id)
	if err != nil {
		return err
	}

	rec.LastAccess = s.clock.Now()
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(context.Background(), s.key(id), data, redis.KeepTTL).Err()
}

// Delete removes the record regardless of expiry state, returning it.
func (s *RedisStore) Delete(id string) (Record, error) {
	ctx := context.Background()
	data, err := s.client.GetDel(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Purge removes every record under the store's prefix.
func (s *RedisStore) Purge() error {
	ctx := context.Background()
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *RedisStore) load(id string) (Record, error) {
	data, err := s.client.Get(context.Background(), s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	if s.clock.Now().After(rec.ExpiresAt) {
		_ = s.client.Del(context.Background(), s.key(id)).Err()
		return Record{}, ErrExpired
	}
	return rec, nil
}

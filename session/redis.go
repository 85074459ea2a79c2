package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "quote-session:"

	// defaultTTL discards abandoned sessions
	defaultTTL = 30 * time.Minute
)

// RedisStore persists sessions in Redis with optimistic locking, so
// multiple engine instances can serve the same conversation.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A non-positive
// ttl selects the default abandonment window.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Create implements Store
func (s *RedisStore) Create(ctx context.Context, rec *Record) error {
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	rec.Version = 1

	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(rec.ID), val, s.ttl).Err()
}

// Get implements Store. Returns nil when the session is not found.
// Every read refreshes the abandonment TTL.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	key := s.key(id)
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, err
	}

	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &rec, nil
}

// Update implements Store using WATCH/MULTI/EXEC for the optimistic
// lock
func (s *RedisStore) Update(ctx context.Context, rec *Record) error {
	key := s.key(rec.ID)

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored Record
		if err := json.Unmarshal([]byte(val), &stored); err != nil {
			return err
		}
		if stored.Version != rec.Version {
			return ErrVersionConflict
		}

		rec.Version++
		rec.UpdatedAt = time.Now()

		newVal, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.ttl)
			return nil
		})
		return err
	}, key)
}

// Delete implements Store
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

// Close implements Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}

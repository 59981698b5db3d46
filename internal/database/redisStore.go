package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

const defaultUpdateRetries = 5

// RedisStore implements Store on a redis client. Update runs as an
// optimistic WATCH transaction: concurrent writers of the same key cause a
// TxFailedErr and the losing side re-reads and re-applies, bounded by
// retries.
type RedisStore struct {
	client  *redis.Client
	retries int
}

func NewRedisStore(client *redis.Client, retries int) (*RedisStore, error) {
	if retries <= 0 {
		retries = defaultUpdateRetries
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{client: client, retries: retries}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error {
	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			current = nil
		} else if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return &updateAborted{err: err}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, key)
			} else {
				pipe.Set(ctx, key, next, ttl)
			}
			return nil
		})
		return err
	}

	return runWithRetries(ctx, key, s.retries, func() error {
		return s.client.Watch(ctx, txn, key)
	})
}

// updateAborted marks an error returned by the caller's UpdateFunc so the
// retry loop passes it through instead of treating it as a store failure.
type updateAborted struct{ err error }

func (e *updateAborted) Error() string { return e.err.Error() }
func (e *updateAborted) Unwrap() error { return e.err }

// runWithRetries re-runs attempt on WATCH contention and transient client
// errors. Aborts from the update function and context cancellation end the
// loop immediately; anything still failing after retries attempts surfaces
// as ErrStorageUnavailable.
func runWithRetries(ctx context.Context, key string, retries int, attempt func() error) error {
	var err error
	for i := 0; i < retries; i++ {
		err = attempt()
		if err == nil {
			return nil
		}
		var aborted *updateAborted
		if errors.As(err, &aborted) {
			return aborted.err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return fmt.Errorf("update of %s failed after %d attempts: %w: %w",
		key, retries, err, entity.ErrStorageUnavailable)
}

func (s *RedisStore) AddToIndex(ctx context.Context, collection, member string) error {
	return s.client.SAdd(ctx, indexKey(collection), member).Err()
}

func (s *RedisStore) RemoveFromIndex(ctx context.Context, collection, member string) error {
	return s.client.SRem(ctx, indexKey(collection), member).Err()
}

func (s *RedisStore) IndexMembers(ctx context.Context, collection string) ([]string, error) {
	members, err := s.client.SMembers(ctx, indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers %s: %w", collection, err)
	}
	return members, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func indexKey(collection string) string {
	return "idx:" + collection
}

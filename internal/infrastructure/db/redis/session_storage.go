package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStorage keeps session keys in Redis so the session survives a
// restart of the dashboard or a move to another host.
// Key format: <namespace>:<key>
type SessionStorage struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewSessionStorage wraps client. A zero ttl keeps keys until deleted.
func NewSessionStorage(client *redis.Client, namespace string, ttl time.Duration) *SessionStorage {
	return &SessionStorage{client: client, namespace: namespace, ttl: ttl}
}

func (s *SessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get: %w", err)
	}
	return v, true, nil
}

// Set writes all values in one MULTI/EXEC so a reader never sees half a session.
func (s *SessionStorage) Set(ctx context.Context, values map[string]string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, s.key(k), v, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStorage) Close(context.Context) error {
	return s.client.Close()
}

func (s *SessionStorage) key(k string) string {
	return s.namespace + ":" + k
}

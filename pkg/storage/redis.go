package storage

import (
	"context"
	"errors"
	"fmt"

	redisclient "github.com/glowmart/storefront-backend/pkg/redis"
)

// RedisSlot persists a slot as a single string key in Redis.
type RedisSlot struct {
	client *redisclient.Client
	key    string
}

// NewRedisSlot builds a slot bound to the namespaced key for name.
func NewRedisSlot(client *redisclient.Client, name string) (*RedisSlot, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if name == "" {
		return nil, errors.New("slot name is required")
	}
	return &RedisSlot{client: client, key: client.SlotKey(name)}, nil
}

// Key exposes the fully namespaced Redis key backing the slot.
func (s *RedisSlot) Key() string {
	return s.key
}

func (s *RedisSlot) Read(ctx context.Context) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, redisclient.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading slot %s: %w", s.key, err)
	}
	return []byte(val), true, nil
}

func (s *RedisSlot) Write(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, string(data), 0); err != nil {
		return fmt.Errorf("writing slot %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisSlot) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key); err != nil {
		return fmt.Errorf("clearing slot %s: %w", s.key, err)
	}
	return nil
}

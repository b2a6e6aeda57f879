package cart

import (
	"context"

	"github.com/redis/go-redis/v9"

	redisclient "github.com/glowmart/storefront-backend/pkg/redis"
)

// RedisBus relays the cart change signal over a Redis pub/sub channel so
// every API instance sees writes made by its peers.
type RedisBus struct {
	client  *redisclient.Client
	channel string
}

// NewRedisBus builds a bus on the named channel, e.g. "cart:changed".
func NewRedisBus(client *redisclient.Client, channel string) *RedisBus {
	return &RedisBus{client: client, channel: channel}
}

func (b *RedisBus) Publish(ctx context.Context) error {
	// The signal is payload-free; subscribers re-read the slot.
	return b.client.Publish(ctx, b.channel, "1")
}

func (b *RedisBus) Subscribe(ctx context.Context) (RemoteSubscription, error) {
	pubsub, err := b.client.Subscribe(ctx, b.channel)
	if err != nil {
		return nil, err
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		ch:     make(chan struct{}, 1),
	}
	go sub.pump()
	return sub, nil
}

type redisSubscription struct {
	pubsub *redis.PubSub
	ch     chan struct{}
}

// pump converts driver messages into coalesced payload-free ticks.
func (s *redisSubscription) pump() {
	defer close(s.ch)
	for range s.pubsub.Channel() {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

func (s *redisSubscription) C() <-chan struct{} {
	return s.ch
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}

package cart

import (
	"context"
	"sync"

	"github.com/glowmart/storefront-backend/pkg/logger"
)

// RemoteBus carries the cart change signal across process boundaries. The
// Redis-backed implementation lives in this package; tests swap in an
// in-memory one.
type RemoteBus interface {
	// Publish emits one change signal to every other subscriber process.
	Publish(ctx context.Context) error
	// Subscribe returns a stream of inbound change signals.
	Subscribe(ctx context.Context) (RemoteSubscription, error)
}

// RemoteSubscription is a live remote signal stream.
type RemoteSubscription interface {
	// C receives one value per inbound signal. The channel closes when the
	// subscription ends.
	C() <-chan struct{}
	Close() error
}

// Subscription is a local handle on the cart change signal. C carries
// payload-free ticks; consecutive signals coalesce while the consumer is
// busy, so a tick means "re-read the cart", never "exactly one change".
type Subscription struct {
	C      <-chan struct{}
	cancel func()
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Notifier fans a payload-free change signal out to every subscriber in this
// process and, when a remote bus is attached, to other processes as well.
// Subscribers on the remote leg may also receive the local echo of their own
// broadcast; that duplicate is harmless because consumers respond by
// re-reading the store.
type Notifier struct {
	mu     sync.Mutex
	subs   map[uint64]chan struct{}
	nextID uint64
	bus    RemoteBus
	logg   *logger.Logger
}

// NewNotifier builds a notifier. bus may be nil for single-process use.
func NewNotifier(bus RemoteBus, logg *logger.Logger) *Notifier {
	return &Notifier{
		subs: make(map[uint64]chan struct{}),
		bus:  bus,
		logg: logg,
	}
}

// Subscribe registers a new consumer. The returned channel has a buffer of
// one so a slow consumer sees at most one pending tick.
func (n *Notifier) Subscribe() *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
	return &Subscription{C: ch, cancel: cancel}
}

// Broadcast signals every subscriber that the cart changed. The local fanout
// always runs; a remote publish failure is logged and swallowed because the
// durable write already succeeded.
func (n *Notifier) Broadcast(ctx context.Context) {
	n.fanout()
	if n.bus == nil {
		return
	}
	if err := n.bus.Publish(ctx); err != nil && n.logg != nil {
		n.logg.Warn(ctx, "cart change publish failed")
	}
}

func (n *Notifier) fanout() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
			// Tick already pending; coalesce.
		}
	}
}

// Run consumes the remote bus and relays inbound signals to local
// subscribers. It blocks until ctx is done or the bus stream closes, so it
// belongs in its own goroutine at startup.
func (n *Notifier) Run(ctx context.Context) error {
	if n.bus == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	sub, err := n.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-sub.C():
			if !ok {
				return nil
			}
			n.fanout()
		}
	}
}

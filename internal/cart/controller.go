package cart

import (
	"context"
	"sync"

	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
	"github.com/glowmart/storefront-backend/pkg/logger"
)

// State is the lifecycle of a cart view.
type State int

const (
	// StateLoading is the initial state before the first read completes.
	// Views render a placeholder instead of "empty cart" while loading.
	StateLoading State = iota
	// StateReady means Items reflects a real snapshot.
	StateReady
)

// Controller keeps one view's copy of the cart in sync with the store. It
// never mutates its items in place; every change replaces the whole snapshot
// with a fresh store read, so view state can not drift from durable state.
type Controller struct {
	mu    sync.Mutex
	state State
	items Snapshot

	store    Store
	notifier *Notifier
	sub      *Subscription
	logg     *logger.Logger
}

// NewController builds a detached controller. Call Mount to load the first
// snapshot and start receiving change signals.
func NewController(store Store, notifier *Notifier, logg *logger.Logger) (*Controller, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	return &Controller{store: store, notifier: notifier, logg: logg}, nil
}

// Mount performs the initial read and subscribes to change signals. The
// state moves to StateReady even when the cart is empty.
func (c *Controller) Mount(ctx context.Context) {
	c.mu.Lock()
	if c.sub == nil && c.notifier != nil {
		c.sub = c.notifier.Subscribe()
	}
	c.mu.Unlock()

	c.refresh(ctx)
}

// Unmount cancels the change subscription. The last snapshot stays readable.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sub != nil {
		c.sub.Cancel()
		c.sub = nil
	}
}

// Watch re-reads the store on every change signal until ctx is done. It
// blocks, so run it in its own goroutine after Mount.
func (c *Controller) Watch(ctx context.Context) {
	c.mu.Lock()
	sub := c.sub
	c.mu.Unlock()
	if sub == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C:
			c.refresh(ctx)
		}
	}
}

// State reports whether the first read has completed.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns the current snapshot copy.
func (c *Controller) Items() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Clone()
}

// Total sums price * quantity over the current snapshot.
func (c *Controller) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Total()
}

// Count sums quantities over the current snapshot.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Count()
}

// Remove deletes a line item through the store, then eagerly re-reads so the
// view updates without waiting for the change signal to arrive.
func (c *Controller) Remove(ctx context.Context, productID string) error {
	if err := c.store.Remove(ctx, productID); err != nil {
		return err
	}
	c.refresh(ctx)
	return nil
}

// SetQuantity updates a line item's quantity through the store. Quantities
// below 1 are rejected upstream and leave the view untouched.
func (c *Controller) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if err := c.store.SetQuantity(ctx, productID, quantity); err != nil {
		return err
	}
	c.refresh(ctx)
	return nil
}

// Clear empties the cart through the store.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	c.refresh(ctx)
	return nil
}

func (c *Controller) refresh(ctx context.Context) {
	snap := c.store.ReadAll(ctx)

	c.mu.Lock()
	c.items = snap
	c.state = StateReady
	c.mu.Unlock()
}

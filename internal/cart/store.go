package cart

import (
	"context"
	"encoding/json"
	"sync"

	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
	"github.com/glowmart/storefront-backend/pkg/logger"
	"github.com/glowmart/storefront-backend/pkg/storage"
)

// Store is the sole owner of the durable cart slot. Every read and write of
// cart state goes through it; all other components treat the slot as
// read-only.
type Store interface {
	// ReadAll returns the current snapshot. An absent, corrupted, or
	// unavailable slot yields an empty snapshot, never an error.
	ReadAll(ctx context.Context) Snapshot
	// Add merges delta into an existing line item for product.ID or appends a
	// new one. A delta below 1 is a forgiving no-op.
	Add(ctx context.Context, product Product, delta int) error
	// Remove deletes the matching line item. It persists and notifies even
	// when the id is absent so downstream views stay consistent.
	Remove(ctx context.Context, productID string) error
	// SetQuantity sets the quantity for productID. A quantity below 1 is
	// rejected without mutation or notification; an unknown id is a no-op.
	SetQuantity(ctx context.Context, productID string, quantity int) error
	// Clear empties the snapshot entirely.
	Clear(ctx context.Context) error
	// ReplaceWithSingle overwrites the whole snapshot with one line item.
	// This is the legacy buy-now path: it destroys any existing multi-item
	// cart. The checkout service stages direct purchases in a separate slot
	// instead.
	ReplaceWithSingle(ctx context.Context, product Product, quantity int) error
}

type store struct {
	mu       sync.Mutex
	slot     storage.Slot
	notifier *Notifier
	logg     *logger.Logger
}

// NewStore builds the cart store on the provided durable slot. The notifier
// may be nil for callers that do not need change signals.
func NewStore(slot storage.Slot, notifier *Notifier, logg *logger.Logger) (Store, error) {
	if slot == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart slot is required")
	}
	return &store{slot: slot, notifier: notifier, logg: logg}, nil
}

func (s *store) ReadAll(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(ctx)
}

// readLocked decodes the slot. Decode failures are treated like absence so a
// corrupted slot can never take the storefront down.
func (s *store) readLocked(ctx context.Context) Snapshot {
	raw, ok, err := s.slot.Read(ctx)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart slot unavailable, treating as empty")
		}
		return Snapshot{}
	}
	if !ok {
		return Snapshot{}
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cart slot corrupted, treating as empty")
		}
		return Snapshot{}
	}

	return sanitize(snap)
}

// sanitize drops entries that violate the snapshot invariants (missing id or
// quantity below 1) so they cannot propagate past the store boundary.
func sanitize(snap Snapshot) Snapshot {
	out := snap[:0]
	for _, item := range snap {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *store) Add(ctx context.Context, product Product, delta int) error {
	if product.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if delta < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.readLocked(ctx)
	if idx := snap.IndexOf(product.ID); idx >= 0 {
		snap[idx].Quantity += delta
	} else {
		snap = append(snap, LineItem{Product: product, Quantity: delta})
	}

	return s.persistLocked(ctx, snap)
}

func (s *store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.readLocked(ctx)
	kept := snap[:0]
	for _, item := range snap {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}

	// Persist and notify even when nothing matched, so every view re-reads
	// the same state.
	return s.persistLocked(ctx, kept)
}

func (s *store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.readLocked(ctx)
	idx := snap.IndexOf(productID)
	if idx < 0 {
		return nil
	}
	snap[idx].Quantity = quantity

	return s.persistLocked(ctx, snap)
}

func (s *store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "clear cart slot")
	}
	s.broadcast(ctx)
	return nil
}

func (s *store) ReplaceWithSingle(ctx context.Context, product Product, quantity int) error {
	if product.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistLocked(ctx, Snapshot{{Product: product, Quantity: quantity}})
}

// persistLocked writes the snapshot and broadcasts the change signal after
// the durable write completes. A failed write surfaces as a persistence
// error and suppresses the notification.
func (s *store) persistLocked(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.slot.Write(ctx, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "write cart slot")
	}
	s.broadcast(ctx)
	return nil
}

func (s *store) broadcast(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Broadcast(ctx)
	}
}

package storage

import "context"

// Slot is a single named entry in a durable key-value store. The cart keeps
// its whole snapshot in one slot, so reads and writes always move the full
// serialized value. A missing slot is a normal condition, not an error.
type Slot interface {
	// Read returns the stored bytes and whether the slot currently holds a value.
	Read(ctx context.Context) ([]byte, bool, error)
	// Write replaces the slot contents.
	Write(ctx context.Context, data []byte) error
	// Clear removes the slot entirely. Clearing an absent slot is a no-op.
	Clear(ctx context.Context) error
}

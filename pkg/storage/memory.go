package storage

import (
	"context"
	"sync"
)

// MemorySlot is an in-process Slot used by tests and single-node dev setups.
// Write failures can be injected to exercise persistence error paths.
type MemorySlot struct {
	mu      sync.Mutex
	data    []byte
	present bool

	writeErr error
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// FailWrites makes every subsequent Write and Clear return err. Pass nil to heal.
func (s *MemorySlot) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Seed stores raw bytes directly, bypassing failure injection. Useful for
// planting corrupted payloads.
func (s *MemorySlot) Seed(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.present = true
}

func (s *MemorySlot) Read(ctx context.Context) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return nil, false, nil
	}
	return append([]byte(nil), s.data...), true, nil
}

func (s *MemorySlot) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.data = append([]byte(nil), data...)
	s.present = true
	return nil
}

func (s *MemorySlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.data = nil
	s.present = false
	return nil
}

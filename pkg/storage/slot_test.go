package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemorySlotAbsentByDefault(t *testing.T) {
	t.Parallel()

	slot := NewMemorySlot()
	data, ok, err := slot.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || data != nil {
		t.Fatalf("expected absent slot, got ok=%v data=%q", ok, data)
	}
}

func TestMemorySlotRoundTrip(t *testing.T) {
	t.Parallel()

	slot := NewMemorySlot()
	ctx := context.Background()

	if err := slot.Write(ctx, []byte(`[{"id":"p1"}]`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, ok, err := slot.Read(ctx)
	if err != nil || !ok {
		t.Fatalf("expected stored value, got ok=%v err=%v", ok, err)
	}
	if string(data) != `[{"id":"p1"}]` {
		t.Fatalf("unexpected data: %s", data)
	}

	if err := slot.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok, _ := slot.Read(ctx); ok {
		t.Fatal("expected slot to be absent after clear")
	}
}

func TestMemorySlotWriteFailureInjection(t *testing.T) {
	t.Parallel()

	slot := NewMemorySlot()
	ctx := context.Background()

	if err := slot.Write(ctx, []byte(`before`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	boom := errors.New("quota exceeded")
	slot.FailWrites(boom)

	if err := slot.Write(ctx, []byte(`after`)); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	// Failed writes must not change the stored value.
	data, ok, _ := slot.Read(ctx)
	if !ok || string(data) != `before` {
		t.Fatalf("expected prior value to survive, got ok=%v data=%s", ok, data)
	}

	slot.FailWrites(nil)
	if err := slot.Write(ctx, []byte(`after`)); err != nil {
		t.Fatalf("expected healed write, got %v", err)
	}
}

func TestMemorySlotReadReturnsCopy(t *testing.T) {
	t.Parallel()

	slot := NewMemorySlot()
	ctx := context.Background()

	if err := slot.Write(ctx, []byte(`abc`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, _, _ := slot.Read(ctx)
	data[0] = 'x'

	again, _, _ := slot.Read(ctx)
	if string(again) != "abc" {
		t.Fatalf("mutating a read result leaked into the slot: %s", again)
	}
}

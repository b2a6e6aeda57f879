package cart

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
	"github.com/glowmart/storefront-backend/pkg/storage"
)

func newTestStore(t *testing.T) (Store, *storage.MemorySlot, *Notifier) {
	t.Helper()
	slot := storage.NewMemorySlot()
	notifier := NewNotifier(nil, nil)
	st, err := NewStore(slot, notifier, nil)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return st, slot, notifier
}

func serum() Product {
	return Product{ID: "p-serum", Name: "Vitamin C Serum", Price: 120}
}

func toner() Product {
	return Product{ID: "p-toner", Name: "Rice Toner", Price: 10}
}

func TestAddMergesByProductID(t *testing.T) {
	t.Parallel()
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := st.Add(ctx, toner(), 2); err != nil {
		t.Fatalf("second add: %v", err)
	}
	if err := st.Add(ctx, serum(), 3); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	snap := st.ReadAll(ctx)
	if len(snap) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(snap))
	}
	if snap[0].ID != "p-serum" || snap[0].Quantity != 4 {
		t.Fatalf("expected merged serum at position 0 with qty 4, got %+v", snap[0])
	}
	if snap[1].ID != "p-toner" || snap[1].Quantity != 2 {
		t.Fatalf("unexpected second item: %+v", snap[1])
	}
}

func TestAddRejectsNonPositiveDelta(t *testing.T) {
	t.Parallel()
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 0); err != nil {
		t.Fatalf("zero delta should be a no-op: %v", err)
	}
	if err := st.Add(ctx, serum(), -2); err != nil {
		t.Fatalf("negative delta should be a no-op: %v", err)
	}
	if snap := st.ReadAll(ctx); len(snap) != 0 {
		t.Fatalf("expected empty cart, got %+v", snap)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	st, slot, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A second store over the same slot must decode the identical snapshot.
	reread, err := NewStore(slot, nil, nil)
	if err != nil {
		t.Fatalf("second store: %v", err)
	}
	snap := reread.ReadAll(ctx)
	if len(snap) != 1 || snap[0].ID != "p-serum" || snap[0].Quantity != 2 {
		t.Fatalf("round trip lost data: %+v", snap)
	}
	if snap[0].Name != "Vitamin C Serum" || snap[0].Price != 120 {
		t.Fatalf("product fields did not survive: %+v", snap[0])
	}
}

func TestRemovePersistsAndNotifiesEvenWhenAbsent(t *testing.T) {
	t.Parallel()
	st, _, notifier := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	sub := notifier.Subscribe()
	defer sub.Cancel()

	if err := st.Remove(ctx, "no-such-product"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	select {
	case <-sub.C:
	default:
		t.Fatal("expected a change signal for removal of an absent id")
	}
	if snap := st.ReadAll(ctx); len(snap) != 1 {
		t.Fatalf("existing items should survive: %+v", snap)
	}

	if err := st.Remove(ctx, "p-serum"); err != nil {
		t.Fatalf("remove present: %v", err)
	}
	if snap := st.ReadAll(ctx); len(snap) != 0 {
		t.Fatalf("expected empty cart, got %+v", snap)
	}
}

func TestSetQuantityFloorsAtOne(t *testing.T) {
	t.Parallel()
	st, _, notifier := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	sub := notifier.Subscribe()
	defer sub.Cancel()

	if err := st.SetQuantity(ctx, "p-serum", 0); err != nil {
		t.Fatalf("qty 0 should be a silent no-op: %v", err)
	}
	if err := st.SetQuantity(ctx, "p-serum", -5); err != nil {
		t.Fatalf("negative qty should be a silent no-op: %v", err)
	}
	select {
	case <-sub.C:
		t.Fatal("rejected quantity must not emit a change signal")
	default:
	}
	if snap := st.ReadAll(ctx); snap[0].Quantity != 3 {
		t.Fatalf("expected qty unchanged at 3, got %d", snap[0].Quantity)
	}

	if err := st.SetQuantity(ctx, "p-serum", 7); err != nil {
		t.Fatalf("set qty: %v", err)
	}
	if snap := st.ReadAll(ctx); snap[0].Quantity != 7 {
		t.Fatalf("expected qty 7, got %d", snap[0].Quantity)
	}
}

func TestSetQuantityUnknownIDIsNoOp(t *testing.T) {
	t.Parallel()
	st, _, notifier := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	sub := notifier.Subscribe()
	defer sub.Cancel()

	if err := st.SetQuantity(ctx, "no-such-product", 5); err != nil {
		t.Fatalf("unknown id should be a no-op: %v", err)
	}
	select {
	case <-sub.C:
		t.Fatal("no-op must not emit a change signal")
	default:
	}
}

func TestClearResetsFully(t *testing.T) {
	t.Parallel()
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.Add(ctx, toner(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	snap := st.ReadAll(ctx)
	if len(snap) != 0 || snap.Total() != 0 || snap.Count() != 0 {
		t.Fatalf("expected fully reset cart, got %+v", snap)
	}
}

func TestReplaceWithSingleDiscardsExistingItems(t *testing.T) {
	t.Parallel()
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := st.Add(ctx, toner(), 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	mask := Product{ID: "p-mask", Name: "Clay Mask", Price: 45}
	if err := st.ReplaceWithSingle(ctx, mask, 1); err != nil {
		t.Fatalf("replace: %v", err)
	}

	snap := st.ReadAll(ctx)
	if len(snap) != 1 || snap[0].ID != "p-mask" || snap[0].Quantity != 1 {
		t.Fatalf("expected cart to contain exactly the replacement item, got %+v", snap)
	}
}

func TestReplaceWithSingleFloorsQuantity(t *testing.T) {
	t.Parallel()
	st, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.ReplaceWithSingle(ctx, serum(), 0); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if snap := st.ReadAll(ctx); snap[0].Quantity != 1 {
		t.Fatalf("expected qty floored to 1, got %d", snap[0].Quantity)
	}
}

func TestCorruptedSlotReadsAsEmpty(t *testing.T) {
	t.Parallel()
	slot := storage.NewMemorySlot()
	slot.Seed([]byte("{not json"))
	st, err := NewStore(slot, nil, nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	ctx := context.Background()

	if snap := st.ReadAll(ctx); len(snap) != 0 {
		t.Fatalf("expected empty snapshot from corrupted slot, got %+v", snap)
	}

	// The store stays usable after recovery.
	if err := st.Add(ctx, serum(), 1); err != nil {
		t.Fatalf("add after corruption: %v", err)
	}
	if snap := st.ReadAll(ctx); len(snap) != 1 {
		t.Fatalf("expected recovery write to stick, got %+v", snap)
	}
}

func TestReadDropsInvalidEntries(t *testing.T) {
	t.Parallel()
	slot := storage.NewMemorySlot()
	slot.Seed([]byte(`[{"id":"p1","name":"A","price":5,"quantity":2},{"id":"","name":"B","price":1,"quantity":1},{"id":"p3","name":"C","price":9,"quantity":0}]`))
	st, err := NewStore(slot, nil, nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	snap := st.ReadAll(context.Background())
	if len(snap) != 1 || snap[0].ID != "p1" {
		t.Fatalf("expected only the valid entry, got %+v", snap)
	}
}

func TestWriteFailureSurfacesPersistenceError(t *testing.T) {
	t.Parallel()
	st, slot, notifier := newTestStore(t)
	ctx := context.Background()

	if err := st.Add(ctx, serum(), 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	sub := notifier.Subscribe()
	defer sub.Cancel()

	slot.FailWrites(errors.New("disk gone"))
	err := st.Add(ctx, toner(), 1)
	if err == nil {
		t.Fatal("expected a persistence error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePersistence {
		t.Fatalf("expected %s, got %v", pkgerrors.CodePersistence, err)
	}
	select {
	case <-sub.C:
		t.Fatal("failed write must not emit a change signal")
	default:
	}

	// Durable state still holds the last good snapshot.
	if snap := st.ReadAll(ctx); len(snap) != 1 || snap[0].ID != "p-serum" {
		t.Fatalf("expected prior snapshot intact, got %+v", snap)
	}
}

package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/glowmart/storefront-backend/pkg/config"
	"github.com/glowmart/storefront-backend/pkg/db"
	dbtypes "github.com/glowmart/storefront-backend/pkg/db/types"
	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
)

const ordersDDL = `CREATE TABLE orders (
	id TEXT PRIMARY KEY,
	reference TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	customer_phone TEXT NOT NULL,
	customer_address TEXT NOT NULL,
	items TEXT NOT NULL,
	total INTEGER NOT NULL,
	created_at DATETIME
)`

func newTestService(t *testing.T) (Service, *service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().Exec(ordersDDL).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}

	svc, err := NewService(NewRepository(client.DB()), client, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, svc.(*service)
}

func sampleInput(userID uuid.UUID) PlaceOrderInput {
	return PlaceOrderInput{
		UserID:          userID,
		CustomerName:    "Linh Tran",
		CustomerPhone:   "0901234567",
		CustomerAddress: "12 Nguyen Hue, District 1, HCMC",
		Items: dbtypes.OrderLineItems{
			{ProductID: "p1", Name: "Vitamin C Serum", Price: 199000, Quantity: 2},
			{ProductID: "p2", Name: "Rice Toner", Price: 99000, Quantity: 1},
		},
	}
}

func TestPlaceComputesTotalAndReference(t *testing.T) {
	svc, raw := newTestService(t)
	userID := uuid.MustParse("9f8a2b1c-0000-4000-8000-000000000000")
	raw.now = func() time.Time { return time.UnixMilli(1756600000000) }

	order, err := svc.Place(context.Background(), sampleInput(userID))
	if err != nil {
		t.Fatalf("place failed: %v", err)
	}
	if order.Total != 497000 {
		t.Fatalf("expected total 497000, got %d", order.Total)
	}
	if order.Reference != "ORD-1756600000000-9f8a2b1c" {
		t.Fatalf("unexpected reference: %s", order.Reference)
	}

	found, err := svc.GetByReference(context.Background(), order.Reference)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if len(found.Items) != 2 || found.Items[0].ProductID != "p1" {
		t.Fatalf("line items did not survive persistence: %+v", found.Items)
	}
}

func TestPlaceRequiresSignedInUser(t *testing.T) {
	svc, _ := newTestService(t)

	input := sampleInput(uuid.Nil)
	_, err := svc.Place(context.Background(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestPlaceRejectsEmptyAndInvalidItems(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	input := sampleInput(userID)
	input.Items = nil
	if _, err := svc.Place(context.Background(), input); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}

	input = sampleInput(userID)
	input.Items[0].Quantity = 0
	if _, err := svc.Place(context.Background(), input); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for zero quantity, got %v", err)
	}

	input = sampleInput(userID)
	input.CustomerPhone = "   "
	if _, err := svc.Place(context.Background(), input); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for blank phone, got %v", err)
	}
}

func TestListByUserReturnsOwnOrdersNewestFirst(t *testing.T) {
	svc, raw := newTestService(t)
	alice := uuid.New()
	bob := uuid.New()

	ts := time.UnixMilli(1756600000000)
	raw.now = func() time.Time { return ts }
	if _, err := svc.Place(context.Background(), sampleInput(alice)); err != nil {
		t.Fatalf("place: %v", err)
	}
	ts = ts.Add(time.Second)
	if _, err := svc.Place(context.Background(), sampleInput(alice)); err != nil {
		t.Fatalf("place: %v", err)
	}
	if _, err := svc.Place(context.Background(), sampleInput(bob)); err != nil {
		t.Fatalf("place: %v", err)
	}

	list, err := svc.ListByUser(context.Background(), alice)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 orders for alice, got %d", len(list))
	}
	for _, o := range list {
		if o.UserID != alice {
			t.Fatalf("leaked another user's order: %+v", o)
		}
		if !strings.HasPrefix(o.Reference, "ORD-") {
			t.Fatalf("unexpected reference: %s", o.Reference)
		}
	}
}

func TestGetByReferenceNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetByReference(context.Background(), "ORD-0-deadbeef")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

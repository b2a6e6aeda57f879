package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/glowmart/storefront-backend/internal/cart"
	"github.com/glowmart/storefront-backend/internal/orders"
	"github.com/glowmart/storefront-backend/pkg/db/models"
	dbtypes "github.com/glowmart/storefront-backend/pkg/db/types"
	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
	"github.com/glowmart/storefront-backend/pkg/logger"
	"github.com/glowmart/storefront-backend/pkg/storage"
)

type productLoader interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (cart.Product, error)
}

type orderPlacer interface {
	Place(ctx context.Context, input orders.PlaceOrderInput) (*models.Order, error)
}

// Service drives the checkout flow. Buy-now stages a single item in its own
// slot so a shopper's multi-item cart is never overwritten by an impulse
// purchase; the two paths converge at order placement.
type Service interface {
	// BuyNow stages one product for direct purchase. The shared cart is not
	// read or written.
	BuyNow(ctx context.Context, productID uuid.UUID, quantity int) error
	// ResolveIntent decides the checkout mode: a staged direct item wins,
	// otherwise the shared cart is the purchase.
	ResolveIntent(ctx context.Context) (Intent, error)
	// CancelDirect discards any staged direct item, e.g. when the shopper
	// abandons the checkout page.
	CancelDirect(ctx context.Context) error
	// PlaceOrder writes the order for the resolved intent, then cleans up
	// the slot that backed it. A placement failure leaves all cart state
	// exactly as it was.
	PlaceOrder(ctx context.Context, userID uuid.UUID, customer CustomerInput) (*models.Order, error)
}

// CustomerInput is the delivery contact collected on the checkout form.
type CustomerInput struct {
	Name    string
	Phone   string
	Address string
}

type service struct {
	cartStore  cart.Store
	directSlot storage.Slot
	catalog    productLoader
	orders     orderPlacer
	logg       *logger.Logger
}

// NewService builds the checkout service with the required dependencies.
func NewService(cartStore cart.Store, directSlot storage.Slot, catalog productLoader, placer orderPlacer, logg *logger.Logger) (Service, error) {
	if cartStore == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if directSlot == nil {
		return nil, fmt.Errorf("direct purchase slot required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	return &service{
		cartStore:  cartStore,
		directSlot: directSlot,
		catalog:    catalog,
		orders:     placer,
		logg:       logg,
	}, nil
}

func (s *service) BuyNow(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}

	staged := cart.Snapshot{{Product: product, Quantity: quantity}}
	raw, err := json.Marshal(staged)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode direct purchase")
	}
	if err := s.directSlot.Write(ctx, raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "stage direct purchase")
	}
	return nil
}

func (s *service) ResolveIntent(ctx context.Context) (Intent, error) {
	staged, ok, err := s.readDirect(ctx)
	if err != nil {
		return Intent{}, err
	}
	if ok && len(staged) > 0 {
		return Intent{Mode: ModeDirect, Items: staged, Total: staged.Total()}, nil
	}

	snap := s.cartStore.ReadAll(ctx)
	return Intent{Mode: ModeCart, Items: snap, Total: snap.Total()}, nil
}

func (s *service) CancelDirect(ctx context.Context) error {
	if err := s.directSlot.Clear(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "discard direct purchase")
	}
	return nil
}

func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, customer CustomerInput) (*models.Order, error) {
	intent, err := s.ResolveIntent(ctx)
	if err != nil {
		return nil, err
	}
	if intent.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to check out")
	}

	order, err := s.orders.Place(ctx, orders.PlaceOrderInput{
		UserID:          userID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Items:           toLineItems(intent.Items),
	})
	if err != nil {
		// Cart and staged state survive so the shopper can retry.
		return nil, err
	}

	// Cleanup follows the mode: a direct purchase never clears the shared
	// cart, a cart purchase never touches the direct slot.
	switch intent.Mode {
	case ModeDirect:
		if err := s.directSlot.Clear(ctx); err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("order %s placed but direct slot cleanup failed", order.Reference))
		}
	case ModeCart:
		if err := s.cartStore.Clear(ctx); err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("order %s placed but cart cleanup failed", order.Reference))
		}
	}

	return order, nil
}

func (s *service) readDirect(ctx context.Context) (cart.Snapshot, bool, error) {
	raw, ok, err := s.directSlot.Read(ctx)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "read direct purchase")
	}
	if !ok {
		return nil, false, nil
	}
	var staged cart.Snapshot
	if err := json.Unmarshal(raw, &staged); err != nil {
		// A corrupted staged slot falls back to the cart path.
		if s.logg != nil {
			s.logg.Warn(ctx, "direct purchase slot corrupted, ignoring")
		}
		return nil, false, nil
	}
	return staged, true, nil
}

func toLineItems(items cart.Snapshot) dbtypes.OrderLineItems {
	out := make(dbtypes.OrderLineItems, 0, len(items))
	for _, item := range items {
		out = append(out, dbtypes.OrderLineItem{
			ProductID:     item.ID,
			Name:          item.Name,
			Price:         item.Price,
			OriginalPrice: item.OriginalPrice,
			Image:         item.Image,
			Category:      item.Category,
			Quantity:      item.Quantity,
		})
	}
	return out
}

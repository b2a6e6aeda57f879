package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/glowmart/storefront-backend/internal/cart"
	"github.com/glowmart/storefront-backend/internal/products"
)

// CatalogAdapter exposes the product catalog in the shape checkout needs.
type CatalogAdapter struct {
	svc products.Service
}

func NewCatalogAdapter(svc products.Service) CatalogAdapter {
	return CatalogAdapter{svc: svc}
}

func (a CatalogAdapter) GetProductByID(ctx context.Context, id uuid.UUID) (cart.Product, error) {
	dto, err := a.svc.GetProductByID(ctx, id)
	if err != nil {
		return cart.Product{}, err
	}
	return dto.CartProduct(), nil
}

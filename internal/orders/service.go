package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowmart/storefront-backend/pkg/db/models"
	dbtypes "github.com/glowmart/storefront-backend/pkg/db/types"
	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
	"github.com/glowmart/storefront-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order placement and lookups.
type Service interface {
	Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	GetByReference(ctx context.Context, reference string) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

// PlaceOrderInput carries everything needed to write one order. Line items
// arrive already resolved by checkout; the service recomputes the total from
// them so the stored figure can never disagree with the stored items.
type PlaceOrderInput struct {
	UserID          uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Items           dbtypes.OrderLineItems
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg, now: time.Now}, nil
}

func (s *service) Place(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "order placement requires a signed-in user")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no line items")
	}
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.CustomerPhone) == "" ||
		strings.TrimSpace(input.CustomerAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name, phone and address are required")
	}
	for _, item := range input.Items {
		if item.ProductID == "" || item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order line items must carry a product id and a positive quantity")
		}
	}

	var total int64
	for _, item := range input.Items {
		total += item.Price * int64(item.Quantity)
	}

	order := &models.Order{
		Reference:       s.newReference(input.UserID),
		UserID:          input.UserID,
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerAddress: strings.TrimSpace(input.CustomerAddress),
		Items:           input.Items,
		Total:           total,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create order")
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("order %s placed", order.Reference))
	}
	return order, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required")
	}
	return s.repo.FindByReference(ctx, reference)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "order history requires a signed-in user")
	}
	return s.repo.ListByUser(ctx, userID)
}

// newReference builds the human-facing order id, e.g. ORD-1756600000000-9f8a2b1c.
func (s *service) newReference(userID uuid.UUID) string {
	short := strings.ReplaceAll(userID.String(), "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ORD-%d-%s", s.now().UnixMilli(), short)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbtypes "github.com/glowmart/storefront-backend/pkg/db/types"
)

// Order is the immutable snapshot written when a checkout completes. Line
// items are denormalized so later catalog edits never rewrite order history.
type Order struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Reference       string                 `gorm:"column:reference;not null;uniqueIndex"`
	UserID          uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	CustomerName    string                 `gorm:"column:customer_name;not null"`
	CustomerPhone   string                 `gorm:"column:customer_phone;not null"`
	CustomerAddress string                 `gorm:"column:customer_address;not null"`
	Items           dbtypes.OrderLineItems `gorm:"column:items;type:jsonb;not null"`
	Total           int64                  `gorm:"column:total;not null"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns an id when the database default is unavailable,
// e.g. on sqlite.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog listing. Prices are whole VND; the currency has no
// decimal subunit in this domain.
type Product struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Description   string    `gorm:"column:description;not null;default:''"`
	Price         int64     `gorm:"column:price;not null"`
	OriginalPrice *int64    `gorm:"column:original_price"`
	Image         string    `gorm:"column:image;not null;default:''"`
	Category      string    `gorm:"column:category;not null;default:''"`
	IsNew         bool      `gorm:"column:is_new;not null;default:false"`
	IsSale        bool      `gorm:"column:is_sale;not null;default:false"`
	TikTokLink    *string   `gorm:"column:tiktok_link"`
	ShopeeLink    *string   `gorm:"column:shopee_link"`
	Slug          *string   `gorm:"column:slug"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns an id when the database default is unavailable,
// e.g. on sqlite.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

package products

import (
	"time"

	"github.com/glowmart/storefront-backend/internal/cart"
	"github.com/glowmart/storefront-backend/pkg/db/models"
)

// ProductDTO is the API shape of a catalog listing. JSON keys match the
// storefront clients' persisted cart layout so a product can be dropped
// straight into a cart line item.
type ProductDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"originalPrice,omitempty"`
	Image         string    `json:"image,omitempty"`
	Category      string    `json:"category,omitempty"`
	IsNew         bool      `json:"isNew,omitempty"`
	IsSale        bool      `json:"isSale,omitempty"`
	TikTokLink    string    `json:"tiktokLink,omitempty"`
	ShopeeLink    string    `json:"shopeeLink,omitempty"`
	Slug          string    `json:"slug,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CategoryDTO is the API shape of a browse category.
type CategoryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon,omitempty"`
}

func toProductDTO(m *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:            m.ID.String(),
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		Image:         m.Image,
		Category:      m.Category,
		IsNew:         m.IsNew,
		IsSale:        m.IsSale,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.TikTokLink != nil {
		dto.TikTokLink = *m.TikTokLink
	}
	if m.ShopeeLink != nil {
		dto.ShopeeLink = *m.ShopeeLink
	}
	if m.Slug != nil {
		dto.Slug = *m.Slug
	}
	return dto
}

func toCategoryDTO(m *models.Category) *CategoryDTO {
	dto := &CategoryDTO{
		ID:   m.ID.String(),
		Name: m.Name,
		Slug: m.Slug,
	}
	if m.Icon != nil {
		dto.Icon = *m.Icon
	}
	return dto
}

// CartProduct converts a DTO into the denormalized value the cart stores.
func (d *ProductDTO) CartProduct() cart.Product {
	return cart.Product{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Image:         d.Image,
		Category:      d.Category,
		IsNew:         d.IsNew,
		IsSale:        d.IsSale,
		TikTokLink:    d.TikTokLink,
		ShopeeLink:    d.ShopeeLink,
		Slug:          d.Slug,
	}
}

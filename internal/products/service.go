package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/glowmart/storefront-backend/pkg/db"
	"github.com/glowmart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
)

// Service exposes catalog reads for the storefront and writes for admin use.
type Service interface {
	GetProducts(ctx context.Context, category string) ([]ProductDTO, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	AddProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetCategories(ctx context.Context) ([]CategoryDTO, error)
	AddCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         int64
	OriginalPrice *int64
	Image         string
	Category      string
	IsNew         bool
	IsSale        bool
	TikTokLink    *string
	ShopeeLink    *string
	Slug          *string
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *int64
	OriginalPrice *int64
	Image         *string
	Category      *string
	IsNew         *bool
	IsSale        *bool
	TikTokLink    *string
	ShopeeLink    *string
	Slug          *string
}

// CreateCategoryInput holds the payload to create a browse category.
type CreateCategoryInput struct {
	Name string
	Slug string
	Icon *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) GetProducts(ctx context.Context, category string) ([]ProductDTO, error) {
	list, err := s.repo.ListProducts(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *toProductDTO(&list[i]))
	}
	return out, nil
}

func (s *service) GetProductByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

func (s *service) AddProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.OriginalPrice != nil && *input.OriginalPrice < input.Price {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "original price cannot be below the sale price")
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Image:         input.Image,
		Category:      input.Category,
		IsNew:         input.IsNew,
		IsSale:        input.IsSale,
		TikTokLink:    input.TikTokLink,
		ShopeeLink:    input.ShopeeLink,
		Slug:          input.Slug,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).CreateProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "create product")
		}
		product = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	var updated *models.Product
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindProductByID(ctx, id)
		if err != nil {
			return err
		}
		applyProductUpdates(product, input)
		if product.Price < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updated, err = repo.SaveProduct(ctx, product)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductDTO(updated), nil
}

func applyProductUpdates(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = input.OriginalPrice
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}
	if input.IsSale != nil {
		product.IsSale = *input.IsSale
	}
	if input.TikTokLink != nil {
		product.TikTokLink = input.TikTokLink
	}
	if input.ShopeeLink != nil {
		product.ShopeeLink = input.ShopeeLink
	}
	if input.Slug != nil {
		product.Slug = input.Slug
	}
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteProduct(ctx, id)
	})
}

func (s *service) GetCategories(ctx context.Context) ([]CategoryDTO, error) {
	list, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryDTO, 0, len(list))
	for i := range list {
		out = append(out, *toCategoryDTO(&list[i]))
	}
	return out, nil
}

func (s *service) AddCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name and slug are required")
	}

	category := &models.Category{
		Name: strings.TrimSpace(input.Name),
		Slug: strings.ToLower(strings.TrimSpace(input.Slug)),
		Icon: input.Icon,
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).CreateCategory(ctx, category)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "create category")
		}
		category = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toCategoryDTO(category), nil
}

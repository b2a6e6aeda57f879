package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/glowmart/storefront-backend/pkg/config"
	"github.com/glowmart/storefront-backend/pkg/db"
	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
)

const catalogDDL = `
CREATE TABLE products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price INTEGER NOT NULL,
	original_price INTEGER,
	image TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	is_new BOOLEAN NOT NULL DEFAULT 0,
	is_sale BOOLEAN NOT NULL DEFAULT 0,
	tiktok_link TEXT,
	shopee_link TEXT,
	slug TEXT,
	created_at DATETIME,
	updated_at DATETIME
);
CREATE TABLE categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	icon TEXT,
	created_at DATETIME
);`

func newCatalogService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().Exec(catalogDDL).Error; err != nil {
		t.Fatalf("create tables: %v", err)
	}

	svc, err := NewService(NewRepository(client.DB()), client)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func serumInput() CreateProductInput {
	orig := int64(250000)
	return CreateProductInput{
		Name:          "Vitamin C Serum",
		Description:   "Brightening serum",
		Price:         199000,
		OriginalPrice: &orig,
		Image:         "/images/serum.jpg",
		Category:      "skincare",
		IsSale:        true,
	}
}

func TestAddAndGetProduct(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, serumInput())
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	found, err := svc.GetProductByID(ctx, uuid.MustParse(created.ID))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found.Name != "Vitamin C Serum" || found.Price != 199000 {
		t.Fatalf("unexpected product: %+v", found)
	}
	if found.OriginalPrice == nil || *found.OriginalPrice != 250000 {
		t.Fatalf("original price lost: %+v", found)
	}
}

func TestAddProductValidation(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	input := serumInput()
	input.Name = "  "
	if _, err := svc.AddProduct(ctx, input); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	input = serumInput()
	low := int64(100)
	input.OriginalPrice = &low
	if _, err := svc.AddProduct(ctx, input); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for original below sale price, got %v", err)
	}
}

func TestGetProductsFiltersByCategory(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	if _, err := svc.AddProduct(ctx, serumInput()); err != nil {
		t.Fatalf("add: %v", err)
	}
	lipstick := serumInput()
	lipstick.Name = "Velvet Lipstick"
	lipstick.Category = "makeup"
	if _, err := svc.AddProduct(ctx, lipstick); err != nil {
		t.Fatalf("add: %v", err)
	}

	all, err := svc.GetProducts(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	makeup, err := svc.GetProducts(ctx, "makeup")
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(makeup) != 1 || makeup[0].Name != "Velvet Lipstick" {
		t.Fatalf("unexpected filtered result: %+v", makeup)
	}
}

func TestUpdateProductAppliesPartialChanges(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, serumInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	newPrice := int64(149000)
	updated, err := svc.UpdateProduct(ctx, uuid.MustParse(created.ID), UpdateProductInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 149000 {
		t.Fatalf("price not updated: %+v", updated)
	}
	if updated.Name != created.Name {
		t.Fatalf("untouched field changed: %+v", updated)
	}
}

func TestDeleteProduct(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.AddProduct(ctx, serumInput())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	id := uuid.MustParse(created.ID)

	if err := svc.DeleteProduct(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.GetProductByID(ctx, id)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	err = svc.DeleteProduct(ctx, id)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	if _, err := svc.AddCategory(ctx, CreateCategoryInput{Name: "Skincare", Slug: "Skincare"}); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if _, err := svc.AddCategory(ctx, CreateCategoryInput{Name: "Makeup", Slug: "makeup"}); err != nil {
		t.Fatalf("add category: %v", err)
	}

	// Duplicate slug is a conflict.
	if _, err := svc.AddCategory(ctx, CreateCategoryInput{Name: "Other", Slug: "makeup"}); pkgerrors.As(err) == nil {
		t.Fatalf("expected conflict for duplicate slug, got %v", err)
	}

	list, err := svc.GetCategories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
	if list[0].Name != "Makeup" || list[0].Slug != "makeup" {
		t.Fatalf("expected alphabetical order with lowered slug, got %+v", list)
	}
}

func TestCartProductConversion(t *testing.T) {
	t.Parallel()

	orig := int64(250000)
	dto := ProductDTO{ID: "p1", Name: "Serum", Price: 199000, OriginalPrice: &orig, Category: "skincare", IsSale: true}
	cp := dto.CartProduct()
	if cp.ID != "p1" || cp.Price != 199000 || !cp.IsSale {
		t.Fatalf("unexpected cart product: %+v", cp)
	}
	if cp.OriginalPrice == nil || *cp.OriginalPrice != 250000 {
		t.Fatalf("original price lost: %+v", cp)
	}
}

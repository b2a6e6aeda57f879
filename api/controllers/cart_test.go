package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	cartsvc "github.com/glowmart/storefront-backend/internal/cart"
	"github.com/glowmart/storefront-backend/internal/products"
	pkgerrors "github.com/glowmart/storefront-backend/pkg/errors"
	"github.com/glowmart/storefront-backend/pkg/storage"
)

var catalogSerumID = uuid.MustParse("11111111-1111-4111-8111-111111111111")

// stubCatalog serves a single known product.
type stubCatalog struct{}

func (stubCatalog) GetProducts(ctx context.Context, category string) ([]products.ProductDTO, error) {
	return nil, nil
}

func (stubCatalog) GetProductByID(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	if id != catalogSerumID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &products.ProductDTO{ID: id.String(), Name: "Vitamin C Serum", Price: 199000}, nil
}

func (stubCatalog) AddProduct(ctx context.Context, input products.CreateProductInput) (*products.ProductDTO, error) {
	return nil, nil
}

func (stubCatalog) UpdateProduct(ctx context.Context, id uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return nil, nil
}

func (stubCatalog) DeleteProduct(ctx context.Context, id uuid.UUID) error { return nil }

func (stubCatalog) GetCategories(ctx context.Context) ([]products.CategoryDTO, error) {
	return nil, nil
}

func (stubCatalog) AddCategory(ctx context.Context, input products.CreateCategoryInput) (*products.CategoryDTO, error) {
	return nil, nil
}

func newCartRouter(t *testing.T) (chi.Router, cartsvc.Store) {
	t.Helper()
	notifier := cartsvc.NewNotifier(nil, nil)
	store, err := cartsvc.NewStore(storage.NewMemorySlot(), notifier, nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	view, err := cartsvc.NewController(store, notifier, nil)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	view.Mount(context.Background())

	r := chi.NewRouter()
	r.Get("/cart", CartFetch(view, nil))
	r.Get("/cart/count", CartCount(view, nil))
	r.Post("/cart/items", CartAdd(store, stubCatalog{}, nil))
	r.Patch("/cart/items/{productId}", CartSetQuantity(view, nil))
	r.Delete("/cart/items/{productId}", CartRemove(view, nil))
	r.Delete("/cart", CartClear(view, nil))
	return r, store
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode failed: %v, body: %s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestCartFetchEmpty(t *testing.T) {
	t.Parallel()
	r, _ := newCartRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := decodeCart(t, rec)
	if len(data.Items) != 0 || data.Total != 0 || data.Count != 0 {
		t.Fatalf("expected empty cart, got %+v", data)
	}
}

func TestCartAddThenFetch(t *testing.T) {
	t.Parallel()
	r, _ := newCartRouter(t)

	body := `{"productId":"` + catalogSerumID.String() + `","quantity":2}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeCart(t, rec)
	if len(data.Items) != 1 || data.Items[0].Quantity != 2 || data.Total != 398000 {
		t.Fatalf("unexpected cart: %+v", data)
	}

	// The view sees the write through the eager refresh or change signal.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart/count", nil))
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if envelope.Data["count"] != 2 {
		t.Fatalf("expected badge count 2, got %d", envelope.Data["count"])
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	t.Parallel()
	r, _ := newCartRouter(t)

	body := `{"productId":"` + uuid.NewString() + `"}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartAddRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	r, _ := newCartRouter(t)

	body := `{"productId":"` + catalogSerumID.String() + `","evil":true}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartSetQuantityAndRemove(t *testing.T) {
	t.Parallel()
	r, store := newCartRouter(t)
	ctx := context.Background()

	if err := store.Add(ctx, cartsvc.Product{ID: catalogSerumID.String(), Name: "Vitamin C Serum", Price: 199000}, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/cart/items/"+catalogSerumID.String(), strings.NewReader(`{"quantity":5}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if data := decodeCart(t, rec); data.Items[0].Quantity != 5 {
		t.Fatalf("expected qty 5, got %+v", data)
	}

	// Quantity below 1 is rejected by validation.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/cart/items/"+catalogSerumID.String(), strings.NewReader(`{"quantity":0}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for qty 0, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart/items/"+catalogSerumID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if data := decodeCart(t, rec); len(data.Items) != 0 {
		t.Fatalf("expected empty cart after remove, got %+v", data)
	}
}

func TestCartClear(t *testing.T) {
	t.Parallel()
	r, store := newCartRouter(t)
	ctx := context.Background()

	if err := store.Add(ctx, cartsvc.Product{ID: "a", Name: "A", Price: 100}, 2); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if data := decodeCart(t, rec); len(data.Items) != 0 || data.Count != 0 {
		t.Fatalf("expected cleared cart, got %+v", data)
	}
}

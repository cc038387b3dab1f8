package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/platform/httpx"
	"github.com/ida-management/backoffice/internal/platform/validation"
	"github.com/ida-management/backoffice/internal/search"
	"github.com/ida-management/backoffice/internal/services"
)

// ProductHandlers serves catalogue administration.
type ProductHandlers struct {
	products services.ProductService
}

// NewProductHandlers constructs product handlers backed by the given service.
func NewProductHandlers(products services.ProductService) *ProductHandlers {
	return &ProductHandlers{products: products}
}

// Register mounts the product routes on the given router.
func (h *ProductHandlers) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{productID}", h.Get)
	r.Put("/{productID}", h.Update)
	r.Delete("/{productID}", h.Delete)
}

type productDetailPayload struct {
	ID         string `json:"id"`
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Price      string `json:"price"`
	PriceMinor int64  `json:"priceMinor"`
	Currency   string `json:"currency"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

type upsertProductRequest struct {
	SKU        string `json:"sku" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Type       string `json:"type" validate:"required"`
	PriceMinor int64  `json:"priceMinor" validate:"gte=0"`
	Currency   string `json:"currency" validate:"required,len=3"`
	Active     bool   `json:"active"`
}

func buildProductPayload(product *domain.Product) productDetailPayload {
	return productDetailPayload{
		ID:         product.ID,
		SKU:        product.SKU,
		Name:       product.Name,
		Type:       string(product.Type),
		Price:      search.FormatAmount(product.PriceMinor),
		PriceMinor: product.PriceMinor,
		Currency:   product.Currency,
		Active:     product.Active,
		CreatedAt:  formatTime(product.CreatedAt),
		UpdatedAt:  formatTime(product.UpdatedAt),
	}
}

// List renders every product matching the optional search term.
func (h *ProductHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.products.ListProducts(ctx, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payloads := make([]productDetailPayload, 0, len(products))
	for _, product := range products {
		payloads = append(payloads, buildProductPayload(product))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"products": payloads})
}

// Get renders one product.
func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.products.GetProduct(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildProductPayload(product))
}

// Create registers a new product.
func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, ok := decodeProductRequest(ctx, w, r)
	if !ok {
		return
	}

	product, err := h.products.CreateProduct(ctx, cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, buildProductPayload(product))
}

// Update replaces a product's editable fields.
func (h *ProductHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, ok := decodeProductRequest(ctx, w, r)
	if !ok {
		return
	}

	product, err := h.products.UpdateProduct(ctx, chi.URLParam(r, "productID"), cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildProductPayload(product))
}

// Delete removes a product.
func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.products.DeleteProduct(ctx, chi.URLParam(r, "productID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeProductRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (services.UpsertProductCommand, bool) {
	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return services.UpsertProductCommand{}, false
	}
	var req upsertProductRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return services.UpsertProductCommand{}, false
	}
	if err := validation.Struct(req); err != nil {
		writeServiceError(ctx, w, err)
		return services.UpsertProductCommand{}, false
	}

	productType, ok := domain.ParseProductType(req.Type)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("unknown product type %q", req.Type), http.StatusBadRequest))
		return services.UpsertProductCommand{}, false
	}

	return services.UpsertProductCommand{
		SKU:        req.SKU,
		Name:       req.Name,
		Type:       productType,
		PriceMinor: req.PriceMinor,
		Currency:   req.Currency,
		Active:     req.Active,
	}, true
}

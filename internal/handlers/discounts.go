package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/platform/httpx"
	"github.com/ida-management/backoffice/internal/platform/validation"
	"github.com/ida-management/backoffice/internal/services"
)

// DiscountHandlers serves coupon code administration.
type DiscountHandlers struct {
	discounts services.DiscountService
}

// NewDiscountHandlers constructs discount handlers backed by the given service.
func NewDiscountHandlers(discounts services.DiscountService) *DiscountHandlers {
	return &DiscountHandlers{discounts: discounts}
}

// Register mounts the discount routes on the given router.
func (h *DiscountHandlers) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{discountID}", h.Get)
	r.Put("/{discountID}", h.Update)
	r.Delete("/{discountID}", h.Delete)
}

type discountDetailPayload struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Percent    int     `json:"percent"`
	Active     bool    `json:"active"`
	StartsAt   *string `json:"startsAt,omitempty"`
	EndsAt     *string `json:"endsAt,omitempty"`
	UsageLimit *int    `json:"usageLimit,omitempty"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

type upsertDiscountRequest struct {
	Code       string  `json:"code" validate:"required"`
	Percent    int     `json:"percent" validate:"gte=1,lte=100"`
	Active     bool    `json:"active"`
	StartsAt   *string `json:"startsAt"`
	EndsAt     *string `json:"endsAt"`
	UsageLimit *int    `json:"usageLimit"`
}

func buildDiscountPayload(discount *domain.Discount) discountDetailPayload {
	return discountDetailPayload{
		ID:         discount.ID,
		Code:       discount.Code,
		Percent:    discount.Percent,
		Active:     discount.Active,
		StartsAt:   formatTimePtr(discount.StartsAt),
		EndsAt:     formatTimePtr(discount.EndsAt),
		UsageLimit: discount.UsageLimit,
		CreatedAt:  formatTime(discount.CreatedAt),
		UpdatedAt:  formatTime(discount.UpdatedAt),
	}
}

// List renders every discount matching the optional search term.
func (h *DiscountHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	discounts, err := h.discounts.ListDiscounts(ctx, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payloads := make([]discountDetailPayload, 0, len(discounts))
	for _, discount := range discounts {
		payloads = append(payloads, buildDiscountPayload(discount))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"discounts": payloads})
}

// Get renders one discount.
func (h *DiscountHandlers) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	discount, err := h.discounts.GetDiscount(ctx, chi.URLParam(r, "discountID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildDiscountPayload(discount))
}

// Create registers a new discount code.
func (h *DiscountHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, ok := decodeDiscountRequest(ctx, w, r)
	if !ok {
		return
	}

	discount, err := h.discounts.CreateDiscount(ctx, cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, buildDiscountPayload(discount))
}

// Update replaces a discount's editable fields.
func (h *DiscountHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, ok := decodeDiscountRequest(ctx, w, r)
	if !ok {
		return
	}

	discount, err := h.discounts.UpdateDiscount(ctx, chi.URLParam(r, "discountID"), cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildDiscountPayload(discount))
}

// Delete removes a discount.
func (h *DiscountHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.discounts.DeleteDiscount(ctx, chi.URLParam(r, "discountID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeDiscountRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (services.UpsertDiscountCommand, bool) {
	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return services.UpsertDiscountCommand{}, false
	}
	var req upsertDiscountRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return services.UpsertDiscountCommand{}, false
	}
	if err := validation.Struct(req); err != nil {
		writeServiceError(ctx, w, err)
		return services.UpsertDiscountCommand{}, false
	}

	cmd := services.UpsertDiscountCommand{
		Code:       req.Code,
		Percent:    req.Percent,
		Active:     req.Active,
		UsageLimit: req.UsageLimit,
	}

	startsAt, err := parseTimePtr(req.StartsAt)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "startsAt must be RFC 3339", http.StatusBadRequest))
		return services.UpsertDiscountCommand{}, false
	}
	cmd.StartsAt = startsAt

	endsAt, err := parseTimePtr(req.EndsAt)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "endsAt must be RFC 3339", http.StatusBadRequest))
		return services.UpsertDiscountCommand{}, false
	}
	cmd.EndsAt = endsAt

	return cmd, true
}

func parseTimePtr(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

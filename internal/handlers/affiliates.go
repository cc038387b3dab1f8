package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/platform/httpx"
	"github.com/ida-management/backoffice/internal/platform/validation"
	"github.com/ida-management/backoffice/internal/search"
	"github.com/ida-management/backoffice/internal/services"
)

// AffiliateHandlers serves referral partner administration.
type AffiliateHandlers struct {
	affiliates services.AffiliateService
}

// NewAffiliateHandlers constructs affiliate handlers backed by the given service.
func NewAffiliateHandlers(affiliates services.AffiliateService) *AffiliateHandlers {
	return &AffiliateHandlers{affiliates: affiliates}
}

// Register mounts the affiliate routes on the given router.
func (h *AffiliateHandlers) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{affiliateID}", h.Get)
	r.Put("/{affiliateID}", h.Update)
	r.Delete("/{affiliateID}", h.Delete)
	r.Get("/{affiliateID}/payout", h.Payout)
}

type affiliateDetailPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	ReferralCode  string `json:"referralCode"`
	Channel       string `json:"channel,omitempty"`
	CommissionBps int    `json:"commissionBps"`
	Active        bool   `json:"active"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

type affiliatePayoutPayload struct {
	Affiliate       affiliateDetailPayload `json:"affiliate"`
	OrderCount      int                    `json:"orderCount"`
	Attributed      string                 `json:"attributed"`
	AttributedMinor int64                  `json:"attributedMinor"`
	Commission      string                 `json:"commission"`
	CommissionMinor int64                  `json:"commissionMinor"`
	Currency        string                 `json:"currency,omitempty"`
}

type upsertAffiliateRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	ReferralCode  string `json:"referralCode" validate:"required"`
	Channel       string `json:"channel"`
	CommissionBps int    `json:"commissionBps" validate:"gte=0,lte=10000"`
	Active        bool   `json:"active"`
}

func buildAffiliatePayload(affiliate *domain.Affiliate) affiliateDetailPayload {
	return affiliateDetailPayload{
		ID:            affiliate.ID,
		Name:          affiliate.Name,
		Email:         affiliate.Email,
		ReferralCode:  affiliate.ReferralCode,
		Channel:       affiliate.Channel,
		CommissionBps: affiliate.CommissionBps,
		Active:        affiliate.Active,
		CreatedAt:     formatTime(affiliate.CreatedAt),
		UpdatedAt:     formatTime(affiliate.UpdatedAt),
	}
}

// List renders every affiliate matching the optional search term.
func (h *AffiliateHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	affiliates, err := h.affiliates.ListAffiliates(ctx, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payloads := make([]affiliateDetailPayload, 0, len(affiliates))
	for _, affiliate := range affiliates {
		payloads = append(payloads, buildAffiliatePayload(affiliate))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"affiliates": payloads})
}

// Get renders one affiliate.
func (h *AffiliateHandlers) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	affiliate, err := h.affiliates.GetAffiliate(ctx, chi.URLParam(r, "affiliateID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildAffiliatePayload(affiliate))
}

// Create registers a new affiliate.
func (h *AffiliateHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeAffiliateRequest(ctx, w, r)
	if !ok {
		return
	}

	affiliate, err := h.affiliates.CreateAffiliate(ctx, req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, buildAffiliatePayload(affiliate))
}

// Update replaces an affiliate's editable fields.
func (h *AffiliateHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeAffiliateRequest(ctx, w, r)
	if !ok {
		return
	}

	affiliate, err := h.affiliates.UpdateAffiliate(ctx, chi.URLParam(r, "affiliateID"), req)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildAffiliatePayload(affiliate))
}

// Delete removes an affiliate.
func (h *AffiliateHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.affiliates.DeleteAffiliate(ctx, chi.URLParam(r, "affiliateID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Payout summarises commission owed to one affiliate.
func (h *AffiliateHandlers) Payout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payout, err := h.affiliates.PayoutSummary(ctx, chi.URLParam(r, "affiliateID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, affiliatePayoutPayload{
		Affiliate:       buildAffiliatePayload(payout.Affiliate),
		OrderCount:      payout.OrderCount,
		Attributed:      search.FormatAmount(payout.AttributedMinor),
		AttributedMinor: payout.AttributedMinor,
		Commission:      search.FormatAmount(payout.CommissionMinor),
		CommissionMinor: payout.CommissionMinor,
		Currency:        payout.Currency,
	})
}

func decodeAffiliateRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (services.UpsertAffiliateCommand, bool) {
	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return services.UpsertAffiliateCommand{}, false
	}
	var req upsertAffiliateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return services.UpsertAffiliateCommand{}, false
	}
	if err := validation.Struct(req); err != nil {
		writeServiceError(ctx, w, err)
		return services.UpsertAffiliateCommand{}, false
	}
	return services.UpsertAffiliateCommand{
		Name:          req.Name,
		Email:         req.Email,
		ReferralCode:  req.ReferralCode,
		Channel:       req.Channel,
		CommissionBps: req.CommissionBps,
		Active:        req.Active,
	}, true
}

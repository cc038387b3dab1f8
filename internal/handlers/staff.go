package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/platform/httpx"
	"github.com/ida-management/backoffice/internal/platform/validation"
	"github.com/ida-management/backoffice/internal/services"
)

// StaffHandlers serves staff account administration. Routes are mounted behind
// an admin role requirement.
type StaffHandlers struct {
	staff services.StaffService
}

// NewStaffHandlers constructs staff handlers backed by the given service.
func NewStaffHandlers(staff services.StaffService) *StaffHandlers {
	return &StaffHandlers{staff: staff}
}

// Register mounts the staff routes on the given router.
func (h *StaffHandlers) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{staffID}", h.Get)
	r.Put("/{staffID}", h.Update)
	r.Delete("/{staffID}", h.Delete)
}

type staffDetailPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type upsertStaffRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required"`
	Active bool   `json:"active"`
}

func buildStaffPayload(user *domain.StaffUser) staffDetailPayload {
	return staffDetailPayload{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Active:    user.Active,
		CreatedAt: formatTime(user.CreatedAt),
		UpdatedAt: formatTime(user.UpdatedAt),
	}
}

// List renders every staff user matching the optional search term.
func (h *StaffHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.staff.ListStaff(ctx, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	payloads := make([]staffDetailPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, buildStaffPayload(user))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"staff": payloads})
}

// Get renders one staff user.
func (h *StaffHandlers) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.staff.GetStaff(ctx, chi.URLParam(r, "staffID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildStaffPayload(user))
}

// Create registers a new staff account.
func (h *StaffHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, ok := decodeStaffRequest(ctx, w, r)
	if !ok {
		return
	}

	user, err := h.staff.CreateStaff(ctx, cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, buildStaffPayload(user))
}

// Update replaces a staff account's editable fields.
func (h *StaffHandlers) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, ok := decodeStaffRequest(ctx, w, r)
	if !ok {
		return
	}

	user, err := h.staff.UpdateStaff(ctx, chi.URLParam(r, "staffID"), cmd)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildStaffPayload(user))
}

// Delete removes a staff account.
func (h *StaffHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.staff.DeleteStaff(ctx, chi.URLParam(r, "staffID")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeStaffRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (services.UpsertStaffCommand, bool) {
	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return services.UpsertStaffCommand{}, false
	}
	var req upsertStaffRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return services.UpsertStaffCommand{}, false
	}
	if err := validation.Struct(req); err != nil {
		writeServiceError(ctx, w, err)
		return services.UpsertStaffCommand{}, false
	}

	role := domain.StaffRole(strings.ToLower(strings.TrimSpace(req.Role)))
	switch role {
	case domain.StaffRoleAdmin, domain.StaffRoleOperator, domain.StaffRoleViewer:
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("unknown staff role %q", req.Role), http.StatusBadRequest))
		return services.UpsertStaffCommand{}, false
	}

	return services.UpsertStaffCommand{
		Name:   req.Name,
		Email:  req.Email,
		Role:   role,
		Active: req.Active,
	}, true
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/export"
	"github.com/ida-management/backoffice/internal/platform/auth"
	"github.com/ida-management/backoffice/internal/platform/httpx"
	"github.com/ida-management/backoffice/internal/platform/requestctx"
	"github.com/ida-management/backoffice/internal/services"
)

// OrderHandlers serves the order list, detail, and operator actions.
type OrderHandlers struct {
	orders services.OrderService
}

// NewOrderHandlers constructs order handlers backed by the given service.
func NewOrderHandlers(orders services.OrderService) *OrderHandlers {
	return &OrderHandlers{orders: orders}
}

// Register mounts the order routes on the given router.
func (h *OrderHandlers) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/{orderID}", h.Get)
	r.Post("/{orderID}:status", h.ChangeStatus)
	r.Post("/{orderID}:internal-status", h.SetInternalStatus)
	r.Post("/{orderID}/documents/{slot}:review", h.ReviewDocument)
	r.Post("/{orderID}:tracking", h.SetTracking)
	r.Post("/{orderID}:fulfillment", h.AssignFulfillment)
	r.Post("/{orderID}:production", h.SetProductionFlags)
	r.Post("/{orderID}:archive", h.Archive)
}

// List renders one page of orders matching the query parameters.
func (h *OrderHandlers) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := parseListQuery(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	list, err := h.orders.ListOrders(ctx, query)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderListPayload(list))
}

// Get renders one order in full.
func (h *OrderHandlers) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.orders.GetOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderDetailPayload(order))
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus moves an order to a new lifecycle status.
func (h *OrderHandlers) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req changeStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	status, ok := domain.ParseOrderStatus(req.Status)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("unknown order status %q", req.Status), http.StatusBadRequest))
		return
	}

	order, err := h.orders.ChangeStatus(ctx, services.ChangeStatusCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Status:  status,
		Actor:   actorFromContext(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderDetailPayload(order))
}

type setInternalStatusRequest struct {
	InternalStatus string `json:"internalStatus"`
}

// SetInternalStatus moves an order's triage state.
func (h *OrderHandlers) SetInternalStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req setInternalStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	status, ok := domain.ParseInternalStatus(req.InternalStatus)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("unknown internal status %q", req.InternalStatus), http.StatusBadRequest))
		return
	}

	order, err := h.orders.SetInternalStatus(ctx, services.SetInternalStatusCommand{
		OrderID:        chi.URLParam(r, "orderID"),
		InternalStatus: status,
		Actor:          actorFromContext(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderDetailPayload(order))
}

type reviewDocumentRequest struct {
	Status        string `json:"status"`
	RejectionNote string `json:"rejectionNote"`
}

type reviewDocumentResponse struct {
	Order            orderDetailPayload `json:"order"`
	NotificationSent bool               `json:"notificationSent"`
}

// ReviewDocument records an approve/reject decision for one document slot.
func (h *OrderHandlers) ReviewDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slot, ok := domain.ParseDocumentSlot(chi.URLParam(r, "slot"))
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("unknown document slot %q", chi.URLParam(r, "slot")), http.StatusBadRequest))
		return
	}

	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req reviewDocumentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	status, ok := domain.ParseDocumentStatus(req.Status)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("unknown document status %q", req.Status), http.StatusBadRequest))
		return
	}

	result, err := h.orders.ReviewDocument(ctx, services.ReviewDocumentCommand{
		OrderID:       chi.URLParam(r, "orderID"),
		Slot:          slot,
		Status:        status,
		RejectionNote: req.RejectionNote,
		Actor:         actorFromContext(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reviewDocumentResponse{
		Order:            buildOrderDetailPayload(result.Order),
		NotificationSent: result.NotificationSent,
	})
}

type setTrackingRequest struct {
	Carrier string `json:"carrier"`
	Number  string `json:"number"`
}

// SetTracking attaches carrier details to an order.
func (h *OrderHandlers) SetTracking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req setTrackingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	order, err := h.orders.SetTracking(ctx, services.SetTrackingCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Carrier: req.Carrier,
		Number:  req.Number,
		Actor:   actorFromContext(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderDetailPayload(order))
}

type assignFulfillmentRequest struct {
	Region string `json:"region"`
}

// AssignFulfillment routes an order to an operations centre. An empty region
// derives the assignment from the shipping country.
func (h *OrderHandlers) AssignFulfillment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req assignFulfillmentRequest
	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err == nil {
		if jsonErr := json.Unmarshal(body, &req); jsonErr != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
			return
		}
	} else if !errors.Is(err, errEmptyBody) {
		writeBodyError(ctx, w, err)
		return
	}

	var region domain.FulfillmentRegion
	if strings.TrimSpace(req.Region) != "" {
		parsed, ok := domain.ParseFulfillmentRegion(req.Region)
		if !ok {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", fmt.Sprintf("unknown fulfillment region %q", req.Region), http.StatusBadRequest))
			return
		}
		region = parsed
	}

	order, err := h.orders.AssignFulfillment(ctx, services.AssignFulfillmentCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Region:  region,
		Actor:   actorFromContext(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderDetailPayload(order))
}

type setProductionFlagsRequest struct {
	Generated *bool `json:"generated"`
	Printed   *bool `json:"printed"`
}

// SetProductionFlags updates licence production progress.
func (h *OrderHandlers) SetProductionFlags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, defaultMaxBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req setProductionFlagsRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is not valid JSON", http.StatusBadRequest))
		return
	}

	order, err := h.orders.SetProductionFlags(ctx, services.SetProductionFlagsCommand{
		OrderID:   chi.URLParam(r, "orderID"),
		Generated: req.Generated,
		Printed:   req.Printed,
		Actor:     actorFromContext(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderDetailPayload(order))
}

// Archive removes an order from the active list.
func (h *OrderHandlers) Archive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.orders.ArchiveOrder(ctx, services.ArchiveOrderCommand{
		OrderID: chi.URLParam(r, "orderID"),
		Actor:   actorFromContext(r),
	})
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildOrderDetailPayload(order))
}

// ExportCSV streams the filtered order set as a CSV download.
func (h *OrderHandlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := parseListQuery(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	if err := h.orders.ExportCSV(ctx, query, w); err != nil {
		requestctx.Logger(ctx).Error("csv export failed", zap.Error(err))
	}
}

func parseListQuery(r *http.Request) (services.ListOrdersQuery, error) {
	values := r.URL.Query()
	query := services.ListOrdersQuery{
		Search: strings.TrimSpace(values.Get("search")),
	}

	if raw := values.Get("status"); raw != "" {
		status, ok := domain.ParseOrderStatus(raw)
		if !ok {
			return query, fmt.Errorf("unknown order status %q", raw)
		}
		query.Status = status
	}
	if raw := values.Get("internal_status"); raw != "" {
		status, ok := domain.ParseInternalStatus(raw)
		if !ok {
			return query, fmt.Errorf("unknown internal status %q", raw)
		}
		query.InternalStatus = status
	}
	if raw := values.Get("payment_status"); raw != "" {
		status, ok := domain.ParsePaymentStatus(raw)
		if !ok {
			return query, fmt.Errorf("unknown payment status %q", raw)
		}
		query.PaymentStatus = status
	}
	if raw := values.Get("region"); raw != "" {
		region, ok := domain.ParseFulfillmentRegion(raw)
		if !ok {
			return query, fmt.Errorf("unknown fulfillment region %q", raw)
		}
		query.Region = region
	}
	if raw := values.Get("product_type"); raw != "" {
		productType, ok := domain.ParseProductType(raw)
		if !ok {
			return query, fmt.Errorf("unknown product type %q", raw)
		}
		query.ProductType = productType
	}
	if raw := values.Get("delivery_type"); raw != "" {
		deliveryType, ok := domain.ParseDeliveryType(raw)
		if !ok {
			return query, fmt.Errorf("unknown delivery type %q", raw)
		}
		query.DeliveryType = deliveryType
	}
	if raw := values.Get("archived"); raw != "" {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			return query, fmt.Errorf("archived must be true or false")
		}
		query.Archived = archived
	}

	switch sort := strings.ToLower(strings.TrimSpace(values.Get("sort"))); sort {
	case "":
	case string(services.SortByDate), string(services.SortByAmount), string(services.SortByCustomer), string(services.SortByStatus):
		query.SortBy = services.SortField(sort)
	default:
		return query, fmt.Errorf("unknown sort field %q", sort)
	}
	switch dir := strings.ToLower(strings.TrimSpace(values.Get("sort_dir"))); dir {
	case "", "asc":
	case "desc":
		query.SortDesc = true
	default:
		return query, fmt.Errorf("sort_dir must be asc or desc")
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query, fmt.Errorf("page must be a positive integer")
		}
		query.Page = page
	}
	if raw := values.Get("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 {
			return query, fmt.Errorf("per_page must be a positive integer")
		}
		query.PerPage = perPage
	}

	return query, nil
}

func actorFromContext(r *http.Request) string {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return ""
	}
	return identity.Email
}

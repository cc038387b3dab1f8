package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/platform/auth"
	"github.com/ida-management/backoffice/internal/repositories/memory"
	"github.com/ida-management/backoffice/internal/services"
)

var testNow = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func identityMiddleware(identity auth.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), &identity)))
		})
	}
}

func newTestRouter(t *testing.T, identity auth.Identity) chi.Router {
	t.Helper()

	registry := memory.NewRegistry()
	registry.Seed(testNow)

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Orders: registry.Orders(),
		Clock:  func() time.Time { return testNow },
	})
	require.NoError(t, err)

	affiliateService, err := services.NewAffiliateService(services.AffiliateServiceDeps{
		Affiliates: registry.Affiliates(),
		Orders:     registry.Orders(),
		Clock:      func() time.Time { return testNow },
	})
	require.NoError(t, err)

	discountService, err := services.NewDiscountService(services.DiscountServiceDeps{
		Discounts: registry.Discounts(),
		Clock:     func() time.Time { return testNow },
	})
	require.NoError(t, err)

	productService, err := services.NewProductService(services.ProductServiceDeps{
		Products: registry.Products(),
		Clock:    func() time.Time { return testNow },
	})
	require.NoError(t, err)

	staffService, err := services.NewStaffService(services.StaffServiceDeps{
		Staff: registry.Staff(),
		Clock: func() time.Time { return testNow },
	})
	require.NoError(t, err)

	return NewRouter(
		WithMiddlewares(identityMiddleware(identity)),
		WithOrderRoutes(NewOrderHandlers(orderService).Register),
		WithAffiliateRoutes(NewAffiliateHandlers(affiliateService).Register),
		WithDiscountRoutes(NewDiscountHandlers(discountService).Register),
		WithProductRoutes(NewProductHandlers(productService).Register),
		WithStaffRoutes(NewStaffHandlers(staffService).Register),
		WithStaffMiddlewares(auth.RequireRole(domain.StaffRoleAdmin)),
	)
}

func adminIdentity() auth.Identity {
	return auth.Identity{Subject: "staff-admin", Name: "Lena Hoffmann", Email: "lena@ida.example", Role: domain.StaffRoleAdmin}
}

func doRequest(t *testing.T, router chi.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestListOrders(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	orders := payload["orders"].([]any)
	assert.Len(t, orders, 5, "archived orders stay out of the default list")

	summary := payload["summary"].(map[string]any)
	assert.EqualValues(t, 5, summary["total"])
}

func TestListOrdersFilterByStatus(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	orders := payload["orders"].([]any)
	require.Len(t, orders, 1)
	first := orders[0].(map[string]any)
	assert.Equal(t, "completed", first["status"])
}

func TestListOrdersRejectsUnknownStatus(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, rec)["error"])
}

func TestGetOrder(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/order-2041", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "order-2041", payload["id"])
	documents := payload["documents"].([]any)
	assert.Len(t, documents, 3)
}

func TestGetOrderNotFound(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/order-nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestChangeStatus(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041:status", map[string]string{"status": "on_hold"})
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "on_hold", payload["status"])

	activity := payload["activity"].([]any)
	require.NotEmpty(t, activity)
	last := activity[len(activity)-1].(map[string]any)
	assert.Equal(t, "order.status.changed", last["type"])
	assert.Equal(t, "lena@ida.example", last["actor"])
}

func TestChangeStatusSameStatusConflict(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041:status", map[string]string{"status": "processing"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "status_unchanged", decodeBody(t, rec)["error"])
}

func TestChangeStatusUnknownValue(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041:status", map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReviewDocumentRejectionRequiresNote(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041/documents/front:review", map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, rec)["error"])
}

func TestReviewDocumentApprove(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041/documents/selfie:review", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	order := payload["order"].(map[string]any)
	documents := order["documents"].([]any)

	var selfie map[string]any
	for _, doc := range documents {
		entry := doc.(map[string]any)
		if entry["slot"] == "selfie" {
			selfie = entry
		}
	}
	require.NotNil(t, selfie)
	assert.Equal(t, "approved", selfie["status"])
	assert.Equal(t, "lena@ida.example", selfie["reviewedBy"])
	assert.Equal(t, false, payload["notificationSent"])
}

func TestReviewDocumentUnknownSlot(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041/documents/passport:review", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetTracking(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041:tracking", map[string]string{
		"carrier": "Royal Mail",
		"number":  "RM123456789GB",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	tracking := payload["tracking"].(map[string]any)
	assert.Equal(t, "Royal Mail", tracking["carrier"])
	assert.Equal(t, "RM123456789GB", tracking["number"])
}

func TestAssignFulfillmentDerivesRegion(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	// order-2041 ships to Brazil, which the UK centre serves.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041:fulfillment", map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	payload := decodeBody(t, rec)
	fulfillment := payload["fulfillment"].(map[string]any)
	assert.Equal(t, "uk_op", fulfillment["region"])
}

func TestArchiveOrder(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041:archive", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeBody(t, rec)
	assert.NotNil(t, payload["archivedAt"])

	rec = doRequest(t, router, http.MethodPost, "/api/v1/orders/order-2041:archive", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders?archived=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeBody(t, rec)["orders"].([]any)
	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.(map[string]any)["id"].(string))
	}
	assert.Contains(t, ids, "order-2041")
}

func TestExportCSV(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/orders/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, "orderId,customer,email,amount,currency,status,paymentStatus,date,trackingCarrier,trackingNumber", strings.TrimSpace(lines[0]))
	assert.Len(t, lines, 6, "header plus five active orders")
}

func TestAffiliateCRUDAndPayout(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/affiliates", map[string]any{
		"name":          "Expat Forum",
		"email":         "ads@expatforum.example",
		"referralCode":  "expat20",
		"commissionBps": 2000,
		"active":        true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, "EXPAT20", created["referralCode"])

	affiliateID := created["id"].(string)
	rec = doRequest(t, router, http.MethodGet, "/api/v1/affiliates/"+affiliateID+"/payout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	payout := decodeBody(t, rec)
	assert.EqualValues(t, 0, payout["orderCount"])

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/affiliates/"+affiliateID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAffiliateCreateReportsFieldErrors(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/affiliates", map[string]any{
		"email":         "not-an-email",
		"commissionBps": 500,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	payload := decodeBody(t, rec)
	assert.Equal(t, "invalid_request", payload["error"])
	details := payload["details"].(map[string]any)
	fields := details["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "referralCode")
}

func TestDiscountRejectsDuplicateCode(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	// DRIVE10 ships in the seed data.
	rec := doRequest(t, router, http.MethodPost, "/api/v1/discounts", map[string]any{
		"code":    "drive10",
		"percent": 15,
		"active":  true,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeBody(t, rec)["error"])
}

func TestProductCreateValidatesType(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":        "IDA-GOLD",
		"name":       "Gold Pack",
		"type":       "hologram",
		"priceMinor": 9900,
		"currency":   "USD",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffRoutesRequireAdmin(t *testing.T) {
	operator := auth.Identity{Subject: "staff-op", Email: "ops@ida.example", Role: domain.StaffRoleOperator}
	router := newTestRouter(t, operator)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/staff", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "operators keep access to orders")
}

func TestStaffCRUDAsAdmin(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/staff", map[string]any{
		"name":   "Nadia Osei",
		"email":  "Nadia@IDA.example",
		"role":   "operator",
		"active": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	assert.Equal(t, "nadia@ida.example", created["email"])

	rec = doRequest(t, router, http.MethodGet, "/api/v1/staff", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	staff := decodeBody(t, rec)["staff"].([]any)
	assert.Len(t, staff, 4, "three seeded accounts plus the new one")
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t, adminIdentity())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/nothing-here", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route_not_found", decodeBody(t, rec)["error"])
}

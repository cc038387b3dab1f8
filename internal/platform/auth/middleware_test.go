package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ida-management/backoffice/internal/domain"
)

const testIssuer = "ida-backoffice"

var testSecret = []byte("test-secret-0123456789")

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return raw
}

func freshClaims(role string) Claims {
	return Claims{
		Name:  "Lena Hoffmann",
		Email: "lena@ida.example",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "staff-001",
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	a := NewAuthenticator(testSecret, WithIssuer(testIssuer))

	identity, err := a.Verify(signToken(t, freshClaims("admin")))
	require.NoError(t, err)
	assert.Equal(t, "staff-001", identity.Subject)
	assert.Equal(t, "lena@ida.example", identity.Email)
	assert.Equal(t, domain.StaffRoleAdmin, identity.Role)
}

func TestVerifyUnknownRoleFallsBackToViewer(t *testing.T) {
	a := NewAuthenticator(testSecret, WithIssuer(testIssuer))

	identity, err := a.Verify(signToken(t, freshClaims("superuser")))
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleViewer, identity.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	a := NewAuthenticator(testSecret, WithIssuer(testIssuer))

	claims := freshClaims("operator")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	_, err := a.Verify(signToken(t, claims))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongIssuer(t *testing.T) {
	a := NewAuthenticator(testSecret, WithIssuer(testIssuer))

	claims := freshClaims("operator")
	claims.Issuer = "someone-else"

	_, err := a.Verify(signToken(t, claims))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyTamperedToken(t *testing.T) {
	a := NewAuthenticator(testSecret, WithIssuer(testIssuer))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, freshClaims("admin"))
	raw, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = a.Verify(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	a := NewAuthenticator(testSecret, WithIssuer(testIssuer))

	handler := a.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	a := NewAuthenticator(testSecret, WithIssuer(testIssuer))

	var seen *Identity
	handler := a.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, freshClaims("operator")))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, domain.StaffRoleOperator, seen.Role)
}

func TestMiddlewareDisabledUsesFallback(t *testing.T) {
	a := NewAuthenticator(nil, WithDisabled(Identity{Subject: "local", Email: "dev@ida.example", Role: domain.StaffRoleAdmin}))

	var seen *Identity
	handler := a.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "dev@ida.example", seen.Email)
}

func TestRequireRole(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		identity *Identity
		need     domain.StaffRole
		want     int
	}{
		{"admin passes admin gate", &Identity{Role: domain.StaffRoleAdmin}, domain.StaffRoleAdmin, http.StatusOK},
		{"operator passes operator gate", &Identity{Role: domain.StaffRoleOperator}, domain.StaffRoleOperator, http.StatusOK},
		{"admin passes operator gate", &Identity{Role: domain.StaffRoleAdmin}, domain.StaffRoleOperator, http.StatusOK},
		{"viewer fails operator gate", &Identity{Role: domain.StaffRoleViewer}, domain.StaffRoleOperator, http.StatusForbidden},
		{"operator fails admin gate", &Identity{Role: domain.StaffRoleOperator}, domain.StaffRoleAdmin, http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithIdentity(req.Context(), tc.identity))

			rec := httptest.NewRecorder()
			RequireRole(tc.need)(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireRole(domain.StaffRoleViewer)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

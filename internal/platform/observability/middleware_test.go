package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ida-management/backoffice/internal/domain"
	"github.com/ida-management/backoffice/internal/platform/auth"
)

func withIdentity(identity *auth.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		})
	}
}

func TestRequestLoggerRecordsActor(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	identity := &auth.Identity{Subject: "staff-001", Email: "lena@ida.example", Role: domain.StaffRoleAdmin}

	// Identity is attached before the request logger runs, matching the
	// middleware order the server wires.
	handler := InjectLoggerMiddleware(logger)(
		withIdentity(identity)(
			RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "lena@ida.example", fields["actor"])
	assert.Equal(t, "GET", fields["method"])
}

func TestRequestLoggerActorEmptyWithoutIdentity(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	handler := InjectLoggerMiddleware(logger)(
		RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].ContextMap()["actor"])
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	status := http.StatusOK
	handler := InjectLoggerMiddleware(logger)(
		RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})))

	for _, tc := range []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zap.InfoLevel},
		{http.StatusNotFound, zap.WarnLevel},
		{http.StatusInternalServerError, zap.ErrorLevel},
	} {
		status = tc.status
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		entries := logs.TakeAll()
		require.Len(t, entries, 1)
		assert.Equal(t, tc.level, entries[0].Level, "status %d", tc.status)
		assert.EqualValues(t, tc.status, entries[0].ContextMap()["status"])
	}
}

func TestSanitizeHelpers(t *testing.T) {
	assert.Equal(t, "lena@ida.example", SanitizeActor("lena@ida.example\n"))
	assert.Equal(t, "GET", SanitizeMethod("G\x00ET"))
	assert.Equal(t, "/", SanitizeRoute(""))
	assert.Len(t, SanitizeRoute(strings.Repeat("a", 300)), maxRouteLen)
}

package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	apperrors "github.com/smartsec/portal-bff/internal/errors"
	"github.com/smartsec/portal-bff/internal/upstream"
)

func dashboardResponses() func(call upstream.Call) (upstream.Response, error) {
	return func(call upstream.Call) (upstream.Response, error) {
		switch call.Path {
		case "/activities":
			return upstream.Response{Status: 200, Body: []byte(`[{"id":"a1"}]`)}, nil
		case "/threats":
			return upstream.Response{Status: 200, Body: []byte(`[{"id":"t1"}]`)}, nil
		case "/devices":
			return upstream.Response{Status: 200, Body: []byte(`[{"id":"d1"}]`)}, nil
		case "/stats":
			return upstream.Response{Status: 200, Body: []byte(`{"devices":1}`)}, nil
		}
		return upstream.Response{}, apperrors.Upstream(404, "unknown path "+call.Path)
	}
}

func TestDashboardSummary_AggregatesScoped(t *testing.T) {
	caller := &fakeCaller{respond: dashboardResponses()}
	h := &DashboardHandlers{Telemetry: caller, Timeout: time.Second}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	ctx := SetIdentityInContext(req.Context(), domainauth.Identity{
		ID:    "user-9",
		Email: "u@smartsec.com",
		Role:  domainauth.RoleUser,
	})
	rec := httptest.NewRecorder()
	h.Summary(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user-9", user["id"])
	assert.Equal(t, []any{map[string]any{"id": "a1"}}, body["activities"])
	assert.Equal(t, []any{map[string]any{"id": "t1"}}, body["threats"])

	// Both fan-out calls carry the caller scope.
	require.Len(t, caller.calls, 2)
	for _, call := range caller.calls {
		assert.Equal(t, "user-9", call.Query.Get("user_id"), "path %s", call.Path)
	}
}

func TestDashboardSummary_AdminUnscoped(t *testing.T) {
	caller := &fakeCaller{respond: dashboardResponses()}
	h := &DashboardHandlers{Telemetry: caller, Timeout: time.Second}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	ctx := SetIdentityInContext(req.Context(), domainauth.Identity{ID: "admin-1", Role: domainauth.RoleAdmin})
	rec := httptest.NewRecorder()
	h.Summary(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	for _, call := range caller.calls {
		assert.Empty(t, call.Query.Get("user_id"))
	}
}

func TestDashboardSummary_PartialFailureFailsWhole(t *testing.T) {
	caller := &fakeCaller{
		respond: func(call upstream.Call) (upstream.Response, error) {
			if call.Path == "/threats" {
				return upstream.Response{}, apperrors.Unavailable("Telemetry service unavailable", nil)
			}
			return upstream.Response{Status: 200, Body: []byte(`[]`)}, nil
		},
	}
	h := &DashboardHandlers{Telemetry: caller, Timeout: time.Second}

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	ctx := SetIdentityInContext(req.Context(), domainauth.Identity{ID: "u", Role: domainauth.RoleUser})
	rec := httptest.NewRecorder()
	h.Summary(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestFleet_Aggregates(t *testing.T) {
	caller := &fakeCaller{respond: dashboardResponses()}
	h := &DashboardHandlers{Telemetry: caller, Timeout: time.Second}

	req := httptest.NewRequest(http.MethodGet, "/api/fleet", nil)
	ctx := SetIdentityInContext(req.Context(), domainauth.Identity{ID: "admin-1", Role: domainauth.RoleAdmin})
	rec := httptest.NewRecorder()
	h.Fleet(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{map[string]any{"id": "d1"}}, body["devices"])
	assert.Equal(t, []any{map[string]any{"id": "t1"}}, body["threats"])
	assert.Equal(t, map[string]any{"devices": float64(1)}, body["stats"])
	assert.Len(t, caller.calls, 3)
}

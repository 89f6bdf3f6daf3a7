package httpx

import (
	"context"
	"net/http"
	"net/url"
	"time"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	apperrors "github.com/smartsec/portal-bff/internal/errors"
	"github.com/smartsec/portal-bff/internal/http/validation"
	"github.com/smartsec/portal-bff/internal/upstream"
)

// UpstreamCaller abstracts the upstream client for handler tests.
type UpstreamCaller interface {
	Do(ctx context.Context, call upstream.Call) (upstream.Response, error)
}

// TelemetryHandlers proxies requests to the telemetry API. Non-admin callers
// are always scoped to their own data via an injected user_id parameter.
type TelemetryHandlers struct {
	Client  UpstreamCaller
	Timeout time.Duration
}

// queryParam couples a query parameter with its validator.
type queryParam struct {
	name      string
	validator validation.Validator
}

var (
	limitParam            = queryParam{"limit", validation.Optional(validation.IntRange("limit", 1, 100))}
	offsetParam           = queryParam{"offset", validation.Optional(validation.MinInt("offset", 0))}
	typeParam             = queryParam{"type", validation.Optional(validation.OneOf("type", []string{"process", "container", "network"}))}
	severityParam         = queryParam{"severity", validation.Optional(validation.OneOf("severity", []string{"low", "medium", "high", "critical"}))}
	deviceIDParam         = queryParam{"device_id", validation.Any()}
	requiredDeviceIDParam = queryParam{"device_id", validation.Required("device_id")}
)

// validateQuery checks the listed params and builds the forwarded query from
// exactly those params. Unknown client params are dropped.
func validateQuery(r *http.Request, params []queryParam) (url.Values, error) {
	var details []apperrors.FieldError
	forwarded := url.Values{}

	for _, p := range params {
		v := r.URL.Query().Get(p.name)
		if msg := p.validator(v); msg != "" {
			details = append(details, apperrors.FieldError{Field: p.name, Message: msg})
			continue
		}
		if v != "" {
			forwarded.Set(p.name, v)
		}
	}

	if len(details) > 0 {
		return nil, apperrors.ValidationFields(details...)
	}
	return forwarded, nil
}

// scopeToCaller injects the caller's user ID for non-admin requests so the
// upstream only returns data the caller owns.
func scopeToCaller(r *http.Request, query url.Values) url.Values {
	identity, ok := GetIdentityFromContext(r.Context())
	if ok && identity.Role != domainauth.RoleAdmin {
		query.Set("user_id", identity.ID)
	}
	return query
}

// proxy validates the query, applies caller scoping, and relays the
// telemetry response.
func (h *TelemetryHandlers) proxy(w http.ResponseWriter, r *http.Request, path string, params []queryParam) {
	query, err := validateQuery(r, params)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.Client.Do(r.Context(), upstream.Call{
		Method:  http.MethodGet,
		Path:    path,
		Query:   scopeToCaller(r, query),
		Timeout: h.Timeout,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteRelay(w, resp)
}

// Devices lists monitored devices, optionally narrowed to one device.
// GET /api/telemetry/devices.
func (h *TelemetryHandlers) Devices(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "/devices", []queryParam{limitParam, offsetParam, deviceIDParam})
}

// Containers lists containers on a specific device.
// GET /api/telemetry/containers?device_id=<id>.
func (h *TelemetryHandlers) Containers(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "/containers", []queryParam{limitParam, offsetParam, requiredDeviceIDParam})
}

// Health reports telemetry pipeline health.
// GET /api/telemetry/health.
func (h *TelemetryHandlers) Health(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Client.Do(r.Context(), upstream.Call{
		Method:  http.MethodGet,
		Path:    "/health",
		Timeout: h.Timeout,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteRelay(w, resp)
}

// Stats returns fleet-wide statistics. Admin only; never scoped.
// GET /api/telemetry/stats.
func (h *TelemetryHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Client.Do(r.Context(), upstream.Call{
		Method:  http.MethodGet,
		Path:    "/stats",
		Timeout: h.Timeout,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteRelay(w, resp)
}

// Activities lists recent security activities.
// GET /api/telemetry/activities.
func (h *TelemetryHandlers) Activities(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "/activities", []queryParam{limitParam, offsetParam, typeParam, deviceIDParam})
}

// Threats lists detected threats.
// GET /api/telemetry/threats.
func (h *TelemetryHandlers) Threats(w http.ResponseWriter, r *http.Request) {
	h.proxy(w, r, "/threats", []queryParam{limitParam, offsetParam, severityParam, deviceIDParam})
}

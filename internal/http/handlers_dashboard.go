package httpx

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	"github.com/smartsec/portal-bff/internal/upstream"
)

// DashboardHandlers aggregates several telemetry views into single
// responses for the frontend landing pages.
type DashboardHandlers struct {
	Telemetry UpstreamCaller
	Timeout   time.Duration
}

// dashboardFetchLimit caps the per-section item count on aggregate views.
const dashboardFetchLimit = "10"

func (h *DashboardHandlers) fetch(r *http.Request, path string, query url.Values, out *json.RawMessage) func() error {
	return func() error {
		resp, err := h.Telemetry.Do(r.Context(), upstream.Call{
			Method:  http.MethodGet,
			Path:    path,
			Query:   query,
			Timeout: h.Timeout,
		})
		if err != nil {
			return err
		}
		*out = json.RawMessage(resp.Body)
		return nil
	}
}

// Summary returns the caller's dashboard: recent activities and threats,
// scoped to the caller unless they are an admin.
// GET /api/dashboard.
func (h *DashboardHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	identity, ok := GetIdentityFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	baseQuery := func() url.Values {
		q := url.Values{"limit": {dashboardFetchLimit}}
		if identity.Role != domainauth.RoleAdmin {
			q.Set("user_id", identity.ID)
		}
		return q
	}

	var activities, threats json.RawMessage
	g, _ := errgroup.WithContext(r.Context())
	g.Go(h.fetch(r, "/activities", baseQuery(), &activities))
	g.Go(h.fetch(r, "/threats", baseQuery(), &threats))
	if err := g.Wait(); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":       toUserPayload(identity),
		"activities": activities,
		"threats":    threats,
	})
}

// Fleet returns the fleet-wide overview: all devices, open threats, and
// aggregate stats. Admin only, so nothing is scoped.
// GET /api/fleet.
func (h *DashboardHandlers) Fleet(w http.ResponseWriter, r *http.Request) {
	var devices, threats, stats json.RawMessage

	g, _ := errgroup.WithContext(r.Context())
	g.Go(h.fetch(r, "/devices", url.Values{"limit": {"100"}}, &devices))
	g.Go(h.fetch(r, "/threats", url.Values{"limit": {"100"}}, &threats))
	g.Go(h.fetch(r, "/stats", nil, &stats))
	if err := g.Wait(); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"devices": devices,
		"threats": threats,
		"stats":   stats,
	})
}

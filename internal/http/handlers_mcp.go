package httpx

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/smartsec/portal-bff/internal/errors"
	"github.com/smartsec/portal-bff/internal/http/validation"
	"github.com/smartsec/portal-bff/internal/upstream"
)

// MCPHandlers proxies requests to the MCP analysis server. Query and tool
// execution use the long query timeout; everything else uses the read
// timeout.
type MCPHandlers struct {
	Client       UpstreamCaller
	ReadTimeout  time.Duration
	QueryTimeout time.Duration
}

var queryTextValidator = validation.RequiredRange("query", 1, 1000)

// Query runs a natural-language analysis query.
// POST /api/mcp/query with {"query": ...}.
func (h *MCPHandlers) Query(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if !DecodeJSON(w, r, &body) {
		return
	}
	if msg := queryTextValidator(body.Query); msg != "" {
		WriteError(w, apperrors.ValidationFields(apperrors.FieldError{Field: "query", Message: msg}))
		return
	}

	identity, _ := GetIdentityFromContext(r.Context())
	resp, err := h.Client.Do(r.Context(), upstream.Call{
		Method: http.MethodPost,
		Path:   "/query",
		Body: map[string]any{
			"query":     body.Query,
			"user_id":   identity.ID,
			"user_role": identity.Role,
		},
		Timeout: h.QueryTimeout,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"query":     body.Query,
		"result":    json.RawMessage(resp.Body),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Tools lists the available analysis tools.
// GET /api/mcp/tools.
func (h *MCPHandlers) Tools(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Client.Do(r.Context(), upstream.Call{
		Method:  http.MethodGet,
		Path:    "/tools",
		Timeout: h.ReadTimeout,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteRelay(w, resp)
}

// ExecuteTool runs one named tool with the given arguments.
// POST /api/mcp/tools/{toolName}.
func (h *MCPHandlers) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	toolName := r.PathValue("toolName")
	if toolName == "" {
		WriteError(w, apperrors.Validation("Tool name is required"))
		return
	}

	// Arguments are optional; an empty body means no arguments.
	var body struct {
		Arguments json.RawMessage `json:"arguments"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if !DecodeJSON(w, r, &body) {
			return
		}
	}

	args := map[string]any{}
	if len(body.Arguments) > 0 && string(body.Arguments) != "null" {
		if err := json.Unmarshal(body.Arguments, &args); err != nil {
			WriteError(w, apperrors.ValidationFields(apperrors.FieldError{Field: "arguments", Message: "arguments must be an object"}))
			return
		}
	}

	identity, _ := GetIdentityFromContext(r.Context())
	resp, err := h.Client.Do(r.Context(), upstream.Call{
		Method: http.MethodPost,
		Path:   "/tools/" + url.PathEscape(toolName),
		Body: map[string]any{
			"arguments": args,
			"user_id":   identity.ID,
			"user_role": identity.Role,
		},
		Timeout: h.QueryTimeout,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"tool":      toolName,
		"result":    json.RawMessage(resp.Body),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// History returns the caller's past queries. Scoped to the caller for every
// role: query history is personal.
// GET /api/mcp/history.
func (h *MCPHandlers) History(w http.ResponseWriter, r *http.Request) {
	query, err := validateQuery(r, []queryParam{limitParam, offsetParam})
	if err != nil {
		WriteError(w, err)
		return
	}

	identity, _ := GetIdentityFromContext(r.Context())
	query.Set("user_id", identity.ID)

	resp, err := h.Client.Do(r.Context(), upstream.Call{
		Method:  http.MethodGet,
		Path:    "/history",
		Query:   query,
		Timeout: h.ReadTimeout,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteRelay(w, resp)
}

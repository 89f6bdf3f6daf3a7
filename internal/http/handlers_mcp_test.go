package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/smartsec/portal-bff/internal/domain/auth"
	"github.com/smartsec/portal-bff/internal/upstream"
)

func newMCPHandlers(caller *fakeCaller) *MCPHandlers {
	return &MCPHandlers{
		Client:       caller,
		ReadTimeout:  time.Second,
		QueryTimeout: 3 * time.Second,
	}
}

func mcpRequest(t *testing.T, method, target, body string, identity domainauth.Identity) *http.Request {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(SetIdentityInContext(req.Context(), identity))
}

func TestMCPQuery_ForwardsCallerContext(t *testing.T) {
	caller := &fakeCaller{
		respond: func(upstream.Call) (upstream.Response, error) {
			return upstream.Response{Status: http.StatusOK, Body: []byte(`{"answer":42}`)}, nil
		},
	}
	h := newMCPHandlers(caller)

	req := mcpRequest(t, http.MethodPost, "/api/mcp/query", `{"query":"show critical threats"}`,
		domainauth.Identity{ID: "user-3", Role: domainauth.RoleAnalyst})
	rec := httptest.NewRecorder()
	h.Query(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	call := caller.lastCall()
	assert.Equal(t, "/query", call.Path)
	assert.Equal(t, 3*time.Second, call.Timeout)
	forwarded, ok := call.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "show critical threats", forwarded["query"])
	assert.Equal(t, "user-3", forwarded["user_id"])
	assert.Equal(t, domainauth.RoleAnalyst, forwarded["user_role"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "show critical threats", body["query"])
	assert.Equal(t, map[string]any{"answer": float64(42)}, body["result"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestMCPQuery_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty query", `{"query":""}`},
		{"whitespace query", `{"query":"   "}`},
		{"too long", `{"query":"` + strings.Repeat("a", 1001) + `"}`},
		{"unknown field", `{"q":"x"}`},
		{"not json", `query=x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &fakeCaller{}
			h := newMCPHandlers(caller)

			req := mcpRequest(t, http.MethodPost, "/api/mcp/query", tt.body,
				domainauth.Identity{ID: "u", Role: domainauth.RoleUser})
			rec := httptest.NewRecorder()
			h.Query(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, caller.calls)
		})
	}
}

func TestMCPTools_Relayed(t *testing.T) {
	caller := &fakeCaller{
		respond: func(upstream.Call) (upstream.Response, error) {
			return upstream.Response{Status: http.StatusOK, Body: []byte(`{"tools":["scan"]}`)}, nil
		},
	}
	h := newMCPHandlers(caller)

	req := mcpRequest(t, http.MethodGet, "/api/mcp/tools", "", domainauth.Identity{ID: "u", Role: domainauth.RoleUser})
	rec := httptest.NewRecorder()
	h.Tools(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tools":["scan"]}`, rec.Body.String())
	assert.Equal(t, time.Second, caller.lastCall().Timeout)
}

func TestMCPExecuteTool_WrapsResult(t *testing.T) {
	caller := &fakeCaller{
		respond: func(upstream.Call) (upstream.Response, error) {
			return upstream.Response{Status: http.StatusOK, Body: []byte(`{"scanned":12}`)}, nil
		},
	}
	h := newMCPHandlers(caller)

	req := mcpRequest(t, http.MethodPost, "/api/mcp/tools/port-scan", `{"arguments":{"target":"10.0.0.1"}}`,
		domainauth.Identity{ID: "user-3", Role: domainauth.RoleAnalyst})
	req.SetPathValue("toolName", "port-scan")
	rec := httptest.NewRecorder()
	h.ExecuteTool(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	call := caller.lastCall()
	assert.Equal(t, "/tools/port-scan", call.Path)
	forwarded, ok := call.Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"target": "10.0.0.1"}, forwarded["arguments"])
	assert.Equal(t, "user-3", forwarded["user_id"])
	assert.Equal(t, domainauth.RoleAnalyst, forwarded["user_role"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "port-scan", body["tool"])
	assert.Equal(t, map[string]any{"scanned": float64(12)}, body["result"])
}

func TestMCPExecuteTool_EmptyBodyAllowed(t *testing.T) {
	caller := &fakeCaller{}
	h := newMCPHandlers(caller)

	req := mcpRequest(t, http.MethodPost, "/api/mcp/tools/list-agents", "",
		domainauth.Identity{ID: "user-3", Role: domainauth.RoleUser})
	req.SetPathValue("toolName", "list-agents")
	rec := httptest.NewRecorder()
	h.ExecuteTool(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	forwarded, ok := caller.lastCall().Body.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{}, forwarded["arguments"])
	assert.Equal(t, "user-3", forwarded["user_id"])
	assert.Equal(t, domainauth.RoleUser, forwarded["user_role"])
}

func TestMCPExecuteTool_ArgumentsMustBeObject(t *testing.T) {
	caller := &fakeCaller{}
	h := newMCPHandlers(caller)

	req := mcpRequest(t, http.MethodPost, "/api/mcp/tools/port-scan", `{"arguments":"not-an-object"}`,
		domainauth.Identity{ID: "u", Role: domainauth.RoleUser})
	req.SetPathValue("toolName", "port-scan")
	rec := httptest.NewRecorder()
	h.ExecuteTool(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, caller.calls)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	detail, ok := details[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "arguments", detail["field"])
}

func TestMCPHistory_AlwaysScopedToCaller(t *testing.T) {
	caller := &fakeCaller{}
	h := newMCPHandlers(caller)

	// Even admins only see their own history.
	req := mcpRequest(t, http.MethodGet, "/api/mcp/history?limit=20&user_id=other",
		"", domainauth.Identity{ID: "admin-1", Role: domainauth.RoleAdmin})
	rec := httptest.NewRecorder()
	h.History(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	call := caller.lastCall()
	assert.Equal(t, "/history", call.Path)
	assert.Equal(t, "admin-1", call.Query.Get("user_id"))
	assert.Equal(t, "20", call.Query.Get("limit"))
}

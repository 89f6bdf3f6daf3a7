// Package upstream is the HTTP client for proxied backend services. It
// relays successful responses verbatim and normalizes failures into the
// application error taxonomy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/smartsec/portal-bff/internal/errors"
)

// errorMessageExprs are tried in order against a failed upstream response
// body to find a human-readable message.
var errorMessageExprs = []string{"error.message", "error", "message"}

// Client calls a single upstream service.
type Client struct {
	name       string
	base       string
	httpClient *http.Client
	logger     *slog.Logger
	devMode    bool
}

// ClientOptions groups parameters for NewClient.
type ClientOptions struct {
	// Name appears in error messages shown to callers, e.g. "Telemetry".
	Name string
	// Base is the upstream base URL without a trailing slash.
	Base string
	// HTTPClient is optional; timeouts are enforced per call.
	HTTPClient *http.Client
	Logger     *slog.Logger
	// DevMode exposes raw transport errors in responses.
	DevMode bool
}

// NewClient creates a client for one upstream service.
func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		name:       opts.Name,
		base:       opts.Base,
		httpClient: httpClient,
		logger:     logger,
		devMode:    opts.DevMode,
	}
}

// Call describes one proxied request.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil.
	Body    any
	Timeout time.Duration
}

// Response is a successful upstream reply, relayed verbatim to the frontend.
type Response struct {
	Status int
	Body   []byte
}

// Do executes the call. Any 2xx reply comes back as a Response; everything
// else becomes an AppError:
//   - connection failures and timeouts map to an unavailable error
//   - non-2xx replies echo the upstream status with the extracted message
//   - anything else is internal, with the cause suppressed outside dev mode
func (c *Client) Do(ctx context.Context, call Call) (Response, error) {
	if call.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, call.Timeout)
		defer cancel()
	}

	req, err := c.buildRequest(ctx, call)
	if err != nil {
		return Response{}, apperrors.Internalf("build %s request: %v", c.name, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, c.mapTransportErr(ctx, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, apperrors.Internalf("read %s response: %v", c.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := extractErrorMessage(body)
		if message == "" {
			message = fmt.Sprintf("%s request failed", c.name)
		}
		c.logger.WarnContext(ctx, "upstream error response",
			"service", c.name, "path", call.Path, "status", resp.StatusCode)
		return Response{}, apperrors.Upstream(resp.StatusCode, message)
	}

	return Response{Status: resp.StatusCode, Body: body}, nil
}

func (c *Client) buildRequest(ctx context.Context, call Call) (*http.Request, error) {
	u := c.base + call.Path
	if len(call.Query) > 0 {
		u += "?" + call.Query.Encode()
	}

	var bodyReader io.Reader
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, u, bodyReader)
	if err != nil {
		return nil, err
	}
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// mapTransportErr classifies a failed round trip. Timeouts and connection
// failures mean the upstream is down and map to unavailable; anything else
// (TLS, protocol errors) is a deployment problem and maps to internal.
func (c *Client) mapTransportErr(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		c.logger.WarnContext(ctx, "upstream timeout", "service", c.name)
		return apperrors.Unavailable(fmt.Sprintf("%s service unavailable", c.name), err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		c.logger.WarnContext(ctx, "upstream unreachable", "service", c.name, "error", opErr)
		return apperrors.Unavailable(fmt.Sprintf("%s service unavailable", c.name), err)
	}

	c.logger.ErrorContext(ctx, "upstream transport failure", "service", c.name, "error", err)
	if c.devMode {
		return apperrors.Internalf("%s request: %v", c.name, err)
	}
	return apperrors.Internal(fmt.Sprintf("%s request failed", c.name))
}

// extractErrorMessage searches a failed response body for a message using
// the known upstream error shapes.
func extractErrorMessage(body []byte) string {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, expr := range errorMessageExprs {
		result, err := jmespath.Search(expr, payload)
		if err != nil {
			continue
		}
		if s, ok := result.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

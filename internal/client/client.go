// Package client calls the calorie-estimation gateway over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dhabedank/burnlog/internal/core"
)

// EstimatePath is the gateway route for estimations.
const EstimatePath = "/api/calculate-calories"

// HealthPath is the gateway liveness route.
const HealthPath = "/api/health"

// excerptLimit caps the body excerpt quoted for non-JSON responses.
const excerptLimit = 200

// Kind classifies client-visible failures.
type Kind int

const (
	KindTransport          Kind = iota + 1 // request never got a response
	KindUnexpectedResponse                 // response was not JSON
	KindServer                             // gateway reported an error
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnexpectedResponse:
		return "unexpected-response"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is returned for every failed call.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Client talks to one gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. httpClient may be nil.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the gateway address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Estimate sends exactly one estimation request.
func (c *Client) Estimate(ctx context.Context, req *core.EstimateRequest) (*core.EstimateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+EstimatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	data, status, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var resp core.EstimateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &Error{
			Kind:    KindUnexpectedResponse,
			Status:  status,
			Message: fmt.Sprintf("Unexpected server response (%d): %s", status, excerpt(data)),
			Err:     err,
		}
	}
	return &resp, nil
}

// Health checks that the gateway is up.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	data, status, err := c.do(httpReq)
	if err != nil {
		return err
	}
	if got := gjson.GetBytes(data, "status").String(); got != "ok" {
		return &Error{
			Kind:    KindUnexpectedResponse,
			Status:  status,
			Message: fmt.Sprintf("Unexpected health status %q", got),
		}
	}
	return nil
}

// do performs the request and returns a JSON body from a 2xx response.
// Everything else becomes an *Error.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{
			Kind:    KindTransport,
			Message: fmt.Sprintf("Could not reach server at %s: %v", c.baseURL, err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{
			Kind:    KindTransport,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Failed to read server response: %v", err),
			Err:     err,
		}
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, resp.StatusCode, &Error{
			Kind:    KindUnexpectedResponse,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Unexpected server response (%d): %s", resp.StatusCode, excerpt(data)),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(data, "error").String()
		if msg == "" {
			msg = fmt.Sprintf("Server error (%d)", resp.StatusCode)
		}
		return nil, resp.StatusCode, &Error{
			Kind:    KindServer,
			Status:  resp.StatusCode,
			Message: msg,
			Details: gjson.GetBytes(data, "details").String(),
		}
	}

	return data, resp.StatusCode, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func excerpt(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > excerptLimit {
		return s[:excerptLimit] + "..."
	}
	return s
}

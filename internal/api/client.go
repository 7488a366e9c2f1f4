package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kusina/internal/monitoring"
	"kusina/internal/session"
)

// Client handles API requests to the Kusina backend. One client is shared
// by every component; the bearer token is read from the session store on
// each request so a login or logout takes effect immediately.
type Client struct {
	httpClient *http.Client
	BaseURL    string
	sessions   *session.Store
	metrics    *monitoring.Metrics
}

// New creates a new API client.
func New(baseURL string, timeout time.Duration, sessions *session.Store, metrics *monitoring.Metrics) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		sessions:   sessions,
		metrics:    metrics,
	}
}

// CheckHealth checks if the API is up and running.
func (c *Client) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}
	return nil
}

// doJSON issues a request with an optional JSON payload and decodes the
// JSON response into out when out is non-nil. resource labels the request
// for metrics.
func (c *Client) doJSON(ctx context.Context, method, resource, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", resource, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, resource, out)
}

// do sends a prepared request, records metrics and maps non-2xx responses
// to *Error.
func (c *Client) do(req *http.Request, resource string, out interface{}) error {
	c.authorize(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveFailure(resource)
		return fmt.Errorf("%s request failed: %w", resource, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRequest(req.Method, resource, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	return nil
}

// authorize attaches the bearer token when a session is present.
func (c *Client) authorize(req *http.Request) {
	if c.sessions == nil {
		return
	}
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// envelope is the {success, data, message} wrapper used by the staff
// endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// doEnveloped is doJSON for endpoints that wrap their payload in the
// success envelope.
func (c *Client) doEnveloped(ctx context.Context, method, resource, path string, payload, out interface{}) error {
	var env envelope
	if err := c.doJSON(ctx, method, resource, path, payload, &env); err != nil {
		return err
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request rejected"
		}
		return &Error{StatusCode: http.StatusBadRequest, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", resource, err)
		}
	}
	return nil
}

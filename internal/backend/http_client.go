package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPClient provides the JSON plumbing shared by every backend call
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(baseURL string, timeoutSec int) *HTTPClient {
	if timeoutSec == 0 {
		timeoutSec = 30 // default timeout
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		baseURL: baseURL,
	}
}

// Do sends a request to endpoint. A non-nil payload is JSON encoded; a
// non-empty token is attached as a bearer credential.
func (c *HTTPClient) Do(ctx context.Context, method, endpoint, token string, payload interface{}) (*HTTPResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	url := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "RoomilyAdmin/1")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// Log the request (never the token)
	log.Ctx(ctx).Debug().
		Str("method", method).
		Str("url", url).
		Msg("calling backend")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		log.Ctx(ctx).Error().
			Str("method", method).
			Str("url", url).
			Err(err).
			Msg("backend request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	return c.handleResponse(ctx, resp, time.Since(start))
}

// handleResponse processes the HTTP response
func (c *HTTPClient) handleResponse(ctx context.Context, resp *http.Response, took time.Duration) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	log.Ctx(ctx).Debug().
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Dur("took", took).
		Msg("backend responded")

	return httpResp, nil
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess checks if the response indicates success (2xx status code)
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON unmarshals the response body into the provided struct
func (r *HTTPResponse) UnmarshalJSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// String returns the response body as a string
func (r *HTTPResponse) String() string {
	return string(r.Body)
}

// This file implements the HTTP client the CLI uses to talk to a running
// scanvault server instead of opening the document store directly.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anstrom/scanvault/internal/api/middleware"
	"github.com/anstrom/scanvault/internal/config"
	"github.com/anstrom/scanvault/internal/query"
)

const (
	apiClientTimeout = 30 * time.Second
	userAgent        = "scanvault-cli/1.0"
)

// APIClient sends requests to a scanvault server.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// apiMessage covers both the success and the error body shapes.
type apiMessage struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIError represents an API error response
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("API error (status %d, request %s): %s", e.StatusCode, e.RequestID, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// NewAPIClient creates a client for baseURL.
func NewAPIClient(baseURL string) (*APIClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", baseURL)
	}

	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: apiClientTimeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		userAgent: userAgent,
	}, nil
}

// serverURL returns the base URL of the server described by cfg.
func serverURL(cfg *config.Config) string {
	host := cfg.API.ListenAddr
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	scheme := "http"
	if cfg.API.TLS.Enabled {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, cfg.API.Port)
}

// Insert posts a raw JSON document array to /insert.
func (c *APIClient) Insert(ctx context.Context, batch []byte) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/insert", nil, batch)
	if err != nil {
		return "", err
	}
	return decodeMessage(body)
}

// DeleteAll calls /perform_delete and returns the server message.
func (c *APIClient) DeleteAll(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodDelete, "/perform_delete", nil, nil)
	if err != nil {
		return "", err
	}
	return decodeMessage(body)
}

// Search runs a paginated search. Unpaginated endpoints are wrapped into a
// page so callers handle one shape.
func (c *APIClient) Search(ctx context.Context, s searchKind, text string, bounds rawBounds) (query.Page[query.Entry], error) {
	params := url.Values{}
	params.Set(s.param, text)
	if s.paginated {
		if bounds.from != "" {
			params.Set("from", bounds.from)
		}
		if bounds.to != "" {
			params.Set("to", bounds.to)
		}
	}

	body, err := c.do(ctx, http.MethodGet, "/"+s.endpoint, params, nil)
	if err != nil {
		return query.Page[query.Entry]{}, err
	}

	var page query.Page[query.Entry]
	if s.paginated {
		if err := unmarshalNumbers(body, &page); err != nil {
			return page, fmt.Errorf("failed to decode response: %w", err)
		}
		return page, nil
	}

	if err := unmarshalNumbers(body, &page.Entries); err != nil {
		return page, fmt.Errorf("failed to decode response: %w", err)
	}
	page.Total = len(page.Entries)
	return page, nil
}

// Health returns nil when the server reports itself healthy.
func (c *APIClient) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

func (c *APIClient) do(ctx context.Context, method, path string, params url.Values, payload []byte) ([]byte, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var requestBody io.Reader
	if payload != nil {
		requestBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var msg apiMessage
		if err := json.Unmarshal(bodyBytes, &msg); err != nil {
			msg.Error = strings.TrimSpace(string(bodyBytes))
		}
		errorMsg := msg.Error
		if errorMsg == "" {
			errorMsg = msg.Message
		}
		if errorMsg == "" {
			errorMsg = fmt.Sprintf("HTTP %d error", resp.StatusCode)
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMsg,
			RequestID:  resp.Header.Get(middleware.RequestIDHeader),
		}
	}

	return bodyBytes, nil
}

func decodeMessage(body []byte) (string, error) {
	var msg apiMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return msg.Message, nil
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// describeAPIError turns an API failure into a user-facing message.
func describeAPIError(err error, operation string) error {
	var apiErr *APIError
	if !stderrors.As(err, &apiErr) {
		return fmt.Errorf("%s failed: %w", operation, err)
	}

	switch apiErr.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limit exceeded for %s, please wait a moment and try again", operation)
	case http.StatusInternalServerError:
		if apiErr.RequestID != "" {
			return fmt.Errorf("server error during %s (request %s): %s", operation, apiErr.RequestID, apiErr.Message)
		}
		return fmt.Errorf("server error during %s: %s", operation, apiErr.Message)
	default:
		return fmt.Errorf("%s failed: %s", operation, apiErr.Message)
	}
}

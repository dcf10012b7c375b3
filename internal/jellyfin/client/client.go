package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// ClientName identifies jamp to the Jellyfin server.
	ClientName = "jamp"

	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	APIKey   string
	UserID   string
	DeviceID string
	Version  string
	Timeout  time.Duration
	Logger   *zap.Logger

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// Client is a Jellyfin REST API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	deviceID   string
	version    string
	logger     *zap.Logger
	retryWait  time.Duration

	mu     sync.RWMutex
	apiKey string
	userID string
}

// New creates a new Jellyfin client.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		deviceID:   opts.DeviceID,
		version:    version,
		logger:     logger.Named("jellyfin"),
		retryWait:  baseRetryWait,
		apiKey:     opts.APIKey,
		userID:     opts.UserID,
	}
}

// BaseURL returns the server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetCredentials replaces the access token and user id, e.g. after login.
func (c *Client) SetCredentials(apiKey, userID string) {
	c.mu.Lock()
	c.apiKey = apiKey
	c.userID = userID
	c.mu.Unlock()
}

// IsAuthenticated returns true if both a token and a user id are set.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey != "" && c.userID != ""
}

func (c *Client) credentials() (string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey, c.userID
}

// Get performs a GET request against the Jellyfin API.
func (c *Client) Get(ctx context.Context, path string, params url.Values, result any) error {
	return c.request(ctx, http.MethodGet, path, params, nil, result)
}

// Post performs a POST request against the Jellyfin API.
func (c *Client) Post(ctx context.Context, path string, body any, result any) error {
	return c.request(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) request(ctx context.Context, method, path string, params url.Values, body any, result any) error {
	apiKey, _ := c.credentials()

	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	if params == nil {
		params = url.Values{}
	}
	if apiKey != "" {
		params.Set("api_key", apiKey)
	}
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	log := c.logger.With(zap.String("method", method), zap.String("path", path))
	log.Debug("request")

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			wait := c.retryWait * time.Duration(1<<(attempt-1)) // exponential backoff
			log.Debug("retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = strings.NewReader(string(jsonBody))
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Emby-Authorization", c.authorizationHeader())
		if apiKey != "" {
			req.Header.Set("X-Emby-Token", apiKey)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			log.Debug("network error", zap.Error(err))
			continue // Retry on network error
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		log.Debug("response", zap.Int("status", resp.StatusCode))

		if resp.StatusCode == http.StatusNoContent {
			return nil
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 {
			lastErr = newAPIError(resp.StatusCode, respBody)
			log.Warn("server error, will retry", zap.Error(lastErr))
			continue
		}

		// Don't retry 4xx errors
		if resp.StatusCode >= 400 {
			return newAPIError(resp.StatusCode, respBody)
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to parse response: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

func (c *Client) authorizationHeader() string {
	device := c.deviceID
	if device == "" {
		device = ClientName
	}
	return fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
		ClientName, ClientName, device, c.version)
}

// APIError represents a non-success response from the Jellyfin API.
type APIError struct {
	StatusCode int
	Message    string
}

func newAPIError(status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))

	// ASP.NET problem details
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		switch {
		case problem.Detail != "":
			msg = problem.Detail
		case problem.Title != "":
			msg = problem.Title
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Jellyfin API error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

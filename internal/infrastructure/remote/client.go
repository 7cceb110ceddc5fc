// Package remote implements the client facade over the studio backend's
// HTTP API.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/tuneup/studio/internal/core/domain"
	"github.com/tuneup/studio/internal/core/ports"
)

// Client talks to cmd/backend and holds the current session token. Requests
// are never retried: a failed write is reported to the caller as-is.
type Client struct {
	http *resty.Client
	log  zerolog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient validates baseURL and builds the HTTP client.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("backend URL must be absolute http(s), got: %s", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: client, log: log}, nil
}

func (c *Client) Identities() ports.IdentityProvider { return &identityProvider{c: c} }

func (c *Client) Documents() ports.DocumentStore { return &documentStore{c: c} }

// Token returns the current session token, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken restores a session saved by an earlier process.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do performs a request. query may be nil; result may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var errResp errorBody
	req := c.http.R().
		SetContext(ctx).
		SetError(&errResp)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !resp.IsError() {
		return nil
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Str("code", errResp.Code).
		Msg("backend error")
	return decodeError(resp.StatusCode(), errResp)
}

// decodeError turns the backend's error envelope back into domain errors.
func decodeError(status int, body errorBody) error {
	if body.Code != "" {
		return domain.NewAuthError(body.Code, body.Error)
	}
	switch status {
	case http.StatusNotFound:
		if body.Error == "identity not found" {
			return domain.ErrIdentityNotFound
		}
		return domain.ErrDocumentNotFound
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if body.Error == domain.ErrInvalidCollection.Error() {
			return domain.ErrInvalidCollection
		}
		if body.Error != "" {
			return domain.NewValidationError("%s", body.Error)
		}
	}
	if body.Error == "" {
		return fmt.Errorf("backend returned status %d", status)
	}
	return errors.New(body.Error)
}

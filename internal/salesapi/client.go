// Package salesapi is the HTTP client for the remote sales backend that owns
// lead persistence. Every mutating operation in the leads bounded context
// goes through this client; nothing is stored locally. Calls are issued
// once, with no automatic retry or backoff; retries are a user action.
package salesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"estateportal_backend/platform/apperr"
	"estateportal_backend/platform/config"
	"estateportal_backend/platform/logger"
)

type tokenKey struct{}

// WithToken returns a context carrying the caller's bearer token. The token
// is forwarded verbatim on every request; session handling is the backend's.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the forwarded bearer token, if any.
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// Client talks to the sales backend's REST API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New creates a sales backend client. Timeouts live on the transport; the
// engine itself imposes none.
func New(cfg config.SalesAPIConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.GetSalesAPIBaseURL(), "/"),
		http:    &http.Client{Timeout: cfg.GetSalesAPITimeout()},
		log:     log,
	}
}

// errorBody covers the error envelopes the backend is known to emit.
type errorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

const genericUpstreamMsg = "sales backend request failed"

// do performs one request and decodes the response into out (when non-nil).
// Error responses surface the server-provided message when present.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to encode request", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.UpstreamError(method, path, 0, err)
		return apperr.Upstream(genericUpstreamMsg, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return c.decodeError(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError(method, path, resp.StatusCode, err)
		return apperr.Upstream("sales backend returned an unreadable response", err)
	}

	return nil
}

func (c *Client) decodeError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	message := genericUpstreamMsg
	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Detail != "" {
			message = parsed.Detail
		} else if parsed.Error != "" {
			message = parsed.Error
		}
	}

	c.log.UpstreamError(method, path, resp.StatusCode, fmt.Errorf("%s", message))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Unauthorized(message)
	case http.StatusNotFound:
		if message == genericUpstreamMsg {
			message = "resource not found"
		}
		return apperr.NotFound(message)
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return apperr.Validation(message)
	default:
		return apperr.Upstream(message, nil)
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Package gateway is the thin HTTP client between the console and the
// back-office REST backend: it attaches the bearer token, applies one
// uniform timeout policy and normalizes the response envelope into the
// console's error taxonomy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ehmtravel/backoffice/internal"
)

const apiPrefix = "/api/v1"

// TokenSource supplies the current bearer token; an empty string means no
// Authorization header is sent.
type TokenSource func() string

type Client struct {
	baseURL    string
	timeout    time.Duration
	tokenFn    TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, tokenFn TokenSource, logger *slog.Logger) *Client {
	if tokenFn == nil {
		tokenFn = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		tokenFn:    tokenFn,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return internal.NewInternalError("failed to marshal request body", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + apiPrefix + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return internal.NewInternalError("failed to create HTTP request", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.tokenFn(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn("backend call timed out", "method", method, "path", path, "timeout", c.timeout)
			return &internal.AppError{
				Type:    internal.ErrorTypeTransport,
				Code:    internal.ErrCodeRequestTimeout,
				Message: fmt.Sprintf("request to %s timed out", path),
				Cause:   err,
			}
		}
		c.logger.Warn("backend unreachable", "method", method, "path", path, "error", err)
		return internal.NewTransportError(fmt.Sprintf("request to %s failed", path), err)
	}
	defer resp.Body.Close()

	var env Envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return internal.NewAPIError("backend returned an unreadable response", resp.StatusCode).
				WithCause(decodeErr)
		}
		return internal.NewAPIError(fmt.Sprintf("backend returned status %d", resp.StatusCode), resp.StatusCode)
	}

	if env.Legacy() {
		c.logger.Warn("endpoint uses legacy success envelope", "method", method, "path", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.OK() {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return internal.NewUnauthorizedError(message, internal.ErrCodeInvalidCredentials)
		case http.StatusNotFound:
			return internal.NewNotFoundError(message, internal.ErrCodeRecordNotFound)
		default:
			return internal.NewAPIError(message, resp.StatusCode)
		}
	}

	c.logger.Debug("backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return internal.NewAPIError("backend envelope data has unexpected shape", resp.StatusCode).
				WithCause(err)
		}
	}

	return nil
}

// Package client talks to the remote storefront REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the production API the storefront was built against
const DefaultBaseURL = "https://productsback-production.up.railway.app/api"

// TokenKey is the storage key the bearer token is persisted under
const TokenKey = "authToken"

// TokenStore is a small key-value store for client-side session data
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Client wraps HTTP calls to the remote service
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  *zap.Logger
	metrics *Metrics
}

// New creates a Client. tokens and metrics may be nil.
func New(baseURL string, httpClient *http.Client, tokens TokenStore, logger *zap.Logger, metrics *Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

// WithTokens returns a copy of the client that reads its bearer token from tokens.
// The underlying http.Client and metrics are shared.
func (c *Client) WithTokens(tokens TokenStore) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// do performs one JSON request. body and out may be nil.
func (c *Client) do(ctx context.Context, op, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		token, ok, err := c.tokens.Get(ctx, TokenKey)
		if err != nil {
			c.logger.Warn("token lookup failed", zap.String("op", op), zap.Error(err))
		} else if ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(op, 0, time.Since(start))
		c.logger.Error("api request failed", zap.String("op", op), zap.String("method", method),
			zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	c.metrics.observe(op, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(op, resp.StatusCode, data)
		c.logger.Error("api request failed", zap.String("op", op), zap.String("method", method),
			zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode), zap.Error(apiErr))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

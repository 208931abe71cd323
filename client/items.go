package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go-storefront/models"
)

// envelope is how the listing endpoints wrap their payloads
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// Endpoint is a lost & found listing collection on the remote service
type Endpoint[T any] struct {
	c    *Client
	path string
	name string
}

// Found is the collection of found items
func (c *Client) Found() Endpoint[models.FoundItem] {
	return Endpoint[models.FoundItem]{c: c, path: "/topilganlar", name: "found"}
}

// Lost is the collection of lost items
func (c *Client) Lost() Endpoint[models.LostItem] {
	return Endpoint[models.LostItem]{c: c, path: "/yoqotilganlar", name: "lost"}
}

// List returns every listing. A bare JSON array is accepted as well as the envelope.
func (e Endpoint[T]) List(ctx context.Context) ([]T, error) {
	op := e.name + "_list"
	var raw json.RawMessage
	if err := e.c.do(ctx, op, http.MethodGet, e.path, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%s: decode response: %w", op, err)
		}
		return items, nil
	}

	var env envelope[[]T]
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	if !env.Success {
		return nil, &APIError{Op: op, Status: http.StatusOK, Message: messageOr(env.Message, "could not fetch listings")}
	}
	return env.Data, nil
}

// Get returns one listing; an unsuccessful envelope is reported as not found
func (e Endpoint[T]) Get(ctx context.Context, id models.ID) (T, error) {
	op := e.name + "_get"
	var env envelope[T]
	if err := e.c.do(ctx, op, http.MethodGet, e.path+"/"+url.PathEscape(id.String()), nil, &env); err != nil {
		var zero T
		return zero, err
	}
	if !env.Success {
		var zero T
		return zero, &APIError{Op: op, Status: http.StatusNotFound, Message: messageOr(env.Message, "listing not found")}
	}
	return env.Data, nil
}

// Create posts a new listing and returns it as stored by the service
func (e Endpoint[T]) Create(ctx context.Context, item T) (T, error) {
	op := e.name + "_create"
	var env envelope[T]
	if err := e.c.do(ctx, op, http.MethodPost, e.path, item, &env); err != nil {
		var zero T
		return zero, err
	}
	if !env.Success {
		var zero T
		return zero, &APIError{Op: op, Status: http.StatusOK, Message: messageOr(env.Message, "listing could not be created")}
	}
	return env.Data, nil
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

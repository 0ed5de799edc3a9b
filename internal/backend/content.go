// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DishantGiri/jamjam/internal/formdata"
	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/normalize"
)

// ListOptions filters a collection listing. Unset flags are not sent.
type ListOptions struct {
	Active   *bool
	Featured *bool
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Active != nil {
		q.Set("is_active", formdata.BoolValue(*o.Active))
	}
	if o.Featured != nil {
		q.Set("is_featured", formdata.BoolValue(*o.Featured))
	}
	return q
}

// Flag returns a pointer to v for ListOptions.
func Flag(v bool) *bool { return &v }

// List fetches a collection and returns the raw response. token may be
// empty for public listings.
func (c *Client) List(ctx context.Context, collection string, opts ListOptions, token string) ([]byte, error) {
	return c.get(ctx, "/"+collection, opts.query(), token)
}

// ListRecords fetches and normalizes a collection.
func (c *Client) ListRecords(ctx context.Context, collection string, opts ListOptions, token string) ([]model.Record, error) {
	raw, err := c.List(ctx, collection, opts, token)
	if err != nil {
		return nil, err
	}
	return normalize.List(raw, collection), nil
}

// Get fetches one entity by id or slug.
func (c *Client) Get(ctx context.Context, collection, key, token string) (model.Record, error) {
	raw, err := c.get(ctx, "/"+collection+"/"+url.PathEscape(key), nil, token)
	if err != nil {
		return nil, err
	}
	rec, ok := normalize.One(raw, singular(collection))
	if !ok {
		return nil, &APIError{Status: http.StatusNotFound, Message: "Not found"}
	}
	return rec, nil
}

// GetBlog fetches a post by slug.
func (c *Client) GetBlog(ctx context.Context, slug string) (model.Record, error) {
	return c.Get(ctx, model.CollectionBlogs, slug, "")
}

// GetTour fetches a tour by id.
func (c *Client) GetTour(ctx context.Context, id string) (model.Record, error) {
	return c.Get(ctx, model.CollectionTours, id, "")
}

// Create submits a multipart payload to the collection.
func (c *Client) Create(ctx context.Context, token, collection string, p *formdata.Payload) ([]byte, error) {
	return c.send(ctx, http.MethodPost, "/"+collection, token, p)
}

// Update submits a multipart payload for an existing entity. With method
// override enabled it is sent as POST carrying _method=PUT.
func (c *Client) Update(ctx context.Context, token, collection, id string, p *formdata.Payload) ([]byte, error) {
	method := http.MethodPut
	if c.methodOverride {
		method = http.MethodPost
		p = p.Clone()
		p.Add("_method", http.MethodPut)
	}
	return c.send(ctx, method, "/"+collection+"/"+url.PathEscape(id), token, p)
}

// Delete removes an entity.
func (c *Client) Delete(ctx context.Context, token, collection, id string) error {
	_, err := c.mutate(ctx, request{
		method: http.MethodDelete,
		path:   "/" + collection + "/" + url.PathEscape(id),
		token:  token,
	})
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, p *formdata.Payload) ([]byte, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	body, ct, err := p.Body()
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	return c.mutate(ctx, request{
		method:      method,
		path:        path,
		token:       token,
		body:        body.Bytes(),
		contentType: ct,
	})
}

func singular(collection string) string {
	switch collection {
	case model.CollectionActivities:
		return "activity"
	default:
		return collection[:len(collection)-1]
	}
}

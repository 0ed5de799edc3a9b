// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/sjson"

	"github.com/DishantGiri/jamjam/internal/model"
)

// Review is a public review submission.
type Review struct {
	Name   string
	Email  string
	Rating int
	Review string
}

// ApproveReview marks a review approved.
func (c *Client) ApproveReview(ctx context.Context, token, id string) error {
	_, err := c.mutate(ctx, request{
		method:      http.MethodPut,
		path:        "/reviews/" + url.PathEscape(id) + "/approve",
		token:       token,
		contentType: "application/json",
	})
	return err
}

// DeleteReview removes a review.
func (c *Client) DeleteReview(ctx context.Context, token, id string) error {
	return c.Delete(ctx, token, model.CollectionReviews, id)
}

// SubmitReview posts a public review. No token is needed.
func (c *Client) SubmitReview(ctx context.Context, r Review) ([]byte, error) {
	body := []byte(`{}`)
	var err error
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"rating", r.Rating},
		{"review", r.Review},
	} {
		if body, err = sjson.SetBytes(body, kv.path, kv.value); err != nil {
			return nil, fmt.Errorf("encoding review: %w", err)
		}
	}

	return c.mutate(ctx, request{
		method:      http.MethodPost,
		path:        "/reviews",
		body:        body,
		contentType: "application/json",
		public:      true,
	})
}

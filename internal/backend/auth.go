// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// RoleAdmin is the role a verified dashboard user must carry.
const RoleAdmin = "admin"

// ErrNoToken is returned when a successful login reply carries no token.
var ErrNoToken = errors.New("backend: login response has no token")

var tokenPaths = []string{"token", "access_token", "data.token", "data.access_token"}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "email", email)
	if err != nil {
		return "", fmt.Errorf("encoding login: %w", err)
	}
	if body, err = sjson.SetBytes(body, "password", password); err != nil {
		return "", fmt.Errorf("encoding login: %w", err)
	}

	data, err := c.mutate(ctx, request{
		method:      http.MethodPost,
		path:        "/login",
		body:        body,
		contentType: "application/json",
		public:      true,
	})
	if err != nil {
		return "", err
	}
	for _, p := range tokenPaths {
		if v := gjson.GetBytes(data, p); v.Type == gjson.String && v.Str != "" {
			return v.Str, nil
		}
	}
	return "", ErrNoToken
}

// Verify reports whether token belongs to an admin.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, ErrNotAuthenticated
	}
	data, err := c.do(ctx, request{method: http.MethodGet, path: "/verify", token: token})
	if err != nil {
		return false, err
	}
	res := gjson.ParseBytes(data)
	return res.Get("status").Bool() && res.Get("role").String() == RoleAdmin, nil
}

// Logout revokes token on the backend.
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.mutate(ctx, request{
		method:      http.MethodPost,
		path:        "/logout",
		token:       token,
		contentType: "application/json",
	})
	return err
}

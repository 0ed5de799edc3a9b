// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/DishantGiri/jamjam/internal/model"
)

// Renderer turns author-written text into safe HTML and strips markup from
// visitor input.
type Renderer struct {
	md     goldmark.Markdown
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
}

// NewRenderer creates a renderer with GitHub-flavoured Markdown.
func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		ugc:    bluemonday.UGCPolicy(),
		strict: bluemonday.StrictPolicy(),
	}
}

// Markdown renders src and sanitizes the result.
func (r *Renderer) Markdown(src string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return r.ugc.Sanitize(src)
	}
	return strings.TrimSpace(r.ugc.Sanitize(buf.String()))
}

// PlainText removes all markup from visitor input. Entities the policy
// escapes are decoded again so the backend stores plain text.
func (r *Renderer) PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(r.strict.Sanitize(s)))
}

// Blog returns a copy of a post whose sections carry paragraph_html, and
// whose description and conclusion carry *_html counterparts. The input
// record is not modified.
func (r *Renderer) Blog(post model.Record) model.Record {
	out := make(model.Record, len(post)+2)
	for k, v := range post {
		out[k] = v
	}

	if items, ok := post["content"].([]any); ok {
		sections := make([]any, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			sec := make(map[string]any, len(m)+1)
			for k, v := range m {
				sec[k] = v
			}
			sec["paragraph_html"] = r.Markdown(model.Record(m).String("paragraph"))
			sections = append(sections, sec)
		}
		out["content"] = sections
	}

	for _, field := range []string{"description", "conclusion"} {
		if s := post.String(field); s != "" {
			out[field+"_html"] = r.Markdown(s)
		}
	}
	return out
}

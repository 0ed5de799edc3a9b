// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt of the public site from
// the backend listings.
package seo

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"github.com/DishantGiri/jamjam/internal/model"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the gateway.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Sections of the public site and the record field that forms each
// entity's path segment.
var sections = []struct {
	path     string
	key      string
	priority string
}{
	{"/treks", "id", "0.8"},
	{"/tours", "id", "0.8"},
	{"/blogs", "slug", "0.6"},
}

// Content holds the public listings a sitemap is built from.
type Content struct {
	Treks []model.Record
	Tours []model.Record
	Blogs []model.Record
}

// SitemapBuilder builds sitemap XML.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a builder for siteURL, e.g. https://example.com.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{siteURL: strings.TrimSuffix(siteURL, "/")}
}

// Add appends path with the given frequency and priority.
func (b *SitemapBuilder) Add(path string, lastMod time.Time, freq ChangeFreq, priority string) {
	u := SitemapURL{Loc: b.siteURL + path, ChangeFreq: freq, Priority: priority}
	if !lastMod.IsZero() {
		u.LastMod = lastMod.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, u)
}

// AddRecords appends one URL per record under section. Records without a
// key are skipped.
func (b *SitemapBuilder) AddRecords(section, key, priority string, records []model.Record) {
	for _, rec := range records {
		k := rec.String(key)
		if k == "" {
			continue
		}
		b.Add(section+"/"+url.PathEscape(k), LastModified(rec), ChangeFreqWeekly, priority)
	}
}

// Len reports the number of URLs added so far.
func (b *SitemapBuilder) Len() int { return len(b.urls) }

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	xmlBytes, err := xml.MarshalIndent(Sitemap{XMLNS: XMLNamespace, URLs: b.urls}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), xmlBytes...), nil
}

// GenerateSitemap lists the home page, the section indexes and every
// public trek, tour and blog post.
func GenerateSitemap(siteURL string, c Content) ([]byte, error) {
	b := NewSitemapBuilder(siteURL)
	b.Add("/", time.Time{}, ChangeFreqDaily, "1.0")
	for _, s := range sections {
		b.Add(s.path, time.Time{}, ChangeFreqDaily, "0.9")
	}
	b.AddRecords(sections[0].path, sections[0].key, sections[0].priority, c.Treks)
	b.AddRecords(sections[1].path, sections[1].key, sections[1].priority, c.Tours)
	b.AddRecords(sections[2].path, sections[2].key, sections[2].priority, c.Blogs)
	return b.Build()
}

// timeLayouts are the timestamp formats seen in backend records.
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// LastModified reads updated_at, falling back to created_at. Unparseable
// values give the zero time.
func LastModified(rec model.Record) time.Time {
	s := rec.FirstString("updated_at", "created_at")
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

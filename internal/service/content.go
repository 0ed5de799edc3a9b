// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the gateway's use cases: cached public listings,
// the admin overview, entity submissions and the event log.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DishantGiri/jamjam/internal/backend"
	"github.com/DishantGiri/jamjam/internal/cache"
	"github.com/DishantGiri/jamjam/internal/catalog"
	"github.com/DishantGiri/jamjam/internal/form"
	"github.com/DishantGiri/jamjam/internal/formdata"
	"github.com/DishantGiri/jamjam/internal/model"
	"github.com/DishantGiri/jamjam/internal/stats"
)

// Home page limits.
const (
	HomeFeaturedTreks = 3
	HomeBlogs         = 3
	HomeTours         = 3
	HomeTestimonials  = 6
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries per-field messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// Backend is the subset of the remote API client the service uses.
type Backend interface {
	ListRecords(ctx context.Context, collection string, opts backend.ListOptions, token string) ([]model.Record, error)
	Get(ctx context.Context, collection, key, token string) (model.Record, error)
	Create(ctx context.Context, token, collection string, p *formdata.Payload) ([]byte, error)
	Update(ctx context.Context, token, collection, id string, p *formdata.Payload) ([]byte, error)
	Delete(ctx context.Context, token, collection, id string) error
	ApproveReview(ctx context.Context, token, id string) error
	DeleteReview(ctx context.Context, token, id string) error
	SubmitReview(ctx context.Context, r backend.Review) ([]byte, error)
}

// ContentService serves listings and forwards admin mutations.
type ContentService struct {
	backend  Backend
	lists    *cache.Typed[[]model.Record]
	records  *cache.Typed[model.Record]
	store    cache.Cache
	renderer *Renderer
	logger   *slog.Logger
}

// NewContentService creates the service. ttl applies to public responses.
func NewContentService(b Backend, c cache.Cache, ttl time.Duration, logger *slog.Logger) *ContentService {
	return &ContentService{
		backend:  b,
		lists:    cache.NewTyped[[]model.Record](c, ttl),
		records:  cache.NewTyped[model.Record](c, ttl),
		store:    c,
		renderer: NewRenderer(),
		logger:   logger,
	}
}

func listKey(collection string, opts backend.ListOptions) string {
	key := "list:" + collection + ":"
	if opts.Active != nil {
		key += "a" + formdata.BoolValue(*opts.Active)
	}
	if opts.Featured != nil {
		key += "f" + formdata.BoolValue(*opts.Featured)
	}
	return key
}

// List returns a public listing. Fetch failures are logged and yield an
// empty list; they are not cached.
func (s *ContentService) List(ctx context.Context, collection string, opts backend.ListOptions) []model.Record {
	list, err := s.lists.GetOrLoad(ctx, listKey(collection, opts), func(ctx context.Context) ([]model.Record, error) {
		return s.backend.ListRecords(ctx, collection, opts, "")
	})
	if err != nil {
		s.logger.Warn("backend fetch failed",
			"collection", collection,
			"error", err,
			"category", model.EventCategoryBackend)
		return []model.Record{}
	}
	return list
}

// Treks lists active treks.
func (s *ContentService) Treks(ctx context.Context, f catalog.TrekFilter) []model.Record {
	return f.Apply(s.List(ctx, model.CollectionTreks, backend.ListOptions{Active: backend.Flag(true)}))
}

// Tours lists active tours.
func (s *ContentService) Tours(ctx context.Context, f catalog.TourFilter) []model.Record {
	return f.Apply(s.List(ctx, model.CollectionTours, backend.ListOptions{Active: backend.Flag(true)}))
}

// Blogs lists posts.
func (s *ContentService) Blogs(ctx context.Context) []model.Record {
	return s.List(ctx, model.CollectionBlogs, backend.ListOptions{})
}

// Activities lists activities.
func (s *ContentService) Activities(ctx context.Context) []model.Record {
	return s.List(ctx, model.CollectionActivities, backend.ListOptions{})
}

// Reviews lists approved reviews.
func (s *ContentService) Reviews(ctx context.Context) []model.Record {
	return catalog.Approved(s.List(ctx, model.CollectionReviews, backend.ListOptions{}))
}

// Home is the landing page payload.
type Home struct {
	FeaturedTreks []model.Record `json:"featuredTreks"`
	Tours         []model.Record `json:"tours"`
	Blogs         []model.Record `json:"blogs"`
	Testimonials  []model.Record `json:"testimonials"`
}

// Home fetches the landing page sections concurrently.
func (s *ContentService) Home(ctx context.Context) Home {
	var h Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list := s.List(gctx, model.CollectionTreks, backend.ListOptions{Active: backend.Flag(true), Featured: backend.Flag(true)})
		h.FeaturedTreks = catalog.Head(catalog.TrekFilter{FeaturedOnly: true}.Apply(list), HomeFeaturedTreks)
		return nil
	})
	g.Go(func() error {
		h.Tours = catalog.Head(s.List(gctx, model.CollectionTours, backend.ListOptions{Active: backend.Flag(true)}), HomeTours)
		return nil
	})
	g.Go(func() error {
		h.Blogs = catalog.Head(s.Blogs(gctx), HomeBlogs)
		return nil
	})
	g.Go(func() error {
		h.Testimonials = catalog.Head(s.Reviews(gctx), HomeTestimonials)
		return nil
	})
	_ = g.Wait()
	return h
}

// Tour fetches one tour.
func (s *ContentService) Tour(ctx context.Context, id string) (model.Record, error) {
	return s.one(ctx, model.CollectionTours, id)
}

// Blog fetches one post by slug with its sections rendered to HTML.
func (s *ContentService) Blog(ctx context.Context, slug string) (model.Record, error) {
	post, err := s.one(ctx, model.CollectionBlogs, slug)
	if err != nil {
		return nil, err
	}
	return s.renderer.Blog(post), nil
}

func (s *ContentService) one(ctx context.Context, collection, key string) (model.Record, error) {
	rec, err := s.records.GetOrLoad(ctx, "one:"+collection+":"+key, func(ctx context.Context) (model.Record, error) {
		return s.backend.Get(ctx, collection, key, "")
	})
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// AdminList fetches a collection with the admin's token, bypassing the
// cache. Fetch failures are logged and yield an empty list.
func (s *ContentService) AdminList(ctx context.Context, token, collection string) ([]model.Record, error) {
	if token == "" {
		return nil, backend.ErrNotAuthenticated
	}
	list, err := s.backend.ListRecords(ctx, collection, backend.ListOptions{}, token)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.Warn("backend fetch failed",
			"collection", collection,
			"error", err,
			"category", model.EventCategoryBackend)
		return []model.Record{}, nil
	}
	return list, nil
}

// AdminRecord finds one entity in the admin listing.
func (s *ContentService) AdminRecord(ctx context.Context, token, collection, id string) (model.Record, error) {
	list, err := s.AdminList(ctx, token, collection)
	if err != nil {
		return nil, err
	}
	for _, rec := range list {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Overview fetches the four dashboard collections concurrently and
// computes the statistics. A failed collection counts as empty.
func (s *ContentService) Overview(ctx context.Context, token string) (stats.Overview, error) {
	if token == "" {
		return stats.Overview{}, backend.ErrNotAuthenticated
	}

	var in stats.Input
	targets := []struct {
		collection string
		dst        *[]model.Record
	}{
		{model.CollectionTreks, &in.Treks},
		{model.CollectionTours, &in.Tours},
		{model.CollectionBlogs, &in.Blogs},
		{model.CollectionReviews, &in.Reviews},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			list, err := s.AdminList(gctx, token, t.collection)
			if err != nil {
				return err
			}
			*t.dst = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats.Overview{}, err
	}
	return stats.Compute(in), nil
}

// Save validates f and creates or updates the entity it describes.
func (s *ContentService) Save(ctx context.Context, token, collection string, f form.Form) ([]byte, error) {
	if token == "" {
		return nil, backend.ErrNotAuthenticated
	}
	if errs := f.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var (
		resp []byte
		err  error
	)
	if id := f.EntityID(); id == "" {
		resp, err = s.backend.Create(ctx, token, collection, f.Payload())
	} else {
		resp, err = s.backend.Update(ctx, token, collection, id, f.Payload())
	}
	if err != nil {
		s.logger.Warn("content save failed", "collection", collection, "id", f.EntityID(), "error", err)
		return nil, err
	}

	s.invalidate(ctx, collection)
	s.logger.Info("content saved", "collection", collection, "id", f.EntityID())
	return resp, nil
}

// Delete removes an entity.
func (s *ContentService) Delete(ctx context.Context, token, collection, id string) error {
	if err := s.backend.Delete(ctx, token, collection, id); err != nil {
		return err
	}
	s.invalidate(ctx, collection)
	return nil
}

// ApproveReview approves a review.
func (s *ContentService) ApproveReview(ctx context.Context, token, id string) error {
	if err := s.backend.ApproveReview(ctx, token, id); err != nil {
		return err
	}
	s.invalidate(ctx, model.CollectionReviews)
	return nil
}

// DeleteReview removes a review.
func (s *ContentService) DeleteReview(ctx context.Context, token, id string) error {
	if err := s.backend.DeleteReview(ctx, token, id); err != nil {
		return err
	}
	s.invalidate(ctx, model.CollectionReviews)
	return nil
}

// ReviewInput is a visitor's review before sanitizing.
type ReviewInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// SubmitReview strips markup, validates and forwards a public review.
// New reviews stay pending until approved, so nothing is invalidated.
func (s *ContentService) SubmitReview(ctx context.Context, in ReviewInput) error {
	r := backend.Review{
		Name:   s.renderer.PlainText(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Rating: in.Rating,
		Review: s.renderer.PlainText(in.Review),
	}

	errs := make(map[string]string)
	if r.Name == "" {
		errs["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		errs["email"] = "A valid email is required"
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5"
	}
	if r.Review == "" {
		errs["review"] = "Review text is required"
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}

	if _, err := s.backend.SubmitReview(ctx, r); err != nil {
		s.logger.Warn("review submission failed", "error", err, "category", model.EventCategoryReview)
		return err
	}
	return nil
}

// CacheStats reports the response cache counters when available.
func (s *ContentService) CacheStats() (cache.Stats, bool) {
	sp, ok := s.store.(cache.StatsProvider)
	if !ok {
		return cache.Stats{}, false
	}
	return sp.Stats(), true
}

func (s *ContentService) invalidate(ctx context.Context, collection string) {
	for _, prefix := range []string{"list:" + collection + ":", "one:" + collection + ":"} {
		if err := s.store.DeleteByPrefix(ctx, prefix); err != nil {
			s.logger.Warn("cache invalidation failed", "prefix", prefix, "error", err)
		}
	}
}

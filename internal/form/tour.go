// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"github.com/DishantGiri/jamjam/internal/formdata"
	"github.com/DishantGiri/jamjam/internal/model"
)

// TourForm is the editable state of a tour. Tours carry no list fields.
type TourForm struct {
	Mode Mode   `json:"mode"`
	ID   string `json:"id,omitempty"`

	Title           string `json:"title"`
	Destination     string `json:"destination"`
	Description     string `json:"description"`
	Price           string `json:"price"`
	Currency        string `json:"currency"`
	DiscountPrice   string `json:"discount_price"`
	DurationDays    string `json:"duration_days"`
	DurationNights  string `json:"duration_nights"`
	DifficultyLevel string `json:"difficulty_level"`
	MaxGroupSize    string `json:"max_group_size"`
	MinGroupSize    string `json:"min_group_size"`
	TourType        string `json:"tour_type"`
	AvailableSlots  string `json:"available_slots"`
	IsFeatured      bool   `json:"is_featured"`
	IsPopular       bool   `json:"is_popular"`
	IsActive        bool   `json:"is_active"`

	FeaturedImage    *formdata.Upload `json:"-"`
	FeaturedImageURL string           `json:"featured_image_url,omitempty"`
	Gallery          Images           `json:"gallery_images"`
}

// NewTourForm returns the defaults of the create form.
func NewTourForm() *TourForm {
	return &TourForm{
		Mode:            ModeCreate,
		Currency:        "USD",
		DifficultyLevel: "Moderate",
		IsActive:        true,
	}
}

// TourFormFromRecord seeds an edit form from a stored tour. Older records
// keep some fields under duration, group_size, booking and status.
func TourFormFromRecord(rec model.Record) *TourForm {
	f := &TourForm{
		Mode:             ModeEdit,
		ID:               rec.ID(),
		Title:            rec.String("title"),
		Destination:      rec.String("destination"),
		Description:      rec.String("description"),
		Price:            rec.String("price"),
		Currency:         orDefault(rec.String("currency"), "USD"),
		DiscountPrice:    rec.String("discount_price"),
		DurationDays:     rec.FirstString("duration.days", "duration_days"),
		DurationNights:   rec.FirstString("duration.nights", "duration_nights"),
		DifficultyLevel:  orDefault(rec.String("difficulty_level"), "Moderate"),
		MaxGroupSize:     rec.FirstString("group_size.max", "max_group_size"),
		MinGroupSize:     rec.FirstString("group_size.min", "min_group_size"),
		TourType:         rec.String("tour_type"),
		AvailableSlots:   rec.FirstString("booking.available_slots", "available_slots"),
		IsFeatured:       rec.Truthy("is_featured") || rec.Truthy("status.is_featured"),
		IsPopular:        rec.Truthy("is_popular") || rec.Truthy("status.is_popular"),
		FeaturedImageURL: rec.String("featured_image_url"),
	}
	switch {
	case rec.Has("is_active"):
		f.IsActive = rec.Truthy("is_active")
	case rec.Has("status.is_active"):
		f.IsActive = rec.Truthy("status.is_active")
	default:
		f.IsActive = true
	}
	f.Gallery.Existing = rec.Strings("gallery_images")
	return f
}

func (f *TourForm) EntityID() string { return f.ID }

func (f *TourForm) bindings() []binding {
	return []binding{
		{name: "title", str: &f.Title},
		{name: "destination", str: &f.Destination},
		{name: "description", str: &f.Description},
		{name: "price", str: &f.Price},
		{name: "currency", str: &f.Currency},
		{name: "discount_price", str: &f.DiscountPrice},
		{name: "duration_days", str: &f.DurationDays},
		{name: "duration_nights", str: &f.DurationNights},
		{name: "difficulty_level", str: &f.DifficultyLevel},
		{name: "max_group_size", str: &f.MaxGroupSize},
		{name: "min_group_size", str: &f.MinGroupSize},
		{name: "tour_type", str: &f.TourType},
		{name: "available_slots", str: &f.AvailableSlots},
		{name: "is_featured", flag: &f.IsFeatured},
		{name: "is_popular", flag: &f.IsPopular},
		{name: "is_active", flag: &f.IsActive},
	}
}

func (f *TourForm) SetField(name, value string) error {
	return setBound(f.bindings(), name, value)
}

func (f *TourForm) AddListItem(string) error                         { return ErrUnknownList }
func (f *TourForm) RemoveListItem(string, int) error                 { return ErrUnknownList }
func (f *TourForm) UpdateListItem(string, int, string, string) error { return ErrUnknownList }

// SetFeaturedImage replaces the chosen featured image. nil clears it.
func (f *TourForm) SetFeaturedImage(u *formdata.Upload) {
	f.FeaturedImage = u
}

// AddImages appends gallery images.
func (f *TourForm) AddImages(files ...formdata.Upload) { f.Gallery.add(files...) }
func (f *TourForm) RemoveNewImage(i int)               { f.Gallery.removeNew(i) }
func (f *TourForm) RemoveExistingImage(i int)          { f.Gallery.removeExisting(i) }

func (f *TourForm) Validate() map[string]string {
	errs := make(map[string]string)
	requireText(errs, "title", f.Title, "Title is required")
	requireText(errs, "destination", f.Destination, "Destination is required")
	requireNumber(errs, "price", f.Price, true)
	requireNumber(errs, "discount_price", f.DiscountPrice, false)
	requireNumber(errs, "duration_days", f.DurationDays, false)
	requireNumber(errs, "duration_nights", f.DurationNights, false)
	requireNumber(errs, "max_group_size", f.MaxGroupSize, false)
	requireNumber(errs, "min_group_size", f.MinGroupSize, false)
	requireNumber(errs, "available_slots", f.AvailableSlots, false)
	return errs
}

func (f *TourForm) Payload() *formdata.Payload {
	p := formdata.New()
	addBound(p, f.bindings())
	if f.FeaturedImage != nil {
		p.AddFile("featured_image", *f.FeaturedImage)
	}
	for _, u := range f.Gallery.New {
		p.AddFile("gallery_images[]", u)
	}
	f.Gallery.addKept(p, "existing_gallery_images[]", "removed_gallery_images[]")
	return p
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"slices"

	"github.com/DishantGiri/jamjam/internal/formdata"
	"github.com/DishantGiri/jamjam/internal/itinerary"
	"github.com/DishantGiri/jamjam/internal/model"
)

// TrekForm is the editable state of a trek.
type TrekForm struct {
	Mode Mode   `json:"mode"`
	ID   string `json:"id,omitempty"`

	Title       string `json:"title"`
	Location    string `json:"location"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	Duration    string `json:"duration"`
	Difficulty  string `json:"difficulty"`
	Type        string `json:"type"`
	DistanceKM  string `json:"distance_km"`
	DataType    string `json:"data_type"`
	Description string `json:"description"`
	IsFeatured  bool   `json:"is_featured"`
	IsActive    bool   `json:"is_active"`

	Days   []string `json:"trek_days"`
	Images Images   `json:"images"`
}

// NewTrekForm returns the defaults of the create form.
func NewTrekForm() *TrekForm {
	return &TrekForm{
		Mode:       ModeCreate,
		Currency:   "USD",
		Difficulty: "Moderate",
		Type:       "trek",
		DataType:   "trek",
		IsActive:   true,
		Days:       itinerary.Default(),
	}
}

// TrekFormFromRecord seeds an edit form from a stored trek.
func TrekFormFromRecord(rec model.Record) *TrekForm {
	f := &TrekForm{
		Mode:        ModeEdit,
		ID:          rec.ID(),
		Title:       rec.String("title"),
		Location:    rec.String("location"),
		Price:       rec.String("price"),
		Currency:    orDefault(rec.String("currency"), "USD"),
		Duration:    rec.String("duration"),
		Difficulty:  orDefault(rec.String("difficulty"), "Moderate"),
		Type:        orDefault(rec.String("type"), "trek"),
		DistanceKM:  rec.String("distance_km"),
		DataType:    orDefault(rec.String("data_type"), "trek"),
		Description: rec.String("description"),
		IsFeatured:  rec.Truthy("is_featured"),
		IsActive:    definedFlag(rec, "is_active"),
	}
	f.Days = itinerary.DecodeValue(rec["trek_days"])

	existing := rec.Strings("image_urls")
	if existing == nil {
		existing = rec.Strings("images")
	}
	f.Images.Existing = existing
	return f
}

func (f *TrekForm) EntityID() string { return f.ID }

func (f *TrekForm) bindings() []binding {
	return []binding{
		{name: "title", str: &f.Title},
		{name: "location", str: &f.Location},
		{name: "price", str: &f.Price},
		{name: "currency", str: &f.Currency},
		{name: "duration", str: &f.Duration},
		{name: "difficulty", str: &f.Difficulty},
		{name: "type", str: &f.Type},
		{name: "distance_km", str: &f.DistanceKM},
		{name: "data_type", str: &f.DataType},
		{name: "description", str: &f.Description},
		{name: "is_featured", flag: &f.IsFeatured},
		{name: "is_active", flag: &f.IsActive},
	}
}

// SetField assigns a scalar field by its backend name.
func (f *TrekForm) SetField(name, value string) error {
	return setBound(f.bindings(), name, value)
}

func (f *TrekForm) AddListItem(list string) error {
	if list != ListTrekDays {
		return ErrUnknownList
	}
	f.Days = append(slices.Clip(f.Days), NextDayLabel(len(f.Days)))
	return nil
}

// RemoveListItem drops day i. An edit form always keeps at least one day.
func (f *TrekForm) RemoveListItem(list string, i int) error {
	if list != ListTrekDays {
		return ErrUnknownList
	}
	if i < 0 || i >= len(f.Days) {
		return nil
	}
	if f.Mode == ModeEdit && len(f.Days) <= 1 {
		return nil
	}
	f.Days = slices.Delete(slices.Clone(f.Days), i, i+1)
	return nil
}

// UpdateListItem replaces the text of day i. field is ignored.
func (f *TrekForm) UpdateListItem(list string, i int, _ string, value string) error {
	if list != ListTrekDays {
		return ErrUnknownList
	}
	if i < 0 || i >= len(f.Days) {
		return nil
	}
	days := slices.Clone(f.Days)
	days[i] = value
	f.Days = days
	return nil
}

func (f *TrekForm) AddImages(files ...formdata.Upload) { f.Images.add(files...) }
func (f *TrekForm) RemoveNewImage(i int)               { f.Images.removeNew(i) }
func (f *TrekForm) RemoveExistingImage(i int)          { f.Images.removeExisting(i) }

func (f *TrekForm) Validate() map[string]string {
	errs := make(map[string]string)
	requireText(errs, "title", f.Title, "Title is required")
	requireText(errs, "location", f.Location, "Location is required")
	requireNumber(errs, "price", f.Price, true)
	requireNumber(errs, "distance_km", f.DistanceKM, false)
	return errs
}

// Payload assembles the multipart submission: scalars, flags, the day
// list as one JSON field, then the new images under images[].
func (f *TrekForm) Payload() *formdata.Payload {
	p := formdata.New()
	addBound(p, f.bindings())
	days := f.Days
	if days == nil {
		days = []string{}
	}
	p.AddJSON(ListTrekDays, days)
	for _, u := range f.Images.New {
		p.AddFile("images[]", u)
	}
	f.Images.addKept(p, "existing_images[]", "removed_images[]")
	return p
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// definedFlag reads a flag that defaults to true only when absent.
func definedFlag(rec model.Record, path string) bool {
	if rec.Has(path) {
		return rec.Truthy(path)
	}
	return true
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form holds the editable state of one trek, tour or blog while an
// admin creates or edits it, and assembles the multipart submission from it.
//
// Every mutation replaces only the slice or field it targets; slices handed
// out earlier are never written to.
package form

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/DishantGiri/jamjam/internal/formdata"
)

// List names accepted by the list operations.
const (
	ListTrekDays = "trek_days"
	ListContent  = "content"
)

// Section fields accepted by UpdateListItem on the content list.
const (
	FieldHeading   = "heading"
	FieldParagraph = "paragraph"
)

// Errors returned by form operations.
var (
	ErrUnknownList  = errors.New("unknown list")
	ErrUnknownField = errors.New("unknown field")
)

// Mode tells whether a form creates a new entity or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Form is the operation set shared by the trek, tour and blog forms.
type Form interface {
	EntityID() string
	AddListItem(list string) error
	RemoveListItem(list string, index int) error
	UpdateListItem(list string, index int, field, value string) error
	AddImages(files ...formdata.Upload)
	RemoveNewImage(index int)
	RemoveExistingImage(index int)
	SetField(name, value string) error
	Validate() map[string]string
	Payload() *formdata.Payload
}

// Section is one heading/paragraph pair of a blog post body.
type Section struct {
	Heading   string `json:"heading"`
	Paragraph string `json:"paragraph"`
}

// Images tracks the existing remote images of an entity and the new files
// chosen during this session.
type Images struct {
	Existing []string          `json:"existing"`
	New      []formdata.Upload `json:"-"`
	Removed  []string          `json:"removed,omitempty"`
}

// NewNames lists the file names of the new images, in selection order.
func (im Images) NewNames() []string {
	out := make([]string, len(im.New))
	for i, u := range im.New {
		out[i] = u.Filename
	}
	return out
}

func (im *Images) add(files ...formdata.Upload) {
	if len(files) == 0 {
		return
	}
	im.New = append(slices.Clip(im.New), files...)
}

func (im *Images) removeNew(i int) {
	if i < 0 || i >= len(im.New) {
		return
	}
	im.New = slices.Delete(slices.Clone(im.New), i, i+1)
}

func (im *Images) removeExisting(i int) {
	if i < 0 || i >= len(im.Existing) {
		return
	}
	im.Removed = append(slices.Clip(im.Removed), im.Existing[i])
	im.Existing = slices.Delete(slices.Clone(im.Existing), i, i+1)
}

// addKept writes the surviving existing URLs and the removed URLs once
// any existing image was removed. The removed list keeps the change
// visible when nothing survives.
func (im Images) addKept(p *formdata.Payload, keptField, removedField string) {
	if len(im.Removed) == 0 {
		return
	}
	for _, url := range im.Existing {
		p.Add(keptField, url)
	}
	for _, url := range im.Removed {
		p.Add(removedField, url)
	}
}

// binding ties a backend field name to a form value. Exactly one of str
// and flag is set.
type binding struct {
	name string
	str  *string
	flag *bool
}

func setBound(bindings []binding, name, value string) error {
	for _, b := range bindings {
		if b.name != name {
			continue
		}
		if b.flag != nil {
			*b.flag = ParseBool(value)
		} else {
			*b.str = value
		}
		return nil
	}
	return ErrUnknownField
}

func addBound(p *formdata.Payload, bindings []binding) {
	for _, b := range bindings {
		if b.flag != nil {
			p.AddBool(b.name, *b.flag)
		} else {
			p.Add(b.name, *b.str)
		}
	}
}

// ParseBool reads a checkbox or flag value as submitted by browsers and
// the backend: "1", "true", "on" and "yes" are true.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// NextDayLabel is the prefilled text of a day appended to a list of n days.
func NextDayLabel(n int) string {
	return "Day " + strconv.Itoa(n+1) + ": "
}

func requireText(errs map[string]string, field, value, msg string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = msg
	}
}

func requireNumber(errs map[string]string, field, value string, required bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		if required {
			errs[field] = "This field is required"
		}
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err != nil || f < 0 {
		errs[field] = "Must be a non-negative number"
	}
}

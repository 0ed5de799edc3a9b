// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package form

import (
	"encoding/json"
	"regexp"
	"slices"

	"github.com/DishantGiri/jamjam/internal/formdata"
	"github.com/DishantGiri/jamjam/internal/model"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BlogForm is the editable state of a blog post. A post has a single
// featured image.
type BlogForm struct {
	Mode Mode   `json:"mode"`
	ID   string `json:"id,omitempty"`

	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Excerpt     string `json:"excerpt"`
	Author      string `json:"author"`
	Conclusion  string `json:"conclusion"`
	Slug        string `json:"slug"`
	IsActive    bool   `json:"is_active"`

	Content []Section `json:"content"`
	Image   Images    `json:"image"`
}

// NewBlogForm returns the defaults of the create form.
func NewBlogForm() *BlogForm {
	return &BlogForm{
		Mode:     ModeCreate,
		IsActive: true,
		Content:  []Section{{}},
	}
}

// BlogFormFromRecord seeds an edit form from a stored post.
func BlogFormFromRecord(rec model.Record) *BlogForm {
	f := &BlogForm{
		Mode:        ModeEdit,
		ID:          rec.ID(),
		Title:       rec.String("title"),
		Subtitle:    rec.String("subtitle"),
		Description: rec.String("description"),
		Excerpt:     rec.String("excerpt"),
		Author:      rec.String("author"),
		Conclusion:  rec.String("conclusion"),
		Slug:        rec.String("slug"),
		IsActive:    rec.Truthy("is_active"),
		Content:     sectionsOf(rec["content"]),
	}
	if len(f.Content) == 0 {
		f.Content = []Section{{}}
	}
	if url := rec.FirstString("image_url", "image"); url != "" {
		f.Image.Existing = []string{url}
	}
	return f
}

// sectionsOf reads stored sections. Some records hold the list as JSON text.
func sectionsOf(v any) []Section {
	if s, ok := v.(string); ok {
		var out []Section
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil
		}
		return out
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Section, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := model.Record(m)
		out = append(out, Section{Heading: rec.String("heading"), Paragraph: rec.String("paragraph")})
	}
	return out
}

func (f *BlogForm) EntityID() string { return f.ID }

func (f *BlogForm) bindings() []binding {
	return []binding{
		{name: "title", str: &f.Title},
		{name: "subtitle", str: &f.Subtitle},
		{name: "description", str: &f.Description},
		{name: "excerpt", str: &f.Excerpt},
		{name: "author", str: &f.Author},
		{name: "conclusion", str: &f.Conclusion},
		{name: "slug", str: &f.Slug},
		{name: "is_active", flag: &f.IsActive},
	}
}

func (f *BlogForm) SetField(name, value string) error {
	return setBound(f.bindings(), name, value)
}

func (f *BlogForm) AddListItem(list string) error {
	if list != ListContent {
		return ErrUnknownList
	}
	f.Content = append(slices.Clip(f.Content), Section{})
	return nil
}

func (f *BlogForm) RemoveListItem(list string, i int) error {
	if list != ListContent {
		return ErrUnknownList
	}
	if i < 0 || i >= len(f.Content) {
		return nil
	}
	f.Content = slices.Delete(slices.Clone(f.Content), i, i+1)
	return nil
}

func (f *BlogForm) UpdateListItem(list string, i int, field, value string) error {
	if list != ListContent {
		return ErrUnknownList
	}
	if field != FieldHeading && field != FieldParagraph {
		return ErrUnknownField
	}
	if i < 0 || i >= len(f.Content) {
		return nil
	}
	content := slices.Clone(f.Content)
	if field == FieldHeading {
		content[i].Heading = value
	} else {
		content[i].Paragraph = value
	}
	f.Content = content
	return nil
}

// AddImages sets the featured image; only the last file is kept.
func (f *BlogForm) AddImages(files ...formdata.Upload) {
	if len(files) == 0 {
		return
	}
	f.Image.New = []formdata.Upload{files[len(files)-1]}
}

func (f *BlogForm) RemoveNewImage(i int)      { f.Image.removeNew(i) }
func (f *BlogForm) RemoveExistingImage(i int) { f.Image.removeExisting(i) }

func (f *BlogForm) Validate() map[string]string {
	errs := make(map[string]string)
	requireText(errs, "title", f.Title, "Title is required")
	if f.Slug != "" && !slugPattern.MatchString(f.Slug) {
		errs["slug"] = "Slug may contain only lowercase letters, digits and hyphens"
	}
	if f.Mode == ModeCreate && len(f.Image.New) == 0 {
		errs["image"] = "Please select a featured image"
	}
	return errs
}

func (f *BlogForm) Payload() *formdata.Payload {
	p := formdata.New()
	addBound(p, f.bindings())
	content := f.Content
	if content == nil {
		content = []Section{}
	}
	p.AddJSON(ListContent, content)
	if len(f.Image.New) > 0 {
		p.AddFile("image", f.Image.New[0])
	}
	return p
}

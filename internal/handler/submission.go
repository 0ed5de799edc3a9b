// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/DishantGiri/jamjam/internal/form"
	"github.com/DishantGiri/jamjam/internal/formdata"
	"github.com/DishantGiri/jamjam/internal/itinerary"
)

// Browser field names that are not plain scalars.
const (
	fieldTrekDays         = "trek_days"
	fieldTrekDaysList     = "trek_days[]"
	fieldContent          = "content"
	fieldContentHeadings  = "content[heading][]"
	fieldContentParagraph = "content[paragraph][]"
	fieldRemoveExisting   = "remove_existing[]"
	fieldFeaturedImage    = "featured_image"
	fieldMethod           = "_method"
)

// imageFields are the file fields whose uploads become new images.
var imageFields = []string{"images[]", "gallery_images[]", "image", "images"}

// multipartMemory is held in memory before files spill to disk.
const multipartMemory = 8 << 20

// submissionError is a client mistake in the submitted form.
type submissionError struct {
	field string
	msg   string
}

func (e *submissionError) Error() string { return e.field + ": " + e.msg }

// submission is a parsed browser form.
type submission struct {
	values map[string][]string
	files  map[string][]*multipart.FileHeader
}

// parseSubmission reads a multipart or urlencoded body of at most limit
// bytes.
func parseSubmission(w http.ResponseWriter, r *http.Request, limit int64) (*submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case err == nil:
		return &submission{values: r.MultipartForm.Value, files: r.MultipartForm.File}, nil
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &submission{values: r.PostForm}, nil
	default:
		return nil, err
	}
}

func (s *submission) has(name string) bool {
	_, ok := s.values[name]
	return ok
}

func (s *submission) get(name string) string {
	if v := s.values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// isStructural reports whether name is handled outside SetField.
func isStructural(name string) bool {
	switch name {
	case fieldTrekDays, fieldTrekDaysList, fieldContent, fieldContentHeadings,
		fieldContentParagraph, fieldRemoveExisting, fieldMethod:
		return true
	}
	return false
}

// apply copies the submission onto f: scalars first, then lists, then
// removals of existing images, then new uploads. Fields the form does not
// know are ignored.
func (s *submission) apply(f form.Form) error {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		if !isStructural(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if err := f.SetField(name, s.get(name)); err != nil && !errors.Is(err, form.ErrUnknownField) {
			return err
		}
	}

	switch f := f.(type) {
	case *form.TrekForm:
		if days, ok := s.trekDays(); ok {
			f.Days = days
		}
	case *form.BlogForm:
		sections, ok, err := s.sections()
		if err != nil {
			return err
		}
		if ok {
			f.Content = sections
		}
	}

	if err := s.removeExisting(f); err != nil {
		return err
	}
	return s.attachFiles(f)
}

// trekDays reads trek_days[] or a JSON trek_days field. A plain JSON list
// is taken as sent, empty included; anything else goes through the
// itinerary decoder.
func (s *submission) trekDays() ([]string, bool) {
	if days, ok := s.values[fieldTrekDaysList]; ok {
		return slices.Clone(days), true
	}
	if !s.has(fieldTrekDays) {
		return nil, false
	}
	raw := s.get(fieldTrekDays)
	var days []string
	if err := json.Unmarshal([]byte(raw), &days); err == nil {
		if days == nil {
			days = []string{}
		}
		return days, true
	}
	return itinerary.DecodeValue(raw), true
}

// sections reads content[heading][]/content[paragraph][] pairs or a JSON
// content field.
func (s *submission) sections() ([]form.Section, bool, error) {
	headings, hok := s.values[fieldContentHeadings]
	paragraphs, pok := s.values[fieldContentParagraph]
	if hok || pok {
		n := max(len(headings), len(paragraphs))
		out := make([]form.Section, n)
		for i := range out {
			if i < len(headings) {
				out[i].Heading = headings[i]
			}
			if i < len(paragraphs) {
				out[i].Paragraph = paragraphs[i]
			}
		}
		return out, true, nil
	}
	if !s.has(fieldContent) {
		return nil, false, nil
	}
	var out []form.Section
	if err := json.Unmarshal([]byte(s.get(fieldContent)), &out); err != nil {
		return nil, false, &submissionError{field: fieldContent, msg: "must be a JSON list of sections"}
	}
	return out, true, nil
}

// removeExisting drops existing images by index, highest first so the
// remaining indices stay valid.
func (s *submission) removeExisting(f form.Form) error {
	raw := s.values[fieldRemoveExisting]
	idx := make([]int, 0, len(raw))
	for _, v := range raw {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || i < 0 {
			return &submissionError{field: fieldRemoveExisting, msg: "must be image indices"}
		}
		idx = append(idx, i)
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)
	for _, i := range slices.Backward(idx) {
		f.RemoveExistingImage(i)
	}
	return nil
}

func (s *submission) attachFiles(f form.Form) error {
	for _, field := range imageFields {
		uploads, err := readImages(field, s.files[field])
		if err != nil {
			return err
		}
		f.AddImages(uploads...)
	}

	headers := s.files[fieldFeaturedImage]
	if len(headers) == 0 {
		return nil
	}
	tour, ok := f.(*form.TourForm)
	if !ok {
		return nil
	}
	uploads, err := readImages(fieldFeaturedImage, headers[:1])
	if err != nil {
		return err
	}
	tour.SetFeaturedImage(&uploads[0])
	return nil
}

// readImages loads uploaded files and rejects anything that does not sniff
// as an image. The declared content type is ignored.
func readImages(field string, headers []*multipart.FileHeader) ([]formdata.Upload, error) {
	out := make([]formdata.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		mt := mimetype.Detect(data)
		if !strings.HasPrefix(mt.String(), "image/") {
			return nil, &submissionError{field: field, msg: fmt.Sprintf("%s is not an image", fh.Filename)}
		}
		out = append(out, formdata.Upload{
			Filename:    fh.Filename,
			ContentType: mt.String(),
			Data:        data,
		})
	}
	return out, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

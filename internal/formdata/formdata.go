// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package formdata assembles multipart submissions in the field layout the
// backend expects: every value is text, booleans are "1"/"0", list values
// are one JSON field, and files may repeat under the same field name.
package formdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// Upload is a locally selected file that has not been sent yet.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Field is one text field of the payload.
type Field struct {
	Name  string
	Value string
}

// File is one file part of the payload.
type File struct {
	Field  string
	Upload Upload
}

// Payload is an ordered multipart submission.
type Payload struct {
	fields []Field
	files  []File
}

// New creates an empty payload.
func New() *Payload {
	return &Payload{}
}

// Clone returns a copy that can be extended without touching p.
func (p *Payload) Clone() *Payload {
	return &Payload{fields: slices.Clone(p.fields), files: slices.Clone(p.files)}
}

// Add appends a text field.
func (p *Payload) Add(name, value string) {
	p.fields = append(p.fields, Field{Name: name, Value: value})
}

// AddBool appends a boolean as "1" or "0".
func (p *Payload) AddBool(name string, v bool) {
	p.Add(name, BoolValue(v))
}

// AddJSON appends v encoded once as JSON text. HTML characters are not
// escaped. Values that cannot be encoded are sent as "null".
func (p *Payload) AddJSON(name string, v any) {
	p.Add(name, JSONValue(v))
}

// AddFile appends a file part. Repeated names are kept in call order.
func (p *Payload) AddFile(field string, u Upload) {
	p.files = append(p.files, File{Field: field, Upload: u})
}

// Fields returns the text fields in order.
func (p *Payload) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// Files returns the file parts in order.
func (p *Payload) Files() []File {
	return append([]File(nil), p.files...)
}

// Values returns every value of the named text field.
func (p *Payload) Values(name string) []string {
	var out []string
	for _, f := range p.fields {
		if f.Name == name {
			out = append(out, f.Value)
		}
	}
	return out
}

// Value returns the first value of the named text field.
func (p *Payload) Value(name string) string {
	for _, f := range p.fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// FileNames returns the file names sent under field, in order.
func (p *Payload) FileNames(field string) []string {
	var out []string
	for _, f := range p.files {
		if f.Field == field {
			out = append(out, f.Upload.Filename)
		}
	}
	return out
}

// Encode writes the multipart body to w and returns its content type.
func (p *Payload) Encode(w io.Writer) (string, error) {
	mw := multipart.NewWriter(w)

	for _, f := range p.fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return "", fmt.Errorf("writing field %s: %w", f.Name, err)
		}
	}

	for _, f := range p.files {
		part, err := mw.CreatePart(fileHeader(f))
		if err != nil {
			return "", fmt.Errorf("creating part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Upload.Data); err != nil {
			return "", fmt.Errorf("writing part %s: %w", f.Field, err)
		}
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return mw.FormDataContentType(), nil
}

// Body encodes the payload into a buffer.
func (p *Payload) Body() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	ct, err := p.Encode(&buf)
	if err != nil {
		return nil, "", err
	}
	return &buf, ct, nil
}

// BoolValue renders a flag the way the backend accepts it in form fields.
func BoolValue(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// JSONValue encodes v once as compact JSON without HTML escaping.
func JSONValue(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(f File) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Upload.Filename)))
	ct := f.Upload.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return h
}

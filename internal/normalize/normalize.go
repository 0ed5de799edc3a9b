// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package normalize extracts entity lists from backend responses whose
// envelope shape differs between endpoints. It never fails: anything it
// does not recognise becomes an empty list.
package normalize

import (
	"github.com/tidwall/gjson"

	"github.com/DishantGiri/jamjam/internal/model"
)

// List returns the entities of collection found in raw.
//
// Shapes are tried in order, first match wins:
//
//	{"success":true,"data":{"<collection>":[...]}}
//	{"success":true,"data":[...]}
//	[...]
//	{"data":[...]}
//	{"<collection>":[...]} | {"items":[...]} | {"data":{"<collection>"|"items":[...]}}
//
// Elements that are not objects are skipped.
func List(raw []byte, collection string) []model.Record {
	arr, ok := locate(raw, collection)
	if !ok {
		return []model.Record{}
	}
	return records(arr)
}

// Count returns how many entities List would return, without decoding them.
func Count(raw []byte, collection string) int {
	arr, ok := locate(raw, collection)
	if !ok {
		return 0
	}
	n := 0
	arr.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			n++
		}
		return true
	})
	return n
}

// One extracts a single entity from a detail response: data.<key>, a data
// object, <key> at the root, or the root object itself.
// Reports false when no object is found.
func One(raw []byte, key string) (model.Record, bool) {
	if !gjson.ValidBytes(raw) {
		return nil, false
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, false
	}

	candidates := []gjson.Result{
		root.Get("data." + key),
		root.Get("data"),
		root.Get(key),
	}
	for _, c := range candidates {
		if c.IsObject() {
			return toRecord(c), true
		}
	}

	// A bare envelope is not an entity.
	if root.Get("success").Exists() && !root.Get("id").Exists() {
		return nil, false
	}
	return toRecord(root), true
}

func locate(raw []byte, collection string) (gjson.Result, bool) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return gjson.Result{}, false
	}
	root := gjson.ParseBytes(raw)

	success := root.IsObject() && root.Get("success").Type == gjson.True
	data := gjson.Result{}
	if root.IsObject() {
		data = root.Get("data")
	}

	switch {
	case success && data.Get(collection).IsArray():
		return data.Get(collection), true
	case success && data.IsArray():
		return data, true
	case root.IsArray():
		return root, true
	case data.IsArray():
		return data, true
	case root.IsObject():
		for _, c := range []gjson.Result{
			root.Get(collection),
			root.Get("items"),
			data.Get(collection),
			data.Get("items"),
		} {
			if c.IsArray() {
				return c, true
			}
		}
	}
	return gjson.Result{}, false
}

func records(arr gjson.Result) []model.Record {
	out := make([]model.Record, 0, len(arr.Array()))
	arr.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			out = append(out, toRecord(v))
		}
		return true
	})
	return out
}

func toRecord(v gjson.Result) model.Record {
	m, ok := v.Value().(map[string]any)
	if !ok {
		return model.Record{}
	}
	return model.Record(m)
}

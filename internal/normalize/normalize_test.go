// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTreks = `[{"id":1,"title":"Everest Base Camp"},{"id":2,"title":"Langtang Valley"}]`

func titles(t *testing.T, raw string, collection string) []string {
	t.Helper()
	list := List([]byte(raw), collection)
	out := make([]string, 0, len(list))
	for _, rec := range list {
		out = append(out, rec.String("title"))
	}
	return out
}

func TestList_EnvelopeShapes(t *testing.T) {
	want := []string{"Everest Base Camp", "Langtang Valley"}

	tests := []struct {
		name string
		raw  string
	}{
		{"success with nested collection", `{"success":true,"data":{"treks":` + twoTreks + `,"pagination":{"total":2}}}`},
		{"success with data array", `{"success":true,"data":` + twoTreks + `}`},
		{"bare array", twoTreks},
		{"data array without success", `{"data":` + twoTreks + `}`},
		{"collection key at root", `{"treks":` + twoTreks + `}`},
		{"items key at root", `{"items":` + twoTreks + `}`},
		{"collection under data object without success", `{"data":{"treks":` + twoTreks + `}}`},
		{"items under data object", `{"success":false,"data":{"items":` + twoTreks + `}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, titles(t, tt.raw, "treks"))
		})
	}
}

func TestList_UnknownShapesAreEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty input", ``},
		{"invalid json", `{"data":[`},
		{"null", `null`},
		{"string", `"treks"`},
		{"number", `42`},
		{"object without list", `{"success":true,"message":"ok"}`},
		{"collection is not a list", `{"treks":{"id":1}}`},
		{"success with object data lacking collection", `{"success":true,"data":{"tours":[{"id":1}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := List([]byte(tt.raw), "treks")
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestList_FirstMatchWins(t *testing.T) {
	// success+data.collection beats a root-level collection key.
	raw := `{"success":true,"data":{"treks":[{"title":"A"}]},"treks":[{"title":"B"}]}`
	assert.Equal(t, []string{"A"}, titles(t, raw, "treks"))

	// success must be literally true for rule 1 to apply; data array then wins via rule 4.
	raw = `{"success":"yes","data":[{"title":"C"}],"treks":[{"title":"D"}]}`
	assert.Equal(t, []string{"C"}, titles(t, raw, "treks"))
}

func TestList_SkipsNonObjects(t *testing.T) {
	raw := `[{"title":"A"},"junk",3,null,{"title":"B"}]`
	assert.Equal(t, []string{"A", "B"}, titles(t, raw, "treks"))
	assert.Equal(t, 2, Count([]byte(raw), "treks"))
}

func TestList_PreservesNestedValues(t *testing.T) {
	raw := `{"success":true,"data":{"tours":[{"id":7,"status":{"is_featured":true},"price":1200.5}]}}`
	list := List([]byte(raw), "tours")
	require.Len(t, list, 1)

	assert.Equal(t, "7", list[0].ID())
	assert.True(t, list[0].Truthy("status.is_featured"))
	assert.Equal(t, "1200.5", list[0].String("price"))
}

func TestOne(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		wantOK bool
		title  string
	}{
		{"data keyed", `{"success":true,"data":{"blog":{"title":"Hello"}}}`, true, "Hello"},
		{"data object", `{"success":true,"data":{"id":3,"title":"Tour"}}`, true, "Tour"},
		{"root keyed", `{"tour":{"title":"Root"}}`, true, "Root"},
		{"bare object", `{"id":9,"title":"Bare"}`, true, "Bare"},
		{"envelope without entity", `{"success":false,"message":"not found"}`, false, ""},
		{"array", `[{"title":"x"}]`, false, ""},
		{"invalid", `{`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := One([]byte(tt.raw), keyFor(tt.name))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.title, rec.String("title"))
			}
		})
	}
}

func keyFor(name string) string {
	switch name {
	case "data keyed":
		return "blog"
	default:
		return "tour"
	}
}

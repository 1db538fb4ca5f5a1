// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/idea-engine/pkg/types"
)

func baseQuery() types.QueryVariant {
	return types.QueryVariant{
		ID:     "q_transport",
		Text:   "How might we improve urban transportation?",
		Origin: types.OriginBase,
	}
}

func TestVariations_Deterministic(t *testing.T) {
	first := Variations(baseQuery(), 4)
	second := Variations(baseQuery(), 4)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("variations differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestVariations_Count(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 1},
		{3, 3},
		{6, 6},
	}
	for _, tt := range tests {
		got := Variations(baseQuery(), tt.count)
		if len(got) != tt.want {
			t.Errorf("Variations(count=%d) produced %d variants", tt.count, len(got))
		}
	}
}

func TestVariations_Provenance(t *testing.T) {
	variants := Variations(baseQuery(), 6)

	seenTexts := map[string]bool{baseQuery().Text: true}
	for _, v := range variants {
		if v.Origin != types.OriginGenerated {
			t.Errorf("%s origin = %q, want generated", v.ID, v.Origin)
		}
		if v.ParentID != "q_transport" {
			t.Errorf("%s parent = %q, want q_transport", v.ID, v.ParentID)
		}
		if v.Strategy == "" {
			t.Errorf("%s has no strategy", v.ID)
		}
		if !strings.HasPrefix(v.ID, "q_transport_") {
			t.Errorf("variant id %q should derive from the base id", v.ID)
		}
		if seenTexts[v.Text] {
			t.Errorf("duplicate variant text %q", v.Text)
		}
		seenTexts[v.Text] = true
	}
}

func TestVariations_FirstStrategyAppendsConstraint(t *testing.T) {
	variants := Variations(baseQuery(), 1)
	if len(variants) != 1 {
		t.Fatalf("got %d variants", len(variants))
	}
	want := "How might we improve urban transportation with limited resources?"
	if variants[0].Text != want {
		t.Errorf("text = %q, want %q", variants[0].Text, want)
	}
	if variants[0].Strategy != "constraints" {
		t.Errorf("strategy = %q, want constraints", variants[0].Strategy)
	}
}

func TestRephrase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   "How might we improve schools?",
			want: "What are effective ways to improve schools?",
		},
		{
			in:   "What are the best transit options?",
			want: "How might we identify the best transit options?",
		},
		{
			in:   "Reduce food waste",
			want: "What innovative approaches could address the challenge of reduce food waste?",
		},
	}
	for _, tt := range tests {
		if got := rephrase(tt.in); got != tt.want {
			t.Errorf("rephrase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractSubject(t *testing.T) {
	got := extractSubject("How might we improve urban transportation?")
	if got != "improve urban transportation" {
		t.Errorf("extractSubject = %q", got)
	}
}

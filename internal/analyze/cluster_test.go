// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// fixedEmbedder returns pre-baked vectors keyed by text.
type fixedEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fixedEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.vectors[text]
	}
	return out, nil
}

func TestKmeans_SeparatesObviousGroups(t *testing.T) {
	items := []TextRef{
		{ID: "a1", Text: "ta"},
		{ID: "a2", Text: "tb"},
		{ID: "b1", Text: "tc"},
		{ID: "b2", Text: "td"},
	}
	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"ta": {0, 0}, "tb": {0.1, 0}, "tc": {10, 10}, "td": {10.1, 10},
	}}
	var buf bytes.Buffer

	clusters, err := Clusters(context.Background(), embedder, items, types.EvaluationConfig{NClusters: 2}, &buf)
	if err != nil {
		t.Fatalf("Clusters: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if !reflect.DeepEqual(clusters[0].Members, []string{"a1", "a2"}) {
		t.Errorf("cluster_1 members = %v", clusters[0].Members)
	}
	if !reflect.DeepEqual(clusters[1].Members, []string{"b1", "b2"}) {
		t.Errorf("cluster_2 members = %v", clusters[1].Members)
	}
	if clusters[0].ID != "cluster_1" || clusters[1].ID != "cluster_2" {
		t.Errorf("cluster ids = %s, %s", clusters[0].ID, clusters[1].ID)
	}
	if len(clusters[0].Centroid) != 2 {
		t.Errorf("centroid = %v, want a 2-dim vector", clusters[0].Centroid)
	}
}

func TestClusters_FewerInputsThanClusters(t *testing.T) {
	items := []TextRef{
		{ID: "a", Text: "one"},
		{ID: "b", Text: "two"},
		{ID: "c", Text: "three"},
	}
	embedder := &fixedEmbedder{vectors: map[string][]float32{
		"one": {0}, "two": {5}, "three": {10},
	}}
	var buf bytes.Buffer

	clusters, err := Clusters(context.Background(), embedder, items, types.EvaluationConfig{NClusters: 5}, &buf)
	if err != nil {
		t.Fatalf("Clusters: %v", err)
	}
	if len(clusters) != 3 {
		t.Errorf("got %d clusters, want one per input", len(clusters))
	}
	for _, c := range clusters {
		if len(c.Members) != 1 {
			t.Errorf("%s holds %d members, want 1", c.ID, len(c.Members))
		}
	}
}

func TestClusters_EmbedderFailureFallsBack(t *testing.T) {
	items := []TextRef{
		{ID: "a", Text: "solar panel arrays generate power. solar panel arrays scale well."},
		{ID: "b", Text: "wind turbine farms generate power. wind turbine farms scale well."},
	}
	embedder := &fixedEmbedder{err: errors.New("backend down")}
	var buf bytes.Buffer

	clusters, err := Clusters(context.Background(), embedder, items, types.EvaluationConfig{NClusters: 2}, &buf)
	if err != nil {
		t.Fatalf("Clusters should degrade, not fail: %v", err)
	}
	if len(clusters) == 0 {
		t.Fatal("fallback produced no clusters")
	}
	if !strings.Contains(buf.String(), "falling back to keyword overlap") {
		t.Errorf("missing degradation warning:\n%s", buf.String())
	}
	for _, c := range clusters {
		if len(c.Centroid) != 0 {
			t.Errorf("keyword fallback cluster %s carries a centroid", c.ID)
		}
	}
}

func TestClusters_NilEmbedderUsesKeywordPath(t *testing.T) {
	items := []TextRef{
		{ID: "a", Text: "bus rapid transit lanes. bus rapid transit works."},
		{ID: "b", Text: "bike lane networks everywhere. bike lane networks connect."},
	}
	var buf bytes.Buffer

	clusters, err := Clusters(context.Background(), nil, items, types.EvaluationConfig{NClusters: 2}, &buf)
	if err != nil {
		t.Fatalf("Clusters: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if !strings.Contains(buf.String(), "no embedding backend") {
		t.Errorf("missing fallback notice:\n%s", buf.String())
	}
}

func TestClusters_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	clusters, err := Clusters(context.Background(), nil, nil, types.EvaluationConfig{}, &buf)
	if err != nil {
		t.Fatalf("Clusters: %v", err)
	}
	if clusters != nil {
		t.Errorf("clusters = %+v, want nil", clusters)
	}
}

func TestLabel(t *testing.T) {
	repeated := []TextRef{
		{ID: "a", Text: "community solar gardens grow. community solar gardens thrive."},
	}
	if got := Label(repeated, types.EvaluationConfig{}); !strings.Contains(got, "community solar") {
		t.Errorf("label = %q, want the recurring phrase", got)
	}

	unique := []TextRef{{ID: "a", Text: "every word appears once here"}}
	got := Label(unique, types.EvaluationConfig{})
	if got == "" || strings.Contains(got, " ") {
		t.Errorf("label = %q, want a single frequent word", got)
	}

	if got := Label([]TextRef{{ID: "a", Text: "a b c"}}, types.EvaluationConfig{}); got != "unlabeled" {
		t.Errorf("label = %q, want unlabeled for short-word-only text", got)
	}
}

func TestSortByScore(t *testing.T) {
	state := &types.SessionState{
		Version: types.SchemaVersion,
		Combinations: []types.Combination{
			{ID: "low", Status: types.StatusExecuted, Result: &types.Result{Text: "l", Status: types.ResultOK}, Score: &types.Score{Aggregate: 0.2}},
			{ID: "high", Status: types.StatusExecuted, Result: &types.Result{Text: "h", Status: types.ResultOK}, Score: &types.Score{Aggregate: 0.9}},
			{ID: "mid-a", Status: types.StatusExecuted, Result: &types.Result{Text: "m", Status: types.ResultOK}, Score: &types.Score{Aggregate: 0.5}},
			{ID: "mid-b", Status: types.StatusExecuted, Result: &types.Result{Text: "m", Status: types.ResultOK}, Score: &types.Score{Aggregate: 0.5}},
		},
	}
	items := []TextRef{{ID: "mid-b"}, {ID: "low"}, {ID: "high"}, {ID: "mid-a"}}

	SortByScore(state, items)

	got := []string{items[0].ID, items[1].ID, items[2].ID, items[3].ID}
	want := []string{"high", "mid-a", "mid-b", "low"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

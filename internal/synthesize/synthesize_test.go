// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesize

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/idea-engine/pkg/types"
)

func scoredCombination(model, text string, aggregate float64) types.Combination {
	id := types.CombinationKey(model, "i1", "q1", "d1")
	return types.Combination{
		ID:            id,
		ModelID:       model,
		InstructionID: "i1",
		QueryID:       "q1",
		DomainID:      "d1",
		Status:        types.StatusExecuted,
		Result:        &types.Result{Text: text, Status: types.ResultOK},
		Score:         &types.Score{Aggregate: aggregate},
	}
}

func clusteredState() *types.SessionState {
	state := &types.SessionState{Version: types.SchemaVersion}
	state.Combinations = []types.Combination{
		scoredCombination("m1", "Transit hubs as community anchors\n\nBuild mixed-use stations.", 0.8),
		scoredCombination("m2", "Bike corridor networks\n\nConnect neighborhoods with protected lanes.", 0.6),
		scoredCombination("m3", "Dynamic congestion pricing\n\nPrice road use by demand.", 0.4),
	}
	state.Clusters = []types.Cluster{
		{ID: "cluster_1", Label: "transit hubs", Members: []string{state.Combinations[0].ID, state.Combinations[2].ID}},
		{ID: "cluster_2", Label: "bike corridors", Members: []string{state.Combinations[1].ID}},
	}
	return state
}

func assertSharesSumToOne(t *testing.T, idea types.SynthesizedIdea) {
	t.Helper()
	var total float64
	for _, share := range idea.Contributions {
		total += share
	}
	if math.Abs(total-1) > 1e-6 {
		t.Errorf("%s contributions sum to %v, want 1", idea.Method, total)
	}
}

func TestClusterBased_OneIdeaPerCluster(t *testing.T) {
	state := clusteredState()
	var buf bytes.Buffer

	ideas, err := (ClusterBased{}).Synthesize(state, types.ExtractionConfig{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(ideas) != 2 {
		t.Fatalf("got %d ideas, want 2 (one per cluster)", len(ideas))
	}

	first := ideas[0]
	if first.Method != MethodClusterBased {
		t.Errorf("method = %q", first.Method)
	}
	if first.Title != "Transit hubs as community anchors" {
		t.Errorf("title = %q", first.Title)
	}
	if len(first.Sources) != 2 {
		t.Errorf("sources = %v, want both cluster members", first.Sources)
	}
	assertSharesSumToOne(t, first)

	// m1 scored 0.8 and m3 scored 0.4 within cluster_1, so shares are 2:1.
	if got := first.Contributions["m1"]; math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("m1 share = %v, want 2/3", got)
	}
	if got := first.Contributions["m3"]; math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("m3 share = %v, want 1/3", got)
	}
}

func TestClusterBased_NoClusters(t *testing.T) {
	state := &types.SessionState{Version: types.SchemaVersion}
	var buf bytes.Buffer

	ideas, err := (ClusterBased{}).Synthesize(state, types.ExtractionConfig{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(ideas) != 0 {
		t.Errorf("got %d ideas from empty state", len(ideas))
	}
	if !strings.Contains(buf.String(), "no clusters") {
		t.Errorf("missing skip reason:\n%s", buf.String())
	}
}

func TestCrossPollination_SpansModels(t *testing.T) {
	state := clusteredState()
	var buf bytes.Buffer

	ideas, err := (CrossPollination{}).Synthesize(state, types.ExtractionConfig{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("got %d ideas, want 1", len(ideas))
	}

	idea := ideas[0]
	if len(idea.Contributions) < 2 {
		t.Errorf("contributions span %d models, want at least 2", len(idea.Contributions))
	}
	assertSharesSumToOne(t, idea)

	// Even split: one representative per cluster, two clusters.
	for model, share := range idea.Contributions {
		if math.Abs(share-0.5) > 1e-9 {
			t.Errorf("share for %s = %v, want 0.5", model, share)
		}
	}
	if len(idea.ClusterIDs) != 2 {
		t.Errorf("cluster IDs = %v", idea.ClusterIDs)
	}
}

func TestCrossPollination_ScoreWeighted(t *testing.T) {
	state := clusteredState()
	var buf bytes.Buffer
	cfg := types.ExtractionConfig{ScoreWeightedBlending: true}

	ideas, err := (CrossPollination{}).Synthesize(state, cfg, &buf)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("got %d ideas, want 1", len(ideas))
	}

	idea := ideas[0]
	assertSharesSumToOne(t, idea)
	// Representatives are m1 (0.8) and m2 (0.6).
	if got := idea.Contributions["m1"]; math.Abs(got-0.8/1.4) > 1e-9 {
		t.Errorf("m1 share = %v, want %v", got, 0.8/1.4)
	}
}

func TestCrossPollination_SingleModelSkipped(t *testing.T) {
	state := clusteredState()
	for i := range state.Combinations {
		state.Combinations[i].ModelID = "m1"
	}
	var buf bytes.Buffer

	ideas, err := (CrossPollination{}).Synthesize(state, types.ExtractionConfig{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(ideas) != 0 {
		t.Errorf("got %d ideas, want skip when only one model contributed", len(ideas))
	}
	if !strings.Contains(buf.String(), "fewer than 2 distinct models") {
		t.Errorf("missing skip reason:\n%s", buf.String())
	}
}

func TestRefinement_TopTwoResults(t *testing.T) {
	state := clusteredState()
	var buf bytes.Buffer

	ideas, err := (Refinement{}).Synthesize(state, types.ExtractionConfig{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("got %d ideas, want 1", len(ideas))
	}

	idea := ideas[0]
	assertSharesSumToOne(t, idea)
	if _, ok := idea.Contributions["m1"]; !ok {
		t.Error("base model m1 missing from contributions")
	}
	if _, ok := idea.Contributions["m2"]; !ok {
		t.Error("critique model m2 missing from contributions")
	}
	if !strings.Contains(idea.Text, "Transit hubs") {
		t.Errorf("refined text should start from the top result: %q", idea.Text)
	}
	if !strings.Contains(idea.Text, "Bike corridor") {
		t.Errorf("refined text should reference the critique: %q", idea.Text)
	}
}

func TestRefinement_TooFewResults(t *testing.T) {
	state := &types.SessionState{Version: types.SchemaVersion}
	state.Combinations = []types.Combination{scoredCombination("m1", "Only one.", 0.5)}
	var buf bytes.Buffer

	ideas, err := (Refinement{}).Synthesize(state, types.ExtractionConfig{}, &buf)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(ideas) != 0 {
		t.Errorf("got %d ideas, want skip with one result", len(ideas))
	}
}

func TestForName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "cluster_based", want: MethodClusterBased},
		{name: "cross_pollination", want: MethodCrossPollination},
		{name: "refinement", want: MethodRefinement},
		{name: "genetic", wantErr: true},
	}
	for _, tt := range tests {
		m, err := ForName(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ForName(%q) succeeded, want error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForName(%q): %v", tt.name, err)
			continue
		}
		if m.Name() != tt.want {
			t.Errorf("ForName(%q).Name() = %q", tt.name, m.Name())
		}
	}
}

func TestApply_AppendsToState(t *testing.T) {
	state := clusteredState()
	var buf bytes.Buffer

	produced, err := Apply(state, []Method{ClusterBased{}, Refinement{}}, types.ExtractionConfig{}, &buf)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(produced) != 3 {
		t.Errorf("produced %d ideas, want 3 (2 cluster + 1 refinement)", len(produced))
	}
	if len(state.Ideas) != 3 {
		t.Errorf("state holds %d ideas, want 3", len(state.Ideas))
	}
	for _, idea := range state.Ideas {
		assertSharesSumToOne(t, idea)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// Embedder turns texts into fixed-length vectors. Implementations must
// return one vector per input, all the same length. A nil Embedder (or
// an embedding failure) triggers the keyword-overlap fallback.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// maxIterations caps the k-means loop. Assignments usually stabilize
// well before this on result-set sizes this pipeline produces.
const maxIterations = 100

// Clusters groups the given results into at most nClusters semantic
// clusters. With a working embedder it runs k-means over the result
// embeddings; otherwise it degrades to grouping by shared top phrases.
// Clusters are labeled from the pattern detector over member texts.
// Fewer inputs than nClusters yield one cluster per input; empty
// clusters are never returned.
func Clusters(ctx context.Context, embedder Embedder, items []TextRef, cfg types.EvaluationConfig, w io.Writer) ([]types.Cluster, error) {
	if len(items) == 0 {
		return nil, nil
	}

	n := cfg.NClusters
	if n <= 0 {
		n = 3
	}
	if n > len(items) {
		n = len(items)
	}

	if embedder == nil {
		fmt.Fprintln(w, "no embedding backend, clustering by keyword overlap")
		return keywordClusters(items, n, cfg), nil
	}

	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}

	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		cerr := &types.ClusteringError{Err: err}
		fmt.Fprintf(w, "warning: %v; falling back to keyword overlap\n", cerr)
		return keywordClusters(items, n, cfg), nil
	}
	if len(vectors) != len(items) {
		cerr := &types.ClusteringError{Err: fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(items))}
		fmt.Fprintf(w, "warning: %v; falling back to keyword overlap\n", cerr)
		return keywordClusters(items, n, cfg), nil
	}

	assignments := kmeans(vectors, n)
	return buildClusters(items, vectors, assignments, n, cfg), nil
}

// kmeans partitions vectors into k groups. Seeding is deterministic: the
// first k distinct vectors become the initial centroids. Assignment uses
// squared Euclidean distance with ties broken toward the lowest cluster
// index; iteration stops when assignments stabilize or after
// maxIterations.
func kmeans(vectors [][]float32, k int) []int {
	centroids := seedCentroids(vectors, k)
	k = len(centroids)

	assignments := make([]int, len(vectors))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := 0
			bestDist := sqDist(v, centroids[0])
			for c := 1; c < k; c++ {
				if d := sqDist(v, centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		centroids = updateCentroids(vectors, assignments, centroids)
	}
	return assignments
}

// seedCentroids picks the first k distinct vectors in input order.
// Duplicate inputs reduce the effective cluster count.
func seedCentroids(vectors [][]float32, k int) [][]float32 {
	var seeds [][]float32
	for _, v := range vectors {
		if len(seeds) == k {
			break
		}
		dup := false
		for _, s := range seeds {
			if equalVec(v, s) {
				dup = true
				break
			}
		}
		if !dup {
			seeds = append(seeds, append([]float32(nil), v...))
		}
	}
	return seeds
}

func updateCentroids(vectors [][]float32, assignments []int, centroids [][]float32) [][]float32 {
	dims := len(vectors[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}

	for i, v := range vectors {
		c := assignments[i]
		counts[c]++
		for d, x := range v {
			sums[c][d] += float64(x)
		}
	}

	next := make([][]float32, len(centroids))
	for c := range centroids {
		if counts[c] == 0 {
			// Keep an empty cluster's centroid in place; it stays empty.
			next[c] = centroids[c]
			continue
		}
		vec := make([]float32, dims)
		for d := range vec {
			vec[d] = float32(sums[c][d] / float64(counts[c]))
		}
		next[c] = vec
	}
	return next
}

func sqDist(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func equalVec(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// buildClusters assembles non-empty clusters in index order, labeling
// each from the pattern detector over its member texts.
func buildClusters(items []TextRef, vectors [][]float32, assignments []int, k int, cfg types.EvaluationConfig) []types.Cluster {
	memberIdx := make([][]int, k)
	for i, c := range assignments {
		memberIdx[c] = append(memberIdx[c], i)
	}

	var clusters []types.Cluster
	for c := 0; c < k; c++ {
		if len(memberIdx[c]) == 0 {
			continue
		}

		var members []string
		var memberRefs []TextRef
		for _, i := range memberIdx[c] {
			members = append(members, items[i].ID)
			memberRefs = append(memberRefs, items[i])
		}

		clusters = append(clusters, types.Cluster{
			ID:       fmt.Sprintf("cluster_%d", len(clusters)+1),
			Label:    Label(memberRefs, cfg),
			Members:  members,
			Centroid: centroidOf(vectors, memberIdx[c]),
		})
	}
	return clusters
}

func centroidOf(vectors [][]float32, idx []int) []float32 {
	if len(idx) == 0 || len(vectors) == 0 {
		return nil
	}
	dims := len(vectors[0])
	out := make([]float32, dims)
	for _, i := range idx {
		for d, x := range vectors[i] {
			out[d] += x
		}
	}
	for d := range out {
		out[d] /= float32(len(idx))
	}
	return out
}

// Label derives a representative label for a group of texts: the
// top-ranked recurring phrase, or the most frequent single word when no
// phrase repeats.
func Label(members []TextRef, cfg types.EvaluationConfig) string {
	phrases := DetectPatterns(members, cfg)
	if len(phrases) > 0 {
		return phrases[0].Text
	}

	// Degenerate case: no phrase meets the frequency threshold.
	counts := make(map[string]int)
	for _, m := range members {
		for _, w := range splitWords(m.Text) {
			if len(w) > 3 {
				counts[w]++
			}
		}
	}
	best, bestCount := "", 0
	for w, c := range counts {
		if c > bestCount || (c == bestCount && w < best) {
			best, bestCount = w, c
		}
	}
	if best == "" {
		return "unlabeled"
	}
	return best
}

// keywordClusters is the degraded clustering path: seed one cluster per
// top recurring phrase and assign each result to the seed phrase it
// shares the most words with, ties toward the lowest cluster index.
func keywordClusters(items []TextRef, n int, cfg types.EvaluationConfig) []types.Cluster {
	if n > len(items) {
		n = len(items)
	}

	phrases := DetectPatterns(items, cfg)

	// Seed phrases with disjoint supporter sets where possible.
	var seeds []Phrase
	for _, p := range phrases {
		if len(seeds) == n {
			break
		}
		seeds = append(seeds, p)
	}

	// Too few recurring phrases: fall back to contiguous slices so the
	// caller still gets n non-empty groups.
	if len(seeds) < n {
		return sliceClusters(items, n, cfg)
	}

	memberIdx := make([][]int, n)
	for i, it := range items {
		words := make(map[string]bool)
		for _, w := range splitWords(it.Text) {
			words[w] = true
		}

		best, bestOverlap := 0, -1
		for c, seed := range seeds {
			overlap := 0
			for _, w := range strings.Fields(seed.Text) {
				if words[w] {
					overlap++
				}
			}
			if overlap > bestOverlap {
				best, bestOverlap = c, overlap
			}
		}
		memberIdx[best] = append(memberIdx[best], i)
	}

	var clusters []types.Cluster
	for c := 0; c < n; c++ {
		if len(memberIdx[c]) == 0 {
			continue
		}
		var members []string
		var memberRefs []TextRef
		for _, i := range memberIdx[c] {
			members = append(members, items[i].ID)
			memberRefs = append(memberRefs, items[i])
		}
		clusters = append(clusters, types.Cluster{
			ID:      fmt.Sprintf("cluster_%d", len(clusters)+1),
			Label:   seeds[c].Text,
			Members: members,
		})
	}
	return clusters
}

// sliceClusters splits items into n contiguous groups of near-equal
// size, preserving score order from the caller.
func sliceClusters(items []TextRef, n int, cfg types.EvaluationConfig) []types.Cluster {
	size := (len(items) + n - 1) / n

	var clusters []types.Cluster
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		group := items[start:end]

		var members []string
		for _, it := range group {
			members = append(members, it.ID)
		}
		clusters = append(clusters, types.Cluster{
			ID:      fmt.Sprintf("cluster_%d", len(clusters)+1),
			Label:   Label(group, cfg),
			Members: members,
		})
	}
	return clusters
}

// SortByScore orders text refs by their combination's aggregate score
// descending, with ID as the tie-break for stability.
func SortByScore(state *types.SessionState, items []TextRef) {
	agg := make(map[string]float64, len(items))
	for _, it := range items {
		if c := state.Combination(it.ID); c != nil && c.Score != nil {
			agg[it.ID] = c.Score.Aggregate
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if agg[items[i].ID] != agg[items[j].ID] {
			return agg[items[i].ID] > agg[items[j].ID]
		}
		return items[i].ID < items[j].ID
	})
}

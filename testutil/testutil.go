// Package testutil provides seeded random vector generation and
// recall measurement for index tests. Not imported by non-test code.
package testutil

import (
	"math"
	"math/rand"
	"sort"

	"github.com/krishcdbry/nexadb/index"
	"github.com/krishcdbry/nexadb/internal/simd"
)

// RNG wraps a seeded math/rand source for reproducible test fixtures.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates an RNG seeded with seed.
func NewRNG(seed int64) *RNG {
	return &RNG{rand: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the seed this RNG was constructed with.
func (r *RNG) Seed() int64 { return r.seed }

// UniformVectors generates num vectors of the given dimensionality with
// components uniform in [0, 1).
func (r *RNG) UniformVectors(num, dimensions int) [][]float32 {
	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)
	for i := 0; i < num; i++ {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}
	return vectors
}

// UniformRangeVectors generates num vectors with components uniform in
// [-1, 1).
func (r *RNG) UniformRangeVectors(num, dimensions int) [][]float32 {
	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)
	for i := 0; i < num; i++ {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()*2 - 1
		}
		vectors[i] = vec
	}
	return vectors
}

// UnitVectors generates num L2-normalized random vectors, uniform on
// the unit hypersphere (Gaussian components, then normalized).
func (r *RNG) UnitVectors(num, dimensions int) [][]float32 {
	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)
	for i := 0; i < num; i++ {
		vec := data[i*dimensions : (i+1)*dimensions]
		var norm float64
		for j := range vec {
			v := r.rand.NormFloat64()
			vec[j] = float32(v)
			norm += v * v
		}
		if norm == 0 {
			norm = 1
		}
		invNorm := float32(1.0 / math.Sqrt(norm))
		simd.ScaleInPlace(vec, invNorm)
		vectors[i] = vec
	}
	return vectors
}

// ClusteredVectors generates num vectors in dim dimensions clustered
// around clusters random centroids on the unit sphere, with Gaussian
// noise of standard deviation spread added to each point.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float32) [][]float32 {
	centroids := r.UnitVectors(clusters, dim)

	data := make([]float32, num*dim)
	vectors := make([][]float32, num)
	for i := 0; i < num; i++ {
		centroid := centroids[i%clusters]
		vec := data[i*dim : (i+1)*dim]
		for j := 0; j < dim; j++ {
			vec[j] = centroid[j] + float32(r.rand.NormFloat64())*spread
		}
		vectors[i] = vec
	}
	return vectors
}

// BruteForceSearch computes the exact k nearest neighbors of query
// among vectors under squared-L2 distance. Used as ground truth when
// measuring approximate-index recall.
func BruteForceSearch(vectors [][]float32, query []float32, k int) []index.SearchResult {
	type scored struct {
		id   uint64
		dist float32
	}
	results := make([]scored, len(vectors))
	for i, v := range vectors {
		results[i] = scored{id: uint64(i), dist: simd.SquaredL2(query, v)}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].dist != results[j].dist {
			return results[i].dist < results[j].dist
		}
		return results[i].id < results[j].id
	})
	if len(results) > k {
		results = results[:k]
	}
	out := make([]index.SearchResult, len(results))
	for i, r := range results {
		out[i] = index.SearchResult{ID: r.id, Distance: r.dist}
	}
	return out
}

// ComputeRecall returns the fraction of groundTruth's IDs that also
// appear in approximate, over min(len(groundTruth), len(approximate))
// entries. Two empty result sets are trivially fully recalled.
func ComputeRecall(groundTruth, approximate []index.SearchResult) float64 {
	if len(groundTruth) == 0 || len(approximate) == 0 {
		if len(groundTruth) == 0 && len(approximate) == 0 {
			return 1.0
		}
		return 0.0
	}

	k := len(approximate)
	if len(groundTruth) < k {
		k = len(groundTruth)
	}

	truthSet := make(map[uint64]struct{}, k)
	for i := 0; i < k; i++ {
		truthSet[groundTruth[i].ID] = struct{}{}
	}

	hits := 0
	for _, r := range approximate {
		if _, ok := truthSet[r.ID]; ok {
			hits++
		}
	}
	return float64(hits) / float64(k)
}

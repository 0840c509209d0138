package hnsw

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishcdbry/nexadb/index"
	"github.com/krishcdbry/nexadb/testutil"
)

func newIndex(t *testing.T, dim int, optFns ...func(o *Options)) *Index {
	t.Helper()
	fns := append([]func(o *Options){func(o *Options) { o.Dimension = dim }}, optFns...)
	idx, err := New(fns...)
	require.NoError(t, err)
	return idx
}

// S3: four canonical basis vectors in R^4; querying with a stored
// vector must return itself first at distance 0.
func TestSearchReturnsSelfAtZeroDistance(t *testing.T) {
	idx := newIndex(t, 4)
	ids := make([]uint64, 4)
	for i := 0; i < 4; i++ {
		v := make([]float32, 4)
		v[i] = 1
		id, err := idx.Add(v)
		require.NoError(t, err)
		ids[i] = id
	}

	for i := 0; i < 4; i++ {
		v := make([]float32, 4)
		v[i] = 1
		res, err := idx.Search(v, 1)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, ids[i], res[0].ID)
		assert.InDelta(t, 0, res[0].Distance, 1e-6)
	}
}

func TestSearchEmptyIndexReturnsEmpty(t *testing.T) {
	idx := newIndex(t, 3)
	res, err := idx.Search([]float32{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestAddBatchAtomicOnDimensionMismatch(t *testing.T) {
	idx := newIndex(t, 3)
	_, err := idx.Add([]float32{1, 1, 1})
	require.NoError(t, err)

	_, err = idx.AddBatch([][]float32{{2, 2, 2}, {3, 3}})
	require.Error(t, err)
	var dm *index.ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 1, idx.Len())
}

func TestSetEFRejectsNonPositive(t *testing.T) {
	idx := newIndex(t, 2)
	assert.Error(t, idx.SetEF(0))
	assert.NoError(t, idx.SetEF(50))
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(func(o *Options) { o.Dimension = 0 })
	assert.Error(t, err)

	_, err = New(func(o *Options) { o.Dimension = 4; o.M = 1 })
	assert.Error(t, err)
}

func TestVectorByID(t *testing.T) {
	idx := newIndex(t, 3)
	id, err := idx.Add([]float32{1, 2, 3})
	require.NoError(t, err)
	v, ok := idx.VectorByID(id)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, v)
	_, ok = idx.VectorByID(id + 1)
	assert.False(t, ok)
}

// S5: over many trials, HNSW's top-5 should mostly land inside
// brute-force's top-20 for 5000 random 32-dim vectors.
func TestApproximateTopKWithinExactTopN(t *testing.T) {
	const n, dim = 5000, 32
	rng := testutil.NewRNG(1)
	vecs := rng.UniformVectors(n, dim)

	idx := newIndex(t, dim)
	for _, v := range vecs {
		_, err := idx.Add(v)
		require.NoError(t, err)
	}

	queries := testutil.NewRNG(2).UniformVectors(30, dim)
	hits := 0
	for _, q := range queries {
		approx, err := idx.Search(q, 5)
		require.NoError(t, err)
		truth := testutil.BruteForceSearch(vecs, q, 20)
		truthSet := make(map[uint64]bool, len(truth))
		for _, r := range truth {
			truthSet[r.ID] = true
		}
		allIn := true
		for _, r := range approx {
			if !truthSet[r.ID] {
				allIn = false
				break
			}
		}
		if allIn {
			hits++
		}
	}
	minHits := 0.95 * 30
	assert.GreaterOrEqual(t, hits, int(minHits))
}

// Invariant #4: recall floor for default construction parameters.
func TestRecallFloorWithDefaults(t *testing.T) {
	const n, dim, numQueries = 10000, 128, 200
	rng := testutil.NewRNG(3)
	vecs := rng.UniformVectors(n, dim)

	idx := newIndex(t, dim)
	for _, v := range vecs {
		_, err := idx.Add(v)
		require.NoError(t, err)
	}

	queries := testutil.NewRNG(4).UniformVectors(numQueries, dim)
	const k = 10
	var totalRecall float64
	for _, q := range queries {
		approx, err := idx.Search(q, k)
		require.NoError(t, err)
		truth := testutil.BruteForceSearch(vecs, q, k)
		totalRecall += testutil.ComputeRecall(truth, approx)
	}
	avgRecall := totalRecall / float64(numQueries)
	assert.GreaterOrEqual(t, avgRecall, 0.90)
}

// Invariant #5: results are monotone nondecreasing in distance.
func TestSearchResultsMonotoneNondecreasing(t *testing.T) {
	rng := testutil.NewRNG(5)
	vecs := rng.UniformVectors(500, 16)
	idx := newIndex(t, 16)
	for _, v := range vecs {
		_, err := idx.Add(v)
		require.NoError(t, err)
	}

	res, err := idx.Search(vecs[0], 20)
	require.NoError(t, err)
	for i := 1; i < len(res); i++ {
		assert.LessOrEqual(t, res[i-1].Distance, res[i].Distance)
	}
}

// Invariant #6: two identically-seeded, identically-configured indexes
// with identical insert order produce identical neighbor lists and
// identical search results.
func TestDeterminismAcrossIdenticalBuilds(t *testing.T) {
	rng := testutil.NewRNG(9)
	vecs := rng.UniformVectors(300, 12)

	seed := int64(123)
	build := func() *Index {
		idx := newIndex(t, 12, func(o *Options) { o.RandomSeed = &seed })
		for _, v := range vecs {
			_, err := idx.Add(v)
			require.NoError(t, err)
		}
		return idx
	}

	a := build()
	b := build()

	require.Equal(t, len(a.nodes), len(b.nodes))
	for i := range a.nodes {
		require.Equal(t, len(a.nodes[i].neighbors), len(b.nodes[i].neighbors), "node %d level mismatch", i)
		for l := range a.nodes[i].neighbors {
			assert.Equal(t, a.nodes[i].neighbors[l], b.nodes[i].neighbors[l], "node %d layer %d neighbor mismatch", i, l)
		}
	}

	query := vecs[42]
	resA, err := a.Search(query, 10)
	require.NoError(t, err)
	resB, err := b.Search(query, 10)
	require.NoError(t, err)
	assert.Equal(t, resA, resB)
}

// Invariant #7: Clear followed by re-inserting the same vectors in the
// same order reproduces the same graph.
func TestClearAndRebuildReproducesGraph(t *testing.T) {
	seed := int64(7)
	rng := testutil.NewRNG(11)
	vecs := rng.UniformVectors(200, 8)

	idx := newIndex(t, 8, func(o *Options) { o.RandomSeed = &seed })
	for _, v := range vecs {
		_, err := idx.Add(v)
		require.NoError(t, err)
	}
	query := vecs[10]
	before, err := idx.Search(query, 5)
	require.NoError(t, err)

	idx.Clear()
	assert.Equal(t, 0, idx.Len())

	for _, v := range vecs {
		_, err := idx.Add(v)
		require.NoError(t, err)
	}
	after, err := idx.Search(query, 5)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

// Invariant #8: no node's per-layer neighbor count exceeds the
// configured cap (M above layer 0, 2*M at layer 0) at the moment of
// measurement. Later insertions may leave stale back-references below
// the cap on the other endpoint without pruning the endpoint that
// dropped them, so this only asserts the cap on out-degree as stored.
func TestDegreeBound(t *testing.T) {
	rng := testutil.NewRNG(13)
	vecs := rng.UniformVectors(1000, 24)
	m := 16
	idx := newIndex(t, 24, func(o *Options) { o.M = m })
	for _, v := range vecs {
		_, err := idx.Add(v)
		require.NoError(t, err)
	}

	for id, n := range idx.nodes {
		for layer, neighbors := range n.neighbors {
			cap := m
			if layer == 0 {
				cap = m * mMax0Multiplier
			}
			assert.LessOrEqualf(t, len(neighbors), cap, "node %d layer %d exceeds degree bound", id, layer)
		}
	}
}

func TestCosineOrdersByAngle(t *testing.T) {
	idx := newIndex(t, 2, func(o *Options) { o.DistanceType = index.Cosine })
	near, err := idx.Add([]float32{1, 0})
	require.NoError(t, err)
	_, err = idx.Add([]float32{0, 1})
	require.NoError(t, err)
	_, err = idx.Add([]float32{100, 0.1})
	require.NoError(t, err)

	res, err := idx.Search([]float32{2, 0}, 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, near, res[0].ID)
}

func TestCosineZeroVectorRejected(t *testing.T) {
	idx := newIndex(t, 2, func(o *Options) { o.DistanceType = index.Cosine })
	_, err := idx.Add([]float32{0, 0})
	require.ErrorIs(t, err, index.ErrEmptyVector)
}

func TestStats(t *testing.T) {
	idx := newIndex(t, 4)
	_, err := idx.Add([]float32{1, 2, 3, 4})
	require.NoError(t, err)
	st := idx.Stats()
	assert.Equal(t, 1, st.Count)
	assert.Equal(t, 4, st.Dimension)
	assert.Equal(t, DefaultM, st.M)
}

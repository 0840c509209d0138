// Package hnsw implements a Hierarchical Navigable Small World graph for
// approximate nearest-neighbor search over an in-memory arena of
// float32 vectors, one caller at a time.
package hnsw

import (
	"math"
	"math/rand"

	"github.com/krishcdbry/nexadb/distance"
	"github.com/krishcdbry/nexadb/index"
	"github.com/krishcdbry/nexadb/internal/arena"
	"github.com/krishcdbry/nexadb/internal/queue"
	"github.com/krishcdbry/nexadb/internal/visited"
	"github.com/krishcdbry/nexadb/logging"
)

const (
	// DefaultM is the default number of bidirectional links per node
	// created per layer above 0.
	DefaultM = 16

	// mMax0Multiplier gives the layer-0 connection cap as a multiple of M.
	mMax0Multiplier = 2

	// DefaultEFConstruction is the default candidate list size used
	// while building the graph.
	DefaultEFConstruction = 200

	// DefaultEFSearch is the default candidate list size used at query
	// time.
	DefaultEFSearch = 100

	// defaultSeed is used when Options.RandomSeed is nil, so that a
	// freshly constructed index (and one produced by Clear) is
	// deterministic by default.
	defaultSeed = 42
)

// Options configures an Index. Immutable once passed to New.
type Options struct {
	// Dimension is the fixed vector length this index accepts. Required.
	Dimension int

	// M is the number of bidirectional links created per inserted node
	// at layers above 0. Must be >= 2.
	M int

	// EFConstruction is the candidate list size used while linking a
	// newly inserted node. Larger values build a higher-quality graph
	// at the cost of slower inserts.
	EFConstruction int

	// EFSearch is the candidate list size used at query time. Mutable
	// after construction via SetEF.
	EFSearch int

	// DistanceType selects the ordering metric. Defaults to SquaredL2.
	DistanceType index.DistanceType

	// InitialCapacity pre-sizes the arena's backing storage, in vectors.
	InitialCapacity int

	// RandomSeed fixes the level-sampling RNG. Nil selects a built-in
	// deterministic default so two indexes built with identical options
	// and identical insert order produce identical graphs.
	RandomSeed *int64

	// Logger receives structured operation logs. Nil disables logging.
	Logger *logging.Logger
}

// DefaultOptions are the options New starts from before applying option
// functions.
var DefaultOptions = Options{
	M:              DefaultM,
	EFConstruction: DefaultEFConstruction,
	EFSearch:       DefaultEFSearch,
	DistanceType:   index.SquaredL2,
}

type node struct {
	// neighbors[l] holds this node's links at layer l, for l in
	// [0, level]. Sized to level+1, not the graph-wide max layer.
	neighbors [][]uint64
}

// Index is an approximate k-NN index backed by a multi-layer proximity
// graph.
type Index struct {
	opts Options

	arena        *arena.FlatArena
	distanceFunc index.DistanceFunc
	rng          *rand.Rand

	nodes []node // nodes[id] mirrors arena row id

	entryPoint uint64
	maxLayer   int
	hasEntry   bool

	mMax  int // per-layer cap above layer 0
	mMax0 int // layer-0 cap
	ml    float64
}

// New creates an Index. opts.Dimension must be set by at least one
// option function.
func New(optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Dimension <= 0 {
		return nil, &index.ErrInvalidArgument{Msg: "dimension must be positive"}
	}
	if opts.M < 2 {
		return nil, &index.ErrInvalidArgument{Msg: "M must be at least 2"}
	}
	if opts.EFConstruction < 1 {
		return nil, &index.ErrInvalidArgument{Msg: "EFConstruction must be at least 1"}
	}
	if opts.EFSearch < 1 {
		return nil, &index.ErrInvalidArgument{Msg: "EFSearch must be at least 1"}
	}

	idx := &Index{
		opts:         opts,
		arena:        arena.New(opts.Dimension, opts.InitialCapacity),
		distanceFunc: index.NewDistanceFunc(opts.DistanceType),
		mMax:         opts.M,
		mMax0:        opts.M * mMax0Multiplier,
		ml:           1 / math.Log(float64(mMax0Multiplier*opts.M)),
	}
	idx.seedRNG()
	return idx, nil
}

func (idx *Index) seedRNG() {
	seed := int64(defaultSeed)
	if idx.opts.RandomSeed != nil {
		seed = *idx.opts.RandomSeed
	}
	idx.rng = rand.New(rand.NewSource(seed))
}

// Dim returns the configured vector dimensionality.
func (idx *Index) Dim() int { return idx.arena.Dim() }

// Len returns the number of vectors currently stored.
func (idx *Index) Len() int { return idx.arena.Len() }

// Name identifies this index implementation for introspection/logging.
func (idx *Index) Name() string { return "hnsw" }

// SetEF updates the query-time candidate list size. Rejects ef < 1.
func (idx *Index) SetEF(ef int) error {
	if ef < 1 {
		return &index.ErrInvalidArgument{Msg: "ef must be at least 1"}
	}
	idx.opts.EFSearch = ef
	return nil
}

// prepare validates v's dimension and, for Cosine mode, returns an
// L2-normalized copy.
func (idx *Index) prepare(v []float32) ([]float32, error) {
	if len(v) != idx.Dim() {
		return nil, &index.ErrDimensionMismatch{Expected: idx.Dim(), Actual: len(v)}
	}
	if idx.opts.DistanceType != index.Cosine {
		return v, nil
	}
	normalized, ok := distance.NormalizeL2Copy(v)
	if !ok {
		return nil, index.ErrEmptyVector
	}
	return normalized, nil
}

// sampleLevel draws a new node's top layer via the standard HNSW
// exponential decay: floor(-ln(U) * ml), U uniform in (0, 1).
func (idx *Index) sampleLevel() int {
	u := idx.rng.Float64()
	for u == 0 {
		u = idx.rng.Float64()
	}
	return int(math.Floor(-math.Log(u) * idx.ml))
}

func (idx *Index) dist(v []float32, id uint64) float32 {
	return idx.distanceFunc(v, idx.arena.Row(id))
}

func (idx *Index) maxConnsForLayer(layer int) int {
	if layer == 0 {
		return idx.mMax0
	}
	return idx.mMax
}

// Add inserts v, returning its assigned ID.
func (idx *Index) Add(v []float32) (uint64, error) {
	vec, err := idx.prepare(v)
	if err != nil {
		return 0, err
	}

	level := idx.sampleLevel()
	id, err := idx.arena.Append(vec)
	if err != nil {
		idx.opts.Logger.LogInsert(id, idx.Dim(), err)
		return 0, err
	}

	idx.nodes = append(idx.nodes, node{neighbors: make([][]uint64, level+1)})

	if !idx.hasEntry {
		idx.entryPoint = id
		idx.maxLayer = level
		idx.hasEntry = true
		idx.opts.Logger.LogInsert(id, idx.Dim(), nil)
		return id, nil
	}

	idx.insertNode(id, vec, level)

	if level > idx.maxLayer {
		idx.maxLayer = level
		idx.entryPoint = id
	}

	idx.opts.Logger.LogInsert(id, idx.Dim(), nil)
	return id, nil
}

// AddBatch validates every vector's dimension before mutating state,
// then inserts them in order.
func (idx *Index) AddBatch(vecs [][]float32) ([]uint64, error) {
	for _, v := range vecs {
		if len(v) != idx.Dim() {
			err := &index.ErrDimensionMismatch{Expected: idx.Dim(), Actual: len(v)}
			idx.opts.Logger.LogBatchInsert(len(vecs), len(vecs), err)
			return nil, err
		}
	}

	ids := make([]uint64, len(vecs))
	for i, v := range vecs {
		id, err := idx.Add(v)
		if err != nil {
			idx.opts.Logger.LogBatchInsert(len(vecs), len(vecs)-i, err)
			return nil, err
		}
		ids[i] = id
	}
	idx.opts.Logger.LogBatchInsert(len(vecs), 0, nil)
	return ids, nil
}

// insertNode performs the two-phase link step for a newly appended id:
// pure-navigation descent from the graph's current top layer down to
// level+1, then search-and-link from min(level, maxLayer) down to 0.
func (idx *Index) insertNode(id uint64, vec []float32, level int) {
	currID := idx.entryPoint
	currDist := idx.dist(vec, currID)

	for l := idx.maxLayer; l > level; l-- {
		nav := idx.searchLayer(vec, currID, currDist, l, 1)
		best, _ := nav.Min()
		currID, currDist = best.ID, best.Distance
	}

	top := level
	if idx.maxLayer < top {
		top = idx.maxLayer
	}

	for l := top; l >= 0; l-- {
		candidates := idx.searchLayer(vec, currID, currDist, l, idx.opts.EFConstruction)
		if best, ok := candidates.Min(); ok {
			currID, currDist = best.ID, best.Distance
		}

		neighbors := selectNeighborsSimple(candidates, idx.maxConnsForLayer(l))
		idx.nodes[id].neighbors[l] = neighbors

		for _, n := range neighbors {
			idx.addConnection(n, id, l)
		}
	}
}

// addConnection links target onto source's neighbor list at layer,
// pruning back to the layer's cap by keeping the nearest neighbors if
// the cap is exceeded.
func (idx *Index) addConnection(source, target uint64, layer int) {
	if layer >= len(idx.nodes[source].neighbors) {
		return // source's level doesn't reach this layer
	}
	conns := idx.nodes[source].neighbors[layer]
	for _, existing := range conns {
		if existing == target {
			return
		}
	}
	conns = append(conns, target)

	limit := idx.maxConnsForLayer(layer)
	if len(conns) > limit {
		sourceVec := idx.arena.Row(source)
		pq := queue.NewMax(len(conns))
		for _, n := range conns {
			pq.Push(queue.Item{ID: n, Distance: idx.dist(sourceVec, n)})
		}
		conns = selectNeighborsSimple(pq, limit)
	}
	idx.nodes[source].neighbors[layer] = conns
}

// searchLayer runs the bounded beam search at a single layer: a
// min-heap frontier of candidates to explore, and a max-heap of the
// best ef results seen, terminating once the closest unexplored
// candidate is farther than the worst kept result.
func (idx *Index) searchLayer(query []float32, entryID uint64, entryDist float32, layer, ef int) *queue.PriorityQueue {
	seen := visited.New(idx.Len())
	seen.Visit(entryID)

	candidates := queue.NewMin(ef)
	candidates.Push(queue.Item{ID: entryID, Distance: entryDist})

	results := queue.NewMax(ef)
	results.Push(queue.Item{ID: entryID, Distance: entryDist})

	for candidates.Len() > 0 {
		curr, _ := candidates.Pop()

		if worst, ok := results.Top(); ok && results.Len() >= ef && curr.Distance > worst.Distance {
			break
		}

		if layer >= len(idx.nodes[curr.ID].neighbors) {
			continue
		}
		for _, nextID := range idx.nodes[curr.ID].neighbors[layer] {
			if seen.Visited(nextID) {
				continue
			}
			seen.Visit(nextID)

			nextDist := idx.dist(query, nextID)
			worst, hasWorst := results.Top()
			if !hasWorst || results.Len() < ef || nextDist < worst.Distance {
				candidates.Push(queue.Item{ID: nextID, Distance: nextDist})
				results.Push(queue.Item{ID: nextID, Distance: nextDist})
				if results.Len() > ef {
					_, _ = results.Pop()
				}
			}
		}
	}

	return results
}

// selectNeighborsSimple keeps the m nearest items in candidates,
// returning their IDs sorted ascending by distance (nearest first).
func selectNeighborsSimple(candidates *queue.PriorityQueue, m int) []uint64 {
	for candidates.Len() > m {
		_, _ = candidates.Pop()
	}
	sorted := candidates.Sorted()
	out := make([]uint64, len(sorted))
	for i, it := range sorted {
		out[i] = it.ID
	}
	return out
}

// Search returns the k approximate nearest neighbors of query,
// ascending by distance. k is clamped to Len().
func (idx *Index) Search(query []float32, k int) ([]index.SearchResult, error) {
	if len(query) != idx.Dim() {
		return nil, &index.ErrDimensionMismatch{Expected: idx.Dim(), Actual: len(query)}
	}
	if !idx.hasEntry || k <= 0 {
		idx.opts.Logger.LogSearch(k, 0, nil)
		return []index.SearchResult{}, nil
	}
	if k > idx.Len() {
		k = idx.Len()
	}

	q := query
	if idx.opts.DistanceType == index.Cosine {
		normalized, ok := distance.NormalizeL2Copy(query)
		if !ok {
			return nil, index.ErrEmptyVector
		}
		q = normalized
	}

	currID := idx.entryPoint
	currDist := idx.dist(q, currID)
	for l := idx.maxLayer; l > 0; l-- {
		nav := idx.searchLayer(q, currID, currDist, l, 1)
		best, _ := nav.Min()
		currID, currDist = best.ID, best.Distance
	}

	ef := idx.opts.EFSearch
	if ef < k {
		ef = k
	}
	results := idx.searchLayer(q, currID, currDist, 0, ef)

	sorted := results.Sorted()
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	out := make([]index.SearchResult, len(sorted))
	for i, it := range sorted {
		out[i] = index.SearchResult{ID: it.ID, Distance: it.Distance}
	}
	idx.opts.Logger.LogSearch(k, len(out), nil)
	return out, nil
}

// VectorByID returns a copy of the stored vector for id, or false if id
// is out of range.
func (idx *Index) VectorByID(id uint64) ([]float32, bool) {
	if id >= uint64(idx.Len()) {
		return nil, false
	}
	row := idx.arena.Row(id)
	out := make([]float32, len(row))
	copy(out, row)
	return out, true
}

// Clear drops all stored vectors and graph state, keeping
// configuration, and re-seeds the RNG identically to construction so a
// cleared-and-rebuilt index reproduces the same graph given the same
// insert order.
func (idx *Index) Clear() {
	prev := idx.Len()
	idx.arena.Clear()
	idx.nodes = nil
	idx.entryPoint = 0
	idx.maxLayer = 0
	idx.hasEntry = false
	idx.seedRNG()
	idx.opts.Logger.LogClear(prev)
}

// Stats summarizes index state for introspection.
type Stats struct {
	Count          int
	Dimension      int
	DistanceType   index.DistanceType
	MaxLayer       int
	M              int
	EFConstruction int
	EFSearch       int
}

// Stats returns a snapshot of index state.
func (idx *Index) Stats() Stats {
	return Stats{
		Count:          idx.Len(),
		Dimension:      idx.Dim(),
		DistanceType:   idx.opts.DistanceType,
		MaxLayer:       idx.maxLayer,
		M:              idx.opts.M,
		EFConstruction: idx.opts.EFConstruction,
		EFSearch:       idx.opts.EFSearch,
	}
}

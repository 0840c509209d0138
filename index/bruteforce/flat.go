// Package bruteforce implements an exact k-nearest-neighbor index: every
// query scans the full arena through the distance kernel, then
// partial-sorts the top-k. O(N*D) per query; always exact.
package bruteforce

import (
	"github.com/krishcdbry/nexadb/index"
	"github.com/krishcdbry/nexadb/internal/arena"
	"github.com/krishcdbry/nexadb/internal/queue"
	"github.com/krishcdbry/nexadb/logging"
)

// Options configures a bruteforce Index. Immutable once passed to New.
type Options struct {
	// Dimension is the fixed vector length this index accepts. Required.
	Dimension int

	// DistanceType selects the ordering metric. Defaults to SquaredL2.
	DistanceType index.DistanceType

	// InitialCapacity pre-sizes the arena's backing storage, in vectors.
	InitialCapacity int

	// Logger receives structured operation logs. Nil disables logging.
	Logger *logging.Logger
}

// DefaultOptions are the options New starts from before applying option
// functions.
var DefaultOptions = Options{
	DistanceType: index.SquaredL2,
}

// Index is an exact k-NN index over a flat, append-only vector arena.
type Index struct {
	arena        *arena.FlatArena
	distanceFunc index.DistanceFunc
	opts         Options
}

// New creates a bruteforce Index. opts.Dimension must be set by at least
// one option function; a zero or negative dimension is an error.
func New(optFns ...func(o *Options)) (*Index, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Dimension <= 0 {
		return nil, &index.ErrInvalidArgument{Msg: "dimension must be positive"}
	}

	return &Index{
		arena:        arena.New(opts.Dimension, opts.InitialCapacity),
		distanceFunc: index.NewDistanceFunc(opts.DistanceType),
		opts:         opts,
	}, nil
}

// Dim returns the configured vector dimensionality.
func (idx *Index) Dim() int { return idx.arena.Dim() }

// Len returns the number of vectors currently stored.
func (idx *Index) Len() int { return idx.arena.Len() }

// Add appends v, returning its assigned ID. Fails with
// index.ErrDimensionMismatch if len(v) != Dim().
func (idx *Index) Add(v []float32) (uint64, error) {
	vec, err := idx.prepare(v)
	if err != nil {
		return 0, err
	}
	id, err := idx.arena.Append(vec)
	idx.opts.Logger.LogInsert(id, idx.Dim(), err)
	return id, err
}

// AddBatch validates every vector's dimension before mutating state (an
// all-or-nothing check), then appends them in order. On success the
// assigned IDs are contiguous.
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
		vec, err := idx.prepare(v)
		if err != nil {
			// Dimension already validated above; this can only be the
			// zero-norm cosine case, which the pre-check above cannot see.
			idx.opts.Logger.LogBatchInsert(len(vecs), len(vecs)-i, err)
			return nil, err
		}
		id, err := idx.arena.Append(vec)
		if err != nil {
			idx.opts.Logger.LogBatchInsert(len(vecs), len(vecs)-i, err)
			return nil, err
		}
		ids[i] = id
	}
	idx.opts.Logger.LogBatchInsert(len(vecs), 0, nil)
	return ids, nil
}

// Search returns the k nearest neighbors of query, ascending by
// distance, ties broken by ascending ID. k is clamped to Len(); an
// empty index or k == 0 returns an empty (non-nil-error) result.
func (idx *Index) Search(query []float32, k int) ([]index.SearchResult, error) {
	if len(query) != idx.Dim() {
		return nil, &index.ErrDimensionMismatch{Expected: idx.Dim(), Actual: len(query)}
	}
	if idx.Len() == 0 || k <= 0 {
		idx.opts.Logger.LogSearch(k, 0, nil)
		return []index.SearchResult{}, nil
	}
	if k > idx.Len() {
		k = idx.Len()
	}

	q := query
	if idx.opts.DistanceType == index.Cosine {
		normalized, ok := distanceCosinePrep(query)
		if !ok {
			return nil, index.ErrEmptyVector
		}
		q = normalized
	}

	// Bounded max-heap of size k: push everything, evict the current
	// worst whenever the heap overflows. The heap orders by (distance,
	// id), so Top() always identifies the true worst kept item — on a
	// distance tie the larger ID evicts first, matching the ascending-ID
	// tie-break Sorted() below produces for the survivors.
	best := queue.NewMax(k)
	for id := uint64(0); id < uint64(idx.Len()); id++ {
		d := idx.distanceFunc(q, idx.arena.Row(id))
		if best.Len() < k {
			best.Push(queue.Item{ID: id, Distance: d})
			continue
		}
		top, _ := best.Top()
		if less(d, id, top.Distance, top.ID) {
			_, _ = best.Pop()
			best.Push(queue.Item{ID: id, Distance: d})
		}
	}

	items := best.Sorted()
	out := make([]index.SearchResult, len(items))
	for i, it := range items {
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

// Clear drops all stored vectors, keeping configuration.
func (idx *Index) Clear() {
	prev := idx.Len()
	idx.arena.Clear()
	idx.opts.Logger.LogClear(prev)
}

// Name identifies this index implementation for introspection/logging.
func (idx *Index) Name() string { return "bruteforce" }

// Stats summarizes index state for introspection.
type Stats struct {
	Count        int
	Dimension    int
	DistanceType index.DistanceType
}

// Stats returns a snapshot of index state.
func (idx *Index) Stats() Stats {
	return Stats{
		Count:        idx.Len(),
		Dimension:    idx.Dim(),
		DistanceType: idx.opts.DistanceType,
	}
}

// prepare validates and, for Cosine mode, normalizes v before storage.
func (idx *Index) prepare(v []float32) ([]float32, error) {
	if len(v) != idx.Dim() {
		return nil, &index.ErrDimensionMismatch{Expected: idx.Dim(), Actual: len(v)}
	}
	if idx.opts.DistanceType != index.Cosine {
		return v, nil
	}
	normalized, ok := distanceCosinePrep(v)
	if !ok {
		return nil, index.ErrEmptyVector
	}
	return normalized, nil
}

// less orders by (distance, id) ascending: "a is better than b".
func less(distA float32, idA uint64, distB float32, idB uint64) bool {
	if distA != distB {
		return distA < distB
	}
	return idA < idB
}

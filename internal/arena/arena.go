// Package arena provides an append-only, row-major float32 arena: the
// single owner of vector data for both index implementations. IDs
// assigned by the arena are the same IDs the indexes expose to callers.
package arena

import "fmt"

// ErrDimensionMismatch is returned when a vector's length doesn't match
// the arena's fixed dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("arena: dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// FlatArena is a contiguous row-major buffer of N*D float32s: vector i
// occupies data[i*D : (i+1)*D]. It never shrinks except via Clear, and
// never reorders existing rows, so an ID returned by Append remains
// valid (until Clear) for the lifetime of the arena.
type FlatArena struct {
	dim  int
	data []float32
}

// New returns an empty arena for vectors of the given dimensionality,
// with backing storage pre-sized for initialCapacity rows.
func New(dim, initialCapacity int) *FlatArena {
	cap := 0
	if initialCapacity > 0 {
		cap = initialCapacity * dim
	}
	return &FlatArena{
		dim:  dim,
		data: make([]float32, 0, cap),
	}
}

// Dim returns the fixed dimensionality of vectors in this arena.
func (a *FlatArena) Dim() int { return a.dim }

// Len returns the number of vectors stored.
func (a *FlatArena) Len() int { return len(a.data) / a.dim }

// Append validates vec's length against Dim, copies it to the tail of
// the arena, and returns the assigned ID.
func (a *FlatArena) Append(vec []float32) (uint64, error) {
	if len(vec) != a.dim {
		return 0, &ErrDimensionMismatch{Expected: a.dim, Actual: len(vec)}
	}
	id := uint64(a.Len())
	a.data = append(a.data, vec...)
	return id, nil
}

// Row returns a view into the row for id. The caller must not retain
// this slice across a call to Append: growth may reallocate the
// backing array.
func (a *FlatArena) Row(id uint64) []float32 {
	off := int(id) * a.dim
	return a.data[off : off+a.dim]
}

// Clear drops all stored vectors, keeping the configured dimensionality.
func (a *FlatArena) Clear() {
	a.data = a.data[:0]
}

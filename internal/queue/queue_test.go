package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinHeapOrdering(t *testing.T) {
	pq := NewMin(4)
	pq.Push(Item{ID: 1, Distance: 3})
	pq.Push(Item{ID: 2, Distance: 1})
	pq.Push(Item{ID: 3, Distance: 2})

	top, ok := pq.Top()
	assert.True(t, ok)
	assert.Equal(t, float32(1), top.Distance)

	var order []float32
	for pq.Len() > 0 {
		item, _ := pq.Pop()
		order = append(order, item.Distance)
	}
	assert.Equal(t, []float32{1, 2, 3}, order)
}

func TestMaxHeapOrdering(t *testing.T) {
	pq := NewMax(4)
	pq.Push(Item{ID: 1, Distance: 3})
	pq.Push(Item{ID: 2, Distance: 1})
	pq.Push(Item{ID: 3, Distance: 2})

	top, ok := pq.Top()
	assert.True(t, ok)
	assert.Equal(t, float32(3), top.Distance)

	var order []float32
	for pq.Len() > 0 {
		item, _ := pq.Pop()
		order = append(order, item.Distance)
	}
	assert.Equal(t, []float32{3, 2, 1}, order)
}

func TestMaxHeapMinItem(t *testing.T) {
	pq := NewMax(4)
	pq.Push(Item{ID: 1, Distance: 3})
	pq.Push(Item{ID: 2, Distance: 1})
	pq.Push(Item{ID: 3, Distance: 2})

	min, ok := pq.Min()
	assert.True(t, ok)
	assert.Equal(t, float32(1), min.Distance)
}

func TestSortedDrainsAscending(t *testing.T) {
	pq := NewMax(4)
	pq.Push(Item{ID: 1, Distance: 3})
	pq.Push(Item{ID: 2, Distance: 1})
	pq.Push(Item{ID: 3, Distance: 2})

	sorted := pq.Sorted()
	assert.Equal(t, 0, pq.Len())
	assert.Equal(t, []float32{1, 2, 3}, []float32{sorted[0].Distance, sorted[1].Distance, sorted[2].Distance})
}

// Sorted must be ascending regardless of isMax; a min-heap drains
// front-to-back rather than back-to-front.
func TestSortedDrainsAscendingMinHeap(t *testing.T) {
	pq := NewMin(4)
	pq.Push(Item{ID: 1, Distance: 3})
	pq.Push(Item{ID: 2, Distance: 1})
	pq.Push(Item{ID: 3, Distance: 2})

	sorted := pq.Sorted()
	assert.Equal(t, 0, pq.Len())
	assert.Equal(t, []float32{1, 2, 3}, []float32{sorted[0].Distance, sorted[1].Distance, sorted[2].Distance})
}

// On a distance tie, a max-heap's top (and thus first eviction) must be
// the larger ID, so a bounded top-k selection drops the correct item.
func TestMaxHeapTieBreaksByLargerID(t *testing.T) {
	pq := NewMax(4)
	pq.Push(Item{ID: 5, Distance: 25})
	pq.Push(Item{ID: 9, Distance: 25})

	top, ok := pq.Top()
	assert.True(t, ok)
	assert.Equal(t, uint64(9), top.ID)
}

// On a distance tie, a min-heap's top must be the smaller ID.
func TestMinHeapTieBreaksBySmallerID(t *testing.T) {
	pq := NewMin(4)
	pq.Push(Item{ID: 5, Distance: 25})
	pq.Push(Item{ID: 9, Distance: 25})

	top, ok := pq.Top()
	assert.True(t, ok)
	assert.Equal(t, uint64(5), top.ID)
}

// Sorted must break equal-distance ties by ascending ID on both heap
// kinds, not just report them in whatever order they drain.
func TestSortedBreaksTiesByAscendingID(t *testing.T) {
	pq := NewMax(4)
	pq.Push(Item{ID: 9, Distance: 25})
	pq.Push(Item{ID: 5, Distance: 25})
	pq.Push(Item{ID: 0, Distance: 1})

	sorted := pq.Sorted()
	assert.Equal(t, []Item{
		{ID: 0, Distance: 1},
		{ID: 5, Distance: 25},
		{ID: 9, Distance: 25},
	}, sorted)
}

func TestEmptyQueue(t *testing.T) {
	pq := NewMin(0)
	_, ok := pq.Top()
	assert.False(t, ok)
	_, ok = pq.Pop()
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	pq := NewMin(4)
	pq.Push(Item{ID: 1, Distance: 1})
	pq.Reset()
	assert.Equal(t, 0, pq.Len())
}

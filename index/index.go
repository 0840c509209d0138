// Package index defines the result types, distance-type enum, and error
// taxonomy shared by index/bruteforce and index/hnsw.
package index

import (
	"fmt"

	"github.com/krishcdbry/nexadb/distance"
)

// SearchResult is one hit from a k-NN query.
type SearchResult struct {
	ID       uint64
	Distance float32
}

// DistanceType selects the metric an index uses to order results.
type DistanceType int

const (
	// SquaredL2 orders by ascending squared Euclidean distance (default).
	SquaredL2 DistanceType = iota
	// Cosine orders by descending cosine similarity, expressed internally
	// as ascending "distance" 2*(1-similarity) via vector normalization:
	// both stored and query vectors are L2-normalized so SquaredL2 on the
	// unit sphere induces the same ordering as cosine similarity would.
	Cosine
)

func (dt DistanceType) String() string {
	switch dt {
	case SquaredL2:
		return "SquaredL2"
	case Cosine:
		return "Cosine"
	default:
		return "Unknown"
	}
}

// DistanceFunc computes a distance between two equal-length vectors.
type DistanceFunc func(a, b []float32) float32

// NewDistanceFunc returns the kernel for the given distance type. Both
// SquaredL2 and Cosine resolve to distance.L2Sq: callers normalize
// vectors on ingestion/query for Cosine so that L2 distance on the unit
// sphere preserves cosine-similarity ordering (see DistanceType.Cosine).
func NewDistanceFunc(dt DistanceType) DistanceFunc {
	switch dt {
	case SquaredL2, Cosine:
		return distance.L2Sq
	default:
		return distance.L2Sq
	}
}

// ErrDimensionMismatch is returned when a vector's length doesn't match
// the index's configured dimensionality.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidArgument is returned for out-of-range configuration or
// construction arguments (e.g. ef < 1, M < 2, dim <= 0).
type ErrInvalidArgument struct {
	Msg string
}

func (e *ErrInvalidArgument) Error() string {
	return "invalid argument: " + e.Msg
}

// ErrEmptyVector is returned in Cosine mode when a stored or query
// vector has zero L2 norm and so cannot be normalized. A vector of the
// wrong length (including an empty one) yields ErrDimensionMismatch.
var ErrEmptyVector = fmt.Errorf("vector must not be empty")

package distance

import (
	"slices"

	"github.com/krishcdbry/nexadb/internal/simd"
)

// L2Sq returns the squared L2 (Euclidean) distance between a and b.
// Monotonic with true L2 and sufficient for nearest-neighbor ordering;
// never takes a square root.
//
// Assumes len(a) == len(b) — validate dimensions at the index boundary.
func L2Sq(a, b []float32) float32 {
	return simd.SquaredL2(a, b)
}

// Cosine returns the cosine similarity between a and b: higher means
// more similar. If either vector has zero norm the result is undefined
// (division by zero); callers must not pass zero vectors.
//
// Assumes len(a) == len(b) — validate dimensions at the index boundary.
func Cosine(a, b []float32) float32 {
	dot := simd.Dot(a, b)
	normA := simd.Sqrt(simd.Dot(a, a))
	normB := simd.Sqrt(simd.Dot(b, b))
	return dot / (normA * normB)
}

// NormalizeL2InPlace L2-normalizes v in place. Returns false if v has
// zero L2 norm, leaving v unmodified.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := simd.Dot(v, v)
	if norm2 == 0 {
		return false
	}
	inv := 1 / simd.Sqrt(norm2)
	simd.ScaleInPlace(v, inv)
	return true
}

// NormalizeL2Copy returns an L2-normalized copy of src, or (nil, false)
// if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}

// ActiveKernel reports which SIMD path backs the distance kernels, drawn
// from {"ARM_NEON", "AVX2", "SCALAR"}.
func ActiveKernel() string {
	switch simd.ActiveISA() {
	case simd.NEON:
		return "ARM_NEON"
	case simd.AVX2:
		return "AVX2"
	default:
		return "SCALAR"
	}
}

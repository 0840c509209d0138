package simd

import "math"

// Kernel function pointers, installed once at init(). Generic
// implementations are the default; platform init() functions may
// override them with lane-unrolled versions for the detected ISA.
var (
	kernelDot       = dotGeneric
	kernelSquaredL2 = squaredL2Generic
	kernelScale     = scaleGeneric
)

// Dot returns the dot product of a and b.
//
// SAFETY: callers must ensure len(a) == len(b).
func Dot(a, b []float32) float32 {
	return kernelDot(a, b)
}

// SquaredL2 returns the squared Euclidean distance between a and b.
// Never takes a square root; sufficient for nearest-neighbor ordering.
//
// SAFETY: callers must ensure len(a) == len(b).
func SquaredL2(a, b []float32) float32 {
	return kernelSquaredL2(a, b)
}

// ScaleInPlace multiplies every element of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	kernelScale(a, scalar)
}

// Sqrt is a small indirection so callers needn't import math directly
// for the one place normalization needs it.
func Sqrt(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// ============================================================================
// Generic scalar fallback. Always compiled, always correct; used directly
// when no faster ISA is detected. The unrolled paths in kernels_amd64.go
// and kernels_arm64.go handle their remainder elements with their own
// scalar tail loops.
// ============================================================================

func dotGeneric(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func squaredL2Generic(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func scaleGeneric(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

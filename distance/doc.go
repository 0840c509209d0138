// Package distance provides the public distance-kernel API used by the
// index packages. It is a thin wrapper over internal/simd: callers get
// squared-L2 and cosine similarity without depending on the internal
// dispatch machinery directly.
package distance

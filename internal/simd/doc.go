// Package simd provides distance-kernel primitives with SIMD-flavored
// dispatch: a generic scalar path is always available, and platform
// init() functions may replace the active kernel with an implementation
// unrolled to the target ISA's lane width. Selection happens once at
// package init time; callers pay no runtime dispatch overhead beyond a
// function-pointer indirection.
package simd

// Package nexadb provides SIMD-accelerated exact and approximate
// nearest-neighbor search over in-memory float32 vectors.
//
// Two index implementations share the same distance kernels and result
// types:
//
//	bruteforce.Index — exact k-NN via linear scan, always correct
//	hnsw.Index       — approximate k-NN via a Hierarchical Navigable
//	                   Small World graph, trading a small amount of
//	                   recall for sublinear query time
//
// # Quick start
//
//	idx, _ := hnsw.New(func(o *hnsw.Options) { o.Dimension = 128 })
//	id, _ := idx.Add(vector)
//	results, _ := idx.Search(query, 10)
//
// Both index types validate vector dimensionality on every call,
// return results ascending by distance, and are safe for exactly one
// caller at a time — see each package's doc comment for its exact
// contract.
package nexadb

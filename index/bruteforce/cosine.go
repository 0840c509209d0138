package bruteforce

import "github.com/krishcdbry/nexadb/distance"

// distanceCosinePrep L2-normalizes v for Cosine-mode storage and query,
// returning false if v has zero norm (undefined direction).
func distanceCosinePrep(v []float32) ([]float32, bool) {
	return distance.NormalizeL2Copy(v)
}

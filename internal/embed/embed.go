// Package embed generates fixed-length vector embeddings for text.
package embed

import (
	"context"
	"math"
)

// Common embedding constants.
const (
	// DefaultDimensions is the embedding dimension for the hash embedder.
	DefaultDimensions = 256

	// DefaultBatchSize is the default batch size for embedding requests.
	DefaultBatchSize = 32
)

// Embedder generates vector embeddings for text.
//
// Implementations must be deterministic: the same model identity and
// input text always produce the same vector. The model identity is
// recorded in store metadata so later queries can detect drift.
type Embedder interface {
	// Embed generates the embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts,
	// order-preserving, one vector per input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension.
	Dimensions() int

	// ModelName returns the model identifier.
	ModelName() string
}

// normalizeVector normalizes a vector to unit length.
func normalizeVector(v []float32) []float32 {
	var sumSquares float64
	for _, val := range v {
		sumSquares += float64(val) * float64(val)
	}

	magnitude := math.Sqrt(sumSquares)
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = float32(float64(val) / magnitude)
	}
	return normalized
}

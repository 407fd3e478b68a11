package embed

import (
	"context"
	"crypto/sha256"
	"fmt"
)

// HashEmbedder generates embeddings by hashing the input text.
// Works without external dependencies (no network, no model download)
// and is fully deterministic, trading semantic quality for portability.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder creates a hash embedder with the given dimension.
// Non-positive dimensions fall back to DefaultDimensions.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &HashEmbedder{dim: dim}
}

// Embed generates the embedding for a single text.
// Empty text embeds the empty string; inputs are never skipped, so
// callers can rely on one vector per input.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))

	// Repeat the digest to fill the dimension, then map each byte
	// into [-1, 1] and L2-normalize for cosine stability.
	raw := make([]byte, 0, e.dim)
	for len(raw) < e.dim {
		raw = append(raw, digest[:]...)
	}
	raw = raw[:e.dim]

	vec := make([]float32, e.dim)
	for i, b := range raw {
		vec[i] = float32(b)/127.5 - 1.0
	}
	return normalizeVector(vec), nil
}

// EmbedBatch generates embeddings for multiple texts in input order.
func (e *HashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension.
func (e *HashEmbedder) Dimensions() int { return e.dim }

// ModelName returns the model identifier recorded in store metadata.
func (e *HashEmbedder) ModelName() string {
	return fmt.Sprintf("hash-embedder-%d", e.dim)
}

// Package retrieve answers top-k similarity queries against a
// persisted vector store.
package retrieve

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/caselex/caselex/internal/embed"
	caselexerrors "github.com/caselex/caselex/internal/errors"
	"github.com/caselex/caselex/internal/store"
)

// Result is one similarity match.
type Result struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Retriever serves similarity queries over an immutable store.
// Safe for concurrent queries: the store never changes between
// rebuilds and queries only read it.
type Retriever struct {
	store    *store.Store
	embedder embed.Embedder
}

// New loads the store from dir and verifies it is usable: the store's
// own integrity check (names_hash, counts, dimensions) plus a model
// identity check. A store built by a different model would produce
// silently wrong similarities, so the mismatch fails loudly instead.
func New(dir string, embedder embed.Embedder) (*Retriever, error) {
	st, err := store.Load(dir)
	if err != nil {
		return nil, err
	}

	if st.Meta.Model != embedder.ModelName() {
		return nil, caselexerrors.New(caselexerrors.ErrCodeModelMismatch,
			fmt.Sprintf("store was built with model %q but querying with %q",
				st.Meta.Model, embedder.ModelName()), nil).
			WithSuggestion("rebuild the store with the current embedder")
	}

	return &Retriever{store: st, embedder: embedder}, nil
}

// Count returns the number of entries in the loaded store.
func (r *Retriever) Count() int { return r.store.Count() }

// Query embeds text and returns the topK most similar entries in
// descending score order. Ties keep store insertion order. topK <= 0
// yields an empty result; topK beyond the store size is clamped; an
// empty store always yields an empty result.
func (r *Retriever) Query(ctx context.Context, text string, topK int) ([]Result, error) {
	if topK <= 0 || r.store.Count() == 0 {
		return []Result{}, nil
	}
	if topK > r.store.Count() {
		topK = r.store.Count()
	}

	query, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]Result, r.store.Count())
	for i, vec := range r.store.Vectors {
		results[i] = Result{
			Name:  r.store.Names[i],
			Score: cosineSimilarity(query, vec),
		}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results[:topK], nil
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Zero vectors and dimension mismatches score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

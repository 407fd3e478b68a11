package cmd

import (
	"github.com/caselex/caselex/internal/config"
	"github.com/caselex/caselex/internal/embed"
)

// newEmbedder builds the configured embedder. The same construction is
// used for ingest and query so both sides agree on model identity.
func newEmbedder(cfg *config.Config) embed.Embedder {
	return embed.NewCachedEmbedder(
		embed.NewHashEmbedder(cfg.Embeddings.Dimensions),
		cfg.Embeddings.CacheSize,
	)
}

// Package ingest builds the vector store from persisted canonical
// records.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"github.com/caselex/caselex/internal/embed"
	caselexerrors "github.com/caselex/caselex/internal/errors"
	"github.com/caselex/caselex/internal/schema"
	"github.com/caselex/caselex/internal/store"
)

// Mode selects the ingest invocation mode.
type Mode string

const (
	// ModeRebuild recomputes the whole store from scratch.
	ModeRebuild Mode = "rebuild"

	// ModeAppend currently performs the identical full recomputation
	// as rebuild. True incremental append (reusing existing vectors)
	// is not implemented; treat the store as rebuild-only.
	ModeAppend Mode = "append"
)

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRebuild, ModeAppend:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown ingest mode %q (want rebuild or append)", s)
	}
}

// Builder reads canonical records and persists the vector store.
type Builder struct {
	Embedder  embed.Embedder
	CaseDir   string
	VectorDir string
	BatchSize int
}

// Build reads every canonical record in CaseDir, embeds its retrieval
// text, and persists the resulting store to VectorDir. A file lock on
// the vector directory enforces the single-writer invariant; a second
// concurrent ingest fails fast instead of racing.
func (b *Builder) Build(ctx context.Context, mode Mode) (*store.Store, error) {
	if err := os.MkdirAll(b.VectorDir, 0o755); err != nil {
		return nil, fmt.Errorf("create vector directory: %w", err)
	}

	lock := flock.New(filepath.Join(b.VectorDir, ".ingest.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ingest lock: %w", err)
	}
	if !locked {
		return nil, caselexerrors.New(caselexerrors.ErrCodeStoreLocked,
			"another ingest is already writing the vector store", nil)
	}
	defer func() { _ = lock.Unlock() }()

	if mode == ModeAppend {
		slog.Info("append mode performs a full recomputation", slog.String("mode", string(mode)))
	}

	names, texts, err := b.collect()
	if err != nil {
		return nil, err
	}

	vectors, err := b.embedBatches(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed records: %w", err)
	}

	names, vectors = dedupeFirst(names, vectors)

	st := store.New(names, vectors, b.Embedder.ModelName(), b.Embedder.Dimensions())
	if err := st.Save(b.VectorDir); err != nil {
		return nil, err
	}

	slog.Info("vector store written",
		slog.Int("count", st.Count()),
		slog.Int("dim", st.Meta.Dim),
		slog.String("model", st.Meta.Model))
	return st, nil
}

// collect reads every record file and selects its retrieval text.
// Files are visited in sorted order so store order is reproducible.
func (b *Builder) collect() (names []string, texts []string, err error) {
	if err := os.MkdirAll(b.CaseDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create case directory: %w", err)
	}

	paths, err := filepath.Glob(filepath.Join(b.CaseDir, "*.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", b.CaseDir, err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}

		var rec schema.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}

		name := rec.CaseName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), ".json")
		}

		names = append(names, name)
		texts = append(texts, RetrievalText(&rec))
	}
	return names, texts, nil
}

// embedBatches embeds texts in fixed-size batches, preserving order.
func (b *Builder) embedBatches(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := b.BatchSize
	if batchSize <= 0 {
		batchSize = embed.DefaultBatchSize
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		batch, err := b.Embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// RetrievalText selects the text embedded for a record, by priority:
// summary, else the present long-form fields (opinion text, holding,
// facts) joined together, else the case name. Every record always has
// retrievable text.
func RetrievalText(r *schema.Record) string {
	if s := strings.TrimSpace(r.Summary); s != "" {
		return s
	}

	var parts []string
	for _, field := range []string{r.OpinionText, r.Holding, r.Facts} {
		if f := strings.TrimSpace(field); f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n")
	}

	return r.CaseName
}

// dedupeFirst drops repeated names, keeping the first occurrence and
// its vector so the co-indexed arrays stay aligned.
func dedupeFirst(names []string, vectors [][]float32) ([]string, [][]float32) {
	seen := make(map[string]bool, len(names))
	outNames := names[:0]
	outVecs := vectors[:0]
	for i, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		outNames = append(outNames, name)
		outVecs = append(outVecs, vectors[i])
	}
	return outNames, outVecs
}

// Package store persists the co-indexed name/embedding arrays that
// back similarity search.
//
// The store is written wholesale by one ingest run and is immutable
// until the next rebuild, so concurrent readers need no locking. A
// checksum over the ordered name sequence (names_hash) is recomputed
// at every load; any mismatch means the container and its metadata
// sidecar are desynchronized and the store refuses to serve.
package store

import (
	"bufio"
	"compress/gzip"
	"crypto/sha1"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	caselexerrors "github.com/caselex/caselex/internal/errors"
)

const (
	// VectorFileName is the compressed container holding the
	// co-indexed arrays.
	VectorFileName = "vectors.bin.gz"

	// MetaFileName is the metadata sidecar.
	MetaFileName = "vectors.meta.json"

	// FileVersion is the persisted file format version.
	FileVersion = 1
)

// Meta is the store metadata sidecar.
type Meta struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Count     int    `json:"count"`
	Dim       int    `json:"dim"`
	File      string `json:"file"`
	Version   int    `json:"version"`
	NamesHash string `json:"names_hash"`
}

// Store holds the ordered (name, embedding) pairs plus metadata.
// Names[i] always corresponds to Vectors[i]; that pairing is the one
// place in the pipeline where ordering matters.
type Store struct {
	Names   []string
	Vectors [][]float32
	Meta    Meta
}

// container is the gob-encoded payload inside the compressed file.
type container struct {
	Names   []string
	Vectors [][]float32
}

// NamesHash computes the integrity checksum over the ordered name
// sequence: SHA-1 of the newline-joined names.
func NamesHash(names []string) string {
	h := sha1.Sum([]byte(strings.Join(names, "\n")))
	return hex.EncodeToString(h[:])
}

// New builds an in-memory store from co-indexed names and vectors,
// filling in metadata. Callers guarantee len(names) == len(vectors).
func New(names []string, vectors [][]float32, model string, dim int) *Store {
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	return &Store{
		Names:   names,
		Vectors: vectors,
		Meta: Meta{
			Model:     model,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
			Count:     len(names),
			Dim:       dim,
			File:      VectorFileName,
			Version:   FileVersion,
			NamesHash: NamesHash(names),
		},
	}
}

// Count returns the number of stored vectors.
func (s *Store) Count() int { return len(s.Names) }

// Save persists the store to dir: the compressed container first, then
// the metadata sidecar.
func (s *Store) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create vector directory: %w", err)
	}

	path := filepath.Join(dir, VectorFileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	bw := bufio.NewWriter(f)
	zw := gzip.NewWriter(bw)
	if err := gob.NewEncoder(zw).Encode(container{Names: s.Names, Vectors: s.Vectors}); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode vector container: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("compress vector container: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush vector container: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	metaData, err := json.MarshalIndent(s.Meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store metadata: %w", err)
	}
	metaPath := filepath.Join(dir, MetaFileName)
	if err := os.WriteFile(metaPath, metaData, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", metaPath, err)
	}
	return nil
}

// Load reads a persisted store from dir and verifies its integrity:
// the recomputed names hash must match the sidecar, and counts,
// dimensions, and array lengths must agree. Any mismatch is a fatal
// integrity error; a desynchronized store must not serve queries.
func Load(dir string) (*Store, error) {
	metaPath := filepath.Join(dir, MetaFileName)
	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", metaPath, err)
	}
	var meta Meta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("parse %s: %w", metaPath, err)
	}

	if meta.Version != FileVersion {
		return nil, caselexerrors.IntegrityError(
			fmt.Sprintf("unsupported store version %d (want %d)", meta.Version, FileVersion), nil)
	}

	path := filepath.Join(dir, VectorFileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, caselexerrors.IntegrityError("vector container is not valid gzip", err)
	}
	defer func() { _ = zr.Close() }()

	var c container
	if err := gob.NewDecoder(zr).Decode(&c); err != nil {
		return nil, caselexerrors.IntegrityError("vector container is corrupt", err)
	}

	if len(c.Names) != len(c.Vectors) {
		return nil, caselexerrors.IntegrityError(
			fmt.Sprintf("names/vectors length mismatch: %d vs %d", len(c.Names), len(c.Vectors)), nil)
	}
	if len(c.Names) != meta.Count {
		return nil, caselexerrors.IntegrityError(
			fmt.Sprintf("store holds %d entries but metadata says %d", len(c.Names), meta.Count), nil)
	}
	for i, vec := range c.Vectors {
		if len(vec) != meta.Dim {
			return nil, caselexerrors.IntegrityError(
				fmt.Sprintf("vector %d has dimension %d, metadata says %d", i, len(vec), meta.Dim), nil)
		}
	}

	if got := NamesHash(c.Names); got != meta.NamesHash {
		return nil, caselexerrors.IntegrityError(
			fmt.Sprintf("names_hash mismatch: stored %s, recomputed %s", meta.NamesHash, got), nil).
			WithSuggestion("rebuild the store with 'caselex ingest --mode rebuild'")
	}

	return &Store{Names: c.Names, Vectors: c.Vectors, Meta: meta}, nil
}

// Exists reports whether a persisted store is present in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, VectorFileName))
	return err == nil
}

// Package vectorstore defines the opaque capability the doc-sync manager
// uses to persist and query chunk vectors, independent of which vector
// database backs it.
package vectorstore

import (
	"context"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// VectorStore is a per-document collection of chunk vectors.
type VectorStore interface {
	// EnsureCollection creates the named collection if it doesn't already
	// exist, sized for the given vector width.
	EnsureCollection(ctx context.Context, name string, dimensions int32) error

	// Upsert writes or overwrites records by their ChunkHash-derived ID.
	Upsert(ctx context.Context, collection string, records []docmodel.ChunkRecord) error

	// Delete removes records by their ChunkHash-derived ID.
	Delete(ctx context.Context, collection string, chunkHashes []string) error

	// VectorSearch returns the topK nearest records to queryVector.
	VectorSearch(ctx context.Context, collection string, queryVector []float32, topK int) ([]docmodel.SearchResult, error)

	// Count returns how many records a collection currently holds.
	Count(ctx context.Context, collection string) (int, error)

	// Reset deletes every record in a collection without deleting the
	// collection itself, used for the doc-sync manager's full-resync path.
	Reset(ctx context.Context, collection string) error
}

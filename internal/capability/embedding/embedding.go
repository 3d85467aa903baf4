// Package embedding defines the opaque capability the rest of the analysis
// core depends on to turn text into vectors, independent of which provider
// backs it.
package embedding

import "context"

// Embedder turns text into vectors for similarity search and
// embedding-driven hierarchy segmentation.
type Embedder interface {
	// Embed returns one query-time embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds many texts in one round trip. isLargeDataSet routes
	// very large batches through an asynchronous batch-job API rather than a
	// single synchronous call.
	EmbedBatch(ctx context.Context, texts []string, isLargeDataSet bool) ([][]float32, error)

	// Dimensions reports the fixed vector width this embedder produces, so
	// callers can size a vector store collection before the first insert.
	Dimensions() int32
}

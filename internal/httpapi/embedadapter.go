package httpapi

import (
	"context"

	"github.com/novaquill/docmind/internal/capability/embedding"
	"github.com/novaquill/docmind/internal/config"
)

// hierarchyEmbedder narrows the full embedding.Embedder capability down to
// the single-method shape internal/analysis/hierarchy depends on, so that
// package stays independent of the capability package.
type hierarchyEmbedder struct {
	embedding.Embedder
}

func (h hierarchyEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	isLarge := len(texts) >= config.LargeBatchThreshold
	return h.Embedder.EmbedBatch(ctx, texts, isLarge)
}

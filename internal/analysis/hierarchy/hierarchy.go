// Package hierarchy extracts a document's structural outline: headings when
// the document marks them up explicitly, an embedding-driven topic split
// when an Embedder is available and it doesn't, and an even positional
// split as the strategy of last resort.
package hierarchy

import (
	"context"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// ExtractHierarchy picks the best available strategy for text and returns
// its full structural analysis. embedder may be nil, in which case the
// embedding-similarity strategy is skipped in favor of the positional
// fallback.
func ExtractHierarchy(ctx context.Context, text string, embedder Embedder, opts docmodel.HierarchyOptions) (*docmodel.HierarchyMap, error) {
	if opts == (docmodel.HierarchyOptions{}) {
		opts = docmodel.DefaultHierarchyOptions()
	}

	flat := detectHeadings(text)
	if len(flat) > 0 {
		roots := buildTree(flat, len(text))
		return finishHierarchy(text, roots, opts, docmodel.StrategyHeading)
	}

	if embedder != nil {
		roots, err := segmentByEmbedding(ctx, text, embedder, opts)
		if err != nil {
			return nil, err
		}
		if len(roots) > 0 {
			return finishHierarchy(text, roots, opts, docmodel.StrategyEmbedding)
		}
	}

	roots := segmentPositionally(text, opts)
	return finishHierarchy(text, roots, opts, docmodel.StrategyPositional)
}

func finishHierarchy(text string, roots []*docmodel.HeadingNode, opts docmodel.HierarchyOptions, strategy docmodel.HierarchyStrategy) (*docmodel.HierarchyMap, error) {
	docSummary, sectionSummaries := buildSummaries(text, roots, opts)
	return &docmodel.HierarchyMap{
		Headings:         roots,
		Outline:          renderOutline(roots, opts.MaxOutlineDepth),
		DocumentSummary:  docSummary,
		SectionSummaries: sectionSummaries,
		Strategy:         strategy,
	}, nil
}

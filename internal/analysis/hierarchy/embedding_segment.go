package hierarchy

import (
	"context"
	"fmt"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// Embedder is the one capability the embedding-similarity strategy needs:
// turn paragraphs into vectors it can compare. internal/capability/embedding.Embedder
// does not satisfy it directly (its EmbedBatch takes an extra large-batch
// flag); small adapters in internal/httpapi and internal/docsync bridge the
// two, keeping the structural-detection code independent of any concrete
// embedding provider.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// segmentByEmbedding groups consecutive paragraphs into sections by
// embedding each one and cutting a new section wherever the topic drifts:
// cosine similarity between adjacent paragraphs drops below an adaptive
// threshold derived from the population mean and standard deviation of all
// adjacent similarities in the document: mean minus opts.SimilarityThreshold
// standard deviations. Sections shorter than opts.MinSectionSize are folded
// into the section before them.
func segmentByEmbedding(ctx context.Context, text string, embedder Embedder, opts docmodel.HierarchyOptions) ([]*docmodel.HeadingNode, error) {
	paragraphs := splitParagraphsWithOffsets(text)
	if len(paragraphs) == 0 {
		return nil, nil
	}
	if len(paragraphs) == 1 {
		return []*docmodel.HeadingNode{singleSectionNode(paragraphs, len(text))}, nil
	}

	texts := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		texts[i] = p.text
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("hierarchy: embed paragraphs: %w", err)
	}
	if len(vectors) != len(paragraphs) {
		return nil, fmt.Errorf("hierarchy: embedder returned %d vectors for %d paragraphs", len(vectors), len(paragraphs))
	}

	similarities := make([]float64, len(paragraphs)-1)
	for i := 0; i < len(paragraphs)-1; i++ {
		similarities[i] = cosineSimilarity(vectors[i], vectors[i+1])
	}
	mean, stdev := meanStdev(similarities)
	cutoff := mean - opts.SimilarityThreshold*stdev

	groups := [][]offsetParagraph{{paragraphs[0]}}
	for i, sim := range similarities {
		next := paragraphs[i+1]
		if sim < cutoff {
			groups = append(groups, []offsetParagraph{next})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], next)
	}

	groups = mergeTinyGroups(groups, opts.MinSectionSize)

	nodes := make([]*docmodel.HeadingNode, 0, len(groups))
	for i, g := range groups {
		nodes = append(nodes, groupToNode(g, i+1, len(groups)))
	}
	return nodes, nil
}

func singleSectionNode(paragraphs []offsetParagraph, textLen int) *docmodel.HeadingNode {
	return &docmodel.HeadingNode{
		Level:       1,
		Title:       sectionLabel(1, 1),
		StartOffset: 0,
		EndOffset:   textLen,
	}
}

func groupToNode(group []offsetParagraph, index, total int) *docmodel.HeadingNode {
	return &docmodel.HeadingNode{
		Level:       1,
		Title:       sectionLabel(index, total),
		StartOffset: group[0].start,
		EndOffset:   group[len(group)-1].end,
	}
}

// mergeTinyGroups folds any group whose combined text is shorter than
// minSize into the preceding group. A tiny first group has nothing before
// it and is kept as its own group.
func mergeTinyGroups(groups [][]offsetParagraph, minSize int) [][]offsetParagraph {
	if minSize <= 0 {
		return groups
	}
	merged := make([][]offsetParagraph, 0, len(groups))
	for _, g := range groups {
		if groupLen(g) < minSize && len(merged) > 0 {
			merged[len(merged)-1] = append(merged[len(merged)-1], g...)
			continue
		}
		merged = append(merged, g)
	}
	// A tiny trailing group may still be alone (minSize > whole document);
	// leave it rather than merging into nothing.
	if len(merged) > 1 && groupLen(merged[len(merged)-1]) < minSize {
		last := merged[len(merged)-1]
		merged = merged[:len(merged)-1]
		merged[len(merged)-1] = append(merged[len(merged)-1], last...)
	}
	return merged
}

func groupLen(g []offsetParagraph) int {
	total := 0
	for _, p := range g {
		total += len(p.text)
	}
	return total
}

package chunker

import (
	"github.com/novaquill/docmind/internal/analysis/hierarchy"
	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// ChunkWithHierarchy chunks each leaf section of a HierarchyMap
// independently and stitches the results back into one globally-indexed,
// offset-translated chunk list. Every chunk additionally carries the
// section it came from, so a downstream LLM call can be told where in the
// document's structure the text it's reading sits.
func ChunkWithHierarchy(text string, hm *docmodel.HierarchyMap, opts docmodel.ChunkOptions) []docmodel.Chunk {
	if hm == nil {
		return ChunkText(text, opts)
	}

	leaves := hierarchy.Leaves(hm.Headings)
	if len(leaves) == 0 {
		return ChunkText(text, opts)
	}

	var chunks []docmodel.Chunk
	for _, leaf := range leaves {
		sectionText := sliceText(text, leaf.StartOffset, leaf.EndOffset)
		breadcrumb := hierarchy.BuildContextPrefix(hm.Headings, leaf)
		contextPrefix := ""
		if breadcrumb != "" {
			contextPrefix = "[" + breadcrumb + "] "
		}

		for _, c := range ChunkText(sectionText, opts) {
			c.Start += leaf.StartOffset
			c.End += leaf.StartOffset
			c.SectionTitle = leaf.Title
			c.SectionPath = breadcrumb
			c.ContextPrefix = contextPrefix
			chunks = append(chunks, c)
		}
	}

	for i := range chunks {
		chunks[i].Index = i
	}
	if chunks == nil {
		return []docmodel.Chunk{}
	}
	return chunks
}

func sliceText(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}

// Package chunker implements the paragraph/sentence-aware splitter
// described for the document-analysis core: it merges small segments,
// overlaps consecutive ones, and keeps exact document offsets so every
// chunk can be traced back to the source text.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/novaquill/docmind/internal/domain/docmodel"
	"github.com/novaquill/docmind/internal/hashutil"
)

// resolveOptions applies the reference defaults for any unset field. Overlap
// of exactly zero is a legitimate caller choice, not "unset".
func resolveOptions(opts docmodel.ChunkOptions) docmodel.ChunkOptions {
	resolved := opts
	if resolved.MaxChunkSize <= 0 {
		resolved.MaxChunkSize = docmodel.DefaultChunkOptions().MaxChunkSize
	}
	if resolved.Overlap < 0 {
		resolved.Overlap = 0
	}
	return resolved
}

// ChunkText is the language-agnostic split described in the spec:
// paragraph split -> oversized-paragraph sentence packing -> tiny-segment
// merge -> overlap -> offset recovery -> hash. It never errors: a Go string
// is already well-typed, and empty input simply yields no chunks.
func ChunkText(text string, opts docmodel.ChunkOptions) []docmodel.Chunk {
	opts = resolveOptions(opts)

	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return []docmodel.Chunk{}
	}

	broken := breakOversized(paragraphs, opts.MaxChunkSize)
	canonical := mergeTinySegments(broken, opts.MaxChunkSize)
	overlapped := applyOverlap(canonical, opts.Overlap)
	positions := locateSegments(text, canonical)

	chunks := make([]docmodel.Chunk, len(canonical))
	for i := range canonical {
		chunks[i] = docmodel.Chunk{
			Index: i,
			Text:  overlapped[i],
			Start: positions[i].start,
			End:   positions[i].end,
			Hash:  hashutil.HexDigest(overlapped[i]),
		}
	}
	return chunks
}

// AnalyzeText is the cheap, pure statistics pass over raw text.
func AnalyzeText(text string) docmodel.TextStats {
	return docmodel.TextStats{
		TotalCharacters: utf8.RuneCountInString(text),
		TotalWords:      len(strings.Fields(text)),
		TotalParagraphs: len(splitParagraphs(text)),
	}
}

// AnalyzeDocument composes AnalyzeText with either ChunkText or
// ChunkWithHierarchy, depending on whether a hierarchy was supplied.
func AnalyzeDocument(text string, opts docmodel.ChunkOptions, hierarchy *docmodel.HierarchyMap) docmodel.AnalysisResult {
	stats := AnalyzeText(text)

	var chunks []docmodel.Chunk
	if hierarchy != nil {
		chunks = ChunkWithHierarchy(text, hierarchy, opts)
	} else {
		chunks = ChunkText(text, opts)
	}

	return docmodel.AnalysisResult{
		TotalCharacters: stats.TotalCharacters,
		TotalWords:      stats.TotalWords,
		TotalParagraphs: stats.TotalParagraphs,
		Chunks:          chunks,
		Hierarchy:       hierarchy,
	}
}

// HashDocument returns the SHA-256 hex digest of the whole document; it is
// the tier-1 fast path key used by the doc-sync manager.
func HashDocument(text string) string {
	return hashutil.HexDigest(text)
}

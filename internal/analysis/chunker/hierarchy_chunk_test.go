package chunker

import (
	"testing"

	"github.com/novaquill/docmind/internal/domain/docmodel"
	"github.com/novaquill/docmind/internal/hashutil"
)

func TestChunkWithHierarchyNilFallsBackToFlatChunking(t *testing.T) {
	text := "Some plain text with no hierarchy."
	chunks := ChunkWithHierarchy(text, nil, docmodel.DefaultChunkOptions())
	if len(chunks) != 1 {
		t.Fatalf("expected flat fallback to produce 1 chunk, got %d", len(chunks))
	}
	if chunks[0].SectionTitle != "" {
		t.Errorf("expected no section title without a hierarchy")
	}
}

func TestChunkWithHierarchyTagsChunksWithSectionMetadata(t *testing.T) {
	text := "Intro text goes here.Background text goes here and is a bit longer."
	introEnd := len("Intro text goes here.")
	hm := &docmodel.HierarchyMap{
		Headings: []*docmodel.HeadingNode{
			{Level: 1, Title: "Introduction", StartOffset: 0, EndOffset: introEnd},
			{Level: 1, Title: "Background", StartOffset: introEnd, EndOffset: len(text)},
		},
	}

	chunks := ChunkWithHierarchy(text, hm, docmodel.ChunkOptions{MaxChunkSize: 1000, Overlap: 0})
	if len(chunks) != 2 {
		t.Fatalf("expected 1 chunk per section, got %d", len(chunks))
	}
	if chunks[0].SectionTitle != "Introduction" {
		t.Errorf("expected first chunk tagged Introduction, got %q", chunks[0].SectionTitle)
	}
	if chunks[1].SectionTitle != "Background" {
		t.Errorf("expected second chunk tagged Background, got %q", chunks[1].SectionTitle)
	}
	if chunks[1].Start != introEnd {
		t.Errorf("expected second section's chunk offset translated by leaf start, got %d", chunks[1].Start)
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("expected chunk %d to be globally re-indexed, got index %d", i, c.Index)
		}
	}
	if chunks[1].SectionPath != "Background" {
		t.Errorf("expected sectionPath to be the breadcrumb, got %q", chunks[1].SectionPath)
	}
	if chunks[1].ContextPrefix != "[Background] " {
		t.Errorf("expected bracketed context prefix, got %q", chunks[1].ContextPrefix)
	}
	if chunks[1].Hash != hashutil.HexDigest(chunks[1].Text) {
		t.Errorf("expected hash to cover only chunk text, not the context prefix")
	}
}

func TestChunkWithHierarchyEmptyLeavesFallsBack(t *testing.T) {
	hm := &docmodel.HierarchyMap{Headings: nil}
	chunks := ChunkWithHierarchy("some text", hm, docmodel.DefaultChunkOptions())
	if len(chunks) != 1 {
		t.Fatalf("expected flat fallback when hierarchy has no leaves, got %d chunks", len(chunks))
	}
}

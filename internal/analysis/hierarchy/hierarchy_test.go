package hierarchy

import (
	"context"
	"testing"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

func TestExtractHierarchyPrefersMarkdownHeadings(t *testing.T) {
	text := "# Introduction\n\nSome intro text.\n\n## Background\n\nMore text here.\n\n# Conclusion\n\nFinal words."
	hm, err := ExtractHierarchy(context.Background(), text, nil, docmodel.HierarchyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hm.Strategy != docmodel.StrategyHeading {
		t.Fatalf("expected heading strategy, got %s", hm.Strategy)
	}
	if len(hm.Headings) != 2 {
		t.Fatalf("expected 2 root headings (Introduction, Conclusion), got %d", len(hm.Headings))
	}
	if len(hm.Headings[0].Children) != 1 {
		t.Fatalf("expected Introduction to have 1 nested child, got %d", len(hm.Headings[0].Children))
	}
}

func TestExtractHierarchyFallsBackToPositionalWithoutEmbedder(t *testing.T) {
	text := "Just a plain block of prose with no heading markers whatsoever, repeated to give it some length so the positional splitter has something to divide."
	hm, err := ExtractHierarchy(context.Background(), text, nil, docmodel.HierarchyOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hm.Strategy != docmodel.StrategyPositional {
		t.Fatalf("expected positional strategy, got %s", hm.Strategy)
	}
}

type stubEmbedder struct {
	vectors [][]float32
	err     error
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors, nil
}

func TestExtractHierarchyUsesEmbeddingStrategyWhenProvided(t *testing.T) {
	text := "Paragraph about cooking techniques and recipes.\n\nAnother paragraph, still about cooking, with more detail.\n\nA completely different paragraph about orbital mechanics and rockets.\n\nMore about rockets and propulsion systems here."
	embedder := &stubEmbedder{
		vectors: [][]float32{
			{1, 0, 0},
			{0.9, 0.1, 0},
			{0, 0, 1},
			{0, 0.1, 0.9},
		},
	}
	opts := docmodel.DefaultHierarchyOptions()
	opts.MinSectionSize = 1
	hm, err := ExtractHierarchy(context.Background(), text, embedder, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hm.Strategy != docmodel.StrategyEmbedding {
		t.Fatalf("expected embedding strategy, got %s", hm.Strategy)
	}
	if len(hm.Headings) < 2 {
		t.Fatalf("expected at least 2 topic sections, got %d", len(hm.Headings))
	}
}

func TestBuildTreeAssignsEndOffsetsAtNextSiblingOrShallower(t *testing.T) {
	flat := []rawHeading{
		{level: 1, title: "A", lineOffset: 0},
		{level: 2, title: "A.1", lineOffset: 10},
		{level: 1, title: "B", lineOffset: 30},
	}
	roots := buildTree(flat, 50)
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if roots[0].EndOffset != 30 {
		t.Errorf("expected A to end at B's start (30), got %d", roots[0].EndOffset)
	}
	if roots[1].EndOffset != 50 {
		t.Errorf("expected B to end at text length (50), got %d", roots[1].EndOffset)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].EndOffset != 30 {
		t.Errorf("expected A.1 nested under A and ending at 30")
	}
}

func TestDetectHeadingsRejectsEnumeratedSentences(t *testing.T) {
	flat := detectHeadings("1. the rain fell all night and did not stop until dawn broke over the hills")
	if len(flat) != 0 {
		t.Errorf("expected enumerated sentence not to be treated as a heading, got %v", flat)
	}
}

func TestDetectHeadingsAcceptsAllCapsLine(t *testing.T) {
	flat := detectHeadings("EXECUTIVE SUMMARY OVERVIEW\n\nBody text follows here.")
	if len(flat) != 1 {
		t.Fatalf("expected 1 heading, got %d", len(flat))
	}
	if flat[0].title != "Executive Summary Overview" {
		t.Errorf("expected title-cased heading, got %q", flat[0].title)
	}
}

func TestDetectHeadingsRejectsTwoWordAllCapsLine(t *testing.T) {
	flat := detectHeadings("EXECUTIVE SUMMARY\n\nBody text follows here.")
	if len(flat) != 0 {
		t.Errorf("expected a 2-word ALL-CAPS line not to be treated as a heading, got %v", flat)
	}
}

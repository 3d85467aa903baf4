package chunker

import "testing"

func TestSplitParagraphsDropsBlank(t *testing.T) {
	got := splitParagraphs("one\n\n\n\ntwo\n\nthree")
	want := []string{"one", "two", "three"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesKeepsUnterminatedTail(t *testing.T) {
	got := splitSentences("First sentence. Second sentence! Third without a terminator")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %v", len(got), got)
	}
	if got[2] != "Third without a terminator" {
		t.Errorf("unexpected trailing fragment %q", got[2])
	}
}

func TestPackSentencesNeverFlushesOnFirstOversizedSentence(t *testing.T) {
	longSentence := "This single sentence is deliberately longer than the max size configured for this test."
	segments := packSentences(longSentence, 10)
	if len(segments) != 1 {
		t.Fatalf("expected the oversized lone sentence kept whole, got %d segments", len(segments))
	}
}

func TestMergeTinySegmentsJoinsUntilBudgetExceeded(t *testing.T) {
	segments := []string{"a", "b", "c"}
	merged := mergeTinySegments(segments, 10)
	if len(merged) != 1 {
		t.Fatalf("expected all tiny segments merged into one, got %d: %v", len(merged), merged)
	}
}

func TestBuildOverlapPrefixTrimsToWordBoundary(t *testing.T) {
	prefix := buildOverlapPrefix("the quick brown fox", 7)
	if prefix != "fox" {
		t.Errorf("expected overlap trimmed to word boundary, got %q", prefix)
	}
}

func TestLocateSegmentsAdvancesPastRepeatedText(t *testing.T) {
	text := "repeat repeat repeat"
	positions := locateSegments(text, []string{"repeat", "repeat", "repeat"})
	if len(positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(positions))
	}
	for i := 1; i < len(positions); i++ {
		if positions[i].start <= positions[i-1].start {
			t.Errorf("expected forward progress: position %d (%d) should be after position %d (%d)",
				i, positions[i].start, i-1, positions[i-1].start)
		}
	}
}

func TestLocateSegmentsClampsWhenSegmentIsMissing(t *testing.T) {
	positions := locateSegments("short text", []string{"not present anywhere"})
	if positions[0].start != 0 {
		t.Errorf("expected degenerate start of 0, got %d", positions[0].start)
	}
}

package chunker

import (
	"regexp"
	"strings"
)

var (
	paragraphSplitRe     = regexp.MustCompile(`\n\s*\n`)
	sentenceBoundaryRe   = regexp.MustCompile(`[.!?]+\s+`)
	leadingPunctuationRe = regexp.MustCompile(`^[.!?]+`)
)

// splitParagraphs breaks text on blank lines, dropping empty paragraphs.
// Offsets are not tracked here; final chunk positions are recovered later by
// locateSegments against the merged, canonical segment text.
func splitParagraphs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := paragraphSplitRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// splitSentences breaks text at "(?<=[.!?])\s+" boundaries. Go's RE2 engine
// has no lookbehind, so the split point is recovered by matching the
// terminator run and its trailing whitespace together, then re-deriving
// where the terminator run ends. A trailing fragment with no terminator (the
// degenerate single-unterminated-sentence case) is kept whole.
func splitSentences(text string) []string {
	var sentences []string
	cursor := 0
	for _, m := range sentenceBoundaryRe.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		if start < cursor {
			continue
		}
		punct := leadingPunctuationRe.FindString(text[start:end])
		sentenceEnd := start + len(punct)
		sentences = append(sentences, text[cursor:sentenceEnd])
		cursor = end
	}
	if cursor < len(text) {
		sentences = append(sentences, text[cursor:])
	}
	return sentences
}

// packSentences greedily fills a running buffer with sentences, flushing
// just before a sentence would push the buffer past maxSize. A single
// oversized sentence (or an unterminated paragraph, which splitSentences
// returns as one "sentence") never triggers a flush on its own — the buffer
// only flushes when it already holds something.
func packSentences(paragraph string, maxSize int) []string {
	sentences := splitSentences(paragraph)
	var segments []string
	buffer := ""
	for _, s := range sentences {
		candidate := s
		if buffer != "" {
			candidate = buffer + " " + s
		}
		if len(candidate) > maxSize && buffer != "" {
			segments = append(segments, buffer)
			buffer = s
			continue
		}
		buffer = candidate
	}
	if buffer != "" {
		segments = append(segments, buffer)
	}
	return segments
}

// breakOversized runs packSentences over any paragraph longer than maxSize,
// leaving shorter paragraphs untouched.
func breakOversized(paragraphs []string, maxSize int) []string {
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if len(p) <= maxSize {
			out = append(out, p)
			continue
		}
		out = append(out, packSentences(p, maxSize)...)
	}
	return out
}

// mergeTinySegments packs consecutive segments together, joined by a blank
// line, until the next segment would push the running segment past
// maxSize+2 (the +2 accounts for the joining "\n\n" itself).
func mergeTinySegments(segments []string, maxSize int) []string {
	if len(segments) == 0 {
		return nil
	}
	merged := make([]string, 0, len(segments))
	current := segments[0]
	for _, seg := range segments[1:] {
		if len(current)+2+len(seg) <= maxSize+2 {
			current = current + "\n\n" + seg
			continue
		}
		merged = append(merged, current)
		current = seg
	}
	merged = append(merged, current)
	return merged
}

// buildOverlapPrefix takes the trailing overlapLen characters of a canonical
// segment and trims them to the first whitespace boundary, so overlap never
// starts mid-word.
func buildOverlapPrefix(prevCanonical string, overlapLen int) string {
	if overlapLen <= 0 || len(prevCanonical) == 0 {
		return ""
	}
	raw := prevCanonical
	if len(raw) > overlapLen {
		raw = raw[len(raw)-overlapLen:]
	}
	if idx := strings.IndexByte(raw, ' '); idx != -1 {
		return raw[idx+1:]
	}
	return raw
}

// applyOverlap prepends the previous canonical segment's overlap prefix to
// every segment after the first.
func applyOverlap(canonical []string, overlapLen int) []string {
	out := make([]string, len(canonical))
	for i, seg := range canonical {
		if i == 0 || overlapLen <= 0 {
			out[i] = seg
			continue
		}
		prefix := buildOverlapPrefix(canonical[i-1], overlapLen)
		if prefix == "" {
			out[i] = seg
			continue
		}
		out[i] = prefix + " " + seg
	}
	return out
}

type segPos struct {
	start, end int
}

// locateSegments finds each canonical segment's offset in the source
// document via a forward-only search cursor. On a match the cursor advances
// only past the match's start (not its end), which lets a segment that
// repeats earlier text still be found while guaranteeing forward progress.
// A segment that cannot be located at all (degenerate merged content)
// clamps to start=0, end=searchFrom.
func locateSegments(text string, canonical []string) []segPos {
	positions := make([]segPos, len(canonical))
	searchFrom := 0
	for i, seg := range canonical {
		idx := strings.Index(text[searchFrom:], seg)
		if idx == -1 {
			positions[i] = segPos{start: 0, end: searchFrom}
			continue
		}
		start := searchFrom + idx
		end := start + len(seg)
		positions[i] = segPos{start: start, end: end}
		searchFrom = start + 1
	}
	return positions
}

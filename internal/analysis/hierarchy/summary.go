package hierarchy

import (
	"regexp"
	"strings"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

var summarySentenceBoundaryRe = regexp.MustCompile(`[.!?]+\s+`)

// extractSentences takes the leading maxSentences sentences of text, a
// cheap extractive summary that needs no LLM call. It is deliberately the
// same lead-sentences heuristic for both document- and section-level
// summaries; the difference is only how many sentences and over what span
// of text each is run.
func extractSentences(text string, maxSentences int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxSentences <= 0 {
		return ""
	}

	locs := summarySentenceBoundaryRe.FindAllStringIndex(trimmed, -1)
	if len(locs) == 0 {
		return trimmed
	}

	end := len(trimmed)
	if maxSentences <= len(locs) {
		end = locs[maxSentences-1][0]
		// include the terminator itself, not the trailing whitespace
		punctEnd := locs[maxSentences-1][0]
		for punctEnd < locs[maxSentences-1][1] && strings.ContainsRune(".!?", rune(trimmed[punctEnd])) {
			punctEnd++
		}
		end = punctEnd
	}
	return strings.TrimSpace(trimmed[:end])
}

// buildSummaries produces the whole-document lead summary plus one
// extractive summary per leaf section, keyed by its SectionPath.
func buildSummaries(text string, roots []*docmodel.HeadingNode, opts docmodel.HierarchyOptions) (docSummary string, sectionSummaries map[string]string) {
	docSummary = extractSentences(text, opts.DocSummaryMaxSentences)

	sectionSummaries = make(map[string]string)
	for _, leaf := range Leaves(roots) {
		sectionText := sliceText(text, leaf.StartOffset, leaf.EndOffset)
		key := SectionPath(roots, leaf)
		if key == "" {
			key = leaf.Title
		}
		sectionSummaries[key] = extractSentences(sectionText, opts.SectionSummaryMaxSentences)
	}
	return docSummary, sectionSummaries
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

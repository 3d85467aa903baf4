package hierarchy

import (
	"regexp"
	"strings"
)

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

type offsetParagraph struct {
	text  string
	start int
	end   int
}

// splitParagraphsWithOffsets breaks text on blank lines and records each
// surviving paragraph's offset in the source document. Unlike the chunker's
// locateSegments, paragraphs here are non-overlapping and found in strictly
// increasing order, so the search cursor can safely advance to the END of
// each match instead of just past its start.
func splitParagraphsWithOffsets(text string) []offsetParagraph {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var paragraphs []offsetParagraph
	cursor := 0
	for _, loc := range blankLineRe.FindAllStringIndex(text, -1) {
		raw := text[cursor:loc[0]]
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			start := cursor + strings.Index(raw, trimmed)
			paragraphs = append(paragraphs, offsetParagraph{
				text:  trimmed,
				start: start,
				end:   start + len(trimmed),
			})
		}
		cursor = loc[1]
	}
	if raw := text[cursor:]; strings.TrimSpace(raw) != "" {
		trimmed := strings.TrimSpace(raw)
		start := cursor + strings.Index(raw, trimmed)
		paragraphs = append(paragraphs, offsetParagraph{
			text:  trimmed,
			start: start,
			end:   start + len(trimmed),
		})
	}
	return paragraphs
}

package hierarchy

import (
	"regexp"
	"strings"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

var (
	markdownHeadingRe = regexp.MustCompile(`^(#{1,6})\s+(\S.*)$`)
	numericHeadingRe  = regexp.MustCompile(`^(\d+(?:\.\d+)*)[.)]?\s+(\S.*)$`)
	allCapsHeadingRe  = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 \-:,'()&/]{1,78}$`)
)

// rawHeading is a detected heading line before tree-building: its Level and
// Title, plus the character offset of the line itself.
type rawHeading struct {
	level      int
	title      string
	lineOffset int
}

// detectHeadings scans text line by line for Markdown ("#", "##", ...),
// numeric-dotted ("1.2 Title") or ALL-CAPS heading lines, in that order of
// preference per line. A document that yields zero headings this way falls
// back to the embedding-similarity or positional strategies.
func detectHeadings(text string) []rawHeading {
	var headings []rawHeading
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, "\r")
		if h, ok := matchHeadingLine(trimmed); ok {
			h.lineOffset = offset
			headings = append(headings, h)
		}
		offset += len(line) + 1
	}
	return headings
}

func matchHeadingLine(line string) (rawHeading, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return rawHeading{}, false
	}

	if m := markdownHeadingRe.FindStringSubmatch(trimmed); m != nil {
		return rawHeading{level: len(m[1]), title: strings.TrimSpace(m[2])}, true
	}

	if m := numericHeadingRe.FindStringSubmatch(trimmed); m != nil {
		level := strings.Count(m[1], ".") + 1
		title := strings.TrimSpace(m[2])
		if looksLikeHeadingTitle(title) {
			return rawHeading{level: level, title: title}, true
		}
	}

	if allCapsHeadingRe.MatchString(trimmed) && hasLetter(trimmed) && strings.ToUpper(trimmed) == trimmed && len(strings.Fields(trimmed)) >= 3 {
		return rawHeading{level: 1, title: titleCase(trimmed)}, true
	}

	return rawHeading{}, false
}

// looksLikeHeadingTitle rejects numeric-prefixed lines that are really just
// the start of an ordinary enumerated sentence ("1. the rain fell all
// night and") by requiring a short, capitalized title.
func looksLikeHeadingTitle(title string) bool {
	if title == "" || len(title) > 120 {
		return false
	}
	words := strings.Fields(title)
	if len(words) == 0 {
		return false
	}
	first := []rune(words[0])
	return first[0] >= 'A' && first[0] <= 'Z'
}

func hasLetter(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

// titleCase renders an ALL-CAPS heading line in mixed case for display,
// since the raw shouting form is a detection signal, not presentation text.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// buildTree nests a document-ordered flat heading list using a
// level-descending stack: a heading attaches under the nearest preceding
// heading with a strictly smaller level, or to the root if none exists.
func buildTree(flat []rawHeading, textLen int) []*docmodel.HeadingNode {
	if len(flat) == 0 {
		return nil
	}

	nodes := make([]*docmodel.HeadingNode, len(flat))
	for i, h := range flat {
		nodes[i] = &docmodel.HeadingNode{
			Level:       h.level,
			Title:       h.title,
			StartOffset: h.lineOffset,
		}
	}

	var roots []*docmodel.HeadingNode
	type frame struct {
		node  *docmodel.HeadingNode
		level int
	}
	var stack []frame
	for _, n := range nodes {
		for len(stack) > 0 && stack[len(stack)-1].level >= n.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, frame{node: n, level: n.Level})
	}

	assignEndOffsets(nodes, textLen)
	return roots
}

// assignEndOffsets walks the flat, document-ordered node list and gives each
// node an EndOffset equal to the start of the next node at the same or a
// shallower level (this naturally spans that node's own children), or the
// document length for the very last heading.
func assignEndOffsets(nodes []*docmodel.HeadingNode, textLen int) {
	for i, n := range nodes {
		end := textLen
		for j := i + 1; j < len(nodes); j++ {
			if nodes[j].Level <= n.Level {
				end = nodes[j].StartOffset
				break
			}
		}
		n.EndOffset = end
	}
}

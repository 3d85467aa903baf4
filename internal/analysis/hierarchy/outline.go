package hierarchy

import (
	"strconv"
	"strings"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// renderOutline depth-first walks a heading tree into a dotted, numbered
// outline ("1", "1.1", "1.2", "2", ...), stopping at maxDepth so a deeply
// nested document doesn't produce an unreadably long outline.
func renderOutline(roots []*docmodel.HeadingNode, maxDepth int) string {
	if maxDepth <= 0 {
		maxDepth = 6
	}
	var b strings.Builder
	renderOutlineLevel(&b, roots, nil, 1, maxDepth)
	return strings.TrimRight(b.String(), "\n")
}

func renderOutlineLevel(b *strings.Builder, nodes []*docmodel.HeadingNode, path []int, depth, maxDepth int) {
	if depth > maxDepth {
		return
	}
	for i, n := range nodes {
		number := append(append([]int{}, path...), i+1)
		b.WriteString(strings.Repeat("  ", depth-1))
		b.WriteString(joinNumber(number))
		b.WriteString(" ")
		b.WriteString(n.Title)
		b.WriteString("\n")
		renderOutlineLevel(b, n.Children, number, depth+1, maxDepth)
	}
}

func joinNumber(number []int) string {
	parts := make([]string, len(number))
	for i, n := range number {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// Leaves flattens a heading tree into its leaf nodes in document order: the
// sections a document actually gets chunked against. A tree with no
// children at all (flat sectioning, as produced by the embedding-similarity
// and positional strategies) is already all leaves.
func Leaves(roots []*docmodel.HeadingNode) []*docmodel.HeadingNode {
	var leaves []*docmodel.HeadingNode
	var walk func(nodes []*docmodel.HeadingNode)
	walk = func(nodes []*docmodel.HeadingNode) {
		for _, n := range nodes {
			if len(n.Children) == 0 {
				leaves = append(leaves, n)
				continue
			}
			walk(n.Children)
		}
	}
	walk(roots)
	return leaves
}

// BuildContextPrefix renders the path from the document root down to node as
// "Top Title > Mid Title > Leaf Title", the breadcrumb a chunk carries so an
// LLM sees where in the document's structure it sits without needing the
// whole document in context.
func BuildContextPrefix(roots []*docmodel.HeadingNode, target *docmodel.HeadingNode) string {
	var path []string
	var walk func(nodes []*docmodel.HeadingNode, trail []string) bool
	walk = func(nodes []*docmodel.HeadingNode, trail []string) bool {
		for _, n := range nodes {
			next := append(append([]string{}, trail...), n.Title)
			if n == target {
				path = next
				return true
			}
			if walk(n.Children, next) {
				return true
			}
		}
		return false
	}
	walk(roots, nil)
	return strings.Join(path, " > ")
}

// SectionPath is BuildContextPrefix's machine-readable counterpart, joined
// by "/" instead of " > ", used as the stable key in SectionSummaries maps.
func SectionPath(roots []*docmodel.HeadingNode, target *docmodel.HeadingNode) string {
	prefix := BuildContextPrefix(roots, target)
	return strings.ReplaceAll(prefix, " > ", "/")
}

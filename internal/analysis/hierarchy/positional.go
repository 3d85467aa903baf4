package hierarchy

import (
	"strconv"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// segmentPositionally is the last-resort strategy: it has no signal about
// topic boundaries at all, so it simply divides the document into a small,
// fixed number of equal-sized runs.
func segmentPositionally(text string, opts docmodel.HierarchyOptions) []*docmodel.HeadingNode {
	n := len(text)
	if n == 0 {
		return nil
	}

	count := (n + 499) / 500 // ceil(len/500)
	if count > 5 {
		count = 5
	}
	if count < 1 {
		count = 1
	}

	nodes := make([]*docmodel.HeadingNode, 0, count)
	chunkSize := n / count
	for i := 0; i < count; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == count-1 {
			end = n
		}
		nodes = append(nodes, &docmodel.HeadingNode{
			Level:       1,
			Title:       sectionLabel(i+1, count),
			StartOffset: start,
			EndOffset:   end,
		})
	}
	return nodes
}

// sectionLabel renders the positional/embedding fallback's generic section
// title: "Section k of N".
func sectionLabel(k, n int) string {
	return "Section " + strconv.Itoa(k) + " of " + strconv.Itoa(n)
}

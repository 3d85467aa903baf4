package orchestrate

import (
	"context"
	"fmt"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// SuggestChanges runs a sliding-window pass asking the agent for concrete
// rewrite suggestions for specific passages of each chunk.
func (o *Orchestrator) SuggestChanges(ctx context.Context, chunks []docmodel.Chunk) []docmodel.Suggestion {
	results := slidingWindow[docmodel.Suggestion](o, ctx, chunks, suggestPrompt)
	if results == nil {
		return []docmodel.Suggestion{}
	}
	return results
}

func suggestPrompt(chunk docmodel.Chunk) string {
	return fmt.Sprintf(`%sSuggest concrete rewrites for specific passages of the text below. Quote the original passage verbatim, give your suggested replacement, and explain why it's better.

Respond with a JSON array of objects: [{"quote": "...", "suggestion": "...", "reason": "..."}]. If you have no suggestions, respond with [].

Text:
%s`, chunkPromptHeader(chunk), chunk.Text)
}

package orchestrate

import (
	"context"
	"fmt"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// Criticize runs a sliding-window pass asking the agent to quote and
// critique specific passages of each chunk. Chunks whose call fails or
// whose response can't be parsed are skipped with a logged warning.
func (o *Orchestrator) Criticize(ctx context.Context, chunks []docmodel.Chunk) []docmodel.Criticism {
	results := slidingWindow[docmodel.Criticism](o, ctx, chunks, criticizePrompt)
	if results == nil {
		return []docmodel.Criticism{}
	}
	return results
}

func criticizePrompt(chunk docmodel.Chunk) string {
	return fmt.Sprintf(`%sCritique the writing below. Quote each passage you have a specific criticism of verbatim, and explain the issue.

Respond with a JSON array of objects: [{"quote": "...", "criticism": "..."}]. If you have no criticisms, respond with [].

Text:
%s`, chunkPromptHeader(chunk), chunk.Text)
}

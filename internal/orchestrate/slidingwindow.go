package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/novaquill/docmind/internal/capability/agent"
	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// slidingWindow runs one prompt per chunk and parses each response as JSON
// into a T. A chunk whose call errors or whose response doesn't parse is
// logged and skipped rather than failing the whole request — one bad chunk
// shouldn't sink review of the other ninety-nine.
func slidingWindow[T any](o *Orchestrator, ctx context.Context, chunks []docmodel.Chunk, promptFor func(docmodel.Chunk) string) []T {
	var results []T
	for _, chunk := range chunks {
		messages := []agent.Message{{Role: "user", Text: promptFor(chunk)}}
		raw, err := o.agent.Generate(ctx, config.ModelSystemPrompt, messages)
		if err != nil {
			o.logger.Warn("sliding window call failed, skipping chunk", "chunkHash", chunk.Hash, "error", err)
			continue
		}

		var parsed []T
		if err := json.Unmarshal([]byte(stripJSONFence(raw)), &parsed); err != nil {
			o.logger.Warn("sliding window response did not parse, skipping chunk", "chunkHash", chunk.Hash, "error", err)
			continue
		}
		results = append(results, parsed...)
	}
	return results
}

func chunkPromptHeader(chunk docmodel.Chunk) string {
	if chunk.ContextPrefix != "" {
		return fmt.Sprintf("Section: %s\n\n", chunk.ContextPrefix)
	}
	return ""
}

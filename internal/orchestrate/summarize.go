package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/novaquill/docmind/internal/analysis/apierr"
	"github.com/novaquill/docmind/internal/capability/agent"
	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/domain/docmodel"
)

// Summarize produces a whole-document summary via map-reduce: each chunk is
// summarized independently (map, bounded to
// config.SummarizeMapConcurrency concurrent calls), then every partial
// summary is folded into one final pass (reduce). A document that is
// already a single chunk skips the map step and runs reduce directly on it,
// since there is nothing to combine.
func (o *Orchestrator) Summarize(ctx context.Context, chunks []docmodel.Chunk) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}
	if len(chunks) == 1 {
		final, err := o.reduceSummaries(ctx, []string{chunks[0].Text})
		if err != nil {
			return "", &apierr.SummarizationError{Stage: "reduce", Cause: err}
		}
		return final, nil
	}

	partials := o.mapSummaries(ctx, chunks)
	if len(partials) == 0 {
		return "", &apierr.SummarizationError{Stage: "map", Cause: fmt.Errorf("all %d chunk summaries failed", len(chunks))}
	}

	final, err := o.reduceSummaries(ctx, partials)
	if err != nil {
		return "", &apierr.SummarizationError{Stage: "reduce", Cause: err}
	}
	return final, nil
}

func (o *Orchestrator) mapSummaries(ctx context.Context, chunks []docmodel.Chunk) []string {
	type result struct {
		index   int
		summary string
		ok      bool
	}

	sem := make(chan struct{}, config.SummarizeMapConcurrency)
	results := make([]result, len(chunks))
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, chunk docmodel.Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			messages := []agent.Message{{Role: "user", Text: summarizePrompt(chunk.Text)}}
			summary, err := o.agent.Generate(ctx, config.ModelSystemPrompt, messages)
			if err != nil {
				o.logger.Warn("map-summarize call failed, skipping chunk", "chunkHash", chunk.Hash, "error", err)
				return
			}
			results[i] = result{index: i, summary: strings.TrimSpace(summary), ok: true}
		}(i, chunk)
	}
	wg.Wait()

	partials := make([]string, 0, len(chunks))
	for _, r := range results {
		if r.ok {
			partials = append(partials, r.summary)
		}
	}
	return partials
}

func (o *Orchestrator) reduceSummaries(ctx context.Context, partials []string) (string, error) {
	messages := []agent.Message{{Role: "user", Text: reducePrompt(partials)}}
	final, err := o.agent.Generate(ctx, config.ModelSystemPrompt, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(final), nil
}

func summarizePrompt(text string) string {
	return fmt.Sprintf("Summarize the following passage in two to three sentences, preserving its key claims.\n\nText:\n%s", text)
}

func reducePrompt(partials []string) string {
	var framed strings.Builder
	for i, s := range partials {
		framed.WriteString(fmt.Sprintf("--- Chunk %d Summary ---\n%s\n\n", i+1, s))
	}
	return fmt.Sprintf("Combine the following section summaries into one coherent document summary of no more than one paragraph.\n\nSection summaries:\n%s", framed.String())
}

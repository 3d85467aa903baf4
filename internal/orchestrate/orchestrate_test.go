package orchestrate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/novaquill/docmind/internal/capability/agent"
	"github.com/novaquill/docmind/internal/domain/docmodel"
)

type mockAgent struct {
	OnGenerate func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error)
	calls      int32
}

func (m *mockAgent) Generate(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, systemPrompt, messages)
	}
	return "[]", nil
}

func chunksOf(texts ...string) []docmodel.Chunk {
	chunks := make([]docmodel.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = docmodel.Chunk{Index: i, Text: t, Hash: t}
	}
	return chunks
}

func TestCriticizeParsesJSONResponses(t *testing.T) {
	mock := &mockAgent{OnGenerate: func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
		return `[{"quote":"bad sentence","criticism":"too vague"}]`, nil
	}}
	o := New(mock)
	results := o.Criticize(context.Background(), chunksOf("some passage"))
	if len(results) != 1 {
		t.Fatalf("expected 1 criticism, got %d", len(results))
	}
	if results[0].Quote != "bad sentence" {
		t.Errorf("unexpected quote %q", results[0].Quote)
	}
}

func TestCriticizeSkipsChunksOnAgentError(t *testing.T) {
	mock := &mockAgent{OnGenerate: func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
		return "", errors.New("provider unavailable")
	}}
	o := New(mock)
	results := o.Criticize(context.Background(), chunksOf("a", "b"))
	if results == nil {
		t.Fatal("expected a non-nil empty slice, not nil")
	}
	if len(results) != 0 {
		t.Errorf("expected no criticisms when every call fails, got %d", len(results))
	}
}

func TestCriticizeSkipsChunksOnUnparseableResponse(t *testing.T) {
	mock := &mockAgent{OnGenerate: func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
		return "not json at all", nil
	}}
	o := New(mock)
	results := o.Criticize(context.Background(), chunksOf("a"))
	if len(results) != 0 {
		t.Errorf("expected unparseable response to be skipped, got %d results", len(results))
	}
}

func TestCriticizeStripsJSONFence(t *testing.T) {
	mock := &mockAgent{OnGenerate: func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
		return "```json\n[{\"quote\":\"x\",\"criticism\":\"y\"}]\n```", nil
	}}
	o := New(mock)
	results := o.Criticize(context.Background(), chunksOf("a"))
	if len(results) != 1 {
		t.Fatalf("expected fenced response to parse, got %d results", len(results))
	}
}

func TestSummarizeSingleChunkRunsReduceDirectly(t *testing.T) {
	mock := &mockAgent{OnGenerate: func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
		return "  a crisp summary  ", nil
	}}
	o := New(mock)
	summary, err := o.Summarize(context.Background(), chunksOf("only chunk"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "a crisp summary" {
		t.Errorf("expected trimmed summary, got %q", summary)
	}
	if mock.calls != 1 {
		t.Errorf("expected exactly 1 reduce call for a single chunk, got %d", mock.calls)
	}
}

func TestSummarizeMultiChunkMapsThenReduces(t *testing.T) {
	mock := &mockAgent{OnGenerate: func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
		return "partial", nil
	}}
	o := New(mock)
	summary, err := o.Summarize(context.Background(), chunksOf("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "partial" {
		t.Errorf("expected reduce's response to be returned, got %q", summary)
	}
	if mock.calls != 4 {
		t.Errorf("expected 3 map calls + 1 reduce call = 4, got %d", mock.calls)
	}
}

func TestSummarizeReturnsErrorWhenEveryMapCallFails(t *testing.T) {
	mock := &mockAgent{OnGenerate: func(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
		return "", errors.New("down")
	}}
	o := New(mock)
	_, err := o.Summarize(context.Background(), chunksOf("a", "b"))
	if err == nil {
		t.Fatal("expected an error when every map call fails")
	}
}

func TestSummarizeEmptyChunksReturnsEmptyString(t *testing.T) {
	o := New(&mockAgent{})
	summary, err := o.Summarize(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "" {
		t.Errorf("expected empty summary for no chunks, got %q", summary)
	}
}

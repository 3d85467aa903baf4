// Package agent defines the opaque capability the orchestrators use to run
// one LLM turn, independent of which model provider backs it.
package agent

import "context"

// Message is one turn in a conversation passed to Generate.
type Message struct {
	Role string // "user" or "model"
	Text string
}

// Agent runs a single-turn (or few-turn) generation call.
type Agent interface {
	// Generate runs systemPrompt plus messages through the model and
	// returns its raw text response.
	Generate(ctx context.Context, systemPrompt string, messages []Message) (string, error)
}

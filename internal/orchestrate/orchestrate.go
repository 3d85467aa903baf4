// Package orchestrate runs LLM review passes over a chunked document: a
// sliding window for per-passage criticism and suggestions, and a
// map-reduce for whole-document summarization.
package orchestrate

import (
	"github.com/novaquill/docmind/internal/capability/agent"
	"github.com/novaquill/docmind/pkg/logger_i"
)

// Orchestrator runs review operations over a document's chunks against one
// Agent capability.
type Orchestrator struct {
	agent  agent.Agent
	logger *logger_i.Logger
}

// New constructs an Orchestrator over the given Agent.
func New(a agent.Agent) *Orchestrator {
	return &Orchestrator{agent: a, logger: logger_i.NewLogger("orchestrate")}
}

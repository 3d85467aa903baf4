// Package geminiagent adapts Google's genai SDK to the agent.Agent
// capability.
package geminiagent

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"github.com/novaquill/docmind/internal/capability/agent"
	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var (
	logger *logger_i.Logger
	once   sync.Once
)

type client struct {
	genAi *genai.Client
	model string
}

// New constructs a genai-backed Agent.
func New(ctx context.Context, modelName, apiKey string) (*client, error) {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
	})

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	logger.Info("gemini client created", "model", modelName)
	return &client{genAi: c, model: modelName}, nil
}

func (c *client) Generate(ctx context.Context, systemPrompt string, messages []agent.Message) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	systemInstruction := &genai.Content{
		Parts: []*genai.Part{{Text: systemPrompt}},
	}
	temperature := config.ModelTemperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temperature,
	}

	contents := toContents(messages)

	result, err := c.genAi.Models.GenerateContent(ctx, c.model, contents, contentConfig)
	if err != nil {
		log.Error("error generating content from gemini", "error", err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

func toContents(messages []agent.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role == "" {
			role = "user"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Text}},
		})
	}
	return contents
}

// Package googleembed adapts Google's genai SDK to the embedding.Embedder
// capability.
package googleembed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/pkg/logger_i"
	"google.golang.org/genai"
)

var (
	logger *logger_i.Logger
	once   sync.Once
)

type client struct {
	genAi      *genai.Client
	model      string
	dimensions int32
}

// New constructs a genai-backed Embedder. It is safe to call more than
// once; the package logger is created exactly once and shared, while each
// call creates its own genai.Client.
func New(ctx context.Context, modelName, apiKey string) (*client, error) {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
	})

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating google embedding client: %w", err)
	}

	logger.Info("google embedding client created", "model", modelName)
	return &client{genAi: c, model: modelName, dimensions: config.EmbeddingOutputDimensionality}, nil
}

func (c *client) Dimensions() int32 { return c.dimensions }

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	log.Debug("embedding single query")

	result, err := c.doCall(ctx, genai.Text(text))
	if err != nil {
		log.Error("error getting embedding from google", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("google embedding: empty response")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string, isLargeDataSet bool) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	if !isLargeDataSet {
		content := toContent(texts)
		res, err := c.doCall(ctx, content)
		if err != nil && isRetryable(err) {
			log.Debug("rate limited, retrying embedding batch in 5 seconds", "error", err)
			time.Sleep(5 * time.Second)
			res, err = c.doCall(ctx, content)
		}
		if err != nil {
			log.Error("error getting embeddings from google", "error", err)
			return nil, err
		}

		vectors := make([][]float32, 0, len(res.Embeddings))
		for _, r := range res.Embeddings {
			vectors = append(vectors, r.Values)
		}
		return vectors, nil
	}

	return c.batchJobEmbed(ctx, texts, log)
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	dimension := c.dimensions
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}

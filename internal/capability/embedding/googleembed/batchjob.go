package googleembed

import (
	"time"

	"github.com/novaquill/docmind/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"context"
)

func toContent(texts []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(texts))
	for _, t := range texts {
		contents = append(contents, &genai.Content{Parts: []*genai.Part{{Text: t}}})
	}
	return contents
}

func isRetryable(err error) bool {
	s, ok := status.FromError(err)
	return ok && s.Code() == codes.ResourceExhausted
}

func inlinedBatchRequest(texts []string, dimensions int32) *genai.EmbedContentBatch {
	conf := genai.EmbedContentConfig{OutputDimensionality: &dimensions}
	return &genai.EmbedContentBatch{Config: &conf, Contents: toContent(texts)}
}

// batchJobEmbed routes very large embedding requests through genai's
// asynchronous batch-job API instead of one oversized synchronous call.
func (c *client) batchJobEmbed(ctx context.Context, texts []string, log *logger_i.Logger) ([][]float32, error) {
	source := genai.EmbeddingsBatchJobSource{InlinedRequests: inlinedBatchRequest(texts, c.dimensions)}
	conf := genai.CreateEmbeddingsBatchJobConfig{DisplayName: "docmind-embed-batch"}

	job, err := c.genAi.Batches.CreateEmbeddings(ctx, &c.model, &source, &conf)
	if err != nil {
		log.Error("error creating batch embedding job", "error", err)
		return nil, err
	}

	completed, err := c.pollForCompletion(ctx, job.Name, log)
	if err != nil {
		return nil, err
	}
	return extractBatchVectors(completed, log), nil
}

func (c *client) pollForCompletion(ctx context.Context, jobName string, log *logger_i.Logger) (*genai.BatchJob, error) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			job, err := c.genAi.Batches.Get(ctx, jobName, nil)
			if err != nil {
				log.Error("error polling batch job", "error", err)
				continue
			}
			switch job.State {
			case "JOB_STATE_SUCCEEDED":
				return job, nil
			case "JOB_STATE_FAILED", "JOB_STATE_CANCELLED", "JOB_STATE_EXPIRED", "JOB_STATE_PARTIALLY_SUCCEEDED":
				log.Error("batch embedding job ended without success", "state", job.State)
				return job, nil
			}
		}
	}
}

func extractBatchVectors(job *genai.BatchJob, log *logger_i.Logger) [][]float32 {
	if job.Dest == nil || len(job.Dest.InlinedEmbedContentResponses) == 0 {
		return [][]float32{}
	}
	vectors := make([][]float32, 0, len(job.Dest.InlinedEmbedContentResponses))
	for _, r := range job.Dest.InlinedEmbedContentResponses {
		if r == nil || r.Error != nil || r.Response == nil || r.Response.Embedding == nil {
			log.Error("batch embedding result failed", "result", r)
			vectors = append(vectors, nil)
			continue
		}
		vectors = append(vectors, r.Response.Embedding.Values)
	}
	return vectors
}

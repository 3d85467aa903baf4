// Package qdrantstore adapts a Qdrant collection to the vectorstore.VectorStore
// capability.
package qdrantstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/domain/docmodel"
	"github.com/novaquill/docmind/pkg/logger_i"
)

var (
	logger *logger_i.Logger
	once   sync.Once
)

type client struct {
	q *qdrant.Client
}

// New dials Qdrant over gRPC. Callers should call Close (via ctx
// cancellation) when the store is no longer needed.
func New(ctx context.Context, host string, port int) (*client, error) {
	once.Do(func() {
		logger = logger_i.NewLogger("qdrant")
	})

	if host == "" {
		host = config.QdrantHost
	}
	if port == 0 {
		port = config.QdrantGrpcPort
	}

	q, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: instantiate client: %w", err)
	}

	go closeOnDone(ctx, q)
	return &client{q: q}, nil
}

func closeOnDone(ctx context.Context, q *qdrant.Client) {
	<-ctx.Done()
	logger.Info("shutting down qdrant")
	if err := q.Close(); err != nil {
		logger.Error("could not close qdrant", "error", err)
	}
}

func (c *client) EnsureCollection(ctx context.Context, name string, dimensions int32) error {
	if name == "" {
		return errors.New("qdrant: empty collection name")
	}

	exists, err := c.q.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("qdrant: check collection exists: %w", err)
	}
	if exists {
		return nil
	}

	err = c.q.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %q: %w", name, err)
	}
	return nil
}

// pointID derives a stable Qdrant point ID from a chunk hash so re-upserting
// the same chunk overwrites rather than duplicates.
func pointID(chunkHash string) *qdrant.PointId {
	return qdrant.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkHash)).String())
}

func (c *client) Upsert(ctx context.Context, collection string, records []docmodel.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, r := range records {
		points[i] = &qdrant.PointStruct{
			Id:      pointID(r.ChunkHash),
			Vectors: qdrant.NewVectors(r.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"text":           r.Text,
				"chunk_hash":     r.ChunkHash,
				"chunk_index":    r.ChunkIndex,
				"start":          r.Start,
				"end":            r.End,
				"section_title":  r.SectionTitle,
				"section_path":   r.SectionPath,
				"context_prefix": r.ContextPrefix,
			}),
		}
	}

	_, err := c.q.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

func (c *client) Delete(ctx context.Context, collection string, chunkHashes []string) error {
	if len(chunkHashes) == 0 {
		return nil
	}

	ids := make([]*qdrant.PointId, len(chunkHashes))
	for i, h := range chunkHashes {
		ids[i] = pointID(h)
	}

	_, err := c.q.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorIDs(ids),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant: delete: %w", err)
	}
	return nil
}

func (c *client) VectorSearch(ctx context.Context, collection string, queryVector []float32, topK int) ([]docmodel.SearchResult, error) {
	limit := uint64(topK)
	hits, err := c.q.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}

	results := make([]docmodel.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, docmodel.SearchResult{
			Record: docmodel.ChunkRecord{
				Text:          hit.Payload["text"].GetStringValue(),
				ChunkHash:     hit.Payload["chunk_hash"].GetStringValue(),
				ChunkIndex:    int(hit.Payload["chunk_index"].GetIntegerValue()),
				Start:         int(hit.Payload["start"].GetIntegerValue()),
				End:           int(hit.Payload["end"].GetIntegerValue()),
				SectionTitle:  hit.Payload["section_title"].GetStringValue(),
				SectionPath:   hit.Payload["section_path"].GetStringValue(),
				ContextPrefix: hit.Payload["context_prefix"].GetStringValue(),
			},
			Distance: 1 - hit.Score, // cosine score is a similarity; 1 - score is the cosine distance
		})
	}
	return results, nil
}

func (c *client) Count(ctx context.Context, collection string) (int, error) {
	exact := true
	count, err := c.q.Count(ctx, &qdrant.CountPoints{CollectionName: collection, Exact: &exact})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count: %w", err)
	}
	return int(count), nil
}

func (c *client) Reset(ctx context.Context, collection string) error {
	_, err := c.q.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelectorFilter(&qdrant.Filter{}),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant: reset collection %q: %w", collection, err)
	}
	return nil
}

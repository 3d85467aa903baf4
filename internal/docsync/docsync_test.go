package docsync

import (
	"context"
	"errors"
	"testing"

	"github.com/novaquill/docmind/internal/domain/docmodel"
)

type mockEmbedder struct {
	OnEmbed      func(ctx context.Context, text string) ([]float32, error)
	OnEmbedBatch func(ctx context.Context, texts []string, isLarge bool) ([][]float32, error)
	dimensions   int32
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string, isLarge bool) ([][]float32, error) {
	if m.OnEmbedBatch != nil {
		return m.OnEmbedBatch(ctx, texts, isLarge)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int32 {
	if m.dimensions != 0 {
		return m.dimensions
	}
	return 2
}

type mockStore struct {
	OnEnsureCollection func(ctx context.Context, name string, dimensions int32) error
	OnUpsert           func(ctx context.Context, collection string, records []docmodel.ChunkRecord) error
	OnDelete           func(ctx context.Context, collection string, chunkHashes []string) error
	OnVectorSearch     func(ctx context.Context, collection string, queryVector []float32, topK int) ([]docmodel.SearchResult, error)
	OnCount            func(ctx context.Context, collection string) (int, error)
	OnReset            func(ctx context.Context, collection string) error

	upsertCalls int
	resetCalls  int
}

func (m *mockStore) EnsureCollection(ctx context.Context, name string, dimensions int32) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name, dimensions)
	}
	return nil
}

func (m *mockStore) Upsert(ctx context.Context, collection string, records []docmodel.ChunkRecord) error {
	m.upsertCalls++
	if m.OnUpsert != nil {
		return m.OnUpsert(ctx, collection, records)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, collection string, chunkHashes []string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, collection, chunkHashes)
	}
	return nil
}

func (m *mockStore) VectorSearch(ctx context.Context, collection string, queryVector []float32, topK int) ([]docmodel.SearchResult, error) {
	if m.OnVectorSearch != nil {
		return m.OnVectorSearch(ctx, collection, queryVector, topK)
	}
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context, collection string) (int, error) {
	if m.OnCount != nil {
		return m.OnCount(ctx, collection)
	}
	return 0, nil
}

func (m *mockStore) Reset(ctx context.Context, collection string) error {
	m.resetCalls++
	if m.OnReset != nil {
		return m.OnReset(ctx, collection)
	}
	return nil
}

func TestSyncIfNeededSkipsUnchangedDocument(t *testing.T) {
	store := &mockStore{}
	m := NewManager(&mockEmbedder{}, store)

	ctx := context.Background()
	text := "Some paragraph.\n\nAnother paragraph."
	opts := docmodel.DefaultChunkOptions()

	synced, err := m.SyncIfNeeded(ctx, text, opts)
	if err != nil || !synced {
		t.Fatalf("expected first sync to run, got synced=%v err=%v", synced, err)
	}
	firstUpserts := store.upsertCalls

	synced, err = m.SyncIfNeeded(ctx, text, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if synced {
		t.Errorf("expected unchanged document to skip sync")
	}
	if store.upsertCalls != firstUpserts {
		t.Errorf("expected no additional upserts for an unchanged document")
	}
}

func TestSyncIfNeededEmbedsOnlyNewChunksOnAppend(t *testing.T) {
	store := &mockStore{}
	m := NewManager(&mockEmbedder{}, store)
	ctx := context.Background()
	opts := docmodel.ChunkOptions{MaxChunkSize: 20, Overlap: 0}

	original := "First paragraph here.\n\nSecond paragraph here."
	if _, err := m.SyncIfNeeded(ctx, original, opts); err != nil {
		t.Fatalf("unexpected error on first sync: %v", err)
	}

	var lastRecords []docmodel.ChunkRecord
	store.OnUpsert = func(ctx context.Context, collection string, records []docmodel.ChunkRecord) error {
		lastRecords = records
		return nil
	}

	appended := original + "\n\nThird brand new paragraph here."
	synced, err := m.SyncIfNeeded(ctx, appended, opts)
	if err != nil {
		t.Fatalf("unexpected error on second sync: %v", err)
	}
	if !synced {
		t.Fatalf("expected append to trigger a sync")
	}
	if store.resetCalls != 0 {
		t.Errorf("expected an append-only edit not to trigger a full resync")
	}
	if len(lastRecords) != 1 {
		t.Fatalf("expected only the one new chunk to be embedded and upserted, got %d", len(lastRecords))
	}
	if lastRecords[0].Text != "Third brand new paragraph here." {
		t.Errorf("expected the upserted chunk to be the appended paragraph, got %q", lastRecords[0].Text)
	}
}

func TestSyncIfNeededTriggersFullResyncOnDeletedChunk(t *testing.T) {
	store := &mockStore{}
	m := NewManager(&mockEmbedder{}, store)
	ctx := context.Background()
	opts := docmodel.ChunkOptions{MaxChunkSize: 20, Overlap: 0}

	original := "First paragraph here.\n\nSecond paragraph here."
	if _, err := m.SyncIfNeeded(ctx, original, opts); err != nil {
		t.Fatalf("unexpected error on first sync: %v", err)
	}

	edited := "First paragraph here.\n\nA totally different second paragraph now."
	synced, err := m.SyncIfNeeded(ctx, edited, opts)
	if err != nil {
		t.Fatalf("unexpected error on second sync: %v", err)
	}
	if !synced {
		t.Fatalf("expected edit to trigger a sync")
	}
	if store.resetCalls != 1 {
		t.Errorf("expected exactly one full resync after a chunk deletion, got %d", store.resetCalls)
	}
}

func TestSyncIfNeededWrapsEmbedderErrors(t *testing.T) {
	store := &mockStore{}
	embedErr := errors.New("boom")
	m := NewManager(&mockEmbedder{OnEmbedBatch: func(ctx context.Context, texts []string, isLarge bool) ([][]float32, error) {
		return nil, embedErr
	}}, store)

	_, err := m.SyncIfNeeded(context.Background(), "some text here", docmodel.DefaultChunkOptions())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, embedErr) {
		t.Errorf("expected the embedder's error to be wrapped, got %v", err)
	}
}

func TestQueryWithSyncDefaultsTopK(t *testing.T) {
	store := &mockStore{}
	var gotTopK int
	store.OnVectorSearch = func(ctx context.Context, collection string, queryVector []float32, topK int) ([]docmodel.SearchResult, error) {
		gotTopK = topK
		return nil, nil
	}
	m := NewManager(&mockEmbedder{}, store)

	result, err := m.QueryWithSync(context.Background(), "some text", "a question", docmodel.DefaultChunkOptions(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTopK <= 0 {
		t.Errorf("expected a positive default topK, got %d", gotTopK)
	}
	if result.Hierarchy == nil {
		t.Errorf("expected the hierarchy cached by the preceding sync to be attached to the query result")
	}
}

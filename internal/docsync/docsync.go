// Package docsync keeps an external vector index in step with a document's
// current chunk set, using two content-addressed fast paths so an unchanged
// document costs nothing to "sync" and an edit that only adds chunks embeds
// just the new ones. An edit that removes any chunk re-embeds the whole
// document.
package docsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/novaquill/docmind/internal/analysis/apierr"
	"github.com/novaquill/docmind/internal/analysis/chunker"
	"github.com/novaquill/docmind/internal/analysis/hierarchy"
	"github.com/novaquill/docmind/internal/capability/embedding"
	"github.com/novaquill/docmind/internal/capability/vectorstore"
	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/domain/docmodel"
	"github.com/novaquill/docmind/internal/metrics"
	"github.com/novaquill/docmind/pkg/logger_i"
)

// Manager is the DocSyncManager: it tracks exactly one document's sync
// state against an external vector index and owns the only mutex in the
// system that mutates it, guarding each whole sync (diff, embed,
// reset/upsert, bookkeeping) so two concurrent requests never race each
// other into a torn index. QueryWithSync's search runs after that lock is
// released.
type Manager struct {
	embedder embedding.Embedder
	store    vectorstore.VectorStore

	mu          sync.Mutex
	docHash     string
	chunkHashes map[string]struct{}

	hierMu        sync.RWMutex
	lastHierarchy *docmodel.HierarchyMap

	logger *logger_i.Logger
}

// NewManager constructs a DocSyncManager over the given capabilities.
func NewManager(embedder embedding.Embedder, store vectorstore.VectorStore) *Manager {
	return &Manager{
		embedder:    embedder,
		store:       store,
		chunkHashes: make(map[string]struct{}),
		logger:      logger_i.NewLogger("docsync"),
	}
}

func (m *Manager) collection() string {
	return config.EmbeddingCollectionName
}

// hierarchyEmbedder narrows the broader embedding.Embedder capability down
// to the single-method shape internal/analysis/hierarchy depends on, so
// that package stays independent of the capability package.
type hierarchyEmbedder struct {
	embedding.Embedder
}

func (h hierarchyEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	isLarge := len(texts) >= config.LargeBatchThreshold
	return h.Embedder.EmbedBatch(ctx, texts, isLarge)
}

// SyncIfNeeded brings the tracked document's collection up to date with
// text and reports whether any work was actually done. Like Reset, it
// mutates shared sync state only under mu, held for the whole operation:
// diff, embed, and upsert/reset all happen atomically with respect to other
// callers.
func (m *Manager) SyncIfNeeded(ctx context.Context, text string, opts docmodel.ChunkOptions) (bool, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("doc_sync", time.Since(start)) }()

	m.mu.Lock()
	defer m.mu.Unlock()

	docHash := chunker.HashDocument(text)
	if m.docHash != "" && m.docHash == docHash {
		metrics.RecordDocSyncOutcome("unchanged")
		return false, nil
	}

	hm, err := hierarchy.ExtractHierarchy(ctx, text, hierarchyEmbedder{m.embedder}, docmodel.DefaultHierarchyOptions())
	if err != nil {
		metrics.RecordDocSyncOutcome("error")
		return false, &apierr.EmbedderError{Op: "extract hierarchy", Cause: err}
	}
	chunks := chunker.ChunkWithHierarchy(text, hm, opts)

	collection := m.collection()
	if err := m.store.EnsureCollection(ctx, collection, m.embedder.Dimensions()); err != nil {
		metrics.RecordDocSyncOutcome("error")
		return false, &apierr.VectorStoreError{Op: "ensure collection", Cause: err}
	}

	newHashes := make(map[string]struct{}, len(chunks))
	for _, c := range chunks {
		newHashes[c.Hash] = struct{}{}
	}

	var toDelete []string
	for h := range m.chunkHashes {
		if _, still := newHashes[h]; !still {
			toDelete = append(toDelete, h)
		}
	}

	// A document with any deleted chunk gets a full resync: qdrant point IDs
	// are derived from chunk hashes, so a deletion is otherwise safe to
	// handle incrementally, but re-embedding everything keeps this manager's
	// only failure mode (a hash collision it silently trusts) rare in
	// practice by refusing to depend on positional continuity across edits.
	if len(toDelete) > 0 {
		if err := m.store.Reset(ctx, collection); err != nil {
			metrics.RecordDocSyncOutcome("error")
			return false, &apierr.VectorStoreError{Op: "reset collection", Cause: err}
		}
		if err := m.embedAndUpsert(ctx, collection, chunks); err != nil {
			metrics.RecordDocSyncOutcome("error")
			return false, err
		}
		m.commit(docHash, newHashes, hm)
		metrics.RecordDocSyncOutcome("full_resync")
		return true, nil
	}

	var toAdd []docmodel.Chunk
	for _, c := range chunks {
		if _, existed := m.chunkHashes[c.Hash]; !existed {
			toAdd = append(toAdd, c)
		}
	}

	if len(toAdd) > 0 {
		if err := m.embedAndUpsert(ctx, collection, toAdd); err != nil {
			metrics.RecordDocSyncOutcome("error")
			return false, err
		}
	}

	m.commit(docHash, newHashes, hm)
	metrics.RecordDocSyncOutcome("incremental")
	return true, nil
}

// commit records the outcome of a sync pass: the new fast-path hashes and
// the hierarchy to attach to the next QueryWithSync response.
func (m *Manager) commit(docHash string, hashes map[string]struct{}, hm *docmodel.HierarchyMap) {
	m.docHash = docHash
	m.chunkHashes = hashes

	m.hierMu.Lock()
	m.lastHierarchy = hm
	m.hierMu.Unlock()
}

func (m *Manager) embedAndUpsert(ctx context.Context, collection string, chunks []docmodel.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	isLarge := len(texts) >= config.LargeBatchThreshold
	vectors, err := m.embedder.EmbedBatch(ctx, texts, isLarge)
	if err != nil {
		return &apierr.EmbedderError{Op: "embed batch", Cause: err}
	}
	if len(vectors) != len(chunks) {
		return &apierr.EmbedderError{Op: "embed batch", Cause: fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks))}
	}

	records := make([]docmodel.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = docmodel.ChunkRecord{
			Text:          c.Text,
			ChunkHash:     c.Hash,
			ChunkIndex:    c.Index,
			Start:         c.Start,
			End:           c.End,
			SectionTitle:  c.SectionTitle,
			SectionPath:   c.SectionPath,
			ContextPrefix: c.ContextPrefix,
			Vector:        vectors[i],
		}
	}

	if err := m.store.Upsert(ctx, collection, records); err != nil {
		return &apierr.VectorStoreError{Op: "upsert", Cause: err}
	}
	return nil
}

// QueryWithSync syncs the tracked document (if needed) and then runs a
// similarity search against its up-to-date collection, attaching the
// hierarchy cached by that sync.
func (m *Manager) QueryWithSync(ctx context.Context, text, question string, opts docmodel.ChunkOptions, topK int) (docmodel.QueryResult, error) {
	if _, err := m.SyncIfNeeded(ctx, text, opts); err != nil {
		return docmodel.QueryResult{}, err
	}

	queryVector, err := m.embedder.Embed(ctx, question)
	if err != nil {
		return docmodel.QueryResult{}, &apierr.EmbedderError{Op: "embed query", Cause: err}
	}

	if topK <= 0 {
		topK = config.VectorSearchTopK
	}

	results, err := m.store.VectorSearch(ctx, m.collection(), queryVector, topK)
	if err != nil {
		return docmodel.QueryResult{}, &apierr.VectorStoreError{Op: "vector search", Cause: err}
	}

	m.hierMu.RLock()
	hm := m.lastHierarchy
	m.hierMu.RUnlock()

	return docmodel.QueryResult{Results: results, Hierarchy: hm}, nil
}

// Reset empties the tracked document's collection (the collection itself is
// kept) and forgets all sync state,
// so the next SyncIfNeeded call starts from scratch.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docHash = ""
	m.chunkHashes = make(map[string]struct{})

	m.hierMu.Lock()
	m.lastHierarchy = nil
	m.hierMu.Unlock()

	if err := m.store.Reset(ctx, m.collection()); err != nil {
		return &apierr.VectorStoreError{Op: "reset", Cause: err}
	}
	return nil
}

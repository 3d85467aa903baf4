package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/novaquill/docmind/internal/analysis/apierr"
	"github.com/novaquill/docmind/internal/analysis/chunker"
	"github.com/novaquill/docmind/internal/analysis/hierarchy"
	"github.com/novaquill/docmind/internal/capability/embedding"
	"github.com/novaquill/docmind/internal/config"
	"github.com/novaquill/docmind/internal/docsync"
	"github.com/novaquill/docmind/internal/domain/docmodel"
	"github.com/novaquill/docmind/internal/metrics"
	"github.com/novaquill/docmind/internal/orchestrate"
	"github.com/novaquill/docmind/pkg/logger_i"
)

// Handlers holds every capability the HTTP surface needs to decode a
// request, call one core entry point, and encode the result.
type Handlers struct {
	docSync      *docsync.Manager
	orchestrator *orchestrate.Orchestrator
	embedder     embedding.Embedder
	logger       *logger_i.Logger
}

// NewHandlers wires the analysis core's capabilities into an HTTP surface.
func NewHandlers(docSync *docsync.Manager, orchestrator *orchestrate.Orchestrator, embedder embedding.Embedder) *Handlers {
	return &Handlers{
		docSync:      docSync,
		orchestrator: orchestrator,
		embedder:     embedder,
		logger:       logger_i.NewLogger("httpapi"),
	}
}

func withRequestMetrics(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		metrics.CaptureRequestMetrics(route, time.Since(start))
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func chunkOptionsOrDefault(maxChunkSize, overlap int) docmodel.ChunkOptions {
	opts := docmodel.DefaultChunkOptions()
	if maxChunkSize > 0 {
		opts.MaxChunkSize = maxChunkSize
	}
	if overlap > 0 {
		opts.Overlap = overlap
	}
	return opts
}

func hierarchyOptionsOrDefault() docmodel.HierarchyOptions {
	return docmodel.DefaultHierarchyOptions()
}

// --- /analyze/chunk ---

type chunkRequest struct {
	Text         string `json:"text"`
	MaxChunkSize int    `json:"maxChunkSize"`
	Overlap      int    `json:"overlap"`
	UseHierarchy bool   `json:"useHierarchy"`
}

func (h *Handlers) Chunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := decodeJSON(r, &req); err != nil || req.Text == "" {
		writeCapabilityError(w, &apierr.InputError{Message: "text is required", Cause: err})
		return
	}
	if len(req.Text) > config.MaxDocumentBytes {
		writeCapabilityError(w, &apierr.InputError{Message: "document exceeds the maximum size"})
		return
	}

	opts := chunkOptionsOrDefault(req.MaxChunkSize, req.Overlap)

	var hm *docmodel.HierarchyMap
	strategy := "plain"
	if req.UseHierarchy {
		var embedder hierarchy.Embedder
		if h.embedder != nil {
			embedder = hierarchyEmbedder{Embedder: h.embedder}
		}
		extracted, err := hierarchy.ExtractHierarchy(r.Context(), req.Text, embedder, hierarchyOptionsOrDefault())
		if err != nil {
			writeCapabilityError(w, &apierr.EmbedderError{Op: "extract hierarchy", Cause: err})
			return
		}
		hm = extracted
		strategy = string(hm.Strategy)
	}

	result := chunker.AnalyzeDocument(req.Text, opts, hm)
	metrics.IncrementChunksProduced(strategy, len(result.Chunks))
	writeJSON(w, http.StatusOK, result)
}

// --- /analyze/stats ---

type statsRequest struct {
	Text string `json:"text"`
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if err := decodeJSON(r, &req); err != nil || req.Text == "" {
		writeCapabilityError(w, &apierr.InputError{Message: "text is required", Cause: err})
		return
	}
	writeJSON(w, http.StatusOK, chunker.AnalyzeText(req.Text))
}

// --- /analyze/hierarchy ---

type hierarchyRequest struct {
	Text         string `json:"text"`
	UseEmbedding bool   `json:"useEmbedding"`
}

func (h *Handlers) Hierarchy(w http.ResponseWriter, r *http.Request) {
	var req hierarchyRequest
	if err := decodeJSON(r, &req); err != nil || req.Text == "" {
		writeCapabilityError(w, &apierr.InputError{Message: "text is required", Cause: err})
		return
	}

	var embedder hierarchy.Embedder
	if req.UseEmbedding && h.embedder != nil {
		embedder = hierarchyEmbedder{Embedder: h.embedder}
	}

	hm, err := hierarchy.ExtractHierarchy(r.Context(), req.Text, embedder, hierarchyOptionsOrDefault())
	if err != nil {
		writeCapabilityError(w, &apierr.EmbedderError{Op: "extract hierarchy", Cause: err})
		return
	}
	metrics.IncrementChunksProduced(string(hm.Strategy), len(hierarchy.Leaves(hm.Headings)))
	writeJSON(w, http.StatusOK, hm)
}

// --- /analyze/query ---

type queryRequest struct {
	Text         string `json:"text"`
	Question     string `json:"question"`
	MaxChunkSize int    `json:"maxChunkSize"`
	Overlap      int    `json:"overlap"`
	TopK         int    `json:"topK"`
}

func (h *Handlers) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil || req.Text == "" || req.Question == "" {
		writeCapabilityError(w, &apierr.InputError{Message: "text and question are required", Cause: err})
		return
	}

	opts := chunkOptionsOrDefault(req.MaxChunkSize, req.Overlap)
	result, err := h.docSync.QueryWithSync(r.Context(), req.Text, req.Question, opts, req.TopK)
	if err != nil {
		writeCapabilityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- /analyze/criticize, /analyze/suggest, /analyze/summarize ---

// reviewWindow and summarizeWindow are fixed, not client-controlled: the
// criticism/suggestion orchestrators read a wider window than the default
// chunker for more surrounding context per judgment, and summarize reads
// wider still since it only needs gist, not precise quotes.
func reviewWindow() docmodel.ChunkOptions {
	return docmodel.ChunkOptions{MaxChunkSize: config.ReviewWindowMaxChunkSize, Overlap: config.ReviewWindowOverlap}
}

func summarizeWindow() docmodel.ChunkOptions {
	return docmodel.ChunkOptions{MaxChunkSize: config.SummarizeWindowMaxChunkSize, Overlap: config.SummarizeWindowOverlap}
}

type reviewRequest struct {
	Text string `json:"text"`
}

func (h *Handlers) Criticize(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil || req.Text == "" {
		writeCapabilityError(w, &apierr.InputError{Message: "text is required", Cause: err})
		return
	}
	chunks := chunker.ChunkText(req.Text, reviewWindow())
	writeJSON(w, http.StatusOK, h.orchestrator.Criticize(r.Context(), chunks))
}

func (h *Handlers) Suggest(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil || req.Text == "" {
		writeCapabilityError(w, &apierr.InputError{Message: "text is required", Cause: err})
		return
	}
	chunks := chunker.ChunkText(req.Text, reviewWindow())
	writeJSON(w, http.StatusOK, h.orchestrator.SuggestChanges(r.Context(), chunks))
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (h *Handlers) Summarize(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil || req.Text == "" {
		writeCapabilityError(w, &apierr.InputError{Message: "text is required", Cause: err})
		return
	}
	chunks := chunker.ChunkText(req.Text, summarizeWindow())
	summary, err := h.orchestrator.Summarize(r.Context(), chunks)
	if err != nil {
		writeCapabilityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summarizeResponse{Summary: summary})
}

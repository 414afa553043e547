package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/harborml/ragward/internal/auth"
	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/embedding"
	"github.com/harborml/ragward/internal/httputil"
	"github.com/harborml/ragward/internal/llm"
	"github.com/harborml/ragward/internal/retrieval"
	"github.com/harborml/ragward/internal/telemetry"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Query        string   `json:"query"`
	FileID       string   `json:"file_id"`
	K            int      `json:"k"`
	EntityID     string   `json:"entity_id,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Answer      string `json:"answer"`
	Query       string `json:"query"`
	FileID      string `json:"file_id"`
	SourcesUsed int    `json:"sources_used"`
	Model       string `json:"model"`
}

// QueryRequest is the body of POST /query, retrieval without generation.
type QueryRequest struct {
	Query    string `json:"query"`
	FileID   string `json:"file_id"`
	K        int    `json:"k"`
	EntityID string `json:"entity_id,omitempty"`
}

// Handler holds dependencies for the RAG HTTP handlers.
type Handler struct {
	cfg       func() *config.Config
	embedder  embedding.Embedder
	searcher  retrieval.Searcher
	generator *llm.Generator
	metrics   *telemetry.Metrics
}

func NewHandler(cfg func() *config.Config, embedder embedding.Embedder, searcher retrieval.Searcher, generator *llm.Generator, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		cfg:       cfg,
		embedder:  embedder,
		searcher:  searcher,
		generator: generator,
		metrics:   metrics,
	}
}

// Chat handles POST /chat: embed the query, retrieve scoped chunks, check
// ownership, and generate a grounded answer.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	start := time.Now()

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		httputil.WriteBadRequest(w, reqID, "query is required")
		return
	}
	if req.FileID == "" {
		httputil.WriteBadRequest(w, reqID, "file_id is required")
		return
	}

	cfg := h.cfg()
	k := req.K
	if k <= 0 {
		k = cfg.Retrieval.DefaultK
	}

	docs, status, detail := h.retrieve(r, reqID, req.Query, req.FileID, req.EntityID, k)
	if status != 0 {
		writeRetrieveError(w, reqID, status, detail)
		h.record("/chat", status, start)
		return
	}

	opts := llm.Options{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}
	if req.Temperature != nil {
		opts.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		opts.MaxTokens = *req.MaxTokens
	}

	answer, err := h.generator.Answer(r.Context(), req.Query, docs, req.SystemPrompt, opts)
	if err != nil {
		slog.Error("chat generation failed",
			"request_id", reqID,
			"file_id", req.FileID,
			"error", err)
		httputil.WriteInternal(w, reqID, "Error generating answer: "+err.Error())
		h.record("/chat", http.StatusInternalServerError, start)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Answer:      answer,
		Query:       req.Query,
		FileID:      req.FileID,
		SourcesUsed: len(docs),
		Model:       h.generator.Client().Model(),
	})
	h.record("/chat", http.StatusOK, start)
}

// Query handles POST /query: retrieval only, returning scored chunks as
// [document, score] pairs.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	start := time.Now()

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, reqID, "Invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		httputil.WriteBadRequest(w, reqID, "query is required")
		return
	}
	if req.FileID == "" {
		httputil.WriteBadRequest(w, reqID, "file_id is required")
		return
	}

	k := req.K
	if k <= 0 {
		k = h.cfg().Retrieval.DefaultK
	}

	docs, status, detail := h.retrieve(r, reqID, req.Query, req.FileID, req.EntityID, k)
	if status != 0 {
		writeRetrieveError(w, reqID, status, detail)
		h.record("/query", status, start)
		return
	}

	writeJSON(w, http.StatusOK, docs)
	h.record("/query", http.StatusOK, start)
}

// retrieve runs the shared embed/search/authorize pipeline. A zero status
// means success; otherwise status and detail describe the HTTP error.
func (h *Handler) retrieve(r *http.Request, reqID, query, fileID, entityID string, k int) ([]retrieval.ScoredDocument, int, string) {

	vector, err := h.embedder.Embed(r.Context(), query)
	if err != nil {
		slog.Error("query embedding failed", "request_id", reqID, "error", err)
		return nil, http.StatusInternalServerError, "Error generating answer: " + err.Error()
	}

	docs, err := h.searcher.Search(r.Context(), vector, k, retrieval.SearchFilter{FileID: fileID})
	if err != nil {
		slog.Error("similarity search failed", "request_id", reqID, "file_id", fileID, "error", err)
		return nil, http.StatusInternalServerError, "Error generating answer: " + err.Error()
	}
	if len(docs) == 0 {
		return nil, http.StatusNotFound, "No relevant documents found for the query"
	}

	authenticatedID, _ := auth.IdentityFromContext(r.Context())
	ac := retrieval.NewAuthContext(entityID, authenticatedID)
	authorized, err := retrieval.Authorize(docs, ac)
	if err != nil {
		if errors.Is(err, retrieval.ErrAccessDenied) {
			slog.Warn("document access denied",
				"request_id", reqID,
				"file_id", fileID,
				"requested_identity", ac.RequestedIdentity)
			return nil, http.StatusForbidden, "You don't have access to this document"
		}
		return nil, http.StatusInternalServerError, err.Error()
	}

	return authorized, 0, ""
}

func (h *Handler) record(endpoint string, status int, start time.Time) {
	if h.metrics != nil {
		h.metrics.RecordRequest(endpoint, strconv.Itoa(status), float64(time.Since(start).Milliseconds()))
	}
}

func writeRetrieveError(w http.ResponseWriter, reqID string, status int, detail string) {
	switch status {
	case http.StatusNotFound:
		httputil.WriteNotFound(w, reqID, detail)
	case http.StatusForbidden:
		httputil.WriteForbidden(w, reqID, detail)
	default:
		httputil.WriteInternal(w, reqID, detail)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harborml/ragward/internal/auth"
	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/llm"
	"github.com/harborml/ragward/internal/retrieval"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vector, f.err
}

type fakeSearcher struct {
	docs      []retrieval.ScoredDocument
	err       error
	gotK      int
	gotFilter retrieval.SearchFilter
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, k int, filter retrieval.SearchFilter) ([]retrieval.ScoredDocument, error) {
	f.gotK = k
	f.gotFilter = filter
	return f.docs, f.err
}

type fakeLLM struct {
	answer string
	err    error
	opts   llm.Options
}

func (f *fakeLLM) Name() string  { return "fake" }
func (f *fakeLLM) Model() string { return "fake-model" }

func (f *fakeLLM) Complete(_ context.Context, _ []llm.Message, opts llm.Options) (string, error) {
	f.opts = opts
	return f.answer, f.err
}

func chunk(content, fileID, owner string, score float64) retrieval.ScoredDocument {
	md := map[string]any{"file_id": fileID}
	if owner != "" {
		md["user_id"] = owner
	}
	return retrieval.ScoredDocument{
		Document: retrieval.Document{PageContent: content, Metadata: md},
		Score:    score,
	}
}

func newTestHandler(searcher *fakeSearcher, client llm.Client) *Handler {
	cfg := config.DefaultConfig()
	return NewHandler(
		func() *config.Config { return cfg },
		&fakeEmbedder{vector: []float32{0.1, 0.2}},
		searcher,
		llm.NewGenerator(client, nil, nil),
		nil,
	)
}

func doChat(t *testing.T, h *Handler, body any, identity string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(data))
	if identity != "" {
		req = req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChat_HappyPath(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{
		chunk("public info", "doc-1", "", 0.1),
	}}
	h := newTestHandler(searcher, &fakeLLM{answer: "grounded answer"})

	rec := doChat(t, h, ChatRequest{Query: "what is this?", FileID: "doc-1"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Answer != "grounded answer" {
		t.Errorf("unexpected answer %q", resp.Answer)
	}
	if resp.SourcesUsed != 1 {
		t.Errorf("expected sources_used=1, got %d", resp.SourcesUsed)
	}
	if resp.Model != "fake-model" {
		t.Errorf("expected model name in response, got %q", resp.Model)
	}
	if resp.Query != "what is this?" || resp.FileID != "doc-1" {
		t.Errorf("response should echo query and file_id: %+v", resp)
	}
	if searcher.gotFilter.FileID != "doc-1" {
		t.Errorf("search should be scoped to the file, got %+v", searcher.gotFilter)
	}
	if searcher.gotK != 4 {
		t.Errorf("expected default k=4, got %d", searcher.gotK)
	}
}

func TestChat_ExplicitK(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{chunk("x", "doc-1", "", 0.1)}}
	h := newTestHandler(searcher, &fakeLLM{answer: "ok"})

	doChat(t, h, ChatRequest{Query: "q", FileID: "doc-1", K: 9}, "")
	if searcher.gotK != 9 {
		t.Errorf("expected k=9, got %d", searcher.gotK)
	}
}

func TestChat_ValidationErrors(t *testing.T) {
	h := newTestHandler(&fakeSearcher{}, &fakeLLM{answer: "ok"})

	if rec := doChat(t, h, ChatRequest{FileID: "doc-1"}, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing query should be 400, got %d", rec.Code)
	}
	if rec := doChat(t, h, ChatRequest{Query: "q"}, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing file_id should be 400, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body should be 400, got %d", rec.Code)
	}
}

func TestChat_NoDocumentsIs404(t *testing.T) {
	h := newTestHandler(&fakeSearcher{}, &fakeLLM{answer: "ok"})

	rec := doChat(t, h, ChatRequest{Query: "q", FileID: "missing"}, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("No relevant documents found")) {
		t.Errorf("unexpected 404 body: %s", rec.Body.String())
	}
}

func TestChat_OwnedDocumentDeniedIs403(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{
		chunk("secret", "doc-1", "owner-1", 0.1),
	}}
	h := newTestHandler(searcher, &fakeLLM{answer: "ok"})

	rec := doChat(t, h, ChatRequest{Query: "q", FileID: "doc-1"}, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous access to owned document, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("You don't have access to this document")) {
		t.Errorf("unexpected 403 body: %s", rec.Body.String())
	}
}

func TestChat_OwnerCanAccess(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{
		chunk("secret", "doc-1", "owner-1", 0.1),
	}}
	h := newTestHandler(searcher, &fakeLLM{answer: "ok"})

	rec := doChat(t, h, ChatRequest{Query: "q", FileID: "doc-1"}, "owner-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner should be allowed, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestChat_AuthenticatedRetryAfterEntityMismatch(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{
		chunk("secret", "doc-1", "owner-1", 0.1),
	}}
	h := newTestHandler(searcher, &fakeLLM{answer: "ok"})

	// entity_id points elsewhere but the caller's own identity matches.
	rec := doChat(t, h, ChatRequest{Query: "q", FileID: "doc-1", EntityID: "someone-else"}, "owner-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated owner should be allowed after retry, got %d", rec.Code)
	}
}

func TestChat_GenerationFailureIs500(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{chunk("x", "doc-1", "", 0.1)}}
	h := newTestHandler(searcher, &fakeLLM{err: errors.New("provider down")})

	rec := doChat(t, h, ChatRequest{Query: "q", FileID: "doc-1"}, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Error generating answer")) {
		t.Errorf("unexpected 500 body: %s", rec.Body.String())
	}
}

func TestChat_GenerationOverrides(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{chunk("x", "doc-1", "", 0.1)}}
	client := &fakeLLM{answer: "ok"}
	h := newTestHandler(searcher, client)

	temp := 0.1
	maxTokens := 64
	doChat(t, h, ChatRequest{Query: "q", FileID: "doc-1", Temperature: &temp, MaxTokens: &maxTokens}, "")
	if client.opts.Temperature != 0.1 || client.opts.MaxTokens != 64 {
		t.Errorf("per-request overrides not applied: %+v", client.opts)
	}

	doChat(t, h, ChatRequest{Query: "q", FileID: "doc-1"}, "")
	if client.opts.Temperature != 0.7 || client.opts.MaxTokens != 1500 {
		t.Errorf("configured defaults not applied: %+v", client.opts)
	}
}

func TestQuery_ReturnsScoredPairs(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{
		chunk("first", "doc-1", "", 0.12),
		chunk("second", "doc-1", "", 0.48),
	}}
	h := newTestHandler(searcher, &fakeLLM{answer: "unused"})

	data, _ := json.Marshal(QueryRequest{Query: "q", FileID: "doc-1"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.Query(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var pairs []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &pairs); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(pairs))
	}

	var first []json.RawMessage
	if err := json.Unmarshal(pairs[0], &first); err != nil || len(first) != 2 {
		t.Fatalf("each result should be a [document, score] pair: %s", pairs[0])
	}
	var score float64
	if err := json.Unmarshal(first[1], &score); err != nil || score != 0.12 {
		t.Errorf("unexpected score element: %s", first[1])
	}
}

func TestQuery_DeniedIs403(t *testing.T) {
	searcher := &fakeSearcher{docs: []retrieval.ScoredDocument{
		chunk("secret", "doc-1", "owner-1", 0.1),
	}}
	h := newTestHandler(searcher, &fakeLLM{answer: "unused"})

	data, _ := json.Marshal(QueryRequest{Query: "q", FileID: "doc-1"})
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.Query(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

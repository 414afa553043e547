package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/harborml/ragward/internal/retrieval"
)

func scoredDoc(content, fileID string, score float64) retrieval.ScoredDocument {
	md := map[string]any{}
	if fileID != "" {
		md["file_id"] = fileID
	}
	return retrieval.ScoredDocument{
		Document: retrieval.Document{PageContent: content, Metadata: md},
		Score:    score,
	}
}

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil); got != NoContextSentinel {
		t.Errorf("expected sentinel for no documents, got %q", got)
	}
}

func TestBuildContext_Markers(t *testing.T) {
	docs := []retrieval.ScoredDocument{
		scoredDoc("first chunk", "doc-1", 0.1234),
		scoredDoc("second chunk", "doc-2", 0.5),
	}
	got := BuildContext(docs)

	if !strings.Contains(got, "[Source 1 - doc-1 - Relevance: 0.123]\nfirst chunk") {
		t.Errorf("missing first source marker, got:\n%s", got)
	}
	if !strings.Contains(got, "[Source 2 - doc-2 - Relevance: 0.500]\nsecond chunk") {
		t.Errorf("missing second source marker, got:\n%s", got)
	}
	if !strings.Contains(got, "first chunk\n\n[Source 2") {
		t.Errorf("chunks should be blank-line separated, got:\n%s", got)
	}
}

func TestBuildContext_NoFileID(t *testing.T) {
	got := BuildContext([]retrieval.ScoredDocument{scoredDoc("chunk", "", 0.5)})
	if !strings.Contains(got, "[Source 1 - Relevance: 0.500]") {
		t.Errorf("marker should omit file id segment when absent, got %q", got)
	}
}

func TestBuildContext_CapsAtFive(t *testing.T) {
	var docs []retrieval.ScoredDocument
	for i := 0; i < 7; i++ {
		docs = append(docs, scoredDoc(fmt.Sprintf("chunk %d", i), fmt.Sprintf("doc-%d", i), 0.5))
	}
	got := BuildContext(docs)

	if !strings.Contains(got, "[Source 5") {
		t.Error("expected fifth source to be included")
	}
	if strings.Contains(got, "[Source 6") {
		t.Error("context should cap at five documents")
	}
}

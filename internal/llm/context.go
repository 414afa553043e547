package llm

import (
	"fmt"
	"strings"

	"github.com/harborml/ragward/internal/retrieval"
)

// MaxContextDocuments bounds how many retrieved chunks feed the prompt,
// regardless of how many the search returned.
const MaxContextDocuments = 5

// NoContextSentinel is the context block used when retrieval produced
// nothing usable.
const NoContextSentinel = "No relevant context found."

// BuildContext renders retrieved chunks into the context block of the user
// prompt. Each chunk is preceded by a numbered source marker carrying its
// file id and relevance score so the model can cite it.
func BuildContext(docs []retrieval.ScoredDocument) string {
	if len(docs) == 0 {
		return NoContextSentinel
	}
	if len(docs) > MaxContextDocuments {
		docs = docs[:MaxContextDocuments]
	}

	parts := make([]string, 0, len(docs))
	for i, sd := range docs {
		marker := fmt.Sprintf("[Source %d", i+1)
		if fileID, ok := sd.Document.FileID(); ok {
			marker += " - " + fileID
		}
		marker += fmt.Sprintf(" - Relevance: %.3f]", sd.Score)
		parts = append(parts, marker+"\n"+sd.Document.PageContent)
	}
	return strings.Join(parts, "\n\n")
}

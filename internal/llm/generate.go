package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborml/ragward/internal/retrieval"
	"github.com/harborml/ragward/internal/telemetry"
)

// DefaultSystemPrompt keeps answers grounded in the retrieved context.
const DefaultSystemPrompt = `You are a helpful AI assistant that answers questions based on provided context.

Your role:
1. Provide accurate, precise answers based ONLY on the given context
2. If the context doesn't contain sufficient information, clearly state that
3. Do not make up information or use knowledge outside the provided context
4. Keep answers concise and relevant to the question
5. Cite sources when possible using the [Source N] references

Remember: Be truthful, accurate, and helpful.`

// Generator turns a query plus retrieved chunks into a grounded answer via
// a provider client.
type Generator struct {
	client  Client
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

func NewGenerator(client Client, logger *slog.Logger, metrics *telemetry.Metrics) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, logger: logger, metrics: metrics}
}

// Client exposes the bound provider client, mainly so handlers can report
// which model produced an answer.
func (g *Generator) Client() Client { return g.client }

// Answer builds the RAG prompt from the documents and asks the provider for
// a completion. An empty systemPrompt falls back to the default grounding
// prompt.
func (g *Generator) Answer(ctx context.Context, query string, docs []retrieval.ScoredDocument, systemPrompt string, opts Options) (string, error) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	userMessage := fmt.Sprintf(`Context from documents:
%s

Question: %s

Please provide a precise, accurate answer based solely on the context above. If the context doesn't contain enough information to answer the question, say so.`,
		BuildContext(docs), query)

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}

	start := time.Now()
	answer, err := g.client.Complete(ctx, messages, opts)
	elapsed := time.Since(start)

	if err != nil {
		g.logger.Error("answer generation failed",
			"provider", g.client.Name(),
			"model", g.client.Model(),
			"error", err)
		return "", fmt.Errorf("generate answer: %w", err)
	}

	if g.metrics != nil {
		g.metrics.RecordGeneration(g.client.Name(), g.client.Model(), float64(elapsed.Milliseconds()))
	}
	g.logger.Info("answer generated",
		"provider", g.client.Name(),
		"model", g.client.Model(),
		"context_docs", min(len(docs), MaxContextDocuments),
		"duration_ms", elapsed.Milliseconds())

	return answer, nil
}

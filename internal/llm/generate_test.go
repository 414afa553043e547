package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harborml/ragward/internal/retrieval"
)

type fakeClient struct {
	answer   string
	err      error
	messages []Message
	opts     Options
}

func (f *fakeClient) Name() string  { return "fake" }
func (f *fakeClient) Model() string { return "fake-model" }

func (f *fakeClient) Complete(_ context.Context, messages []Message, opts Options) (string, error) {
	f.messages = messages
	f.opts = opts
	return f.answer, f.err
}

func TestGenerator_Answer(t *testing.T) {
	fake := &fakeClient{answer: "grounded answer"}
	g := NewGenerator(fake, nil, nil)

	docs := []retrieval.ScoredDocument{scoredDoc("the capital is Paris", "geo.txt", 0.12)}
	answer, err := g.Answer(context.Background(), "What is the capital?", docs, "", Options{Temperature: 0.7, MaxTokens: 1500})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer != "grounded answer" {
		t.Errorf("unexpected answer %q", answer)
	}

	if len(fake.messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(fake.messages))
	}
	if fake.messages[0].Role != "system" || fake.messages[0].Content != DefaultSystemPrompt {
		t.Error("empty system prompt should fall back to the default")
	}
	user := fake.messages[1]
	if user.Role != "user" {
		t.Errorf("second message should be the user turn, got %q", user.Role)
	}
	if !strings.Contains(user.Content, "the capital is Paris") {
		t.Error("user message should embed the retrieved context")
	}
	if !strings.Contains(user.Content, "Question: What is the capital?") {
		t.Error("user message should embed the question")
	}
	if !strings.Contains(user.Content, "based solely on the context above") {
		t.Error("user message should carry the grounding instruction")
	}
	if fake.opts.MaxTokens != 1500 || fake.opts.Temperature != 0.7 {
		t.Errorf("generation options not forwarded: %+v", fake.opts)
	}
}

func TestGenerator_CustomSystemPrompt(t *testing.T) {
	fake := &fakeClient{answer: "ok"}
	g := NewGenerator(fake, nil, nil)

	if _, err := g.Answer(context.Background(), "q", nil, "You are a pirate.", Options{}); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if fake.messages[0].Content != "You are a pirate." {
		t.Errorf("custom system prompt not used: %q", fake.messages[0].Content)
	}
}

func TestGenerator_NoDocuments(t *testing.T) {
	fake := &fakeClient{answer: "I don't know"}
	g := NewGenerator(fake, nil, nil)

	if _, err := g.Answer(context.Background(), "q", nil, "", Options{}); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(fake.messages[1].Content, NoContextSentinel) {
		t.Error("empty retrieval should surface the no-context sentinel")
	}
}

func TestGenerator_ProviderError(t *testing.T) {
	fake := &fakeClient{err: errors.New("upstream timeout")}
	g := NewGenerator(fake, nil, nil)

	if _, err := g.Answer(context.Background(), "q", nil, "", Options{}); err == nil {
		t.Error("provider failure should propagate")
	}
}

package llm

import (
	"context"
	"fmt"
)

// Provider identifies a chat-completion backend.
type Provider string

const (
	ProviderAzure   Provider = "azure"
	ProviderOpenAI  Provider = "openai"
	ProviderGoogle  Provider = "google_genai"
	ProviderVertex  Provider = "vertexai"
	ProviderOllama  Provider = "ollama"
	ProviderBedrock Provider = "bedrock"
)

// ParseProvider validates a provider name from configuration.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderAzure, ProviderOpenAI, ProviderGoogle, ProviderVertex, ProviderOllama, ProviderBedrock:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unsupported llm provider %q", s)
}

// Message is a single chat turn in the canonical role/content shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options carries generation parameters for a single completion. Backends
// that do not support a parameter ignore it.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Client generates a completion from a sequence of messages. Implementations
// are bound to a single model at construction.
type Client interface {
	Name() string
	Model() string
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

// defaultModels maps each provider to the environment variable naming its
// default model, and the literal fallback used when that variable is unset.
var defaultModels = map[Provider][2]string{
	ProviderAzure:   {"AZURE_OPENAI_DEPLOYMENT", "gpt-4o-mini"},
	ProviderOpenAI:  {"OPENAI_MODEL", "gpt-4o-mini"},
	ProviderGoogle:  {"GOOGLE_MODEL", "gemini-pro"},
	ProviderVertex:  {"VERTEXAI_MODEL", "gemini-pro"},
	ProviderOllama:  {"OLLAMA_MODEL", "llama2"},
	ProviderBedrock: {"BEDROCK_MODEL", "anthropic.claude-v2"},
}

// DefaultModel resolves the model for a provider when none is configured.
func DefaultModel(p Provider) string {
	entry, ok := defaultModels[p]
	if !ok {
		return ""
	}
	if v := os.Getenv(entry[0]); v != "" {
		return v
	}
	return entry[1]
}

// ResolveModel picks the effective model: an explicit per-request override
// wins, then the configured model, then the provider default.
func ResolveModel(p Provider, configured, override string) string {
	if override != "" {
		return override
	}
	if configured != "" {
		return configured
	}
	return DefaultModel(p)
}

// Resolve constructs a client for the provider bound to the given model.
// Missing credentials fail here rather than on first use.
func Resolve(ctx context.Context, p Provider, model string, httpClient *http.Client) (Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	switch p {
	case ProviderAzure:
		apiKey := os.Getenv("RAG_AZURE_OPENAI_API_KEY")
		endpoint := os.Getenv("RAG_AZURE_OPENAI_ENDPOINT")
		if apiKey == "" || endpoint == "" {
			return nil, fmt.Errorf("azure provider requires RAG_AZURE_OPENAI_API_KEY and RAG_AZURE_OPENAI_ENDPOINT")
		}
		apiVersion := envOr("RAG_AZURE_OPENAI_API_VERSION", "2024-12-01-preview")
		return NewAzureClient(endpoint, apiKey, apiVersion, model, httpClient), nil

	case ProviderOpenAI:
		apiKey := os.Getenv("RAG_OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires RAG_OPENAI_API_KEY")
		}
		baseURL := envOr("RAG_OPENAI_BASEURL", "https://api.openai.com/v1")
		return NewOpenAIClient(baseURL, apiKey, model, httpClient), nil

	case ProviderGoogle:
		apiKey := os.Getenv("RAG_GOOGLE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("google_genai provider requires RAG_GOOGLE_API_KEY")
		}
		return NewGoogleClient(apiKey, model, httpClient), nil

	case ProviderVertex:
		project := os.Getenv("VERTEXAI_PROJECT")
		token := os.Getenv("VERTEXAI_ACCESS_TOKEN")
		if project == "" || token == "" {
			return nil, fmt.Errorf("vertexai provider requires VERTEXAI_PROJECT and VERTEXAI_ACCESS_TOKEN")
		}
		location := envOr("VERTEXAI_LOCATION", "us-central1")
		return NewVertexClient(project, location, token, model, httpClient), nil

	case ProviderOllama:
		baseURL := envOr("OLLAMA_BASE_URL", "http://ollama:11434")
		return NewOllamaClient(baseURL, model, httpClient), nil

	case ProviderBedrock:
		return NewBedrockClient(ctx, BedrockOptions{
			Region:          envOr("AWS_DEFAULT_REGION", "us-east-1"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			ModelID:         model,
		})
	}
	return nil, fmt.Errorf("unsupported llm provider %q", p)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

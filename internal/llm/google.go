package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// GoogleClient calls the Gemini generateContent API. It serves both the
// public Generative Language endpoint (API key in the query string) and
// Vertex AI (bearer token), which accept the same payload.
type GoogleClient struct {
	name        string
	endpoint    string
	model       string
	bearerToken string
	client      *http.Client
}

// NewGoogleClient binds to the Generative Language API with an API key.
func NewGoogleClient(apiKey, model string, client *http.Client) *GoogleClient {
	return &GoogleClient{
		name: string(ProviderGoogle),
		endpoint: fmt.Sprintf(
			"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
			url.PathEscape(model), url.QueryEscape(apiKey)),
		model:  model,
		client: client,
	}
}

// NewVertexClient binds to a Vertex AI project endpoint with an OAuth
// access token.
func NewVertexClient(project, location, token, model string, client *http.Client) *GoogleClient {
	return &GoogleClient{
		name: string(ProviderVertex),
		endpoint: fmt.Sprintf(
			"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
			location, url.PathEscape(project), url.PathEscape(location), url.PathEscape(model)),
		model:       model,
		bearerToken: token,
		client:      client,
	}
}

func (c *GoogleClient) Name() string { return c.name }

func (c *GoogleClient) Model() string { return c.model }

func (c *GoogleClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	body := geminiRequest{
		GenerationConfig: geminiGenerationConfig{Temperature: opts.Temperature},
	}
	if opts.MaxTokens > 0 {
		body.GenerationConfig.MaxOutputTokens = opts.MaxTokens
	}

	// Gemini takes the system prompt out of band and maps assistant turns
	// to the "model" role.
	var systemParts []string
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			systemParts = append(systemParts, msg.Content)
		case "assistant":
			body.Contents = append(body.Contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		default:
			body.Contents = append(body.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}
	if len(systemParts) > 0 {
		body.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: strings.Join(systemParts, "\n")}},
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", c.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d: %s", c.name, resp.StatusCode, string(raw))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal %s response: %w", c.name, err)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("%s response contained no candidates", c.name)
	}

	var b strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"system_instruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

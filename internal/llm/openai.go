package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// OpenAIClient talks to the OpenAI chat completions API or any
// OpenAI-compatible endpoint. The Azure variant differs only in URL layout
// and auth header, so both share this type.
type OpenAIClient struct {
	name    string
	baseURL string
	model   string
	header  string
	apiKey  string
	client  *http.Client
}

// NewOpenAIClient binds to {baseURL}/chat/completions with bearer auth.
func NewOpenAIClient(baseURL, apiKey, model string, client *http.Client) *OpenAIClient {
	return &OpenAIClient{
		name:    string(ProviderOpenAI),
		baseURL: baseURL + "/chat/completions",
		model:   model,
		header:  "Authorization",
		apiKey:  "Bearer " + apiKey,
		client:  client,
	}
}

// NewAzureClient binds to an Azure OpenAI deployment. Azure routes by
// deployment name in the path and authenticates with an api-key header.
func NewAzureClient(endpoint, apiKey, apiVersion, deployment string, client *http.Client) *OpenAIClient {
	return &OpenAIClient{
		name: string(ProviderAzure),
		baseURL: fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			endpoint, url.PathEscape(deployment), url.QueryEscape(apiVersion)),
		model:  deployment,
		header: "api-key",
		apiKey: apiKey,
		client: client,
	}
}

func (c *OpenAIClient) Name() string { return c.name }

func (c *OpenAIClient) Model() string { return c.model }

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	body := chatRequestBody{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		body.MaxTokens = &opts.MaxTokens
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal %s request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(c.header, c.apiKey)

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

	var parsed chatResponseBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal %s response: %w", c.name, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s response contained no choices", c.name)
	}
	return parsed.Choices[0].Message.Content, nil
}

type chatRequestBody struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
}

type chatResponseBody struct {
	Model   string `json:"model"`
	Choices []struct {
		Index        int     `json:"index"`
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

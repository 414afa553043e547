package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const anthropicVersion = "bedrock-2023-05-31"

// bedrockDefaultMaxTokens applies when no limit is configured. The Anthropic
// payload requires max_tokens to be set.
const bedrockDefaultMaxTokens = 1024

// BedrockOptions controls how the Bedrock client is initialised. Static
// credentials are optional; without them the SDK's default chain applies.
type BedrockOptions struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	ModelID         string
}

// BedrockClient invokes Anthropic-format models on Amazon Bedrock.
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
}

func NewBedrockClient(ctx context.Context, opts BedrockOptions) (*BedrockClient, error) {
	if opts.Region == "" {
		return nil, fmt.Errorf("bedrock region required")
	}
	if opts.ModelID == "" {
		return nil, fmt.Errorf("bedrock model id required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		static := credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken)
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(static))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &BedrockClient{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: opts.ModelID,
	}, nil
}

func (c *BedrockClient) Name() string { return string(ProviderBedrock) }

func (c *BedrockClient) Model() string { return c.modelID }

func (c *BedrockClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("at least one message is required")
	}

	var systemParts []string
	body := bedrockAnthropicRequest{AnthropicVersion: anthropicVersion}
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			systemParts = append(systemParts, msg.Content)
		case "assistant":
			body.Messages = append(body.Messages, bedrockAnthropicMessage{
				Role:    "assistant",
				Content: []bedrockAnthropicContent{{Type: "text", Text: msg.Content}},
			})
		default:
			body.Messages = append(body.Messages, bedrockAnthropicMessage{
				Role:    "user",
				Content: []bedrockAnthropicContent{{Type: "text", Text: msg.Content}},
			})
		}
	}
	if len(systemParts) > 0 {
		body.System = strings.Join(systemParts, "\n")
	}

	body.MaxTokens = opts.MaxTokens
	if body.MaxTokens <= 0 {
		body.MaxTokens = bedrockDefaultMaxTokens
	}
	body.Temperature = opts.Temperature

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal bedrock request: %w", err)
	}

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        raw,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke: %w", err)
	}

	var parsed bedrockAnthropicResponse
	if err := json.Unmarshal(out.Body, &parsed); err != nil {
		return "", fmt.Errorf("decode bedrock response: %w", err)
	}

	var b strings.Builder
	for _, part := range parsed.Content {
		if part.Type == "text" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}

type bedrockAnthropicRequest struct {
	AnthropicVersion string                    `json:"anthropic_version"`
	System           string                    `json:"system,omitempty"`
	Messages         []bedrockAnthropicMessage `json:"messages"`
	MaxTokens        int                       `json:"max_tokens"`
	Temperature      float64                   `json:"temperature,omitempty"`
}

type bedrockAnthropicMessage struct {
	Role    string                    `json:"role"`
	Content []bedrockAnthropicContent `json:"content"`
}

type bedrockAnthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockAnthropicResponse struct {
	ID         string                    `json:"id"`
	Content    []bedrockAnthropicContent `json:"content"`
	StopReason string                    `json:"stop_reason"`
}

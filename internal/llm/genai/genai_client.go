// Package genai calls Gemini through the google/generative-ai-go SDK.
package genai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"ledgerlens/internal/config"
	"ledgerlens/internal/llm"
	"ledgerlens/internal/port"
)

const providerName = "genai"

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.ParserProviderConfig) (port.ModelClient, error) {
		return NewClient(context.Background(), cfg)
	})
}

// Client implements port.ModelClient on top of the Gemini SDK.
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient creates an SDK-backed client. Close releases the underlying connection.
func NewClient(ctx context.Context, cfg *config.ParserProviderConfig, opts ...option.ClientOption) (*Client, error) {
	modelName := cfg.DefaultModel
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	c, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: c, modelName: modelName}, nil
}

// Close releases the SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: ptr(int32(8192)),
	}
	if input.JSONMode {
		model.ResponseMIMEType = "application/json"
	}

	parts, err := buildParts(input)
	if err != nil {
		return nil, err
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, ClassifyError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return nil, fmt.Errorf("output truncated (finish_reason: max_tokens): response exceeded output token limit")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return &port.GenerateOutput{Text: sb.String(), Model: c.modelName}, nil
}

func buildParts(input port.GenerateInput) ([]genai.Part, error) {
	parts := []genai.Part{genai.Text(input.Prompt)}
	if len(input.Attachment) == 0 {
		return parts, nil
	}
	switch input.MimeType {
	case "application/pdf", "image/jpeg", "image/png":
		parts = append(parts, genai.Blob{MIMEType: input.MimeType, Data: input.Attachment})
		return parts, nil
	default:
		return nil, fmt.Errorf("unsupported attachment type: %s", input.MimeType)
	}
}

// ClassifyError maps SDK errors onto the provider error types used by the fallback chain.
func ClassifyError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		statusErr := llm.NewStatusError(providerName, apiErr.Code, []byte(apiErr.Message))
		if apiErr.Code == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(apiErr.Header.Get("Retry-After"))
			return llm.NewRateLimitError(providerName, statusErr, retryAfter)
		}
		return statusErr
	}
	return fmt.Errorf("calling gemini SDK: %w", err)
}

func ptr[T any](v T) *T {
	return &v
}

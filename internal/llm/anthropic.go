package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicConfig configures an Anthropic adapter. The zero value is usable.
type AnthropicConfig struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// AnthropicProvider calls the Anthropic Messages API through the official
// SDK. A fresh client is built per call so the credential stays scoped to
// one request; the SDK client is a cheap value and holds no connections of
// its own.
type AnthropicProvider struct {
	baseURL string
}

var _ Provider = (*AnthropicProvider)(nil)

// NewAnthropicProvider creates an Anthropic adapter.
func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	return &AnthropicProvider{baseURL: cfg.BaseURL}
}

// Name returns the provider family identifier.
func (p *AnthropicProvider) Name() string { return FamilyAnthropic }

// Complete sends a message request carrying the per-call credential.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(req.Credential),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	client := anthropic.NewClient(opts...)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: completion failed: %w", err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(variant.Text)
		}
	}
	return &Response{Content: content.String()}, nil
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiTimeout = 60 * time.Second
)

// GeminiConfig configures a Gemini adapter. The zero value is usable.
type GeminiConfig struct {
	// BaseURL overrides the Generative Language API endpoint, mainly for
	// tests.
	BaseURL string
	Timeout time.Duration
}

// GeminiProvider calls the Google Generative Language API over HTTP.
type GeminiProvider struct {
	baseURL    string
	httpClient *http.Client
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini adapter.
func NewGeminiProvider(cfg GeminiConfig) *GeminiProvider {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGeminiTimeout
	}
	return &GeminiProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider family identifier.
func (p *GeminiProvider) Name() string { return FamilyGemini }

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Complete sends a generateContent request carrying the per-call credential.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, req.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", req.Credential)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return nil, errors.New("gemini: no candidates in response")
	}

	var content strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}
	return &Response{Content: content.String()}, nil
}

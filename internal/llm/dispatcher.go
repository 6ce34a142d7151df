package llm

import (
	"context"
	"log/slog"
	"strings"

	"juniordebug/internal/analysis"
	"juniordebug/pkg/models"
	"juniordebug/pkg/utils"
)

const (
	// autoThreshold is the prompt length above which the automatic selector
	// picks the higher-capability variant. Prompts of exactly this length
	// still take the faster variant.
	autoThreshold = 2000

	autoModelLong  = "gemini-pro-latest"
	autoModelShort = "gemini-flash-latest"

	// Generation parameters are fixed: low temperature for consistent code
	// output, bounded response length.
	requestTemperature = 0.1
	requestMaxTokens   = 2000

	// placeholderPrefix marks credentials copied straight out of a sample
	// .env file ("your_gemini_key_here" and friends).
	placeholderPrefix = "your_"
)

// Dispatcher routes a rendered prompt to the adapter serving the requested
// model and turns the outcome into an AnalysisResult or a classified
// failure. It performs exactly one provider call per invocation and never
// retries.
type Dispatcher struct {
	registry *Registry

	// defaults resolves the backend-default credential for a family when a
	// request carries no per-user key. May be nil.
	defaults func(family string) string
}

// NewDispatcher creates a dispatcher over the given registry. defaults may
// be nil when no backend credentials are configured.
func NewDispatcher(registry *Registry, defaults func(family string) string) *Dispatcher {
	return &Dispatcher{registry: registry, defaults: defaults}
}

// SelectModel resolves the automatic selector deterministically from prompt
// length alone: longer prompts go to the higher-capability variant, shorter
// ones to the faster variant. This is a single branch, not a scored
// heuristic.
func SelectModel(prompt string) string {
	if len(prompt) > autoThreshold {
		return autoModelLong
	}
	return autoModelShort
}

// Analyze sends the prompt to the provider serving model and normalizes the
// reply. credential is the caller-supplied key; when empty, the backend
// default for the model's family is used.
//
// For the Gemini family an absent or placeholder credential short-circuits
// into a clearly labeled mock result so local development never needs a
// live key. Other families fail with ErrNoCredential when no key is
// available.
func (d *Dispatcher) Analyze(ctx context.Context, prompt, model, credential string) (*models.AnalysisResult, error) {
	if model == "" || model == models.ModelAuto {
		model = SelectModel(prompt)
	}

	provider, err := d.registry.ForModel(model)
	if err != nil {
		return nil, err
	}
	family := Family(model)

	key := credential
	if key == "" && d.defaults != nil {
		key = d.defaults(family)
	}

	if strings.HasPrefix(key, placeholderPrefix) || (key == "" && family == FamilyGemini) {
		slog.Debug("returning mock analysis, no usable credential", "model", model)
		return mockResult(prompt), nil
	}
	if key == "" {
		return nil, ErrNoCredential
	}

	slog.Debug("dispatching analysis",
		"model", model, "family", family, "key", utils.MaskKey(key))

	resp, err := provider.Complete(ctx, Request{
		Prompt:      prompt,
		Model:       model,
		Credential:  key,
		Temperature: requestTemperature,
		MaxTokens:   requestMaxTokens,
	})
	if err != nil {
		return nil, ClassifyProviderError(family, err)
	}

	return analysis.ParseReply(resp.Content), nil
}

// mockResult synthesizes a labeled development response embedding the
// fenced code block from the prompt.
func mockResult(prompt string) *models.AnalysisResult {
	code := "// Mock response"
	if parts := strings.Split(prompt, "```"); len(parts) >= 2 {
		code = "// Mock response: no provider API key configured\n" + strings.TrimSpace(parts[1])
	}

	return &models.AnalysisResult{
		Code: code,
		Explanations: []models.Explanation{
			{
				Title:       "Mock Response",
				Description: "This is a mock response because no valid provider API key is configured. Set GEMINI_API_KEY in your .env file or store a personal key.",
			},
		},
	}
}

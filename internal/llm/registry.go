package llm

import (
	"fmt"
	"strings"
)

// Provider family identifiers. A family is selected from the model id
// prefix; which families exist is decided at build time by which adapters
// get registered, not by runtime presence checks.
const (
	FamilyGemini    = "gemini"
	FamilyOpenAI    = "openai"
	FamilyAnthropic = "anthropic"
)

// Family maps a model id to its provider family by prefix, or "" when the
// model belongs to no known family.
func Family(model string) string {
	switch {
	case strings.HasPrefix(model, "gemini-"):
		return FamilyGemini
	case strings.HasPrefix(model, "gpt-"):
		return FamilyOpenAI
	case strings.HasPrefix(model, "claude-"):
		return FamilyAnthropic
	}
	return ""
}

// Registry holds the provider adapters compiled into this build, keyed by
// family. It is populated during startup and read-only afterwards.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds (or replaces) the adapter serving a family.
func (r *Registry) Register(family string, p Provider) {
	r.providers[family] = p
}

// ForModel resolves the adapter for a model id.
func (r *Registry) ForModel(model string) (Provider, error) {
	family := Family(model)
	if family == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}
	p, ok := r.providers[family]
	if !ok {
		return nil, fmt.Errorf("%w: no %s adapter registered", ErrUnsupportedModel, family)
	}
	return p, nil
}

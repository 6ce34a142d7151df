package llm

import "context"

// Request is the immutable per-call context handed to a provider adapter.
// The credential travels with the request instead of living on a shared
// client, so concurrent calls with different user keys never race.
type Request struct {
	// Prompt is the full instruction text to send.
	Prompt string

	// Model is the concrete model id (never the automatic selector).
	Model string

	// Credential is the API key authorizing this single call.
	Credential string

	// Temperature controls randomness. The dispatcher pins it low for
	// consistent code output.
	Temperature float64

	// MaxTokens caps the response length.
	MaxTokens int
}

// Response holds the raw text returned by a provider.
type Response struct {
	Content string
}

// Provider abstracts one text-completion provider family behind a single
// blocking call. Implementations must respect context cancellation and
// deadlines; the relay never retries inside an adapter.
type Provider interface {
	// Name returns the provider family identifier (e.g. "gemini", "openai").
	Name() string

	// Complete sends a prompt to the provider and returns the raw reply.
	Complete(ctx context.Context, req Request) (*Response, error)
}

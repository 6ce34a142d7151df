package llm

import (
	"context"
	"sync"
)

// MockResponse defines a canned response for the mock provider.
type MockResponse struct {
	Content string
	Err     error
}

// MockProvider is a test double that returns pre-configured responses in
// sequence. After all responses are exhausted, it keeps returning the last
// one. It records every request for later assertion.
type MockProvider struct {
	mu        sync.Mutex
	name      string
	responses []MockResponse
	calls     []Request
	idx       int
}

var _ Provider = (*MockProvider)(nil)

// NewMockProvider creates a mock that returns the given responses in order.
// If no responses are provided, Complete returns an empty Response.
func NewMockProvider(name string, responses ...MockResponse) *MockProvider {
	return &MockProvider{name: name, responses: responses}
}

// Name returns the family name the mock was created with.
func (m *MockProvider) Name() string { return m.name }

// Complete returns the next canned response and records the request. It
// respects context cancellation.
func (m *MockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)

	if len(m.responses) == 0 {
		return &Response{}, nil
	}

	r := m.responses[m.idx]
	if m.idx < len(m.responses)-1 {
		m.idx++
	}

	if r.Err != nil {
		return nil, r.Err
	}
	return &Response{Content: r.Content}, nil
}

// Calls returns a copy of all requests received by this mock.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

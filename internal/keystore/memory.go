package keystore

import (
	"context"
	"sync"
)

// Memory is an in-memory Store for tests and keyless development runs.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]string // access token -> user id
	keys   map[string]string // user id -> api key
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		tokens: make(map[string]string),
		keys:   make(map[string]string),
	}
}

// AddToken registers an access token as belonging to a user.
func (m *Memory) AddToken(accessToken, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[accessToken] = userID
}

// UserFromToken resolves a registered token.
func (m *Memory) UserFromToken(_ context.Context, accessToken string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.tokens[accessToken]
	if !ok {
		return "", ErrUnauthenticated
	}
	return userID, nil
}

// APIKeyForUser returns a stored key.
func (m *Memory) APIKeyForUser(_ context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key, ok := m.keys[userID]
	if !ok || key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

// SaveAPIKey stores or replaces a key.
func (m *Memory) SaveAPIKey(_ context.Context, userID, apiKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[userID] = apiKey
	return nil
}

// DeleteAPIKey removes a stored key.
func (m *Memory) DeleteAPIKey(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, userID)
	return nil
}

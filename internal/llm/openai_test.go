package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIComplete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "the prompt", req.Messages[0].Content)
		assert.Equal(t, 2000, req.MaxTokens)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"code": "ok", "explanations": []}`}},
			},
		})
	}))
	defer ts.Close()

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: ts.URL})
	resp, err := p.Complete(context.Background(), Request{
		Prompt:      "the prompt",
		Model:       "gpt-4o",
		Credential:  "sk-test",
		Temperature: 0.1,
		MaxTokens:   2000,
	})

	require.NoError(t, err)
	assert.Equal(t, `{"code": "ok", "explanations": []}`, resp.Content)
}

func TestOpenAICompleteErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "Incorrect API key provided"}}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: ts.URL})
	_, err := p.Complete(context.Background(), Request{Model: "gpt-4o", Credential: "bad"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer ts.Close()

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: ts.URL})
	_, err := p.Complete(context.Background(), Request{Model: "gpt-4o", Credential: "k"})
	assert.Error(t, err)
}

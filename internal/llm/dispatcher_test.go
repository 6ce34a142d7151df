package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectModel(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   string
	}{
		{name: "long prompt picks pro", length: 2500, want: autoModelLong},
		{name: "short prompt picks flash", length: 500, want: autoModelShort},
		{name: "boundary picks flash", length: 2000, want: autoModelShort},
		{name: "one past boundary picks pro", length: 2001, want: autoModelLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := strings.Repeat("a", tt.length)
			assert.Equal(t, tt.want, SelectModel(prompt))
		})
	}
}

func TestFamily(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"gemini-pro-latest", FamilyGemini},
		{"gemini-flash-latest", FamilyGemini},
		{"gpt-4o", FamilyOpenAI},
		{"claude-sonnet-4-5-20250929", FamilyAnthropic},
		{"llama-3", ""},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, Family(tt.model))
		})
	}
}

func TestRegistryForModel(t *testing.T) {
	reg := NewRegistry()
	mock := NewMockProvider(FamilyGemini)
	reg.Register(FamilyGemini, mock)

	p, err := reg.ForModel("gemini-flash-latest")
	require.NoError(t, err)
	assert.Same(t, Provider(mock), p)

	_, err = reg.ForModel("llama-3")
	assert.ErrorIs(t, err, ErrUnsupportedModel)

	_, err = reg.ForModel("gpt-4o")
	assert.ErrorIs(t, err, ErrUnsupportedModel, "family without a registered adapter")
}

func TestAnalyzeNormalizesReply(t *testing.T) {
	mock := NewMockProvider(FamilyGemini, MockResponse{
		Content: `Sure! {"code": "fixed", "explanations": [{"title": "t", "description": "d"}]}`,
	})
	reg := NewRegistry()
	reg.Register(FamilyGemini, mock)
	d := NewDispatcher(reg, nil)

	result, err := d.Analyze(context.Background(), "prompt", "gemini-pro-latest", "AIzaRealLookingKey")
	require.NoError(t, err)
	assert.Equal(t, "fixed", result.Code)
	require.Len(t, result.Explanations, 1)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gemini-pro-latest", calls[0].Model)
	assert.Equal(t, "AIzaRealLookingKey", calls[0].Credential)
	assert.Equal(t, requestTemperature, calls[0].Temperature)
	assert.Equal(t, requestMaxTokens, calls[0].MaxTokens)
}

func TestAnalyzeAutoSelector(t *testing.T) {
	mock := NewMockProvider(FamilyGemini, MockResponse{Content: `{"code": "x", "explanations": []}`})
	reg := NewRegistry()
	reg.Register(FamilyGemini, mock)
	d := NewDispatcher(reg, nil)

	longPrompt := strings.Repeat("p", 2500)
	_, err := d.Analyze(context.Background(), longPrompt, "auto", "AIzaKey12345")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, autoModelLong, calls[0].Model)
}

func TestAnalyzeFallsBackToDefaultCredential(t *testing.T) {
	mock := NewMockProvider(FamilyOpenAI, MockResponse{Content: `{"code": "x", "explanations": []}`})
	reg := NewRegistry()
	reg.Register(FamilyOpenAI, mock)
	d := NewDispatcher(reg, func(family string) string {
		if family == FamilyOpenAI {
			return "sk-backend-default"
		}
		return ""
	})

	_, err := d.Analyze(context.Background(), "prompt", "gpt-4o", "")
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "sk-backend-default", calls[0].Credential)
}

func TestAnalyzeMissingCredential(t *testing.T) {
	reg := NewRegistry()
	reg.Register(FamilyOpenAI, NewMockProvider(FamilyOpenAI))
	d := NewDispatcher(reg, nil)

	_, err := d.Analyze(context.Background(), "prompt", "gpt-4o", "")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestAnalyzePlaceholderCredentialReturnsMock(t *testing.T) {
	mock := NewMockProvider(FamilyGemini)
	reg := NewRegistry()
	reg.Register(FamilyGemini, mock)
	d := NewDispatcher(reg, nil)

	prompt := "CODE TO ANALYZE:\n``` go\nfunc main() {}\n```\n"
	result, err := d.Analyze(context.Background(), prompt, "gemini-flash-latest", "your_gemini_key_here")
	require.NoError(t, err)

	assert.Contains(t, result.Code, "Mock response")
	assert.Contains(t, result.Code, "func main() {}", "mock should embed the original code")
	require.Len(t, result.Explanations, 1)
	assert.Equal(t, "Mock Response", result.Explanations[0].Title)
	assert.Empty(t, mock.Calls(), "no network call may happen on the mock path")
}

func TestAnalyzeAbsentGeminiCredentialReturnsMock(t *testing.T) {
	mock := NewMockProvider(FamilyGemini)
	reg := NewRegistry()
	reg.Register(FamilyGemini, mock)
	d := NewDispatcher(reg, nil)

	result, err := d.Analyze(context.Background(), "no fence here", "gemini-flash-latest", "")
	require.NoError(t, err)
	assert.Contains(t, result.Code, "Mock response")
	assert.Empty(t, mock.Calls())
}

func TestAnalyzeClassifiesProviderFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "quota", err: errors.New("429 rate limit exceeded"), want: ErrQuotaExceeded},
		{name: "credential", err: errors.New("401 Unauthorized: invalid key"), want: ErrCredentialRejected},
		{name: "other", err: errors.New("internal server error"), want: ErrProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Register(FamilyGemini, NewMockProvider(FamilyGemini, MockResponse{Err: tt.err}))
			d := NewDispatcher(reg, nil)

			_, err := d.Analyze(context.Background(), "prompt", "gemini-pro-latest", "AIzaKey12345")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnalyzeUnparseableReplyFallsBack(t *testing.T) {
	reg := NewRegistry()
	reg.Register(FamilyGemini, NewMockProvider(FamilyGemini, MockResponse{Content: "not json at all"}))
	d := NewDispatcher(reg, nil)

	result, err := d.Analyze(context.Background(), "prompt", "gemini-pro-latest", "AIzaKey12345")
	require.NoError(t, err, "normalization must never surface an error")
	assert.Contains(t, result.Code, "not json at all")
	assert.NotEmpty(t, result.Explanations)
}

func TestAnalyzeUnsupportedModel(t *testing.T) {
	d := NewDispatcher(NewRegistry(), nil)
	_, err := d.Analyze(context.Background(), "prompt", "llama-3", "key")
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

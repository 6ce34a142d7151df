package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want error
	}{
		{name: "rate limit", msg: "rate limit exceeded", want: ErrQuotaExceeded},
		{name: "quota uppercase", msg: "QUOTA exhausted for project", want: ErrQuotaExceeded},
		{name: "unauthorized invalid key", msg: "Unauthorized: invalid key", want: ErrCredentialRejected},
		{name: "leaked key", msg: "API key was reported as leaked", want: ErrCredentialRejected},
		{name: "unrelated", msg: "connection reset by peer", want: ErrProvider},
		{name: "timeout", msg: "context deadline exceeded", want: ErrProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyProviderError(FamilyGemini, errors.New(tt.msg))
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestClassifyQuotaBeforeCredential(t *testing.T) {
	// "quota invalid" carries markers from both classes; quota wins.
	got := ClassifyProviderError(FamilyOpenAI, errors.New("invalid request: quota exceeded"))
	assert.ErrorIs(t, got, ErrQuotaExceeded)
}

func TestClassifyPreservesOriginalMessage(t *testing.T) {
	got := ClassifyProviderError(FamilyGemini, errors.New("upstream exploded"))
	assert.ErrorIs(t, got, ErrProvider)
	assert.Contains(t, got.Error(), "upstream exploded")
}

package llm

import (
	"errors"
	"fmt"
	"strings"
)

// The closed failure taxonomy surfaced by the dispatcher. The transport
// layer maps these onto status codes; raw provider text never reaches a
// caller directly.
var (
	// ErrUnsupportedModel is returned for a model id outside every
	// registered family.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrNoCredential is returned when neither the caller nor the backend
	// configuration supplies a key for the requested provider family.
	ErrNoCredential = errors.New("no API key configured for provider")

	// ErrQuotaExceeded marks transient quota or rate-limit failures.
	ErrQuotaExceeded = errors.New("provider quota exceeded")

	// ErrCredentialRejected marks a key the provider refused as invalid,
	// unauthorized, or reported as leaked.
	ErrCredentialRejected = errors.New("provider API key rejected")

	// ErrProvider covers every other provider-side failure, timeouts
	// included.
	ErrProvider = errors.New("provider error")
)

// quotaMarkers and credentialMarkers are the substrings used to classify
// provider error text. Providers return heterogeneous untyped error
// payloads, so this matching is best-effort by construction; keeping the
// tables here means a provider rewording its errors touches one place only.
var (
	quotaMarkers      = []string{"quota", "rate limit"}
	credentialMarkers = []string{"leak", "leaked", "reported", "unauthorized", "invalid"}
)

// ClassifyProviderError maps an adapter's error onto the taxonomy by
// case-insensitive substring matching. Quota markers are checked before
// credential markers; anything unmatched becomes ErrProvider with the
// original message preserved.
func ClassifyProviderError(family string, err error) error {
	msg := strings.ToLower(err.Error())

	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w (%s): %v", ErrQuotaExceeded, family, err)
		}
	}
	for _, marker := range credentialMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w (%s): %v", ErrCredentialRejected, family, err)
		}
	}
	return fmt.Errorf("%w (%s): %v", ErrProvider, family, err)
}

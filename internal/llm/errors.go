package llm

import (
	"errors"

	"github.com/openai/openai-go/v3"
)

// ErrNoChoices is returned when the provider answers without any completion choice.
var ErrNoChoices = errors.New("provider returned no choices")

// ProviderError wraps a failed call to the model provider: transport errors,
// timeouts and non-success statuses alike. Its message is the upstream text.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StatusCode is the provider's HTTP status, or 0 when no response was received.
func (e *ProviderError) StatusCode() int {
	var apiErr *openai.Error
	if errors.As(e.Err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

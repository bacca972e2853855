// Package redact asks the model to replace personal details in free text with
// a fixed placeholder.
package redact

import (
	"context"

	"redact-relay/internal/llm"
)

// Placeholder marks removed content. The query service expects it to survive.
const Placeholder = "[REDACTED]"

// SystemPrompt restricts the model to substitution only.
const SystemPrompt = `You are a redactor. Your only job is to scan the provided text for personal or identifying details and replace each one with the placeholder "` + Placeholder + `". Do not perform any other task or modification.

Identification of private information:
- Detect personal details such as names, addresses, phone numbers, email addresses and similar identifiers.
- Replace each of these details with "` + Placeholder + `".

Examples:
- Input: "My name is Joseph and I live in New York City."
  Output: "My name is ` + Placeholder + ` and I live in ` + Placeholder + `."
- Input: "You can reach me at john.doe@example.com or at 123-456-7890."
  Output: "You can reach me at ` + Placeholder + ` or at ` + Placeholder + `."

Preserve the original sentence structure and punctuation.`

// Sampling parameters for redaction calls; the model name is filled in per deployment.
const (
	Temperature = 0.5
	MaxTokens   = 1024
	TopP        = 1
)

// Redactor turns raw text into redacted text. Safe for concurrent use.
type Redactor struct {
	llm   llm.Client
	model string
}

func New(client llm.Client, model string) *Redactor {
	return &Redactor{llm: client, model: model}
}

// Redact returns the model output verbatim; it is not checked for leftovers.
func (r *Redactor) Redact(ctx context.Context, text string) (string, error) {
	return r.llm.Complete(ctx, Messages(text), r.Params())
}

// Params returns the generation parameters used by Redact.
func (r *Redactor) Params() llm.Params {
	return llm.Params{
		Model:       r.model,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		TopP:        TopP,
	}
}

// Messages builds the two-message prompt around the raw user text.
func Messages(text string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: text},
	}
}

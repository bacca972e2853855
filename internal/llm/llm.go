package llm

import "context"

// Role tags a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged chat message. Built per request, never stored.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Params are the generation parameters of a single completion.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// Client is a minimal chat-completion interface to allow pluggable providers.
// Complete returns the content of the first completion choice.
type Client interface {
	Complete(ctx context.Context, messages []Message, params Params) (string, error)
}

// Verifier performs the eager credential check run once at startup.
type Verifier interface {
	Verify(ctx context.Context, model string) error
}

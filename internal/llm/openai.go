package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions API (Groq by default).
type OpenAIClient struct {
	client  *openai.Client
	timeout time.Duration
}

const verifyMaxTokens = 10

// NewOpenAIClient builds a client against baseURL. A zero timeout leaves calls
// bounded only by the caller's context. The SDK's automatic retries are disabled.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	cli := openai.NewClient(opts...)
	return &OpenAIClient{
		client:  &cli,
		timeout: timeout,
	}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("at least one message required")
	}
	msgs, err := buildMessages(messages)
	if err != nil {
		return "", err
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.Model),
		Messages:    msgs,
		Temperature: openai.Float(p.Temperature),
		MaxTokens:   openai.Int(int64(p.MaxTokens)),
		TopP:        openai.Float(p.TopP),
	})
	if err != nil {
		return "", &ProviderError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Err: ErrNoChoices}
	}
	return resp.Choices[0].Message.Content, nil
}

// Verify sends a throw-away completion so a bad credential fails at startup
// instead of on the first user request.
func (c *OpenAIClient) Verify(ctx context.Context, model string) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("nil openai client")
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			userMessage("test"),
		},
		MaxTokens: openai.Int(verifyMaxTokens),
	})
	if err != nil {
		return &ProviderError{Err: err}
	}
	return nil
}

func (c *OpenAIClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func buildMessages(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(m.Content),
					},
				},
			})
		case RoleUser:
			out = append(out, userMessage(m.Content))
		default:
			return nil, errors.New("unsupported message role: " + string(m.Role))
		}
	}
	return out, nil
}

func userMessage(content string) openai.ChatCompletionMessageParamUnion {
	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(content),
			},
		},
	}
}

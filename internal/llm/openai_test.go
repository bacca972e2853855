package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature"`
	MaxTokens   *int      `json:"max_tokens"`
	TopP        *float64  `json:"top_p"`
}

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "mixtral-8x7b-32768",
	"choices": [
		{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "My name is [REDACTED]."}},
		{"index": 1, "finish_reason": "stop", "message": {"role": "assistant", "content": "second choice"}}
	]
}`

// fakeProvider records the last chat request and answers with status/body.
func fakeProvider(t *testing.T, status int, body string) (*httptest.Server, *chatRequest, *int32) {
	t.Helper()
	var got chatRequest
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer gsk_test" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got, &calls
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", 0)
	assert.Error(t, err)
}

func TestOpenAIClientComplete(t *testing.T) {
	srv, got, calls := fakeProvider(t, http.StatusOK, completionBody)
	client, err := NewOpenAIClient("gsk_test", srv.URL+"/v1/", 0)
	require.NoError(t, err)

	messages := []Message{
		{Role: RoleSystem, Content: "You are a redactor."},
		{Role: RoleUser, Content: "My name is Joseph."},
	}
	out, err := client.Complete(context.Background(), messages, Params{
		Model:       "mixtral-8x7b-32768",
		Temperature: 0.5,
		MaxTokens:   1024,
		TopP:        1,
	})
	require.NoError(t, err)

	assert.Equal(t, "My name is [REDACTED].", out, "first choice wins")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Equal(t, "mixtral-8x7b-32768", got.Model)
	assert.Equal(t, messages, got.Messages)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.5, *got.Temperature)
	require.NotNil(t, got.MaxTokens)
	assert.Equal(t, 1024, *got.MaxTokens)
	require.NotNil(t, got.TopP)
	assert.Equal(t, 1.0, *got.TopP)
}

func TestOpenAIClientProviderFailure(t *testing.T) {
	srv, _, calls := fakeProvider(t, http.StatusInternalServerError, `{"error":{"message":"upstream exploded","type":"server_error"}}`)
	client, err := NewOpenAIClient("gsk_test", srv.URL+"/v1/", 0)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{Model: "m", MaxTokens: 1, TopP: 1})
	require.Error(t, err)

	var perr *ProviderError
	require.True(t, errors.As(err, &perr), "expected ProviderError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode())
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")
}

func TestOpenAIClientNoChoices(t *testing.T) {
	srv, _, _ := fakeProvider(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	client, err := NewOpenAIClient("gsk_test", srv.URL+"/v1/", 0)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{Model: "m"})
	assert.ErrorIs(t, err, ErrNoChoices)
	var perr *ProviderError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 0, perr.StatusCode())
}

func TestOpenAIClientRejectsBadInput(t *testing.T) {
	client, err := NewOpenAIClient("gsk_test", "http://127.0.0.1:1/v1/", 0)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), nil, Params{Model: "m"})
	assert.Error(t, err, "empty message list")

	_, err = client.Complete(context.Background(), []Message{{Role: "tool", Content: "x"}}, Params{Model: "m"})
	assert.Error(t, err, "unsupported role")
}

func TestOpenAIClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("gsk_test", srv.URL+"/v1/", 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{Model: "m"})
	var perr *ProviderError
	assert.True(t, errors.As(err, &perr), "expected ProviderError, got %v", err)
}

func TestOpenAIClientVerify(t *testing.T) {
	srv, got, _ := fakeProvider(t, http.StatusOK, completionBody)
	client, err := NewOpenAIClient("gsk_test", srv.URL+"/v1/", 0)
	require.NoError(t, err)

	require.NoError(t, client.Verify(context.Background(), "mixtral-8x7b-32768"))
	assert.Equal(t, []Message{{Role: RoleUser, Content: "test"}}, got.Messages)
	require.NotNil(t, got.MaxTokens)
	assert.Equal(t, 10, *got.MaxTokens)
	assert.Nil(t, got.Temperature)
}

func TestOpenAIClientVerifyFailure(t *testing.T) {
	srv, _, _ := fakeProvider(t, http.StatusUnauthorized, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`)
	client, err := NewOpenAIClient("gsk_test", srv.URL+"/v1/", 0)
	require.NoError(t, err)

	err = client.Verify(context.Background(), "m")
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode())
}

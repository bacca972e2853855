package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client and Verifier using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, messages []Message, params Params) (string, error) {
	args := m.Called(ctx, messages, params)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Verify(ctx context.Context, model string) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

package inference

import (
	"context"
	"sync"
)

// Mock is a mock implementation of Provider for testing.
type Mock struct {
	mu sync.Mutex

	// Configurable behavior
	ChatFunc   func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	HealthFunc func(ctx context.Context) error

	// Captured calls for assertions
	ChatRequests []*ChatRequest
	CloseCalled  bool
}

// NewMock creates a new Mock provider.
func NewMock() *Mock {
	return &Mock{}
}

// Chat implements Provider.
func (m *Mock) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	m.mu.Lock()
	m.ChatRequests = append(m.ChatRequests, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return &ChatResponse{
		Message:      NewAssistantMessage("mock response"),
		FinishReason: "stop",
	}, nil
}

// Health implements Provider.
func (m *Mock) Health(ctx context.Context) error {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close implements Provider.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// ChatCount returns the number of Chat calls received.
func (m *Mock) ChatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatRequests)
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)

package stt

import (
	"context"
	"sync"
)

// Mock is a mock implementation of Provider for testing.
type Mock struct {
	mu sync.Mutex

	// Configurable behavior
	TranscribeFunc func(ctx context.Context, audio []byte, filename string) (*Result, error)
	HealthFunc     func(ctx context.Context) error

	// Captured calls for assertions
	AudioReceived [][]byte
	Filenames     []string
}

// NewMock creates a new Mock provider.
func NewMock() *Mock {
	return &Mock{}
}

// Transcribe implements Provider.
func (m *Mock) Transcribe(ctx context.Context, audio []byte, filename string) (*Result, error) {
	m.mu.Lock()
	m.AudioReceived = append(m.AudioReceived, audio)
	m.Filenames = append(m.Filenames, filename)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, filename)
	}
	return &Result{Text: "mock transcript", AudioBytes: len(audio)}, nil
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
	return nil
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)

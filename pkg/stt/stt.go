// Package stt provides a unified interface for speech-to-text providers.
//
// The package currently ships an OpenAI Whisper backend. All providers
// implement the Provider interface, enabling seamless switching without
// changing caller code.
//
// Example usage:
//
//	provider, _ := stt.NewOpenAI(
//	    stt.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Transcribe(ctx, audioBytes, "answer.wav")
//	// result.Text contains the transcript
package stt

import (
	"context"
)

// Provider defines the speech-to-text provider interface.
type Provider interface {
	// Transcribe converts audio bytes to text. The filename hint tells the
	// API which container format the audio is in (e.g. "answer.wav").
	// Silence or unintelligible audio yields an empty transcript, not an error.
	Transcribe(ctx context.Context, audio []byte, filename string) (*Result, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Result represents a completed transcription.
type Result struct {
	// Text is the whitespace-trimmed transcript. May be empty for silence.
	Text string

	// AudioBytes is the size of the submitted audio.
	AudioBytes int

	// LatencyMs is the request round-trip time in milliseconds.
	LatencyMs int64
}

package stt

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected Bearer test-key, got %s", auth)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if model := r.FormValue("model"); model != "whisper-1" {
			t.Errorf("Expected model whisper-1, got %s", model)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "answer.wav" {
			t.Errorf("Expected filename answer.wav, got %s", header.Filename)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "fake-wav-bytes" {
			t.Errorf("unexpected audio payload: %q", data)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"text": "  TCP is connection oriented.  ",
		})
	}))
	defer server.Close()

	provider, err := NewOpenAI(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
	)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	defer provider.Close()

	result, err := provider.Transcribe(context.Background(), []byte("fake-wav-bytes"), "answer.wav")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if result.Text != "TCP is connection oriented." {
		t.Errorf("Unexpected transcript: %q", result.Text)
	}
	if result.AudioBytes != len("fake-wav-bytes") {
		t.Errorf("Unexpected audio size: %d", result.AudioBytes)
	}
}

func TestTranscribeSilenceIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": ""})
	}))
	defer server.Close()

	provider, _ := NewOpenAI(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer provider.Close()

	result, err := provider.Transcribe(context.Background(), []byte{0, 0, 0}, "silence.wav")
	if err != nil {
		t.Fatalf("silence should transcribe without error: %v", err)
	}
	if result.Text != "" {
		t.Errorf("expected empty transcript, got %q", result.Text)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	provider, _ := NewOpenAI(WithAPIKey("test-key"))
	defer provider.Close()

	_, err := provider.Transcribe(context.Background(), nil, "empty.wav")
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("expected ErrNoAudio, got %v", err)
	}
}

func TestTranscribeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"message": "Invalid file format",
			},
		})
	}))
	defer server.Close()

	provider, _ := NewOpenAI(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer provider.Close()

	_, err := provider.Transcribe(context.Background(), []byte("not-audio"), "bad.txt")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apiErr.StatusCode)
	}
}

func TestNewOpenAIRequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAI(); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

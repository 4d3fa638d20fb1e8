package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxprep/go-interview/pkg/hub"
	"github.com/voxprep/go-interview/pkg/inference"
	"github.com/voxprep/go-interview/pkg/interview"
	"github.com/voxprep/go-interview/pkg/stt"
	"github.com/voxprep/go-interview/pkg/tts"
)

func newTestServer(t *testing.T, opts interview.ServiceOptions) *Server {
	t.Helper()
	if opts.Store == nil {
		opts.Store = interview.NewMemoryStore()
	}
	svc := interview.NewService(opts)
	return NewServer(svc, hub.New("events"), 0)
}

// scriptedChat answers the first call with a fixed question list and
// later calls with evaluation feedback.
func scriptedChat(questions string, feedback string) *inference.Mock {
	chat := inference.NewMock()
	chat.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		if chat.ChatCount() == 1 {
			return &inference.ChatResponse{Message: inference.NewAssistantMessage(questions)}, nil
		}
		return &inference.ChatResponse{Message: inference.NewAssistantMessage(feedback)}, nil
	}
	return chat
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}

	var payload map[string]interface{}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if len(data) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("invalid JSON response from %s: %v\n%s", path, err, data)
		}
	}
	return resp, payload
}

func TestHealthDegraded(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{})

	resp, payload := doJSON(t, s, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["status"] != "degraded" {
		t.Errorf("status field = %v", payload["status"])
	}
	if payload["openai_configured"] != false {
		t.Errorf("openai_configured = %v", payload["openai_configured"])
	}
}

func TestHealthReady(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{Chat: inference.NewMock()})

	resp, payload := doJSON(t, s, http.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if payload["status"] != "ok" || payload["service_ready"] != true {
		t.Errorf("unexpected health payload: %v", payload)
	}
}

func TestStartInterviewEndpoint(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{
		Chat: scriptedChat("1. What is a channel?\n2. What is a select?", "good"),
	})

	resp, payload := doJSON(t, s, http.MethodPost, "/start-interview", map[string]interface{}{
		"topic":         "Go concurrency",
		"difficulty":    "medium",
		"num_questions": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, payload)
	}
	if payload["session_id"] == "" {
		t.Error("missing session_id")
	}
	if payload["greeting"] != "Hello! Welcome to your medium level mock interview for Go concurrency." {
		t.Errorf("greeting = %v", payload["greeting"])
	}
	if payload["current_question"] != "What is a channel?" {
		t.Errorf("current_question = %v", payload["current_question"])
	}
	if payload["total_questions"] != float64(2) {
		t.Errorf("total_questions = %v", payload["total_questions"])
	}
	if payload["status"] != "waiting_for_answer" {
		t.Errorf("status = %v, want waiting_for_answer", payload["status"])
	}
}

func TestStartInterviewMissingTopic(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{Chat: inference.NewMock()})

	resp, _ := doJSON(t, s, http.MethodPost, "/start-interview", map[string]interface{}{
		"topic": "   ",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStartInterviewNotReady(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{})

	resp, _ := doJSON(t, s, http.MethodPost, "/start-interview", map[string]interface{}{
		"topic": "Go",
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestStartInterviewUpstreamFailure(t *testing.T) {
	chat := inference.NewMock()
	chat.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		return nil, errors.New("boom")
	}
	s := newTestServer(t, interview.ServiceOptions{Chat: chat})

	resp, _ := doJSON(t, s, http.MethodPost, "/start-interview", map[string]interface{}{
		"topic": "Go",
	})
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", resp.StatusCode)
	}
}

func TestInterviewLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{
		Chat: scriptedChat("1. q-one\n2. q-two", "Nice work."),
	})

	_, start := doJSON(t, s, http.MethodPost, "/start-interview", map[string]interface{}{
		"topic":         "Go",
		"num_questions": 2,
	})
	id := start["session_id"].(string)

	// First answer advances to the next question.
	resp, payload := doJSON(t, s, http.MethodPost, "/submit-answer", map[string]interface{}{
		"session_id": id,
		"answer":     "first",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, payload)
	}
	if payload["completed"] != false || payload["next_question"] != "q-two" {
		t.Errorf("unexpected progression payload: %v", payload)
	}
	if payload["status"] != "waiting_for_answer" {
		t.Errorf("status = %v, want waiting_for_answer", payload["status"])
	}

	// Session lookup shows the pending question.
	_, session := doJSON(t, s, http.MethodGet, "/session/"+id, nil)
	if session["current_question"] != "q-two" || session["status"] != "active" {
		t.Errorf("unexpected session payload: %v", session)
	}

	// Final answer completes with feedback.
	_, final := doJSON(t, s, http.MethodPost, "/submit-answer", map[string]interface{}{
		"session_id": id,
		"answer":     "second",
	})
	if final["completed"] != true || final["feedback"] != "Nice work." {
		t.Errorf("unexpected completion payload: %v", final)
	}
	if final["status"] != "completed" {
		t.Errorf("status = %v, want completed", final["status"])
	}

	// A third answer is rejected.
	resp, _ = doJSON(t, s, http.MethodPost, "/submit-answer", map[string]interface{}{
		"session_id": id,
		"answer":     "late",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	// Summary counts the completed session.
	_, summary := doJSON(t, s, http.MethodGet, "/sessions", nil)
	if summary["completed_sessions"] != float64(1) || summary["total_sessions"] != float64(1) {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestSessionNotFound(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{Chat: inference.NewMock()})

	resp, _ := doJSON(t, s, http.MethodGet, "/session/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, s, http.MethodPost, "/submit-answer", map[string]interface{}{
		"session_id": "nope",
		"answer":     "hello",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestFeedbackRetryEndpoint(t *testing.T) {
	evalShouldFail := true
	chat := inference.NewMock()
	chat.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		if chat.ChatCount() == 1 {
			return &inference.ChatResponse{Message: inference.NewAssistantMessage("1. only")}, nil
		}
		if evalShouldFail {
			return nil, errors.New("rate limited")
		}
		return &inference.ChatResponse{Message: inference.NewAssistantMessage("Recovered feedback.")}, nil
	}
	s := newTestServer(t, interview.ServiceOptions{Chat: chat})

	_, start := doJSON(t, s, http.MethodPost, "/start-interview", map[string]interface{}{
		"topic":         "Go",
		"num_questions": 1,
	})
	id := start["session_id"].(string)

	// Completion succeeds with empty feedback despite the failed evaluation.
	_, final := doJSON(t, s, http.MethodPost, "/submit-answer", map[string]interface{}{
		"session_id": id,
		"answer":     "done",
	})
	if final["completed"] != true {
		t.Fatalf("expected completion, got %v", final)
	}
	if _, hasFeedback := final["feedback"]; hasFeedback {
		t.Errorf("expected omitted feedback, got %v", final["feedback"])
	}

	// Retry through the feedback route.
	evalShouldFail = false
	resp, payload := doJSON(t, s, http.MethodPost, "/session/"+id+"/feedback", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, payload)
	}
	if payload["feedback"] != "Recovered feedback." {
		t.Errorf("feedback = %v", payload["feedback"])
	}
}

func TestGenerateQuestionsEndpoint(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{
		Chat: scriptedChat("1. alpha\n2. beta\n3. gamma", ""),
	})

	resp, payload := doJSON(t, s, http.MethodPost, "/generate-questions", map[string]interface{}{
		"topic":         "databases",
		"difficulty":    "hard",
		"num_questions": 3,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, payload)
	}
	if payload["count"] != float64(3) {
		t.Errorf("count = %v", payload["count"])
	}
	questions := payload["questions"].([]interface{})
	if questions[0] != "alpha" || questions[2] != "gamma" {
		t.Errorf("questions = %v", questions)
	}
}

func TestEvaluateAnswersEndpoint(t *testing.T) {
	chat := inference.NewMock()
	chat.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		return &inference.ChatResponse{Message: inference.NewAssistantMessage("Detailed feedback.")}, nil
	}
	s := newTestServer(t, interview.ServiceOptions{Chat: chat})

	resp, payload := doJSON(t, s, http.MethodPost, "/evaluate-answers", map[string]interface{}{
		"answers": []map[string]string{
			{"question": "What is Go?", "answer": "A language."},
			{"question": "What is a map?", "answer": ""},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %v", resp.StatusCode, payload)
	}
	if payload["feedback"] != "Detailed feedback." || payload["evaluated_count"] != float64(2) {
		t.Errorf("unexpected payload: %v", payload)
	}

	prompt := chat.ChatRequests[0].Messages[1].Content
	if !strings.Contains(prompt, "Question 1: What is Go?") {
		t.Errorf("prompt missing pair: %q", prompt)
	}
}

func audioRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio_file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestTranscribeAudioEndpoint(t *testing.T) {
	speech := stt.NewMock()
	speech.TranscribeFunc = func(ctx context.Context, audio []byte, filename string) (*stt.Result, error) {
		return &stt.Result{Text: "hello world", AudioBytes: len(audio)}, nil
	}
	s := newTestServer(t, interview.ServiceOptions{
		Chat: inference.NewMock(),
		STT:  speech,
	})

	resp, err := s.App().Test(audioRequest(t, "/transcribe-audio", "clip.wav", []byte("riff")), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["transcript"] != "hello world" {
		t.Errorf("transcript = %v", payload["transcript"])
	}
	if payload["filename"] != "clip.wav" {
		t.Errorf("filename = %v", payload["filename"])
	}
	if speech.Filenames[0] != "clip.wav" {
		t.Errorf("filename hint = %q", speech.Filenames[0])
	}
}

func TestTranscribeAudioRejectsUnknownFormat(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{
		Chat: inference.NewMock(),
		STT:  stt.NewMock(),
	})

	resp, err := s.App().Test(audioRequest(t, "/transcribe-audio", "clip.ogg", []byte("oggs")), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAudioAnswerEndpoint(t *testing.T) {
	speech := stt.NewMock()
	speech.TranscribeFunc = func(ctx context.Context, audio []byte, filename string) (*stt.Result, error) {
		return &stt.Result{Text: "spoken reply"}, nil
	}
	s := newTestServer(t, interview.ServiceOptions{
		Chat: scriptedChat("1. q-one\n2. q-two", "ok"),
		STT:  speech,
	})

	_, start := doJSON(t, s, http.MethodPost, "/start-interview", map[string]interface{}{
		"topic":         "Go",
		"num_questions": 2,
	})
	id := start["session_id"].(string)

	resp, err := s.App().Test(audioRequest(t, "/audio-answer/"+id, "reply.mp3", []byte("mp3data")), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["transcript"] != "spoken reply" || payload["next_question"] != "q-two" {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestTextToSpeechEndpoint(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{
		Chat: inference.NewMock(),
		TTS:  tts.NewMock(),
	})

	data, err := json.Marshal(map[string]string{"text": "Welcome!"})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/text-to-speech", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "audio/mpeg" {
		t.Errorf("content type = %q", got)
	}
	if got := resp.Header.Get("Content-Disposition"); !strings.Contains(got, "speech.mp3") {
		t.Errorf("content disposition = %q", got)
	}
	audio, _ := io.ReadAll(resp.Body)
	if len(audio) == 0 {
		t.Error("expected audio bytes")
	}
}

func TestTextToSpeechRequiresText(t *testing.T) {
	s := newTestServer(t, interview.ServiceOptions{
		Chat: inference.NewMock(),
		TTS:  tts.NewMock(),
	})

	resp, _ := doJSON(t, s, http.MethodPost, "/text-to-speech", map[string]string{"text": "  "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// Package interview implements the mock interview engine: session state,
// question parsing, and the orchestration of the chat, speech-to-text,
// and text-to-speech collaborators.
//
// Example usage:
//
//	svc := interview.NewService(interview.ServiceOptions{
//	    Store: interview.NewMemoryStore(),
//	    Chat:  chatClient,
//	})
//
//	start, _ := svc.StartInterview(ctx, "Go concurrency", "advanced", 5)
//	result, _ := svc.SubmitAnswer(ctx, start.SessionID, "Goroutines are...")
package interview

import (
	"context"
	"log/slog"
	"strings"

	"github.com/voxprep/go-interview/internal/log"
	"github.com/voxprep/go-interview/pkg/inference"
	"github.com/voxprep/go-interview/pkg/stt"
	"github.com/voxprep/go-interview/pkg/tts"
)

// ServiceOptions configures a Service. Store and Chat are required for
// interview flows; STT and TTS are optional and gate the audio endpoints.
type ServiceOptions struct {
	// Store holds sessions. Required.
	Store Store

	// Chat generates questions and evaluations. Nil leaves the service
	// in a degraded, not-ready state.
	Chat inference.Provider

	// STT transcribes spoken answers. Optional.
	STT stt.Provider

	// TTS voices greetings and questions. Optional.
	TTS tts.Provider

	// Logger defaults to the shared component logger.
	Logger *slog.Logger

	// OnEvent receives session lifecycle events. Optional. Called
	// synchronously; implementations must not block.
	OnEvent func(Event)

	// DefaultDifficulty is used when a request omits one. Defaults to "simple".
	DefaultDifficulty string

	// DefaultQuestions is used when a request omits a count. Defaults to 2.
	DefaultQuestions int

	// MaxQuestions caps the per-session question count. Defaults to 20.
	MaxQuestions int
}

// Service orchestrates interview sessions and their AI collaborators.
// Safe for concurrent use.
type Service struct {
	store  Store
	chat   inference.Provider
	stt    stt.Provider
	tts    tts.Provider
	logger *slog.Logger

	onEvent func(Event)

	defaultDifficulty string
	defaultQuestions  int
	maxQuestions      int
}

// NewService creates a Service from options, filling defaults.
func NewService(opts ServiceOptions) *Service {
	if opts.Logger == nil {
		opts.Logger = log.Component("interview")
	}
	if opts.DefaultDifficulty == "" {
		opts.DefaultDifficulty = "simple"
	}
	if opts.DefaultQuestions <= 0 {
		opts.DefaultQuestions = 2
	}
	if opts.MaxQuestions <= 0 {
		opts.MaxQuestions = 20
	}
	return &Service{
		store:             opts.Store,
		chat:              opts.Chat,
		stt:               opts.STT,
		tts:               opts.TTS,
		logger:            opts.Logger,
		onEvent:           opts.OnEvent,
		defaultDifficulty: opts.DefaultDifficulty,
		defaultQuestions:  opts.DefaultQuestions,
		maxQuestions:      opts.MaxQuestions,
	}
}

// Ready reports whether the chat collaborator is configured. A service
// that is not ready still serves session lookups but rejects interview
// creation and evaluation.
func (s *Service) Ready() bool {
	return s.chat != nil
}

// CanTranscribe reports whether a speech-to-text collaborator is configured.
func (s *Service) CanTranscribe() bool {
	return s.stt != nil
}

// CanSynthesize reports whether a text-to-speech collaborator is configured.
func (s *Service) CanSynthesize() bool {
	return s.tts != nil
}

// Wire status labels. Responses report "waiting_for_answer" while a
// question is pending, distinct from the session lifecycle Status.
const (
	statusWaitingForAnswer = "waiting_for_answer"
	statusCompleted        = "completed"
)

// StartResult describes a freshly created session.
type StartResult struct {
	SessionID      string `json:"session_id"`
	Greeting       string `json:"greeting"`
	Question       string `json:"current_question"`
	QuestionNumber int    `json:"question_number"`
	TotalQuestions int    `json:"total_questions"`
	Status         string `json:"status"`
}

// StartInterview generates a question list for the topic, creates a
// session, and returns the greeting plus the first question. Blank
// difficulty and non-positive counts fall back to the configured
// defaults; counts above the cap are clamped.
func (s *Service) StartInterview(ctx context.Context, topic, difficulty string, numQuestions int) (*StartResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrNoTopic
	}
	if difficulty == "" {
		difficulty = s.defaultDifficulty
	}
	if numQuestions <= 0 {
		numQuestions = s.defaultQuestions
	}
	if numQuestions > s.maxQuestions {
		numQuestions = s.maxQuestions
	}

	questions, err := s.GenerateQuestions(ctx, topic, difficulty, numQuestions)
	if err != nil {
		return nil, err
	}

	session, err := NewSession(topic, difficulty, questions)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(session); err != nil {
		return nil, err
	}

	s.logger.Info("interview started",
		"session_id", session.ID(),
		"topic", topic,
		"difficulty", difficulty,
		"questions", session.TotalQuestions())

	s.emit(Event{
		Type:           EventSessionStarted,
		SessionID:      session.ID(),
		Topic:          topic,
		Difficulty:     difficulty,
		TotalQuestions: session.TotalQuestions(),
		Status:         StatusActive,
	})

	first, err := session.CurrentQuestion()
	if err != nil {
		return nil, err
	}
	return &StartResult{
		SessionID:      session.ID(),
		Greeting:       greetingFor(topic, difficulty),
		Question:       first,
		QuestionNumber: 1,
		TotalQuestions: session.TotalQuestions(),
		Status:         statusWaitingForAnswer,
	}, nil
}

// SubmitResult describes session progress after an accepted answer.
type SubmitResult struct {
	SessionID      string `json:"session_id"`
	Status         string `json:"status"`
	Completed      bool   `json:"completed"`
	NextQuestion   string `json:"next_question,omitempty"`
	NextNumber     int    `json:"next_question_number,omitempty"`
	TotalQuestions int    `json:"total_questions"`
	TotalAnswered  int    `json:"total_answered"`

	// Feedback is set only on the completing submission, and may be
	// empty there if the evaluation call failed. A later feedback
	// request retries the evaluation.
	Feedback string `json:"feedback,omitempty"`

	// Transcript echoes the recognized text for audio submissions.
	Transcript string `json:"transcript,omitempty"`
}

// SubmitAnswer records an answer against the session's current question.
// The completing submission also runs the evaluation; if that call fails
// the session stays completed with empty feedback and the evaluation can
// be retried through Feedback.
func (s *Service) SubmitAnswer(ctx context.Context, sessionID, answer string) (*SubmitResult, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := session.Submit(answer)
	if err != nil {
		return nil, err
	}

	status := statusWaitingForAnswer
	if outcome.Completed {
		status = statusCompleted
	}
	result := &SubmitResult{
		SessionID:      session.ID(),
		Status:         status,
		Completed:      outcome.Completed,
		NextQuestion:   outcome.NextQuestion,
		NextNumber:     outcome.NextNumber,
		TotalQuestions: outcome.TotalQuestions,
		TotalAnswered:  outcome.TotalAnswered,
	}

	s.emit(Event{
		Type:           EventAnswerSubmitted,
		SessionID:      session.ID(),
		QuestionNumber: outcome.TotalAnswered,
		TotalQuestions: outcome.TotalQuestions,
		Status:         session.Status(),
	})

	if !outcome.Completed {
		return result, nil
	}

	s.emit(Event{
		Type:           EventSessionCompleted,
		SessionID:      session.ID(),
		Topic:          session.Topic(),
		Difficulty:     session.Difficulty(),
		TotalQuestions: outcome.TotalQuestions,
		Status:         StatusCompleted,
	})

	// The completing submission owns the single evaluation call.
	feedback, evalErr := s.EvaluateAnswers(ctx, session.Answers())
	if evalErr != nil {
		session.FailEvaluation()
		s.logger.Warn("evaluation failed, feedback can be retried",
			"session_id", session.ID(), "error", evalErr)
		return result, nil
	}
	session.SetFeedback(feedback)
	result.Feedback = feedback

	s.logger.Info("interview completed",
		"session_id", session.ID(),
		"answers", outcome.TotalAnswered)
	return result, nil
}

// Feedback returns the evaluation for a completed session, running the
// evaluation now if an earlier attempt failed. Fails with ErrNotCompleted
// while the session is active and ErrEvaluationInFlight while another
// caller holds the evaluation.
func (s *Service) Feedback(ctx context.Context, sessionID string) (string, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return "", err
	}

	if err := session.BeginEvaluation(); err != nil {
		return "", err
	}
	if fb := session.Feedback(); fb != "" {
		return fb, nil
	}

	feedback, err := s.EvaluateAnswers(ctx, session.Answers())
	if err != nil {
		session.FailEvaluation()
		return "", err
	}
	session.SetFeedback(feedback)
	return feedback, nil
}

// GenerateQuestions asks the chat collaborator for a numbered question
// list and parses it. The count is clamped to the configured maximum.
func (s *Service) GenerateQuestions(ctx context.Context, topic, difficulty string, n int) ([]string, error) {
	if s.chat == nil {
		return nil, ErrNotReady
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrNoTopic
	}
	if n <= 0 {
		return nil, ErrInvalidQuestionCount
	}
	if difficulty == "" {
		difficulty = s.defaultDifficulty
	}
	if n > s.maxQuestions {
		n = s.maxQuestions
	}

	resp, err := s.chat.Chat(ctx, &inference.ChatRequest{
		Messages: questionListPrompt(topic, difficulty, n),
	})
	if err != nil {
		return nil, &UpstreamError{Op: "generate questions", Err: err}
	}

	questions := ParseQuestions(resp.Message.Content, n)
	s.logger.Debug("questions generated",
		"topic", topic, "requested", n, "parsed", len(questions))
	return questions, nil
}

// EvaluateAnswers runs the feedback evaluation over an ordered answer log.
func (s *Service) EvaluateAnswers(ctx context.Context, answers []Answer) (string, error) {
	if s.chat == nil {
		return "", ErrNotReady
	}
	if len(answers) == 0 {
		return "", ErrNoQuestions
	}

	resp, err := s.chat.Chat(ctx, &inference.ChatRequest{
		Messages: evaluationPrompt(answers),
	})
	if err != nil {
		return "", &UpstreamError{Op: "evaluate answers", Err: err}
	}
	return resp.Message.Content, nil
}

// SubmitAudioAnswer transcribes spoken audio and submits the transcript as
// the answer to the session's current question. Silence transcribes to an
// empty string, which Submit records as the no-answer placeholder.
func (s *Service) SubmitAudioAnswer(ctx context.Context, sessionID string, audio []byte, filename string) (*SubmitResult, error) {
	text, err := s.Transcribe(ctx, audio, filename)
	if err != nil {
		return nil, err
	}

	result, err := s.SubmitAnswer(ctx, sessionID, text)
	if err != nil {
		return nil, err
	}
	result.Transcript = text
	return result, nil
}

// Transcribe converts spoken audio to text via the STT collaborator.
func (s *Service) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if s.stt == nil {
		return "", ErrNotReady
	}

	result, err := s.stt.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", &UpstreamError{Op: "transcribe audio", Err: err}
	}
	s.logger.Debug("audio transcribed",
		"bytes", result.AudioBytes, "latency_ms", result.LatencyMs)
	return result.Text, nil
}

// Synthesize converts text to speech via the TTS collaborator.
func (s *Service) Synthesize(ctx context.Context, text string) (*tts.AudioResult, error) {
	if s.tts == nil {
		return nil, ErrNotReady
	}

	result, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, &UpstreamError{Op: "synthesize speech", Err: err}
	}
	return result, nil
}

// Session retrieves a session by id.
func (s *Service) Session(id string) (*Session, error) {
	return s.store.Get(id)
}

// Sessions lists all sessions in creation order.
func (s *Service) Sessions() []*Session {
	return s.store.List()
}

// Summary returns store-wide session counts.
func (s *Service) Summary() Summary {
	return s.store.Summary()
}

func (s *Service) emit(event Event) {
	if s.onEvent != nil {
		s.onEvent(event)
	}
}

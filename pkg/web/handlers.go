package web

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/voxprep/go-interview/pkg/interview"
)

// allowedAudioExts are the upload container formats the transcription
// endpoint accepts.
var allowedAudioExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
}

// statusFor maps service errors onto HTTP status codes: client mistakes
// are 4xx, a missing credential is 503, and collaborator failures are 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, interview.ErrNotReady):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, interview.ErrEvaluationInFlight):
		return fiber.StatusConflict
	case errors.Is(err, interview.ErrNoTopic),
		errors.Is(err, interview.ErrInvalidQuestionCount),
		errors.Is(err, interview.ErrNoQuestions),
		errors.Is(err, interview.ErrSessionCompleted),
		errors.Is(err, interview.ErrNoCurrentQuestion),
		errors.Is(err, interview.ErrNotCompleted):
		return fiber.StatusBadRequest
	case interview.IsUpstream(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func (s *Server) handleBanner(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": ServiceName,
		"message": "AI mock interview API",
	})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	ready := s.svc.Ready()
	status := "ok"
	message := "service is ready"
	if !ready {
		status = "degraded"
		message = "OPENAI_API_KEY is not configured; interview endpoints are unavailable"
	}
	return c.JSON(fiber.Map{
		"status":            status,
		"service":           ServiceName,
		"openai_configured": ready,
		"service_ready":     ready,
		"message":           message,
	})
}

// StartInterviewRequest is the body for POST /start-interview.
type StartInterviewRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

func (s *Server) handleStartInterview(c *fiber.Ctx) error {
	var req StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}

	result, err := s.svc.StartInterview(c.Context(), req.Topic, req.Difficulty, req.NumQuestions)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(result)
}

// SubmitAnswerRequest is the body for POST /submit-answer.
type SubmitAnswerRequest struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

func (s *Server) handleSubmitAnswer(c *fiber.Ctx) error {
	var req SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}

	result, err := s.svc.SubmitAnswer(c.Context(), req.SessionID, req.Answer)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(result)
}

func (s *Server) handleSession(c *fiber.Ctx) error {
	session, err := s.svc.Session(c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}

	resp := fiber.Map{
		"session_id":      session.ID(),
		"topic":           session.Topic(),
		"difficulty":      session.Difficulty(),
		"status":          session.Status(),
		"total_questions": session.TotalQuestions(),
		"total_answered":  len(session.Answers()),
		"started_at":      session.StartedAt().Format(time.RFC3339),
	}
	if q, err := session.CurrentQuestion(); err == nil {
		resp["current_question"] = q
		resp["current_question_number"] = session.Cursor() + 1
	}
	if fb := session.Feedback(); fb != "" {
		resp["feedback"] = fb
	}
	return c.JSON(resp)
}

func (s *Server) handleFeedback(c *fiber.Ctx) error {
	feedback, err := s.svc.Feedback(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"session_id": c.Params("id"),
		"feedback":   feedback,
	})
}

func (s *Server) handleSessions(c *fiber.Ctx) error {
	return c.JSON(s.svc.Summary())
}

// GenerateQuestionsRequest is the body for POST /generate-questions.
type GenerateQuestionsRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

func (s *Server) handleGenerateQuestions(c *fiber.Ctx) error {
	var req GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = 2
	}

	questions, err := s.svc.GenerateQuestions(c.Context(), req.Topic, req.Difficulty, req.NumQuestions)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"topic":      req.Topic,
		"difficulty": req.Difficulty,
		"questions":  questions,
		"count":      len(questions),
	})
}

// EvaluateAnswersRequest is the body for POST /evaluate-answers.
type EvaluateAnswersRequest struct {
	Answers []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"answers"`
}

func (s *Server) handleEvaluateAnswers(c *fiber.Ctx) error {
	var req EvaluateAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}

	answers := make([]interview.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = interview.Answer{
			Question: a.Question,
			Answer:   a.Answer,
			Number:   i + 1,
		}
	}

	feedback, err := s.svc.EvaluateAnswers(c.Context(), answers)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"feedback":        feedback,
		"evaluated_count": len(answers),
	})
}

// readAudioUpload extracts and validates the multipart audio file.
func (s *Server) readAudioUpload(c *fiber.Ctx) ([]byte, string, error) {
	header, err := c.FormFile("audio_file")
	if err != nil {
		return nil, "", errors.New("multipart field 'audio_file' is required")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAudioExts[ext] {
		return nil, "", errors.New("unsupported audio format, expected wav, mp3, m4a, or flac")
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return audio, header.Filename, nil
}

func (s *Server) handleTranscribeAudio(c *fiber.Ctx) error {
	audio, filename, err := s.readAudioUpload(c)
	if err != nil {
		return s.badRequest(c, err.Error())
	}

	text, err := s.svc.Transcribe(c.Context(), audio, filename)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"transcript": text,
		"filename":   filename,
	})
}

func (s *Server) handleAudioAnswer(c *fiber.Ctx) error {
	audio, filename, err := s.readAudioUpload(c)
	if err != nil {
		return s.badRequest(c, err.Error())
	}

	result, err := s.svc.SubmitAudioAnswer(c.Context(), c.Params("id"), audio, filename)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(result)
}

// TextToSpeechRequest is the body for POST /text-to-speech.
type TextToSpeechRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleTextToSpeech(c *fiber.Ctx) error {
	var req TextToSpeechRequest
	if err := c.BodyParser(&req); err != nil {
		return s.badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return s.badRequest(c, "text is required")
	}

	result, err := s.svc.Synthesize(c.Context(), req.Text)
	if err != nil {
		return s.fail(c, err)
	}

	c.Set(fiber.HeaderContentType, result.Format.MIMEType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="speech.mp3"`)
	return c.Send(result.Audio)
}

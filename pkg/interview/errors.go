package interview

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNoTopic is returned when an interview is requested without a topic.
	ErrNoTopic = errors.New("interview: topic required")

	// ErrInvalidQuestionCount is returned for a non-positive question count.
	ErrInvalidQuestionCount = errors.New("interview: question count must be positive")

	// ErrNoQuestions is returned when a session is constructed without questions.
	ErrNoQuestions = errors.New("interview: at least one question required")

	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("interview: session not found")

	// ErrSessionCompleted is returned when submitting to a non-active session.
	ErrSessionCompleted = errors.New("interview: session is not active")

	// ErrNoCurrentQuestion is returned when no question is pending.
	ErrNoCurrentQuestion = errors.New("interview: no current question")

	// ErrNotCompleted is returned when feedback is requested before completion.
	ErrNotCompleted = errors.New("interview: session not completed yet")

	// ErrEvaluationInFlight is returned when an evaluation is already running.
	ErrEvaluationInFlight = errors.New("interview: evaluation already in progress")

	// ErrNotReady is returned when the AI credential is not configured.
	ErrNotReady = errors.New("interview: service not configured")
)

// UpstreamError wraps a failed external collaborator call. It lets callers
// distinguish "your input was bad" from "transient external failure".
type UpstreamError struct {
	// Op names the collaborator operation that failed.
	Op string

	// Err is the underlying provider error.
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("interview: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

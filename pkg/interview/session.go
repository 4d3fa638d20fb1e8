package interview

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a session.
type Status string

const (
	// StatusActive means the session is waiting for answers.
	StatusActive Status = "active"

	// StatusCompleted means every question has been answered. Terminal.
	StatusCompleted Status = "completed"
)

// NoAnswerPlaceholder is recorded when a submitted answer is empty or
// whitespace-only. The evaluator treats it as an unanswered question and
// volunteers the correct answer.
const NoAnswerPlaceholder = "No answer provided."

// Answer is one recorded (question, answer) pair.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Number   int    `json:"question_number"`
}

// Session tracks one interview's progress through a fixed question list.
//
// All mutating operations take the session mutex, so concurrent
// submissions against the same session are serialized and the
// len(answers) == cursor invariant holds at all times.
type Session struct {
	mu sync.Mutex

	id         string
	topic      string
	difficulty string
	questions  []string
	answers    []Answer
	cursor     int
	status     Status
	feedback   string
	evaluating bool
	startedAt  time.Time
}

// NewSession creates an active session with cursor 0 and no answers.
// The question list must be non-empty.
func NewSession(topic, difficulty string, questions []string) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	qs := make([]string, len(questions))
	copy(qs, questions)

	return &Session{
		id:         uuid.New().String(),
		topic:      topic,
		difficulty: difficulty,
		questions:  qs,
		status:     StatusActive,
		startedAt:  time.Now(),
	}, nil
}

// SubmitOutcome describes the session state after an accepted submission.
type SubmitOutcome struct {
	// Completed is true when this submission answered the last question.
	// The caller owns the evaluation call that is now due.
	Completed bool

	// NextQuestion is the next pending question. Empty when Completed.
	NextQuestion string

	// NextNumber is the 1-based number of NextQuestion. Zero when Completed.
	NextNumber int

	// TotalQuestions is the fixed question count.
	TotalQuestions int

	// TotalAnswered is the answer count after this submission.
	TotalAnswered int
}

// Submit records an answer for the current question and advances the cursor.
// Empty or whitespace-only answers are recorded as NoAnswerPlaceholder.
// Fails with ErrSessionCompleted when the session is no longer active.
func (s *Session) Submit(answer string) (SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return SubmitOutcome{}, ErrSessionCompleted
	}

	s.answers = append(s.answers, Answer{
		Question: s.questions[s.cursor],
		Answer:   normalizeAnswer(answer),
		Number:   s.cursor + 1,
	})
	s.cursor++

	outcome := SubmitOutcome{
		TotalQuestions: len(s.questions),
		TotalAnswered:  len(s.answers),
	}

	if s.cursor == len(s.questions) {
		s.status = StatusCompleted
		// The completing submitter owns the single evaluation call.
		s.evaluating = true
		outcome.Completed = true
		return outcome, nil
	}

	outcome.NextQuestion = s.questions[s.cursor]
	outcome.NextNumber = s.cursor + 1
	return outcome, nil
}

// CurrentQuestion returns the next unanswered question.
// Fails with ErrNoCurrentQuestion once the session is completed.
func (s *Session) CurrentQuestion() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive || s.cursor >= len(s.questions) {
		return "", ErrNoCurrentQuestion
	}
	return s.questions[s.cursor], nil
}

// BeginEvaluation claims the right to run a feedback evaluation, used by
// the retry path after a failed evaluation. It fails when the session is
// still active, when feedback already exists, or when another evaluation
// is in flight.
func (s *Session) BeginEvaluation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusCompleted {
		return ErrNotCompleted
	}
	if s.evaluating {
		return ErrEvaluationInFlight
	}
	if s.feedback != "" {
		return nil
	}
	s.evaluating = true
	return nil
}

// SetFeedback stores the evaluation result and releases the evaluation claim.
func (s *Session) SetFeedback(feedback string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = feedback
	s.evaluating = false
}

// FailEvaluation releases the evaluation claim without storing feedback,
// allowing a later retry.
func (s *Session) FailEvaluation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluating = false
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Topic returns the interview topic.
func (s *Session) Topic() string { return s.topic }

// Difficulty returns the difficulty label.
func (s *Session) Difficulty() string { return s.difficulty }

// StartedAt returns the creation time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Questions returns a copy of the question list.
func (s *Session) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	qs := make([]string, len(s.questions))
	copy(qs, s.questions)
	return qs
}

// TotalQuestions returns the fixed question count.
func (s *Session) TotalQuestions() int {
	return len(s.questions)
}

// Answers returns a copy of the answer log.
func (s *Session) Answers() []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := make([]Answer, len(s.answers))
	copy(answers, s.answers)
	return answers
}

// Cursor returns the zero-based index of the next unanswered question.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Feedback returns the stored evaluation text, empty until set.
func (s *Session) Feedback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

// normalizeAnswer substitutes the placeholder for blank answers.
func normalizeAnswer(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return NoAnswerPlaceholder
	}
	return answer
}

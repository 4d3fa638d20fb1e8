package interview

// EventType identifies a session lifecycle event.
type EventType string

const (
	// EventSessionStarted fires when a new session is stored.
	EventSessionStarted EventType = "session_started"

	// EventAnswerSubmitted fires on every accepted answer.
	EventAnswerSubmitted EventType = "answer_submitted"

	// EventSessionCompleted fires on the Active to Completed transition.
	EventSessionCompleted EventType = "session_completed"
)

// Event is a session lifecycle notification, consumed by the live
// websocket feed. Events are advisory: delivery is best-effort and
// carries no session state beyond what is shown here.
type Event struct {
	Type           EventType `json:"type"`
	SessionID      string    `json:"session_id"`
	Topic          string    `json:"topic,omitempty"`
	Difficulty     string    `json:"difficulty,omitempty"`
	QuestionNumber int       `json:"question_number,omitempty"`
	TotalQuestions int       `json:"total_questions,omitempty"`
	Status         Status    `json:"status,omitempty"`
}

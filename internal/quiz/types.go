// Package quiz builds "which bias is this?" multiple-choice sessions and
// tracks their answers and results.
//
// Sessions are values. ProcessAnswer, Complete and Abandon return an updated
// copy and never modify the session passed in.
package quiz

import (
	"errors"
	"time"
)

// ErrInvalidTransition is returned when an operation does not apply to the
// session's current state.
var ErrInvalidTransition = errors.New("quiz: invalid session transition")

const (
	// DefaultQuestionCount is used when a non-positive count is requested.
	DefaultQuestionCount = 5

	// OptionsPerQuestion is the number of choices shown per question.
	OptionsPerQuestion = 4
)

// Difficulty reflects how familiar the learner is with the answer bias.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Option is one choice of a question.
type Option struct {
	BiasID    string `json:"bias_id"`
	Title     string `json:"title"`
	IsCorrect bool   `json:"is_correct"`
}

// Question asks the learner to identify the bias behind a scenario.
type Question struct {
	ID         string     `json:"id"`
	BiasID     string     `json:"bias_id"`
	Scenario   string     `json:"scenario"`
	Difficulty Difficulty `json:"difficulty"`
	Options    []Option   `json:"options"`
}

// Attempt records the answer given to one question.
type Attempt struct {
	QuestionID     string    `json:"question_id"`
	QuestionIndex  int       `json:"question_index"`
	BiasID         string    `json:"bias_id"`
	SelectedBiasID string    `json:"selected_bias_id"`
	IsCorrect      bool      `json:"is_correct"`
	TimeSpentMs    int64     `json:"time_spent_ms"`
	AttemptedAt    time.Time `json:"attempted_at"`
}

// Session is one quiz run.
type Session struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is zero while the session is in progress.
	CompletedAt time.Time `json:"completed_at,omitzero"`

	// Abandoned is set when the session was finalized before every
	// question was answered.
	Abandoned bool `json:"abandoned,omitempty"`

	Questions []Question `json:"questions"`

	// Attempts are appended in answer order, at most one per question.
	Attempts []Attempt `json:"attempts"`

	// Score is the number of correct attempts.
	Score          int `json:"score"`
	TotalQuestions int `json:"total_questions"`
}

// Completed reports whether the session has been finalized.
func (s Session) Completed() bool {
	return !s.CompletedAt.IsZero()
}

// Answered reports whether question index already has an attempt.
func (s Session) Answered(index int) bool {
	for _, a := range s.Attempts {
		if a.QuestionIndex == index {
			return true
		}
	}
	return false
}

// NextUnanswered returns the lowest question index without an attempt, or
// -1 when every question has been answered.
func (s Session) NextUnanswered() int {
	for i := range s.Questions {
		if !s.Answered(i) {
			return i
		}
	}
	return -1
}

package quiz

import (
	"fmt"
	"slices"
	"time"

	"github.com/debiasdaily/debias/internal/catalog"
)

// ProcessAnswer records chosenBiasID as the answer to question index and
// reports whether it was correct.
func ProcessAnswer(s Session, index int, chosenBiasID string, timeSpentMs int64, now time.Time) (Session, bool, error) {
	if s.Completed() {
		return s, false, fmt.Errorf("%w: session %s already completed", ErrInvalidTransition, s.ID)
	}
	if index < 0 || index >= len(s.Questions) {
		return s, false, fmt.Errorf("%w: question %d out of range", ErrInvalidTransition, index)
	}
	if s.Answered(index) {
		return s, false, fmt.Errorf("%w: question %d already answered", ErrInvalidTransition, index)
	}

	q := s.Questions[index]
	correct := chosenBiasID == q.BiasID
	attempt := Attempt{
		QuestionID:     q.ID,
		QuestionIndex:  index,
		BiasID:         q.BiasID,
		SelectedBiasID: chosenBiasID,
		IsCorrect:      correct,
		TimeSpentMs:    max(timeSpentMs, 0),
		AttemptedAt:    now,
	}

	s.Attempts = append(slices.Clip(s.Attempts), attempt)
	if correct {
		s.Score++
	}
	return s, correct, nil
}

// Complete finalizes a session whose questions have all been answered.
// Completing an already completed session returns it unchanged.
func Complete(s Session, now time.Time) (Session, error) {
	if s.Completed() {
		return s, nil
	}
	if len(s.Attempts) < s.TotalQuestions {
		return s, fmt.Errorf("%w: %d of %d questions answered", ErrInvalidTransition, len(s.Attempts), s.TotalQuestions)
	}
	return finalize(s, now), nil
}

// Abandon finalizes a session before every question has been answered.
// A session with every question answered is completed normally instead.
// Finalized sessions are returned unchanged.
func Abandon(s Session, now time.Time) Session {
	if s.Completed() {
		return s
	}
	s = finalize(s, now)
	s.Abandoned = len(s.Attempts) < s.TotalQuestions
	return s
}

func finalize(s Session, now time.Time) Session {
	s.CompletedAt = now
	s.Score = 0
	for _, a := range s.Attempts {
		if a.IsCorrect {
			s.Score++
		}
	}
	return s
}

// CorrectAnswer returns the bias a question is asking about.
func CorrectAnswer(q Question, biases []catalog.Bias) (catalog.Bias, bool) {
	return catalog.Find(biases, q.BiasID)
}

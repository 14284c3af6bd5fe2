package service

import (
	"context"
	"fmt"

	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/store"
)

// StartQuiz generates a session of n questions. A non-positive n uses the
// configured default. The session is not stored until SaveQuiz.
func (s *Service) StartQuiz(ctx context.Context, n int) (quiz.Session, error) {
	if n <= 0 {
		n = s.cfg.QuizQuestions
	}
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return quiz.Session{}, err
	}
	sess, err := quiz.Generate(biases, list, n, s.now(), s.rng)
	if err != nil {
		return quiz.Session{}, err
	}
	s.log.Debug("quiz started", "session_id", sess.ID, "questions", sess.TotalQuestions)
	return sess, nil
}

// SaveQuiz appends a completed or abandoned session to the history.
func (s *Service) SaveQuiz(ctx context.Context, sess quiz.Session) (int64, error) {
	if !sess.Completed() {
		return 0, fmt.Errorf("save quiz %s: %w", sess.ID, store.ErrSessionNotFinished)
	}
	seq, err := s.store.Quizzes().Append(ctx, sess)
	if err != nil {
		s.log.Error("save quiz failed", "session_id", sess.ID, "error", err)
		return 0, err
	}
	s.log.Info("quiz saved",
		"session_id", sess.ID, "score", sess.Score, "total", sess.TotalQuestions, "abandoned", sess.Abandoned)
	return seq, nil
}

// QuizStats aggregates the stored quiz history.
func (s *Service) QuizStats(ctx context.Context) (quiz.Stats, error) {
	sessions, err := s.store.Quizzes().List(ctx, store.QueryOpts{})
	if err != nil {
		return quiz.Stats{}, err
	}
	return quiz.CalculateStats(sessions, s.now(), s.loc), nil
}

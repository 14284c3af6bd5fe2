package quiz

import (
	"math"
	"sort"
	"time"
)

// Accuracy is the answer record for one bias across all quizzes.
type Accuracy struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent returns the rounded share of correct answers.
func (a Accuracy) Percent() int {
	if a.Total == 0 {
		return 0
	}
	return int(math.Round(float64(a.Correct) / float64(a.Total) * 100))
}

// Stats aggregates completed sessions.
type Stats struct {
	TotalQuizzesTaken      int                 `json:"total_quizzes_taken"`
	TotalQuestionsAnswered int                 `json:"total_questions_answered"`
	TotalCorrect           int                 `json:"total_correct"`
	AverageScore           int                 `json:"average_score"`
	BestScore              int                 `json:"best_score"`
	BiasAccuracy           map[string]Accuracy `json:"bias_accuracy"`
	LastQuizDate           string              `json:"last_quiz_date,omitempty"`
	CurrentStreak          int                 `json:"current_streak"`
}

const dateLayout = "2006-01-02"

// CalculateStats aggregates sessions that were completed rather than
// abandoned. Scores are percentages. CurrentStreak counts consecutive
// calendar days in loc, ending today, with at least one completed quiz.
func CalculateStats(sessions []Session, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	st := Stats{BiasAccuracy: make(map[string]Accuracy)}

	var best float64
	var last time.Time
	days := make(map[string]bool)
	for _, s := range sessions {
		if !s.Completed() || s.Abandoned {
			continue
		}
		st.TotalQuizzesTaken++
		st.TotalQuestionsAnswered += len(s.Attempts)
		st.TotalCorrect += s.Score
		if s.TotalQuestions > 0 {
			best = math.Max(best, float64(s.Score)/float64(s.TotalQuestions)*100)
		}
		for _, a := range s.Attempts {
			acc := st.BiasAccuracy[a.BiasID]
			acc.Total++
			if a.IsCorrect {
				acc.Correct++
			}
			st.BiasAccuracy[a.BiasID] = acc
		}
		if s.CompletedAt.After(last) {
			last = s.CompletedAt
		}
		days[s.CompletedAt.In(loc).Format(dateLayout)] = true
	}

	if st.TotalQuestionsAnswered > 0 {
		st.AverageScore = int(math.Round(float64(st.TotalCorrect) / float64(st.TotalQuestionsAnswered) * 100))
	}
	st.BestScore = int(math.Round(best))
	if !last.IsZero() {
		st.LastQuizDate = last.In(loc).Format(dateLayout)
	}

	today := now.In(loc)
	for days[today.AddDate(0, 0, -st.CurrentStreak).Format(dateLayout)] {
		st.CurrentStreak++
	}
	return st
}

// WeakestBiases returns up to n bias ids with the lowest accuracy, ties
// broken by more attempts first and then by id.
func WeakestBiases(st Stats, n int) []string {
	ids := make([]string, 0, len(st.BiasAccuracy))
	for id := range st.BiasAccuracy {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := st.BiasAccuracy[ids[i]], st.BiasAccuracy[ids[j]]
		// compare correct/total without rounding
		if l, r := a.Correct*b.Total, b.Correct*a.Total; l != r {
			return l < r
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return ids[i] < ids[j]
	})
	if n >= 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

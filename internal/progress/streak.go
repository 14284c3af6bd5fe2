package progress

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Streak tracks consecutive days on which the learner opened the app.
type Streak struct {
	Current   int    `json:"current"`
	Longest   int    `json:"longest"`
	LastVisit string `json:"last_visit"` // YYYY-MM-DD, empty if never
	TotalDays int    `json:"total_days"`
}

// UpdateStreak records a visit on dateKey (YYYY-MM-DD).
// A repeat visit on the same day is a no-op; a visit on the day after the
// last one extends the streak; anything else starts a new streak of one.
func UpdateStreak(s Streak, dateKey string) (Streak, error) {
	today, err := time.Parse(dateLayout, dateKey)
	if err != nil {
		return s, fmt.Errorf("parse date key %q: %w", dateKey, err)
	}

	if s.LastVisit == dateKey {
		return s, nil
	}

	if s.LastVisit == "" {
		return Streak{Current: 1, Longest: max(1, s.Longest), LastVisit: dateKey, TotalDays: s.TotalDays + 1}, nil
	}

	last, err := time.Parse(dateLayout, s.LastVisit)
	if err != nil {
		return s, fmt.Errorf("parse last visit %q: %w", s.LastVisit, err)
	}

	next := Streak{LastVisit: dateKey, TotalDays: s.TotalDays + 1, Longest: s.Longest}
	if last.AddDate(0, 0, 1).Equal(today) {
		next.Current = s.Current + 1
	} else {
		next.Current = 1
	}
	next.Longest = max(next.Longest, next.Current)
	return next, nil
}

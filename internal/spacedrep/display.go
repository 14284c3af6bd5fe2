package spacedrep

import (
	"fmt"
	"math"
	"time"

	"github.com/debiasdaily/debias/internal/progress"
)

var levelNames = []string{"Learning", "Short-term", "Medium-term", "Long-term", "Mastered"}

// IntervalLevel maps an interval to its step index in Intervals.
func IntervalLevel(interval int) int {
	for i := len(Intervals) - 1; i >= 0; i-- {
		if interval >= Intervals[i] {
			return i
		}
	}
	return 0
}

// IntervalLevelName returns the display label for a step index.
func IntervalLevelName(level int) string {
	level = min(max(level, 0), len(levelNames)-1)
	return levelNames[level]
}

// DaysUntilReview returns the whole days until p is due, rounded up.
// Overdue records give zero or a negative count. It returns false when p
// has no review schedule.
func DaysUntilReview(p progress.BiasProgress, now time.Time) (int, bool) {
	if !p.ReviewInitialized() {
		return 0, false
	}
	days := math.Ceil(p.DueAt.Sub(now).Hours() / 24.0)
	return int(days), true
}

// DueText describes when p is next due.
func DueText(p progress.BiasProgress, now time.Time) string {
	days, ok := DaysUntilReview(p, now)
	if !ok {
		if p.Viewed() {
			return "Ready for first review"
		}
		return "Not yet viewed"
	}

	switch {
	case days == 0:
		return "Due today"
	case days == -1:
		return "Overdue by 1 day"
	case days < 0:
		return fmt.Sprintf("Overdue by %d days", -days)
	case days == 1:
		return "Due tomorrow"
	case days < 7:
		return fmt.Sprintf("Due in %d days", days)
	case days < 14:
		return "Due next week"
	case days < 30:
		return fmt.Sprintf("Due in %d weeks", (days+6)/7)
	default:
		return "Due in a month"
	}
}

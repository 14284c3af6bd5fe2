package spacedrep

import (
	"math"
	"sort"
	"time"

	"github.com/debiasdaily/debias/internal/progress"
)

type dated struct {
	p   progress.BiasProgress
	due time.Time
}

func schedule(list []progress.BiasProgress, keep func(due time.Time) bool) []progress.BiasProgress {
	var items []dated
	for _, p := range list {
		due, ok := EffectiveDueAt(p)
		if !ok || !keep(due) {
			continue
		}
		items = append(items, dated{p: p, due: due})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].due.Equal(items[j].due) {
			return items[i].due.Before(items[j].due)
		}
		return items[i].p.BiasID < items[j].p.BiasID
	})

	out := make([]progress.BiasProgress, len(items))
	for i, it := range items {
		out[i] = it.p
	}
	return out
}

// DueForReview returns the records due at or before now, most overdue first.
func DueForReview(list []progress.BiasProgress, now time.Time) []progress.BiasProgress {
	return schedule(list, func(due time.Time) bool { return !due.After(now) })
}

// UpcomingReviews returns up to limit records due after now, soonest first.
// A limit of zero or less returns all of them.
func UpcomingReviews(list []progress.BiasProgress, now time.Time, limit int) []progress.BiasProgress {
	out := schedule(list, func(due time.Time) bool { return due.After(now) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Stats summarizes the review workload.
type Stats struct {
	Tracked         int `json:"tracked"`
	DueNow          int `json:"due_now"`
	DueToday        int `json:"due_today"`
	DueThisWeek     int `json:"due_this_week"`
	TotalReviewed   int `json:"total_reviewed"`
	AverageInterval int `json:"average_interval"`
	MasteryProgress int `json:"mastery_progress"`
}

// CalculateStats computes review statistics at now. DueToday includes
// everything due before the end of the calendar day in loc (nil means UTC).
// DueThisWeek counts records due after now and within seven days.
// MasteryProgress is the percentage of tracked records that are mastered or
// at the longest interval.
func CalculateStats(list []progress.BiasProgress, now time.Time, loc *time.Location) Stats {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	endOfToday := time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)
	endOfWeek := now.Add(7 * day)

	var st Stats
	var intervalSum, mastered int
	for _, p := range list {
		due, ok := EffectiveDueAt(p)
		if !ok {
			continue
		}
		st.Tracked++
		if p.Mastered || p.Interval >= MaxInterval {
			mastered++
		}
		if p.ReviewCount > 0 {
			st.TotalReviewed++
			intervalSum += max(p.Interval, MinInterval)
		}

		switch {
		case !due.After(now):
			st.DueNow++
			st.DueToday++
		case !due.After(endOfWeek):
			st.DueThisWeek++
			if !due.After(endOfToday) {
				st.DueToday++
			}
		}
	}

	if st.TotalReviewed > 0 {
		st.AverageInterval = int(math.Round(float64(intervalSum) / float64(st.TotalReviewed)))
	}
	if st.Tracked > 0 {
		st.MasteryProgress = int(math.Round(float64(mastered) / float64(st.Tracked) * 100))
	}
	return st
}

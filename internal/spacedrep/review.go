package spacedrep

import (
	"fmt"
	"math"
	"time"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
)

// Initialize schedules the first review one day from now. Records that
// already have a schedule are returned unchanged.
func Initialize(p progress.BiasProgress, now time.Time) progress.BiasProgress {
	if p.ReviewInitialized() {
		return p
	}
	p.Interval = MinInterval
	p.DueAt = now.Add(MinInterval * day)
	if p.EaseFactor == 0 {
		p.EaseFactor = DefaultEaseFactor
	}
	return p
}

// ProcessReview applies a graded review to p and returns the rescheduled
// record. View bookkeeping is left as is.
func ProcessReview(p progress.BiasProgress, q Quality, now time.Time) (progress.BiasProgress, error) {
	if !q.IsValid() {
		return p, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}
	p = Initialize(p, now)

	if q.Passed() {
		p.Interval = nextInterval(p.Interval)
		p.ConsecutiveCorrect++
		p.EaseFactor = updateEase(p.EaseFactor, q)
	} else {
		p.Interval = MinInterval
		p.ConsecutiveCorrect = 0
		p.EaseFactor = math.Max(MinEaseFactor, p.EaseFactor-lapseEasePenalty)
	}

	grade := int(q)
	p.LastQuality = &grade
	p.LastReviewedAt = now
	p.ReviewCount++
	p.DueAt = now.Add(time.Duration(p.Interval) * day)
	return p, nil
}

// updateEase applies the SM-2 ease update, clamped to the allowed range.
func updateEase(ease float64, q Quality) float64 {
	miss := float64(Perfect - q)
	ease += 0.1 - miss*(0.08+miss*0.02)
	return math.Min(MaxEaseFactor, math.Max(MinEaseFactor, ease))
}

// Review grades the bias biasID. A bias without a progress record gets a
// new one, initialized before the grade is applied.
func Review(biases []catalog.Bias, list []progress.BiasProgress, biasID string, q Quality, now time.Time) (progress.BiasProgress, error) {
	if !q.IsValid() {
		return progress.BiasProgress{}, fmt.Errorf("%w: %d", ErrInvalidQuality, int(q))
	}
	if _, ok := catalog.Find(biases, biasID); !ok {
		return progress.BiasProgress{}, fmt.Errorf("%w: %q", catalog.ErrUnknownItem, biasID)
	}

	p, ok := progress.ByID(list)[biasID]
	if !ok {
		p = progress.New(biasID, now)
	}
	return ProcessReview(Initialize(p, now), q, now)
}

// EffectiveDueAt returns when p is next due. Viewed records without a
// schedule are due one day after their last view. It returns false for
// records that have never been viewed or scheduled.
func EffectiveDueAt(p progress.BiasProgress) (time.Time, bool) {
	if !p.DueAt.IsZero() {
		return p.DueAt, true
	}
	if p.Viewed() {
		return p.ViewedAt.Add(day), true
	}
	return time.Time{}, false
}

// IsDue reports whether p is due at now.
func IsDue(p progress.BiasProgress, now time.Time) bool {
	due, ok := EffectiveDueAt(p)
	return ok && !due.After(now)
}

// OverdueDays returns how many days past due p is, or 0 if not yet due.
func OverdueDays(p progress.BiasProgress, now time.Time) float64 {
	due, ok := EffectiveDueAt(p)
	if !ok || now.Before(due) {
		return 0
	}
	return now.Sub(due).Hours() / 24.0
}

// ReviewStatus describes a record's review state for display.
type ReviewStatus string

const (
	ReviewNew      ReviewStatus = "new"
	ReviewNotDue   ReviewStatus = "not_due"
	ReviewDue      ReviewStatus = "due"
	ReviewOverdue  ReviewStatus = "overdue"
	ReviewMastered ReviewStatus = "mastered"
)

// Status returns the review status of p. A due record becomes overdue once
// it is late by more than half its interval.
func Status(p progress.BiasProgress, now time.Time) ReviewStatus {
	due, ok := EffectiveDueAt(p)
	if !ok {
		return ReviewNew
	}
	if due.After(now) {
		if p.Interval >= MaxInterval {
			return ReviewMastered
		}
		return ReviewNotDue
	}
	interval := max(p.Interval, MinInterval)
	grace := time.Duration(float64(interval) * 0.5 * float64(day))
	if now.After(due.Add(grace)) {
		return ReviewOverdue
	}
	return ReviewDue
}

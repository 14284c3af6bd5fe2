// Package progress defines the per-bias learning record and the bookkeeping
// applied to it when a learner views a bias or toggles mastery.
//
// Records are values: every function takes a record and returns an updated
// copy. Callers persist whatever comes back.
package progress

import (
	"errors"
	"fmt"
	"time"
)

// CurrentVersion is the schema version written by this package.
//
// Version 0 records carry only view bookkeeping. Version 1 adds the
// spaced repetition fields.
const CurrentVersion = 1

// ErrDuplicateProgress is returned when two records share a bias id.
var ErrDuplicateProgress = errors.New("progress: duplicate record")

// BiasProgress is the learning state of a single bias.
//
// A zero ViewedAt means the bias has never been viewed. A zero DueAt means
// the spaced repetition fields have not been initialized yet.
type BiasProgress struct {
	Version   int       `json:"version"`
	BiasID    string    `json:"bias_id"`
	ViewedAt  time.Time `json:"viewed_at,omitzero"`
	ViewCount int       `json:"view_count"`
	Mastered  bool      `json:"mastered"`

	Interval           int       `json:"interval,omitempty"`
	DueAt              time.Time `json:"due_at,omitzero"`
	EaseFactor         float64   `json:"ease_factor,omitempty"`
	ReviewCount        int       `json:"review_count,omitempty"`
	ConsecutiveCorrect int       `json:"consecutive_correct,omitempty"`
	LastQuality        *int      `json:"last_quality,omitempty"`
	LastReviewedAt     time.Time `json:"last_reviewed_at,omitzero"`
}

// Viewed reports whether the bias has been viewed at least once.
func (p BiasProgress) Viewed() bool {
	return !p.ViewedAt.IsZero()
}

// ReviewInitialized reports whether the spaced repetition fields are set.
func (p BiasProgress) ReviewInitialized() bool {
	return !p.DueAt.IsZero() && p.Interval > 0
}

// New returns the record created on a first view.
func New(biasID string, now time.Time) BiasProgress {
	return BiasProgress{
		Version:   CurrentVersion,
		BiasID:    biasID,
		ViewedAt:  now,
		ViewCount: 1,
	}
}

// MarkViewed records a view at now.
func MarkViewed(p BiasProgress, now time.Time) BiasProgress {
	p.ViewedAt = now
	p.ViewCount++
	return p
}

// ToggleMastered flips the mastered flag. A record that has never been
// viewed counts the toggle as its first view.
func ToggleMastered(p BiasProgress, now time.Time) BiasProgress {
	if !p.Viewed() {
		p.ViewedAt = now
		if p.ViewCount == 0 {
			p.ViewCount = 1
		}
	}
	p.Mastered = !p.Mastered
	return p
}

// RecentlyViewed reports whether p was viewed within window before now.
// Callers use it to avoid counting rapid repeated views.
func RecentlyViewed(p BiasProgress, now time.Time, window time.Duration) bool {
	if !p.Viewed() || window <= 0 {
		return false
	}
	return now.Sub(p.ViewedAt) < window
}

// Migrate upgrades a record to CurrentVersion. Spaced repetition fields are
// left unset; spacedrep.Initialize fills them on first review.
func Migrate(p BiasProgress) (BiasProgress, error) {
	switch {
	case p.Version == CurrentVersion:
		return p, nil
	case p.Version == 0:
		p.Version = CurrentVersion
		if p.ViewCount < 0 {
			p.ViewCount = 0
		}
		return p, nil
	default:
		return p, fmt.Errorf("progress: unsupported record version %d for %q", p.Version, p.BiasID)
	}
}

// Index maps records by bias id, rejecting duplicates.
func Index(list []BiasProgress) (map[string]BiasProgress, error) {
	idx := make(map[string]BiasProgress, len(list))
	for _, p := range list {
		if _, exists := idx[p.BiasID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProgress, p.BiasID)
		}
		idx[p.BiasID] = p
	}
	return idx, nil
}

// ByID maps records by bias id. Later duplicates overwrite earlier ones.
// Use Index when duplicates must be reported.
func ByID(list []BiasProgress) map[string]BiasProgress {
	idx := make(map[string]BiasProgress, len(list))
	for _, p := range list {
		idx[p.BiasID] = p
	}
	return idx
}

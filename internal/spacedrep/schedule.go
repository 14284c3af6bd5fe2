package spacedrep

import "time"

// Intervals defines the review schedule in days. A successful review moves
// an item one step along the table; a lapse returns it to the first step.
var Intervals = []int{1, 3, 7, 14, 30}

const (
	// MinInterval is the first step of the schedule.
	MinInterval = 1

	// MaxInterval is the last step. Items at this interval count as
	// mastered for progress reporting.
	MaxInterval = 30

	// PassThreshold is the lowest quality that counts as a successful recall.
	PassThreshold = Good
)

// Ease factor bounds. The ease factor is tracked with the SM-2 update rule
// for display; it does not change the interval table.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	lapseEasePenalty  = 0.2
)

const day = 24 * time.Hour

// nextInterval returns the step after current. Intervals that fall between
// steps advance to the next larger step.
func nextInterval(current int) int {
	for _, iv := range Intervals {
		if iv > current {
			return iv
		}
	}
	return MaxInterval
}

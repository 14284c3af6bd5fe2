package spacedrep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidQuality is returned for a grade outside the review scale.
var ErrInvalidQuality = errors.New("spacedrep: invalid review quality")

// Quality is the learner's self-reported recall grade.
type Quality int

const (
	Forgot  Quality = 0
	Hard    Quality = 2
	Good    Quality = 3
	Easy    Quality = 4
	Perfect Quality = 5
)

// Qualities lists the valid grades from worst to best.
func Qualities() []Quality {
	return []Quality{Forgot, Hard, Good, Easy, Perfect}
}

// IsValid reports whether q is on the review scale.
func (q Quality) IsValid() bool {
	switch q {
	case Forgot, Hard, Good, Easy, Perfect:
		return true
	}
	return false
}

// Passed reports whether q counts as a successful recall.
func (q Quality) Passed() bool {
	return q >= PassThreshold
}

func (q Quality) String() string {
	switch q {
	case Forgot:
		return "forgot"
	case Hard:
		return "hard"
	case Good:
		return "good"
	case Easy:
		return "easy"
	case Perfect:
		return "perfect"
	default:
		return fmt.Sprintf("quality(%d)", int(q))
	}
}

// ParseQuality accepts a grade name ("good") or its ordinal ("3").
func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		q := Quality(n)
		if !q.IsValid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidQuality, n)
		}
		return q, nil
	}
	for _, q := range Qualities() {
		if q.String() == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
}

package catalog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	scriptPattern  = regexp.MustCompile(`(?i)javascript:`)
	handlerPattern = regexp.MustCompile(`(?i)on\w+\s*=`)
	idPattern      = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
)

const (
	titleMin    = 3
	titleMax    = 100
	summaryMin  = 10
	summaryMax  = 500
	freeTextMax = 1000
)

// Sanitize strips markup and script-like fragments from learner input and
// clamps the result to max runes.
func Sanitize(text string, max int) string {
	if text == "" {
		return ""
	}
	s := tagPattern.ReplaceAllString(text, "")
	s = scriptPattern.ReplaceAllString(s, "")
	s = handlerPattern.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return s
}

// ValidateUserBias sanitizes a learner-authored bias and checks its fields.
// The returned bias carries the sanitized text and SourceUser.
func ValidateUserBias(b Bias) (Bias, error) {
	if strings.TrimSpace(b.ID) == "" {
		return Bias{}, fmt.Errorf("%w: id is required", ErrInvalidBias)
	}
	if !idPattern.MatchString(b.ID) {
		return Bias{}, fmt.Errorf("%w: id %q must be lowercase letters, digits and dashes", ErrInvalidBias, b.ID)
	}
	if !b.Category.IsValid() {
		return Bias{}, fmt.Errorf("%w: unknown category %q", ErrInvalidBias, b.Category)
	}

	b.Title = Sanitize(b.Title, titleMax)
	switch n := utf8.RuneCountInString(b.Title); {
	case n == 0:
		return Bias{}, fmt.Errorf("%w: title is required", ErrInvalidBias)
	case n < titleMin:
		return Bias{}, fmt.Errorf("%w: title must be at least %d characters", ErrInvalidBias, titleMin)
	}

	b.Summary = Sanitize(b.Summary, summaryMax)
	switch n := utf8.RuneCountInString(b.Summary); {
	case n == 0:
		return Bias{}, fmt.Errorf("%w: summary is required", ErrInvalidBias)
	case n < summaryMin:
		return Bias{}, fmt.Errorf("%w: summary must be at least %d characters", ErrInvalidBias, summaryMin)
	}

	b.Why = Sanitize(b.Why, freeTextMax)
	b.Counter = Sanitize(b.Counter, freeTextMax)
	b.Source = SourceUser
	return b, nil
}

// Slug derives a bias id from a title: "Dunning–Kruger Effect" becomes
// "dunning-kruger-effect".
func Slug(title string) string {
	s := slugSeparators.ReplaceAllString(strings.ToLower(Sanitize(title, titleMax)), "-")
	return strings.Trim(s, "-")
}

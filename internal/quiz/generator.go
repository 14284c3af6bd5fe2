package quiz

import (
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
)

var scenarioTemplates = []string{
	"Someone exhibits this behavior: {summary} Which cognitive bias is this?",
	"A friend describes this pattern: {summary} What bias are they describing?",
	"You notice this in yourself: {summary} Which bias explains this?",
	"In a meeting, you observe: {summary} What cognitive bias is at play?",
	"A study shows people tend to: {summary} What's this bias called?",
}

// Generate builds a session of count questions. Biases the learner has
// viewed are asked first; unviewed core biases and then unviewed user
// biases fill the rest. No bias is asked twice. A nil rng is seeded from now.
func Generate(biases []catalog.Bias, list []progress.BiasProgress, count int, now time.Time, rng *rand.Rand) (Session, error) {
	if len(biases) == 0 {
		return Session{}, catalog.ErrEmptyCatalog
	}
	if len(biases) < OptionsPerQuestion {
		return Session{}, catalog.ErrCatalogTooSmall
	}
	if count <= 0 {
		count = DefaultQuestionCount
	}
	count = min(count, len(biases))
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(now.UnixNano()), uint64(now.Unix())))
	}

	byID := progress.ByID(list)
	picked := pickAnswers(biases, byID, count, rng)

	questions := make([]Question, len(picked))
	for i, b := range picked {
		p, ok := byID[b.ID]
		diff := DifficultyEasy
		if ok {
			diff = difficultyFor(p)
		}
		questions[i] = buildQuestion(b, biases, diff, rng)
	}

	return Session{
		ID:             uuid.NewString(),
		StartedAt:      now,
		Questions:      questions,
		Attempts:       []Attempt{},
		TotalQuestions: len(questions),
	}, nil
}

func pickAnswers(biases []catalog.Bias, byID map[string]progress.BiasProgress, count int, rng *rand.Rand) []catalog.Bias {
	var seen, core, user []catalog.Bias
	for _, b := range biases {
		if p, ok := byID[b.ID]; ok && p.Viewed() {
			seen = append(seen, b)
			continue
		}
		if b.Source == catalog.SourceUser {
			user = append(user, b)
		} else {
			core = append(core, b)
		}
	}

	pool := make([]catalog.Bias, 0, len(biases))
	for _, group := range [][]catalog.Bias{seen, core, user} {
		shuffle(rng, group)
		pool = append(pool, group...)
	}
	return pool[:count]
}

func difficultyFor(p progress.BiasProgress) Difficulty {
	switch {
	case p.Mastered || p.ReviewCount >= 3:
		return DifficultyHard
	case p.ViewCount >= 2 || p.ReviewCount >= 1:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

func buildQuestion(answer catalog.Bias, biases []catalog.Bias, diff Difficulty, rng *rand.Rand) Question {
	options := make([]Option, 0, OptionsPerQuestion)
	options = append(options, Option{BiasID: answer.ID, Title: answer.Title, IsCorrect: true})
	for _, d := range distractors(answer, biases, diff, OptionsPerQuestion-1, rng) {
		options = append(options, Option{BiasID: d.ID, Title: d.Title})
	}
	shuffle(rng, options)

	return Question{
		ID:         uuid.NewString(),
		BiasID:     answer.ID,
		Scenario:   scenario(answer, rng),
		Difficulty: diff,
		Options:    options,
	}
}

// distractors returns n biases other than answer. Medium and hard questions
// draw from the answer's category first so the category alone does not
// give the answer away; easy questions draw from other categories first.
func distractors(answer catalog.Bias, biases []catalog.Bias, diff Difficulty, n int, rng *rand.Rand) []catalog.Bias {
	var same, other []catalog.Bias
	for _, b := range biases {
		switch {
		case b.ID == answer.ID:
		case b.Category == answer.Category:
			same = append(same, b)
		default:
			other = append(other, b)
		}
	}
	shuffle(rng, same)
	shuffle(rng, other)

	var ordered []catalog.Bias
	if diff == DifficultyEasy {
		ordered = append(other, same...)
	} else {
		ordered = append(same, other...)
	}
	return ordered[:min(n, len(ordered))]
}

func scenario(b catalog.Bias, rng *rand.Rand) string {
	tmpl := scenarioTemplates[rng.IntN(len(scenarioTemplates))]
	return strings.Replace(tmpl, "{summary}", `"`+firstSentence(b.Summary)+`"`, 1)
}

// firstSentence cuts s after the first terminator that is followed by a
// capitalized word, so abbreviations like "e.g." stay inside the sentence.
func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		rest := s[i+1:]
		if rest == "" {
			return s
		}
		if rest[0] != ' ' {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(strings.TrimLeft(rest, " ")); unicode.IsUpper(next) {
			return s[:i+1]
		}
	}
	return s + "."
}

func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

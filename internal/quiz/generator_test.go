package quiz

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
)

var now = time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func coreBiases(t *testing.T) []catalog.Bias {
	t.Helper()
	biases, err := catalog.Core()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(biases), 8)
	return biases
}

func TestGenerate_NoRepeatAndDistinctOptions(t *testing.T) {
	biases := coreBiases(t)
	for seed := uint64(0); seed < 25; seed++ {
		for _, n := range []int{1, 5, 10, len(biases)} {
			s, err := Generate(biases, nil, n, now, testRNG(seed))
			require.NoError(t, err)
			require.Len(t, s.Questions, n)
			assert.Equal(t, n, s.TotalQuestions)

			asked := make(map[string]bool)
			for _, q := range s.Questions {
				assert.False(t, asked[q.BiasID], "bias %s asked twice", q.BiasID)
				asked[q.BiasID] = true

				require.Len(t, q.Options, OptionsPerQuestion)
				optIDs := make(map[string]bool)
				correct := 0
				for _, o := range q.Options {
					assert.False(t, optIDs[o.BiasID], "duplicate option %s", o.BiasID)
					optIDs[o.BiasID] = true
					if o.IsCorrect {
						correct++
						assert.Equal(t, q.BiasID, o.BiasID)
					}
				}
				assert.Equal(t, 1, correct)
			}
		}
	}
}

func TestGenerate_Defaults(t *testing.T) {
	biases := coreBiases(t)

	s, err := Generate(biases, nil, 0, now, testRNG(1))
	require.NoError(t, err)
	assert.Len(t, s.Questions, DefaultQuestionCount)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, now, s.StartedAt)
	assert.False(t, s.Completed())
	assert.Empty(t, s.Attempts)

	s, err = Generate(biases, nil, len(biases)+10, now, testRNG(1))
	require.NoError(t, err)
	assert.Len(t, s.Questions, len(biases))

	s, err = Generate(biases, nil, 3, now, nil)
	require.NoError(t, err)
	assert.Len(t, s.Questions, 3)
}

func TestGenerate_CatalogErrors(t *testing.T) {
	_, err := Generate(nil, nil, 5, now, testRNG(1))
	assert.ErrorIs(t, err, catalog.ErrEmptyCatalog)

	small := []catalog.Bias{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	_, err = Generate(small, nil, 2, now, testRNG(1))
	assert.ErrorIs(t, err, catalog.ErrCatalogTooSmall)
}

func TestGenerate_PrefersViewedBiases(t *testing.T) {
	biases := coreBiases(t)
	viewed := map[string]bool{}
	var list []progress.BiasProgress
	for _, b := range biases[:6] {
		list = append(list, progress.New(b.ID, now.Add(-48*time.Hour)))
		viewed[b.ID] = true
	}

	s, err := Generate(biases, list, 5, now, testRNG(7))
	require.NoError(t, err)
	for _, q := range s.Questions {
		assert.True(t, viewed[q.BiasID], "unviewed bias %s asked while viewed ones remain", q.BiasID)
	}

	// With fewer viewed biases than questions, all viewed ones are included.
	s, err = Generate(biases, list[:2], 5, now, testRNG(7))
	require.NoError(t, err)
	asked := map[string]bool{}
	for _, q := range s.Questions {
		asked[q.BiasID] = true
	}
	assert.True(t, asked[list[0].BiasID])
	assert.True(t, asked[list[1].BiasID])
}

func TestGenerate_UserBiasesFillLast(t *testing.T) {
	var biases []catalog.Bias
	for i := 0; i < 4; i++ {
		biases = append(biases, catalog.Bias{ID: fmt.Sprintf("core-%d", i), Category: catalog.CategoryDecision, Source: catalog.SourceCore, Summary: "Core."})
	}
	for i := 0; i < 4; i++ {
		biases = append(biases, catalog.Bias{ID: fmt.Sprintf("user-%d", i), Category: catalog.CategoryMisc, Source: catalog.SourceUser, Summary: "User."})
	}

	s, err := Generate(biases, nil, 4, now, testRNG(3))
	require.NoError(t, err)
	for _, q := range s.Questions {
		assert.True(t, strings.HasPrefix(q.BiasID, "core-"), "got %s", q.BiasID)
	}
}

func TestDifficultyFor(t *testing.T) {
	tests := []struct {
		name string
		p    progress.BiasProgress
		want Difficulty
	}{
		{"single view", progress.BiasProgress{ViewCount: 1}, DifficultyEasy},
		{"two views", progress.BiasProgress{ViewCount: 2}, DifficultyMedium},
		{"one review", progress.BiasProgress{ViewCount: 1, ReviewCount: 1}, DifficultyMedium},
		{"three reviews", progress.BiasProgress{ReviewCount: 3}, DifficultyHard},
		{"mastered", progress.BiasProgress{ViewCount: 1, Mastered: true}, DifficultyHard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, difficultyFor(tt.p))
		})
	}
}

func TestDistractors_CategoryPreference(t *testing.T) {
	answer := catalog.Bias{ID: "a", Category: catalog.CategoryDecision}
	biases := []catalog.Bias{
		answer,
		{ID: "d1", Category: catalog.CategoryDecision},
		{ID: "d2", Category: catalog.CategoryDecision},
		{ID: "d3", Category: catalog.CategoryDecision},
		{ID: "m1", Category: catalog.CategoryMemory},
		{ID: "m2", Category: catalog.CategoryMemory},
		{ID: "m3", Category: catalog.CategoryMemory},
	}

	for seed := uint64(0); seed < 10; seed++ {
		for _, d := range distractors(answer, biases, DifficultyHard, 3, testRNG(seed)) {
			assert.Equal(t, catalog.CategoryDecision, d.Category)
		}
		for _, d := range distractors(answer, biases, DifficultyEasy, 3, testRNG(seed)) {
			assert.Equal(t, catalog.CategoryMemory, d.Category)
		}
	}

	// Not enough same-category biases: fill from the rest.
	got := distractors(answer, biases[:2:2], DifficultyHard, 3, testRNG(1))
	assert.Len(t, got, 1)
	got = distractors(answer, append(biases[:2:2], biases[4:]...), DifficultyHard, 3, testRNG(1))
	require.Len(t, got, 3)
	assert.Equal(t, "d1", got[0].ID)
}

func TestScenario(t *testing.T) {
	b := catalog.Bias{ID: "a", Summary: "Relying too much on the first number you hear. More detail follows."}
	for seed := uint64(0); seed < 10; seed++ {
		got := scenario(b, testRNG(seed))
		assert.Contains(t, got, `"Relying too much on the first number you hear."`)
		assert.NotContains(t, got, "More detail")
		assert.NotContains(t, got, "{summary}")
	}
	assert.Equal(t, "No period here.", firstSentence("No period here"))
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Trusting vivid examples, e.g. plane crashes, over statistics. Then more.", "Trusting vivid examples, e.g. plane crashes, over statistics."},
		{"Is it really that likely? Probably not.", "Is it really that likely?"},
		{"  Ends with a period.  ", "Ends with a period."},
		{"Version 2.0 changed everything", "Version 2.0 changed everything."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, firstSentence(tt.in), tt.in)
	}
}

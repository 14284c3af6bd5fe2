package service

import (
	"bytes"
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/config"
	"github.com/debiasdaily/debias/internal/daily"
	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/spacedrep"
	"github.com/debiasdaily/debias/internal/store"
)

var t0 = time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService(t *testing.T) (*Service, *store.Store, *testClock) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	clock := &testClock{now: t0}
	svc, err := New(st, cfg, nil, WithClock(clock.Now), WithRand(rand.New(rand.NewPCG(7, 11))))
	require.NoError(t, err)
	return svc, st, clock
}

func answerAll(t *testing.T, s quiz.Session, now time.Time) quiz.Session {
	t.Helper()
	for i, q := range s.Questions {
		var err error
		s, _, err = quiz.ProcessAnswer(s, i, q.BiasID, 1500, now)
		require.NoError(t, err)
	}
	s, err := quiz.Complete(s, now)
	require.NoError(t, err)
	return s
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Timezone = "Nowhere/Special"
	_, err := New(nil, cfg, nil)
	assert.Error(t, err)
}

func TestCatalog_CoreThenUser(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	core, err := catalog.Core()
	require.NoError(t, err)

	added, err := svc.AddUserBias(ctx, catalog.Bias{
		Title:    "Spotlight Effect",
		Category: catalog.CategorySocial,
		Summary:  "Believing others notice you far more than they do.",
	})
	require.NoError(t, err)

	biases, err := svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, biases, len(core)+1)
	assert.Equal(t, core[0].ID, biases[0].ID)
	assert.Equal(t, added.ID, biases[len(biases)-1].ID)
	assert.Equal(t, catalog.SourceUser, biases[len(biases)-1].Source)
}

func TestToday_StableWithinDay(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	first, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-20", first.DateKey)
	assert.Equal(t, 1, first.Streak.Current)

	// Viewing the pick changes its priority but not today's answer.
	_, err = svc.View(ctx, first.Bias.ID)
	require.NoError(t, err)
	clock.Advance(6 * time.Hour)

	again, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Bias.ID, again.Bias.ID)
	assert.Equal(t, 1, again.Streak.Current)
	assert.Equal(t, 1, again.Streak.TotalDays)
}

func TestToday_StreakAcrossDays(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.Today(ctx)
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	got, err := svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Streak.Current)

	clock.Advance(72 * time.Hour)
	got, err = svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Streak.Current)
	assert.Equal(t, 2, got.Streak.Longest)
	assert.Equal(t, 3, got.Streak.TotalDays)
}

func TestToday_PrunesOldPicks(t *testing.T) {
	svc, st, clock := newTestService(t)
	ctx := context.Background()

	_, err := svc.Today(ctx)
	require.NoError(t, err)
	firstKey := daily.DateKey(t0, time.UTC)

	clock.Advance(40 * 24 * time.Hour)
	_, err = svc.Today(ctx)
	require.NoError(t, err)

	_, ok, err := st.DailyCache().Get(ctx, firstKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestView_DebounceAndInitialize(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	v, err := svc.View(ctx, "anchoring-bias")
	require.NoError(t, err)
	assert.True(t, v.Counted)
	assert.Equal(t, "Anchoring Bias", v.Bias.Title)
	assert.Equal(t, 1, v.Progress.ViewCount)
	assert.Equal(t, spacedrep.MinInterval, v.Progress.Interval)
	assert.True(t, v.Progress.DueAt.Equal(t0.Add(24*time.Hour)))

	clock.Advance(time.Minute)
	v, err = svc.View(ctx, "anchoring-bias")
	require.NoError(t, err)
	assert.False(t, v.Counted)
	assert.Equal(t, 1, v.Progress.ViewCount)

	clock.Advance(10 * time.Minute)
	v, err = svc.View(ctx, "anchoring-bias")
	require.NoError(t, err)
	assert.True(t, v.Counted)
	assert.Equal(t, 2, v.Progress.ViewCount)
	// the schedule set on the first view is kept
	assert.True(t, v.Progress.DueAt.Equal(t0.Add(24*time.Hour)))
}

func TestView_UnknownBias(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.View(context.Background(), "no-such-bias")
	require.ErrorIs(t, err, catalog.ErrUnknownItem)
	assert.True(t, IsUserError(err))
}

func TestToggleMastered(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.ToggleMastered(ctx, "halo-effect")
	require.NoError(t, err)
	assert.True(t, p.Mastered)
	assert.Equal(t, 1, p.ViewCount)

	p, err = svc.ToggleMastered(ctx, "halo-effect")
	require.NoError(t, err)
	assert.False(t, p.Mastered)
	assert.Equal(t, 1, p.ViewCount)
}

func TestReview_DueAndUpcoming(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"anchoring-bias", "loss-aversion", "halo-effect"} {
		_, err := svc.View(ctx, id)
		require.NoError(t, err)
	}

	clock.Advance(24 * time.Hour)
	due, err := svc.Due(ctx)
	require.NoError(t, err)
	assert.Len(t, due, 3)

	p, err := svc.Review(ctx, "anchoring-bias", spacedrep.Good)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Interval)
	p, err = svc.Review(ctx, "loss-aversion", spacedrep.Forgot)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Interval)

	due, err = svc.Due(ctx)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "halo-effect", due[0].Bias.ID)

	upcoming, err := svc.Upcoming(ctx, 1)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "loss-aversion", upcoming[0].Bias.ID)

	stats, err := svc.ReviewStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Tracked)
	assert.Equal(t, 1, stats.DueNow)
	assert.Equal(t, 2, stats.TotalReviewed)
}

func TestReview_InvalidQuality(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Review(context.Background(), "anchoring-bias", spacedrep.Quality(9))
	assert.ErrorIs(t, err, spacedrep.ErrInvalidQuality)
}

func TestQuiz_StartSaveStats(t *testing.T) {
	svc, st, clock := newTestService(t)
	ctx := context.Background()

	sess, err := svc.StartQuiz(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, sess.Questions, 5)

	_, err = svc.SaveQuiz(ctx, sess)
	require.ErrorIs(t, err, store.ErrSessionNotFinished)

	clock.Advance(2 * time.Minute)
	done := answerAll(t, sess, clock.Now())
	_, err = svc.SaveQuiz(ctx, done)
	require.NoError(t, err)

	abandoned := quiz.Abandon(mustStart(t, svc, 3), clock.Now())
	_, err = svc.SaveQuiz(ctx, abandoned)
	require.NoError(t, err)

	n, err := st.Quizzes().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats, err := svc.QuizStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalQuizzesTaken)
	assert.Equal(t, 5, stats.TotalCorrect)
	assert.Equal(t, 100, stats.BestScore)
	assert.Equal(t, 1, stats.CurrentStreak)
}

func mustStart(t *testing.T, svc *Service, n int) quiz.Session {
	t.Helper()
	s, err := svc.StartQuiz(context.Background(), n)
	require.NoError(t, err)
	return s
}

func TestAddUserBias(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.AddUserBias(ctx, catalog.Bias{
		Title:    "  The <b>IKEA</b> Effect ",
		Category: catalog.CategoryDecision,
		Summary:  "Overvaluing things you assembled yourself.",
	})
	require.NoError(t, err)
	assert.Equal(t, "the-ikea-effect", b.ID)
	assert.Equal(t, "The IKEA Effect", b.Title)
	assert.True(t, b.CreatedAt.Equal(t0))

	_, err = svc.AddUserBias(ctx, catalog.Bias{
		ID:       "anchoring-bias",
		Title:    "Anchoring again",
		Category: catalog.CategoryDecision,
		Summary:  "A duplicate of a core bias id.",
	})
	assert.ErrorIs(t, err, catalog.ErrInvalidBias)

	_, err = svc.AddUserBias(ctx, catalog.Bias{Title: "ok", Category: catalog.CategoryMisc})
	assert.ErrorIs(t, err, catalog.ErrInvalidBias)
}

func TestRemoveUserBias(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	b, err := svc.AddUserBias(ctx, catalog.Bias{
		Title:    "Spotlight Effect",
		Category: catalog.CategorySocial,
		Summary:  "Believing others notice you far more than they do.",
	})
	require.NoError(t, err)
	_, err = svc.View(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveUserBias(ctx, b.ID))
	_, ok, err := st.Progress().Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.RemoveUserBias(ctx, "anchoring-bias"), catalog.ErrUnknownItem)
}

func TestExportImport(t *testing.T) {
	src, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := src.Today(ctx)
	require.NoError(t, err)
	_, err = src.View(ctx, "framing-effect")
	require.NoError(t, err)
	_, err = src.AddUserBias(ctx, catalog.Bias{
		Title:    "Spotlight Effect",
		Category: catalog.CategorySocial,
		Summary:  "Believing others notice you far more than they do.",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.Export(ctx, &buf))

	dst, _, _ := newTestService(t)
	require.NoError(t, dst.Import(ctx, bytes.NewReader(buf.Bytes()), true))

	_, p, err := dst.Bias(ctx, "framing-effect")
	require.NoError(t, err)
	assert.Equal(t, 1, p.ViewCount)
	_, _, err = dst.Bias(ctx, "spotlight-effect")
	require.NoError(t, err)

	o, err := dst.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, o.Streak.TotalDays)
}

func TestImport_RejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Import(ctx, bytes.NewBufferString(`{"version":1,"surprise":true}`), false)
	assert.Error(t, err)

	err = svc.Import(ctx, bytes.NewBufferString(
		`{"version":1,"user_biases":[{"id":"Bad Id","title":"Bad","category":"misc","summary":"too short"}]}`), false)
	assert.ErrorIs(t, err, catalog.ErrInvalidBias)
}

func TestReset(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.View(ctx, "anchoring-bias")
	require.NoError(t, err)
	b, err := svc.AddUserBias(ctx, catalog.Bias{
		Title:    "Spotlight Effect",
		Category: catalog.CategorySocial,
		Summary:  "Believing others notice you far more than they do.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	_, p, err := svc.Bias(ctx, "anchoring-bias")
	require.NoError(t, err)
	assert.False(t, p.Viewed())
	_, _, err = svc.Bias(ctx, b.ID)
	assert.NoError(t, err, "user biases survive a reset")
}

func TestOverview(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.View(ctx, "anchoring-bias")
	require.NoError(t, err)
	_, err = svc.View(ctx, "halo-effect")
	require.NoError(t, err)
	_, err = svc.ToggleMastered(ctx, "halo-effect")
	require.NoError(t, err)

	o, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, o.CatalogSize)
	assert.Equal(t, 2, o.Viewed)
	assert.Equal(t, 1, o.Mastered)
	assert.Equal(t, 1, o.Distribution[catalog.CategoryDecision])
	assert.Equal(t, 1, o.Distribution[catalog.CategorySocial])
	assert.Equal(t, 2, o.Review.Tracked)
}

func TestRecommend(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.View(ctx, "anchoring-bias")
	require.NoError(t, err)

	b, ok, err := svc.Recommend(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, catalog.CategoryDecision, b.Category)
}

func TestDistribution(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"anchoring-bias", "loss-aversion", "hindsight-bias"} {
		_, err := svc.View(ctx, id)
		require.NoError(t, err)
	}
	dist, err := svc.Distribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dist[catalog.CategoryDecision])
	assert.Equal(t, 1, dist[catalog.CategoryMemory])
	assert.Equal(t, 0, dist[catalog.CategoryPerception])
	assert.Len(t, dist, len(catalog.AllCategories()))
}

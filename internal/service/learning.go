package service

import (
	"context"
	"time"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/daily"
	"github.com/debiasdaily/debias/internal/progress"
	"github.com/debiasdaily/debias/internal/spacedrep"
)

// Today is the result of the daily pick.
type Today struct {
	DateKey string
	Bias    catalog.Bias
	Streak  progress.Streak
}

// Today returns the personalized bias for the current calendar day. The
// pick is cached so it stays stable for the rest of the day, and the visit
// streak is updated.
func (s *Service) Today(ctx context.Context) (Today, error) {
	now := s.now()
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return Today{}, err
	}
	dateKey := daily.DateKey(now, s.loc)
	cache := s.store.DailyCache()

	b, err := daily.GetOrCompute(ctx, cache, biases, dateKey, func() (catalog.Bias, error) {
		return daily.PersonalizedDailyBias(biases, list, dateKey, now)
	})
	if err != nil {
		if b.ID == "" {
			return Today{}, err
		}
		s.log.Warn("daily pick not cached", "date", dateKey, "error", err)
	}

	streak, err := s.store.Streaks().Get(ctx)
	if err != nil {
		return Today{}, err
	}
	if streak, err = progress.UpdateStreak(streak, dateKey); err != nil {
		return Today{}, err
	}
	if err := s.store.Streaks().Put(ctx, streak); err != nil {
		s.log.Error("save streak failed", "error", err)
		return Today{}, err
	}

	cutoff := daily.DateKey(now.AddDate(0, 0, -s.cfg.DailyCacheDays), s.loc)
	if err := cache.Prune(ctx, cutoff); err != nil {
		s.log.Warn("prune daily cache failed", "error", err)
	}

	s.log.Debug("daily pick", "date", dateKey, "bias_id", b.ID, "streak", streak.Current)
	return Today{DateKey: dateKey, Bias: b, Streak: streak}, nil
}

// Viewed is the result of View.
type Viewed struct {
	Bias     catalog.Bias
	Progress progress.BiasProgress

	// Counted is false when the view fell inside the debounce window.
	Counted bool
}

// View records that the learner looked at bias id. Repeated views within
// the configured debounce window are not counted again.
func (s *Service) View(ctx context.Context, id string) (Viewed, error) {
	now := s.now()
	b, p, err := s.Bias(ctx, id)
	if err != nil {
		return Viewed{}, err
	}

	switch {
	case p.BiasID == "":
		p = spacedrep.Initialize(progress.New(id, now), now)
	case progress.RecentlyViewed(p, now, s.cfg.ViewDebounce):
		return Viewed{Bias: b, Progress: p}, nil
	default:
		p = progress.MarkViewed(p, now)
	}

	if err := s.store.Progress().Put(ctx, p); err != nil {
		s.log.Error("save view failed", "bias_id", id, "error", err)
		return Viewed{}, err
	}
	s.log.Info("bias viewed", "bias_id", id, "view_count", p.ViewCount)
	return Viewed{Bias: b, Progress: p, Counted: true}, nil
}

// ToggleMastered flips the mastered flag of bias id.
func (s *Service) ToggleMastered(ctx context.Context, id string) (progress.BiasProgress, error) {
	now := s.now()
	_, p, err := s.Bias(ctx, id)
	if err != nil {
		return progress.BiasProgress{}, err
	}
	if p.BiasID == "" {
		p = spacedrep.Initialize(progress.New(id, now), now)
	}
	p = progress.ToggleMastered(p, now)

	if err := s.store.Progress().Put(ctx, p); err != nil {
		s.log.Error("save mastery failed", "bias_id", id, "error", err)
		return progress.BiasProgress{}, err
	}
	s.log.Info("mastery toggled", "bias_id", id, "mastered", p.Mastered)
	return p, nil
}

// Review applies a graded review to bias id.
func (s *Service) Review(ctx context.Context, id string, q spacedrep.Quality) (progress.BiasProgress, error) {
	now := s.now()
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return progress.BiasProgress{}, err
	}
	p, err := spacedrep.Review(biases, list, id, q, now)
	if err != nil {
		return progress.BiasProgress{}, err
	}
	if err := s.store.Progress().Put(ctx, p); err != nil {
		s.log.Error("save review failed", "bias_id", id, "error", err)
		return progress.BiasProgress{}, err
	}
	s.log.Info("bias reviewed",
		"bias_id", id, "quality", q.String(), "interval", p.Interval, "due_at", p.DueAt.Format(time.RFC3339))
	return p, nil
}

// ReviewItem pairs a bias with its progress for review listings.
type ReviewItem struct {
	Bias     catalog.Bias
	Progress progress.BiasProgress
}

// Due returns the biases due for review, most overdue first.
func (s *Service) Due(ctx context.Context) ([]ReviewItem, error) {
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return join(biases, spacedrep.DueForReview(list, s.now())), nil
}

// Upcoming returns up to limit reviews that are not yet due, soonest
// first. A non-positive limit uses the configured default.
func (s *Service) Upcoming(ctx context.Context, limit int) ([]ReviewItem, error) {
	if limit <= 0 {
		limit = s.cfg.UpcomingLimit
	}
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	// Records of removed biases are dropped after the limit is applied, so
	// ask for everything and trim here.
	items := join(biases, spacedrep.UpcomingReviews(list, s.now(), 0))
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// ReviewStats summarizes the review workload.
func (s *Service) ReviewStats(ctx context.Context) (spacedrep.Stats, error) {
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return spacedrep.Stats{}, err
	}
	return spacedrep.CalculateStats(inCatalog(biases, list), s.now(), s.loc), nil
}

// Recommend returns an unviewed bias from the least explored category.
func (s *Service) Recommend(ctx context.Context) (catalog.Bias, bool, error) {
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return catalog.Bias{}, false, err
	}
	b, ok := daily.BalancedRecommendation(biases, list)
	return b, ok, nil
}

// Distribution counts viewed biases per category.
func (s *Service) Distribution(ctx context.Context) (map[catalog.Category]int, error) {
	biases, list, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return daily.CategoryDistribution(list, biases), nil
}

// join keeps records whose bias is still in the catalog, preserving order.
func join(biases []catalog.Bias, list []progress.BiasProgress) []ReviewItem {
	idx := catalog.Index(biases)
	items := make([]ReviewItem, 0, len(list))
	for _, p := range list {
		if b, ok := idx[p.BiasID]; ok {
			items = append(items, ReviewItem{Bias: b, Progress: p})
		}
	}
	return items
}

func inCatalog(biases []catalog.Bias, list []progress.BiasProgress) []progress.BiasProgress {
	idx := catalog.Index(biases)
	out := make([]progress.BiasProgress, 0, len(list))
	for _, p := range list {
		if _, ok := idx[p.BiasID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Progress returns every stored progress record, ordered by bias id.
func (s *Service) Progress(ctx context.Context) ([]progress.BiasProgress, error) {
	return s.store.Progress().All(ctx)
}

// Package daily picks the bias shown on a given calendar day.
//
// All selection functions are pure and deterministic: for the same catalog,
// progress snapshot, date key and clock reading they return the same bias.
// The date key is treated as an opaque seed.
package daily

import (
	"sort"
	"time"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
)

// Scoring weights for personalized selection.
const (
	baseScore          = 100
	unviewedBonus      = 10000 // larger than any combination of the others
	masteredPenalty    = 200
	masteredReviewGap  = 14 * 24 * time.Hour
	masteredReviewBump = 50
	unmasteredBonus    = 100
	staleWeekBonus     = 150
	staleFewDaysBonus  = 75
	recentPenalty      = 300
	heavyViewThreshold = 5
	heavyViewPenalty   = 10
	jitterRange        = 100

	// maxCandidates bounds the pool the date hash chooses from.
	maxCandidates = 5
)

const day = 24 * time.Hour

// DailyBias returns the unpersonalized bias for dateKey.
func DailyBias(biases []catalog.Bias, dateKey string) (catalog.Bias, error) {
	if len(biases) == 0 {
		return catalog.Bias{}, catalog.ErrEmptyCatalog
	}
	idx := hashString(dateKey) % int64(len(biases))
	return biases[idx], nil
}

type scored struct {
	bias   catalog.Bias
	score  int
	viewed bool
}

// PersonalizedDailyBias returns the bias for dateKey weighted by the
// learner's history. Unviewed biases always win over viewed ones; among
// viewed biases, recently seen ones are pushed down and stale ones up.
func PersonalizedDailyBias(biases []catalog.Bias, list []progress.BiasProgress, dateKey string, now time.Time) (catalog.Bias, error) {
	if len(biases) == 0 {
		return catalog.Bias{}, catalog.ErrEmptyCatalog
	}

	byID := progress.ByID(list)
	candidates := make([]scored, len(biases))
	for i, b := range biases {
		p, ok := byID[b.ID]
		viewed := ok && p.Viewed()
		candidates[i] = scored{
			bias:   b,
			score:  priority(p, viewed, now) + jitter(dateKey, b.ID),
			viewed: viewed,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].bias.ID < candidates[j].bias.ID
	})

	// Only choose among biases in the same tier as the best candidate, so a
	// viewed bias can never displace an unviewed one.
	tier := candidates[0].viewed
	top := make([]scored, 0, maxCandidates)
	for _, c := range candidates {
		if c.viewed != tier {
			break
		}
		top = append(top, c)
		if len(top) == maxCandidates {
			break
		}
	}

	idx := hashString(dateKey) % int64(len(top))
	return top[idx].bias, nil
}

func priority(p progress.BiasProgress, viewed bool, now time.Time) int {
	score := baseScore
	if !viewed {
		return score + unviewedBonus
	}

	since := now.Sub(p.ViewedAt)
	if p.Mastered {
		score -= masteredPenalty
		if since > masteredReviewGap {
			score += masteredReviewBump
		}
	} else {
		score += unmasteredBonus
		switch {
		case since > 7*day:
			score += staleWeekBonus
		case since > 3*day:
			score += staleFewDaysBonus
		case since < day:
			score -= recentPenalty
		}
	}

	if p.ViewCount > heavyViewThreshold {
		score -= p.ViewCount * heavyViewPenalty
	}
	return score
}

// jitter spreads equally ranked biases differently on each day (-50..49).
func jitter(dateKey, biasID string) int {
	return int(hashString(dateKey+biasID)%jitterRange) - jitterRange/2
}

// CategoryDistribution counts viewed biases per category. Every category in
// the catalog, and every canonical category, appears in the result.
func CategoryDistribution(list []progress.BiasProgress, biases []catalog.Bias) map[catalog.Category]int {
	dist := make(map[catalog.Category]int)
	for _, c := range catalog.AllCategories() {
		dist[c] = 0
	}

	byID := progress.ByID(list)
	for _, b := range biases {
		if _, ok := dist[b.Category]; !ok {
			dist[b.Category] = 0
		}
		if _, ok := byID[b.ID]; ok {
			dist[b.Category]++
		}
	}
	return dist
}

// BalancedRecommendation returns the first unviewed bias of the least
// explored category that still has one. It returns false once every bias
// has a progress record.
func BalancedRecommendation(biases []catalog.Bias, list []progress.BiasProgress) (catalog.Bias, bool) {
	dist := CategoryDistribution(list, biases)
	byID := progress.ByID(list)

	order := make(map[catalog.Category]int)
	for i, c := range catalog.AllCategories() {
		order[c] = i
	}
	first := make(map[catalog.Category]catalog.Bias)
	for _, b := range biases {
		if _, seen := byID[b.ID]; seen {
			continue
		}
		if _, ok := first[b.Category]; !ok {
			first[b.Category] = b
		}
	}
	if len(first) == 0 {
		return catalog.Bias{}, false
	}

	categories := make([]catalog.Category, 0, len(first))
	for c := range first {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		ci, cj := categories[i], categories[j]
		if dist[ci] != dist[cj] {
			return dist[ci] < dist[cj]
		}
		oi, okI := order[ci]
		oj, okJ := order[cj]
		if okI != okJ {
			return okI
		}
		if oi != oj {
			return oi < oj
		}
		return ci < cj
	})
	return first[categories[0]], true
}

package daily

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
)

func threeBiases() []catalog.Bias {
	return []catalog.Bias{
		{ID: "anchoring-bias", Title: "Anchoring Bias", Category: catalog.CategoryDecision},
		{ID: "hindsight-bias", Title: "Hindsight Bias", Category: catalog.CategoryMemory},
		{ID: "halo-effect", Title: "Halo Effect", Category: catalog.CategorySocial},
	}
}

func manyBiases(n int) []catalog.Bias {
	cats := catalog.AllCategories()
	out := make([]catalog.Bias, n)
	for i := range out {
		out[i] = catalog.Bias{ID: fmt.Sprintf("bias-%02d", i), Category: cats[i%len(cats)]}
	}
	return out
}

func TestHashString_KnownValues(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"a", 97},
		{"ab", 97*31 + 98},
	}
	for _, tt := range tests {
		if got := hashString(tt.in); got != tt.want {
			t.Errorf("hashString(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHashString_NonNegative(t *testing.T) {
	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("2024-%02d-%02d-some-long-suffix-%d", i%12+1, i%28+1, i)
		if h := hashString(key); h < 0 {
			t.Fatalf("hashString(%q) = %d, want >= 0", key, h)
		}
	}
}

func TestDailyBias_Deterministic(t *testing.T) {
	biases := manyBiases(17)
	for _, date := range []string{"2024-01-15", "2024-02-29", "2025-12-31"} {
		first, err := DailyBias(biases, date)
		if err != nil {
			t.Fatalf("DailyBias(%s): %v", date, err)
		}
		second, _ := DailyBias(biases, date)
		if first.ID != second.ID {
			t.Errorf("DailyBias(%s) not deterministic: %s vs %s", date, first.ID, second.ID)
		}
		want := biases[hashString(date)%int64(len(biases))]
		if first.ID != want.ID {
			t.Errorf("DailyBias(%s) = %s, want %s", date, first.ID, want.ID)
		}
	}
}

func TestDailyBias_EmptyCatalog(t *testing.T) {
	_, err := DailyBias(nil, "2024-01-15")
	if !errors.Is(err, catalog.ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestPersonalizedDailyBias_EmptyCatalog(t *testing.T) {
	_, err := PersonalizedDailyBias(nil, nil, "2024-01-15", time.Now())
	if !errors.Is(err, catalog.ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestPersonalizedDailyBias_ScenarioFreshCatalog(t *testing.T) {
	biases := threeBiases()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	first, err := PersonalizedDailyBias(biases, nil, "2024-01-15", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := catalog.Find(biases, first.ID); !ok {
		t.Fatalf("returned bias %q not in catalog", first.ID)
	}

	viewed := []progress.BiasProgress{progress.New(first.ID, now)}
	second, err := PersonalizedDailyBias(biases, viewed, "2024-01-15", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("returned just-viewed bias %q while unviewed alternatives exist", first.ID)
	}
}

func TestPersonalizedDailyBias_NeverPrefersViewedOverUnviewed(t *testing.T) {
	biases := manyBiases(12)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	// Everything except one bias has been viewed, some long ago.
	var list []progress.BiasProgress
	for i, b := range biases[:len(biases)-1] {
		p := progress.New(b.ID, now.Add(-time.Duration(i*3)*24*time.Hour))
		list = append(list, p)
	}
	unviewed := biases[len(biases)-1].ID

	for d := 1; d <= 28; d++ {
		date := fmt.Sprintf("2024-03-%02d", d)
		got, err := PersonalizedDailyBias(biases, list, date, now)
		if err != nil {
			t.Fatalf("%s: %v", date, err)
		}
		if got.ID != unviewed {
			t.Fatalf("%s: got %s, want the only unviewed bias %s", date, got.ID, unviewed)
		}
	}
}

func TestPersonalizedDailyBias_AvoidsRecentWhenAllViewed(t *testing.T) {
	biases := manyBiases(10)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	var list []progress.BiasProgress
	for _, b := range biases {
		list = append(list, progress.New(b.ID, now.Add(-10*24*time.Hour)))
	}
	recent := biases[3].ID
	list[3] = progress.New(recent, now.Add(-time.Hour))

	for d := 1; d <= 28; d++ {
		date := fmt.Sprintf("2024-03-%02d", d)
		got, err := PersonalizedDailyBias(biases, list, date, now)
		if err != nil {
			t.Fatalf("%s: %v", date, err)
		}
		if got.ID == recent {
			t.Fatalf("%s: selected bias viewed an hour ago", date)
		}
	}
}

func TestPersonalizedDailyBias_Deterministic(t *testing.T) {
	biases := manyBiases(20)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	list := []progress.BiasProgress{progress.New(biases[0].ID, now.Add(-2*24*time.Hour))}

	a, _ := PersonalizedDailyBias(biases, list, "2024-03-01", now)
	b, _ := PersonalizedDailyBias(biases, list, "2024-03-01", now)
	if a.ID != b.ID {
		t.Errorf("not deterministic: %s vs %s", a.ID, b.ID)
	}
}

func TestPriority_StalenessOrdering(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(ago time.Duration) progress.BiasProgress {
		return progress.BiasProgress{BiasID: "x", ViewedAt: now.Add(-ago), ViewCount: 1}
	}

	recent := priority(at(2*time.Hour), true, now)
	mid := priority(at(2*day), true, now)
	fewDays := priority(at(4*day), true, now)
	stale := priority(at(8*day), true, now)
	unviewed := priority(progress.BiasProgress{}, false, now)

	if !(recent < mid && mid < fewDays && fewDays < stale && stale < unviewed) {
		t.Errorf("unexpected ordering: recent=%d mid=%d fewDays=%d stale=%d unviewed=%d",
			recent, mid, fewDays, stale, unviewed)
	}
}

func TestPriority_MasteredAndHeavyViews(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	base := progress.BiasProgress{BiasID: "x", ViewedAt: now.Add(-5 * day), ViewCount: 1}

	mastered := base
	mastered.Mastered = true
	if priority(mastered, true, now) >= priority(base, true, now) {
		t.Error("mastered bias should rank below unmastered bias")
	}

	heavy := base
	heavy.ViewCount = 20
	if got, want := priority(heavy, true, now), priority(base, true, now)-200; got != want {
		t.Errorf("heavy view priority = %d, want %d", got, want)
	}
}

func TestCategoryDistribution(t *testing.T) {
	biases := threeBiases()
	list := []progress.BiasProgress{{BiasID: "anchoring-bias"}, {BiasID: "halo-effect"}, {BiasID: "not-in-catalog"}}

	dist := CategoryDistribution(list, biases)
	for _, c := range catalog.AllCategories() {
		if _, ok := dist[c]; !ok {
			t.Errorf("category %s missing from distribution", c)
		}
	}
	if dist[catalog.CategoryDecision] != 1 || dist[catalog.CategorySocial] != 1 || dist[catalog.CategoryMemory] != 0 {
		t.Errorf("unexpected distribution: %v", dist)
	}
}

func TestBalancedRecommendation(t *testing.T) {
	biases := []catalog.Bias{
		{ID: "d1", Category: catalog.CategoryDecision},
		{ID: "d2", Category: catalog.CategoryDecision},
		{ID: "m1", Category: catalog.CategoryMemory},
		{ID: "m2", Category: catalog.CategoryMemory},
	}

	// Decision has one viewed, memory none: memory is least explored.
	got, ok := BalancedRecommendation(biases, []progress.BiasProgress{{BiasID: "d1"}})
	if !ok || got.ID != "m1" {
		t.Errorf("got (%s, %v), want (m1, true)", got.ID, ok)
	}

	// Perception, social and misc have no biases at all, so they are
	// never candidates.
	got, ok = BalancedRecommendation(biases, []progress.BiasProgress{{BiasID: "d1"}, {BiasID: "m1"}, {BiasID: "m2"}})
	if !ok || got.ID != "d2" {
		t.Errorf("got (%s, %v), want (d2, true)", got.ID, ok)
	}
}

func TestBalancedRecommendation_SkipsFullyViewedCategory(t *testing.T) {
	biases := []catalog.Bias{
		{ID: "m1", Category: catalog.CategoryMemory},
		{ID: "m2", Category: catalog.CategoryMemory},
		{ID: "m3", Category: catalog.CategoryMemory},
		{ID: "m4", Category: catalog.CategoryMemory},
		{ID: "d1", Category: catalog.CategoryDecision},
		{ID: "d2", Category: catalog.CategoryDecision},
	}
	list := []progress.BiasProgress{{BiasID: "m1"}, {BiasID: "m2"}, {BiasID: "m3"}, {BiasID: "d1"}}

	// Decision (1 viewed) is explored less than memory (3 viewed).
	got, ok := BalancedRecommendation(biases, list)
	if !ok || got.ID != "d2" {
		t.Errorf("got (%s, %v), want (d2, true)", got.ID, ok)
	}

	// Once decision is fully viewed only memory has candidates left.
	list = append(list, progress.BiasProgress{BiasID: "d2"})
	got, ok = BalancedRecommendation(biases, list)
	if !ok || got.ID != "m4" {
		t.Errorf("got (%s, %v), want (m4, true)", got.ID, ok)
	}
}

func TestBalancedRecommendation_CoverageTermination(t *testing.T) {
	biases := threeBiases()
	var list []progress.BiasProgress
	for i, b := range biases {
		if _, ok := BalancedRecommendation(biases, list); !ok {
			t.Fatalf("returned none after only %d of %d biases recorded", i, len(biases))
		}
		list = append(list, progress.BiasProgress{BiasID: b.ID})
	}
	if got, ok := BalancedRecommendation(biases, list); ok {
		t.Errorf("expected none once every bias is recorded, got %s", got.ID)
	}
}

func TestDateKey(t *testing.T) {
	ts := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	if got := DateKey(ts, nil); got != "2024-01-15" {
		t.Errorf("DateKey UTC = %s", got)
	}
	tokyo := time.FixedZone("JST", 9*60*60)
	if got := DateKey(ts, tokyo); got != "2024-01-16" {
		t.Errorf("DateKey JST = %s", got)
	}
}

package components

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/progress"
	"github.com/debiasdaily/debias/internal/spacedrep"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

// BiasCard renders a bias with its learning state inside a bordered card.
// A zero progress record is shown as new.
func BiasCard(b catalog.Bias, p progress.BiasProgress, now time.Time, width int) string {
	inner := max(width-6, 20)
	text := lipgloss.NewStyle().Width(inner).Foreground(theme.Text)

	var s strings.Builder
	s.WriteString(theme.Title.Render(b.Title))
	s.WriteString("  ")
	s.WriteString(theme.CategoryBadge(b.Category))
	if b.Source == catalog.SourceUser {
		s.WriteString(theme.Muted.Render("  (yours)"))
	}
	s.WriteString("\n\n")
	s.WriteString(text.Render(b.Summary))

	if b.Why != "" {
		s.WriteString("\n\n")
		s.WriteString(theme.Label.Render("Why it happens"))
		s.WriteString("\n")
		s.WriteString(text.Render(b.Why))
	}
	if b.Counter != "" {
		s.WriteString("\n\n")
		s.WriteString(theme.Label.Render("Counter it"))
		s.WriteString("\n")
		s.WriteString(text.Render(b.Counter))
	}

	s.WriteString("\n\n")
	s.WriteString(theme.Muted.Render(StatusLine(p, now)))

	return theme.Card.Width(width).Render(s.String())
}

// StatusLine summarizes views, mastery and review timing for p.
func StatusLine(p progress.BiasProgress, now time.Time) string {
	if !p.Viewed() {
		return "New"
	}
	parts := []string{fmt.Sprintf("Viewed %d×", p.ViewCount)}
	if p.Mastered {
		parts = append(parts, "Mastered")
	}
	if p.ReviewInitialized() {
		parts = append(parts, spacedrep.IntervalLevelName(spacedrep.IntervalLevel(p.Interval)))
	}
	parts = append(parts, spacedrep.DueText(p, now))
	return strings.Join(parts, " · ")
}

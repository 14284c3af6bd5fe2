package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/debiasdaily/debias/internal/catalog"
)

// Color palette, calm and high-contrast on dark terminals
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)
)

// Layout
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Muted = lipgloss.NewStyle().
		Foreground(TextDim)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

// CategoryColor returns the badge color for a bias category.
func CategoryColor(c catalog.Category) color.Color {
	switch c {
	case catalog.CategoryDecision:
		return lipgloss.Color("#F97316")
	case catalog.CategoryMemory:
		return lipgloss.Color("#A855F7")
	case catalog.CategorySocial:
		return lipgloss.Color("#0EA5E9")
	case catalog.CategoryPerception:
		return lipgloss.Color("#EAB308")
	default:
		return TextDim
	}
}

// CategoryBadge renders the category label in its color.
func CategoryBadge(c catalog.Category) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(c)).Bold(true).Render(c.Label())
}

package catalog

import "time"

// Category groups biases by the kind of judgement they distort.
type Category string

const (
	CategoryDecision   Category = "decision"
	CategoryMemory     Category = "memory"
	CategorySocial     Category = "social"
	CategoryPerception Category = "perception"
	CategoryMisc       Category = "misc"
)

// AllCategories returns every category in canonical display order.
func AllCategories() []Category {
	return []Category{
		CategoryDecision,
		CategoryMemory,
		CategorySocial,
		CategoryPerception,
		CategoryMisc,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryDecision, CategoryMemory, CategorySocial, CategoryPerception, CategoryMisc:
		return true
	}
	return false
}

// Label returns a human-readable name for the category.
func (c Category) Label() string {
	switch c {
	case CategoryDecision:
		return "Decision Making"
	case CategoryMemory:
		return "Memory"
	case CategorySocial:
		return "Social"
	case CategoryPerception:
		return "Perception"
	case CategoryMisc:
		return "Miscellaneous"
	default:
		return string(c)
	}
}

// Source distinguishes bundled biases from learner-authored ones.
type Source string

const (
	SourceCore Source = "core"
	SourceUser Source = "user"
)

// Bias is a single learnable content item.
type Bias struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	Summary   string    `json:"summary"`
	Why       string    `json:"why"`
	Counter   string    `json:"counter"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

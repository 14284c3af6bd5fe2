package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector over quiz options.
type MultiChoice struct {
	Options     []quiz.Option
	Selected    int
	Submitted   bool
	ChosenIndex int
	keys        KeyMap
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []quiz.Option) MultiChoice {
	return MultiChoice{
		Options:     options,
		ChosenIndex: -1,
		keys:        DefaultKeyMap(),
	}
}

// Update handles keyboard navigation and selection. Digits answer directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, m.keys.Up):
		if m.Selected > 0 {
			m.Selected--
		}
	case key.Matches(kmsg, m.keys.Down):
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case key.Matches(kmsg, m.keys.Choose):
		i := int(kmsg.String()[0] - '1')
		if i < len(m.Options) {
			m.Selected = i
			m.submit()
		}
	case key.Matches(kmsg, m.keys.Submit):
		m.submit()
	}
	return m, nil
}

func (m *MultiChoice) submit() {
	m.Submitted = true
	m.ChosenIndex = m.Selected
}

// View renders the options. After submission the correct option is green
// and a wrong choice red.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt.Title)

		switch {
		case m.Submitted && opt.IsCorrect:
			b.WriteString(theme.Correct.Render(line))
		case m.Submitted && i == m.ChosenIndex:
			b.WriteString(theme.Incorrect.Render(line))
		case m.Submitted:
			b.WriteString(theme.Muted.Render(line))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Chosen returns the submitted option.
func (m MultiChoice) Chosen() (quiz.Option, bool) {
	if !m.Submitted || m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return quiz.Option{}, false
	}
	return m.Options[m.ChosenIndex], true
}

// IsCorrect returns true if the learner chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	opt, ok := m.Chosen()
	return ok && opt.IsCorrect
}

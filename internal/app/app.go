// Package app runs the interactive quiz in the terminal.
package app

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/debiasdaily/debias/internal/catalog"
	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/ui/components"
	"github.com/debiasdaily/debias/internal/ui/layout"
)

type phase int

const (
	phaseAsking phase = iota
	phaseFeedback
	phaseSummary
)

// QuizModel is the root Bubble Tea model of a quiz run.
type QuizModel struct {
	session quiz.Session
	biases  []catalog.Bias
	now     func() time.Time
	keys    components.KeyMap

	phase       phase
	index       int
	choice      components.MultiChoice
	askedAt     time.Time
	lastCorrect bool
	err         error

	width  int
	height int
}

// NewQuizModel creates a model for an unanswered session. biases resolves
// correct answers for feedback; a nil now uses time.Now.
func NewQuizModel(s quiz.Session, biases []catalog.Bias, now func() time.Time) QuizModel {
	if now == nil {
		now = time.Now
	}
	m := QuizModel{
		session: s,
		biases:  biases,
		now:     now,
		keys:    components.DefaultKeyMap(),
	}
	m.index = s.NextUnanswered()
	if m.index < 0 || s.Completed() {
		m.phase = phaseSummary
		return m
	}
	m.ask(m.index)
	return m
}

func (m *QuizModel) ask(i int) {
	m.index = i
	m.phase = phaseAsking
	m.choice = components.NewMultiChoice(m.session.Questions[i].Options)
	m.askedAt = m.now()
}

// Session returns the session in its current state. Once the program has
// exited it is completed or abandoned.
func (m QuizModel) Session() quiz.Session {
	return m.session
}

// Err returns the last answer-processing error, if any.
func (m QuizModel) Err() error {
	return m.err
}

func (m QuizModel) Init() tea.Cmd {
	return nil
}

func (m QuizModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		switch m.phase {
		case phaseAsking:
			return m.updateAsking(msg)
		case phaseFeedback:
			if key.Matches(msg, m.keys.Continue) {
				return m.advance(), nil
			}
		case phaseSummary:
			if key.Matches(msg, m.keys.Continue) || msg.String() == "q" {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m QuizModel) updateAsking(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.choice, cmd = m.choice.Update(msg)
	opt, ok := m.choice.Chosen()
	if !ok {
		return m, cmd
	}

	now := m.now()
	elapsed := now.Sub(m.askedAt).Milliseconds()
	s, correct, err := quiz.ProcessAnswer(m.session, m.index, opt.BiasID, elapsed, now)
	if err != nil {
		m.err = err
		return m, cmd
	}
	m.session = s
	m.lastCorrect = correct
	m.phase = phaseFeedback
	return m, cmd
}

// advance moves to the next unanswered question or completes the session.
func (m QuizModel) advance() QuizModel {
	if next := m.session.NextUnanswered(); next >= 0 {
		m.ask(next)
		return m
	}
	s, err := quiz.Complete(m.session, m.now())
	if err != nil {
		m.err = err
	}
	m.session = s
	m.phase = phaseSummary
	return m
}

// quit finalizes the session and exits. Leaving before the last answer
// marks the session abandoned.
func (m QuizModel) quit() (tea.Model, tea.Cmd) {
	if !m.session.Completed() {
		m.session = quiz.Abandon(m.session, m.now())
	}
	return m, tea.Quit
}

func (m QuizModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	var title, status string
	var content string
	var hints []layout.KeyHint
	switch m.phase {
	case phaseAsking:
		title = "Which bias is this?"
		status = fmt.Sprintf("Q %d/%d", m.index+1, m.session.TotalQuestions)
		content = m.renderQuestion()
		hints = []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseFeedback:
		title = "Which bias is this?"
		status = fmt.Sprintf("Q %d/%d", m.index+1, m.session.TotalQuestions)
		content = m.renderFeedback()
		hints = []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		title = "Quiz complete"
		status = fmt.Sprintf("%d/%d", m.session.Score, m.session.TotalQuestions)
		content = m.renderSummary()
		hints = []layout.KeyHint{{Key: "Enter", Description: "Done"}}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)
	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, content)

	v.SetContent(layout.RenderFrame(header, body, footer, m.width, m.height))
	return v
}

// Run shows the quiz until it is finished or the learner quits, and
// returns the finalized session.
func Run(ctx context.Context, s quiz.Session, biases []catalog.Bias) (quiz.Session, error) {
	p := tea.NewProgram(NewQuizModel(s, biases, nil), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return quiz.Abandon(s, time.Now()), err
	}
	m, ok := final.(QuizModel)
	if !ok {
		return quiz.Abandon(s, time.Now()), fmt.Errorf("unexpected model %T", final)
	}
	return m.Session(), m.Err()
}

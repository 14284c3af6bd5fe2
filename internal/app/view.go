package app

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/debiasdaily/debias/internal/quiz"
	"github.com/debiasdaily/debias/internal/ui/components"
	"github.com/debiasdaily/debias/internal/ui/layout"
	"github.com/debiasdaily/debias/internal/ui/theme"
)

func (m QuizModel) renderQuestion() string {
	q := m.session.Questions[m.index]
	w := layout.ContentWidth(m.width)

	var b strings.Builder
	b.WriteString(theme.Muted.Render(strings.ToUpper(string(q.Difficulty))))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(w).Foreground(theme.Text).Bold(true).Render(q.Scenario))
	b.WriteString("\n\n")
	b.WriteString(m.choice.View())
	return b.String()
}

func (m QuizModel) renderFeedback() string {
	q := m.session.Questions[m.index]
	w := layout.ContentWidth(m.width)
	text := lipgloss.NewStyle().Width(w).Foreground(theme.Text)

	var b strings.Builder
	if m.lastCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("Not quite"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.choice.View())

	if answer, ok := quiz.CorrectAnswer(q, m.biases); ok {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render(answer.Title))
		b.WriteString("\n")
		b.WriteString(text.Render(answer.Summary))
		if answer.Counter != "" {
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Render(text.Render("Tip: " + answer.Counter)))
		}
	}
	return b.String()
}

func (m QuizModel) renderSummary() string {
	s := m.session
	fb := quiz.ScoreFeedback(s.Score, s.TotalQuestions)
	w := layout.ContentWidth(m.width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(fb.Emoji + "  " + fb.Title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(w).Foreground(theme.Text).Render(fb.Message))
	b.WriteString("\n\n")
	label := fmt.Sprintf("%d of %d correct", s.Score, s.TotalQuestions)
	b.WriteString(components.NewProgressBar(label, components.Ratio(s.Score, s.TotalQuestions), true, w).View())

	missed := missedTitles(s)
	if len(missed) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Label.Render("Worth another look"))
		for _, title := range missed {
			b.WriteString("\n  • ")
			b.WriteString(theme.Body.Render(title))
		}
	}
	return b.String()
}

// missedTitles lists the correct answers of wrongly answered questions in
// question order.
func missedTitles(s quiz.Session) []string {
	var out []string
	for i, q := range s.Questions {
		for _, a := range s.Attempts {
			if a.QuestionIndex != i || a.IsCorrect {
				continue
			}
			for _, opt := range q.Options {
				if opt.IsCorrect {
					out = append(out, opt.Title)
				}
			}
		}
	}
	return out
}

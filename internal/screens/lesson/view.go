package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/agrovision/academy/internal/rewards"
	sess "github.com/agrovision/academy/internal/session"
	"github.com/agrovision/academy/internal/ui/components"
	"github.com/agrovision/academy/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\n%s", s.errMsg))
	}
	if !s.started {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Opening lesson...")
	}

	cw := components.ContentWidth(width)
	var body string
	switch s.snap.Phase {
	case sess.PhaseShowingText:
		body = s.renderReading(cw)
	case sess.PhaseCompleted:
		body = s.renderResult(cw)
	default:
		body = s.renderQuestion(cw)
	}

	return components.Center(s.renderInfoLine(cw)+"\n\n"+body, width, height)
}

// renderInfoLine shows the node title and question progress.
func (s *LessonScreen) renderInfoLine(cw int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(s.snap.NodeTitle)

	var right string
	if s.snap.Total > 0 && s.snap.Phase != sess.PhaseCompleted {
		right = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Q %d/%d  %s %d",
				s.snap.Index+1, s.snap.Total,
				lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
				s.snap.Score,
			))
	}

	line := left
	if pad := cw - lipgloss.Width(left) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
}

// renderTexts renders the lesson's reading material.
func (s *LessonScreen) renderTexts(cw int) string {
	if len(s.snap.Texts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Render(strings.Join(s.snap.Texts, "\n\n"))
}

func (s *LessonScreen) renderReading(cw int) string {
	hint := theme.Hint.Render("Press Enter when you are done reading.")
	return components.Card(s.renderTexts(cw-6), cw, theme.Border) + "\n\n" + hint
}

func (s *LessonScreen) renderQuestion(cw int) string {
	var b strings.Builder

	if s.snap.Index == 0 {
		if texts := s.renderTexts(cw - 6); texts != "" {
			b.WriteString(components.Card(texts, cw, theme.Border))
			b.WriteString("\n\n")
		}
	}

	b.WriteString(s.choice.View())

	switch s.snap.Status {
	case sess.StatusCorrect:
		b.WriteString("\n")
		b.WriteString(theme.Correct.Render(fmt.Sprintf("✓ %s  %+d", rewards.MsgCorrect, rewards.PointsCorrect)))
	case sess.StatusIncorrect:
		b.WriteString("\n")
		msg := rewards.MsgWrong
		if right, ok := s.choice.Question.CorrectOption(); ok {
			msg = fmt.Sprintf("%s  The answer was %s) %s", msg, right.ID, right.Text)
		}
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("✗ %s  %+d", msg, rewards.PointsWrong)))
	default:
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Pick an answer with a, b or c."))
	}
	return b.String()
}

func (s *LessonScreen) renderResult(cw int) string {
	var lines []string
	lines = append(lines, theme.Title.Render("🌾 "+rewards.MsgNodeComplete))
	if s.snap.ShowResult && s.snap.Total > 0 {
		pct := s.snap.Score * 100 / s.snap.Total
		lines = append(lines,
			"",
			theme.Body.Render(fmt.Sprintf("You answered %d of %d correctly (%d%%).", s.snap.Score, s.snap.Total, pct)),
			"",
			components.NewProgressBar("Score", float64(s.snap.Score)/float64(s.snap.Total), cw-8).
				WithDetail(fmt.Sprintf("%d/%d correct", s.snap.Score, s.snap.Total)).
				View(),
		)
	}

	next, ok := s.engine.Next()
	lines = append(lines, "")
	if ok && next.ID != s.nodeID {
		lines = append(lines, theme.Hint.Render("Enter: continue to "+next.Title))
	} else {
		lines = append(lines, theme.Hint.Render("Enter: back"))
	}

	return components.Card(lipgloss.JoinVertical(lipgloss.Center, lines...), cw, theme.Primary)
}

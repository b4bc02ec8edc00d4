package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/becominglabs/becoming/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateHabits:
		content = docStyle.Render(m.habitList.View())
	case constants.StateEdge:
		content = docStyle.Render(m.viewEdge())
	case constants.StateAddHabit, constants.StateAddQuality, constants.StateCheckInNote:
		content = m.form.View()
	case constants.StateConfirmation, constants.StateConfirmDelete:
		content = m.viewConfirmation()
	}

	var banner string
	if m.formError != "" {
		banner = dangerStyle.Render("✗ " + m.formError)
	} else if m.statusMessage != "" {
		banner = statusStyle.Render(m.statusMessage)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Habits", "Growth Edge"} {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewEdge() string {
	var b strings.Builder

	b.WriteString(edgeTitleStyle.Render("Growth edge: " + m.edge.QualityName))
	b.WriteString("\n")
	if m.edge.QualityID != "" {
		b.WriteString(fmt.Sprintf("Strength %.1f / 100 (%s), %d evidence records\n",
			m.edge.Strength, m.edge.Tier, m.edge.EvidenceCount))
	}
	b.WriteString("\n" + m.edge.Recommendation + "\n")
	for _, action := range m.edge.SuggestedActions {
		b.WriteString("  • " + action + "\n")
	}

	if len(m.qualities) > 0 {
		b.WriteString("\nAll qualities:\n")
		for _, q := range m.qualities {
			filled := int(q.Strength / 100 * 20)
			if filled > 20 {
				filled = 20
			}
			bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
			b.WriteString(fmt.Sprintf("  %-20s %s %5.1f\n", q.QualityName, bar, q.Strength))
		}
	}

	b.WriteString("\nPress 'a' to track a new quality.")
	return b.String()
}

func (m Model) viewConfirmation() string {
	style := statusStyle
	if m.state == constants.StateConfirmDelete {
		style = dangerStyle
	}
	return docStyle.Render(style.Render(m.confirmMessage) + "\n\n[y] yes  [n] no")
}

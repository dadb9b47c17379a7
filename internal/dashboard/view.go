package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rhalstead/wgdash/internal/ui"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(string(ui.ColorInfo)))
	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(string(ui.ColorMuted)))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(string(ui.ColorError)))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(string(ui.ColorWarning)))
)

// render draws header, table, input line, and footer.
func (m Model) render() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(subtleStyle.Render("loading clients..."))
		b.WriteString("\n")
	} else if len(m.clients) == 0 {
		b.WriteString(subtleStyle.Render("No clients yet. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderActionLine())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("wgdash")
	who := ""
	if m.username != "" {
		who = subtleStyle.Render(" · " + m.username)
	}

	online := m.snapshot.OnlineCount(m.now())
	counts := subtleStyle.Render(fmt.Sprintf("  %d clients, %d online", len(m.clients), online))

	stale := ""
	if m.snapshot.LastError() != nil && !m.snapshot.LastUpdate().IsZero() {
		stale = warnStyle.Render("  (stats stale)")
	}

	return title + who + counts + stale
}

// renderActionLine shows whichever workflow is active: the add-client input,
// the removal confirmation, or the last error.
func (m Model) renderActionLine() string {
	switch m.mode {
	case modeAdding:
		prompt := "add client: " + m.input.View()
		if m.creating {
			prompt += subtleStyle.Render("  creating...")
		}
		return prompt

	case modeConfirm:
		return warnStyle.Render(fmt.Sprintf("remove client %q? this cannot be undone (y/n)", m.pendingRemove.Name))
	}

	if m.errText != "" {
		return errorStyle.Render(ui.SymbolFail + " " + m.errText)
	}
	return ""
}

func (m Model) renderFooter() string {
	if m.mode == modeAdding {
		return subtleStyle.Render("enter save · esc cancel")
	}
	return subtleStyle.Render("a add · e enable · d disable · x remove · r refresh · q quit")
}

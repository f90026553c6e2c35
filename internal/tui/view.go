// ABOUTME: Rendering for the tracker and history screens.
// ABOUTME: History rows are shifted horizontally by their swipe offset converted to terminal columns.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/moodlog/internal/gesture"
	"github.com/2389-research/moodlog/internal/models"
)

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Underline(true)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	timeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dismissStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	emptyStyle       = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// View implements tea.Model.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")

	if m.tab == TabTracker {
		b.WriteString(m.trackerView())
		b.WriteString("\n")
		b.WriteString(m.help.View(trackerKeys{m.keys}))
	} else {
		b.WriteString(m.historyView())
		b.WriteString("\n")
		b.WriteString(m.help.View(historyKeys{m.keys}))
	}
	b.WriteString("\n")
	return b.String()
}

func (m AppModel) tabBar() string {
	tracker := inactiveTabStyle.Render("Tracker")
	history := inactiveTabStyle.Render(fmt.Sprintf("History (%d)", len(m.ctx.MoodList)))
	if m.tab == TabTracker {
		tracker = activeTabStyle.Render("Tracker")
	} else {
		history = activeTabStyle.Render(fmt.Sprintf("History (%d)", len(m.ctx.MoodList)))
	}
	return " " + tracker + "   " + history
}

// trackerView renders trackerHeaderLines lines before the first option.
func (m AppModel) trackerView() string {
	var b strings.Builder
	b.WriteString(" How are you feeling?\n\n")
	for i, opt := range models.MoodOptions {
		line := fmt.Sprintf("%d. %s %s", i+1, opt.Emoji, opt.Description)
		if i == m.optionCursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(" " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

// historyView renders rows starting historyHeaderLines below the top.
func (m AppModel) historyView() string {
	list := m.displayed()
	if len(list) == 0 {
		return emptyStyle.Render(" No moods recorded yet. Press tab to add one.") + "\n"
	}

	var b strings.Builder
	for i, entry := range list {
		b.WriteString(m.renderRow(i, entry))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(" " + m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m AppModel) renderRow(i int, entry models.MoodEntry) string {
	selected := i == m.historyCursor
	prefix := "  "
	if selected {
		prefix = "> "
	}

	row, ok := m.rows[entry.Timestamp]
	if !ok || (row.State() == gesture.Idle && row.Offset() == 0) {
		line := fmt.Sprintf("%s %s  %s", entry.Mood.Emoji, entry.Mood.Description, timeStyle.Render(entry.FormatTime()))
		if selected {
			return cursorStyle.Render(prefix) + line
		}
		return prefix + line
	}

	plain := fmt.Sprintf("%s%s %s  %s", prefix, entry.Mood.Emoji, entry.Mood.Description, entry.FormatTime())
	cells := shiftCells(row.Offset(), m.opts.CellUnits)
	switch {
	case cells > 0:
		plain = strings.Repeat(" ", cells) + plain
	case cells < 0:
		plain = trimLeftCells(plain, -cells)
	}

	style := lipgloss.NewStyle()
	if row.State() == gesture.Dismissing || (row.State() == gesture.Dragging && math.Abs(row.Offset()) > row.Threshold()) {
		style = dismissStyle
	} else if selected {
		style = cursorStyle
	}
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(plain)
}

// shiftCells converts a gesture offset into whole terminal columns.
func shiftCells(offset, cellUnits float64) int {
	if cellUnits <= 0 {
		return 0
	}
	return int(offset / cellUnits)
}

// trimLeftCells removes the first n display cells of an unstyled string.
func trimLeftCells(s string, n int) string {
	dropped := 0
	for i, r := range s {
		if dropped >= n {
			return s[i:]
		}
		dropped += lipgloss.Width(string(r))
	}
	return ""
}

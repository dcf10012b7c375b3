package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/tui/styles"
)

// History displays recently played tracks
type History struct {
	now func() time.Time
}

// NewHistory creates a new History component
func NewHistory() *History {
	return &History{now: time.Now}
}

// Render renders the history panel
func (h *History) Render(entries []core.HistoryEntry, width, height int, focused bool) string {
	title := styles.PanelTitle("History", focused)

	var content string
	if len(entries) == 0 {
		content = styles.Muted.Render("No history yet")
	} else {
		content = h.renderHistory(entries, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (h *History) renderHistory(entries []core.HistoryEntry, width, maxLines int) string {
	lines := make([]string, 0, maxLines)

	for _, entry := range entries {
		if len(lines) >= maxLines {
			break
		}
		track := entry.Track
		if track == nil {
			continue
		}

		ago := humanize.RelTime(entry.PlayedAt, h.now(), "ago", "from now")
		agoWidth := runewidth.StringWidth(ago)

		// icon + space, then title, at least one space, then the age
		available := width - 2 - agoWidth - 1
		name := truncate(track.Title, available)
		padding := max(width-2-runewidth.StringWidth(name)-agoWidth, 1)

		line := fmt.Sprintf("%s %s%*s%s",
			styles.Dim.Render(styles.Icon(styles.IconOK)),
			name,
			padding, "",
			styles.Dim.Render(ago))

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/tui/styles"
)

// Queue displays the playback queue
type Queue struct {
	cursor
}

// NewQueue creates a new Queue component
func NewQueue() *Queue {
	return &Queue{}
}

// Render renders the queue panel
func (q *Queue) Render(snap *core.Snapshot, width, height int, focused bool) string {
	header := "Queue"
	if snap != nil && len(snap.Queue) > 0 {
		header = fmt.Sprintf("Queue (%d)", len(snap.Queue))
	}
	title := styles.PanelTitle(header, focused)

	var content string
	if snap == nil || len(snap.Queue) == 0 {
		q.cursor.Reset()
		content = styles.Muted.Render("Queue is empty")
	} else {
		content = q.renderQueue(snap, width-4, height-4, focused)
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

func (q *Queue) renderQueue(snap *core.Snapshot, width, maxLines int, focused bool) string {
	tracks := snap.Queue
	start, end := q.window(len(tracks), maxLines)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		track := tracks[i]

		marker := "  "
		if i == snap.Index {
			marker = styles.Icon(styles.IconCurrent) + " "
		}
		num := fmt.Sprintf("%3d.", i+1)

		// "NNN. " + marker + " MM:SS"
		available := width - 5 - 2 - len(track.Length) - 1
		name := padRight(truncate(track.Title, available), max(available, 0))

		var line string
		switch {
		case i == snap.Index:
			line = styles.Playing.Render(fmt.Sprintf("%s %s%s %s", num, marker, name, track.Length))
		default:
			line = fmt.Sprintf("%s %s%s %s",
				styles.Dim.Render(num),
				marker,
				name,
				styles.Muted.Render(track.Length))
		}
		if focused && i == q.selected {
			line = styles.Selected.Render(line)
		}

		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/tail"
	"github.com/tessro/jamp/internal/tui/styles"
)

// NowPlayingOptions selects which rows the panel shows.
type NowPlayingOptions struct {
	ProgressBar bool
	Volume      bool
	Balance     bool
}

// NowPlaying displays the currently playing track
type NowPlaying struct {
	opts NowPlayingOptions
}

// NewNowPlaying creates a new NowPlaying component
func NewNowPlaying(opts NowPlayingOptions) *NowPlaying {
	return &NowPlaying{opts: opts}
}

// Render renders the now playing panel. spectrum is drawn under the track
// details when non-empty.
func (n *NowPlaying) Render(snap *core.Snapshot, spectrum string, width, height int, focused bool) string {
	title := styles.PanelTitle("Now Playing", focused)

	var content string
	if !snap.HasTrack() {
		content = styles.Muted.Render("No track playing")
	} else {
		content = n.renderTrack(snap, width-4)
	}
	if spectrum != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", spectrum)
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

func (n *NowPlaying) renderTrack(snap *core.Snapshot, width int) string {
	track := snap.Track

	icon := styles.Icon(styles.IconStop)
	switch snap.State {
	case core.StatePlaying:
		icon = styles.Playing.Render(styles.Icon(styles.IconPlay))
	case core.StatePaused:
		icon = styles.Paused.Render(styles.Icon(styles.IconPause))
	}
	name := styles.Title.Render(truncate(track.Title, width-4))

	rows := []string{icon + " " + name}
	if track.Album != "" {
		rows = append(rows, "  "+styles.Subtitle.Render(truncate(track.Album, width-2)))
	}

	times := FormatTimes(snap.Elapsed, snap.Duration)
	rows = append(rows, "")
	if n.opts.ProgressBar {
		barWidth := max(width-len(times)-1, 10)
		rows = append(rows, styles.ProgressBar(snap.ProgressPercent(), barWidth)+" "+times)
	} else {
		rows = append(rows, times)
	}

	var settings string
	if n.opts.Volume {
		settings = fmt.Sprintf("%s %d%%", styles.Icon(styles.IconVolume), snap.Volume)
	}
	if n.opts.Balance {
		if settings != "" {
			settings += "  "
		}
		settings += fmt.Sprintf("%s %s", styles.Icon(styles.IconBalance), tail.FormatBalance(snap.Balance))
	}
	if settings != "" {
		rows = append(rows, "", styles.Muted.Render(settings))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// FormatTimes renders "MM:SS / MM:SS".
func FormatTimes(elapsed, total time.Duration) string {
	return formatDuration(elapsed) + " / " + formatDuration(total)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	m := d / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d", m, s)
}

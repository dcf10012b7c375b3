package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/tui/styles"
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	// Left: Albums (top), Tracks (bottom)
	// Right: Now Playing (top), Queue and History (bottom)
	leftWidth := m.width * 45 / 100
	rightWidth := m.width - leftWidth
	bodyHeight := m.height - 2 // title + status line
	topHeight := bodyHeight * 50 / 100
	bottomHeight := bodyHeight - topHeight
	queueWidth := rightWidth * 60 / 100
	historyWidth := rightWidth - queueWidth

	snap := m.controller.Snapshot()

	var spectrum string
	if m.cfg.Features.Visualizer {
		spectrum = m.spectrum.Render(m.visualizer.Scaled(spectrumRows), spectrumRows)
	}

	albums := m.albums.Render(leftWidth-2, topHeight-2, m.focusedPanel == PanelAlbums)
	tracks := m.tracks.Render(leftWidth-2, bottomHeight-2, m.focusedPanel == PanelTracks)
	nowPlaying := m.nowPlaying.Render(&snap, spectrum, rightWidth-2, topHeight-2, false)
	queueView := m.queueView.Render(&snap, queueWidth-2, bottomHeight-2, m.focusedPanel == PanelQueue)
	history := m.history.Render(m.controller.History(), historyWidth-2, bottomHeight-2, m.focusedPanel == PanelHistory)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, albums, tracks)
	rightCol := lipgloss.JoinVertical(lipgloss.Left,
		nowPlaying,
		lipgloss.JoinHorizontal(lipgloss.Top, queueView, history),
	)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderTitle(), main, m.renderStatusBar())
}

func (m Model) renderTitle() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Align(lipgloss.Center).
		Render(styles.Title.Render(m.cfg.TUI.Title))
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.filtering:
		status = m.filterInput.View()
	case m.lastError != nil:
		status = styles.ErrorText.Render(styles.Icon(styles.IconError) + " " + m.lastError.Error())
		if hint := jerrors.GetSuggestion(m.lastError); hint != "" {
			status += styles.Dim.Render("  (" + hint + ")")
		}
	case m.notice != "":
		status = styles.Highlight.Render(m.notice)
	default:
		status = styles.Dim.Render(m.statusHelp())
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Padding(0, 1).
		Render(status)
}

func (m Model) renderHelp() string {
	title := m.cfg.TUI.Title + " - Keyboard Shortcuts"
	divider := strings.Repeat("═", len(title))

	var b strings.Builder
	b.WriteString(`
  ` + title + `
  ` + divider + `

  Global
  ──────
  q, Ctrl+C    Quit
  ?            Toggle help
  Tab          Next panel
  Shift+Tab    Previous panel
  r            Reload albums
  o            Open album cover
  y            Copy stream link of the playing track
`)
	if m.cfg.Features.Search {
		b.WriteString(`  /            Filter albums (Enter searches the server)
  Esc          Clear filter
`)
	}

	b.WriteString(`
  Library
  ───────
  j/↓, k/↑     Move selection
  Enter        Show tracks / play track / play queue row
  a            Add album or track to queue
  P            Play album

  Playback
  ────────
  Space        Play/Pause
  s            Stop
  n            Next track
  p            Previous track
  c            Clear queue
`)
	if m.cfg.Features.Shuffle {
		b.WriteString("  z            Shuffle upcoming tracks\n")
	}
	if m.cfg.Features.VolumeControl {
		b.WriteString("  +/-          Volume up/down\n")
	}
	if m.cfg.Features.BalanceControl {
		b.WriteString("  [/]          Balance left/right\n")
	}
	b.WriteString("\n  Press ? or Esc to close\n")

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.BorderStyle.Render(b.String()))
}

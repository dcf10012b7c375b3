package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/tui/styles"
)

// Tracks displays the tracks of the selected album.
type Tracks struct {
	cursor
	album   *core.Album
	tracks  []core.Track
	loading bool
}

// NewTracks creates a new Tracks component
func NewTracks() *Tracks {
	return &Tracks{}
}

// SetLoading marks tracks for album as being fetched.
func (t *Tracks) SetLoading(album *core.Album) {
	t.album = album
	t.tracks = nil
	t.loading = true
	t.cursor.Reset()
}

// SetTracks shows the tracks of album.
func (t *Tracks) SetTracks(albumID string, tracks []core.Track) {
	if t.album != nil && t.album.ID != albumID {
		// A newer album was selected while this one loaded.
		return
	}
	t.tracks = tracks
	t.loading = false
	t.cursor.Reset()
}

// Album returns the album whose tracks are shown.
func (t *Tracks) Album() *core.Album {
	return t.album
}

// All returns the loaded tracks.
func (t *Tracks) All() []core.Track {
	return t.tracks
}

// SelectNext moves the selection down.
func (t *Tracks) SelectNext() {
	t.cursor.SelectNext(len(t.tracks))
}

// Current returns the selected track, or nil.
func (t *Tracks) Current() *core.Track {
	if t.selected < 0 || t.selected >= len(t.tracks) {
		return nil
	}
	track := t.tracks[t.selected]
	return &track
}

// Render renders the tracks panel
func (t *Tracks) Render(width, height int, focused bool) string {
	header := "Tracks"
	if t.album != nil {
		header = "Tracks - " + truncate(t.album.Name, width-14)
	}
	title := styles.PanelTitle(header, focused)

	var content string
	switch {
	case t.loading:
		content = styles.Muted.Render("Loading tracks...")
	case t.album == nil:
		content = styles.Muted.Render("Select an album")
	case len(t.tracks) == 0:
		content = styles.Muted.Render("No tracks")
	default:
		content = t.renderList(width-4, height-4, focused)
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

func (t *Tracks) renderList(width, rows int, focused bool) string {
	start, end := t.window(len(t.tracks), rows)
	lines := make([]string, 0, end-start)

	for i := start; i < end; i++ {
		track := t.tracks[i]
		selector := "  "
		if focused && i == t.selected {
			selector = styles.Icon(styles.IconCursor) + " "
		}

		label := truncate(track.Label(), width-2)
		if i == t.selected {
			label = styles.Selected.Render(label)
		}
		lines = append(lines, selector+label)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

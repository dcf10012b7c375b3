package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"

	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/tui/styles"
)

// Albums displays the album library with an optional filter.
type Albums struct {
	cursor
	all     []core.Album
	visible []core.Album
	filter  string
	folder  cases.Caser
	loading bool
}

// NewAlbums creates a new Albums component
func NewAlbums() *Albums {
	return &Albums{folder: cases.Fold()}
}

// SetAlbums replaces the album list and reapplies the filter.
func (a *Albums) SetAlbums(albums []core.Album) {
	a.all = albums
	a.loading = false
	a.apply()
}

// SetLoading marks the list as being fetched.
func (a *Albums) SetLoading(loading bool) {
	a.loading = loading
}

// Len returns the number of visible albums.
func (a *Albums) Len() int {
	return len(a.visible)
}

// Total returns the number of albums before filtering.
func (a *Albums) Total() int {
	return len(a.all)
}

// SetFilter shows only albums whose name or artist contains query,
// ignoring case.
func (a *Albums) SetFilter(query string) {
	if query == a.filter {
		return
	}
	a.filter = query
	a.apply()
}

// Filter returns the current filter text.
func (a *Albums) Filter() string {
	return a.filter
}

func (a *Albums) apply() {
	a.cursor.Reset()
	if a.filter == "" {
		a.visible = a.all
		return
	}

	needle := a.folder.String(strings.TrimSpace(a.filter))
	a.visible = make([]core.Album, 0, len(a.all))
	for _, album := range a.all {
		if strings.Contains(a.folder.String(album.Name), needle) ||
			strings.Contains(a.folder.String(album.Artist), needle) {
			a.visible = append(a.visible, album)
		}
	}
}

// SelectNext moves the selection down.
func (a *Albums) SelectNext() {
	a.cursor.SelectNext(len(a.visible))
}

// Current returns the selected album, or nil.
func (a *Albums) Current() *core.Album {
	if a.selected < 0 || a.selected >= len(a.visible) {
		return nil
	}
	album := a.visible[a.selected]
	return &album
}

// Render renders the albums panel
func (a *Albums) Render(width, height int, focused bool) string {
	header := "Albums"
	if a.filter != "" {
		header = fmt.Sprintf("Albums (%d/%d) /%s", len(a.visible), len(a.all), a.filter)
	} else if len(a.all) > 0 {
		header = fmt.Sprintf("Albums (%d)", len(a.all))
	}
	title := styles.PanelTitle(header, focused)

	var content string
	switch {
	case a.loading:
		content = styles.Muted.Render("Loading albums...")
	case len(a.visible) == 0 && a.filter != "":
		content = styles.Muted.Render("No albums match")
	case len(a.visible) == 0:
		content = styles.Muted.Render("No albums")
	default:
		content = a.renderList(width-4, height-4, focused)
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

func (a *Albums) renderList(width, rows int, focused bool) string {
	start, end := a.window(len(a.visible), rows)
	lines := make([]string, 0, end-start)

	for i := start; i < end; i++ {
		album := a.visible[i]
		selector := "  "
		if focused && i == a.selected {
			selector = styles.Icon(styles.IconCursor) + " "
		}

		label := truncate(album.Label(), width-2)
		if i == a.selected {
			label = styles.Selected.Render(label)
		}
		lines = append(lines, selector+label)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

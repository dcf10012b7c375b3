// Package wizard provides interactive pickers used when a command is run
// in a terminal without the arguments it needs.
package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/tessro/jamp/internal/core"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled    bool
	searchFunc SearchFunc
	albums     []core.Album
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetSearchFunc sets the search function for the search wizard.
func (i *Interactive) SetSearchFunc(fn SearchFunc) {
	i.searchFunc = fn
}

// SetAlbums sets the albums offered by the picker.
func (i *Interactive) SetAlbums(albums []core.Album) {
	i.albums = albums
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSearch launches the search wizard if interactive mode is available.
// Returns the selected album, or nil if cancelled or not interactive.
func (i *Interactive) PromptSearch() (*core.Album, error) {
	if !i.CanInteract() || i.searchFunc == nil {
		return nil, nil
	}
	return RunSearch(i.searchFunc)
}

// PromptAlbum launches the album picker if interactive mode is available.
// Returns the selected album, or nil if cancelled or not interactive.
func (i *Interactive) PromptAlbum() (*core.Album, error) {
	if !i.CanInteract() || len(i.albums) == 0 {
		return nil, nil
	}
	return RunPicker(i.albums)
}

// NeedsAlbum returns true if an album argument is required but missing.
func NeedsAlbum(args []string) bool {
	return len(args) == 0
}

// MatchAlbum finds the album whose ID equals ref, or else the single album
// whose name matches ref ignoring case. It returns nil when nothing or
// more than one album matches by name.
func MatchAlbum(albums []core.Album, ref string) *core.Album {
	var match *core.Album
	count := 0
	for i := range albums {
		if albums[i].ID == ref {
			return &albums[i]
		}
		if equalFold(albums[i].Name, ref) {
			match = &albums[i]
			count++
		}
	}
	if count == 1 {
		return match
	}
	return nil
}

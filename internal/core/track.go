package core

import (
	"fmt"
	"time"
)

// Album is a snapshot of a music album as reported by the media server.
type Album struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	Year     int    `json:"year,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
}

// HasCover returns true if the server has a primary image for the album.
func (a *Album) HasCover() bool {
	return a != nil && a.CoverURL != ""
}

// Label returns "Name - Artist (Year)", omitting the year when unknown.
func (a *Album) Label() string {
	if a == nil {
		return ""
	}
	label := a.Name + " - " + a.Artist
	if a.Year > 0 {
		label += fmt.Sprintf(" (%d)", a.Year)
	}
	return label
}

// Track represents a playable audio track.
type Track struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Album     string        `json:"album,omitempty"`
	Number    int           `json:"number"`
	Length    string        `json:"length"`
	Duration  time.Duration `json:"duration"`
	StreamURL string        `json:"stream_url"`
}

// Label returns "NN. Title (MM:SS)".
func (t *Track) Label() string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%02d. %s (%s)", t.Number, t.Title, t.Length)
}

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/tui/styles"
)

func TestCursorWindow(t *testing.T) {
	tests := []struct {
		name      string
		selected  int
		n, rows   int
		wantStart int
		wantEnd   int
	}{
		{"empty", 3, 0, 5, 0, 0},
		{"fits", 2, 3, 5, 0, 3},
		{"scrolls down", 7, 10, 5, 3, 8},
		{"clamps selection", 20, 10, 5, 5, 10},
		{"zero rows", 0, 10, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursor{selected: tt.selected}
			start, end := c.window(tt.n, tt.rows)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("window() = [%d, %d), want [%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
			if tt.n > 0 && (c.selected < start || c.selected >= end) {
				t.Errorf("selected %d outside window [%d, %d)", c.selected, start, end)
			}
		})
	}
}

func TestCursorMovement(t *testing.T) {
	var c cursor
	c.SelectPrev()
	if c.Selected() != 0 {
		t.Errorf("SelectPrev at top = %d, want 0", c.Selected())
	}
	c.SelectNext(2)
	c.SelectNext(2)
	if c.Selected() != 1 {
		t.Errorf("SelectNext past end = %d, want 1", c.Selected())
	}
	c.Select(-4, 2)
	if c.Selected() != 0 {
		t.Errorf("Select(-4) = %d, want 0", c.Selected())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "he"},
		{"hello", 0, ""},
		{"日本語のアルバム", 7, "日本..."},
	}

	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if runewidth.StringWidth(got) > max(tt.width, 0) {
			t.Errorf("truncate(%q, %d) is %d cells wide", tt.in, tt.width, runewidth.StringWidth(got))
		}
	}
}

func TestAlbumsFilter(t *testing.T) {
	a := NewAlbums()
	a.SetAlbums([]core.Album{
		{ID: "1", Name: "Homogenic", Artist: "Björk"},
		{ID: "2", Name: "Kid A", Artist: "Radiohead"},
		{ID: "3", Name: "STRASSE", Artist: "Kraftwerk"},
	})

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"1", "2", "3"}},
		{"BJÖRK", []string{"1"}},
		{"kid", []string{"2"}},
		{"strasse", []string{"3"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		a.SetFilter(tt.query)
		var got []string
		for _, album := range a.visible {
			got = append(got, album.ID)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("SetFilter(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestAlbumsCurrent(t *testing.T) {
	a := NewAlbums()
	if a.Current() != nil {
		t.Error("Current() on empty list should be nil")
	}

	a.SetAlbums([]core.Album{{ID: "1"}, {ID: "2"}})
	a.SelectNext()
	if got := a.Current(); got == nil || got.ID != "2" {
		t.Errorf("Current() = %v, want album 2", got)
	}

	a.SetFilter("x")
	if a.Current() != nil {
		t.Error("Current() with no matches should be nil")
	}
}

func TestTracksIgnoresStaleAlbum(t *testing.T) {
	tr := NewTracks()
	tr.SetLoading(&core.Album{ID: "a"})
	tr.SetLoading(&core.Album{ID: "b"})

	tr.SetTracks("a", []core.Track{{ID: "t1"}})
	if len(tr.All()) != 0 {
		t.Errorf("tracks for a replaced selection were shown: %v", tr.All())
	}

	tr.SetTracks("b", []core.Track{{ID: "t2"}})
	if got := tr.Current(); got == nil || got.ID != "t2" {
		t.Errorf("Current() = %v, want t2", got)
	}
}

func TestFormatTimes(t *testing.T) {
	tests := []struct {
		elapsed, total time.Duration
		want           string
	}{
		{0, 0, "00:00 / 00:00"},
		{65 * time.Second, 4 * time.Minute, "01:05 / 04:00"},
		{1500 * time.Millisecond, 61*time.Minute + 9*time.Second, "00:01 / 61:09"},
		{-time.Second, time.Minute, "00:00 / 01:00"},
	}

	for _, tt := range tests {
		if got := FormatTimes(tt.elapsed, tt.total); got != tt.want {
			t.Errorf("FormatTimes(%v, %v) = %q, want %q", tt.elapsed, tt.total, got, tt.want)
		}
	}
}

func TestSpectrumRender(t *testing.T) {
	styles.SetASCII(true)
	defer styles.SetASCII(false)

	out := NewSpectrum().Render([]int{0, 1, 3}, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d rows, want 3", len(lines))
	}

	// Top row only has the tallest bar, bottom row has two.
	if got := strings.Count(lines[0], "#"); got != 1 {
		t.Errorf("top row has %d blocks, want 1", got)
	}
	if got := strings.Count(lines[2], "#"); got != 2 {
		t.Errorf("bottom row has %d blocks, want 2", got)
	}

	if NewSpectrum().Render(nil, 3) != "" {
		t.Error("empty heights should render nothing")
	}
}

func TestNowPlayingEmpty(t *testing.T) {
	n := NewNowPlaying(NowPlayingOptions{ProgressBar: true, Volume: true, Balance: true})
	out := n.Render(&core.Snapshot{Index: core.NoIndex}, "", 60, 12, false)
	if !strings.Contains(out, "No track playing") {
		t.Errorf("expected placeholder, got:\n%s", out)
	}
}

func TestNowPlayingTrack(t *testing.T) {
	n := NewNowPlaying(NowPlayingOptions{Volume: true, Balance: true})
	snap := &core.Snapshot{
		State:    core.StatePlaying,
		Track:    &core.Track{Title: "Hunter", Album: "Homogenic"},
		Elapsed:  30 * time.Second,
		Duration: 4 * time.Minute,
		Volume:   80,
		Balance:  -40,
	}

	out := n.Render(snap, "", 60, 12, true)
	for _, want := range []string{"Hunter", "Homogenic", "00:30 / 04:00", "80%", "L40"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHistoryRender(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h := &History{now: func() time.Time { return now }}

	out := h.Render([]core.HistoryEntry{
		{Track: &core.Track{Title: "Joga"}, PlayedAt: now.Add(-3 * time.Minute)},
		{Track: nil, PlayedAt: now},
	}, 50, 10, false)

	if !strings.Contains(out, "Joga") || !strings.Contains(out, "3 minutes ago") {
		t.Errorf("unexpected history output:\n%s", out)
	}
}

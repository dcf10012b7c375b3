package library

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tessro/jamp/internal/jellyfin/client"
)

func TestFormatTicks(t *testing.T) {
	tests := []struct {
		ticks int64
		want  string
	}{
		{0, "00:00"},
		{-5, "00:00"},
		{9_999_999, "00:00"},
		{10_000_000, "00:01"},
		{2_145_000_000, "03:34"},
		{36_000_000_000, "60:00"},
	}
	for _, tt := range tests {
		if got := FormatTicks(tt.ticks); got != tt.want {
			t.Errorf("FormatTicks(%d) = %q, want %q", tt.ticks, got, tt.want)
		}
	}
}

func TestTicksToDuration(t *testing.T) {
	if got := TicksToDuration(2_145_000_000); got != 214500*time.Millisecond {
		t.Errorf("TicksToDuration() = %v", got)
	}
	if got := TicksToDuration(0); got != 0 {
		t.Errorf("TicksToDuration(0) = %v", got)
	}
}

func TestConvertAlbum(t *testing.T) {
	l := New(client.New(client.Options{BaseURL: "http://jf", APIKey: "k"}))

	album := l.convertAlbum(&client.BaseItem{
		ID:              "a1",
		Name:            "Kind of Blue",
		ProductionYear:  1959,
		HasPrimaryImage: true,
	})
	if album.Artist != UnknownArtist {
		t.Errorf("Artist = %q, want %q", album.Artist, UnknownArtist)
	}
	if album.CoverURL != "http://jf/Items/a1/Images/Primary?api_key=k" {
		t.Errorf("CoverURL = %q", album.CoverURL)
	}

	tagged := l.convertAlbum(&client.BaseItem{
		ID:          "a2",
		Name:        "Tagged",
		AlbumArtist: "Someone",
		ImageTags:   map[string]string{"Primary": "abc"},
	})
	if !tagged.HasCover() {
		t.Error("HasCover() = false for item with primary image tag")
	}

	bare := l.convertAlbum(&client.BaseItem{ID: "a3", Name: "Bare", AlbumArtist: "X"})
	if bare.HasCover() {
		t.Errorf("CoverURL = %q, want none", bare.CoverURL)
	}
}

func TestConvertTrack(t *testing.T) {
	l := New(client.New(client.Options{BaseURL: "http://jf", APIKey: "k"}))

	track := l.convertTrack(&client.BaseItem{
		ID:           "t1",
		Name:         "So What",
		Album:        "Kind of Blue",
		IndexNumber:  1,
		RunTimeTicks: 5_450_000_000,
	})
	if track.Length != "09:05" {
		t.Errorf("Length = %q, want 09:05", track.Length)
	}
	if track.Duration != 545*time.Second {
		t.Errorf("Duration = %v", track.Duration)
	}
	if track.StreamURL != "http://jf/Items/t1/Download?api_key=k" {
		t.Errorf("StreamURL = %q", track.StreamURL)
	}
	if track.Label() != "01. So What (09:05)" {
		t.Errorf("Label() = %q", track.Label())
	}
}

func TestAlbumTracksOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(client.ItemsResponse{Items: []client.BaseItem{
			{ID: "t1", Name: "One", IndexNumber: 1, RunTimeTicks: 600_000_000},
			{ID: "t2", Name: "Two", IndexNumber: 2},
		}})
	}))
	defer srv.Close()

	l := New(client.New(client.Options{BaseURL: srv.URL, APIKey: "k", UserID: "u"}))
	tracks, err := l.AlbumTracks(context.Background(), "a1")
	if err != nil {
		t.Fatalf("AlbumTracks() error = %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(tracks))
	}
	if tracks[0].Length != "01:00" || tracks[1].Length != "00:00" {
		t.Errorf("lengths = %q, %q", tracks[0].Length, tracks[1].Length)
	}
}

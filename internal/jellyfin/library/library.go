// Package library adapts the Jellyfin REST client to core.Library.
package library

import (
	"context"
	"fmt"
	"time"

	"github.com/tessro/jamp/internal/core"
	"github.com/tessro/jamp/internal/jellyfin/client"
)

// UnknownArtist is shown for albums without an album artist.
const UnknownArtist = "Unknown Artist"

// ticksPerSecond is the number of Jellyfin 100ns ticks in a second.
const ticksPerSecond = 10_000_000

// Library implements core.Library for Jellyfin.
type Library struct {
	client *client.Client
}

// New creates a new Jellyfin library.
func New(c *client.Client) *Library {
	return &Library{client: c}
}

// TestConnection checks that the server is reachable and accepts the token.
func (l *Library) TestConnection(ctx context.Context) error {
	return l.client.Ping(ctx)
}

// ListAlbums returns every music album, sorted by name.
func (l *Library) ListAlbums(ctx context.Context) ([]core.Album, error) {
	return l.albums(ctx, client.AlbumQuery{})
}

// SearchAlbums returns albums matching query by name or artist.
func (l *Library) SearchAlbums(ctx context.Context, query string) ([]core.Album, error) {
	if query == "" {
		return l.ListAlbums(ctx)
	}
	return l.albums(ctx, client.AlbumQuery{SearchTerm: query})
}

func (l *Library) albums(ctx context.Context, q client.AlbumQuery) ([]core.Album, error) {
	resp, err := l.client.ListAlbums(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}

	albums := make([]core.Album, 0, len(resp.Items))
	for i := range resp.Items {
		albums = append(albums, l.convertAlbum(&resp.Items[i]))
	}
	return albums, nil
}

// AlbumTracks returns the tracks of an album ordered by track number.
func (l *Library) AlbumTracks(ctx context.Context, albumID string) ([]core.Track, error) {
	resp, err := l.client.AlbumTracks(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("album tracks: %w", err)
	}

	tracks := make([]core.Track, 0, len(resp.Items))
	for i := range resp.Items {
		tracks = append(tracks, l.convertTrack(&resp.Items[i]))
	}
	return tracks, nil
}

func (l *Library) convertAlbum(item *client.BaseItem) core.Album {
	artist := item.AlbumArtist
	if artist == "" {
		artist = UnknownArtist
	}

	album := core.Album{
		ID:     item.ID,
		Name:   item.Name,
		Artist: artist,
		Year:   item.ProductionYear,
	}
	if item.HasImage() {
		album.CoverURL = l.client.ImageURL(item.ID)
	}
	return album
}

func (l *Library) convertTrack(item *client.BaseItem) core.Track {
	return core.Track{
		ID:        item.ID,
		Title:     item.Name,
		Album:     item.Album,
		Number:    item.IndexNumber,
		Length:    FormatTicks(item.RunTimeTicks),
		Duration:  TicksToDuration(item.RunTimeTicks),
		StreamURL: l.client.StreamURL(item.ID),
	}
}

// TicksToDuration converts Jellyfin 100ns ticks to a time.Duration.
func TicksToDuration(ticks int64) time.Duration {
	if ticks <= 0 {
		return 0
	}
	return time.Duration(ticks) * 100 * time.Nanosecond
}

// FormatTicks renders ticks as zero-padded "MM:SS", truncating partial seconds.
// Minutes are not wrapped into hours.
func FormatTicks(ticks int64) string {
	if ticks <= 0 {
		return "00:00"
	}
	seconds := ticks / ticksPerSecond
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

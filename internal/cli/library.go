package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tessro/jamp/internal/core"
	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/jellyfin/library"
	"github.com/tessro/jamp/internal/wizard"
)

var albumsSearch string

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List albums in the library",
	Long: `List the music albums on the Jellyfin server, sorted by name.

Examples:
  jamp albums
  jamp albums --search "kid a"
  jamp albums --json`,
	Args: cobra.NoArgs,
	RunE: runAlbums,
}

var tracksCmd = &cobra.Command{
	Use:   "tracks <album>",
	Short: "List the tracks of an album",
	Long: `List the tracks of an album. The album may be given by ID or by its
exact name.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTracks,
}

func init() {
	albumsCmd.Flags().StringVarP(&albumsSearch, "search", "s", "", "only albums matching this text")
	rootCmd.AddCommand(albumsCmd)
	rootCmd.AddCommand(tracksCmd)
}

func runAlbums(cmd *cobra.Command, args []string) error {
	lib, err := newLibrary()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()

	var albums []core.Album
	if albumsSearch != "" {
		albums, err = lib.SearchAlbums(ctx, albumsSearch)
	} else {
		albums, err = lib.ListAlbums(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list albums: %w", err)
	}

	if JSONOutput() {
		return printJSON(albums)
	}

	if len(albums) == 0 {
		fmt.Println("No albums found")
		return nil
	}

	table := NewTable("ID", "ALBUM", "ARTIST", "YEAR")
	for _, a := range albums {
		year := ""
		if a.Year > 0 {
			year = strconv.Itoa(a.Year)
		}
		table.Row(a.ID, TruncateString(a.Name, 40), TruncateString(a.Artist, 30), year)
	}
	table.Flush()
	return nil
}

func runTracks(cmd *cobra.Command, args []string) error {
	lib, err := newLibrary()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(cmd)
	defer cancel()

	album, err := resolveAlbum(ctx, lib, strings.Join(args, " "))
	if err != nil {
		return err
	}

	tracks, err := lib.AlbumTracks(ctx, album.ID)
	if err != nil {
		return fmt.Errorf("failed to load tracks: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"album":  album,
			"tracks": tracks,
		})
	}

	fmt.Println(album.Label())
	table := NewTable("#", "TITLE", "LENGTH")
	for _, t := range tracks {
		table.Row(fmt.Sprintf("%02d", t.Number), TruncateString(t.Title, 50), t.Length)
	}
	table.Flush()
	return nil
}

// resolveAlbum finds an album by ID or exact name.
func resolveAlbum(ctx context.Context, lib *library.Library, ref string) (*core.Album, error) {
	albums, err := lib.SearchAlbums(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to search albums: %w", err)
	}
	if album := wizard.MatchAlbum(albums, ref); album != nil {
		return album, nil
	}

	// IDs never match a search term, so fall back to the full list.
	albums, err = lib.ListAlbums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	if album := wizard.MatchAlbum(albums, ref); album != nil {
		return album, nil
	}
	return nil, fmt.Errorf("%w: %q", jerrors.ErrAlbumNotFound, ref)
}

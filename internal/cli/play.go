package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/jamp/internal/core"
	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/jellyfin/library"
	"github.com/tessro/jamp/internal/player"
	"github.com/tessro/jamp/internal/tail"
	"github.com/tessro/jamp/internal/wizard"
)

var (
	playShuffle   bool
	playSearch    bool
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
)

var playCmd = &cobra.Command{
	Use:   "play [album]",
	Short: "Play an album without the dashboard",
	Long: `Play an album through mpv and print playback events as they happen.
The album may be given by ID or exact name. Without an argument an album
picker is shown when running in a terminal.

Events printed:
  - Track changes (new song started)
  - Track completions (song finished)
  - Track skips (song skipped before completion)
  - Pause/Resume and stop
  - Volume and balance changes

Examples:
  jamp play "Kid A"
  jamp play --shuffle
  jamp play --search
  jamp play "Kid A" --format '{{.Time}} {{.Title}} [{{.Position}}/{{.QueueLen}}]'`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "shuffle the album after the first track")
	playCmd.Flags().BoolVarP(&playSearch, "search", "s", false, "pick the album with the search wizard")
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom format template")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	lib, err := newLibrary()
	if err != nil {
		return err
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	album, err := pickAlbum(ctx, cmd, lib, args)
	if err != nil {
		return err
	}
	if album == nil {
		return nil
	}

	reqCtx, cancel := requestContext(cmd)
	tracks, err := lib.AlbumTracks(reqCtx, album.ID)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to load tracks: %w", err)
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%s: %w", album.Label(), jerrors.ErrQueueEmpty)
	}

	engine, err := startEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = engine.Close() }()

	ctrl, err := newController(ctx, engine)
	if err != nil {
		return fmt.Errorf("configure engine: %w", err)
	}

	if err := ctrl.PlayAlbum(ctx, tracks); err != nil {
		return err
	}
	if playShuffle {
		ctrl.Shuffle()
	}

	return follow(ctx, ctrl, engine.Events())
}

// pickAlbum resolves the album argument or asks the user for one.
func pickAlbum(ctx context.Context, cmd *cobra.Command, lib *library.Library, args []string) (*core.Album, error) {
	reqCtx, cancel := requestContext(cmd)
	defer cancel()

	if !wizard.NeedsAlbum(args) {
		return resolveAlbum(reqCtx, lib, strings.Join(args, " "))
	}

	interactive := wizard.NewInteractive()
	interactive.SetEnabled(!JSONOutput())
	if !interactive.CanInteract() {
		return nil, errors.New("album required. Usage: jamp play <album>")
	}

	if playSearch {
		interactive.SetSearchFunc(func(query string) ([]core.Album, error) {
			return lib.SearchAlbums(ctx, query)
		})
		return interactive.PromptSearch()
	}

	albums, err := lib.ListAlbums(reqCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	interactive.SetAlbums(albums)
	return interactive.PromptAlbum()
}

// follow drives the controller until the queue finishes or ctx is done,
// printing watcher events along the way. The controller is only touched
// from this goroutine.
func follow(ctx context.Context, ctrl *player.Controller, engineEvents <-chan core.EngineEvent) error {
	refresh := time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond
	if refresh <= 0 {
		refresh = time.Second
	}

	formatter := tail.NewFormatter(
		tail.WithEmoji(!playNoEmoji),
		tail.WithTimestamp(playTimestamp),
		tail.WithTemplate(playFormat),
	)

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	watcher := tail.NewWatcher(ctrl, refresh/2)
	go func() { _ = watcher.Start(watchCtx) }()

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	// After playback stops, keep printing until the watcher has seen it.
	var finished <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = ctrl.Stop(stopCtx)
			cancel()
			return nil

		case ev, ok := <-engineEvents:
			if !ok {
				return jerrors.ErrEngineClosed
			}
			if err := ctrl.HandleEngineEvent(ctx, ev); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}

		case <-ticker.C:
			if err := ctrl.Poll(ctx); err != nil {
				logger.Warn("poll failed", zap.Error(err))
				fmt.Fprintln(os.Stderr, err)
			}

		case e, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			printEvent(formatter, e)

		case <-finished:
			return nil
		}

		if finished == nil && ctrl.State() == core.StateStopped {
			finished = time.After(refresh)
		}
	}
}

func printEvent(formatter *tail.Formatter, e tail.Event) {
	if !JSONOutput() {
		fmt.Println(formatter.Format(e))
		return
	}

	out := map[string]any{
		"event": e.Type.String(),
		"time":  e.Timestamp,
	}
	if e.Current != nil {
		out["state"] = e.Current.State.String()
		out["volume"] = e.Current.Volume
		out["balance"] = e.Current.Balance
		if e.Current.Track != nil {
			out["track"] = e.Current.Track
		}
	}
	_ = printJSON(out)
}

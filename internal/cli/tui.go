package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/jamp/internal/loader"
	"github.com/tessro/jamp/internal/tui"
)

var tuiRefresh int

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Albums - the server's album library, filterable with /
  • Tracks - tracks of the selected album
  • Now Playing - current track, progress, volume, balance, visualizer
  • Queue - the playback queue
  • History - recently played tracks

Keyboard shortcuts:
  q, Ctrl+C    Quit
  ?            Help
  Enter        Open album / play track
  a, P         Add to queue, play album
  Space        Play/Pause
  n, p         Next/previous track
  +/-, [/]     Volume, balance
  Tab          Switch panel`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVar(&tuiRefresh, "refresh", 0, "Refresh interval in milliseconds (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if tuiRefresh > 0 {
		cfg.TUI.RefreshInterval = tuiRefresh
	}

	lib, err := newLibrary()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
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

	l := loader.New(lib, loader.Options{Logger: logger})
	defer func() { _ = l.Close() }()

	return tui.Run(tui.Options{
		Config:     cfg,
		Controller: ctrl,
		Engine:     engine,
		Loader:     l,
		Logger:     logger,
	})
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/jamp/internal/config"
	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/logging"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg      *config.Config
	logger   = zap.NewNop()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "jamp",
	Short: "Play music from a Jellyfin server in the terminal",
	Long: `jamp is a terminal music player for Jellyfin.

It browses the server's album library, builds a playback queue and
streams audio through mpv. Run without a command to open the dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		return initLogger(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.jamprc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", jerrors.ErrInvalidConfig, err)
	}

	return nil
}

// initLogger writes logs to the rotating log file. Headless commands also
// mirror them to stderr when verbose.
func initLogger(cmd *cobra.Command) error {
	interactive := !cmd.HasParent() || cmd.Name() == "ui"
	l, closer, err := logging.New(cfg.Log, logging.Options{
		Stderr: verbose && !interactive,
		Debug:  verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	logger = l
	closeLog = closer
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = closeLog()
		fmt.Fprintln(os.Stderr, jerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

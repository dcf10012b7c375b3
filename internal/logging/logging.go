// Package logging builds the application's zap logger.
//
// The dashboard owns the terminal, so log output goes to a rotating file
// rather than stdout. Headless commands may additionally mirror it to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tessro/jamp/internal/config"
)

// Options adjusts where log output is written.
type Options struct {
	// Stderr mirrors log output to stderr using the console encoder.
	Stderr bool
	// Debug forces the debug level regardless of configuration.
	Debug bool
}

// New creates a logger from the log section of the configuration.
// The returned close function flushes buffered entries and closes the file.
func New(cfg config.LogConfig, opts Options) (*zap.Logger, func() error, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "msg"
	encoderConfig.LevelKey = "level"

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	var closers []io.Closer

	path := cfg.File
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, err
		}

		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSize, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   true,
		}
		closers = append(closers, rotator)

		var encoder zapcore.Encoder
		if cfg.Format == "json" {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	if opts.Stderr {
		stderrConfig := encoderConfig
		if isatty.IsTerminal(os.Stderr.Fd()) {
			stderrConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(stderrConfig),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	closeFn := func() error {
		_ = logger.Sync()
		for _, c := range closers {
			if err := c.Close(); err != nil {
				return err
			}
		}
		return nil
	}
	return logger, closeFn, nil
}

// DefaultPath returns $XDG_STATE_HOME/jamp/jamp.log, or "" if no home
// directory can be determined.
func DefaultPath() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "jamp", "jamp.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "jamp", "jamp.log")
}

// NewNop returns a logger that discards everything.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

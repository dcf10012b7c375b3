package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tessro/jamp/internal/engine/mpv"
	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/jellyfin/client"
	"github.com/tessro/jamp/internal/jellyfin/library"
	"github.com/tessro/jamp/internal/player"
	"github.com/tessro/jamp/internal/session"
)

// newClient builds a Jellyfin client from the config, falling back to the
// stored login session for credentials.
func newClient() (*client.Client, error) {
	storage, err := session.NewStorage("")
	if err != nil {
		return nil, err
	}

	baseURL := cfg.Server.URL
	apiKey, userID := cfg.Server.APIKey, cfg.Server.UserID

	if apiKey == "" {
		sess, err := storage.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		if sess == nil {
			return nil, jerrors.ErrNotAuthenticated
		}
		if sess.Server != "" && sess.Server != baseURL {
			logger.Info("using server from login session",
				zap.String("session", sess.Server),
				zap.String("config", baseURL))
			baseURL = sess.Server
		}
		apiKey = sess.AccessToken
		if userID == "" {
			userID = sess.UserID
		}
	}

	if userID == "" {
		return nil, jerrors.WithSuggestion(
			fmt.Errorf("%w: server.user_id is required with an API key", jerrors.ErrInvalidConfig),
			"Set server.user_id or run 'jamp login'")
	}

	return client.New(client.Options{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		UserID:   userID,
		DeviceID: storage.DeviceID(),
		Version:  Version,
		Timeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		Logger:   logger,
	}), nil
}

// newLibrary returns the album library backed by the configured server.
func newLibrary() (*library.Library, error) {
	c, err := newClient()
	if err != nil {
		return nil, err
	}
	return library.New(c), nil
}

// startEngine launches or attaches to mpv.
func startEngine(ctx context.Context) (*mpv.Engine, error) {
	return mpv.Start(ctx, mpv.Options{
		Path:         cfg.Engine.Path,
		Socket:       cfg.Engine.Socket,
		Args:         cfg.Engine.Args,
		StartTimeout: time.Duration(cfg.Engine.StartTimeout) * time.Millisecond,
		Logger:       logger,
	})
}

// newController creates a playback controller over engine and pushes the
// configured volume and balance to it.
func newController(ctx context.Context, engine *mpv.Engine) (*player.Controller, error) {
	ctrl := player.New(player.Options{
		Engine:       engine,
		Logger:       logger,
		Volume:       cfg.Playback.Volume,
		Balance:      cfg.Playback.Balance,
		AutoAdvance:  cfg.Playback.AutoAdvance,
		EndTolerance: time.Duration(cfg.Playback.EndTolerance) * time.Millisecond,
	})
	if err := ctrl.ApplySettings(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// requestContext bounds a one-shot library request.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := time.Duration(cfg.Server.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// Retries may need several attempts.
	return context.WithTimeout(ctx, 4*timeout)
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/jellyfin/client"
	"github.com/tessro/jamp/internal/session"
	"github.com/tessro/jamp/internal/wizard"
)

var (
	loginServer   string
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to a Jellyfin server",
	Long: `Authenticate with a Jellyfin username and password and store the
resulting access token. Missing values are asked for interactively.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Jellyfin credentials",
	Long:  `Revokes the stored access token on the server and removes it from this machine.`,
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show authentication status",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVar(&loginServer, "server", "", "server URL (default from config)")
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Jellyfin username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Jellyfin password")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	server := loginServer
	if server == "" {
		server = cfg.Server.URL
	}

	if loginUsername == "" || loginPassword == "" {
		if !wizard.IsTerminal() {
			return fmt.Errorf("--username and --password are required when not running in a terminal")
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Server").
					Value(&server),
				huh.NewInput().
					Title("Username").
					Value(&loginUsername),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&loginPassword),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("login cancelled: %w", err)
		}
	}
	server = strings.TrimRight(strings.TrimSpace(server), "/")

	storage, err := session.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize session storage: %w", err)
	}

	c := client.New(client.Options{
		BaseURL:  server,
		DeviceID: storage.DeviceID(),
		Version:  Version,
		Timeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		Logger:   logger,
	})

	ctx, cancel := requestContext(cmd)
	defer cancel()

	result, err := c.AuthenticateByName(ctx, loginUsername, loginPassword)
	if err != nil {
		if client.IsUnauthorized(err) {
			return jerrors.WithSuggestion(fmt.Errorf("authentication failed: %w", err), "Check the username and password")
		}
		return fmt.Errorf("authentication failed: %w", err)
	}

	sess := &session.Session{
		Server:      server,
		UserID:      result.User.ID,
		UserName:    result.User.Name,
		AccessToken: result.AccessToken,
		DeviceID:    storage.DeviceID(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := storage.Save(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	logger.Info("logged in", zap.String("server", server), zap.String("user", sess.UserName))

	if JSONOutput() {
		return printJSON(map[string]string{
			"status":  "authenticated",
			"server":  server,
			"user_id": sess.UserID,
			"user":    sess.UserName,
		})
	}
	fmt.Printf("Logged in to %s as %s\n", server, sess.UserName)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	storage, err := session.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize session storage: %w", err)
	}

	sess, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		if JSONOutput() {
			return printJSON(map[string]string{"status": "not_authenticated"})
		}
		fmt.Println("Not logged in.")
		return nil
	}

	// Revoking is best effort; the local token is removed either way.
	c := client.New(client.Options{
		BaseURL:  sess.Server,
		APIKey:   sess.AccessToken,
		UserID:   sess.UserID,
		DeviceID: sess.DeviceID,
		Version:  Version,
		Timeout:  time.Duration(cfg.Server.Timeout) * time.Second,
		Logger:   logger,
	})
	ctx, cancel := requestContext(cmd)
	defer cancel()
	if err := c.Logout(ctx); err != nil {
		logger.Warn("failed to revoke token", zap.Error(err))
	}

	if err := storage.Delete(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "logged_out"})
	}
	fmt.Printf("Logged out of %s.\n", sess.Server)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if cfg.Server.APIKey != "" {
		if JSONOutput() {
			return printJSON(map[string]any{
				"authenticated": true,
				"method":        "api_key",
				"server":        cfg.Server.URL,
				"user_id":       cfg.Server.UserID,
			})
		}
		fmt.Printf("Using API key for %s (user %s)\n", cfg.Server.URL, cfg.Server.UserID)
		return nil
	}

	storage, err := session.NewStorage("")
	if err != nil {
		return fmt.Errorf("failed to initialize session storage: %w", err)
	}
	sess, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	if sess == nil {
		if JSONOutput() {
			return printJSON(map[string]any{"authenticated": false})
		}
		fmt.Println("Not logged in.")
		fmt.Println("Run 'jamp login' to authenticate.")
		return nil
	}

	if JSONOutput() {
		return printJSON(map[string]any{
			"authenticated": true,
			"method":        "session",
			"server":        sess.Server,
			"user_id":       sess.UserID,
			"user":          sess.UserName,
			"logged_in_at":  sess.CreatedAt,
		})
	}
	fmt.Printf("Logged in to %s as %s\n", sess.Server, sess.UserName)
	fmt.Printf("Since: %s\n", humanize.Time(sess.CreatedAt))
	return nil
}

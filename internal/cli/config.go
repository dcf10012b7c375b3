package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/jamp/internal/config"
	jerrors "github.com/tessro/jamp/internal/errors"
	"github.com/tessro/jamp/internal/tui/styles"
	"github.com/tessro/jamp/internal/wizard"
)

const configHeader = "# jamp configuration\n# Environment variables (JAMP_*) override these values.\n\n"

// valueKind is the TOML type of a settable key.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindList
)

// configKeys lists the keys accepted by "config set".
var configKeys = map[string]valueKind{
	"server.url":               kindString,
	"server.api_key":           kindString,
	"server.user_id":           kindString,
	"server.timeout":           kindInt,
	"playback.volume":          kindInt,
	"playback.balance":         kindInt,
	"playback.auto_advance":    kindBool,
	"playback.end_tolerance":   kindInt,
	"features.visualizer":      kindBool,
	"features.search":          kindBool,
	"features.shuffle":         kindBool,
	"features.progress_bar":    kindBool,
	"features.volume_control":  kindBool,
	"features.balance_control": kindBool,
	"tui.theme":                kindString,
	"tui.title":                kindString,
	"tui.refresh_interval":     kindInt,
	"tui.ascii_icons":          kindBool,
	"engine.path":              kindString,
	"engine.socket":            kindString,
	"engine.args":              kindList,
	"engine.start_timeout":     kindInt,
	"log.level":                kindString,
	"log.file":                 kindString,
	"log.format":               kindString,
	"log.max_size":             kindInt,
	"log.max_backups":          kindInt,
	"log.max_age":              kindInt,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing jamp configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including environment overrides.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a new configuration file with default values.`,
	RunE:  runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Examples:
  jamp config set server.url http://media.local:8096
  jamp config set playback.volume 60
  jamp config set features.visualizer false
  jamp config set engine.args "--audio-device=alsa/default --gapless-audio"

Run 'jamp config keys' to list every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable configuration keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		keys := make([]string, 0, len(configKeys))
		for k := range configKeys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Println(k)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.Server.APIKey != "" {
		shown.Server.APIKey = "********"
	}

	if JSONOutput() {
		return printJSON(shown)
	}

	if path := getConfigPath(); fileExists(path) {
		fmt.Printf("# %s\n", path)
	}
	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(shown)
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if !fileExists(configPath) {
		return fmt.Errorf("%w at %s", jerrors.ErrConfigNotFound, configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if fileExists(configPath) {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	defaultCfg := config.Default()

	if wizard.IsTerminal() && !JSONOutput() {
		themes := make([]huh.Option[string], 0, len(styles.Themes))
		for _, name := range styles.ThemeNames() {
			themes = append(themes, huh.NewOption(name, name))
		}
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Jellyfin server URL").
					Value(&defaultCfg.Server.URL),
				huh.NewSelect[string]().
					Title("Theme").
					Options(themes...).
					Value(&defaultCfg.TUI.Theme),
				huh.NewConfirm().
					Title("Show the spectrum visualizer?").
					Value(&defaultCfg.Features.Visualizer),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("init cancelled: %w", err)
		}
	}

	if err := defaultCfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", jerrors.ErrInvalidConfig, err)
	}

	if err := writeConfig(configPath, defaultCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run 'jamp login' to authenticate with your Jellyfin server")
	fmt.Println("  2. Run 'jamp ping' to check the server and mpv")
	return nil
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if path := config.FindConfigFile(); path != "" {
		return path
	}
	return config.DefaultPath()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	configPath := getConfigPath()
	if !fileExists(configPath) {
		return fmt.Errorf("%w at %s", jerrors.ErrConfigNotFound, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	updated, err := setConfigValue(data, key, value)
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, updated, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// setConfigValue returns the TOML document data with key set to value.
// The result is checked against the config schema before it is returned.
func setConfigValue(data []byte, key, value string) ([]byte, error) {
	kind, ok := configKeys[key]
	if !ok {
		return nil, jerrors.WithSuggestion(
			fmt.Errorf("%w: unknown key %q", jerrors.ErrInvalidConfig, key),
			"Run 'jamp config keys' to list valid keys")
	}

	typed, err := parseConfigValue(kind, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", jerrors.ErrInvalidConfig, key, err)
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		raw = make(map[string]any)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(raw); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	check := config.Default()
	if _, err := toml.Decode(buf.String(), check); err != nil {
		return nil, fmt.Errorf("failed to parse updated config: %w", err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", jerrors.ErrInvalidConfig, err)
	}

	return buf.Bytes(), nil
}

func parseConfigValue(kind valueKind, value string) (any, error) {
	switch kind {
	case kindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("value must be an integer")
		}
		return int64(i), nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			switch strings.ToLower(value) {
			case "yes", "on":
				return true, nil
			case "no", "off":
				return false, nil
			}
			return nil, fmt.Errorf("value must be true or false")
		}
		return b, nil
	case kindList:
		return strings.Fields(value), nil
	default:
		return value, nil
	}
}

func writeConfig(path string, c *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	encoder := toml.NewEncoder(&buf)
	encoder.Indent = "  "
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

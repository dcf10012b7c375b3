package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8096",
			Timeout: 10,
		},
		Playback: PlaybackConfig{
			Volume:       100,
			Balance:      0,
			AutoAdvance:  true,
			EndTolerance: 1000,
		},
		Features: FeaturesConfig{
			Visualizer:     true,
			Search:         true,
			Shuffle:        true,
			ProgressBar:    true,
			VolumeControl:  true,
			BalanceControl: true,
		},
		TUI: TUIConfig{
			Theme:           "winamp",
			Title:           "jamp - Jellyfin Player",
			RefreshInterval: 1000,
		},
		Engine: EngineConfig{
			Path:         "mpv",
			StartTimeout: 5000,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// ApplyDefaults fills in zero values that are never valid with defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Server
	if c.Server.URL == "" {
		c.Server.URL = d.Server.URL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = d.Server.Timeout
	}

	// Playback
	if c.Playback.EndTolerance == 0 {
		c.Playback.EndTolerance = d.Playback.EndTolerance
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.Title == "" {
		c.TUI.Title = d.TUI.Title
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Engine
	if c.Engine.Path == "" {
		c.Engine.Path = d.Engine.Path
	}
	if c.Engine.StartTimeout == 0 {
		c.Engine.StartTimeout = d.Engine.StartTimeout
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = d.Log.MaxSize
	}
}

package config

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Playback PlaybackConfig `toml:"playback"`
	Features FeaturesConfig `toml:"features"`
	TUI      TUIConfig      `toml:"tui"`
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig holds Jellyfin connection settings.
type ServerConfig struct {
	URL     string `toml:"url" json:"url" env:"JAMP_SERVER_URL"`
	APIKey  string `toml:"api_key" json:"-" env:"JAMP_API_KEY"`
	UserID  string `toml:"user_id" json:"user_id" env:"JAMP_USER_ID"`
	Timeout int    `toml:"timeout" json:"timeout" env:"JAMP_SERVER_TIMEOUT"`
}

// PlaybackConfig holds default playback settings.
type PlaybackConfig struct {
	Volume       int  `toml:"volume" env:"JAMP_VOLUME"`
	Balance      int  `toml:"balance" env:"JAMP_BALANCE"`
	AutoAdvance  bool `toml:"auto_advance" env:"JAMP_AUTO_ADVANCE"`
	EndTolerance int  `toml:"end_tolerance" env:"JAMP_END_TOLERANCE"`
}

// FeaturesConfig toggles optional parts of the dashboard.
type FeaturesConfig struct {
	Visualizer     bool `toml:"visualizer" env:"JAMP_FEATURE_VISUALIZER"`
	Search         bool `toml:"search" env:"JAMP_FEATURE_SEARCH"`
	Shuffle        bool `toml:"shuffle" env:"JAMP_FEATURE_SHUFFLE"`
	ProgressBar    bool `toml:"progress_bar" env:"JAMP_FEATURE_PROGRESS_BAR"`
	VolumeControl  bool `toml:"volume_control" env:"JAMP_FEATURE_VOLUME_CONTROL"`
	BalanceControl bool `toml:"balance_control" env:"JAMP_FEATURE_BALANCE_CONTROL"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme" env:"JAMP_TUI_THEME"`
	Title           string `toml:"title" env:"JAMP_TUI_TITLE"`
	RefreshInterval int    `toml:"refresh_interval" env:"JAMP_TUI_REFRESH_INTERVAL"`
	ASCIIIcons      bool   `toml:"ascii_icons" env:"JAMP_TUI_ASCII_ICONS"`
}

// EngineConfig holds media engine settings.
type EngineConfig struct {
	Path         string   `toml:"path" env:"JAMP_ENGINE_PATH"`
	Socket       string   `toml:"socket" env:"JAMP_ENGINE_SOCKET"`
	Args         []string `toml:"args" env:"JAMP_ENGINE_ARGS" envSeparator:" "`
	StartTimeout int      `toml:"start_timeout" env:"JAMP_ENGINE_START_TIMEOUT"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `toml:"level" env:"JAMP_LOG_LEVEL"`
	File       string `toml:"file" env:"JAMP_LOG_FILE"`
	Format     string `toml:"format" env:"JAMP_LOG_FORMAT"`
	MaxSize    int    `toml:"max_size" env:"JAMP_LOG_MAX_SIZE"`
	MaxBackups int    `toml:"max_backups" env:"JAMP_LOG_MAX_BACKUPS"`
	MaxAge     int    `toml:"max_age" env:"JAMP_LOG_MAX_AGE"`
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/genricoloni/cmusnotify/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Cover contains configuration for cover art lookup
type Cover struct {
	MaxDepth          uint   `toml:"max_depth"`
	ForceUseExternal  bool   `toml:"force_use_external"`
	NoUseExternal     bool   `toml:"no_use_external"`
	PathTemplate      string `toml:"path_template"`
	RemoteURLTemplate string `toml:"remote_url_template"`
	IconSize          int    `toml:"icon_size"`
	TempDir           string `toml:"temp_dir"`
}

// Notification contains configuration for the desktop notification
type Notification struct {
	AppName        string `toml:"app_name"`
	Summary        string `toml:"summary"`
	Body           string `toml:"body"`
	TimeoutMS      int32  `toml:"timeout_ms"`
	Urgency        string `toml:"urgency"`
	NotifyOnStatus bool   `toml:"notify_on_status"`
}

// Cmus contains configuration for talking to the player
type Cmus struct {
	RemoteBin      string `toml:"remote_bin"`
	Socket         string `toml:"socket"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
	DebounceMS     int    `toml:"debounce_ms"`
}

// Logging contains configuration for log output
type Logging struct {
	Level string `toml:"level"`
}

// Daemon contains configuration for the running process
type Daemon struct {
	LockFile string `toml:"lock_file"`
}

// AppConfig holds application configuration
type AppConfig struct {
	CoverConfig        Cover        `toml:"cover"`
	NotificationConfig Notification `toml:"notification"`
	Cmus               Cmus         `toml:"cmus"`
	Logging            Logging      `toml:"logging"`
	Daemon             Daemon       `toml:"daemon"`
}

// DefaultConfigPath returns where the configuration file is looked up by default
func DefaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cmus-notify", "config.toml"), nil
	}
	return expandPath("~/.config/cmus-notify/config.toml")
}

// Load reads the configuration file at path (the default location when empty),
// applies environment overrides and validates the result.
// A missing file is not an error, defaults apply.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	} else {
		p, err := expandPath(path)
		if err != nil {
			return nil, err
		}
		path = p
	}

	file, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv reads overrides from environment variables
func (c *AppConfig) applyEnv() {
	if level := os.Getenv("CMUS_NOTIFY_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if socket := os.Getenv("CMUS_NOTIFY_CMUS_SOCKET"); socket != "" {
		c.Cmus.Socket = socket
	}
}

// Normalize expands ~ and environment variables in path fields
func (c *AppConfig) Normalize() error {
	var err error
	if c.CoverConfig.TempDir, err = expandPath(c.CoverConfig.TempDir); err != nil {
		return fmt.Errorf("cover.temp_dir: %w", err)
	}
	if c.Cmus.Socket, err = expandPath(c.Cmus.Socket); err != nil {
		return fmt.Errorf("cmus.socket: %w", err)
	}
	if c.Daemon.LockFile, err = expandPath(c.Daemon.LockFile); err != nil {
		return fmt.Errorf("daemon.lock_file: %w", err)
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.NotificationConfig.Urgency = strings.ToLower(strings.TrimSpace(c.NotificationConfig.Urgency))
	return nil
}

// Validate checks values that cannot be fixed up silently
func (c *AppConfig) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	switch c.NotificationConfig.Urgency {
	case "low", "normal", "critical":
	default:
		return fmt.Errorf("%w: notification.urgency %q", ErrInvalid, c.NotificationConfig.Urgency)
	}
	if c.NotificationConfig.TimeoutMS < -1 {
		return fmt.Errorf("%w: notification.timeout_ms must be -1 or greater", ErrInvalid)
	}
	if c.CoverConfig.IconSize < 0 {
		return fmt.Errorf("%w: cover.icon_size must not be negative", ErrInvalid)
	}
	if c.Cmus.PollIntervalMS <= 0 {
		return fmt.Errorf("%w: cmus.poll_interval_ms must be positive", ErrInvalid)
	}
	if c.Cmus.DebounceMS < 0 {
		return fmt.Errorf("%w: cmus.debounce_ms must not be negative", ErrInvalid)
	}
	if strings.TrimSpace(c.Cmus.RemoteBin) == "" {
		return fmt.Errorf("%w: cmus.remote_bin is required", ErrInvalid)
	}
	return nil
}

// Cover returns the cover lookup settings
func (c *AppConfig) Cover() domain.CoverSettings {
	return domain.CoverSettings{
		MaxDepth:          c.CoverConfig.MaxDepth,
		ForceUseExternal:  c.CoverConfig.ForceUseExternal,
		NoUseExternal:     c.CoverConfig.NoUseExternal,
		PathTemplate:      c.CoverConfig.PathTemplate,
		RemoteURLTemplate: c.CoverConfig.RemoteURLTemplate,
		IconSize:          c.CoverConfig.IconSize,
		TempDir:           c.CoverConfig.TempDir,
	}
}

// Notification returns the notification settings
func (c *AppConfig) Notification() domain.NotificationSettings {
	return domain.NotificationSettings(c.NotificationConfig)
}

// Player returns the cmus settings
func (c *AppConfig) Player() domain.PlayerSettings {
	return domain.PlayerSettings(c.Cmus)
}

func expandPath(path string) (string, error) {
	path = os.ExpandEnv(strings.TrimSpace(path))
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	return path, nil
}

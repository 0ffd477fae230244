package config

import (
	"os"
	"path/filepath"
)

const (
	defaultMaxDepth   = 3
	defaultIconSize   = 128
	defaultTimeoutMS  = 5000
	defaultPollMS     = 1000
	defaultDebounceMS = 300
)

// Default returns the configuration used when no file is present
func Default() *AppConfig {
	return &AppConfig{
		CoverConfig: Cover{
			MaxDepth: defaultMaxDepth,
			IconSize: defaultIconSize,
			TempDir:  os.TempDir(),
		},
		NotificationConfig: Notification{
			AppName:   "cmus-notify",
			Summary:   "{title}",
			Body:      "{artist} - {album}",
			TimeoutMS: defaultTimeoutMS,
			Urgency:   "normal",
		},
		Cmus: Cmus{
			RemoteBin:      "cmus-remote",
			PollIntervalMS: defaultPollMS,
			DebounceMS:     defaultDebounceMS,
		},
		Logging: Logging{Level: "info"},
		Daemon:  Daemon{LockFile: defaultLockFile()},
	}
}

// LogLevel returns the configured log level name
func (c *AppConfig) LogLevel() string {
	return c.Logging.Level
}

// LockFile returns the single-instance lock path
func (c *AppConfig) LockFile() string {
	return c.Daemon.LockFile
}

func defaultLockFile() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "cmus-notify.lock")
	}
	return filepath.Join(os.TempDir(), "cmus-notify.lock")
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CMUS_NOTIFY_LOG_LEVEL", "")
	t.Setenv("CMUS_NOTIFY_CMUS_SOCKET", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cover := cfg.Cover()
	if cover.MaxDepth != 3 {
		t.Errorf("expected max depth 3, got %d", cover.MaxDepth)
	}
	if cover.ForceUseExternal || cover.NoUseExternal {
		t.Error("expected both external flags off by default")
	}
	n := cfg.Notification()
	if n.Summary != "{title}" || n.Body != "{artist} - {album}" {
		t.Errorf("unexpected default templates: %q / %q", n.Summary, n.Body)
	}
	if n.TimeoutMS != 5000 || n.Urgency != "normal" {
		t.Errorf("unexpected notification defaults: %+v", n)
	}
	p := cfg.Player()
	if p.RemoteBin != "cmus-remote" || p.PollIntervalMS != 1000 || p.DebounceMS != 300 {
		t.Errorf("unexpected player defaults: %+v", p)
	}
	if cfg.LogLevel() != "info" {
		t.Errorf("expected info level, got %s", cfg.LogLevel())
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("CMUS_NOTIFY_LOG_LEVEL", "")
	t.Setenv("CMUS_NOTIFY_CMUS_SOCKET", "")
	t.Setenv("HOME", "/home/alex")
	t.Setenv("MUSIC_TMP", "/var/tmp/covers")

	path := writeConfig(t, `
[cover]
max_depth = 5
force_use_external = true
path_template = "/covers/{artist}/{album}.jpg"
temp_dir = "$MUSIC_TMP"

[notification]
summary = "{title} ({album})"
urgency = "LOW"
notify_on_status = true

[cmus]
socket = "~/.config/cmus/socket"
debounce_ms = 0

[logging]
level = "Debug"

[daemon]
lock_file = "~/cmus-notify.lock"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cover := cfg.Cover()
	if cover.MaxDepth != 5 || !cover.ForceUseExternal {
		t.Errorf("cover section not applied: %+v", cover)
	}
	if cover.PathTemplate != "/covers/{artist}/{album}.jpg" {
		t.Errorf("path template changed: %q", cover.PathTemplate)
	}
	if cover.TempDir != "/var/tmp/covers" {
		t.Errorf("expected env expansion, got %q", cover.TempDir)
	}
	if cover.IconSize != 128 {
		t.Errorf("expected unset icon size to keep default, got %d", cover.IconSize)
	}

	n := cfg.Notification()
	if n.Summary != "{title} ({album})" || n.Urgency != "low" || !n.NotifyOnStatus {
		t.Errorf("notification section not applied: %+v", n)
	}
	if n.Body != "{artist} - {album}" {
		t.Errorf("expected default body, got %q", n.Body)
	}

	p := cfg.Player()
	if p.Socket != "/home/alex/.config/cmus/socket" {
		t.Errorf("expected home expansion, got %q", p.Socket)
	}
	if p.DebounceMS != 0 {
		t.Errorf("expected debounce 0, got %d", p.DebounceMS)
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("expected debug, got %s", cfg.LogLevel())
	}
	if cfg.LockFile() != "/home/alex/cmus-notify.lock" {
		t.Errorf("unexpected lock file %q", cfg.LockFile())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CMUS_NOTIFY_LOG_LEVEL", "warn")
	t.Setenv("CMUS_NOTIFY_CMUS_SOCKET", "/run/cmus.sock")

	path := writeConfig(t, "[logging]\nlevel = \"error\"\n[cmus]\nsocket = \"/tmp/other\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel() != "warn" {
		t.Errorf("expected env level to win, got %s", cfg.LogLevel())
	}
	if cfg.Player().Socket != "/run/cmus.sock" {
		t.Errorf("expected env socket to win, got %s", cfg.Player().Socket)
	}
}

func TestLoad_DefaultPath(t *testing.T) {
	t.Setenv("CMUS_NOTIFY_LOG_LEVEL", "")
	t.Setenv("CMUS_NOTIFY_CMUS_SOCKET", "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	if err := os.MkdirAll(filepath.Join(xdg, "cmus-notify"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(xdg, "cmus-notify", "config.toml"), []byte("[cover]\nmax_depth = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Cover().MaxDepth != 1 {
		t.Errorf("expected file under XDG_CONFIG_HOME to be read, got depth %d", cfg.Cover().MaxDepth)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("CMUS_NOTIFY_LOG_LEVEL", "")
	t.Setenv("CMUS_NOTIFY_CMUS_SOCKET", "")

	tests := []struct {
		name        string
		content     string
		invalid     bool
		errContains string
	}{
		{name: "Malformed TOML", content: "[cover\nmax_depth = 1", errContains: "parse config"},
		{name: "Unknown Field", content: "[cover]\ndepth = 1\n", errContains: "parse config"},
		{name: "Negative Depth", content: "[cover]\nmax_depth = -1\n", errContains: "parse config"},
		{name: "Bad Log Level", content: "[logging]\nlevel = \"loud\"\n", invalid: true, errContains: "logging.level"},
		{name: "Bad Urgency", content: "[notification]\nurgency = \"urgent\"\n", invalid: true, errContains: "notification.urgency"},
		{name: "Bad Timeout", content: "[notification]\ntimeout_ms = -5\n", invalid: true, errContains: "timeout_ms"},
		{name: "Zero Poll Interval", content: "[cmus]\npoll_interval_ms = 0\n", invalid: true, errContains: "poll_interval_ms"},
		{name: "Empty Remote Binary", content: "[cmus]\nremote_bin = \" \"\n", invalid: true, errContains: "remote_bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("expected error '%s' to contain '%s'", err, tt.errContains)
			}
			if errors.Is(err, ErrInvalid) != tt.invalid {
				t.Errorf("errors.Is(err, ErrInvalid) = %v, want %v", errors.Is(err, ErrInvalid), tt.invalid)
			}
		})
	}
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if filepath.Base(cfg.LockFile()) != "cmus-notify.lock" {
		t.Errorf("unexpected lock file %q", cfg.LockFile())
	}
}

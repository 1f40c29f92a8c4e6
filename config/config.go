// Package config loads server configuration from an optional YAML file
// with environment variable overrides. Defaults work out of the box for
// local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	OSName  string `yaml:"os_name"`
	OSIcon  string `yaml:"os_icon"`
	APIBase string `yaml:"api_base"`

	Port     int    `yaml:"port"`
	DataDir  string `yaml:"data_dir"`
	HomesDir string `yaml:"homes_dir"`
	// PostgresDSN switches the storage backend from bbolt to postgres
	// when non-empty.
	PostgresDSN string `yaml:"postgres_dsn"`

	// SessionExpiry in seconds.
	SessionExpiry int `yaml:"session_expiry"`
	// CommandTimeout in seconds.
	CommandTimeout int `yaml:"command_timeout"`

	RegistrationOpen bool `yaml:"registration_open"`
	TrustedProxy     bool `yaml:"trusted_proxy"`

	AllowedCommands []string `yaml:"allowed_commands"`
	BlockedCommands []string `yaml:"blocked_commands"`

	Icons Icons `yaml:"icons"`
}

// Icons are the desktop shell glyphs.
type Icons struct {
	Terminal string `yaml:"terminal"`
	Folder   string `yaml:"folder"`
	Settings string `yaml:"settings"`
	Logout   string `yaml:"logout"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		OSName:           "Cecilia",
		OSIcon:           "🌼",
		APIBase:          "/api",
		Port:             8080,
		DataDir:          "./data",
		HomesDir:         "/home",
		SessionExpiry:    7 * 24 * 60 * 60,
		CommandTimeout:   30,
		RegistrationOpen: true,
		AllowedCommands: []string{
			"ls", "cd", "pwd", "cat", "head", "tail", "wc",
			"mkdir", "rmdir", "touch", "cp", "mv", "rm",
			"echo", "date", "whoami", "id", "uname",
			"grep", "find", "sort", "uniq", "diff",
			"tar", "gzip", "gunzip", "zip", "unzip",
			"curl", "wget",
			"node", "npm", "npx", "python", "python3", "pip", "pip3",
			"git", "claude", "vim", "nano", "less", "more",
		},
		BlockedCommands: []string{
			"sudo", "su", "passwd", "useradd", "userdel", "usermod",
			"chown", "chmod", "chgrp", "mount", "umount",
			"reboot", "shutdown", "halt", "poweroff",
			"systemctl", "service", "iptables", "ufw",
			"dd", "mkfs", "fdisk", "parted",
		},
		Icons: Icons{
			Terminal: "💻",
			Folder:   "📁",
			Settings: "⚙",
			Logout:   "🚪",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty), then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.OSName, "OS_NAME")
	setString(&cfg.OSIcon, "OS_ICON")
	setString(&cfg.APIBase, "API_BASE")
	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.HomesDir, "HOMES_DIR")
	setString(&cfg.PostgresDSN, "POSTGRES_DSN")
	setInt(&cfg.Port, "PORT")
	setInt(&cfg.SessionExpiry, "SESSION_EXPIRY")
	setInt(&cfg.CommandTimeout, "COMMAND_TIMEOUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.SessionExpiry <= 0 {
		return fmt.Errorf("session_expiry must be positive, got %d", c.SessionExpiry)
	}
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %d", c.CommandTimeout)
	}
	if c.HomesDir == "" {
		return fmt.Errorf("homes_dir is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	return nil
}

// SessionTTL returns the session expiry as a duration.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionExpiry) * time.Second
}

// CommandTimeoutDuration returns the command timeout as a duration.
func (c Config) CommandTimeoutDuration() time.Duration {
	return time.Duration(c.CommandTimeout) * time.Second
}

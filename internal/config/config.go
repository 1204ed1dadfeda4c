// Package config loads the optional smalltalk configuration file.
//
// The file lives in the platform configuration directory:
//   - Linux: $XDG_CONFIG_HOME/smalltalk/config.yaml or $HOME/.config/smalltalk/config.yaml
//   - macOS: $HOME/.config/smalltalk/config.yaml
//   - Windows: %LOCALAPPDATA%\smalltalk\config.yaml
//
// A missing file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "smalltalk"
	configFile = "config.yaml"

	// CurrentVersion is the config file format version.
	CurrentVersion = 1

	// DefaultRedisURL is used by the Redis progress feed when nothing else is
	// configured.
	DefaultRedisURL = "redis://localhost:6379/0"
)

// Config is the content of the configuration file.
type Config struct {
	Version   int    `yaml:"version"`
	Labels    Labels `yaml:"labels,omitempty"`
	BackTitle string `yaml:"back_title,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFile   string `yaml:"log_file,omitempty"`
	RedisURL  string `yaml:"redis_url,omitempty"`
}

// Labels overrides the default button captions.
type Labels struct {
	OK     string `yaml:"ok,omitempty"`
	Cancel string `yaml:"cancel,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Labels: Labels{
			OK:     "OK",
			Cancel: "Cancel",
		},
		RedisURL: DefaultRedisURL,
	}
}

// Dir returns the OS-appropriate configuration directory.
func Dir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, appName), nil
		}
		userProfile := os.Getenv("USERPROFILE")
		if userProfile == "" {
			return "", errors.New("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(userProfile, "AppData", "Local", appName), nil
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determine home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", appName), nil
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the configuration at path, or at the default location when path
// is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, fmt.Errorf("get config path: %w", err)
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes configuration data, filling unset fields with defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version: %d (expected %d)", cfg.Version, CurrentVersion)
	}

	defaults := Default()
	if cfg.Labels.OK == "" {
		cfg.Labels.OK = defaults.Labels.OK
	}
	if cfg.Labels.Cancel == "" {
		cfg.Labels.Cancel = defaults.Labels.Cancel
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaults.RedisURL
	}
	return cfg, nil
}

// Package config loads fetchlist settings from a YAML file.
// A missing file is not an error; defaults are returned.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h0rv/fetchlist/internal/fetch"
	"gopkg.in/yaml.v3"
)

// Tag modes accepted in the tags setting.
const (
	TagsRandom     = "random"
	TagsRoundRobin = "round-robin"
)

const (
	defaultConfigPath = "~/.config/fetchlist/config.yaml"
	defaultLogFile    = "~/.local/state/fetchlist/fetchlist.log"
	defaultUserAgent  = "fetchlist/0.1"
)

// ErrInvalidTagMode is returned by Validate for an unknown tags value.
var ErrInvalidTagMode = errors.New("invalid tags mode")

// Config holds the resolved settings.
type Config struct {
	BaseURL   string `yaml:"base_url"`
	Path      string `yaml:"path"`
	UserAgent string `yaml:"user_agent"`
	Tags      string `yaml:"tags"`
	LogFile   string `yaml:"log_file"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:   fetch.DefaultBaseURL,
		Path:      fetch.DefaultPath,
		UserAgent: defaultUserAgent,
		Tags:      TagsRandom,
		LogFile:   mustExpand(defaultLogFile),
	}
}

// DefaultPath returns the config file location used when none is given.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Load reads path (or the default location when empty) over the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()

	resolved := DefaultPath()
	if strings.TrimSpace(path) != "" {
		p, err := expandPath(path)
		if err != nil {
			return cfg, err
		}
		resolved = p
	}

	b, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(b, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	cfg.merge(fileCfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// merge copies every non-empty field of other into c.
func (c *Config) merge(other Config) {
	if v := strings.TrimSpace(other.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(other.Path); v != "" {
		c.Path = v
	}
	if v := strings.TrimSpace(other.UserAgent); v != "" {
		c.UserAgent = v
	}
	if v := strings.TrimSpace(other.Tags); v != "" {
		c.Tags = strings.ToLower(v)
	}
	if v := strings.TrimSpace(other.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
}

// Override applies command-line values; empty strings leave a field as is.
func (c *Config) Override(baseURL, path, tags string) error {
	c.merge(Config{BaseURL: baseURL, Path: path, Tags: tags})
	return c.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Tags {
	case TagsRandom, TagsRoundRobin:
		return nil
	default:
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidTagMode, c.Tags, TagsRandom, TagsRoundRobin)
	}
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

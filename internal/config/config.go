package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Snuffy2/hass-favicon/internal/ui"
)

// Config represents the full application configuration written to config.yml.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Auth     AuthConfig     `yaml:"auth"`
	Paths    PathsConfig    `yaml:"paths"`
	Branding BrandingConfig `yaml:"branding"`
}

type ServiceConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
}

type AuthConfig struct {
	Mode         string `yaml:"mode"`
	PasswordHash string `yaml:"password_hash,omitempty"`
}

type PathsConfig struct {
	// WWWDir is the local directory that backs the public /local/ URL
	// prefix. Icon folders are resolved underneath it.
	WWWDir  string `yaml:"www_dir"`
	DataDir string `yaml:"data_dir"`
}

// BrandingConfig holds the branding overrides applied at startup when no
// persisted entry exists. All fields are optional; an empty value leaves
// the corresponding part of the dashboard untouched.
type BrandingConfig struct {
	Title           string `yaml:"title,omitempty"`
	IconPath        string `yaml:"icon_path,omitempty"`
	LaunchIconColor string `yaml:"launch_icon_color,omitempty"`
}

// Load reads and parses a config file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that all required fields are present and values are in range.
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port must be between 1 and 65535")
	}
	if c.Service.BindAddress == "" {
		return fmt.Errorf("service.bind_address is required")
	}

	switch c.Auth.Mode {
	case AuthModeNone, AuthModePassword:
		// ok
	default:
		return fmt.Errorf("auth.mode must be %q or %q", AuthModeNone, AuthModePassword)
	}
	if c.Auth.Mode == AuthModePassword && c.Auth.PasswordHash == "" {
		return fmt.Errorf("auth.password_hash is required when auth.mode is %q", AuthModePassword)
	}

	if c.Paths.WWWDir == "" {
		return fmt.Errorf("paths.www_dir is required")
	}
	if c.Paths.DataDir == "" {
		return fmt.Errorf("paths.data_dir is required")
	}

	if p := c.Branding.IconPath; p != "" && !strings.HasPrefix(p, LocalPrefix) {
		return fmt.Errorf("branding.icon_path must start with %q", LocalPrefix)
	}
	if col := c.Branding.LaunchIconColor; col != "" && !ui.IsHexColor(col) {
		return fmt.Errorf("branding.launch_icon_color must be a #RRGGBB color")
	}

	return nil
}

// Save writes the config to the given path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0640); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

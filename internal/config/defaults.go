package config

import "github.com/Snuffy2/hass-favicon/internal/icons"

const (
	// Filesystem paths
	DefaultConfigPath = "/etc/hass-favicon/config.yml"
	DefaultDataDir    = "/var/lib/hass-favicon"
	DefaultWWWDir     = "/var/lib/hass-favicon/www"

	// Service defaults
	DefaultBindAddress = "0.0.0.0"
	DefaultPort        = 8126

	// Auth modes
	AuthModeNone     = "none"
	AuthModePassword = "password"

	// LocalPrefix is the public URL prefix backing user-supplied assets.
	// Icon folders must live under it.
	LocalPrefix = icons.LocalPrefix

	// Branding defaults
	DefaultTitle     = "Home Assistant"
	DefaultIconPath  = "/local/favicons/"
	DefaultIconColor = "#18BCF2"
)

// Default returns a config populated with the standard defaults and no
// branding overrides.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BindAddress: DefaultBindAddress,
			Port:        DefaultPort,
		},
		Auth: AuthConfig{Mode: AuthModeNone},
		Paths: PathsConfig{
			WWWDir:  DefaultWWWDir,
			DataDir: DefaultDataDir,
		},
	}
}

package frontend

import (
	"encoding/json"
	"sync"

	"github.com/Snuffy2/hass-favicon/internal/icons"
)

// Fixed manifest identity values restored whenever no title override is
// active.
const (
	DefaultName      = "Home Assistant"
	DefaultShortName = "Assistant"

	// DefaultThemeColor is the stock accent color baked into the index
	// document and the manifest.
	DefaultThemeColor = "#18BCF2"
)

// DefaultManifestIcons returns the stock icon list served before any
// branding hook replaces it.
func DefaultManifestIcons() []icons.ManifestIcon {
	sizes := []string{"192x192", "384x384", "512x512", "1024x1024"}
	list := make([]icons.ManifestIcon, 0, len(sizes))
	for _, s := range sizes {
		list = append(list, icons.ManifestIcon{
			Src:   "/static/icons/favicon-" + s + ".png",
			Sizes: s,
			Type:  "image/png",
		})
	}
	return list
}

// Manifest is the web-app manifest served at /manifest.json. Branding
// hooks mutate individual keys through Add; everything else keeps its
// seeded default.
type Manifest struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewManifest returns a manifest seeded with the stock dashboard values.
func NewManifest() *Manifest {
	return &Manifest{
		values: map[string]any{
			"background_color": "#FFFFFF",
			"description":      "Home automation platform that puts local control and privacy first.",
			"dir":              "ltr",
			"display":          "standalone",
			"icons":            DefaultManifestIcons(),
			"lang":             "en-US",
			"name":             DefaultName,
			"short_name":       DefaultShortName,
			"start_url":        "/?homescreen=1",
			"theme_color":      DefaultThemeColor,
		},
	}
}

// Add sets or replaces a manifest key.
func (m *Manifest) Add(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Get returns the current value for a key, or nil.
func (m *Manifest) Get(key string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

// Icons returns a copy of the current icon list, so callers can cache it
// without later Add calls bleeding into the copy.
func (m *Manifest) Icons() []icons.ManifestIcon {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list, _ := m.values["icons"].([]icons.ManifestIcon)
	out := make([]icons.ManifestIcon, len(list))
	copy(out, list)
	return out
}

// JSON serializes the manifest.
func (m *Manifest) JSON() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return json.Marshal(m.values)
}

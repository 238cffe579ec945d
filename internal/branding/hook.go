package branding

import (
	"errors"
	"log"

	"github.com/Snuffy2/hass-favicon/internal/frontend"
	"github.com/Snuffy2/hass-favicon/internal/icons"
)

// ErrNotInstalled is returned by Remove when no hook was ever applied in
// this process. That indicates a lifecycle ordering bug in the caller,
// not a runtime condition to recover from.
var ErrNotInstalled = errors.New("branding: remove called before any hook was applied")

// Hook owns the process-wide install state: the frontend's original
// template strategy and manifest icon list, captured at first activation
// so they can be restored verbatim on removal. Apply and Remove are
// invoked serially by the service lifecycle; the installed wrapper itself
// is safe for concurrent request handling.
type Hook struct {
	fe     *frontend.Frontend
	wwwDir string

	origTemplate frontend.TemplateFunc
	origIcons    []icons.ManifestIcon
	captured     bool
}

// NewHook binds a hook to the frontend it will rewrite. wwwDir backs the
// public /local/ prefix for icon discovery.
func NewHook(fe *frontend.Frontend, wwwDir string) *Hook {
	return &Hook{fe: fe, wwwDir: wwwDir}
}

// Apply activates the given overrides: it scans the icon folder, wraps
// the frontend's template strategy with the rewrite post-processor, and
// updates the manifest. Safe to call repeatedly with new configs; the
// originals captured on the first call are reused so reconfiguration
// never loses them. Icon discovery failures are logged and treated as
// "no icons found" — title and color overrides still apply.
func (h *Hook) Apply(cfg Config) error {
	set := h.scanIcons(cfg.IconFolder)

	if !h.captured {
		h.origTemplate = h.fe.TemplateFunc()
		h.origIcons = h.fe.Manifest().Icons()
		h.captured = true
	}

	orig := h.origTemplate
	rw := NewRewriter(set, cfg)
	h.fe.SetTemplateFunc(func() (*frontend.IndexTemplate, error) {
		tpl, err := orig()
		if err != nil {
			return nil, err
		}
		render := tpl.Render
		return &frontend.IndexTemplate{
			Render: func(data frontend.IndexData) (string, error) {
				text, err := render(data)
				if err != nil {
					return "", err
				}
				return rw.Apply(text), nil
			},
		}, nil
	})
	h.fe.InvalidateTemplateCache()

	man := h.fe.Manifest()
	if len(set.ManifestIcons) > 0 {
		man.Add("icons", set.ManifestIcons)
	} else {
		man.Add("icons", copyIcons(h.origIcons))
	}

	if cfg.Title != "" {
		man.Add("name", cfg.Title)
		man.Add("short_name", cfg.Title)
	} else {
		man.Add("name", frontend.DefaultName)
		man.Add("short_name", frontend.DefaultShortName)
	}

	return nil
}

// Remove restores the template strategy and manifest captured at first
// activation. The originals stay cached, so a later Apply reactivates
// against the true originals.
func (h *Hook) Remove() error {
	if !h.captured {
		return ErrNotInstalled
	}

	h.fe.SetTemplateFunc(h.origTemplate)
	h.fe.InvalidateTemplateCache()

	man := h.fe.Manifest()
	man.Add("icons", copyIcons(h.origIcons))
	man.Add("name", frontend.DefaultName)
	man.Add("short_name", frontend.DefaultShortName)

	return nil
}

// scanIcons runs icon discovery for the configured folder. The scan is
// plain filesystem I/O: it blocks only the activating goroutine, never
// concurrent request handling. Failures downgrade to an empty set.
func (h *Hook) scanIcons(folder string) icons.IconSet {
	set, err := icons.Locate(h.wwwDir, folder)
	if err != nil {
		log.Printf("[branding] icon discovery: %v", err)
		return icons.IconSet{}
	}
	if set.Favicon != "" {
		log.Printf("[branding] found favicon: %s", set.Favicon)
	}
	if set.AppleIcon != "" {
		log.Printf("[branding] found apple touch icon: %s", set.AppleIcon)
	}
	for _, icon := range set.ManifestIcons {
		log.Printf("[branding] found icon: %s", icon.Src)
	}
	return set
}

func copyIcons(list []icons.ManifestIcon) []icons.ManifestIcon {
	out := make([]icons.ManifestIcon, len(list))
	copy(out, list)
	return out
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/Snuffy2/hass-favicon/internal/branding"
	"github.com/Snuffy2/hass-favicon/internal/config"
	"github.com/Snuffy2/hass-favicon/internal/entry"
	"github.com/Snuffy2/hass-favicon/internal/ui"
)

// settingsResponse mirrors the persisted branding entry.
type settingsResponse struct {
	Title           string `json:"title"`
	IconPath        string `json:"icon_path"`
	LaunchIconColor string `json:"launch_icon_color"`
}

func (s *Server) currentEntry() *entry.Entry {
	e, err := s.entries.Load()
	if err != nil {
		log.Printf("[server] warning: could not load branding entry: %v", err)
		return nil
	}
	return e
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	var resp settingsResponse
	if e := s.currentEntry(); e != nil {
		resp = settingsResponse{
			Title:           e.Title,
			IconPath:        e.IconPath,
			LaunchIconColor: e.LaunchIconColor,
		}
	} else {
		resp = settingsResponse{
			Title:           s.cfg.Branding.Title,
			IconPath:        s.cfg.Branding.IconPath,
			LaunchIconColor: s.cfg.Branding.LaunchIconColor,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdateSettings is the reconfigure path: validate, persist, and
// re-apply the branding hooks so the next page load sees the new values.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.IconPath != "" && !strings.HasPrefix(req.IconPath, config.LocalPrefix) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("icon_path must start with %q", config.LocalPrefix))
		return
	}
	if req.LaunchIconColor != "" && !ui.IsHexColor(req.LaunchIconColor) {
		writeError(w, http.StatusBadRequest, "launch_icon_color must be a #RRGGBB color")
		return
	}

	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	e := s.currentEntry()
	if e == nil {
		e = &entry.Entry{}
	}
	e.Title = req.Title
	e.IconPath = req.IconPath
	e.LaunchIconColor = req.LaunchIconColor

	if err := s.entries.Save(e); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save settings: %v", err))
		return
	}

	if err := s.hook.Apply(branding.Config{
		Title:       e.Title,
		AccentColor: e.LaunchIconColor,
		IconFolder:  e.IconPath,
	}); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to apply branding: %v", err))
		return
	}

	s.events.broadcast(r.Context(), "branding_updated")
	s.handleGetSettings(w, r)
}

// handleResetSettings removes the installed hooks and the persisted
// entry, restoring the stock dashboard.
func (s *Server) handleResetSettings(w http.ResponseWriter, r *http.Request) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	if err := s.hook.Remove(); err != nil {
		if errors.Is(err, branding.ErrNotInstalled) {
			writeError(w, http.StatusConflict, "no branding is installed")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.entries.Delete(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete settings: %v", err))
		return
	}

	s.events.broadcast(r.Context(), "branding_reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

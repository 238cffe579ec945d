package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Snuffy2/hass-favicon/internal/frontend"
	"github.com/Snuffy2/hass-favicon/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": version.Version,
	})
}

// handleIndex renders the dashboard index through the frontend seam, so
// whatever branding hook is installed post-processes the document.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.fe.Template()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load index template")
		return
	}

	themeColor := frontend.DefaultThemeColor
	if c, ok := s.fe.Manifest().Get("theme_color").(string); ok && c != "" {
		themeColor = c
	}

	html, err := tpl.Render(frontend.IndexData{ThemeColor: themeColor})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render index")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(html))
}

func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	data, err := s.fe.Manifest().JSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to serialize manifest")
		return
	}
	w.Header().Set("Content-Type", "application/manifest+json")
	w.Write(data)
}

// handleLocal serves user-supplied assets (icon files among them) from
// the configured www directory.
func (s *Server) handleLocal(w http.ResponseWriter, r *http.Request) {
	rel := filepath.Clean(r.PathValue("path"))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.Paths.WWWDir, rel))
}

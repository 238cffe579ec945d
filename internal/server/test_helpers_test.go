package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Snuffy2/hass-favicon/internal/branding"
	"github.com/Snuffy2/hass-favicon/internal/config"
	"github.com/Snuffy2/hass-favicon/internal/entry"
	"github.com/Snuffy2/hass-favicon/internal/frontend"
)

// testWWWDir creates a www directory with a favicons folder holding one
// of each icon kind.
func testWWWDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	icons := filepath.Join(dir, "favicons")
	if err := os.MkdirAll(icons, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, name := range []string{
		"favicon.ico",
		"favicon-apple-180x180.png",
		"favicon-192x192.png",
		"favicon-512x512.png",
	} {
		if err := os.WriteFile(filepath.Join(icons, name), []byte("png"), 0644); err != nil {
			t.Fatalf("WriteFile %s: %v", name, err)
		}
	}
	return dir
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Service: config.ServiceConfig{BindAddress: "127.0.0.1", Port: 0},
		Auth:    config.AuthConfig{Mode: config.AuthModeNone},
		Paths: config.PathsConfig{
			WWWDir:  testWWWDir(t),
			DataDir: t.TempDir(),
		},
	}
}

func testStore(t *testing.T) *entry.Store {
	t.Helper()
	st, err := entry.NewStore(filepath.Join(t.TempDir(), "favicon.db"))
	if err != nil {
		t.Fatalf("entry.NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return testServerWithConfig(t, testConfig(t))
}

func testServerWithConfig(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	fe := frontend.New()
	hook := branding.NewHook(fe, cfg.Paths.WWWDir)
	return New(cfg, fe, hook, testStore(t))
}

func doRequest(t *testing.T, srv *Server, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode JSON: %v (body: %s)", err, w.Body.String())
	}
	return result
}

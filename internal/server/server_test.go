package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"nhooyr.io/websocket"

	"github.com/Snuffy2/hass-favicon/internal/branding"
	"github.com/Snuffy2/hass-favicon/internal/config"
	"github.com/Snuffy2/hass-favicon/internal/entry"
	"github.com/Snuffy2/hass-favicon/internal/frontend"
)

// --- Health ---

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "GET", "/api/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := decodeJSON(t, w)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want %q", body["status"], "ok")
	}
	if body["version"] == "" {
		t.Error("version is empty")
	}
}

// --- Index ---

func TestIndexStock(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "GET", "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	html := w.Body.String()
	if !strings.Contains(html, "<title>Home Assistant</title>") {
		t.Error("stock index missing default title")
	}
	if !strings.Contains(html, "/static/icons/favicon.ico") {
		t.Error("stock index missing default favicon")
	}
}

func TestIndexRewrittenAfterUpdate(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "PUT", "/api/settings",
		`{"title": "Smith Home", "icon_path": "/local/favicons/", "launch_icon_color": "#FF0000"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	w = doRequest(t, srv, "GET", "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("index status = %d, want %d", w.Code, http.StatusOK)
	}
	html := w.Body.String()

	if !strings.Contains(html, "<title>Smith Home</title>") {
		t.Error("index title not rewritten")
	}
	if strings.Contains(html, "/static/icons/favicon.ico") {
		t.Error("stock favicon still referenced")
	}
	if !strings.Contains(html, "/local/favicons/favicon.ico") {
		t.Error("custom favicon not referenced")
	}
	if !strings.Contains(html, "/local/favicons/favicon-apple-180x180.png") {
		t.Error("custom apple icon not referenced")
	}
	if !strings.Contains(html, `color="#FF0000"`) {
		t.Error("mask-icon color not rewritten")
	}
	if !strings.Contains(html, `<script type="module">`) {
		t.Error("title shim not injected")
	}
}

func TestIndexFallbackRoutes(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "GET", "/lovelace/0", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "<body>") {
		t.Error("fallback route did not render the index")
	}
}

// --- Manifest ---

func TestManifestUpdatedAfterSettings(t *testing.T) {
	srv := testServer(t)

	w := doRequest(t, srv, "GET", "/manifest.json", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeJSON(t, w)
	if body["name"] != "Home Assistant" {
		t.Errorf("stock name = %v, want %q", body["name"], "Home Assistant")
	}

	doRequest(t, srv, "PUT", "/api/settings",
		`{"title": "Smith Home", "icon_path": "/local/favicons/"}`)

	w = doRequest(t, srv, "GET", "/manifest.json", "")
	body = decodeJSON(t, w)
	if body["name"] != "Smith Home" {
		t.Errorf("name = %v, want %q", body["name"], "Smith Home")
	}
	if body["short_name"] != "Smith Home" {
		t.Errorf("short_name = %v, want %q", body["short_name"], "Smith Home")
	}

	iconsVal, ok := body["icons"].([]interface{})
	if !ok || len(iconsVal) != 2 {
		t.Fatalf("icons = %v, want 2 entries", body["icons"])
	}
	first := iconsVal[0].(map[string]interface{})
	if first["src"] != "/local/favicons/favicon-192x192.png" {
		t.Errorf("first icon src = %v", first["src"])
	}
	if first["sizes"] != "192x192" {
		t.Errorf("first icon sizes = %v", first["sizes"])
	}
}

// --- Settings ---

func TestGetSettingsFallsBackToConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Branding = config.BrandingConfig{
		Title:           "Config Title",
		IconPath:        "/local/favicons/",
		LaunchIconColor: "#18BCF2",
	}
	srv := testServerWithConfig(t, cfg)

	w := doRequest(t, srv, "GET", "/api/settings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeJSON(t, w)
	if body["title"] != "Config Title" {
		t.Errorf("title = %v, want %q", body["title"], "Config Title")
	}
	if body["icon_path"] != "/local/favicons/" {
		t.Errorf("icon_path = %v", body["icon_path"])
	}
}

func TestUpdateSettingsPersists(t *testing.T) {
	srv := testServer(t)

	doRequest(t, srv, "PUT", "/api/settings",
		`{"title": "Persisted", "icon_path": "/local/favicons/", "launch_icon_color": "#00FF00"}`)

	w := doRequest(t, srv, "GET", "/api/settings", "")
	body := decodeJSON(t, w)
	if body["title"] != "Persisted" {
		t.Errorf("title = %v, want %q", body["title"], "Persisted")
	}
	if body["launch_icon_color"] != "#00FF00" {
		t.Errorf("launch_icon_color = %v, want %q", body["launch_icon_color"], "#00FF00")
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad icon path", `{"icon_path": "/elsewhere/favicons/"}`},
		{"bad color", `{"launch_icon_color": "blue"}`},
		{"short hex", `{"launch_icon_color": "#FFF"}`},
		{"malformed json", `{"title": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, srv, "PUT", "/api/settings", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestResetBeforeApplyConflicts(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "POST", "/api/settings/reset", "")

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestResetRestoresStockIndex(t *testing.T) {
	srv := testServer(t)

	before := doRequest(t, srv, "GET", "/", "").Body.String()

	doRequest(t, srv, "PUT", "/api/settings",
		`{"title": "Smith Home", "icon_path": "/local/favicons/"}`)

	w := doRequest(t, srv, "POST", "/api/settings/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	after := doRequest(t, srv, "GET", "/", "").Body.String()
	if after != before {
		t.Error("index after reset differs from stock index")
	}

	w = doRequest(t, srv, "GET", "/api/settings", "")
	body := decodeJSON(t, w)
	if body["title"] != "" {
		t.Errorf("title after reset = %v, want empty", body["title"])
	}
}

// --- Local assets ---

func TestLocalServesIconFiles(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "GET", "/local/favicons/favicon.ico", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestLocalMissingFile(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "GET", "/local/favicons/nope.png", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestLocalEmptyPath(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "GET", "/local/", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// --- Auth ---

func testPasswordServer(t *testing.T, password string) *Server {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := testConfig(t)
	cfg.Auth = config.AuthConfig{Mode: config.AuthModePassword, PasswordHash: string(hash)}
	return testServerWithConfig(t, cfg)
}

func TestSettingsRequireAuth(t *testing.T) {
	srv := testPasswordServer(t, "hunter2")

	w := doRequest(t, srv, "PUT", "/api/settings", `{"title": "Nope"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := testPasswordServer(t, "hunter2")

	w := doRequest(t, srv, "POST", "/api/auth/login", `{"password": "wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLoginAndUpdate(t *testing.T) {
	srv := testPasswordServer(t, "hunter2")

	w := doRequest(t, srv, "POST", "/api/auth/login", `{"password": "hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want %d", w.Code, http.StatusOK)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName {
		t.Fatalf("cookies = %v, want one %s cookie", cookies, sessionCookieName)
	}

	req := httptest.NewRequest("PUT", "/api/settings",
		strings.NewReader(`{"title": "Authed", "icon_path": "/local/favicons/"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestAuthCheck(t *testing.T) {
	srv := testPasswordServer(t, "hunter2")

	w := doRequest(t, srv, "GET", "/api/auth/check", "")
	body := decodeJSON(t, w)
	if body["authenticated"] != false {
		t.Errorf("authenticated = %v, want false", body["authenticated"])
	}
	if body["auth_required"] != true {
		t.Errorf("auth_required = %v, want true", body["auth_required"])
	}
}

func TestAuthRoutesAbsentWhenDisabled(t *testing.T) {
	srv := testServer(t)
	w := doRequest(t, srv, "POST", "/api/auth/login", `{"password": "x"}`)

	if w.Code == http.StatusOK {
		t.Fatal("login route registered with auth disabled")
	}
}

// --- Events ---

func TestEventsBroadcast(t *testing.T) {
	srv := testServer(t)
	ts := httptest.NewServer(srv.http.Handler)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// The handler subscribes after the handshake completes; wait for it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		srv.events.mu.Lock()
		n := len(srv.events.conns)
		srv.events.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("connection never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.events.broadcast(ctx, "branding_updated")

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg eventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("unmarshal: %v (data: %s)", err, data)
	}
	if msg.Type != "branding_updated" {
		t.Errorf("type = %q, want %q", msg.Type, "branding_updated")
	}
}

func TestBroadcastWithNoSubscribers(t *testing.T) {
	hub := newEventHub()
	hub.broadcast(context.Background(), "branding_updated")
	hub.closeAll()
}

// failingStore errors on writes, to exercise the persistence error paths.
type failingStore struct{}

func (failingStore) Load() (*entry.Entry, error) { return nil, nil }
func (failingStore) Save(*entry.Entry) error     { return fmt.Errorf("disk full") }
func (failingStore) Delete() error               { return fmt.Errorf("disk full") }

func TestUpdateSettingsSaveFailure(t *testing.T) {
	cfg := testConfig(t)
	fe := frontend.New()
	hook := branding.NewHook(fe, cfg.Paths.WWWDir)
	srv := New(cfg, fe, hook, failingStore{})

	w := doRequest(t, srv, "PUT", "/api/settings", `{"title": "Smith Home"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

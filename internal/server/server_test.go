package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/dialog"
	"github.com/GriffinCanCode/Klin/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Klin/backend/internal/providers/filesystem"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	srv       *Server
	downloads string
	appData   string
	savedTo   string
	opened    []string
}

func newFixture(t *testing.T, mutate func(*config.Config)) *fixture {
	t.Helper()
	f := &fixture{
		downloads: t.TempDir(),
		appData:   t.TempDir(),
	}
	f.savedTo = filepath.Join(t.TempDir(), "exported.md")

	cfg := config.Default()
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	cfg.Storage.DownloadsDir = f.downloads
	cfg.Storage.AppDataDir = f.appData
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := NewServerWithOptions(cfg, Options{
		Logger: logging.NewNop(),
		Dialog: dialog.Static{Path: f.savedTo},
		Launcher: filesystem.LauncherFunc(func(path string) error {
			f.opened = append(f.opened, path)
			return nil
		}),
	})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	f.srv = srv
	return f
}

func (f *fixture) invoke(t *testing.T, command string, args interface{}) (int, map[string]interface{}) {
	t.Helper()
	var body []byte
	if args != nil {
		var err error
		body, err = json.Marshal(args)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(http.MethodPost, "/invoke/"+command, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestNewServerRegistersProviders(t *testing.T) {
	f := newFixture(t, nil)

	stats := f.srv.Registry().Stats()
	assert.Equal(t, 3, stats["total_services"])

	for _, cmd := range []string{"read_folder", "create_note", "greet", "get_downloads_folder"} {
		_, ok := f.srv.Registry().ResolveCommand(cmd)
		assert.True(t, ok, cmd)
	}
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = ""
	_, err := NewServerWithOptions(cfg, Options{Logger: logging.NewNop()})
	assert.Error(t, err)
}

func TestNoteLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t, nil)

	code, resp := f.invoke(t, "create_note", map[string]string{"title": "Groceries", "content": "# Milk"})
	require.Equal(t, http.StatusOK, code, resp)
	filename := resp["data"].(map[string]interface{})["filename"].(string)
	assert.FileExists(t, filepath.Join(f.appData, "notes", filename))

	code, resp = f.invoke(t, "readNote", map[string]string{"filename": filename})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "# Milk", resp["data"].(map[string]interface{})["content"])

	code, resp = f.invoke(t, "download_note", map[string]string{"filename": filename})
	require.Equal(t, http.StatusOK, code, resp)
	data, err := os.ReadFile(f.savedTo)
	require.NoError(t, err)
	assert.Equal(t, "# Milk", string(data))

	code, _ = f.invoke(t, "delete_note", map[string]string{"filename": filename})
	require.Equal(t, http.StatusOK, code)

	code, resp = f.invoke(t, "read_note", map[string]string{"filename": filename})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", resp["error_kind"])
}

func TestOpenFileUsesLauncher(t *testing.T) {
	f := newFixture(t, nil)
	target := filepath.Join(f.downloads, "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("hi"), 0o644))

	code, _ := f.invoke(t, "open_file", map[string]string{"filePath": target})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{target}, f.opened)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	f.invoke(t, "ping", nil)

	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "klin_command_calls_total")
	assert.Contains(t, w.Body.String(), "klin_http_requests_total")
}

func TestStreamRouteFollowsFeatureFlag(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Features.WatchEnabled = false })

	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/invoke/ping", nil)
	req.Header.Set("Origin", "tauri://localhost")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	f.srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "tauri://localhost", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnavailableNotesDir(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Storage.AppDataDir = string([]byte{0xff, 0xfe})
	})

	code, resp := f.invoke(t, "list_notes", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", resp["error_kind"])

	code, _ = f.invoke(t, "read_folder", map[string]string{"folder_path": f.downloads})
	assert.Equal(t, http.StatusOK, code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	f := newFixture(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

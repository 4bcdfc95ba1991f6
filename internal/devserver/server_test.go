package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tessro/patchdeck/internal/config"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
)

func newStaticDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":   "<html>player</html>",
		"app.js":       "console.log('app')",
		"img/wave.png": "PNG",
	}
	for name, body := range files {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen-Request-ID", r.Header.Get(RequestIDHeader))
		fmt.Fprintf(w, "upstream %s", r.URL.Path)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRouting(t *testing.T) {
	upstream := newUpstream(t)
	var logs bytes.Buffer

	h, err := NewHandler(config.ServerConfig{
		Upstream:   upstream.URL + "/",
		StaticDir:  newStaticDir(t),
		ProxyPaths: []string{"/api", "/uploads/"},
	}, testLogger(&logs))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/api/patches", http.StatusOK, "upstream /api/patches"},
		{"/api", http.StatusOK, "upstream /api"},
		{"/uploads/20190206-001.wav", http.StatusOK, "upstream /uploads/20190206-001.wav"},
		{"/", http.StatusOK, "<html>player</html>"},
		{"/app.js", http.StatusOK, "console.log('app')"},
		{"/img/wave.png", http.StatusOK, "PNG"},
		{"/patches/42", http.StatusOK, "<html>player</html>"},
		{"/missing.js", http.StatusNotFound, "404"},
		{"/apiary", http.StatusOK, "<html>player</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	upstream := newUpstream(t)
	var logs bytes.Buffer

	h, err := NewHandler(config.ServerConfig{
		Upstream:   upstream.URL,
		StaticDir:  newStaticDir(t),
		ProxyPaths: []string{"/api"},
	}, testLogger(&logs))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := get(t, h, "/api/x")
	id := rec.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("missing request id header")
	}
	if got := rec.Header().Get("X-Seen-Request-ID"); got != id {
		t.Errorf("upstream saw id %q, want %q", got, id)
	}
	if !strings.Contains(logs.String(), "id="+id) {
		t.Errorf("access log missing id: %q", logs.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "given" {
		t.Errorf("request id = %q, want caller's id kept", got)
	}
}

func TestUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := upstream.URL
	upstream.Close()

	var logs bytes.Buffer
	h, err := NewHandler(config.ServerConfig{
		Upstream:   addr,
		StaticDir:  newStaticDir(t),
		ProxyPaths: []string{"/api"},
	}, testLogger(&logs))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := get(t, h, "/api/patches")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	if !strings.Contains(logs.String(), "upstream unavailable") {
		t.Errorf("log = %q, want upstream failure", logs.String())
	}
}

func TestStaticDirMissing(t *testing.T) {
	_, err := NewHandler(config.ServerConfig{
		Upstream:  "http://localhost:8081/",
		StaticDir: filepath.Join(t.TempDir(), "dist"),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if !errors.Is(err, deckerrors.ErrStaticDirNotFound) {
		t.Errorf("NewHandler() error = %v, want ErrStaticDirNotFound", err)
	}
}

func TestNoCacheHeaders(t *testing.T) {
	h, err := NewHandler(config.ServerConfig{
		Upstream:  "http://localhost:8081/",
		StaticDir: newStaticDir(t),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	rec := get(t, h, "/app.js")
	if got := rec.Header().Get("Cache-Control"); !strings.Contains(got, "no-cache") {
		t.Errorf("Cache-Control = %q, want no-cache", got)
	}
}

func TestServerLifecycle(t *testing.T) {
	upstream := newUpstream(t)
	srv, err := New(config.ServerConfig{
		Port:       0,
		Upstream:   upstream.URL,
		StaticDir:  newStaticDir(t),
		ProxyPaths: []string{"/api"},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	srv.Start()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	if srv.Port() == 0 {
		t.Fatal("Port() = 0 after listen")
	}

	resp, err := http.Get(srv.URL() + "api/ping")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if string(body) != "upstream /api/ping" {
		t.Errorf("body = %q, want %q", body, "upstream /api/ping")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv, err := New(config.ServerConfig{
		Upstream:  "http://localhost:8081/",
		StaticDir: newStaticDir(t),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	cancel()

	if err := <-done; err != nil {
		t.Errorf("Serve() error = %v, want nil", err)
	}
}

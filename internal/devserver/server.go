// Package devserver serves the bundled UI and reverse-proxies API and upload
// traffic to the backend, for local development.
package devserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/tessro/patchdeck/internal/config"
	deckerrors "github.com/tessro/patchdeck/internal/errors"
)

// Server is the development HTTP server.
type Server struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAssetWatcher stamps responses with the watcher's asset version.
func WithAssetWatcher(w *AssetWatcher) Option {
	return func(s *Server) {
		if w != nil {
			s.server.Handler = w.wrap(s.server.Handler)
		}
	}
}

// New listens on the configured port and prepares the handler. Port 0 picks
// a free port.
func New(cfg config.ServerConfig, logger *slog.Logger, opts ...Option) (*Server, error) {
	handler, err := NewHandler(cfg, logger)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", cfg.Port, err)
	}

	s := &Server{
		listener: listener,
		logger:   logger,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewHandler builds the routing handler: proxied prefixes go upstream, every
// other path is served from the static directory.
func NewHandler(cfg config.ServerConfig, logger *slog.Logger) (http.Handler, error) {
	info, err := os.Stat(cfg.StaticDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", deckerrors.ErrStaticDirNotFound, cfg.StaticDir)
	}

	upstream, err := url.Parse(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream: %w", err)
	}

	mux := http.NewServeMux()

	proxy := newProxy(upstream, logger)
	seen := make(map[string]bool)
	for _, prefix := range cfg.ProxyPaths {
		prefix = strings.TrimSuffix(prefix, "/")
		if prefix == "" || seen[prefix] {
			continue
		}
		seen[prefix] = true
		mux.Handle(prefix, proxy)
		mux.Handle(prefix+"/", proxy)
	}

	mux.Handle("/", noCache(newStaticHandler(cfg.StaticDir)))

	return withRequestLog(mux, logger), nil
}

// Start begins serving HTTP requests in the background.
func (s *Server) Start() {
	go func() {
		if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server stopped", "error", err)
		}
	}()
}

// Serve blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// URL returns the local address of the server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d/", s.Port())
}

func newProxy(upstream *url.URL, logger *slog.Logger) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("proxy request failed",
			"path", r.URL.Path,
			"upstream", upstream.String(),
			"error", fmt.Errorf("%w: %v", deckerrors.ErrUpstreamUnavailable, err),
		)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}
	return proxy
}

// noCache disables caching so rebuilt bundles are picked up on reload.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// Package ui serves leapquery's web interface: the query builder and the
// multi-card explorer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/internal/history"
	"github.com/leapstack-labs/leapquery/internal/runner"
	"github.com/leapstack-labs/leapquery/internal/schema"
	"github.com/leapstack-labs/leapquery/internal/ui/features/common"
	"github.com/leapstack-labs/leapquery/internal/ui/notifier"
	"github.com/leapstack-labs/leapquery/internal/ui/resources"
	"github.com/leapstack-labs/leapquery/internal/ui/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	reloadDebounce  = 100 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

// Server is the main UI server.
type Server struct {
	deps       *common.Deps
	port       int
	watch      bool
	configPath string
	gatherer   prometheus.Gatherer
	rateLimit  int
	logger     *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Runner     *runner.Runner
	Schema     *schema.Cache
	History    history.Reader // optional
	Catalog    *config.Catalog
	Explorer   config.ExplorerConfig
	MaxFilters int

	Port int
	// Watch reloads the shortcuts when the file at ConfigPath changes.
	Watch      bool
	ConfigPath string
	// SessionSecret signs the explorer session cookie. A random key is
	// used when it is empty, so sessions do not survive a restart.
	SessionSecret string
	// MaxSessions and SessionTTL bound the query results kept in memory
	// per browser session.
	MaxSessions int
	SessionTTL  time.Duration
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// RequestsPerMinute limits page and API requests per client IP.
	RequestsPerMinute int
	Logger            *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		deps: &common.Deps{
			Schema:       cfg.Schema,
			Runner:       cfg.Runner,
			History:      cfg.History,
			Catalog:      cfg.Catalog,
			Explorer:     cfg.Explorer,
			MaxFilters:   cfg.MaxFilters,
			Notifier:     notifier.New(),
			SessionStore: sessionStore,
			MaxSessions:  cfg.MaxSessions,
			SessionTTL:   cfg.SessionTTL,
			IsDev:        resources.IsDev,
			Logger:       logger,
		},
		port:       cfg.Port,
		watch:      cfg.Watch && cfg.ConfigPath != "",
		configPath: cfg.ConfigPath,
		gatherer:   cfg.Gatherer,
		rateLimit:  cfg.RequestsPerMinute,
		logger:     logger,
	}
}

// Handler builds the server's root handler.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	opts := router.Options{RequestsPerMinute: s.rateLimit}
	if s.gatherer != nil {
		opts.Metrics = promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
	}
	if err := router.SetupRoutes(r, s.deps, opts); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve listens on the configured port and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	s.logger.Info("starting UI server", "addr", URL(ln.Addr()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the notifier that pushes reloads to open pages.
func (s *Server) Notifier() *notifier.Notifier {
	return s.deps.Notifier
}

// Reload re-reads the shortcuts from the config file and drops the schema
// cache. Open builder pages are told about both.
func (s *Server) Reload() error {
	ev := notifier.SchemaChanged
	if s.deps.Schema != nil {
		s.deps.Schema.Invalidate()
	}

	var err error
	if s.configPath != "" && s.deps.Catalog != nil {
		if err = config.ReloadCatalog(s.deps.Catalog, s.configPath); err == nil {
			ev |= notifier.ShortcutsChanged
		}
	}

	s.deps.Notifier.Broadcast(ev)
	return err
}

// watchConfig reloads when the config file changes. The parent directory
// is watched since editors often replace the file instead of writing it.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "path", target, "error", err)
		<-ctx.Done()
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("config changed, reloading", "file", target)
				if err := s.Reload(); err != nil {
					s.logger.Error("reload failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// URL returns the browser address of a listener.
func URL(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	return "http://" + addr.String()
}

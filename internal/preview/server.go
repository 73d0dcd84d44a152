package preview

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/site"
	"git.home.luguber.info/inful/docsite/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Builder produces the site served by the preview server.
type Builder interface {
	Build(ctx context.Context) (*site.Report, error)
}

// Server is the local preview: one initial build, then a rebuild after every change.
type Server struct {
	cfg      *config.Config
	builder  Builder
	registry *prom.Registry
	addr     string
	debounce time.Duration

	status    *buildStatus
	errors    *errors.HTTPErrorAdapter
	startedAt time.Time

	ready     chan struct{}
	readyOnce sync.Once
	mu        sync.Mutex
	boundAddr string
}

// Option configures a Server.
type Option func(*Server)

// WithRegistry exposes reg on the configured metrics path when metrics are enabled.
func WithRegistry(reg *prom.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithAddr overrides the listen address derived from preview.port.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithDebounce overrides the quiet period before a rebuild.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.debounce = d }
}

func New(cfg *config.Config, builder Builder, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		builder:  builder,
		addr:     fmt.Sprintf(":%d", cfg.Preview.Port),
		debounce: DefaultDebounce,
		status:   &buildStatus{},
		errors:   errors.NewHTTPErrorAdapter(nil),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready is closed once the server is listening and watching.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the bound listen address, valid after Ready.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}

// Run builds the site, serves it and rebuilds on changes until ctx is canceled.
// A failed build keeps the server running; /health reports the error.
func (s *Server) Run(ctx context.Context) error {
	root, err := resolveDocsDir(s.cfg)
	if err != nil {
		return err
	}
	s.startedAt = time.Now()
	s.rebuild(ctx)

	out, _ := filepath.Abs(s.cfg.Output.Directory)
	filter := watchFilter{
		output:   out,
		patterns: site.ParsePatterns(s.cfg.Pages.Patterns),
		public:   filepath.Join(root, s.cfg.Pages.Public),
	}
	watcher, err := newWatcher(root, filter)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "failed to listen").
			WithContext("addr", s.addr).
			Build()
	}
	httpServer := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	workerCtx, stopWorker := context.WithCancel(ctx)
	debouncer := NewDebouncer(s.debounce)
	workerDone := runRebuildWorker(workerCtx, debouncer.C(), s.rebuild)
	defer func() {
		debouncer.Stop()
		stopWorker()
		<-workerDone
	}()

	s.mu.Lock()
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })
	slog.Info("Preview server listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("url", fmt.Sprintf("http://localhost:%d%s", ln.Addr().(*net.TCPAddr).Port, s.cfg.Site.Base)))

	return serve(ctx, httpServer, ln, watcher.Events, watcher.Errors, func(ev fsnotify.Event) {
		if handleEvent(watcher, ev, filter) {
			debouncer.Trigger()
		}
	})
}

// serve runs httpServer on ln and hands watcher events to onEvent until ctx ends, either
// watcher channel closes or serving fails. The HTTP server is shut down on every exit.
func serve(ctx context.Context, httpServer *http.Server, ln net.Listener,
	events <-chan fsnotify.Event, watchErrs <-chan error, onEvent func(fsnotify.Event),
) error {
	serveErr := make(chan error, 1)
	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := httpServer.Serve(ln); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP server shutdown error", logfields.Error(err))
		}
		<-served
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server")
			return nil
		case err := <-serveErr:
			return errors.WrapError(err, errors.CategoryRuntime, "preview server failed").Build()
		case ev, ok := <-events:
			if !ok {
				slog.Warn("File watcher closed, stopping preview server")
				return nil
			}
			onEvent(ev)
		case err, ok := <-watchErrs:
			if !ok {
				slog.Warn("File watcher closed, stopping preview server")
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// resolveDocsDir returns the absolute pages directory, which must exist.
func resolveDocsDir(cfg *config.Config) (string, error) {
	if cfg.Pages.Directory == "" {
		return "", errors.ConfigError("preview requires pages.directory").Build()
	}
	abs, err := filepath.Abs(cfg.Pages.Directory)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve docs directory").Build()
	}
	if st, err := os.Stat(abs); err != nil || !st.IsDir() {
		return "", errors.NotFoundError("docs directory not found or not a directory").
			WithContext("path", abs).
			Build()
	}
	return abs, nil
}

func (s *Server) rebuild(ctx context.Context) {
	report, err := s.builder.Build(ctx)
	s.status.record(report, err)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("Rebuild failed", logfields.Error(err))
		}
		return
	}
	slog.Info("Site rebuilt", logfields.BuildID(report.BuildID), logfields.Count(len(report.Pages)))
}

// Handler routes the site, the health endpoint and, when enabled, metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Monitoring.HealthPath, s.handleHealth)
	if s.cfg.Monitoring.Metrics.Enabled && s.registry != nil {
		mux.Handle(s.cfg.Monitoring.Metrics.Path, metrics.HTTPHandler(s.registry))
	}

	base := s.cfg.Site.Base
	files := http.FileServer(http.Dir(s.cfg.Output.Directory))
	if base == "/" {
		mux.Handle("/", files)
	} else {
		mux.Handle(base, http.StripPrefix(strings.TrimSuffix(base, "/"), files))
		mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, base, http.StatusFound)
		})
	}
	return mux
}

// HealthResponse is the JSON body of the health endpoint.
type HealthResponse struct {
	Status    string                    `json:"status"`
	Version   string                    `json:"version"`
	Uptime    string                    `json:"uptime"`
	Builds    int                       `json:"builds"`
	LastBuild *time.Time                `json:"last_build,omitempty"`
	BuildID   string                    `json:"build_id,omitempty"`
	Pages     int                       `json:"pages"`
	Error     *errors.HTTPErrorResponse `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.status.snapshot()
	resp := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Builds:  snap.builds,
	}
	if !snap.lastBuild.IsZero() {
		resp.LastBuild = &snap.lastBuild
	}
	if snap.report != nil {
		resp.BuildID = snap.report.BuildID
		resp.Pages = len(snap.report.Pages)
	}

	code := http.StatusOK
	if snap.err != nil {
		payload := s.errors.FormatErrorResponse(snap.err)
		resp.Error = &payload
		resp.Status = "degraded"
		if !snap.hasGoodBuild {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

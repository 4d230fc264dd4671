package hostbridge

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/shellkit/internal/errors"
	"github.com/vango-dev/shellkit/pkg/render"
	"github.com/vango-dev/shellkit/pkg/routes"
	"github.com/vango-dev/shellkit/pkg/vdom"
)

// LivePath is the websocket endpoint.
const LivePath = "/_shell/ws"

// Config configures a Server.
type Config struct {
	// Addr is the listen address used by Run.
	Addr string

	// Routes are the route descriptors served by every shell.
	Routes []routes.Descriptor

	// RedirectIndexTo is passed to every shell.
	RedirectIndexTo string

	// Lang is the document language. Defaults to "en".
	Lang string

	// StyleSheets are linked from every page.
	StyleSheets []string

	// Loading, NotFound and ErrorBoundary replace the shell defaults.
	Loading       *vdom.VNode
	NotFound      func(path, suggestion string) *vdom.VNode
	ErrorBoundary func(err error, m routes.Match) *vdom.VNode

	// Metrics is shared by all shells.
	Metrics *routes.Metrics

	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string

	// Reporter receives lazy load failures.
	Reporter Reporter

	// ResolveTimeout bounds how long a server render waits for lazy
	// content. Content still pending renders the Loading placeholder.
	// Defaults to 5s.
	ResolveTimeout time.Duration

	// CheckOrigin validates websocket origins. Defaults to same origin.
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server serves route shells over HTTP and websockets.
type Server struct {
	config   Config
	compiler *routes.Compiler
	router   chi.Router
	upgrader websocket.Upgrader
	renderer *render.Renderer
	logger   *slog.Logger

	mu         sync.Mutex
	sessions   map[string]*liveSession
	httpServer *http.Server
}

// New creates a server.
func New(config Config) *Server {
	if config.Lang == "" {
		config.Lang = "en"
	}
	if config.ResolveTimeout == 0 {
		config.ResolveTimeout = 5 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "hostbridge")

	s := &Server{
		config: config,
		compiler: routes.NewCompiler(routes.WithWarnings(func(e *errors.ShellError) {
			logger.Warn(e.Message, "code", e.Code, "route", e.Location.String())
		})),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   logger,
		sessions: make(map[string]*liveSession),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if s.config.MetricsHandler != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, s.config.MetricsHandler)
	}
	r.Get(LivePath, s.handleLive)
	r.Get("/*", s.handlePage)
	return r
}

// Handler returns the HTTP handler for mounting in another router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// newShell mounts a shell sharing the server's compiled tree.
func (s *Server) newShell(host routes.Host, session string) *routes.Shell {
	logger := s.logger
	if session != "" {
		logger = logger.With("session_id", session)
	}
	return routes.New(routes.Config{
		Routes:          s.config.Routes,
		Host:            host,
		RedirectIndexTo: s.config.RedirectIndexTo,
		Loading:         s.config.Loading,
		NotFound:        s.config.NotFound,
		ErrorBoundary:   s.config.ErrorBoundary,
		Metrics:         s.config.Metrics,
		Logger:          logger,
		Compiler:        s.compiler,
		OnLoadError: func(err error, m routes.Match) {
			if s.config.Reporter != nil {
				s.config.Reporter.ReportLoadError(err, m, session)
			}
		},
	})
}

// SessionCount returns the number of open live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run listens on Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes live sessions and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	sessions := make([]*liveSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	srv := s.httpServer
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	if s.config.Reporter != nil {
		s.config.Reporter.Flush(ctx)
	}
	s.logger.Info("server shutdown complete")
	return nil
}

package ui

import (
	"net/http"
	"time"

	"gopower/adapters/memory"
	"gopower/internal"
	"gopower/internal/diagnostics"
	"gopower/internal/power"
	"gopower/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App serves the power analysis and diagnostics API
type App struct {
	router   *chi.Mux
	solver   *power.Solver
	analyzer *diagnostics.Analyzer
	history  ports.AnalysisRepository
	logger   *internal.Logger
	timeout  time.Duration
	pprof    bool
}

// Config holds the collaborators of the HTTP application
type Config struct {
	Solver         *power.Solver
	Analyzer       *diagnostics.Analyzer
	History        ports.AnalysisRepository // defaults to an in-memory history
	Logger         *internal.Logger
	RequestTimeout time.Duration

	// Profiling mounts net/http/pprof under /debug
	Profiling bool
}

// NewApp creates the application and registers its routes
func NewApp(cfg Config) *App {
	if cfg.Logger == nil {
		cfg.Logger = internal.DefaultLogger
	}
	if cfg.History == nil {
		cfg.History = memory.NewAnalysisRepository()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	app := &App{
		router:   chi.NewRouter(),
		solver:   cfg.Solver,
		analyzer: cfg.Analyzer,
		history:  cfg.History,
		logger:   cfg.Logger.With("component", "http"),
		timeout:  cfg.RequestTimeout,
		pprof:    cfg.Profiling,
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// ServeHTTP makes App an http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(a.requestLogger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Timeout(a.timeout))
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/report", a.handleReport)
	if a.pprof {
		a.router.Mount("/debug", middleware.Profiler())
	}

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/power/solve", a.handleSolve)
		r.Post("/power/curve", a.handleCurve)
		r.Post("/diagnostics", a.handleDiagnostics)
		r.Get("/analyses", a.handleListAnalyses)
		r.Get("/analyses/{id}", a.handleGetAnalysis)
	})
}

func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	applog "radiodash/internal/log"
	"radiodash/internal/middleware/ratelimit"
	"radiodash/internal/middleware/security"
	"radiodash/internal/services"
	appweb "radiodash/web"
)

// Options configures the HTTP server.
type Options struct {
	CORSOrigins []string
	Logger      *applog.Logger

	// AdminRateLimit bounds cache clear requests per client.
	AdminRateLimit ratelimit.Config
}

type Server struct {
	http.Server
	templates *template.Template
	reports   *services.ReportService
	logger    *applog.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, reports *services.ReportService, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("mount static assets: %w", err)
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		templates: t,
		reports:   reports,
		logger:    opts.Logger.WithComponent(applog.ComponentHTTP),
		limiter:   ratelimit.NewLimiter(opts.AdminRateLimit),
		detector:  security.NewDetector(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(applog.RequestLogger(opts.Logger, middleware.GetReqID))
	r.Use(middleware.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	r.Use(s.detector.Middleware(s.logger.Logger))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.With(security.StaticAssetMiddleware(3600)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.handleDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/dashboard", s.handleAPIDashboard)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP))
		r.Post("/cache/clear", s.handleCacheClear)
	})

	s.Handler = r
	return s, nil
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

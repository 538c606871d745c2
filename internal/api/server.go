package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/terra-clan/agency-site/internal/catalog"
	"github.com/terra-clan/agency-site/internal/config"
	"github.com/terra-clan/agency-site/internal/contact"
	"github.com/terra-clan/agency-site/internal/health"
	"github.com/terra-clan/agency-site/internal/page"
	"github.com/terra-clan/agency-site/internal/session"
)

// Dependencies are the collaborators the server routes requests to
type Dependencies struct {
	Renderer   *page.Renderer
	Sessions   session.Store
	Contact    contact.Submitter
	Health     *health.Registry
	VisitorTTL time.Duration
}

// Server represents the HTTP server for the landing page and its API
type Server struct {
	config     config.ServerConfig
	router     *chi.Mux
	renderer   *page.Renderer
	catalog    *catalog.Catalog
	sessions   session.Store
	locker     *session.Locker
	contact    contact.Submitter
	health     *health.Registry
	visitorTTL time.Duration

	liveMu sync.Mutex
	live   map[*websocket.Conn]struct{}
}

// NewServer creates a new server
func NewServer(cfg config.ServerConfig, deps Dependencies) *Server {
	if deps.Health == nil {
		deps.Health = health.NewRegistry()
	}
	if deps.VisitorTTL <= 0 {
		deps.VisitorTTL = session.DefaultTTL
	}

	s := &Server{
		config:     cfg,
		renderer:   deps.Renderer,
		catalog:    deps.Renderer.Catalog(),
		sessions:   deps.Sessions,
		locker:     session.NewLocker(),
		contact:    deps.Contact,
		health:     deps.Health,
		visitorTTL: deps.VisitorTTL,
		live:       make(map[*websocket.Conn]struct{}),
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	if s.config.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", page.FragmentHeader},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (public, no visitor cookie)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.visitorMiddleware)

		// Live channel outlives the request timeout
		r.Get(page.LivePath, s.handleServicesWS)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			// Page
			r.Get("/", s.handlePage)
			r.Get("/fragments/services", s.handleServicesFragment)
			r.Post("/services/select", s.handleSelectForm)
			r.Post("/contact", s.handleContactForm)

			// API v1 routes
			r.Route("/api/v1", func(r chi.Router) {
				r.Get("/catalog", s.handleGetCatalog)

				r.Route("/services", func(r chi.Router) {
					r.Get("/", s.handleListServices)
					r.Get("/{code}", s.handleGetService)
				})

				r.Get("/selection", s.handleGetSelection)
				r.Put("/selection", s.handlePutSelection)

				r.Post("/contact", s.handleSubmitContact)
			})
		})
	})

	s.router = r
}

// CloseLive disconnects every open live channel
func (s *Server) CloseLive() {
	s.liveMu.Lock()
	defer s.liveMu.Unlock()

	for conn := range s.live {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(s.live, conn)
	}
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dotuffour/retreat-portal/internal/config"
	"github.com/dotuffour/retreat-portal/internal/server/web"
	"github.com/dotuffour/retreat-portal/pkg/store"
)

// Uploader pushes a payment-proof image to the external image host and
// returns its public URL. Satisfied by *imageclient.Client.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

// Handler holds the wired dependencies behind the HTTP surface.
type Handler struct {
	cfg      *config.Config
	store    store.Store
	uploader Uploader
	sessions *SessionManager
	renderer *web.Renderer
	logger   *zap.Logger
}

// New wires a Handler from its dependencies.
func New(cfg *config.Config, st store.Store, uploader Uploader, logger *zap.Logger) (*Handler, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	return &Handler{
		cfg:      cfg,
		store:    st,
		uploader: uploader,
		sessions: NewSessionManager(cfg.SessionSecret, cfg.SessionTTL.Std()),
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Routes builds the chi router with middleware and all endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/", h.handleRoot)
	r.Get("/healthz", h.handleHealthz)

	r.Get("/register", h.handleRegisterPage)
	r.Get("/admin", h.handleAdminPage)

	r.Post("/api/register", h.handleRegister)
	r.Post("/api/register-group", h.handleRegisterGroup)
	r.Post("/api/upload", h.handleUpload)

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", h.handleAdminLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.sessions.Middleware)
			r.Get("/data", h.handleAdminData)
			r.Post("/approve", h.handleAdminApprove)
		})
	})

	return r
}

// NewHTTPServer wraps the routes in an http.Server bound to the configured
// address.
func NewHTTPServer(cfg *config.Config, h *Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// requestLogger logs each request with its status and duration.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.logger.Info("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

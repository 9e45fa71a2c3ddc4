package http

import (
	"context"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/chatdoc"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before shutdown.
const ShutdownTimeout = 5 * time.Second

// MaxRequestBody limits JSON and form request bodies.
const MaxRequestBody = 64 << 10

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Branding holds the page text that differs between deployments.
type Branding struct {
	Title    string
	Subtitle string
}

// DefaultBranding is used when no branding is configured.
var DefaultBranding = Branding{
	Title:    "ChatDoc + CURP Finder",
	Subtitle: "Sistema integrado de consulta documental",
}

// Server serves the assistant page and its JSON API.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	registry *prometheus.Registry
	metrics  *metrics

	// Bind address to open.
	Addr string

	// Grammar used to validate submitted codes.
	Grammar chatdoc.Grammar

	// Directory answers CURP lookups.
	Directory chatdoc.DirectoryService

	// DirectoryEntries and DirectoryErr describe the loaded directory for
	// the health endpoint.
	DirectoryEntries int
	DirectoryErr     error

	// Chat answers questions; Transcript holds the session's messages.
	Chat       *chatdoc.ChatService
	Transcript *chatdoc.Transcript

	// DocumentErr is the error from reading the document, if any.
	DocumentErr error

	// ChatLimiter throttles chat turns. Nil disables throttling.
	ChatLimiter *rate.Limiter

	Branding Branding
	Logger   *slog.Logger
}

// NewServer returns a new Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		server:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		router:   chi.NewRouter(),
		registry: prometheus.NewRegistry(),
		Branding: DefaultBranding,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.metrics = newMetrics(s.registry, func() float64 { return float64(s.DirectoryEntries) })
	s.server.Handler = s.router

	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(s.logRequests)
	s.router.Use(s.measure)
	s.router.Use(chimw.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.With(s.throttleChat).Post("/chat", s.handleChatForm)
	s.router.Post("/reset", s.handleResetForm)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.With(s.throttleChat).Post("/chat", s.handleChat)
		r.Get("/messages", s.handleMessages)
		r.Post("/reset", s.handleReset)
	})

	return s
}

// ServeHTTP routes a request. Used in tests and when embedding the server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Open validates the server options and begins listening on Addr.
func (s *Server) Open() (err error) {
	if s.Directory == nil {
		return chatdoc.Errorf(chatdoc.EINTERNAL, "server directory required")
	}
	if s.Chat == nil || s.Transcript == nil {
		return chatdoc.Errorf(chatdoc.EINTERNAL, "server chat service and transcript required")
	}

	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go s.server.Serve(s.ln)
	return nil
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

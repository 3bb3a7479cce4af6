package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/shivamsharmxa/AI-support-agent/internal/chat"
)

type Server struct {
	router  *chi.Mux
	httpSrv *http.Server
	service *chat.Service
	logger  *slog.Logger
}

// Options carries the HTTP-surface knobs that vary per deployment.
type Options struct {
	Port          int
	CORSOrigin    string
	ChatRateLimit int // requests per minute per IP on the chat endpoint
}

func NewServer(service *chat.Service, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{opts.CORSOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s := &Server{
		router:  router,
		service: service,
		logger:  logger,
		httpSrv: &http.Server{
			Addr:    fmt.Sprintf(":%d", opts.Port),
			Handler: router,
		},
	}

	rateLimit := opts.ChatRateLimit
	if rateLimit <= 0 {
		rateLimit = 20
	}
	chatLimiter := httprate.Limit(rateLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "too many requests, please try again later")
		}),
	)

	router.Get("/health", s.health)
	router.Route("/api", func(r chi.Router) {
		r.Post("/conversations", s.createConversation)
		r.Get("/conversations/{conversationID}/messages", s.listMessages)
		r.With(chatLimiter).Post("/chat", s.sendMessage)
	})

	return s
}

func (s *Server) Start() error {
	s.logger.Info("API server starting", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests that mount the server
// on an httptest listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

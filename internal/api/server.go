package api

import (
	"net/http"
	"time"

	"wordtrainer/internal/repository"
	"wordtrainer/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server serves the REST API over words, groups and practice sessions
type Server struct {
	members  *service.MembershipManager
	store    repository.PracticeStore
	sessions *service.SessionRegistry
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(
	members *service.MembershipManager,
	store repository.PracticeStore,
	sessions *service.SessionRegistry,
	logger *zap.Logger,
) *Server {
	return &Server{
		members:  members,
		store:    store,
		sessions: sessions,
		logger:   logger,
	}
}

// Routes returns the API router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.logRequests)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/words", func(r chi.Router) {
			r.Get("/", s.listWords)
			r.Post("/", s.createWord)
			r.Delete("/", s.deleteWords)
			r.Put("/{id}", s.updateWord)
			r.Delete("/{id}", s.deleteWord)
			r.Delete("/{id}/group", s.removeWordFromGroup)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", s.listGroups)
			r.Post("/", s.createGroup)
			r.Put("/rename", s.renameGroup)
			r.Delete("/{id}", s.deleteGroup)
			r.Get("/{id}/words", s.listGroupWords)
			r.Put("/{id}/words", s.addWordsToGroup)
			r.Put("/{id}/words/{wordID}", s.addWordToGroup)
		})

		r.Route("/practice", func(r chi.Router) {
			r.Get("/", s.practiceWords)
			r.Post("/", s.checkAnswer)
			r.Post("/sessions", s.startSession)
			r.Get("/sessions/{sessionID}", s.getSession)
			r.Post("/sessions/{sessionID}/answer", s.submitAnswer)
			r.Delete("/sessions/{sessionID}", s.cancelSession)
		})
	})

	return r
}

// logRequests logs every request with zap
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.requestLogger(r).Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		return s.logger.With(zap.String("request_id", id))
	}
	return s.logger
}

func zapError(err error, status int) []zap.Field {
	return []zap.Field{zap.Error(err), zap.Int("status", status)}
}

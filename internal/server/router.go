package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepbuddy-ai/prepbuddy/internal/api"
	"github.com/prepbuddy-ai/prepbuddy/internal/api/handlers"
	"github.com/prepbuddy-ai/prepbuddy/internal/api/middleware"
)

type RouterConfig struct {
	TutorHandler     *handlers.TutorHandler
	QuestionsHandler *handlers.QuestionsHandler
	IngestHandler    *handlers.IngestHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", cfg.QuestionsHandler.List)
		r.Get("/questions/random", cfg.QuestionsHandler.Random)

		r.Post("/ask", cfg.TutorHandler.Ask)
		r.Post("/check", cfg.TutorHandler.Check)

		r.Post("/ingest", cfg.IngestHandler.Trigger)
		r.Get("/ingest/status", cfg.IngestHandler.Status)
		r.Post("/clear", cfg.IngestHandler.Clear)
	})

	return r
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kindling-labs/kindling/internal/api"
	"github.com/kindling-labs/kindling/internal/api/handlers"
	"github.com/kindling-labs/kindling/internal/api/middleware"
)

type RouterConfig struct {
	FeedHandler    *handlers.FeedHandler
	PromptsHandler *handlers.PromptsHandler
	ChatHandler    *handlers.ChatHandler
	NewsHandler    *handlers.NewsHandler
	DebugHandler   *handlers.DebugHandler
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

	r.Get("/feed", cfg.FeedHandler.List)
	r.Get("/ideas/{id}/prompts", cfg.PromptsHandler.Get)

	if cfg.ChatHandler != nil {
		r.Route("/threads", func(r chi.Router) {
			r.Get("/", cfg.ChatHandler.ListThreads)
			r.Get("/{id}/messages", cfg.ChatHandler.GetMessages)
			r.Post("/messages", cfg.ChatHandler.Send)
		})
	}

	r.Get("/news", cfg.NewsHandler.List)

	if cfg.DebugHandler != nil {
		r.Get("/debug/log", cfg.DebugHandler.Log)
	}

	return r
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spartanmed/medchat/internal/api"
	"github.com/spartanmed/medchat/internal/api/handlers"
	"github.com/spartanmed/medchat/internal/api/middleware"
)

type RouterConfig struct {
	ChatHandler       *handlers.ChatHandler
	KnowledgeHandler  *handlers.KnowledgeHandler
	CurriculumHandler *handlers.CurriculumHandler
	MaterialHandler   *handlers.MaterialHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", cfg.ChatHandler.Chat)
		r.Get("/conversations/{id}/messages", cfg.ChatHandler.ListMessages)

		r.Route("/knowledge", func(r chi.Router) {
			r.Post("/search", cfg.KnowledgeHandler.Search)
			r.Get("/", cfg.KnowledgeHandler.List)
			r.Get("/{id}", cfg.KnowledgeHandler.Get)
		})

		r.Get("/curriculum/{phase}", cfg.CurriculumHandler.ListWeeks)

		r.Route("/materials", func(r chi.Router) {
			r.Post("/init", cfg.MaterialHandler.InitUpload)
			r.Post("/complete", cfg.MaterialHandler.CompleteUpload)
			r.Get("/", cfg.MaterialHandler.List)
			r.Get("/{id}/download", cfg.MaterialHandler.GetDownloadURL)
		})
	})

	return r
}

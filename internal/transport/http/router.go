package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"devicepulse/internal/handler"
	"devicepulse/internal/httputil"
	authmw "devicepulse/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler         *handler.UserHandler
	DeviceHandler       *handler.DeviceHandler
	NotificationHandler *handler.NotificationHandler
	JWTSecret           string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", cfg.UserHandler.List)
		r.Post("/", cfg.UserHandler.Create)
		r.Post("/login", cfg.UserHandler.Login)
		r.With(authmw.AuthMiddleware(cfg.JWTSecret)).Get("/me", cfg.UserHandler.Me)
		r.Get("/email/{email}", cfg.UserHandler.GetByEmail)
		r.Get("/{id}", cfg.UserHandler.GetByID)
		r.Put("/{id}", cfg.UserHandler.Update)
		r.Delete("/{id}", cfg.UserHandler.Delete)
	})

	r.Route("/devices", func(r chi.Router) {
		r.Get("/", cfg.DeviceHandler.List)
		r.Post("/", cfg.DeviceHandler.Create)
		r.Post("/token", cfg.NotificationHandler.RegisterToken)
		r.Delete("/token", cfg.NotificationHandler.RemoveToken)
		r.Get("/status/{status}", cfg.DeviceHandler.ListByStatus)
		r.Get("/type/{type}", cfg.DeviceHandler.ListByType)
		r.Get("/{id}", cfg.DeviceHandler.GetByID)
		r.Put("/{id}/status", cfg.DeviceHandler.UpdateStatus)
		r.Put("/{id}/metrics", cfg.DeviceHandler.UpdateMetrics)
		r.Delete("/{id}", cfg.DeviceHandler.Delete)
	})

	r.Route("/notification", func(r chi.Router) {
		r.Post("/", cfg.NotificationHandler.Create)
		r.Post("/push-notification", cfg.NotificationHandler.SendPush)
		r.Get("/user/{userId}", cfg.NotificationHandler.ListForUser)
		r.Get("/user/{userId}/unread-count", cfg.NotificationHandler.UnreadCount)
		r.Post("/user/{userId}/read-all", cfg.NotificationHandler.MarkAllRead)
		r.Get("/{id}", cfg.NotificationHandler.GetByID)
		r.Put("/{id}", cfg.NotificationHandler.Update)
		r.Patch("/{id}/read", cfg.NotificationHandler.MarkRead)
		r.Delete("/{id}", cfg.NotificationHandler.Delete)
	})

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pamir-ai/aic3204-go/internal/auth"
	"github.com/pamir-ai/aic3204-go/internal/models"
)

// NewRouter creates and returns the main HTTP router.
func NewRouter(ctrl Codec, authSvc *auth.Service, bus EventBus, info models.Info) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware)
	r.Use(middleware.CleanPath)

	h := &Handlers{ctrl: ctrl, events: bus, info: info}

	r.Group(func(r chi.Router) {
		r.Use(authSvc.Middleware)

		// Volume and input gain, decimal text protocol
		r.Get("/api/volume", h.getVolume)
		r.Put("/api/volume", h.setVolume)
		r.Get("/api/gain", h.getGain)
		r.Put("/api/gain", h.setGain)

		// Raw register access (diagnostics)
		r.Get("/api/register/{page}/{reg}", h.readRegister)
		r.Post("/api/register", h.writeRegister)

		// System
		r.Get("/api/status", h.getStatus)
		r.Get("/api/info", h.getInfo)

		// SSE
		r.Get("/api/subscribe", h.sseEvents)
	})

	return r
}

// corsMiddleware adds permissive CORS headers for local network access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, api-key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

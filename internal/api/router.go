package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
)

// NewRouter builds the router with all routes configured. The health, chat,
// itinerary, and lead endpoints are public (the site's pages call them from
// the browser, hence CORS); the admin lead endpoints require bearer auth and
// are only mounted when an admin token is set. Rate limiting is 60 req/min
// per IP globally, with a tighter 10 req/min on itinerary generation since
// each call bills the upstream model.
func NewRouter(handlers *Handlers, adminToken string, db dbPinger, redisClient redisPinger, allowedOrigins []string, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))

	r.Post("/api/v1/chat", handlers.Chat)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Post("/api/v1/itinerary", handlers.GenerateItinerary)
	})

	r.Get("/api/v1/leads", handlers.LeadsReady)
	r.Post("/api/v1/leads", handlers.CreateLead)

	if adminToken != "" {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(adminToken))
			r.Get("/api/v1/leads/recent", handlers.ListRecentLeads)
			r.Get("/api/v1/leads/stats", handlers.LeadStats)
		})
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}

package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/homenest/property-service/internal/platform/metrics"
	"github.com/homenest/property-service/internal/port/http/handler"
	"github.com/homenest/property-service/internal/port/http/middleware"
)

// New wires the HTTP routes. All endpoints are public: authentication is out
// of scope for this service.
func New(
	properties *handler.PropertyHandler,
	reviews *handler.ReviewHandler,
	notifications *handler.NotificationHandler,
	stats *handler.StatsHandler,
	log *logger.Logger,
	m *metrics.Manager,
) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.CORS)
	mux.Use(middleware.RequestLogger(log))
	mux.Use(middleware.Metrics(m))

	mux.Get("/", handler.HandleStatus)

	mux.Post("/addService", properties.HandleCreate)
	mux.Get("/getServices", properties.HandleLatest)
	mux.Get("/myServices", properties.HandleMine)
	mux.Get("/allServices", properties.HandleList)
	mux.Get("/singleService/{id}", properties.HandleGetSingle)
	mux.Put("/updateService/{id}", properties.HandleUpdate)
	mux.Delete("/deleteService/{id}", properties.HandleDelete)
	mux.Get("/fix-properties", properties.HandleRepair)

	mux.Post("/singleService/{id}/reviews", reviews.HandleAddReview)
	mux.Get("/reviewsByUser/{email}", reviews.HandleReviewsByUser)

	mux.Route("/api", func(r chi.Router) {
		r.Post("/notify", notifications.HandleNotify)
		r.Get("/notifications", notifications.HandleList)
		r.Patch("/notifications/mark-all-read", notifications.HandleMarkAllRead)
		r.Patch("/notifications/{id}/read", notifications.HandleMarkRead)
		r.Delete("/notifications/clear-all", notifications.HandleClearAll)
		r.Delete("/notifications/{id}", notifications.HandleDelete)

		r.Get("/stats", stats.HandleStats)
	})

	return mux
}

package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ecnelisfly/infrastructure/di"
	"ecnelisfly/interfaces/http/rest/handlers"
	"ecnelisfly/interfaces/http/rest/middleware"
	"ecnelisfly/pkg/auth"
	pkgerrors "ecnelisfly/pkg/errors"
)

// Per-minute request budgets
const (
	ipRequestsPerMinute   = 100
	userRequestsPerMinute = 200
	requestTimeout        = 25 * time.Second
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
	validator *auth.JWTValidator
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{
		container: container,
		validator: container.Validator,
		logger:    container.Logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	c := rt.container
	errs := pkgerrors.NewErrorHandler(rt.logger, c.Config.IsDevelopment())
	authn := middleware.NewAuthenticator(rt.validator, rt.logger)
	admin := middleware.RequireGroup(c.Config.AdminGroup)

	var observer middleware.HTTPObserver
	if c.Metrics != nil {
		observer = c.Metrics
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger, observer))
	router.Use(errs.Middleware)
	router.Use(chimiddleware.Timeout(requestTimeout))

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "https://*.ecnelisfly.com"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if c.Config.EnableMetrics && c.Metrics != nil {
		router.Handle("/metrics", c.Metrics.Handler())
	}

	sounds := handlers.NewSoundHandler(c.Sounds, c.Config.AdminGroup, errs, rt.logger)
	zones := handlers.NewZoneHandler(c.Zones, c.Sounds, errs, rt.logger)
	journeys := handlers.NewJourneyHandler(c.Journeys, errs, rt.logger)
	picks := handlers.NewPickHandler(c.Featured, c.Monthly, c.PickJobs, errs, rt.logger)
	users := handlers.NewAdminHandler(c.AdminUsers, c.UserStats, c.AdminActions, errs, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(auth.NewPerMinuteLimiter(ipRequestsPerMinute), rt.logger))

		// Public reads; a caller is attached when credentials are sent.
		r.Group(func(r chi.Router) {
			r.Use(authn.Optional)

			r.Get("/sounds", sounds.ListPublicSounds)
			r.Get("/sounds/map", sounds.ListSoundsForMap)
			r.Get("/sounds/{soundID}", sounds.GetSound)
			r.Get("/sounds/files/{filename}/url", sounds.GetFileURL)
			r.Get("/stats/community", sounds.GetCommunityStats)
			r.Get("/users/{userID}/sounds/count", sounds.CountUserSounds)

			r.Get("/zones", zones.ListZones)
			r.Get("/zones/at", zones.FindZonesAt)
			r.Get("/zones/slug/{slug}", zones.GetZoneBySlug)
			r.Get("/zones/{zoneID}", zones.GetZone)
			r.Get("/zones/{zoneID}/sounds", zones.ListZoneSounds)

			r.Get("/journeys", journeys.ListJourneys)
			r.Get("/journeys/slug/{slug}", journeys.GetJourneyBySlug)
			r.Get("/journeys/{journeyID}", journeys.GetJourney)
			r.Get("/journeys/{journeyID}/steps", journeys.ListSteps)

			r.Get("/featured/today", picks.GetTodayFeatured)
			r.Get("/featured/history", picks.ListFeaturedHistory)
			r.Get("/featured/{date}", picks.GetFeaturedForDate)
			r.Get("/monthly/zone", picks.GetMonthlyZone)
			r.Get("/monthly/zone/history", picks.ListMonthlyZoneHistory)
			r.Get("/monthly/journey", picks.GetMonthlyJourney)
			r.Get("/monthly/journey/history", picks.ListMonthlyJourneyHistory)
		})

		// Contributor routes
		r.Group(func(r chi.Router) {
			r.Use(authn.Authenticate)
			r.Use(middleware.RateLimit(auth.NewPerMinuteLimiter(userRequestsPerMinute), rt.logger))

			r.Get("/me/sounds", sounds.ListMySounds)
			r.Post("/sounds", sounds.CreateSound)
			r.Post("/sounds/files", sounds.UploadFile)
			r.Patch("/sounds/{soundID}", sounds.UpdateSound)
			r.Delete("/sounds/{soundID}", sounds.DeleteSound)
			r.Post("/sounds/{soundID}/like", sounds.LikeSound)
			r.Delete("/sounds/{soundID}/like", sounds.UnlikeSound)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authn.Authenticate)
			r.Use(admin)

			r.Get("/admin/sounds", sounds.ListSoundsByStatus)
			r.Put("/sounds/{soundID}/status", sounds.UpdateSoundStatus)

			r.Get("/admin/zones", zones.ListAllZones)
			r.Post("/zones", zones.CreateZone)
			r.Patch("/zones/{zoneID}", zones.UpdateZone)
			r.Delete("/zones/{zoneID}", zones.DeleteZone)
			r.Get("/zones/{zoneID}/entries", zones.ListZoneEntries)
			r.Post("/zones/{zoneID}/sounds", zones.AddSound)
			r.Put("/zones/{zoneID}/sounds/order", zones.ReorderSounds)
			r.Delete("/zones/{zoneID}/sounds/{soundID}", zones.RemoveSound)

			r.Get("/admin/journeys", journeys.ListAllJourneys)
			r.Post("/journeys", journeys.CreateJourney)
			r.Patch("/journeys/{journeyID}", journeys.UpdateJourney)
			r.Delete("/journeys/{journeyID}", journeys.DeleteJourney)
			r.Post("/journeys/{journeyID}/steps", journeys.AddStep)
			r.Post("/journeys/{journeyID}/steps/reorder", journeys.ReorderStep)
			r.Patch("/journeys/{journeyID}/steps/{stepID}", journeys.UpdateStep)
			r.Delete("/journeys/{journeyID}/steps/{stepID}", journeys.RemoveStep)

			r.Get("/featured/candidates", picks.ListCandidates)
			r.Post("/featured/candidates", picks.AddCandidate)
			r.Patch("/featured/candidates/{candidateID}", picks.UpdateCandidate)
			r.Delete("/featured/candidates/{candidateID}", picks.RemoveCandidate)
			r.Put("/featured/{date}", picks.SetFeatured)
			r.Put("/monthly/zone/{month}", picks.SetMonthlyZone)
			r.Put("/monthly/journey/{month}", picks.SetMonthlyJourney)
			r.Post("/admin/picks/{kind}/run", picks.RunPick)

			r.Get("/admin/users", users.ListUsers)
			r.Get("/admin/users.csv", users.ExportUsers)
			r.Post("/admin/users/{username}/{action}", users.UserAction)
			r.Delete("/admin/users/{username}", users.DeleteUser)
			r.Get("/admin/stats/users", users.UserStats)
			r.Post("/admin/actions", users.Dispatch)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once a cheap read against the sounds table
// succeeds
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := rt.container.Tables.Sounds.Get(r.Context(), "readiness-probe"); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

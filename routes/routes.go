package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/travel-gateway/app"
	"github.com/upb/travel-gateway/handlers"
	appmw "github.com/upb/travel-gateway/middleware"
	"github.com/upb/travel-gateway/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.NewRequestLogger(deps.Logger).Handler)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.Config.Server.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{utils.UpstreamProviderHeader, "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var db *sql.DB
	if deps.DB != nil {
		db = deps.DB.DB
	}
	var outcomes handlers.OutcomeLister
	if deps.Audit != nil {
		outcomes = deps.Audit
	}
	var registry handlers.ProviderCounter
	if deps.Registry != nil {
		registry = deps.Registry
	}

	health := handlers.NewHealthHandler(db, registry, deps.Logger)
	gateway := handlers.NewGatewayHandler(deps.Gateway, deps.Logger)
	audit := handlers.NewOutcomesHandler(outcomes, deps.Logger)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w, "")
	})

	r.Get("/", handlers.RootHandler(deps))
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	// Legacy paths keep their bare response bodies for existing clients
	r.Post("/api/translate", gateway.HandleLibreTranslate)
	r.Post("/translate", gateway.HandleLegacyTranslate)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handlers.StatusHandler(deps))

		r.Post("/translate", gateway.HandleTranslate)
		r.Get("/geocode", gateway.HandleGeocode)
		r.Get("/pois", gateway.HandlePOIs)
		r.Get("/weather", gateway.HandleWeather)

		r.Get("/outcomes", audit.HandleListOutcomes)
	})

	return r
}

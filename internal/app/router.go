package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/atlas-stays/atlas-stays/internal/auth"
	"github.com/atlas-stays/atlas-stays/internal/booking/reservations"
	"github.com/atlas-stays/atlas-stays/internal/catalog/cities"
	"github.com/atlas-stays/atlas-stays/internal/catalog/hotels"
	"github.com/atlas-stays/atlas-stays/internal/catalog/trips"
	"github.com/atlas-stays/atlas-stays/internal/dashboard"
	"github.com/atlas-stays/atlas-stays/internal/media/heroimages"
	"github.com/atlas-stays/atlas-stays/internal/shared"
	usershttp "github.com/atlas-stays/atlas-stays/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	SessionManager      *shared.SessionManager
	AuthHandler         *auth.Handler
	CitiesHandler       *cities.Handler
	HotelsHandler       *hotels.Handler
	TripsHandler        *trips.Handler
	ReservationsHandler *reservations.Handler
	HeroImagesHandler   *heroimages.Handler
	UsersHandler        *usershttp.Handler
	DashboardHandler    *dashboard.Handler
}

// NewRouter constructs the chi.Router with Atlas defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.CitiesHandler != nil {
		r.Route("/cities", func(r chi.Router) {
			params.CitiesHandler.MountRoutes(r)
		})
	}
	if params.HotelsHandler != nil {
		r.Route("/hotels", func(r chi.Router) {
			params.HotelsHandler.MountRoutes(r)
		})
	}
	if params.TripsHandler != nil {
		r.Route("/trips", func(r chi.Router) {
			params.TripsHandler.MountRoutes(r)
		})
	}
	if params.ReservationsHandler != nil {
		r.Route("/reservations", func(r chi.Router) {
			params.ReservationsHandler.MountRoutes(r)
		})
	}
	if params.HeroImagesHandler != nil {
		r.Route("/hero-images", func(r chi.Router) {
			params.HeroImagesHandler.MountRoutes(r)
		})
	}
	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			params.UsersHandler.MountRoutes(r)
		})
	}
	if params.DashboardHandler != nil {
		r.Route("/dashboard", func(r chi.Router) {
			params.DashboardHandler.MountRoutes(r)
		})
	}

	return r
}

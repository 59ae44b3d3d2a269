// Package api serves the trip planner over a JSON HTTP API.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tripplan/internal/planner"
	"tripplan/internal/weather"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 1 << 20

// WeatherLookup fetches current conditions for a city.
type WeatherLookup interface {
	Lookup(ctx context.Context, city string) (weather.Report, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	repo    *planner.Repository
	weather WeatherLookup
	logger  planner.Logger
	clock   planner.Clock
}

// NewServer constructs a Server. A nil weather disables GET /weather.
func NewServer(repo *planner.Repository, wx WeatherLookup, logger planner.Logger, clock planner.Clock) *Server {
	if logger == nil {
		logger = planner.NewNopLogger()
	}
	if clock == nil {
		clock = planner.RealClock{}
	}
	return &Server{repo: repo, weather: wx, logger: logger, clock: clock}
}

// Router returns the HTTP handler with all routes and middleware mounted.
// Middleware order: RequestID, RealIP, request log, Recoverer.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(maxBodySize(maxBodyBytes))

	r.Get("/healthz", s.health)
	r.Get("/weather", s.getWeather)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.listTrips)
		r.Post("/", s.createTrip)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Use(s.tripCtx)
			r.Get("/", s.getTrip)
			r.Delete("/", s.deleteTrip)
			r.Get("/days", s.tripDays)
			r.Get("/export", s.exportTrip)

			for _, kind := range planner.NoteKinds {
				r.Route("/"+string(kind), func(r chi.Router) {
					mountCollection(r, s, func() *planner.Collection[planner.Note] {
						return s.repo.NotesOf(kind)
					})
				})
			}

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", s.listTodos)
				r.Get("/dates", s.todoDates)
				r.Post("/", createItem(s, s.repo.Todos))
				r.Get("/{itemID}", getItem(s, s.repo.Todos))
				r.Put("/{itemID}", replaceItem(s, s.repo.Todos))
				r.Delete("/{itemID}", deleteItem(s, s.repo.Todos))
			})

			r.Route("/packlist", func(r chi.Router) {
				mountCollection(r, s, s.repo.PackingList)
				r.Post("/{itemID}/toggle", s.togglePacked)
			})
		})
	})

	return r
}

// NewRouter is a shorthand for NewServer(...).Router().
func NewRouter(repo *planner.Repository, wx WeatherLookup, logger planner.Logger, clock planner.Clock) http.Handler {
	return NewServer(repo, wx, logger, clock).Router()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

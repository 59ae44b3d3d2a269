package api

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tripplan/internal/export"
	"tripplan/internal/planner"
)

type ctxKey int

const tripKey ctxKey = iota

// tripDetail is the GET /trips/{tripID} response.
type tripDetail struct {
	planner.Trip
	DaysUntil int `json:"daysUntil"`
}

// tripCtx loads the trip named by {tripID} and stores it in the request
// context. Unknown trips end the request with 404.
func (s *Server) tripCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := planner.ID(chi.URLParam(r, "tripID"))
		trip, err := s.repo.GetTrip(r.Context(), id)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), tripKey, trip)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tripFrom(ctx context.Context) planner.Trip {
	trip, _ := ctx.Value(tripKey).(planner.Trip)
	return trip
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trips := s.repo.Trips()
	if trips == nil {
		trips = []planner.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

func (s *Server) createTrip(w http.ResponseWriter, r *http.Request) {
	var in planner.Trip
	if err := decodeJSON(r.Body, &in); err != nil {
		s.respondDecodeErr(w, r, err)
		return
	}

	trip, err := s.repo.AddTrip(r.Context(), in)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.Header().Set("Location", "/trips/"+trip.ID.String())
	writeJSON(w, http.StatusCreated, trip)
}

func (s *Server) getTrip(w http.ResponseWriter, r *http.Request) {
	trip := tripFrom(r.Context())
	days, err := planner.DaysUntil(trip, s.clock.Now())
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripDetail{Trip: trip, DaysUntil: days})
}

// deleteTrip removes the trip. With ?purge=true its collections go too.
func (s *Server) deleteTrip(w http.ResponseWriter, r *http.Request) {
	purge := false
	if v := r.URL.Query().Get("purge"); v != "" {
		var err error
		if purge, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "purge must be true or false")
			return
		}
	}

	trip := tripFrom(r.Context())
	var err error
	if purge {
		err = s.repo.PurgeTrip(r.Context(), trip.ID)
	} else {
		err = s.repo.DeleteTrip(r.Context(), trip.ID)
	}
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) tripDays(w http.ResponseWriter, r *http.Request) {
	days, err := planner.TripDays(tripFrom(r.Context()))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

// exportTrip returns the trip bundle as JSON (default) or ?format=yaml.
func (s *Server) exportTrip(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	bundle, err := s.repo.Bundle(r.Context(), tripFrom(r.Context()).ID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, bundle, format); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) getWeather(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "weather lookup is not configured")
		return
	}
	report, err := s.weather.Lookup(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

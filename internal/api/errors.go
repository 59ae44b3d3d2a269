package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tripplan/internal/planner"
	"tripplan/internal/weather"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// respondErr maps a domain error to a status code and writes it.
// Unexpected errors are logged and reported as 500 without detail.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var lookupErr *weather.LookupError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, planner.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, planner.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
	case errors.As(err, &maxBytesErr):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
	case errors.As(err, &lookupErr):
		writeError(w, http.StatusBadGateway, "upstream_error", lookupErr.Message)
	case errors.Is(err, weather.ErrNoCity):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, weather.ErrNoAPIKey):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// validationMessage strips the "validation error: " prefix added by the
// planner so clients see only the rule that failed.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), planner.ErrValidation.Error()+": ")
}

// badRequestError marks a body the handler could not decode.
type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// decodeJSON reads a single JSON value from body into dst.
// Unknown fields are rejected.
func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return &badRequestError{errors.New("request body is empty")}
		}
		return &badRequestError{fmt.Errorf("invalid JSON body: %w", err)}
	}
	return nil
}

// respondDecodeErr writes the response for a decodeJSON failure.
func (s *Server) respondDecodeErr(w http.ResponseWriter, r *http.Request, err error) {
	var bre *badRequestError
	if errors.As(err, &bre) {
		writeError(w, http.StatusBadRequest, "bad_request", bre.Error())
		return
	}
	s.respondErr(w, r, err)
}

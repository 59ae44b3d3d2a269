package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tripplan/internal/planner"
)

// mountCollection registers list, get, create, replace and delete routes
// for one per-trip collection on r.
func mountCollection[T planner.Item[T]](r chi.Router, s *Server, coll func() *planner.Collection[T]) {
	r.Get("/", listItems(s, coll))
	r.Post("/", createItem(s, coll))
	r.Get("/{itemID}", getItem(s, coll))
	r.Put("/{itemID}", replaceItem(s, coll))
	r.Delete("/{itemID}", deleteItem(s, coll))
}

func listItems[T planner.Item[T]](s *Server, coll func() *planner.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := coll().List(r.Context(), tripFrom(r.Context()).ID)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func getItem[T planner.Item[T]](s *Server, coll func() *planner.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := coll().Get(r.Context(), tripFrom(r.Context()).ID, itemID(r))
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func createItem[T planner.Item[T]](s *Server, coll func() *planner.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := decodeJSON(r.Body, &in); err != nil {
			s.respondDecodeErr(w, r, err)
			return
		}
		item, err := coll().Upsert(r.Context(), tripFrom(r.Context()).ID, in, true)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// replaceItem edits the item named in the path. Fields present in the body
// overwrite the stored ones; omitted fields keep their stored values. The
// body's id, if any, is ignored.
func replaceItem[T planner.Item[T]](s *Server, coll func() *planner.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		var patch T
		if err := decodeJSON(bytes.NewReader(body), &patch); err != nil {
			s.respondDecodeErr(w, r, err)
			return
		}

		item, err := coll().Update(r.Context(), tripFrom(r.Context()).ID, itemID(r), func(cur T) T {
			// body already decoded cleanly into patch
			_ = json.Unmarshal(body, &cur)
			return cur
		})
		if err != nil {
			s.respondErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func deleteItem[T planner.Item[T]](s *Server, coll func() *planner.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := coll().Delete(r.Context(), tripFrom(r.Context()).ID, itemID(r)); err != nil {
			s.respondErr(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func itemID(r *http.Request) planner.ID {
	return planner.ID(chi.URLParam(r, "itemID"))
}

// listTodos returns all todos, or with ?date=YYYY-MM-DD only that day's
// todos ordered by start time.
func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	tripID := tripFrom(r.Context()).ID
	date := r.URL.Query().Get("date")

	var (
		todos []planner.TodoItem
		err   error
	)
	if date == "" {
		todos, err = s.repo.Todos().List(r.Context(), tripID)
	} else {
		if _, perr := time.Parse(planner.DateLayout, date); perr != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
			return
		}
		todos, err = s.repo.TodosOn(r.Context(), tripID, date)
	}
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) todoDates(w http.ResponseWriter, r *http.Request) {
	dates, err := s.repo.TodoDates(r.Context(), tripFrom(r.Context()).ID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

func (s *Server) togglePacked(w http.ResponseWriter, r *http.Request) {
	item, err := s.repo.TogglePacked(r.Context(), tripFrom(r.Context()).ID, itemID(r))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplan/internal/api"
	"tripplan/internal/planner"
	"tripplan/internal/store"
	"tripplan/internal/testutil"
	"tripplan/internal/weather"
)

// ---- helpers ---------------------------------------------------------------

type fakeWeather struct {
	report weather.Report
	err    error
	city   string
}

func (f *fakeWeather) Lookup(_ context.Context, city string) (weather.Report, error) {
	f.city = city
	return f.report, f.err
}

var _ api.WeatherLookup = (*fakeWeather)(nil)

func newTestHandler(t *testing.T) (http.Handler, *store.MemoryStore) {
	t.Helper()
	repo, s := testutil.NewTestRepository(t)
	return api.NewRouter(repo, nil, planner.NewNopLogger(), testutil.FixedClock()), s
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var summerTrip = map[string]string{
	"name":        "Lisbon",
	"destination": "Portugal",
	"startDate":   "2024-06-10",
	"endDate":     "2024-06-12",
}

// createTrip posts summerTrip and returns its id.
func createTrip(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/trips", summerTrip)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return string(decode[planner.Trip](t, rec).ID)
}

// ---- health ----------------------------------------------------------------

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

// ---- trips -----------------------------------------------------------------

func TestTrips_CreateAndList(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/trips", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/trips", summerTrip)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/trips/id-1", rec.Header().Get("Location"))
	created := decode[planner.Trip](t, rec)
	assert.Equal(t, planner.ID("id-1"), created.ID)
	assert.Equal(t, "Lisbon", created.Name)

	rec = do(t, h, http.MethodGet, "/trips", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	trips := decode[[]planner.Trip](t, rec)
	require.Len(t, trips, 1)
	assert.Equal(t, created, trips[0])
}

func TestTrips_Create_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode int
		wantErr  string
	}{
		{
			name:     "blank name",
			body:     map[string]string{"name": " ", "destination": "x", "startDate": "2024-06-10", "endDate": "2024-06-10"},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "validation_error",
		},
		{
			name:     "end before start",
			body:     map[string]string{"name": "a", "destination": "x", "startDate": "2024-06-10", "endDate": "2024-06-09"},
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "validation_error",
		},
		{
			name:     "malformed json",
			body:     `{"name":`,
			wantCode: http.StatusBadRequest,
			wantErr:  "bad_request",
		},
		{
			name:     "unknown field",
			body:     `{"name":"a","budget":10}`,
			wantCode: http.StatusBadRequest,
			wantErr:  "bad_request",
		},
		{
			name:     "empty body",
			body:     nil,
			wantCode: http.StatusBadRequest,
			wantErr:  "bad_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s := newTestHandler(t)
			rec := do(t, h, http.MethodPost, "/trips", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode[errorResponse](t, rec).Error.Code)
			assert.Empty(t, s.Keys(), "nothing should be stored")
		})
	}
}

func TestTrips_Create_ValidationMessage(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(t, h, http.MethodPost, "/trips", map[string]string{
		"destination": "x", "startDate": "2024-06-10", "endDate": "2024-06-10",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "trip name is required", decode[errorResponse](t, rec).Error.Message)
}

func TestTrips_Get(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)

	rec := do(t, h, http.MethodGet, "/trips/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		planner.Trip
		DaysUntil int `json:"daysUntil"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Lisbon", got.Name)
	// 2024-06-01T09:00Z until 2024-06-10T00:00Z is 8 days and 15 hours.
	assert.Equal(t, 9, got.DaysUntil)
}

func TestTrips_Get_NotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/trips/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[errorResponse](t, rec).Error.Code)
}

func TestTrips_Days(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)

	rec := do(t, h, http.MethodGet, "/trips/"+id+"/days", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"2024-06-10", "2024-06-11", "2024-06-12"}, decode[[]string](t, rec))
}

func TestTrips_Delete(t *testing.T) {
	h, s := newTestHandler(t)
	id := createTrip(t, h)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/trips/"+id+"/notes", map[string]string{"title": "visa"}).Code)

	rec := do(t, h, http.MethodDelete, "/trips/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/trips/"+id, nil).Code)
	assert.Equal(t, []string{"tripNotes:" + id, "trips"}, s.Keys(), "plain delete keeps collections")
}

func TestTrips_Delete_Purge(t *testing.T) {
	h, s := newTestHandler(t)
	id := createTrip(t, h)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/trips/"+id+"/notes", map[string]string{"title": "visa"}).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/trips/"+id+"/packlist", map[string]string{"title": "hat"}).Code)

	rec := do(t, h, http.MethodDelete, "/trips/"+id+"?purge=true", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"trips"}, s.Keys())
}

func TestTrips_Delete_BadPurge(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)

	rec := do(t, h, http.MethodDelete, "/trips/"+id+"?purge=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/trips/"+id, nil).Code)
}

func TestTrips_Export(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)
	do(t, h, http.MethodPost, "/trips/"+id+"/sights", map[string]string{"title": "Belém Tower"})

	t.Run("json", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/trips/"+id+"/export", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		b := decode[planner.TripBundle](t, rec)
		assert.Equal(t, "Lisbon", b.Trip.Name)
		require.Len(t, b.SightNotes, 1)
		assert.Equal(t, "Belém Tower", b.SightNotes[0].Title)
		assert.Empty(t, b.Notes)
	})

	t.Run("yaml", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/trips/"+id+"/export?format=yaml", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "name: Lisbon")
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/trips/"+id+"/export?format=xml", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// ---- collections -----------------------------------------------------------

func TestNotes_CRUD(t *testing.T) {
	for _, kind := range []string{"notes", "restaurants", "sights"} {
		t.Run(kind, func(t *testing.T) {
			h, _ := newTestHandler(t)
			id := createTrip(t, h)
			base := "/trips/" + id + "/" + kind

			rec := do(t, h, http.MethodGet, base, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `[]`, rec.Body.String())

			rec = do(t, h, http.MethodPost, base, map[string]string{"title": "first", "content": "https://example.com"})
			require.Equal(t, http.StatusCreated, rec.Code)
			note := decode[planner.Note](t, rec)
			assert.Equal(t, planner.ID("id-2"), note.ID)

			rec = do(t, h, http.MethodPut, base+"/"+string(note.ID), map[string]string{"id": "ignored", "title": "renamed"})
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, planner.Note{ID: note.ID, Title: "renamed", Content: "https://example.com"}, decode[planner.Note](t, rec))

			rec = do(t, h, http.MethodGet, base+"/"+string(note.ID), nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "renamed", decode[planner.Note](t, rec).Title)

			rec = do(t, h, http.MethodDelete, base+"/"+string(note.ID), nil)
			require.Equal(t, http.StatusNoContent, rec.Code)

			rec = do(t, h, http.MethodGet, base, nil)
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}
}

func TestNotes_KindsAreIndependent(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)
	do(t, h, http.MethodPost, "/trips/"+id+"/restaurants", map[string]string{"title": "Cervejaria"})

	for _, kind := range []string{"notes", "sights"} {
		rec := do(t, h, http.MethodGet, "/trips/"+id+"/"+kind, nil)
		assert.JSONEq(t, `[]`, rec.Body.String(), kind)
	}
}

func TestCollections_Errors(t *testing.T) {
	h, s := newTestHandler(t)
	id := createTrip(t, h)
	keysBefore := s.Keys()

	t.Run("replace missing item", func(t *testing.T) {
		rec := do(t, h, http.MethodPut, "/trips/"+id+"/notes/ghost", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get missing item", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/trips/"+id+"/packlist/ghost", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete missing item", func(t *testing.T) {
		rec := do(t, h, http.MethodDelete, "/trips/"+id+"/todos/ghost", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("invalid item", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/trips/"+id+"/packlist", map[string]string{"title": ""})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown trip", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/trips/ghost/notes", map[string]string{"title": "x"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/trips/"+id+"/museums", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	assert.Equal(t, keysBefore, s.Keys(), "failed requests must not write")
}

func TestTodos(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)
	base := "/trips/" + id + "/todos"

	for _, todo := range []planner.TodoItem{
		{Text: "dinner", StartTime: "19:00", EndTime: "21:00", Date: "2024-06-11"},
		{Text: "museum", StartTime: "10:00", EndTime: "12:00", Date: "2024-06-10"},
		{Text: "breakfast", StartTime: "08:00", EndTime: "09:00", Date: "2024-06-11"},
	} {
		rec := do(t, h, http.MethodPost, base, todo)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	t.Run("all in stored order", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base, nil)
		todos := decode[[]planner.TodoItem](t, rec)
		require.Len(t, todos, 3)
		assert.Equal(t, "dinner", todos[0].Text)
	})

	t.Run("by date sorted by start time", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"?date=2024-06-11", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		todos := decode[[]planner.TodoItem](t, rec)
		require.Len(t, todos, 2)
		assert.Equal(t, "breakfast", todos[0].Text)
		assert.Equal(t, "dinner", todos[1].Text)
	})

	t.Run("date with nothing planned", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"?date=2024-06-12", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("bad date", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"?date=11/06/2024", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dates", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, base+"/dates", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"2024-06-10", "2024-06-11"}, decode[[]string](t, rec))
	})

	t.Run("missing times rejected", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, base, map[string]string{"text": "swim", "date": "2024-06-10"})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestPacklist_Toggle(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)
	base := "/trips/" + id + "/packlist"

	rec := do(t, h, http.MethodPost, base, map[string]string{"title": "passport"})
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode[planner.PackItem](t, rec)
	assert.False(t, item.Checked)

	rec = do(t, h, http.MethodPost, base+"/"+string(item.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[planner.PackItem](t, rec).Checked)

	rec = do(t, h, http.MethodPost, base+"/"+string(item.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[planner.PackItem](t, rec).Checked)

	rec = do(t, h, http.MethodPost, base+"/ghost/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPacklist_RenameKeepsChecked(t *testing.T) {
	h, _ := newTestHandler(t)
	id := createTrip(t, h)
	base := "/trips/" + id + "/packlist"

	rec := do(t, h, http.MethodPost, base, map[string]string{"title": "pasport"})
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode[planner.PackItem](t, rec)
	rec = do(t, h, http.MethodPost, base+"/"+string(item.ID)+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, base+"/"+string(item.ID), map[string]string{"title": "Passport"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, planner.PackItem{ID: item.ID, Title: "Passport", Checked: true}, decode[planner.PackItem](t, rec))

	rec = do(t, h, http.MethodGet, base+"/"+string(item.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[planner.PackItem](t, rec).Checked)

	// An explicit checked field still applies.
	rec = do(t, h, http.MethodPut, base+"/"+string(item.ID), map[string]any{"checked": false})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, planner.PackItem{ID: item.ID, Title: "Passport"}, decode[planner.PackItem](t, rec))
}

func TestCollections_ReplaceRejectsBadBody(t *testing.T) {
	h, s := newTestHandler(t)
	id := createTrip(t, h)
	rec := do(t, h, http.MethodPost, "/trips/"+id+"/notes", map[string]string{"title": "first"})
	require.Equal(t, http.StatusCreated, rec.Code)
	note := decode[planner.Note](t, rec)
	before := s.Keys()

	for name, body := range map[string]string{
		"malformed":     `{"title":`,
		"unknown field": `{"colour":"red"}`,
		"empty":         ``,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, "/trips/"+id+"/notes/"+string(note.ID), body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec = do(t, h, http.MethodPut, "/trips/"+id+"/notes/"+string(note.ID), map[string]string{"title": "  "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodGet, "/trips/"+id+"/notes/"+string(note.ID), nil)
	assert.Equal(t, "first", decode[planner.Note](t, rec).Title)
	assert.Equal(t, before, s.Keys())
}

// ---- weather ---------------------------------------------------------------

func TestWeather(t *testing.T) {
	repo, _ := testutil.NewTestRepository(t)

	t.Run("ok", func(t *testing.T) {
		wx := &fakeWeather{report: weather.Report{City: "Lisbon", Description: "clear sky", Temperature: 24.5}}
		h := api.NewRouter(repo, wx, nil, nil)

		rec := do(t, h, http.MethodGet, "/weather?city=Lisbon", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Lisbon", wx.city)
		assert.Equal(t, wx.report, decode[weather.Report](t, rec))
	})

	t.Run("rejected by upstream", func(t *testing.T) {
		wx := &fakeWeather{err: &weather.LookupError{Status: 404, Message: "city not found"}}
		h := api.NewRouter(repo, wx, nil, nil)

		rec := do(t, h, http.MethodGet, "/weather?city=Atlantis", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "city not found", decode[errorResponse](t, rec).Error.Message)
	})

	t.Run("no city", func(t *testing.T) {
		h := api.NewRouter(repo, &fakeWeather{err: weather.ErrNoCity}, nil, nil)
		rec := do(t, h, http.MethodGet, "/weather", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		h := api.NewRouter(repo, nil, nil, nil)
		rec := do(t, h, http.MethodGet, "/weather?city=Lisbon", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

// ---- failures --------------------------------------------------------------

func TestStorageFailure_Returns500(t *testing.T) {
	fs := testutil.NewFailingStore(store.NewMemoryStore())
	repo := testutil.NewTestRepositoryWithStore(t, fs)
	h := api.NewRouter(repo, nil, nil, nil)
	id := createTrip(t, h)

	fs.FailGet(true)
	rec := do(t, h, http.MethodGet, "/trips/"+id+"/notes", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Equal(t, "internal_error", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "injected")
}

func TestBodyTooLarge(t *testing.T) {
	h, s := newTestHandler(t)
	big := `{"name":"` + strings.Repeat("a", 2<<20) + `"}`

	rec := do(t, h, http.MethodPost, "/trips", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, s.Keys())
}

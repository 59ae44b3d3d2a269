package planner

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "string", input: `"a1b2"`, want: "a1b2"},
		{name: "legacy timestamp", input: `1717171717171`, want: "1717171717171"},
		{name: "null", input: `null`, want: ""},
		{name: "bool", input: `true`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ID
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Unmarshal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestID_MarshalsAsString(t *testing.T) {
	var n Note
	if err := json.Unmarshal([]byte(`{"id":42,"title":"x"}`), &n); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	out, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"id":"42","title":"x","content":""}` {
		t.Errorf("Marshal() = %s", out)
	}
}

func TestTrip_Validate(t *testing.T) {
	valid := Trip{Name: "Ana", Destination: "Oslo", StartDate: "2025-06-01", EndDate: "2025-06-05"}

	tests := []struct {
		name    string
		mutate  func(*Trip)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Trip) {}},
		{name: "single day", mutate: func(tr *Trip) { tr.EndDate = tr.StartDate }},
		{name: "timestamps", mutate: func(tr *Trip) {
			tr.StartDate = "2025-06-01T00:00:00.000Z"
			tr.EndDate = "2025-06-05T00:00:00.000Z"
		}},
		{name: "blank name", mutate: func(tr *Trip) { tr.Name = "\t" }, wantErr: true},
		{name: "blank destination", mutate: func(tr *Trip) { tr.Destination = "" }, wantErr: true},
		{name: "missing end", mutate: func(tr *Trip) { tr.EndDate = "" }, wantErr: true},
		{name: "reversed", mutate: func(tr *Trip) { tr.StartDate, tr.EndDate = tr.EndDate, tr.StartDate }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := valid
			tt.mutate(&trip)
			err := trip.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestNote_IsLink(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"https://visitoslo.com", true},
		{"http://example.com/a", true},
		{"see https://example.com", false},
		{"ftp://example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			if got := (Note{Content: tt.content}).IsLink(); got != tt.want {
				t.Errorf("IsLink() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseNoteKind(t *testing.T) {
	for _, k := range NoteKinds {
		got, err := ParseNoteKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseNoteKind(%q) = %q, %v", k, got, err)
		}
	}
	if _, err := ParseNoteKind("hotels"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseNoteKind(hotels) error = %v, want ErrValidation", err)
	}
}

func TestNoteKind_Keys(t *testing.T) {
	tests := []struct {
		kind NoteKind
		want string
	}{
		{GeneralNotes, "tripNotes:T1"},
		{RestaurantNotes, "restaurantNotes:T1"},
		{SightNotes, "sightNotes:T1"},
	}
	for _, tt := range tests {
		if got := scopedKey(tt.kind.prefix(), "T1"); got != tt.want {
			t.Errorf("key(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if got := TripDataKey("T1"); got != "tripData:T1" {
		t.Errorf("TripDataKey() = %q", got)
	}
}

func TestTodoItem_Validate(t *testing.T) {
	valid := TodoItem{Text: "museum", StartTime: "10:00", EndTime: "12:30", Date: "2025-06-02"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*TodoItem)
	}{
		{"blank text", func(ti *TodoItem) { ti.Text = " " }},
		{"missing start", func(ti *TodoItem) { ti.StartTime = "" }},
		{"bad end", func(ti *TodoItem) { ti.EndTime = "noon" }},
		{"bad date", func(ti *TodoItem) { ti.Date = "02/06/2025" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)
			if err := item.Validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	inner := errors.New("disk full")
	var err error = &StorageError{Op: "set", Key: "trips", Err: inner}

	if !errors.Is(err, ErrStorage) {
		t.Error("errors.Is(err, ErrStorage) = false")
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is(err, inner) = false")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true")
	}
	if got := err.Error(); got != `storage set "trips": disk full` {
		t.Errorf("Error() = %q", got)
	}
}

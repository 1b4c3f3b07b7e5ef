package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/soundlake/playlist-api/internal/domain"
)

func TestNormalize_MinimalDocument(t *testing.T) {
	cols, err := Parse([]byte(`{"id":{"0":"a"},"title":{"0":"Song A"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	songs, err := Normalize(cols)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("songs = %d, want 1", len(songs))
	}
	if songs[0].ID != "a" || songs[0].Title != "Song A" {
		t.Fatalf("record = %+v, want id a title Song A", songs[0])
	}
	if songs[0].CurrentRating != nil {
		t.Fatalf("current_rating must start nil, got %v", *songs[0].CurrentRating)
	}
	if songs[0].Tempo != nil {
		t.Fatalf("absent attributes must stay nil")
	}
}

func TestNormalize_FullAttributeSet(t *testing.T) {
	doc := `{
        "id": {"0": "a1", "1": "b2"},
        "title": {"0": "3AM", "1": "Daylight"},
        "danceability": {"0": 0.521, "1": 0.735},
        "energy": {"0": 0.673, "1": 0.849},
        "key": {"0": 8, "1": 1},
        "loudness": {"0": -8.685, "1": -4.308},
        "mode": {"0": 1, "1": 1},
        "acousticness": {"0": 0.00573, "1": 0.212},
        "instrumentalness": {"0": 0.000261, "1": 0},
        "liveness": {"0": 0.12, "1": 0.0608},
        "valence": {"0": 0.543, "1": 0.223},
        "tempo": {"0": 108.031, "1": 125.899},
        "duration_ms": {"0": 225947, "1": 207959},
        "time_signature": {"0": 4, "1": 4},
        "num_bars": {"0": 100, "1": 107},
        "num_sections": {"0": 8, "1": 7},
        "num_segments": {"0": 830, "1": 999},
        "class": {"0": 1, "1": 0}
    }`

	cols, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	songs, err := Normalize(cols)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("songs = %d, want 2", len(songs))
	}

	first := songs[0]
	if first.ID != "a1" || first.Title != "3AM" {
		t.Fatalf("first record identity wrong: %+v", first)
	}
	if first.Danceability == nil || *first.Danceability != 0.521 {
		t.Fatalf("danceability = %+v, want 0.521", first.Danceability)
	}
	if first.Key == nil || *first.Key != 8 {
		t.Fatalf("key = %+v, want 8", first.Key)
	}
	if first.DurationMs == nil || *first.DurationMs != 225947 {
		t.Fatalf("duration_ms = %+v, want 225947", first.DurationMs)
	}
	if first.Class == nil || *first.Class != 1 {
		t.Fatalf("class = %+v, want 1", first.Class)
	}
}

func TestNormalize_SparseCellsStayNil(t *testing.T) {
	doc := `{
        "id": {"0": "a", "1": "b"},
        "title": {"0": "First", "1": "Second"},
        "tempo": {"1": 98.5},
        "mode": {"0": null, "1": 1}
    }`

	cols, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	songs, err := Normalize(cols)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if songs[0].Tempo != nil {
		t.Fatalf("row 0 tempo should be nil, got %v", *songs[0].Tempo)
	}
	if songs[1].Tempo == nil || *songs[1].Tempo != 98.5 {
		t.Fatalf("row 1 tempo = %+v, want 98.5", songs[1].Tempo)
	}
	if songs[0].Mode != nil {
		t.Fatalf("null cell should stay nil, got %v", *songs[0].Mode)
	}
	if songs[1].Mode == nil || *songs[1].Mode != 1 {
		t.Fatalf("row 1 mode = %+v, want 1", songs[1].Mode)
	}
}

func TestNormalize_RowCountFromMaxIndex(t *testing.T) {
	// The title column reaches index 2 even though id is sparse there; the
	// document is rejected because row 2 has no id, not silently truncated.
	doc := `{
        "id": {"0": "a", "1": "b"},
        "title": {"0": "First", "1": "Second", "2": "Orphan"}
    }`
	cols, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Normalize(cols); !domain.IsCode(err, domain.ErrCodeValidation) {
		t.Fatalf("normalize error = %v, want validation (missing id)", err)
	}
}

func TestNormalize_InvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id attribute", `{"title":{"0":"Song A"}}`},
		{"non-numeric row index", `{"id":{"zero":"a"}}`},
		{"negative row index", `{"id":{"-1":"a"}}`},
		{"non-string id", `{"id":{"0":42}}`},
		{"non-numeric tempo", `{"id":{"0":"a"},"tempo":{"0":"fast"}}`},
		{"row index far beyond cell count", `{"id":{"0":"a","9000000000000000000":"b"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := Parse([]byte(tt.doc))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if _, err := Normalize(cols); !domain.IsCode(err, domain.ErrCodeValidation) {
				t.Fatalf("normalize error = %v, want validation", err)
			}
		})
	}
}

func TestNormalize_UnknownAttributesIgnored(t *testing.T) {
	doc := `{"id":{"0":"a"},"title":{"0":"Song A"},"popularity":{"0":87}}`
	cols, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	songs, err := Normalize(cols)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(songs) != 1 || songs[0].ID != "a" {
		t.Fatalf("unknown attribute broke normalization: %+v", songs)
	}
}

func TestParse_MalformedDocument(t *testing.T) {
	if _, err := Parse([]byte(`["not","columnar"]`)); !domain.IsCode(err, domain.ErrCodeValidation) {
		t.Fatalf("parse error = %v, want validation", err)
	}
}

func TestExport_RowBasedShape(t *testing.T) {
	tempo := 108.031
	songs := []domain.Song{{ID: "a", Title: "Song A", Tempo: &tempo}}

	path := filepath.Join(t.TempDir(), "normalized.json")
	if err := Export(songs, path); err != nil {
		t.Fatalf("export: %v", err)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(payload, &records); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if records[0]["id"] != "a" || records[0]["title"] != "Song A" {
		t.Fatalf("record identity wrong: %+v", records[0])
	}
	if rating, present := records[0]["current_rating"]; !present || rating != nil {
		t.Fatalf("current_rating must serialize as explicit null, got %+v", records[0])
	}
}

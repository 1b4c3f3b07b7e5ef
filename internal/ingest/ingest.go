// Package ingest normalizes the columnar playlist export into row-based song
// records. The export maps each attribute name to an object keyed by
// stringified row index, e.g. {"id":{"0":"a"},"title":{"0":"Song A"}}.
package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/soundlake/playlist-api/internal/domain"
)

// Columnar is the raw export shape: attribute -> row index -> value.
type Columnar map[string]map[string]json.RawMessage

// Parse decodes a columnar export document.
func Parse(data []byte) (Columnar, error) {
	var cols Columnar
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, domain.NewValidation("malformed columnar document: %v", err)
	}
	return cols, nil
}

// Normalize converts columnar data into one Song per row index. The row count
// is the maximum index seen across all attributes plus one, so a cell missing
// from one attribute simply yields a nil field instead of shifting rows.
// Every row must carry a non-empty id. CurrentRating starts nil for every
// normalized record.
func Normalize(cols Columnar) ([]domain.Song, error) {
	rows, err := rowCount(cols)
	if err != nil {
		return nil, err
	}

	songs := make([]domain.Song, 0, rows)
	for i := 0; i < rows; i++ {
		key := strconv.Itoa(i)
		var song domain.Song
		for attr, cells := range cols {
			raw, ok := cells[key]
			if !ok || isNull(raw) {
				continue
			}
			if err := assign(&song, attr, raw); err != nil {
				return nil, domain.NewValidation("row %d, attribute %q: %v", i, attr, err)
			}
		}
		if song.ID == "" {
			return nil, domain.NewValidation("row %d: missing id", i)
		}
		songs = append(songs, song)
	}
	return songs, nil
}

func rowCount(cols Columnar) (int, error) {
	max := 0
	cells := 0
	for attr, attrCells := range cols {
		for key := range attrCells {
			cells++
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 {
				return 0, domain.NewValidation("attribute %q: invalid row index %q", attr, key)
			}
			if idx+1 > max {
				max = idx + 1
			}
		}
	}
	// Every valid row carries at least an id cell, so the row count can never
	// exceed the number of cells in the document. Rejecting here keeps an
	// absurd sparse index from driving the row allocation.
	if max > cells {
		return 0, domain.NewValidation("row index %d exceeds the document's %d cells", max-1, cells)
	}
	return max, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func assign(song *domain.Song, attr string, raw json.RawMessage) error {
	switch attr {
	case "id":
		return unmarshalString(raw, &song.ID)
	case "title":
		return unmarshalString(raw, &song.Title)
	case "danceability":
		return unmarshalFloat(raw, &song.Danceability)
	case "energy":
		return unmarshalFloat(raw, &song.Energy)
	case "key":
		return unmarshalInt(raw, &song.Key)
	case "loudness":
		return unmarshalFloat(raw, &song.Loudness)
	case "mode":
		return unmarshalInt(raw, &song.Mode)
	case "acousticness":
		return unmarshalFloat(raw, &song.Acousticness)
	case "instrumentalness":
		return unmarshalFloat(raw, &song.Instrumentalness)
	case "liveness":
		return unmarshalFloat(raw, &song.Liveness)
	case "valence":
		return unmarshalFloat(raw, &song.Valence)
	case "tempo":
		return unmarshalFloat(raw, &song.Tempo)
	case "duration_ms":
		var v int64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		song.DurationMs = &v
		return nil
	case "time_signature":
		return unmarshalInt(raw, &song.TimeSignature)
	case "num_bars":
		return unmarshalInt(raw, &song.NumBars)
	case "num_sections":
		return unmarshalInt(raw, &song.NumSections)
	case "num_segments":
		return unmarshalInt(raw, &song.NumSegments)
	case "class":
		return unmarshalInt(raw, &song.Class)
	default:
		// Unknown attributes are ignored rather than rejected so newer
		// exports with extra columns still load.
		return nil
	}
}

func unmarshalString(raw json.RawMessage, dst *string) error {
	return json.Unmarshal(raw, dst)
}

func unmarshalFloat(raw json.RawMessage, dst **float64) error {
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

func unmarshalInt(raw json.RawMessage, dst **int) error {
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = &v
	return nil
}

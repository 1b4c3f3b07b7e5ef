package ingest

import (
	"encoding/json"
	"os"

	"github.com/soundlake/playlist-api/internal/domain"
)

// exportRecord mirrors the row-based JSON shape of the serving API so a dump
// of normalized records can be diffed against live responses.
type exportRecord struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Danceability     *float64 `json:"danceability"`
	Energy           *float64 `json:"energy"`
	Key              *int     `json:"key"`
	Loudness         *float64 `json:"loudness"`
	Mode             *int     `json:"mode"`
	Acousticness     *float64 `json:"acousticness"`
	Instrumentalness *float64 `json:"instrumentalness"`
	Liveness         *float64 `json:"liveness"`
	Valence          *float64 `json:"valence"`
	Tempo            *float64 `json:"tempo"`
	DurationMs       *int64   `json:"duration_ms"`
	TimeSignature    *int     `json:"time_signature"`
	NumBars          *int     `json:"num_bars"`
	NumSections      *int     `json:"num_sections"`
	NumSegments      *int     `json:"num_segments"`
	Class            *int     `json:"class"`
	CurrentRating    *float64 `json:"current_rating"`
}

// Export writes normalized records to path as a row-based JSON array.
func Export(songs []domain.Song, path string) error {
	records := make([]exportRecord, 0, len(songs))
	for _, s := range songs {
		records = append(records, exportRecord{
			ID:               s.ID,
			Title:            s.Title,
			Danceability:     s.Danceability,
			Energy:           s.Energy,
			Key:              s.Key,
			Loudness:         s.Loudness,
			Mode:             s.Mode,
			Acousticness:     s.Acousticness,
			Instrumentalness: s.Instrumentalness,
			Liveness:         s.Liveness,
			Valence:          s.Valence,
			Tempo:            s.Tempo,
			DurationMs:       s.DurationMs,
			TimeSignature:    s.TimeSignature,
			NumBars:          s.NumBars,
			NumSections:      s.NumSections,
			NumSegments:      s.NumSegments,
			Class:            s.Class,
			CurrentRating:    s.CurrentRating,
		})
	}

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

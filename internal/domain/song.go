package domain

import "time"

// Song represents the canonical song entity in the database/service.
// Audio-feature attributes are nullable and opaque to the rating and
// pagination logic; they are passed through unchanged.
type Song struct {
	ID               string
	Title            string
	Danceability     *float64
	Energy           *float64
	Key              *int
	Loudness         *float64
	Mode             *int
	Acousticness     *float64
	Instrumentalness *float64
	Liveness         *float64
	Valence          *float64
	Tempo            *float64
	DurationMs       *int64
	TimeSignature    *int
	NumBars          *int
	NumSections      *int
	NumSegments      *int
	Class            *int
	// CurrentRating caches the mean of all rating events for this song.
	// nil means no ratings exist; the value is always recomputable from
	// the rating_events log.
	CurrentRating *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

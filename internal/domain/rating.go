package domain

import "time"

// RatingEvent is one immutable 1-5 star submission tied to a song.
// Events are append-only; they are never updated or deleted.
type RatingEvent struct {
	ID        int64
	SongID    string
	Value     int
	CreatedAt time.Time
}

// RatingSummary provides the average and event count for a song's ratings.
type RatingSummary struct {
	SongID  string
	Average float64
	Count   int64
}

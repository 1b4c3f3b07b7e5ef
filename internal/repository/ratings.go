package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soundlake/playlist-api/internal/domain"
)

// RatingsRepository provides helpers for the append-only rating log and the
// derived per-song average.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// Submit appends one rating event for the song and refreshes its cached
// average inside a single transaction. The SELECT ... FOR UPDATE on the song
// row serializes concurrent submissions for the same song while submissions
// for different songs proceed independently. The average is always recomputed
// from the full event log, never from the cached value.
func (r *RatingsRepository) Submit(ctx context.Context, songID string, value int) (domain.RatingSummary, error) {
	if value < 1 || value > 5 {
		return domain.RatingSummary{}, domain.NewValidation("rating must be an integer between 1 and 5")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.RatingSummary{}, domain.WrapStorage("begin rating transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked string
	if err := tx.QueryRow(ctx, `SELECT id FROM songs WHERE id = $1 FOR UPDATE`, songID).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RatingSummary{}, domain.ErrSongNotFound
		}
		return domain.RatingSummary{}, domain.WrapStorage("lock song row", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO rating_events (song_id, rating) VALUES ($1, $2)`, songID, value); err != nil {
		return domain.RatingSummary{}, domain.WrapStorage("append rating event", err)
	}

	summary := domain.RatingSummary{SongID: songID}
	const recompute = `
        SELECT ROUND(AVG(rating)::numeric, 2)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM rating_events
        WHERE song_id = $1
    `
	if err := tx.QueryRow(ctx, recompute, songID).Scan(&summary.Average, &summary.Count); err != nil {
		return domain.RatingSummary{}, domain.WrapStorage("recompute rating average", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE songs SET current_rating = $2, updated_at = now() WHERE id = $1`, songID, summary.Average); err != nil {
		return domain.RatingSummary{}, domain.WrapStorage("update cached rating", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.RatingSummary{}, domain.WrapStorage("commit rating transaction", err)
	}
	return summary, nil
}

// Summary returns the rating average and count for a song. A song with no
// rating events reports average 0 and count 0; an unknown song is an error.
func (r *RatingsRepository) Summary(ctx context.Context, songID string) (domain.RatingSummary, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM songs WHERE id = $1)`, songID).Scan(&exists); err != nil {
		return domain.RatingSummary{}, domain.WrapStorage("check song exists", err)
	}
	if !exists {
		return domain.RatingSummary{}, domain.ErrSongNotFound
	}

	summary := domain.RatingSummary{SongID: songID}
	const query = `
        SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM rating_events
        WHERE song_id = $1
    `
	if err := r.pool.QueryRow(ctx, query, songID).Scan(&summary.Average, &summary.Count); err != nil {
		return domain.RatingSummary{}, domain.WrapStorage("aggregate ratings", err)
	}
	return summary, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soundlake/playlist-api/internal/domain"
)

// SongsRepository provides persistence helpers for song entities.
type SongsRepository struct {
	pool *pgxpool.Pool
}

const songColumns = `
    id,
    title,
    danceability,
    energy,
    "key",
    loudness,
    mode,
    acousticness,
    instrumentalness,
    liveness,
    valence,
    tempo,
    duration_ms,
    time_signature,
    num_bars,
    num_sections,
    num_segments,
    "class",
    current_rating,
    created_at,
    updated_at
`

// SongPage is the pagination envelope returned by List.
type SongPage struct {
	Items      []domain.Song
	Total      int64
	Page       int
	PerPage    int
	TotalPages int64
}

// MaxPerPage bounds the page size accepted by List.
const MaxPerPage = 100

// GetByID fetches a song by its identifier.
func (r *SongsRepository) GetByID(ctx context.Context, id string) (domain.Song, error) {
	query := fmt.Sprintf(`SELECT %s FROM songs WHERE id = $1`, songColumns)
	song, err := scanSong(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Song{}, domain.ErrSongNotFound
		}
		return domain.Song{}, domain.WrapStorage("get song", err)
	}
	return song, nil
}

// List returns one page of the catalog ordered by title (ties broken by id)
// so that repeated calls over identical data are deterministic. A page that
// starts past the end of the catalog yields an empty item list, not an error.
func (r *SongsRepository) List(ctx context.Context, page, perPage int) (SongPage, error) {
	if page < 1 {
		return SongPage{}, domain.NewValidation("page must be >= 1")
	}
	if perPage < 1 || perPage > MaxPerPage {
		return SongPage{}, domain.NewValidation("per_page must be between 1 and %d", MaxPerPage)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM songs`).Scan(&total); err != nil {
		return SongPage{}, domain.WrapStorage("count songs", err)
	}

	totalPages := (total + int64(perPage) - 1) / int64(perPage)
	if totalPages < 1 {
		totalPages = 1
	}

	// A page starting past the end of the catalog yields an empty item list.
	// Checked before the offset multiplication so huge page numbers cannot
	// overflow into a negative OFFSET.
	if int64(page-1) > (math.MaxInt64-1)/int64(perPage) || int64(page-1)*int64(perPage) >= total {
		return SongPage{
			Items:      make([]domain.Song, 0),
			Total:      total,
			Page:       page,
			PerPage:    perPage,
			TotalPages: totalPages,
		}, nil
	}

	offset := (page - 1) * perPage
	query := fmt.Sprintf(`SELECT %s FROM songs ORDER BY title ASC, id ASC LIMIT $1 OFFSET $2`, songColumns)
	rows, err := r.pool.Query(ctx, query, perPage, offset)
	if err != nil {
		return SongPage{}, domain.WrapStorage("list songs", err)
	}
	defer rows.Close()

	items := make([]domain.Song, 0, perPage)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return SongPage{}, domain.WrapStorage("scan song", err)
		}
		items = append(items, song)
	}
	if err := rows.Err(); err != nil {
		return SongPage{}, domain.WrapStorage("list songs", err)
	}

	return SongPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// SearchByTitle returns all songs whose title contains the query as a
// case-insensitive literal substring, ordered by title then id. A query that
// matches nothing yields an empty list.
func (r *SongsRepository) SearchByTitle(ctx context.Context, query string) ([]domain.Song, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, domain.NewValidation("title query must not be empty")
	}

	pattern := "%" + escapeLike(q) + "%"
	stmt := fmt.Sprintf(`SELECT %s FROM songs WHERE title ILIKE $1 ORDER BY title ASC, id ASC`, songColumns)
	rows, err := r.pool.Query(ctx, stmt, pattern)
	if err != nil {
		return nil, domain.WrapStorage("search songs", err)
	}
	defer rows.Close()

	items := make([]domain.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, domain.WrapStorage("scan song", err)
		}
		items = append(items, song)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapStorage("search songs", err)
	}
	return items, nil
}

// UpsertMany inserts or refreshes ingested songs. current_rating is
// initialized NULL for new rows and left untouched for existing ones: the
// aggregate belongs to the rating log, not to ingestion.
func (r *SongsRepository) UpsertMany(ctx context.Context, songs []domain.Song) (int64, error) {
	const stmt = `
        INSERT INTO songs (
            id, title, danceability, energy, "key", loudness, mode,
            acousticness, instrumentalness, liveness, valence, tempo,
            duration_ms, time_signature, num_bars, num_sections, num_segments, "class"
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            danceability = EXCLUDED.danceability,
            energy = EXCLUDED.energy,
            "key" = EXCLUDED."key",
            loudness = EXCLUDED.loudness,
            mode = EXCLUDED.mode,
            acousticness = EXCLUDED.acousticness,
            instrumentalness = EXCLUDED.instrumentalness,
            liveness = EXCLUDED.liveness,
            valence = EXCLUDED.valence,
            tempo = EXCLUDED.tempo,
            duration_ms = EXCLUDED.duration_ms,
            time_signature = EXCLUDED.time_signature,
            num_bars = EXCLUDED.num_bars,
            num_sections = EXCLUDED.num_sections,
            num_segments = EXCLUDED.num_segments,
            "class" = EXCLUDED."class",
            updated_at = now()
    `

	batch := &pgx.Batch{}
	for _, s := range songs {
		batch.Queue(stmt,
			s.ID, s.Title, s.Danceability, s.Energy, s.Key, s.Loudness, s.Mode,
			s.Acousticness, s.Instrumentalness, s.Liveness, s.Valence, s.Tempo,
			s.DurationMs, s.TimeSignature, s.NumBars, s.NumSections, s.NumSegments, s.Class,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var affected int64
	for range songs {
		tag, err := results.Exec()
		if err != nil {
			return affected, domain.WrapStorage("upsert song", err)
		}
		affected += tag.RowsAffected()
	}
	return affected, nil
}

func scanSong(row pgx.Row) (domain.Song, error) {
	var song domain.Song
	err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Danceability,
		&song.Energy,
		&song.Key,
		&song.Loudness,
		&song.Mode,
		&song.Acousticness,
		&song.Instrumentalness,
		&song.Liveness,
		&song.Valence,
		&song.Tempo,
		&song.DurationMs,
		&song.TimeSignature,
		&song.NumBars,
		&song.NumSections,
		&song.NumSegments,
		&song.Class,
		&song.CurrentRating,
		&song.CreatedAt,
		&song.UpdatedAt,
	)
	if err != nil {
		return domain.Song{}, err
	}
	return song, nil
}

// escapeLike neutralizes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soundlake/playlist-api/internal/store"
)

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Songs   *SongsRepository
	Ratings *RatingsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Songs:   &SongsRepository{pool: pool},
		Ratings: &RatingsRepository{pool: pool},
	}
}

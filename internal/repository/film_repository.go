package repository

import (
	"context"
	"errors"

	"github.com/iliyamo/filmorate/internal/model"
)

// ErrFilmNotFound is returned when a film cannot be found in the store.
var ErrFilmNotFound = errors.New("film not found")

// FilmRepo keeps film records in process memory. Identifiers come from a
// dedicated Sequence so films and users are numbered independently.
type FilmRepo struct {
	t *table[model.Film]
}

// NewFilmRepo constructs an empty FilmRepo. A nil sequence starts a fresh one.
func NewFilmRepo(seq *Sequence) *FilmRepo {
	return &FilmRepo{t: newTable[model.Film](seq)}
}

// List returns all films in insertion order.
func (r *FilmRepo) List(ctx context.Context) ([]model.Film, error) {
	return r.t.all(), nil
}

// Create stores a copy of f under a freshly assigned identifier. On success
// f.ID holds the new identifier.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
	stored := r.t.insert(func(id int64) model.Film {
		rec := *f
		rec.ID = id
		return rec
	})
	f.ID = stored.ID
	return nil
}

// Update replaces the stored fields of the film identified by f.ID.
// It returns ErrFilmNotFound when no such film exists.
func (r *FilmRepo) Update(ctx context.Context, f *model.Film) error {
	if f.ID <= 0 || !r.t.replace(f.ID, *f) {
		return ErrFilmNotFound
	}
	return nil
}

// GetByID fetches a film by id.
func (r *FilmRepo) GetByID(ctx context.Context, id int64) (*model.Film, error) {
	f, ok := r.t.get(id)
	if !ok {
		return nil, ErrFilmNotFound
	}
	return &f, nil
}

// Exists reports whether a film with the given id is stored. Identifiers
// below 1 are never present.
func (r *FilmRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.t.has(id), nil
}

// Count returns the number of stored films.
func (r *FilmRepo) Count() int {
	return r.t.count()
}

package repository

import (
	"context"
	"errors"

	"github.com/iliyamo/filmorate/internal/model"
)

// ErrUserNotFound is returned when a user cannot be found in the store.
var ErrUserNotFound = errors.New("user not found")

// UserRepo keeps user records in process memory. Identifiers come from a
// dedicated Sequence so films and users are numbered independently.
type UserRepo struct {
	t *table[model.User]
}

// NewUserRepo constructs an empty UserRepo. A nil sequence starts a fresh one.
func NewUserRepo(seq *Sequence) *UserRepo {
	return &UserRepo{t: newTable[model.User](seq)}
}

// List returns all users in insertion order.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.t.all(), nil
}

// Create stores a copy of u under a freshly assigned identifier. On success
// u.ID holds the new identifier.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	stored := r.t.insert(func(id int64) model.User {
		rec := *u
		rec.ID = id
		return rec
	})
	u.ID = stored.ID
	return nil
}

// Update replaces the stored fields of the user identified by u.ID.
// It returns ErrUserNotFound when no such user exists.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	if u.ID <= 0 || !r.t.replace(u.ID, *u) {
		return ErrUserNotFound
	}
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := r.t.get(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// Exists reports whether a user with the given id is stored. Identifiers
// below 1 are never present.
func (r *UserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return r.t.has(id), nil
}

// Count returns the number of stored users.
func (r *UserRepo) Count() int {
	return r.t.count()
}

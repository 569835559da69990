package service

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/metrics"
	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/repository"
)

// FilmService applies the film rules: release date bounds, strict like
// semantics and the popularity ranking.
type FilmService struct {
	films  FilmStore
	likes  LikeIndex
	users  UserRequirer
	events EventPublisher
	log    *zap.Logger
}

// NewFilmService wires a FilmService. It panics when a required dependency is
// nil; a nil events publisher disables events and a nil logger is replaced by
// a no-op logger.
func NewFilmService(films FilmStore, likes LikeIndex, users UserRequirer, events EventPublisher, log *zap.Logger) *FilmService {
	if films == nil || likes == nil || users == nil {
		panic("nil dependency passed to NewFilmService")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FilmService{films: films, likes: likes, users: users, events: events, log: log}
}

// List returns every film in creation order.
func (s *FilmService) List(ctx context.Context) ([]model.Film, error) {
	s.log.Debug("retrieving all films")
	return s.films.List(ctx)
}

// Create validates f and stores it. On success f.ID is set.
func (s *FilmService) Create(ctx context.Context, f *model.Film) error {
	if err := validateFilm(f); err != nil {
		return err
	}
	if err := s.films.Create(ctx, f); err != nil {
		return err
	}
	metrics.EntitiesCreated.WithLabelValues(metrics.KindFilm).Inc()
	s.log.Info("film created", zap.Int64("film_id", f.ID), zap.String("name", f.Name))
	return nil
}

// Update replaces an existing film. The film must already exist.
func (s *FilmService) Update(ctx context.Context, f *model.Film) error {
	if err := s.RequireFilm(ctx, f.ID); err != nil {
		return err
	}
	if err := validateFilm(f); err != nil {
		return err
	}
	if err := s.films.Update(ctx, f); err != nil {
		return s.translate(err, f.ID)
	}
	s.log.Info("film updated", zap.Int64("film_id", f.ID), zap.String("name", f.Name))
	return nil
}

// Get returns the film with the given id.
func (s *FilmService) Get(ctx context.Context, id int64) (*model.Film, error) {
	if err := s.RequireFilm(ctx, id); err != nil {
		return nil, err
	}
	f, err := s.films.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return f, nil
}

// AddLike records that userID likes filmID. Liking the same film twice is a
// ValidationError.
func (s *FilmService) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}
	added, err := s.likes.AddLike(ctx, filmID, userID)
	if err != nil {
		return err
	}
	countChange(metrics.RelationLike, metrics.OpAdd, added)
	if !added {
		s.log.Warn("film already liked", zap.Int64("film_id", filmID), zap.Int64("user_id", userID))
		return validationf(msgAlreadyLiked)
	}
	s.log.Info("like added", zap.Int64("film_id", filmID), zap.Int64("user_id", userID))
	emit(ctx, s.events, s.log, queue.NewActivityEvent(queue.EventLike, queue.OperationAdd, userID, filmID))
	return nil
}

// RemoveLike withdraws userID's like of filmID. Removing a like that does not
// exist is a ValidationError.
func (s *FilmService) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}
	removed, err := s.likes.RemoveLike(ctx, filmID, userID)
	if err != nil {
		return err
	}
	countChange(metrics.RelationLike, metrics.OpRemove, removed)
	if !removed {
		s.log.Warn("cannot remove non-existent like", zap.Int64("film_id", filmID), zap.Int64("user_id", userID))
		return validationf(msgNotLiked)
	}
	s.log.Info("like removed", zap.Int64("film_id", filmID), zap.Int64("user_id", userID))
	emit(ctx, s.events, s.log, queue.NewActivityEvent(queue.EventLike, queue.OperationRemove, userID, filmID))
	return nil
}

// IsLiked reports whether userID currently likes filmID.
func (s *FilmService) IsLiked(ctx context.Context, filmID, userID int64) (bool, error) {
	if err := s.requireFilmAndUser(ctx, filmID, userID); err != nil {
		return false, err
	}
	return s.likes.IsLiked(ctx, filmID, userID)
}

// LikeCount returns the number of distinct users that like filmID.
func (s *FilmService) LikeCount(ctx context.Context, filmID int64) (int, error) {
	if err := s.RequireFilm(ctx, filmID); err != nil {
		return 0, err
	}
	return s.likes.LikeCount(ctx, filmID)
}

// Popular returns at most count films ordered by descending like count.
// Films with equal counts keep their creation order. Counts are read from the
// like index on every call.
func (s *FilmService) Popular(ctx context.Context, count int) ([]model.Film, error) {
	if count <= 0 {
		return nil, validationf(msgCountPositive)
	}
	films, err := s.films.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(films))
	for i, f := range films {
		ids[i] = f.ID
	}
	counts, err := s.likes.LikeCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(films, func(a, b model.Film) int {
		return counts[b.ID] - counts[a.ID]
	})
	if len(films) > count {
		films = films[:count]
	}
	s.log.Debug("popular films computed", zap.Int("requested", count), zap.Int("returned", len(films)))
	return films, nil
}

// RequireFilm returns a ValidationError for ids below 1 and a NotFoundError
// when no film with the id exists.
func (s *FilmService) RequireFilm(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationf(msgInvalidFilmID)
	}
	ok, err := s.films.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundf(msgFilmNotFound, id)
	}
	return nil
}

func (s *FilmService) requireFilmAndUser(ctx context.Context, filmID, userID int64) error {
	if err := s.RequireFilm(ctx, filmID); err != nil {
		return err
	}
	return s.users.RequireUser(ctx, userID)
}

func (s *FilmService) translate(err error, id int64) error {
	if errors.Is(err, repository.ErrFilmNotFound) {
		return notFoundf(msgFilmNotFound, id)
	}
	return err
}

func validateFilm(f *model.Film) error {
	if err := f.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if f.ReleaseDate.Before(model.MinReleaseDate) {
		return validationf("Release date must not be before %s", model.MinReleaseDate.Format(model.DateLayout))
	}
	return nil
}

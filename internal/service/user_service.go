package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/metrics"
	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
	"github.com/iliyamo/filmorate/internal/repository"
)

// UserService applies the user rules: display-name defaulting and
// idempotent friendship management.
type UserService struct {
	users   UserStore
	friends FriendGraph
	events  EventPublisher
	log     *zap.Logger
}

// NewUserService wires a UserService. It panics when a store is nil.
func NewUserService(users UserStore, friends FriendGraph, events EventPublisher, log *zap.Logger) *UserService {
	if users == nil || friends == nil {
		panic("nil dependency passed to NewUserService")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, friends: friends, events: events, log: log}
}

// List returns every user in creation order.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Debug("retrieved users", zap.Int("count", len(users)))
	return users, nil
}

// Create validates u and stores it. A blank name is replaced by the login
// before storage. On success u.ID is set.
func (s *UserService) Create(ctx context.Context, u *model.User) error {
	if err := u.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if strings.TrimSpace(u.Name) == "" {
		s.log.Debug("user name is empty, using login", zap.String("login", u.Login))
		u.Name = u.Login
	}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}
	metrics.EntitiesCreated.WithLabelValues(metrics.KindUser).Inc()
	s.log.Info("user created", zap.Int64("user_id", u.ID), zap.String("login", u.Login))
	return nil
}

// Update replaces an existing user. The user must already exist.
func (s *UserService) Update(ctx context.Context, u *model.User) error {
	if err := s.RequireUser(ctx, u.ID); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return s.translate(err, u.ID)
	}
	s.log.Info("user updated", zap.Int64("user_id", u.ID), zap.String("login", u.Login))
	return nil
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	if err := s.RequireUser(ctx, id); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	return u, nil
}

// AddFriend makes userID and friendID friends. Adding an existing friendship
// is a silent no-op.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.requirePair(ctx, userID, friendID); err != nil {
		return err
	}
	added, err := s.friends.AddFriendship(ctx, userID, friendID)
	if err != nil {
		return err
	}
	countChange(metrics.RelationFriend, metrics.OpAdd, added)
	if !added {
		s.log.Info("friendship already exists", zap.Int64("user_id", userID), zap.Int64("friend_id", friendID))
		return nil
	}
	s.log.Info("friendship added", zap.Int64("user_id", userID), zap.Int64("friend_id", friendID))
	emit(ctx, s.events, s.log, queue.NewActivityEvent(queue.EventFriend, queue.OperationAdd, userID, friendID))
	return nil
}

// RemoveFriend ends the friendship between userID and friendID. Removing a
// friendship that does not exist is a silent no-op.
func (s *UserService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.requirePair(ctx, userID, friendID); err != nil {
		return err
	}
	removed, err := s.friends.RemoveFriendship(ctx, userID, friendID)
	if err != nil {
		return err
	}
	countChange(metrics.RelationFriend, metrics.OpRemove, removed)
	if !removed {
		s.log.Warn("friendship not found", zap.Int64("user_id", userID), zap.Int64("friend_id", friendID))
		return nil
	}
	s.log.Info("friendship removed", zap.Int64("user_id", userID), zap.Int64("friend_id", friendID))
	emit(ctx, s.events, s.log, queue.NewActivityEvent(queue.EventFriend, queue.OperationRemove, userID, friendID))
	return nil
}

// IsFriend reports whether the two users are friends.
func (s *UserService) IsFriend(ctx context.Context, userID, otherID int64) (bool, error) {
	if err := s.requirePair(ctx, userID, otherID); err != nil {
		return false, err
	}
	return s.friends.IsFriend(ctx, userID, otherID)
}

// Friends returns the friends of userID ordered by id.
func (s *UserService) Friends(ctx context.Context, userID int64) ([]model.User, error) {
	if err := s.RequireUser(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.friends.FriendsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, ids)
}

// CommonFriends returns the users that are friends of both userID and
// otherID, ordered by id.
func (s *UserService) CommonFriends(ctx context.Context, userID, otherID int64) ([]model.User, error) {
	if err := s.requirePair(ctx, userID, otherID); err != nil {
		return nil, err
	}
	ids, err := s.friends.CommonFriends(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	s.log.Debug("common friends found", zap.Int64("user_id", userID), zap.Int64("other_id", otherID), zap.Int("count", len(ids)))
	return s.resolve(ctx, ids)
}

// RequireUser returns a ValidationError for ids below 1 and a NotFoundError
// when no user with the id exists.
func (s *UserService) RequireUser(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationf(msgInvalidUserID)
	}
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundf(msgUserNotFound, id)
	}
	return nil
}

// requirePair rejects self-interaction before checking that both users exist.
func (s *UserService) requirePair(ctx context.Context, a, b int64) error {
	if a == b {
		s.log.Info("user attempted to interact with themselves", zap.Int64("user_id", a))
		return validationf(msgSelfInteraction)
	}
	if err := s.RequireUser(ctx, a); err != nil {
		return err
	}
	return s.RequireUser(ctx, b)
}

// resolve loads users by id, skipping ids that no longer resolve.
func (s *UserService) resolve(ctx context.Context, ids []int64) ([]model.User, error) {
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.users.GetByID(ctx, id)
		if errors.Is(err, repository.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *UserService) translate(err error, id int64) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return notFoundf(msgUserNotFound, id)
	}
	return err
}

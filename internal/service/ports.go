package service

import (
	"context"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/queue"
)

// FilmStore is the persistence contract the film service needs.
// repository.FilmRepo satisfies it.
type FilmStore interface {
	List(ctx context.Context) ([]model.Film, error)
	Create(ctx context.Context, f *model.Film) error
	Update(ctx context.Context, f *model.Film) error
	GetByID(ctx context.Context, id int64) (*model.Film, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// UserStore is the persistence contract the user service needs.
// repository.UserRepo satisfies it.
type UserStore interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// LikeIndex stores which users like which films. Add and Remove are
// idempotent and report whether they changed anything.
type LikeIndex interface {
	AddLike(ctx context.Context, filmID, userID int64) (bool, error)
	RemoveLike(ctx context.Context, filmID, userID int64) (bool, error)
	IsLiked(ctx context.Context, filmID, userID int64) (bool, error)
	LikeCount(ctx context.Context, filmID int64) (int, error)
	LikeCounts(ctx context.Context, filmIDs []int64) (map[int64]int, error)
}

// FriendGraph stores symmetric friendships between users.
type FriendGraph interface {
	AddFriendship(ctx context.Context, a, b int64) (bool, error)
	RemoveFriendship(ctx context.Context, a, b int64) (bool, error)
	FriendsOf(ctx context.Context, a int64) ([]int64, error)
	IsFriend(ctx context.Context, a, b int64) (bool, error)
	CommonFriends(ctx context.Context, a, b int64) ([]int64, error)
}

// UserRequirer checks that a user id is well formed and refers to an
// existing user. The film service uses it to validate likers without
// depending on the whole user service.
type UserRequirer interface {
	RequireUser(ctx context.Context, id int64) error
}

// EventPublisher emits activity events. queue.Publisher and
// queue.NopPublisher satisfy it.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

package repository

import (
	"context"
	"sync"
)

// LikeRepo records which users liked which film: film id -> set of user ids.
// A like is set membership, so liking the same film twice has no extra effect.
type LikeRepo struct {
	mu    sync.RWMutex
	likes map[int64]map[int64]struct{}
}

// NewLikeRepo returns an empty like index.
func NewLikeRepo() *LikeRepo {
	return &LikeRepo{likes: make(map[int64]map[int64]struct{})}
}

// AddLike inserts userID into the liker set of filmID. The returned flag is
// true only when the like was not already present; the check and the insert
// happen under the same lock.
func (r *LikeRepo) AddLike(ctx context.Context, filmID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.likes[filmID]
	if !ok {
		set = make(map[int64]struct{})
		r.likes[filmID] = set
	}
	if _, exists := set[userID]; exists {
		return false, nil
	}
	set[userID] = struct{}{}
	return true, nil
}

// RemoveLike deletes userID from the liker set of filmID and prunes the set
// once it is empty. The returned flag is true only when a like was removed.
func (r *LikeRepo) RemoveLike(ctx context.Context, filmID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.likes[filmID]
	if !ok {
		return false, nil
	}
	if _, exists := set[userID]; !exists {
		return false, nil
	}
	delete(set, userID)
	if len(set) == 0 {
		delete(r.likes, filmID)
	}
	return true, nil
}

// IsLiked reports whether userID likes filmID.
func (r *LikeRepo) IsLiked(ctx context.Context, filmID, userID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.likes[filmID][userID]
	return ok, nil
}

// LikeCount returns the number of distinct users that like filmID.
func (r *LikeRepo) LikeCount(ctx context.Context, filmID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.likes[filmID]), nil
}

// LikeCounts returns the like count for each of the given films, read under a
// single lock so the counts form one consistent snapshot.
func (r *LikeRepo) LikeCounts(ctx context.Context, filmIDs []int64) (map[int64]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]int, len(filmIDs))
	for _, id := range filmIDs {
		out[id] = len(r.likes[id])
	}
	return out, nil
}

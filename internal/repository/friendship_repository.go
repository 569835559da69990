package repository

import (
	"context"
	"slices"
	"sync"
)

// FriendshipRepo is an undirected graph of user identifiers. Every edge is
// stored in both adjacency sets and both sides are always written under the
// same lock, so no reader can observe a half-applied friendship.
type FriendshipRepo struct {
	mu  sync.RWMutex
	adj map[int64]map[int64]struct{}
}

// NewFriendshipRepo returns an empty friendship graph.
func NewFriendshipRepo() *FriendshipRepo {
	return &FriendshipRepo{adj: make(map[int64]map[int64]struct{})}
}

// AddFriendship links a and b. It is idempotent: linking two users that are
// already friends changes nothing and reports added=false.
func (r *FriendshipRepo) AddFriendship(ctx context.Context, a, b int64) (bool, error) {
	if a == b {
		return false, ErrSelfReference
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adj[a][b]; ok {
		return false, nil
	}
	r.link(a, b)
	r.link(b, a)
	return true, nil
}

// RemoveFriendship unlinks a and b. Removing a friendship that does not exist
// is a no-op and reports removed=false. Empty adjacency sets are dropped.
func (r *FriendshipRepo) RemoveFriendship(ctx context.Context, a, b int64) (bool, error) {
	if a == b {
		return false, ErrSelfReference
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adj[a][b]; !ok {
		return false, nil
	}
	r.unlink(a, b)
	r.unlink(b, a)
	return true, nil
}

// FriendsOf returns the friend identifiers of a in ascending order.
func (r *FriendshipRepo) FriendsOf(ctx context.Context, a int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.adj[a]), nil
}

// IsFriend reports whether b is in a's friend set.
func (r *FriendshipRepo) IsFriend(ctx context.Context, a, b int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.adj[a][b]
	return ok, nil
}

// CommonFriends returns, in ascending order, the identifiers that are friends
// of both a and b. Both sets are read under one lock.
func (r *FriendshipRepo) CommonFriends(ctx context.Context, a, b int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	small, large := r.adj[a], r.adj[b]
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make([]int64, 0)
	for id := range small {
		if _, ok := large[id]; ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out, nil
}

func (r *FriendshipRepo) link(from, to int64) {
	set, ok := r.adj[from]
	if !ok {
		set = make(map[int64]struct{})
		r.adj[from] = set
	}
	set[to] = struct{}{}
}

func (r *FriendshipRepo) unlink(from, to int64) {
	set, ok := r.adj[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(r.adj, from)
	}
}

func sortedKeys(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

package repository

import "sync"

// table is the in-memory record store shared by FilmRepo and UserRepo. It
// keeps records by value, so callers always receive copies and can never
// mutate stored state through a returned pointer. Insertion order is kept
// separately because map iteration order is random.
type table[T any] struct {
	mu    sync.RWMutex
	seq   *Sequence
	rows  map[int64]T
	order []int64
}

func newTable[T any](seq *Sequence) *table[T] {
	if seq == nil {
		seq = NewSequence()
	}
	return &table[T]{seq: seq, rows: make(map[int64]T)}
}

// insert assigns the next identifier, lets build stamp it onto the record
// and stores the result.
func (t *table[T]) insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.seq.Next()
	rec := build(id)
	t.rows[id] = rec
	t.order = append(t.order, id)
	return rec
}

// replace overwrites an existing record. It reports false when id is unknown.
func (t *table[T]) replace(id int64, rec T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = rec
	return true
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.rows[id]
	return rec, ok
}

func (t *table[T]) has(id int64) bool {
	if id <= 0 {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.rows[id]
	return ok
}

// all returns every record in insertion order.
func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

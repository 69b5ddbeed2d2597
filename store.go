package cminor

import "sync"

// QueryKey is the constraint for memoization keys: they must be
// comparable for use as map keys.
type QueryKey interface {
	comparable
}

// Query is a named, memoizable computation. K is the key type
// (input), V is the value type (output). Grounded on the teacher's
// query.go Database/Query[K,V]/Get, simplified from an incremental
// dependency-tracking cache (Database.deps/rdeps/revision,
// Invalidate/InvalidateFile/InvalidateAll) down to a flat memo table:
// Cminor compiles a fixed set of translation units once per process
// invocation (spec §5, no edit/rebuild loop), so there is nothing
// that ever needs to be invalidated — the dependency graph the
// teacher's incremental engine maintains solely to answer "what must
// be recomputed when this input changes" has no question to answer
// here.
type Query[K QueryKey, V any] struct {
	Name    string
	Compute func(store *Store, key K) (V, error)
}

type memoID struct {
	queryName string
	key       any
}

type memoEntry struct {
	value any
	err   error
}

// Store is the process-lifetime memo table backing the driver's
// per-path header-parsing query (driver.go's headerParseQuery). It
// intentionally has no revision counter or invalidation path — see
// Query's doc comment.
type Store struct {
	mu    sync.Mutex
	cache map[memoID]memoEntry

	Config  *Config
	Headers *HeaderStore
}

func NewStore(cfg *Config, headers *HeaderStore) *Store {
	return &Store{cache: make(map[memoID]memoEntry), Config: cfg, Headers: headers}
}

// Get runs q.Compute(store, key) the first time it's asked for a
// given key, caching the result (including an error result) for
// every subsequent call with the same key.
func Get[K QueryKey, V any](store *Store, q *Query[K, V], key K) (V, error) {
	id := memoID{queryName: q.Name, key: key}

	store.mu.Lock()
	if cached, ok := store.cache[id]; ok {
		store.mu.Unlock()
		if cached.err != nil {
			var zero V
			return zero, cached.err
		}
		return cached.value.(V), nil
	}
	store.mu.Unlock()

	value, err := q.Compute(store, key)

	store.mu.Lock()
	store.cache[id] = memoEntry{value: value, err: err}
	store.mu.Unlock()

	return value, err
}

package engine

import (
	"path/filepath"
	"sync"
)

type pathLock struct {
	mu   sync.Mutex
	refs int
}

// PathLocks serializes writers of the same destination across all batches.
type PathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

func NewPathLocks() *PathLocks {
	return &PathLocks{
		locks: make(map[string]*pathLock),
	}
}

// Lock blocks until path is free and returns its release func.
func (pl *PathLocks) Lock(path string) (unlock func()) {
	key := filepath.Clean(path)

	pl.mu.Lock()
	l, ok := pl.locks[key]
	if !ok {
		l = &pathLock{}
		pl.locks[key] = l
	}
	l.refs++
	pl.mu.Unlock()

	// Lock the entry outside the map lock so other paths are not blocked
	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		pl.mu.Lock()
		defer pl.mu.Unlock()

		l.refs--
		if l.refs == 0 {
			delete(pl.locks, key)
		}
	}
}

// Len is the number of paths currently held or waited on.
func (pl *PathLocks) Len() int {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	return len(pl.locks)
}

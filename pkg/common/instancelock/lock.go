// Package instancelock makes sure only one process serves a given database,
// since the people cache assumes it is the only writer.
package instancelock

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process already holds the lock.
var ErrLocked = errors.New("instancelock: held by another process")

// Lock is an acquired process lock.
type Lock struct {
	fl *flock.Flock
}

// Path returns the lock file used for dbPath.
func Path(dbPath string) string { return dbPath + ".lock" }

// Acquire takes the lock for dbPath without blocking.
func Acquire(dbPath string) (*Lock, error) {
	fl := flock.New(Path(dbPath))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, fl.Path())
	}
	return &Lock{fl: fl}, nil
}

// Release unlocks; it is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

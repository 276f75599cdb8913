// Package filelock provides an advisory exclusive process lock: acquired
// once at Open and released at Close, rejecting a second process's
// attempt to open the same file. It follows the acquire-on-open /
// idempotent-close shape of calvinalkan-agent-task's internal/fs Locker,
// but delegates the actual flock(2) call to github.com/gofrs/flock
// instead of a hand-rolled syscall.
package filelock

import (
	"fmt"
	"sync"

	"github.com/gofrs/flock"
)

// Lock - A held advisory exclusive lock on one path. Close releases it.
type Lock struct {
	mu sync.Mutex
	fl *flock.Flock
}

// Acquire - Takes an exclusive, non-blocking lock on path. If the lock is
// already held by another process (or another Lock in this process), it
// returns an error immediately rather than waiting.
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("error while acquiring exclusive lock on %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("file %s is already locked by another process", path)
	}

	return &Lock{fl: fl}, nil
}

// Close - Releases the lock. Idempotent: calling it more than once is safe.
func (l *Lock) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fl == nil {
		return nil
	}

	err := l.fl.Unlock()
	l.fl = nil
	if err != nil {
		return fmt.Errorf("error while releasing lock: %w", err)
	}

	return nil
}

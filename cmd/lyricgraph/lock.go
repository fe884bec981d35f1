package main

import (
	"fmt"

	"github.com/gofrs/flock"

	"lyricgraph/internal/config"
)

// acquireRunLock takes the data directory lock so two runs never write the
// same store and tables at once.
func acquireRunLock(cfg *config.Config) (func(), error) {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another lyricgraph run holds %s", cfg.LockPath())
	}
	return func() { _ = lock.Unlock() }, nil
}

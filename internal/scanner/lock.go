package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireLock takes an exclusive file lock so only one scan run mutates the
// catalog at a time. The returned release function is safe to call once.
func AcquireLock(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire scan lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another scan is already running (lock %s held)", path)
	}
	return func() { _ = lock.Unlock() }, nil
}

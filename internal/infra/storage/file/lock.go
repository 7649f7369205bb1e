package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LockFileName is the name of the lock file created in the output directory.
const LockFileName = ".mempart.lock"

// ErrLocked is returned by AcquireLock when another process holds the lock.
var ErrLocked = errors.New("output directory is locked by another process")

// Lock is an exclusive lock on an output directory.
type Lock struct {
	f *os.File
}

// AcquireLock takes an exclusive, non-blocking lock on the lock file in
// dir, creating dir and the file if needed. It returns ErrLocked if the
// lock is already held.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, LockFileName)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, filePerm)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := tryLockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Lock{f: f}, nil
}

// Release unlocks and closes the lock file. The file itself is left in
// place.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}

	err := errors.Join(unlockFile(l.f), l.f.Close())
	l.f = nil
	return err
}

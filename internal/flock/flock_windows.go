//go:build windows

package flock

import (
	"errors"
	"math"
	"os"

	"golang.org/x/sys/windows"
)

// The whole file is locked: offset 0, length MaxUint32:MaxUint32.
const wholeFile = math.MaxUint32

// tryLock takes a non-blocking exclusive lock on f. It reports false with a
// nil error when another handle holds the lock.
func tryLock(f *os.File) (bool, error) {
	err := windows.LockFileEx(
		windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		wholeFile,
		wholeFile,
		&windows.Overlapped{},
	)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, windows.ERROR_LOCK_VIOLATION):
		return false, nil
	default:
		return false, err
	}
}

func unlock(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, wholeFile, wholeFile, &windows.Overlapped{})
}

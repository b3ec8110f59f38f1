// Package testutil provides shared test doubles for taskflow packages.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for simulating infrastructure failures in tests.
var (
	// ErrMockCacheDown simulates an unreachable workflow cache.
	ErrMockCacheDown = errors.New("connection refused")

	// ErrMockDiskFull simulates a failed write.
	ErrMockDiskFull = errors.New("disk full")

	// ErrMockTxAborted simulates a callback that aborts a store transaction.
	ErrMockTxAborted = errors.New("transaction aborted by test")
)

// FailingWriter is an io.Writer whose every write fails with Err.
type FailingWriter struct {
	Err error
}

// Write always returns the configured error, or ErrMockDiskFull when unset.
func (w FailingWriter) Write([]byte) (int, error) {
	if w.Err != nil {
		return 0, w.Err
	}
	return 0, ErrMockDiskFull
}

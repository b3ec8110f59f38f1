package testutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	all := []error{ErrMockCacheDown, ErrMockDiskFull, ErrMockTxAborted}
	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
	assert.ErrorIs(t, fmt.Errorf("save: %w", ErrMockTxAborted), ErrMockTxAborted)
}

func TestFailingWriter(t *testing.T) {
	t.Parallel()

	n, err := FailingWriter{}.Write([]byte("x"))
	assert.Zero(t, n)
	require.ErrorIs(t, err, ErrMockDiskFull)

	_, err = FailingWriter{Err: ErrMockCacheDown}.Write(nil)
	require.ErrorIs(t, err, ErrMockCacheDown)
}

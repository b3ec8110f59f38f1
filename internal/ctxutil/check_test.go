package ctxutil_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mrz1836/taskflow/internal/ctxutil"
)

func TestCanceled(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for active context", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		err := ctxutil.Canceled(ctx)
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("returns error for canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ctxutil.Canceled(ctx)
		if err == nil {
			t.Error("expected error, got nil")
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("returns error for deadline exceeded", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), 0)
		defer cancel()
		// Wait for timeout
		<-ctx.Done()
		err := ctxutil.Canceled(ctx)
		if err == nil {
			t.Error("expected error, got nil")
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context.DeadlineExceeded, got %v", err)
		}
	})
}

func TestBounded(t *testing.T) {
	t.Parallel()

	t.Run("adds deadline when missing", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := ctxutil.Bounded(context.Background(), time.Minute)
		defer cancel()
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected deadline to be set")
		}
	})

	t.Run("keeps caller deadline", func(t *testing.T) {
		t.Parallel()
		want := time.Now().Add(time.Hour)
		parent, cancelParent := context.WithDeadline(context.Background(), want)
		defer cancelParent()

		ctx, cancel := ctxutil.Bounded(parent, time.Second)
		defer cancel()
		got, ok := ctx.Deadline()
		if !ok || !got.Equal(want) {
			t.Errorf("expected deadline %v, got %v", want, got)
		}
	})

	t.Run("zero duration leaves context unbounded", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := ctxutil.Bounded(context.Background(), 0)
		defer cancel()
		if _, ok := ctx.Deadline(); ok {
			t.Error("expected no deadline")
		}
	})
}

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "part.stl")
	other := filepath.Join(dir, "other.stl")
	require.NoError(t, os.WriteFile(model, []byte("solid a\nendsolid a\n"), 0644))

	w, err := New(200*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	calls := make(chan string, 10)
	require.NoError(t, w.Watch([]string{model}, func(p string) { calls <- p }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(model, []byte("solid b\nendsolid b\n"), 0644))
	}
	require.NoError(t, os.WriteFile(other, []byte("unwatched"), 0644))

	abs, err := filepath.Abs(model)
	require.NoError(t, err)

	select {
	case got := <-calls:
		require.Equal(t, abs, got)
	case <-time.After(5 * time.Second):
		t.Fatal("callback not invoked")
	}

	select {
	case got := <-calls:
		t.Fatalf("unexpected second callback for %s", got)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	w, err := New(time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}

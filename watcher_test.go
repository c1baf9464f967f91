package kilobite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsContent(t *testing.T) {
	s := newTestSite(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.app.Watch(ctx) }()

	file := filepath.Join(s.app.Config.ContentDir, "blog", "watched.md")
	require.Eventually(t, func() bool {
		// Rewrite on every tick: the first write may land before the watch is set up.
		_ = os.WriteFile(file, []byte(postFile("Watched", "2024-06-01", "go")), 0o644)
		_, err := s.app.Cache.GetPost("watched")
		return err == nil
	}, 5*time.Second, 2*reloadDelay)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIgnoredEvent(t *testing.T) {
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "content/blog/a.md", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "content/blog/a.md", Op: fsnotify.Chmod}, true},
		{fsnotify.Event{Name: "content/blog/.a.md.swx", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "content/blog/a.md~", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "content/blog/a.md.swp", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "content/blog/new", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, ignoredEvent(tt.ev), tt.ev.String())
	}
}

package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherAppliesChanges(t *testing.T) {
	p, root := scanned(t)
	p.cfg.Watch.Debounce = 20 * time.Millisecond

	changed := make(chan []string, 64)
	w, err := NewWatcher(p, func(paths []string) { changed <- paths })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { w.Close() })

	path := filepath.Join(root, "app", "Square.java")
	require.NoError(t, os.WriteFile(path, []byte("package app;\nclass Square implements Shape {}\n"), 0o644))
	assert.Eventually(t, func() bool { return p.Lookup("app.Square") != nil }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return p.Lookup("app.Square") == nil }, 5*time.Second, 10*time.Millisecond)

	sub := filepath.Join(root, "app", "geometry")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "Point.java"), []byte("package app.geometry;\nclass Point {}\n"), 0o644))
	assert.Eventually(t, func() bool { return p.Lookup("app.geometry.Point") != nil }, 5*time.Second, 10*time.Millisecond)

	select {
	case paths := <-changed:
		assert.NotEmpty(t, paths)
	default:
		t.Fatal("change callback was not called")
	}
}

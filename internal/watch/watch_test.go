package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_match(t *testing.T) {
	tests := []struct {
		name    string
		exclude []string
		path    string
		want    bool
	}{
		{name: "go file", path: "/project/car.go", want: true},
		{name: "test file", path: "/project/car_test.go", want: false},
		{name: "not go", path: "/project/README.md", want: false},
		{name: "hidden", path: "/project/.car.go", want: false},
		{name: "generated", exclude: []string{"*_builder.go"}, path: "/project/car_builder.go", want: false},
		{name: "debug output", exclude: []string{"*_builder.go"}, path: "/project/car_builder.go.error", want: false},
		{name: "other excluded", exclude: []string{"*_builder.go", "zz_*.go"}, path: "/project/zz_gen.go", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Watcher{exclude: tt.exclude}
			assert.Equal(t, tt.want, w.match(tt.path))
		})
	}
}

func TestWatcher_relevant(t *testing.T) {
	w := &Watcher{}
	assert.True(t, w.relevant(fsnotify.Event{Name: "car.go", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "car.go", Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "car.go", Op: fsnotify.Chmod}))
}

func TestWatcher_Run(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dir := t.TempDir()

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
	)
	onChange := func(_ context.Context, changed []string) error {
		mu.Lock()
		defer mu.Unlock()
		for _, name := range changed {
			seen[filepath.Base(name)]++
		}
		return errors.New("callback errors do not stop the watcher")
	}
	saw := func(name string) func() bool {
		return func() bool {
			mu.Lock()
			defer mu.Unlock()
			return seen[name] > 0
		}
	}
	w, err := New(dir, onChange, WithDebounce(50*time.Millisecond), WithExclude("*_builder.go"))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	write := func(name string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("package cars\n"), 0o644))
	}
	write("car.go")
	write("engine.go")
	write("car_builder.go")
	write("car_test.go")
	require.Eventually(t, saw("car.go"), 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, saw("engine.go"), 5*time.Second, 10*time.Millisecond)

	write("wheel.go")
	require.Eventually(t, saw("wheel.go"), 5*time.Second, 10*time.Millisecond, "watcher stopped after a callback error")

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, seen["car_builder.go"])
	assert.Zero(t, seen["car_test.go"])
}

func TestWatcher_Close(t *testing.T) {
	w, err := New(t.TempDir(), func(context.Context, []string) error { return nil })
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- w.Run(context.Background()) }()

	require.NoError(t, w.Close())
	select {
	case err := <-errc:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestNew_MissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), func(context.Context, []string) error { return nil })
	require.Error(t, err)
}

// Package watch reruns generation when the Go sources of a package change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by Run when the watcher was closed.
var ErrClosed = errors.New("watch: watcher closed")

// Watcher watches the Go files of a single directory.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	exclude  []string
	debounce time.Duration
	log      zerolog.Logger
	onChange func(ctx context.Context, changed []string) error
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithExclude ignores files whose base name matches one of the patterns
// (filepath.Match syntax), for example "*_builder.go".
func WithExclude(patterns ...string) Option {
	return func(w *Watcher) {
		w.exclude = append(w.exclude, patterns...)
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a watcher of dir calling onChange with the changed files once
// changes settle. Test files and files matching the exclude patterns never
// trigger it.
func New(dir string, onChange func(ctx context.Context, changed []string) error, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	w := &Watcher{
		watcher:  fw,
		dir:      dir,
		debounce: DefaultDebounce,
		log:      zerolog.Nop(),
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", dir, err)
	}
	return w, nil
}

// Run dispatches change batches until ctx is done or the watcher is closed.
// Callback errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]struct{})
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			slices.Sort(changed)
			if err := w.onChange(ctx, changed); err != nil {
				w.log.Error().Err(err).Msg("regeneration failed")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// relevant reports whether an event on a file should trigger the callback.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.match(event.Name)
}

func (w *Watcher) match(path string) bool {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".go") || strings.HasSuffix(base, "_test.go") || strings.HasPrefix(base, ".") {
		return false
	}
	for _, pattern := range w.exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
	}
	return true
}

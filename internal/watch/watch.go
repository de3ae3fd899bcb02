// Package watch converts input files again whenever they change on disk.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/errors"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
	"github.com/FocuswithJustin/idml2docbook/internal/validation"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a changed file is handled.
const DefaultDebounce = 2 * time.Second

// Handler processes one changed input.
type Handler func(ctx context.Context, path string) error

// Watcher monitors one folder, not recursively, and calls a Handler for
// every IDML or HubXML file written to it. Handlers run one at a time.
type Watcher struct {
	Debounce time.Duration
	Match    func(name string) bool // defaults to IsInput

	dir     string
	handle  Handler
	watcher *fsnotify.Watcher
}

// New watches dir. The folder must exist.
func New(dir string, handle Handler) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewIO("resolve", dir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}
	if err := watcher.Add(abs); err != nil {
		watcher.Close()
		return nil, errors.NewIO("watch", abs, err)
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		Match:    IsInput,
		dir:      abs,
		handle:   handle,
		watcher:  watcher,
	}, nil
}

// IsInput reports whether name is a convertible input: an .idml, .xml
// or .hub file that is neither hidden nor an editor backup.
func IsInput(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return validation.KindOf(base) != validation.KindUnknown
}

// Run handles events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	done := make(chan struct{})
	defer close(done)

	fire := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	logging.Info("watching for changes", "dir", w.dir, "debounce", w.Debounce)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logging.Debug("input change detected", "file", event.Name, "op", event.Op.String())
			if t, ok := timers[event.Name]; ok {
				t.Stop()
			}
			path := event.Name
			timers[path] = time.AfterFunc(w.Debounce, func() {
				select {
				case fire <- path:
				case <-done:
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("watcher error", "error", err)

		case path := <-fire:
			delete(timers, path)
			start := time.Now()
			if err := w.handle(ctx, path); err != nil {
				logging.Error("conversion failed", "file", path, "error", err)
				continue
			}
			logging.Info("converted changed input", "file", path, "duration_ms", time.Since(start).Milliseconds())
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
		return false
	}
	match := w.Match
	if match == nil {
		match = IsInput
	}
	return match(event.Name)
}

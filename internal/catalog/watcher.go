package catalog

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reloading.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Holder when its dataset file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	holder   *Holder
	logger   zerolog.Logger
	file     string
	debounce time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	inflight sync.WaitGroup

	stopCh chan struct{}
	done   chan struct{}
}

// Watch starts watching the directory of h's dataset file. Directories are
// watched rather than the file so that editors replacing it by rename are
// still seen.
func Watch(h *Holder, logger zerolog.Logger, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(h.Path())
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fsw,
		holder:   h,
		logger:   logger,
		file:     abs,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Stop stops watching. Pending reloads are cancelled and a reload already
// running is waited for, so the holder is not touched after Stop returns.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.stopCh)
	err := w.watcher.Close()
	<-w.done
	w.inflight.Wait()
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug().
					Str("file", filepath.Base(event.Name)).
					Str("op", event.Op.String()).
					Msg("Dataset change detected")
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Dataset watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	if err := w.holder.Reload(); err != nil {
		w.logger.Error().Err(err).Str("path", w.file).Msg("Dataset reload failed, keeping previous catalog")
	}
}

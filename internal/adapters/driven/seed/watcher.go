package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

var log = logger.For("seed")

// Watcher reloads a seed file whenever it changes on disk.
type Watcher struct {
	source   *FileSource
	debounce time.Duration
	onChange func(*domain.SeedResume)
}

// NewWatcher creates a watcher for source. onChange receives every seed
// that loads successfully; load failures are logged and skipped.
func NewWatcher(source *FileSource, debounce time.Duration, onChange func(*domain.SeedResume)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{source: source, debounce: debounce, onChange: onChange}
}

// Run watches until ctx is cancelled. The parent directory is watched so
// that rename-on-save editors are seen.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(w.source.Location())
	if err != nil {
		return fmt.Errorf("resolve seed path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	log.Debug("watching %s", target)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher: %v", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	seed, err := w.source.Load(ctx)
	if err != nil {
		log.Error("load %s: %v", w.source.Location(), err)
		return
	}
	log.Info("reloaded %s", w.source.Location())
	w.onChange(seed)
}

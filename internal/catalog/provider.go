package catalog

import (
	"fmt"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Provider hands out the current catalog snapshot. Reloads replace the whole
// Store atomically, so in-flight recommendation calls keep the snapshot they
// started with.
type Provider struct {
	current atomic.Pointer[Store]
	logger  *zap.Logger
}

// NewProvider creates a Provider serving the given initial store.
func NewProvider(store *Store, logger *zap.Logger) *Provider {
	p := &Provider{logger: logger}
	p.current.Store(store)
	return p
}

// Current returns the active catalog snapshot.
func (p *Provider) Current() *Store {
	return p.current.Load()
}

// Replace swaps in a new snapshot.
func (p *Provider) Replace(store *Store) {
	p.current.Store(store)
}

// Watch reloads the catalog whenever the artifact changes on disk. A reload
// that fails keeps the previous snapshot. Watch blocks until done is closed
// or the watcher breaks.
func (p *Provider) Watch(done <-chan struct{}, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch catalog artifact %q: %w", path, err)
	}

	p.logger.Info("watching catalog artifact", zap.String("path", path))

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			store, err := Load(path)
			if err != nil {
				p.logger.Warn("catalog reload failed, keeping previous snapshot",
					zap.String("path", path),
					zap.Error(err),
				)
				continue
			}

			p.Replace(store)
			p.logger.Info("catalog reloaded",
				zap.String("path", path),
				zap.Int("records", store.Len()),
			)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

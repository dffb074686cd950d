package shell

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const rebuildDelay = 200 * time.Millisecond

// Watcher rebuilds the cache from an assets directory when its files change.
type Watcher struct {
	dir    string
	opts   BuildOptions
	holder *Holder
	fsw    *fsnotify.Watcher
}

// NewWatcher watches dir and swaps rebuilt caches into holder.
func NewWatcher(dir string, opts BuildOptions, holder *Holder) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{dir: dir, opts: opts, holder: holder, fsw: fsw}, nil
}

// Run processes events until ctx is done. Bursts of events are coalesced
// into one rebuild.
func (w *Watcher) Run(ctx context.Context) {
	defer func() { _ = w.fsw.Close() }()

	timer := time.NewTimer(rebuildDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			log.Trace().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Asset changed")
			timer.Reset(rebuildDelay)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Asset watcher error")

		case <-timer.C:
			w.Rebuild()
		}
	}
}

// Rebuild builds a fresh cache and swaps it in when the version changed.
func (w *Watcher) Rebuild() bool {
	c, err := Build(os.DirFS(w.dir), w.opts)
	if err != nil {
		log.Error().Err(err).Str("dir", w.dir).Msg("Failed to rebuild shell, keeping current cache")
		return false
	}

	if !w.holder.Swap(c) {
		log.Debug().Str("cache", c.Version()).Msg("Shell unchanged")
		return false
	}

	log.Info().Str("cache", c.Version()).Msg("Shell cache replaced")
	return true
}

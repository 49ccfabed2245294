package reload

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/knadh/koanf/providers/file"
)

const debounceDuration = 100 * time.Millisecond

// Watch starts watching the file at path and invokes cb after
// changes, debounced so editors that write in multiple steps
// trigger only one reload. It returns an error if the watch cannot
// be established. Change events are ignored once ctx is done.
func Watch(ctx context.Context, path string, cb func() error) error {
	if ctx.Err() != nil {
		return nil
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("path", path)

	var mu sync.Mutex
	var debounceTimer *time.Timer

	return file.Provider(path).Watch(func(_ any, err error) {
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Info("failed watching config", "error", err)
			return
		}

		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(debounceDuration, func() {
			mu.Lock()
			defer mu.Unlock()

			start := time.Now()
			if err := cb(); err != nil {
				log.Info("failed to process config change", "error", err)
				return
			}
			log.V(1).Info("processed config change", "duration", time.Since(start).Round(time.Millisecond).String())
		})
		mu.Unlock()
	})
}

package lodestone

import (
	"context"
	"errors"

	"github.com/go-logr/logr"

	"go.lodestone.dev/lodestone/pkg/internal/hashutil"
	"go.lodestone.dev/lodestone/pkg/internal/reload"
	"go.lodestone.dev/lodestone/pkg/modconfig"
	"go.lodestone.dev/lodestone/pkg/runtime/process"
	"go.lodestone.dev/lodestone/pkg/util/errs"
)

// sectionSnapshot is the hashable projection of a configuration
// section used to detect drift.
type sectionSnapshot struct {
	Name string
	Keys []modconfig.KeyValue
}

func snapshotSections(s *modconfig.Sections) []sectionSnapshot {
	if s == nil {
		return nil
	}
	all := s.All()
	snap := make([]sectionSnapshot, 0, len(all))
	for _, sec := range all {
		snap = append(snap, sectionSnapshot{Name: sec.Name(), Keys: sec.Keys()})
	}
	return snap
}

// rememberSections records the configuration state Bootstrap loaded
// so the drift watcher can tell real changes apart from touch events.
func (l *Lodestone) rememberSections(s *modconfig.Sections) {
	hash, err := hashutil.JsonHash(snapshotSections(s))
	if err != nil {
		return
	}
	l.mu.Lock()
	l.sectionsHash = hash
	l.mu.Unlock()
}

// watchConfig watches the mod configuration file for drift. The
// registry is frozen after Bootstrap, so a change cannot be applied
// live, it is surfaced as an event and a log line for the next
// launch.
func (l *Lodestone) watchConfig() process.Runnable {
	return process.RunnableFunc(func(ctx context.Context) error {
		log := logr.FromContextOrDiscard(ctx).WithName("watch")
		ctx = logr.NewContext(ctx, log)
		path := l.ModsConfigPath()

		cb := func() error {
			sections, err := l.reader.Read(ctx)
			if err != nil {
				if errors.Is(err, errs.ErrMissingConfig) {
					log.Info("mod configuration removed", "path", path)
					return nil
				}
				return err
			}
			hash, err := hashutil.JsonHash(snapshotSections(sections))
			if err != nil {
				return err
			}

			l.mu.Lock()
			changed := hashutil.Changed(l.sectionsHash, hash)
			l.sectionsHash = hash
			l.mu.Unlock()
			if !changed {
				return nil
			}

			log.Info("mod configuration changed, applies on next launch", "path", path)
			reload.FireConfigUpdate[modconfig.Sections](l.event, sections, nil)
			return nil
		}

		if err := reload.Watch(ctx, path, cb); err != nil {
			// A missing or unwatchable file must not take the host
			// down, drift detection is advisory.
			log.V(1).Info("cannot watch mod configuration", "path", path, "error", err)
			return nil
		}
		log.V(1).Info("watching mod configuration", "path", path)

		<-ctx.Done()
		return nil
	})
}

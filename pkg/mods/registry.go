package mods

import (
	"errors"
	"iter"
	"sync"

	"github.com/zyedidia/generic/multimap"
	"go.uber.org/atomic"

	"go.lodestone.dev/lodestone/pkg/util/sets"
)

// ErrFrozen is returned by Registry.Add after the registry was frozen.
var ErrFrozen = errors.New("mod registry is frozen")

// Registry is the append-only, ordered collection of mods discovered
// for the current process run. During startup mods are added in
// discovery order; once the host attaches, the registry is frozen and
// all later reads are safe for concurrent use.
//
// Duplicate mod names are kept. The registry records what was found
// on disk, precedence between duplicates is decided by consumers
// iterating in registration order.
type Registry struct {
	mu     sync.RWMutex
	frozen atomic.Bool
	list   []*Descriptor
	byName multimap.MultiMap[string, *Descriptor]
}

// NewRegistry returns an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: multimap.NewMapSlice[string, *Descriptor](),
	}
}

// Add appends d to the registry.
// Returns ErrFrozen after Freeze was called.
func (r *Registry) Add(d *Descriptor) error {
	if d == nil {
		return errors.New("descriptor must not be nil")
	}
	if r.frozen.Load() {
		return ErrFrozen
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return ErrFrozen
	}
	r.list = append(r.list, d)
	r.byName.Put(sets.Fold(d.Name), d)
	return nil
}

// Freeze ends the registration phase. Idempotent.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen.Store(true)
}

// Frozen reports whether the registration phase has ended.
func (r *Registry) Frozen() bool { return r.frozen.Load() }

// Len returns the number of registered mods.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// Descriptors returns the registered mods in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, len(r.list))
	copy(out, r.list)
	return out
}

// Named returns the mods registered under name, matched caselessly,
// in registration order.
func (r *Registry) Named(name string) []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName.Get(sets.Fold(name))
}

// Names returns the mod names as registered, in registration order.
// Duplicates appear once per registration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.list))
	for i, d := range r.list {
		out[i] = d.Name
	}
	return out
}

// Duplicates returns the names registered more than once, matched
// caselessly, mapped to their descriptors in registration order.
// Each entry is keyed by the name's first registered spelling.
func (r *Registry) Duplicates() map[string][]*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var dup map[string][]*Descriptor
	seen := sets.NewString()
	for _, d := range r.list {
		folded := sets.Fold(d.Name)
		if seen.Has(folded) || r.byName.Count(folded) < 2 {
			continue
		}
		seen.Insert(folded)
		if dup == nil {
			dup = make(map[string][]*Descriptor)
		}
		dup[d.Name] = r.byName.Get(folded)
	}
	return dup
}

// PatcherPaths returns a lazy view of the patcher payload directories
// of all registered mods that ship one, in registration order.
// The view reflects the registry contents at iteration time.
func (r *Registry) PatcherPaths() iter.Seq[string] {
	return r.paths(func(d *Descriptor) string { return d.PatchersDir })
}

// PluginPaths returns a lazy view of the plugin payload directories
// of all registered mods that ship one, in registration order.
// The view reflects the registry contents at iteration time.
func (r *Registry) PluginPaths() iter.Seq[string] {
	return r.paths(func(d *Descriptor) string { return d.PluginsDir })
}

func (r *Registry) paths(path func(*Descriptor) string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, d := range r.Descriptors() {
			if p := path(d); p != "" {
				if !yield(p) {
					return
				}
			}
		}
	}
}

package loader

import (
	"sync"
	"time"

	"go.lodestone.dev/lodestone/pkg/mods"
)

// ModsAttachedEvent is fired once when the frozen mod registry is
// published to the host's loading runtime.
type ModsAttachedEvent struct {
	// Registry is the frozen registry. Subscribers must not
	// retain write access assumptions; it accepts no more
	// registrations.
	Registry *mods.Registry
}

// ScanCompletedEvent is fired after a directory spec finished
// scanning, whether or not it registered any mods.
type ScanCompletedEvent struct {
	// Section is the configuration section that produced the spec.
	Section string
	// BaseDir is the scanned directory.
	BaseDir string
	// Registered is how many mods this spec added.
	Registered int
	// Duration is how long the scan took.
	Duration time.Duration
}

// ResolveRequestEvent is fired when the host runtime cannot satisfy
// a binary reference on its own. Subscribed resolvers may fulfil the
// request; the first fulfilment wins, later ones are ignored.
// Leaving the event unfulfilled is normal, the host falls back to
// its own failure handling.
type ResolveRequestEvent struct {
	// Name is the requested assembly-style display name.
	Name string

	mu       sync.Mutex
	path     string
	resolved bool
}

// Resolve fulfils the request with the binary at path.
// It reports whether this call won; only the first fulfilment
// takes effect.
func (e *ResolveRequestEvent) Resolve(path string) bool {
	if path == "" {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.resolved {
		return false
	}
	e.path = path
	e.resolved = true
	return true
}

// Resolved reports whether the request was fulfilled.
func (e *ResolveRequestEvent) Resolved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolved
}

// Result returns the resolved binary path, if any.
func (e *ResolveRequestEvent) Result() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path, e.resolved
}

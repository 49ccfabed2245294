// Package oncetrue provides a latch that runs a callback exactly once,
// as soon as both the callback is set and the condition was signaled,
// in whichever order that happens.
package oncetrue

import (
	"sync"
)

type OnceWhenTrue struct {
	condition bool
	onTrue    func()
	called    bool
	mu        sync.Mutex
}

func NewOnceWhenTrue() *OnceWhenTrue {
	return &OnceWhenTrue{}
}

// DoWhenTrue sets the callback, invoking it immediately if the
// condition already holds. A later callback replaces an earlier
// one only as long as nothing has run yet.
func (o *OnceWhenTrue) DoWhenTrue(onTrue func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.onTrue = onTrue

	if o.condition && !o.called {
		o.onTrue()
		o.called = true
	}
}

// SetTrue signals the condition. Safe to call repeatedly,
// the callback still runs at most once.
func (o *OnceWhenTrue) SetTrue() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.condition = true

	if o.onTrue != nil && !o.called {
		o.onTrue()
		o.called = true
	}
}

// Done reports whether the callback has run.
func (o *OnceWhenTrue) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.called
}

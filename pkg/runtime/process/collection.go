// Package process provides a small runtime utility to run a collection
// of long-running components as one unit.
package process

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Runnable allows a component to be started.
// It's very important that Start blocks until it's done running.
type Runnable interface {
	// Start starts running the component. The component stops
	// when ctx is canceled. Start blocks until ctx is canceled
	// or an error occurs.
	Start(ctx context.Context) error
}

// RunnableFunc implements Runnable using a function.
// It's very important that it blocks until it's done running.
type RunnableFunc func(ctx context.Context) error

// Start implements Runnable.
func (r RunnableFunc) Start(ctx context.Context) error { return r(ctx) }

// ErrAlreadyStarted is returned by Add after Start was called.
var ErrAlreadyStarted = errors.New("collection already started")

// Collection runs multiple Runnables as one. If any Runnable returns
// an error, all others are stopped and Start returns that error.
type Collection struct {
	mu        sync.Mutex
	runnables []Runnable
	started   bool
}

// New returns a new Collection of the given runnables.
func New(runnables ...Runnable) *Collection {
	return &Collection{runnables: runnables}
}

// Add registers r to be started with the Collection.
func (c *Collection) Add(r Runnable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return ErrAlreadyStarted
	}
	c.runnables = append(c.runnables, r)
	return nil
}

// Start starts all registered Runnables and blocks until ctx is
// canceled or one of them returns an error.
func (c *Collection) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	runnables := c.runnables
	c.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	for _, r := range runnables {
		eg.Go(func() error { return r.Start(ctx) })
	}
	return eg.Wait()
}

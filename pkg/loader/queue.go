package loader

import (
	"sync"

	"github.com/edwingeng/deque/v2"
)

// PluginQueue holds plugin payload directories in registration order
// until the host's load phase drains them.
type PluginQueue struct {
	mu sync.Mutex
	q  *deque.Deque[string]
}

func newPluginQueue() *PluginQueue {
	return &PluginQueue{q: deque.NewDeque[string]()}
}

func (p *PluginQueue) push(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.q.PushBack(path)
}

// Next pops the next plugin payload directory, if any.
func (p *PluginQueue) Next() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.q.Len() == 0 {
		return "", false
	}
	return p.q.PopFront(), true
}

// Drain pops all queued directories, invoking fn for each in order.
func (p *PluginQueue) Drain(fn func(path string)) {
	for {
		path, ok := p.Next()
		if !ok {
			return
		}
		fn(path)
	}
}

// Backlog returns how many directories are still queued.
func (p *PluginQueue) Backlog() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.q.Len()
}

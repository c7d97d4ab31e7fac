package ec

import "sync"

// Guarded serializes complete command sequences on a shared Controller.
type Guarded struct {
	mu sync.Mutex
	c  *Controller
}

// NewGuarded wraps c. c must not be used directly afterwards.
func NewGuarded(c *Controller) *Guarded {
	return &Guarded{c: c}
}

// Do runs fn with exclusive access to the Controller. fn should contain one
// whole command and data transfer sequence.
func (g *Guarded) Do(fn func(c *Controller) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return fn(g.c)
}

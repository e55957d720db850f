package layout

import (
	"slices"
	"sync"
	"time"
)

// Clock delivers frame callbacks. Implementations decide when frames happen; the
// layout code never starts timers of its own.
type Clock interface {
	// OnEachFrame registers fn to be called with the time elapsed since the previous
	// frame. The returned cancel function unregisters it and is safe to call twice.
	OnEachFrame(fn func(dt time.Duration)) (cancel func())
}

// ManualClock is a Clock driven explicitly by its owner through Tick. It is used
// wherever frames come from an outer event source: terminal ticks, HTTP requests and
// tests.
type ManualClock struct {
	mu   sync.Mutex
	subs map[int]func(time.Duration)
	next int
}

// NewManualClock returns a clock with no subscribers.
func NewManualClock() *ManualClock {
	return &ManualClock{subs: make(map[int]func(time.Duration))}
}

// OnEachFrame implements Clock.
func (c *ManualClock) OnEachFrame(fn func(dt time.Duration)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Tick delivers one frame of duration dt to every subscriber in subscription order.
func (c *ManualClock) Tick(dt time.Duration) {
	c.mu.Lock()
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	fns := make([]func(time.Duration), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, c.subs[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(dt)
	}
}

// Subscribers returns the number of live subscriptions.
func (c *ManualClock) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

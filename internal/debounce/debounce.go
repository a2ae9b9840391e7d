// Package debounce coalesces bursts of calls per key into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

type pending struct {
	timer *time.Timer
	fn    func()
}

// Debouncer delays calls per key; a newer call for the same key replaces the
// older one and restarts its timer. Keys never interfere with each other.
type Debouncer[K comparable] struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[K]*pending
	stopped bool
}

// New creates a Debouncer that waits delay after the last call for a key.
func New[K comparable](delay time.Duration) *Debouncer[K] {
	return &Debouncer[K]{
		delay:   delay,
		pending: make(map[K]*pending),
	}
}

// Call schedules fn for key, dropping any not yet fired call for the same key.
func (d *Debouncer[K]) Call(key K, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	p := &pending{fn: fn}
	p.timer = time.AfterFunc(d.delay, func() { d.fire(key, p) })
	d.pending[key] = p
}

func (d *Debouncer[K]) fire(key K, p *pending) {
	d.mu.Lock()
	if d.pending[key] != p {
		// replaced after the timer already fired.
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()
	p.fn()
}

// Flush runs every pending call now, on the calling goroutine. A call whose
// timer fired but has not claimed its entry yet is run here; fire then finds
// the entry gone and skips it.
func (d *Debouncer[K]) Flush() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		fns = append(fns, p.fn)
		delete(d.pending, key)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Pending returns the number of calls waiting to fire.
func (d *Debouncer[K]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels all pending calls and ignores future ones.
func (d *Debouncer[K]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

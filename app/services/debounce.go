package services

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a queued search runs.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs only the last of a burst of triggers, once the quiet period
// has passed without a newer one.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()

	// running is held while a scheduled call executes.
	running sync.Mutex
}

// NewDebouncer creates a Debouncer. A non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling whatever was scheduled before.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer != t {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()

		// Wait for a running call without holding mu, then make sure this
		// timer was not replaced, stopped or flushed in the meantime.
		d.running.Lock()
		defer d.running.Unlock()
		d.mu.Lock()
		if d.timer != t {
			d.mu.Unlock()
			return
		}
		d.timer, d.pending = nil, nil
		d.mu.Unlock()
		fn()
	})
	d.timer, d.pending = t, fn
}

// Stop cancels the pending call, if any, and reports whether there was one.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer, d.pending = nil, nil
	return true
}

// Flush runs the pending call immediately instead of waiting out the quiet
// period, then waits for any call that is already running.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	fn := d.pending
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer, d.pending = nil, nil
	d.mu.Unlock()

	d.running.Lock()
	defer d.running.Unlock()
	if fn != nil {
		fn()
	}
}

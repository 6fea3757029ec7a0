package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration collapses bursts of filesystem events (editors
// often write, chmod and rename in quick succession) into one notification.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer delays a callback until events stop arriving for the configured
// duration. Each Trigger resets the timer; only the last callback of a burst
// runs.
type Debouncer struct {
	duration time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet period. A zero or
// negative duration fires callbacks immediately.
func NewDebouncer(d time.Duration) *Debouncer {
	return &Debouncer{duration: d}
}

// Trigger schedules fn to run after the quiet period, replacing any pending
// callback.
func (d *Debouncer) Trigger(fn func()) {
	if d.duration <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of events per path: each event resets that
// path's timer, and only a timer that survives the full quiescence window
// fires. Paths are independent; events for one path never delay another.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	fire   func(path string)
	closed bool
}

// NewDebouncer creates a debouncer that calls fire once per quiescent path.
func NewDebouncer(delay time.Duration, fire func(path string)) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		fire:   fire,
	}
}

// Notify records a raw event for path, resetting its pending timer.
func (d *Debouncer) Notify(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	if t, ok := d.timers[path]; ok {
		t.Stop()
	}

	d.timers[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		delete(d.timers, path)
		d.mu.Unlock()

		d.fire(path)
	})
}

// Pending returns the number of paths with an un-fired timer.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels all pending timers. The debouncer is unusable afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

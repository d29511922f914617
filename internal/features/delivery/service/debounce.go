package service

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into a single execution after a quiet
// period. Each Do cancels the previously scheduled function. The generation
// passed to fn lets long-running work detect that it was superseded while in
// flight (only the latest generation's result should apply).
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	timer      *time.Timer
	generation uint64
}

// NewDebouncer creates a Debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Do schedules fn to run after the quiet period, cancelling any pending run.
func (d *Debouncer) Do(fn func(generation uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.generation++
	gen := d.generation

	d.timer = time.AfterFunc(d.delay, func() {
		fn(gen)
	})
}

// Current reports whether the given generation is still the latest one.
func (d *Debouncer) Current(generation uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation == generation
}

// Stop cancels any pending execution.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

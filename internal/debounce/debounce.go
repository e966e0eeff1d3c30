// Package debounce provides the delay-and-discard-stale primitive behind
// every search box: rapid triggers coalesce into one trailing call, and a
// response that arrives after a newer trigger is ignored.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the debounce delay, cancelling any previously
// scheduled call. fn receives a sequence token; async work started by fn must
// check Stale(token) before applying its result.
func (d *Debouncer) Trigger(fn func(seq uint64)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		if d.Stale(seq) {
			return
		}
		fn(seq)
	})
}

// Stale reports whether seq has been superseded by a newer trigger or a Stop.
func (d *Debouncer) Stale(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seq != d.seq
}

// Stop cancels any pending call and invalidates outstanding tokens. Used at
// component teardown so late responses never touch dead state.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

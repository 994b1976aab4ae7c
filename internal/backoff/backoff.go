// Package backoff implements the caller-side waiting strategy the ring
// protocol deliberately omits: a short busy-spin followed by increasing
// sleeps, used by the demo binaries when TryWrite or TryRead reports no
// progress.
package backoff

import (
	"runtime"
	"time"
)

// Waiter tracks spin/sleep state across repeated Wait calls against one
// ring operation. Reset it once progress is made.
type Waiter struct {
	spinDeadline time.Time
	spinning     bool
	sleep        time.Duration
	maxSleep     time.Duration
}

// New builds a Waiter that spins for up to spinFor before falling back
// to sleeps starting at minSleep and doubling up to maxSleep.
func New(spinFor, minSleep, maxSleep time.Duration) *Waiter {
	return &Waiter{
		spinDeadline: time.Now().Add(spinFor),
		spinning:     true,
		sleep:        minSleep,
		maxSleep:     maxSleep,
	}
}

// Wait yields the current goroutine according to the current backoff
// stage, then advances the stage for next time.
func (w *Waiter) Wait() {
	if w.spinning {
		if time.Now().Before(w.spinDeadline) {
			runtime.Gosched()
			return
		}
		w.spinning = false
	}

	time.Sleep(w.sleep)
	w.sleep *= 2
	if w.sleep > w.maxSleep {
		w.sleep = w.maxSleep
	}
}

// Reset returns the Waiter to its initial spin stage, called after an
// operation makes progress.
func (w *Waiter) Reset(spinFor, minSleep time.Duration) {
	w.spinDeadline = time.Now().Add(spinFor)
	w.spinning = true
	w.sleep = minSleep
}

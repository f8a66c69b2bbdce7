package session

import (
	"sync"
	"time"
)

// ActivitySignal names the interaction that proved the user is still there.
type ActivitySignal string

const (
	ActivityPointer ActivitySignal = "pointer"
	ActivityKey     ActivitySignal = "key"
	ActivityTouch   ActivitySignal = "touch"
	ActivityScroll  ActivitySignal = "scroll"
	ActivityClick   ActivitySignal = "click"
)

const defaultIdleTimeout = 5 * time.Minute

// idleWatchdog ends the session after a stretch of no user activity. It fires
// at most once; a session that timed out stays timed out even if activity
// arrives late.
type idleWatchdog struct {
	timeout time.Duration
	onIdle  func()

	mu      sync.Mutex
	timer   *time.Timer
	fired   bool
	stopped bool
}

func newIdleWatchdog(timeout time.Duration, onIdle func()) *idleWatchdog {
	if timeout <= 0 {
		timeout = defaultIdleTimeout
	}
	return &idleWatchdog{timeout: timeout, onIdle: onIdle}
}

func (w *idleWatchdog) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil || w.fired || w.stopped {
		return
	}
	w.timer = time.AfterFunc(w.timeout, w.fire)
}

// Touch resets the countdown. Signals arriving after the watchdog fired or
// stopped are ignored.
func (w *idleWatchdog) Touch(ActivitySignal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil || w.fired || w.stopped {
		return
	}
	w.timer.Reset(w.timeout)
}

func (w *idleWatchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *idleWatchdog) fire() {
	w.mu.Lock()
	if w.fired || w.stopped {
		w.mu.Unlock()
		return
	}
	w.fired = true
	w.mu.Unlock()

	if w.onIdle != nil {
		w.onIdle()
	}
}

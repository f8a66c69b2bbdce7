package session

import (
	"testing"
	"time"
)

func TestWatchdogFiresAfterTimeout(t *testing.T) {
	fired := make(chan struct{})
	watchdog := newIdleWatchdog(20*time.Millisecond, func() { close(fired) })
	watchdog.Start()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected watchdog to fire after timeout")
	}
}

func TestWatchdogActivityDefersTimeout(t *testing.T) {
	fired := make(chan struct{})
	watchdog := newIdleWatchdog(60*time.Millisecond, func() { close(fired) })
	watchdog.Start()

	for range 5 {
		time.Sleep(20 * time.Millisecond)
		watchdog.Touch(ActivityKey)
	}

	select {
	case <-fired:
		t.Fatalf("expected activity to keep the watchdog from firing")
	default:
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected watchdog to fire once activity stopped")
	}
}

func TestWatchdogFiresAtMostOnce(t *testing.T) {
	fires := make(chan struct{}, 4)
	watchdog := newIdleWatchdog(10*time.Millisecond, func() { fires <- struct{}{} })
	watchdog.Start()

	<-fires
	watchdog.Touch(ActivityClick)
	watchdog.Start()

	select {
	case <-fires:
		t.Fatalf("expected no second fire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatchdogStopPreventsFiring(t *testing.T) {
	fired := make(chan struct{})
	watchdog := newIdleWatchdog(20*time.Millisecond, func() { close(fired) })
	watchdog.Start()
	watchdog.Stop()

	select {
	case <-fired:
		t.Fatalf("expected stopped watchdog to stay quiet")
	case <-time.After(60 * time.Millisecond):
	}
}

package billing

import (
	"context"
	"testing"
	"time"

	"github.com/leadgate/leadgate/internal/client"
)

func TestTimerRunsReconcilePasses(t *testing.T) {
	sender := &recordingSender{}
	svc, store := newTestService(t, sender)
	seedClient(t, store, "overdue", client.StatusActive, time.Now().Add(-time.Hour))

	timer := NewTimer(svc, 20*time.Millisecond, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go timer.Start(ctx)
	defer timer.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if sender.count() >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timer never triggered a reconciliation pass")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if !timer.Running() {
		t.Error("Running() = false while loop is active")
	}
}

func TestTimerStop(t *testing.T) {
	svc, _ := newTestService(t, &recordingSender{})
	timer := NewTimer(svc, time.Hour, testLogger())

	done := make(chan struct{})
	go func() {
		timer.Start(context.Background())
		close(done)
	}()

	// Give the loop a moment to start, then stop it.
	time.Sleep(20 * time.Millisecond)
	timer.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer did not stop")
	}
	if timer.Running() {
		t.Error("Running() = true after stop")
	}
}

func TestTimerDefaultInterval(t *testing.T) {
	svc, _ := newTestService(t, &recordingSender{})
	timer := NewTimer(svc, 0, testLogger())
	if timer.interval != time.Hour {
		t.Errorf("interval = %v, want 1h default", timer.interval)
	}
}

package preview

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()
	for range 10 {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	select {
	case <-d.C():
	case <-time.After(time.Second):
		t.Fatal("expected a signal")
	}
	select {
	case <-d.C():
		t.Fatal("burst produced more than one signal")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDebouncer(20 * time.Millisecond)
	d.Trigger()
	d.Stop()
	d.Trigger()

	select {
	case <-d.C():
		t.Fatal("stopped debouncer fired")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestDebouncer_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDebounce, NewDebouncer(0).delay)
}

func TestRebuildWorker_CoalescesWhileRunning(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(t.Context())
	requests := make(chan struct{}, 1)
	started := make(chan struct{}, 4)
	release := make(chan struct{})
	var runs atomic.Int32

	done := runRebuildWorker(ctx, requests, func(context.Context) {
		runs.Add(1)
		started <- struct{}{}
		<-release
	})

	signal(requests)
	<-started
	// the first run is blocked; these collapse into a single follow-up
	for range 5 {
		signal(requests)
	}
	release <- struct{}{}
	<-started
	release <- struct{}{}

	assert.Never(t, func() bool { return runs.Load() > 2 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, int32(2), runs.Load())

	cancel()
	<-done
}

func TestRebuildWorker_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(t.Context())
	done := runRebuildWorker(ctx, make(chan struct{}), func(context.Context) {})
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

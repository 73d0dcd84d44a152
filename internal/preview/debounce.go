package preview

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period between the last change and a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer turns bursts of Trigger calls into a single signal on C.
type Debouncer struct {
	delay time.Duration
	out   chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, out: make(chan struct{}, 1)}
}

// Trigger restarts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	signal(d.out)
}

// C delivers at most one pending signal.
func (d *Debouncer) C() <-chan struct{} {
	return d.out
}

// Stop cancels a pending timer; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// signal performs a non-blocking send so at most one request waits in ch.
func signal(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// runRebuildWorker executes rebuild once per request until ctx ends. Requests that arrive
// while a rebuild runs collapse into one follow-up run. The returned channel closes when
// the worker exits.
func runRebuildWorker(ctx context.Context, requests <-chan struct{}, rebuild func(context.Context)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				if ctx.Err() != nil {
					return
				}
				rebuild(ctx)
			}
		}
	}()
	return done
}

// countdown/ticker.go
package countdown

import (
	"context"
	"sync"
	"time"
)

// resyncEvery controls how often the ticker recomputes from the absolute
// deadline instead of decrementing locally, to correct drift.
const resyncEvery = 30

// Ticker keeps a live TimeLeft for one deadline. One goroutine drives
// both the per-second decrement and the periodic resync, so updates
// never overlap and the value never moves backwards between resyncs.
type Ticker struct {
	deadline time.Time
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	current TimeLeft

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewTicker computes the initial TimeLeft immediately and starts
// ticking. Callers must Stop it when the observing view goes away.
func NewTicker(deadline time.Time) *Ticker {
	return newTicker(deadline, time.Second, time.Now)
}

func newTicker(deadline time.Time, interval time.Duration, now func() time.Time) *Ticker {
	t := &Ticker{
		deadline: deadline,
		interval: interval,
		now:      now,
		current:  Remaining(deadline, now()),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Ticker) run() {
	defer close(t.done)

	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	ticks := 0
	for {
		select {
		case <-tick.C:
			ticks++
			t.mu.Lock()
			if ticks%resyncEvery == 0 {
				t.current = Remaining(t.deadline, t.now())
			} else {
				t.current = t.current.Tick()
			}
			t.mu.Unlock()
		case <-t.stop:
			return
		}
	}
}

// Current returns a snapshot of the live value.
func (t *Ticker) Current() TimeLeft {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Stop releases the periodic trigger. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}

// Watch stops the ticker when ctx is cancelled. Convenience for views
// that already carry a context.
func (t *Ticker) Watch(ctx context.Context) {
	go func() {
		<-ctx.Done()
		t.Stop()
	}()
}

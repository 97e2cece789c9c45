package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Countdown emits one tick per interval on its own goroutine. Ticks are
// consumed by the simulation goroutine, which is the only one allowed to
// mutate the Session.
type Countdown struct {
	interval time.Duration
	ticks    chan struct{}
	resume   chan struct{}
	paused   atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCountdown(interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = time.Second
	}
	return &Countdown{
		interval: interval,
		ticks:    make(chan struct{}, 8),
		resume:   make(chan struct{}, 1),
	}
}

// Start launches the ticker goroutine. It runs until ctx is cancelled or
// Stop is called. Starting a running countdown does nothing.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
}

func (c *Countdown) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.resume:
			t.Reset(c.interval)
		case <-t.C:
			if c.paused.Load() {
				continue
			}
			select {
			case c.ticks <- struct{}{}:
			default:
			}
		}
	}
}

// Stop halts the goroutine and waits for it to exit.
func (c *Countdown) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Countdown) Ticks() <-chan struct{} {
	return c.ticks
}

// Drain returns the number of ticks waiting without blocking.
func (c *Countdown) Drain() int {
	n := 0
	for {
		select {
		case <-c.ticks:
			n++
		default:
			return n
		}
	}
}

func (c *Countdown) Pause() {
	c.paused.Store(true)
}

// Resume restarts the interval so a partly elapsed second is not counted.
func (c *Countdown) Resume() {
	if !c.paused.Swap(false) {
		return
	}
	select {
	case c.resume <- struct{}{}:
	default:
	}
}

func (c *Countdown) Paused() bool {
	return c.paused.Load()
}

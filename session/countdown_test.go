package session

import (
	"context"
	"testing"
	"time"
)

func waitTick(t *testing.T, c *Countdown) {
	t.Helper()
	select {
	case <-c.Ticks():
	case <-time.After(time.Second):
		t.Fatalf("no tick within a second")
	}
}

func TestCountdownTicks(t *testing.T) {
	c := NewCountdown(5 * time.Millisecond)
	c.Start(context.Background())
	defer c.Stop()

	waitTick(t, c)
	waitTick(t, c)
}

func TestCountdownPause(t *testing.T) {
	c := NewCountdown(5 * time.Millisecond)
	c.Start(context.Background())
	defer c.Stop()
	waitTick(t, c)

	c.Pause()
	time.Sleep(20 * time.Millisecond)
	c.Drain()
	time.Sleep(40 * time.Millisecond)
	if n := c.Drain(); n != 0 {
		t.Fatalf("paused countdown ticked %d times", n)
	}

	c.Resume()
	if c.Paused() {
		t.Fatalf("resume should clear pause")
	}
	waitTick(t, c)
}

func TestCountdownStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCountdown(5 * time.Millisecond)
	c.Start(ctx)
	waitTick(t, c)
	cancel()
	c.Stop()
	c.Stop()

	time.Sleep(20 * time.Millisecond)
	c.Drain()
	time.Sleep(20 * time.Millisecond)
	if n := c.Drain(); n != 0 {
		t.Fatalf("stopped countdown ticked %d times", n)
	}
}

// Package pacer turns a configured per-step delay into a pausable wait.
//
// Only unpaused time counts toward the delay: pausing freezes the elapsed
// time already accumulated and resuming continues from it. Waiters sleep on
// timers and wake on pause/resume transitions; nothing polls.
package pacer

import (
	"context"
	"sync"
	"time"
)

type Pacer struct {
	delay func() time.Duration

	mu      sync.Mutex
	paused  bool
	changed chan struct{}
}

// New creates a pacer. delay is read at the start of every Wait, so a new
// speed takes effect on the next step.
func New(delay func() time.Duration) *Pacer {
	if delay == nil {
		delay = Fixed(0)
	}
	return &Pacer{
		delay:   delay,
		changed: make(chan struct{}),
	}
}

// Fixed returns a delay source that always yields d.
func Fixed(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

func (p *Pacer) Pause()  { p.set(true) }
func (p *Pacer) Resume() { p.set(false) }

func (p *Pacer) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Pacer) set(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused == paused {
		return
	}
	p.paused = paused
	close(p.changed)
	p.changed = make(chan struct{})
}

func (p *Pacer) snapshot() (bool, <-chan struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused, p.changed
}

// Wait blocks until the configured delay has elapsed while unpaused.
// It returns ctx.Err() if the context ends first.
func (p *Pacer) Wait(ctx context.Context) error {
	remaining := p.delay()

	for {
		paused, changed := p.snapshot()
		if paused {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-changed:
				continue
			}
		}

		if remaining <= 0 {
			return nil
		}

		start := time.Now()
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			return nil
		case <-changed:
			timer.Stop()
			remaining -= time.Since(start)
		}
	}
}

// WaitUnpaused blocks only while the pacer is paused.
func (p *Pacer) WaitUnpaused(ctx context.Context) error {
	for {
		paused, changed := p.snapshot()
		if !paused {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

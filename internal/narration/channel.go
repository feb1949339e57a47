package narration

import (
	"context"
	"log/slog"
	"sync"
)

type Channel struct {
	engine Engine
	logger *slog.Logger

	mu      sync.Mutex
	enabled bool
	paused  bool
	changed chan struct{}
	gen     uint64

	// speakMu makes the supersession check and the engine call one step.
	speakMu sync.Mutex
}

type Option func(*Channel)

func WithLogger(l *slog.Logger) Option { return func(c *Channel) { c.logger = l } }
func WithEnabled(on bool) Option       { return func(c *Channel) { c.enabled = on } }

// New returns a channel speaking through engine. Narration starts disabled
// unless WithEnabled(true) is given. A nil engine behaves like Silent.
func New(engine Engine, opts ...Option) *Channel {
	if engine == nil {
		engine = Silent{}
	}
	c := &Channel{
		engine:  engine,
		logger:  slog.Default(),
		changed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Channel) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled switches narration on or off. Switching off silences the
// engine and ends any batch in progress.
func (c *Channel) SetEnabled(on bool) {
	c.mu.Lock()
	if c.enabled == on {
		c.mu.Unlock()
		return
	}
	c.enabled = on
	if !on {
		c.gen++
	}
	c.notify()
	c.mu.Unlock()

	if !on {
		c.engine.Cancel()
	}
}

// ToggleEnabled flips narration and returns the new state.
func (c *Channel) ToggleEnabled() bool {
	on := !c.Enabled()
	c.SetEnabled(on)
	return on
}

func (c *Channel) Pause()  { c.setPaused(true) }
func (c *Channel) Resume() { c.setPaused(false) }

func (c *Channel) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *Channel) setPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused == paused {
		return
	}
	c.paused = paused
	c.notify()
}

// notify wakes every waiter; callers hold mu.
func (c *Channel) notify() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Channel) state() (paused bool, changed <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused, c.changed
}

func (c *Channel) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled && c.gen == gen
}

// Speak plays items in order and returns once all of them finished, or as
// soon as a later Speak or Enqueue call (or disabling) supersedes this batch.
// It is a no-op while narration is disabled. Engine failures are logged and
// end the batch without an error.
func (c *Channel) Speak(ctx context.Context, items ...string) error {
	gen, ok := c.reserve()
	if !ok {
		return nil
	}
	return c.play(ctx, gen, items)
}

// Enqueue takes the batch's place in line before returning and plays it in
// the background, so a batch enqueued later always wins even if this one has
// not started yet. The channel yields the outcome of Speak once.
func (c *Channel) Enqueue(ctx context.Context, items ...string) <-chan error {
	out := make(chan error, 1)
	gen, ok := c.reserve()
	if !ok {
		out <- nil
		close(out)
		return out
	}
	go func() {
		out <- c.play(ctx, gen, items)
		close(out)
	}()
	return out
}

// reserve bumps the generation, superseding every earlier batch.
func (c *Channel) reserve() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return 0, false
	}
	c.gen++
	c.notify()
	return c.gen, true
}

func (c *Channel) play(ctx context.Context, gen uint64, items []string) error {
	for _, text := range items {
		if err := c.waitUnpaused(ctx); err != nil {
			return err
		}

		done, ok, err := c.start(gen, text)
		if err != nil {
			c.logger.Warn("narration unavailable", "error", err)
			return nil
		}
		if !ok {
			return nil
		}

		if err := c.await(ctx, gen, done); err != nil {
			return err
		}
		if !c.current(gen) {
			return nil
		}
	}
	return nil
}

// start cancels whatever is playing and speaks text, unless gen has been
// superseded in the meantime.
func (c *Channel) start(gen uint64, text string) (<-chan struct{}, bool, error) {
	c.speakMu.Lock()
	defer c.speakMu.Unlock()
	if !c.current(gen) {
		return nil, false, nil
	}
	c.engine.Cancel()
	done, err := c.engine.Speak(text)
	if err != nil {
		return nil, false, err
	}
	return done, true, nil
}

func (c *Channel) await(ctx context.Context, gen uint64, done <-chan struct{}) error {
	for {
		paused, changed := c.state()
		if paused {
			c.engine.Pause()
			if err := c.waitUnpaused(ctx); err != nil {
				if c.current(gen) {
					c.engine.Cancel()
				}
				return err
			}
			c.engine.Resume()
			continue
		}

		select {
		case <-ctx.Done():
			if c.current(gen) {
				c.engine.Cancel()
			}
			return ctx.Err()
		case <-done:
			return nil
		case <-changed:
			if !c.current(gen) {
				return nil
			}
		}
	}
}

func (c *Channel) waitUnpaused(ctx context.Context) error {
	for {
		paused, changed := c.state()
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

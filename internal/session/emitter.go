package session

import (
	"context"

	"github.com/san-kum/sortviz/internal/steps"
)

// Emit numbers a step, publishes it to every renderer and waits for the
// pacer. The description is derived from roles when empty.
func (c *Controller) Emit(ctx context.Context, snapshot steps.Snapshot, roles steps.Roles, description string) error {
	c.mu.Lock()
	c.state.Step++
	seq := c.state.Step
	for role := range roles {
		c.counts[role]++
	}
	renderers := c.renderers
	c.mu.Unlock()

	rec := steps.NewRecord(seq, snapshot, roles, description)
	c.logger.Debug("step", "seq", rec.Seq, "desc", rec.Description)
	for _, r := range renderers {
		r.Render(rec)
	}

	return c.pacer.Wait(ctx)
}

// recorder is what drivers see of the controller.
type recorder struct {
	c *Controller
}

func (r recorder) Step(ctx context.Context, snapshot steps.Snapshot, roles steps.Roles) error {
	return r.c.Emit(ctx, snapshot, roles, "")
}

func (r recorder) Say(ctx context.Context, items ...string) error {
	if len(items) == 0 {
		return nil
	}
	if r.c.awaitNarration {
		return r.c.narrator.Speak(ctx, items...)
	}
	done := r.c.narrator.Enqueue(ctx, items...)
	go func() {
		if err := <-done; err != nil && ctx.Err() == nil {
			r.c.logger.Warn("narration failed", "error", err)
		}
	}()
	return nil
}

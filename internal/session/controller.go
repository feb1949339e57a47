package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/sortviz/internal/narration"
	"github.com/san-kum/sortviz/internal/pacer"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/steps"
)

const DefaultSpeed = 500 * time.Millisecond

type Controller struct {
	registry       *sorting.Registry
	narrator       *narration.Channel
	pacer          *pacer.Pacer
	logger         *slog.Logger
	awaitNarration bool

	mu        sync.Mutex
	renderers []Renderer
	input     []float64
	state     State
	counts    map[steps.Role]int
	cancel    context.CancelFunc
}

type Option func(*Controller)

func WithRenderer(r ...Renderer) Option {
	return func(c *Controller) { c.renderers = append(c.renderers, r...) }
}

func WithNarrator(n *narration.Channel) Option { return func(c *Controller) { c.narrator = n } }
func WithRegistry(r *sorting.Registry) Option  { return func(c *Controller) { c.registry = r } }
func WithLogger(l *slog.Logger) Option         { return func(c *Controller) { c.logger = l } }
func WithSpeed(d time.Duration) Option         { return func(c *Controller) { c.state.Speed = clampSpeed(d) } }

// WithNarrationAwait controls whether a driver waits for its narration
// before taking the next step. When false, narration plays in the
// background and a newer batch supersedes an unfinished one.
func WithNarrationAwait(on bool) Option { return func(c *Controller) { c.awaitNarration = on } }

func New(input []float64, opts ...Option) *Controller {
	c := &Controller{
		registry:       sorting.NewRegistry(),
		logger:         slog.Default(),
		awaitNarration: true,
		input:          append([]float64(nil), input...),
		state:          State{Speed: DefaultSpeed},
		counts:         make(map[steps.Role]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.narrator == nil {
		c.narrator = narration.New(narration.Silent{}, narration.WithLogger(c.logger))
	}
	c.pacer = pacer.New(c.Speed)
	return c
}

func clampSpeed(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// AddRenderer registers r for subsequent runs.
func (c *Controller) AddRenderer(r Renderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderers = append(c.renderers, r)
}

func (c *Controller) Algorithms() []string { return c.registry.Names() }

// SetInput replaces the array used by the next run.
func (c *Controller) SetInput(values []float64) error {
	if len(values) == 0 {
		return ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Running {
		return ErrSessionBusy
	}
	c.input = append([]float64(nil), values...)
	return nil
}

func (c *Controller) Input() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.input...)
}

// Speed is read by the pacer before every step.
func (c *Controller) Speed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Speed
}

func (c *Controller) SetSpeed(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Speed = clampSpeed(d)
}

func (c *Controller) ToggleVoice() bool { return c.narrator.ToggleEnabled() }

func (c *Controller) State() State {
	c.mu.Lock()
	s := c.state
	s.Input = append([]float64(nil), c.input...)
	c.mu.Unlock()
	s.Voice = c.narrator.Enabled()
	return s
}

// Pause freezes step pacing and narration. The two are paused one after the
// other, not atomically.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.state.Paused = true
	c.mu.Unlock()
	c.pacer.Pause()
	c.narrator.Pause()
}

func (c *Controller) Resume() {
	c.mu.Lock()
	c.state.Paused = false
	c.mu.Unlock()
	c.pacer.Resume()
	c.narrator.Resume()
}

// Cancel aborts the active run, if any.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Start runs algorithm to completion and returns its result.
func (c *Controller) Start(ctx context.Context, algorithm string) (*Result, error) {
	out, err := c.Launch(ctx, algorithm)
	if err != nil {
		return nil, err
	}
	o := <-out
	return o.Result, o.Err
}

// Launch validates the request, resets the run state and starts the driver
// in the background. The returned channel receives exactly one Outcome.
// ErrSessionBusy is returned while another run is active; that run is left
// untouched.
func (c *Controller) Launch(ctx context.Context, algorithm string) (<-chan Outcome, error) {
	c.mu.Lock()
	if c.state.Running {
		c.mu.Unlock()
		return nil, ErrSessionBusy
	}
	if len(c.input) == 0 {
		c.mu.Unlock()
		return nil, ErrInvalidInput
	}
	driver, err := c.registry.Get(algorithm)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	input := append([]float64(nil), c.input...)
	c.state = State{
		ID:        uuid.NewString(),
		Algorithm: algorithm,
		Running:   true,
		Speed:     c.state.Speed,
	}
	c.counts = make(map[steps.Role]int)
	c.cancel = cancel
	state := c.state
	state.Input = append([]float64(nil), input...)
	renderers := c.renderers
	c.mu.Unlock()

	c.pacer.Resume()
	c.narrator.Resume()
	state.Voice = c.narrator.Enabled()

	for _, r := range renderers {
		r.Reset(state)
	}
	c.logger.Info("session started", "id", state.ID, "algorithm", algorithm, "size", len(input))

	out := make(chan Outcome, 1)
	go func() {
		defer cancel()
		res, err := c.run(runCtx, state, driver, input)
		out <- Outcome{Result: res, Err: err}
		close(out)
	}()
	return out, nil
}

func (c *Controller) run(ctx context.Context, state State, driver sorting.Driver, input []float64) (*Result, error) {
	defer c.finish()

	start := time.Now()
	sorted, err := driver(ctx, input, recorder{c})
	if err != nil {
		c.logger.Warn("session aborted", "id", state.ID, "error", err)
		c.abort(state, err)
		return nil, fmt.Errorf("%s session %s: %w", state.Algorithm, state.ID, err)
	}

	c.mu.Lock()
	res := Result{
		SessionID: state.ID,
		Algorithm: state.Algorithm,
		Input:     input,
		Sorted:    sorted,
		Steps:     c.state.Step,
		Counts:    make(map[steps.Role]int, len(c.counts)),
		Duration:  time.Since(start),
	}
	for role, n := range c.counts {
		res.Counts[role] = n
	}
	renderers := c.renderers
	c.mu.Unlock()

	for _, r := range renderers {
		r.Finish(res)
	}
	c.logger.Info("session finished", "id", state.ID, "steps", res.Steps, "duration", res.Duration)

	if err := c.narrator.Speak(ctx, "The array is sorted. Final array is: "+steps.FormatList(sorted, ", ")); err != nil {
		return &res, fmt.Errorf("%s session %s: %w", state.Algorithm, state.ID, err)
	}
	return &res, nil
}

func (c *Controller) abort(state State, err error) {
	c.mu.Lock()
	a := Aborted{
		SessionID: state.ID,
		Algorithm: state.Algorithm,
		Step:      c.state.Step,
		Reason:    err.Error(),
	}
	renderers := c.renderers
	c.mu.Unlock()

	for _, r := range renderers {
		if ab, ok := r.(Aborter); ok {
			ab.Abort(a)
		}
	}
}

func (c *Controller) finish() {
	c.mu.Lock()
	c.state.Running = false
	c.state.Paused = false
	c.cancel = nil
	c.mu.Unlock()
	c.pacer.Resume()
	c.narrator.Resume()
}

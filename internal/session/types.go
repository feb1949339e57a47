package session

import (
	"time"

	"github.com/san-kum/sortviz/internal/steps"
)

// State is a point-in-time copy of a controller's run state. Step is the
// sequence number of the last emitted record, 0 before the first.
type State struct {
	ID        string        `json:"id"`
	Algorithm string        `json:"algorithm"`
	Input     []float64     `json:"input"`
	Running   bool          `json:"running"`
	Paused    bool          `json:"paused"`
	Step      int           `json:"step"`
	Speed     time.Duration `json:"speed"`
	Voice     bool          `json:"voice"`
}

type Result struct {
	SessionID string             `json:"session_id"`
	Algorithm string             `json:"algorithm"`
	Input     []float64          `json:"input"`
	Sorted    []float64          `json:"sorted"`
	Steps     int                `json:"steps"`
	Counts    map[steps.Role]int `json:"counts"`
	Duration  time.Duration      `json:"duration"`
}

// Outcome is delivered once per launched run.
type Outcome struct {
	Result *Result
	Err    error
}

// Renderer consumes the records of a run. Calls arrive on the run's
// goroutine in emission order: Reset, Render..., Finish.
type Renderer interface {
	Reset(State)
	Render(steps.Record)
	Finish(Result)
}

// Aborted describes a run that ended without a result, after Step records.
type Aborted struct {
	SessionID string `json:"session_id"`
	Algorithm string `json:"algorithm"`
	Step      int    `json:"step"`
	Reason    string `json:"reason"`
}

// Aborter is implemented by renderers that need to hear about a run ending
// early. Abort takes the place of Finish for that run.
type Aborter interface {
	Abort(Aborted)
}

// RendererFuncs adapts plain functions to Renderer; nil fields are skipped.
type RendererFuncs struct {
	OnReset  func(State)
	OnRender func(steps.Record)
	OnFinish func(Result)
	OnAbort  func(Aborted)
}

func (f RendererFuncs) Reset(s State) {
	if f.OnReset != nil {
		f.OnReset(s)
	}
}

func (f RendererFuncs) Render(r steps.Record) {
	if f.OnRender != nil {
		f.OnRender(r)
	}
}

func (f RendererFuncs) Finish(r Result) {
	if f.OnFinish != nil {
		f.OnFinish(r)
	}
}

func (f RendererFuncs) Abort(a Aborted) {
	if f.OnAbort != nil {
		f.OnAbort(a)
	}
}

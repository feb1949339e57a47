package storage

import (
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

// Recorder is a session renderer that keeps every record of the latest run
// so it can be saved once the run finishes.
type Recorder struct {
	mu      sync.Mutex
	records []steps.Record
	result  *session.Result
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Reset(session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.result = nil
}

func (r *Recorder) Render(rec steps.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *Recorder) Finish(res session.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result = &res
}

func (r *Recorder) Records() []steps.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]steps.Record(nil), r.records...)
}

// Result is nil until the run finished.
func (r *Recorder) Result() *session.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// AutoSaver records every run and saves it to the store when it finishes.
type AutoSaver struct {
	*Recorder
	store  *Store
	speed  func() time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	lastID string
}

func NewAutoSaver(store *Store, speed func() time.Duration, logger *slog.Logger) *AutoSaver {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoSaver{Recorder: NewRecorder(), store: store, speed: speed, logger: logger}
}

func (a *AutoSaver) Finish(res session.Result) {
	a.Recorder.Finish(res)
	id, err := a.store.Save(res, a.speed(), a.Records())
	if err != nil {
		a.logger.Error("save run", "session", res.SessionID, "error", err)
		return
	}
	a.mu.Lock()
	a.lastID = id
	a.mu.Unlock()
	a.logger.Info("run saved", "run", id, "steps", res.Steps)
}

// LastID is the id of the most recently saved run.
func (a *AutoSaver) LastID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastID
}

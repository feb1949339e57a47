package narration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/san-kum/sortviz/internal/pacer"
)

// Engine is the platform voice. The channel returned by Speak closes when
// the utterance finishes or is cancelled.
type Engine interface {
	Speak(text string) (<-chan struct{}, error)
	Cancel()
	Pause()
	Resume()
}

const DefaultWordsPerMinute = 180

// TextEngine writes each utterance to out and keeps it "speaking" for as
// long as a reader at the configured rate would take.
type TextEngine struct {
	out io.Writer
	wpm int

	mu     sync.Mutex
	cancel context.CancelFunc
	timer  *pacer.Pacer
}

func NewTextEngine(out io.Writer, wordsPerMinute int) *TextEngine {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	return &TextEngine{out: out, wpm: wordsPerMinute}
}

// SpeakingTime is how long text is held at the engine's rate.
func (e *TextEngine) SpeakingTime(text string) time.Duration {
	words := len(strings.Fields(text))
	return time.Duration(words) * time.Minute / time.Duration(e.wpm)
}

func (e *TextEngine) Speak(text string) (<-chan struct{}, error) {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	timer := pacer.New(pacer.Fixed(e.SpeakingTime(text)))
	e.cancel, e.timer = cancel, timer
	e.mu.Unlock()

	if _, err := fmt.Fprintf(e.out, "  🔊 %s\n", text); err != nil {
		cancel()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = timer.Wait(ctx)
	}()
	return done, nil
}

func (e *TextEngine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel, e.timer = nil, nil
	}
}

func (e *TextEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Pause()
	}
}

func (e *TextEngine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Resume()
	}
}

type Silent struct{}

func (Silent) Speak(string) (<-chan struct{}, error) {
	done := make(chan struct{})
	close(done)
	return done, nil
}

func (Silent) Cancel() {}
func (Silent) Pause()  {}
func (Silent) Resume() {}

package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

type (
	resetMsg  session.State
	stepMsg   steps.Record
	finishMsg session.Result
	doneMsg   struct {
		bridge *Bridge
		err    error
	}
	speechMsg string
)

const bridgeBuffer = 256

// Bridge turns controller callbacks into bubbletea messages. The run
// goroutine blocks when the buffer is full so no step is dropped.
type Bridge struct {
	msgs chan tea.Msg
	done chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		msgs: make(chan tea.Msg, bridgeBuffer),
		done: make(chan struct{}),
	}
}

func (b *Bridge) send(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	case <-b.done:
	}
}

func (b *Bridge) Reset(s session.State) { b.send(resetMsg(s)) }
func (b *Bridge) Render(r steps.Record) { b.send(stepMsg(r)) }
func (b *Bridge) Finish(res session.Result) { b.send(finishMsg(res)) }

// Write shows narration text in the view; pass the bridge as the output of
// a narration.TextEngine.
func (b *Bridge) Write(p []byte) (int, error) {
	text := strings.TrimSpace(string(p))
	if text != "" {
		b.send(speechMsg(text))
	}
	return len(p), nil
}

// Close releases a run goroutine blocked on a full buffer.
func (b *Bridge) Close() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

// Listen waits for the next message.
func (b *Bridge) Listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.msgs:
			return msg
		case <-b.done:
			return nil
		}
	}
}

package web

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

// maxBacklog bounds how far a subscriber may fall behind before it is
// disconnected.
const maxBacklog = 1 << 16

// Event is one server-sent event.
type Event struct {
	Type string
	Data json.RawMessage
}

// subscriber queues up to maxBacklog events and hands them to out in
// publish order from its own goroutine. A slow reader never stalls the run.
type subscriber struct {
	mu     sync.Mutex
	queue  []Event
	closed bool

	wake chan struct{}
	done chan struct{}
	out  chan Event
}

func newSubscriber() *subscriber {
	s := &subscriber{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		out:  make(chan Event),
	}
	go s.pump()
	return s
}

// push reports false once the backlog is full.
func (s *subscriber) push(ev Event) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return true
	}
	if len(s.queue) >= maxBacklog {
		s.mu.Unlock()
		return false
	}
	s.queue = append(s.queue, ev)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return true
}

func (s *subscriber) next() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return Event{}, false
	}
	ev := s.queue[0]
	s.queue[0] = Event{}
	s.queue = s.queue[1:]
	return ev, true
}

func (s *subscriber) pump() {
	defer close(s.out)
	for {
		ev, ok := s.next()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		select {
		case s.out <- ev:
		case <-s.done:
			return
		}
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
}

// Hub fans controller callbacks out to SSE subscribers. Every subscriber
// sees every event of a run in order; one that falls maxBacklog events
// behind is disconnected instead.
type Hub struct {
	logger *slog.Logger

	mu   sync.Mutex
	subs map[*subscriber]struct{}
	last []Event
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger, subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a client. The reset and latest step of a run in
// progress are replayed first so late joiners see the current bars. The
// channel is closed after unsubscribe or when the client is disconnected
// for falling behind.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	sub := newSubscriber()

	h.mu.Lock()
	for _, ev := range h.last {
		sub.push(ev)
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub.out, func() { h.drop(sub) }
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	sub.close()
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Reset(s session.State) {
	h.publish("reset", s, func(ev Event) { h.last = []Event{ev} })
}

func (h *Hub) Render(r steps.Record) {
	h.publish("step", r, func(ev Event) {
		if len(h.last) > 0 {
			h.last = append(h.last[:1], ev)
		}
	})
}

func (h *Hub) Finish(res session.Result) {
	h.publish("finish", res, func(Event) { h.last = nil })
}

// Abort tells clients the run ended without a result; nothing is replayed
// to later subscribers.
func (h *Hub) Abort(a session.Aborted) {
	h.publish("aborted", a, func(Event) { h.last = nil })
}

func (h *Hub) publish(typ string, v any, remember func(Event)) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode event", "type", typ, "error", err)
		return
	}
	ev := Event{Type: typ, Data: data}

	h.mu.Lock()
	remember(ev)
	var behind []*subscriber
	for sub := range h.subs {
		if !sub.push(ev) {
			delete(h.subs, sub)
			behind = append(behind, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range behind {
		h.logger.Warn("subscriber too far behind, disconnecting", "type", typ, "backlog", maxBacklog)
		sub.close()
	}
}

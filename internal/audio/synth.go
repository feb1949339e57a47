package audio

import (
	"math"
	"sync"

	"github.com/mjibson/go-dsp/window"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	toneLength = SampleRate / 12
	maxQueue   = 8
	volume     = 0.25
)

// Synth turns queued pitches into short enveloped triangle tones. It is
// driven by the audio callback through Process.
type Synth struct {
	mu       sync.Mutex
	queue    []float64
	envelope []float64

	freq   float64
	pos    int
	phase  float64
	filter float64
}

func NewSynth() *Synth {
	return &Synth{envelope: window.Hann(toneLength), pos: toneLength}
}

// Play queues a tone. When the queue is full the oldest pending tone is
// dropped so playback keeps up with fast runs.
func (s *Synth) Play(freq float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == maxQueue {
		s.queue = s.queue[1:]
	}
	s.queue = append(s.queue, freq)
}

func (s *Synth) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Process fills every output channel with the same mono signal.
func (s *Synth) Process(out [][]float32) {
	if len(out) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	for i := range out[0] {
		if s.pos >= toneLength {
			if len(s.queue) == 0 {
				for _, ch := range out {
					ch[i] = 0
				}
				continue
			}
			s.freq, s.queue = s.queue[0], s.queue[1:]
			s.pos, s.phase = 0, 0
		}

		sample := triangle(s.phase) * s.envelope[s.pos]
		sample, s.filter = lpf(sample, 4*s.freq, dt, s.filter)
		for _, ch := range out {
			ch[i] = float32(sample * volume)
		}
		s.phase += s.freq * dt
		s.pos++
	}
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass filter.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

package audio

import (
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

// ErrUnavailable is returned by Start when the binary was built without
// audio output support.
var ErrUnavailable = errors.New("audio: output not available in this build (rebuild with -tags portaudio)")

const (
	lowFreq  = 220.0
	highFreq = 880.0
)

// Sonifier plays one tone per step, pitched by the value under the step's
// first highlighted index.
type Sonifier struct {
	synth  *Synth
	out    *output
	logger *slog.Logger

	mu     sync.Mutex
	lo, hi float64
}

func NewSonifier(logger *slog.Logger) *Sonifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sonifier{synth: NewSynth(), logger: logger}
}

func (s *Sonifier) Synth() *Synth { return s.synth }

// Start opens the default output device.
func (s *Sonifier) Start() error {
	out, err := openOutput(s.synth)
	if err != nil {
		return err
	}
	s.out = out
	s.logger.Info("audio output started", "sample_rate", SampleRate)
	return nil
}

func (s *Sonifier) Stop() {
	if s.out != nil {
		s.out.close()
		s.out = nil
	}
}

func (s *Sonifier) Reset(st session.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lo, s.hi = 0, 0
	for i, v := range st.Input {
		if i == 0 || v < s.lo {
			s.lo = v
		}
		if i == 0 || v > s.hi {
			s.hi = v
		}
	}
}

func (s *Sonifier) Render(rec steps.Record) {
	for _, role := range steps.AllRoles {
		idx := rec.Roles[role]
		if len(idx) == 0 || idx[0] < 0 || idx[0] >= len(rec.Snapshot) {
			continue
		}
		s.synth.Play(s.Pitch(rec.Snapshot[idx[0]]))
		return
	}
}

func (s *Sonifier) Finish(res session.Result) {
	for _, v := range res.Sorted {
		s.synth.Play(s.Pitch(v))
	}
}

// Pitch maps v onto two octaves between lowFreq and highFreq on an
// exponential scale.
func (s *Sonifier) Pitch(v float64) float64 {
	s.mu.Lock()
	lo, hi := s.lo, s.hi
	s.mu.Unlock()

	if hi <= lo {
		return math.Sqrt(lowFreq * highFreq)
	}
	t := math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
	return lowFreq * math.Pow(highFreq/lowFreq, t)
}

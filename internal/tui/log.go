package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

const barRows = 8

var roleMarks = map[steps.Role]rune{
	steps.Compared: '?',
	steps.Swapped:  '*',
	steps.Left:     '<',
	steps.Right:    '>',
	steps.Updated:  '+',
}

// LogRenderer prints one line per step. With bars enabled each step is
// followed by a small ASCII bar chart whose tops mark the step's roles.
type LogRenderer struct {
	mu   sync.Mutex
	out  io.Writer
	bars bool
	lo   float64
	hi   float64
}

func NewLogRenderer(out io.Writer, bars bool) *LogRenderer {
	return &LogRenderer{out: out, bars: bars}
}

func (r *LogRenderer) Reset(s session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lo, r.hi = bounds(s.Input)
	fmt.Fprintf(r.out, "%s sort on [%s]\n", s.Algorithm, steps.FormatList(s.Input, ","))
}

func (r *LogRenderer) Render(rec steps.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "Step %d: %s\n", rec.Seq, rec.Description)
	if r.bars {
		io.WriteString(r.out, r.chart(rec.Snapshot, rec.Roles))
	}
}

func (r *LogRenderer) Finish(res session.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "Final sorted array is: [%s]\n", steps.FormatList(res.Sorted, ","))
}

func (r *LogRenderer) Abort(a session.Aborted) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "Aborted after %d steps: %s\n", a.Step, a.Reason)
}

func (r *LogRenderer) chart(snap steps.Snapshot, roles steps.Roles) string {
	canvas := make([][]rune, barRows)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", 2*len(snap)))
	}

	rng := r.hi - r.lo
	for i, v := range snap {
		h := barRows / 2
		if rng > 0 {
			h = 1 + int((v-r.lo)/rng*float64(barRows-1)+0.5)
		}
		h = min(max(h, 1), barRows)
		top := '#'
		if rs := roles.Of(i); len(rs) > 0 {
			top = roleMarks[rs[0]]
		}
		for y := 0; y < h; y++ {
			c := '#'
			if y == h-1 {
				c = top
			}
			canvas[barRows-1-y][2*i] = c
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(strings.TrimRight(string(row), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func bounds(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

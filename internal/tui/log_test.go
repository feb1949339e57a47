package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

func TestLogRendererLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogRenderer(&buf, false)

	r.Reset(session.State{Algorithm: "bubble", Input: []float64{5, 1}})
	r.Render(steps.Record{Seq: 1, Description: "Comparing 5 and 1"})
	r.Render(steps.Record{Seq: 2, Description: "Swapping 5 and 1"})
	r.Finish(session.Result{Sorted: []float64{1, 5}})

	want := []string{
		"bubble sort on [5,1]",
		"Step 1: Comparing 5 and 1",
		"Step 2: Swapping 5 and 1",
		"Final sorted array is: [1,5]",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(got), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLogRendererAbort(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogRenderer(&buf, false)

	r.Reset(session.State{Algorithm: "merge", Input: []float64{2, 1}})
	r.Abort(session.Aborted{Algorithm: "merge", Step: 3, Reason: "context canceled"})

	if !strings.HasSuffix(buf.String(), "Aborted after 3 steps: context canceled\n") {
		t.Errorf("abort line missing:\n%s", buf.String())
	}
}

func TestLogRendererBars(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogRenderer(&buf, true)
	r.Reset(session.State{Algorithm: "quick", Input: []float64{1, 8, 4}})
	buf.Reset()

	r.Render(steps.Record{
		Seq:         1,
		Snapshot:    steps.Snapshot{1, 8, 4},
		Roles:       steps.Roles{steps.Compared: {1}, steps.Swapped: {2}},
		Description: "Comparing 8",
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != barRows+1 {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), barRows+1, buf.String())
	}
	chart := lines[1:]
	if !strings.Contains(chart[0], "?") {
		t.Errorf("tallest bar should be topped with the compared mark: %q", chart[0])
	}
	if !strings.Contains(buf.String(), "*") {
		t.Error("swapped bar mark missing")
	}
	if chart[barRows-1][0] != '#' {
		t.Errorf("smallest value should still draw one cell: %q", chart[barRows-1])
	}
}

func TestBounds(t *testing.T) {
	lo, hi := bounds([]float64{3, -2, 7})
	if lo != -2 || hi != 7 {
		t.Errorf("bounds = %v,%v", lo, hi)
	}
	if lo, hi := bounds(nil); lo != 0 || hi != 0 {
		t.Errorf("empty bounds = %v,%v", lo, hi)
	}
}

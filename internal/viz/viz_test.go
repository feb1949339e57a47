package viz

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/steps"
)

func TestScale(t *testing.T) {
	got := scale([]float64{1, 5, 3}, 9)
	want := []int{1, 9, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scale = %v, want %v", got, want)
		}
	}

	flat := scale([]float64{2, 2}, 10)
	if flat[0] != 5 || flat[1] != 5 {
		t.Errorf("equal values should sit mid-height, got %v", flat)
	}
}

func TestSortedness(t *testing.T) {
	tests := []struct {
		snap   steps.Snapshot
		sorted []float64
		want   float64
	}{
		{steps.Snapshot{1, 2, 3, 4}, []float64{1, 2, 3, 4}, 1},
		{steps.Snapshot{4, 2, 3, 1}, []float64{1, 2, 3, 4}, 0.5},
		{steps.Snapshot{}, []float64{}, 0},
		{steps.Snapshot{1}, []float64{1, 2}, 0},
	}
	for _, tt := range tests {
		if got := Sortedness(tt.snap, tt.sorted); got != tt.want {
			t.Errorf("Sortedness(%v) = %v, want %v", tt.snap, got, tt.want)
		}
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("ocean theme not found")
	}
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme should fall back to cyberpunk")
	}

	seen := map[string]bool{}
	th := ThemeCyberpunk
	for range Themes {
		seen[th.Name] = true
		th = th.Next()
	}
	if len(seen) != len(Themes) || th.Name != ThemeCyberpunk.Name {
		t.Errorf("Next should cycle through all themes, saw %v", seen)
	}

	roles := steps.Roles{steps.Compared: {0}, steps.Swapped: {0, 1}}
	if c := ThemeRetro.RoleColor(roles.Of(0)); c != ThemeRetro.Compared {
		t.Errorf("compared should win over swapped, got %v", c)
	}
	if c := ThemeRetro.RoleColor(roles.Of(2)); c != ThemeRetro.Bar {
		t.Errorf("untagged index should use bar colour, got %v", c)
	}
}

func TestHexRoundTrip(t *testing.T) {
	r, g, b := parseHex("#0a80ff")
	if r != 10 || g != 128 || b != 255 {
		t.Fatalf("parseHex = %d,%d,%d", r, g, b)
	}
	if got := hexColor(r, g, b); got != "#0a80ff" {
		t.Errorf("hexColor = %s", got)
	}
	if got := hexColor(-5, 300, 0); got != "#00ff00" {
		t.Errorf("hexColor should clamp, got %s", got)
	}
	if r, _, _ := parseHex("bad"); r != 255 {
		t.Errorf("invalid hex should fall back to white")
	}
}

func TestRenderBars(t *testing.T) {
	out := RenderBars(steps.Snapshot{3, 1, 2}, steps.Roles{steps.Compared: {0, 1}}, ThemeMinimal)
	lines := strings.Split(out, "\n")
	if len(lines) != barHeight+1 {
		t.Fatalf("got %d lines, want %d", len(lines), barHeight+1)
	}
	for _, label := range []string{"3", "1", "2"} {
		if !strings.Contains(lines[len(lines)-1], label) {
			t.Errorf("value row missing %s: %q", label, lines[len(lines)-1])
		}
	}
}

func TestBridgeOrder(t *testing.T) {
	b := NewBridge()
	b.Reset(session.State{Algorithm: "bubble"})
	b.Render(steps.Record{Seq: 1})
	b.Finish(session.Result{Steps: 1})

	if _, ok := b.Listen()().(resetMsg); !ok {
		t.Error("first message should be reset")
	}
	if msg, ok := b.Listen()().(stepMsg); !ok || msg.Seq != 1 {
		t.Error("second message should be step 1")
	}
	if _, ok := b.Listen()().(finishMsg); !ok {
		t.Error("third message should be finish")
	}

	b.Write([]byte("  🔊 Comparing 5 and 3\n"))
	if msg, ok := b.Listen()().(speechMsg); !ok || !strings.Contains(string(msg), "Comparing 5 and 3") {
		t.Errorf("narration should arrive as speech, got %v", msg)
	}

	b.Close()
	b.Close()
	if msg := b.Listen()(); msg != nil {
		t.Errorf("closed bridge should yield nil, got %T", msg)
	}
}

func TestModelUpdate(t *testing.T) {
	ctrl := session.New([]float64{3, 1, 2})
	var m Model = NewModel(context.Background(), ctrl, NewBridge(), "bubble", ThemeCyberpunk)

	next, _ := m.Update(resetMsg(session.State{Algorithm: "bubble", Input: []float64{3, 1, 2}}))
	m = next.(Model)
	if !m.running || len(m.target) != 3 || m.target[0] != 1 {
		t.Fatalf("reset not applied: running=%v target=%v", m.running, m.target)
	}

	for i := 1; i <= logCapacity+2; i++ {
		next, _ = m.Update(stepMsg(steps.Record{Seq: i, Snapshot: steps.Snapshot{1, 2, 3}, Description: "x"}))
		m = next.(Model)
	}
	if len(m.log) != logCapacity {
		t.Errorf("log should be capped at %d, got %d", logCapacity, len(m.log))
	}
	if m.state.Step != logCapacity+2 {
		t.Errorf("step = %d", m.state.Step)
	}

	next, _ = m.Update(finishMsg(session.Result{Sorted: []float64{1, 2, 3}}))
	m = next.(Model)
	if !strings.HasSuffix(m.log[len(m.log)-1], "[1,2,3]") {
		t.Errorf("last log line = %q", m.log[len(m.log)-1])
	}

	next, _ = m.Update(doneMsg{bridge: m.bridge, err: context.Canceled})
	m = next.(Model)
	if m.running || m.Err() != nil {
		t.Errorf("cancelled run should stop without error, err=%v", m.Err())
	}
	if !strings.Contains(m.View(), "SORTED") {
		t.Error("view should show sorted status")
	}
	m.Stop()
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuFlow(t *testing.T) {
	var got []float64
	factory := func(values []float64, speech io.Writer) *session.Controller {
		got = values
		return session.New(values)
	}
	var tm tea.Model = NewMenu(context.Background(), []string{"bubble", "quick"}, "3,1", ThemeOcean, factory)

	send := func(k string) tea.Cmd {
		var cmd tea.Cmd
		tm, cmd = tm.Update(key(k))
		return cmd
	}

	send("down")
	send("enter")
	m := tm.(menu)
	if m.cursor != 1 || m.state != stateInput {
		t.Fatalf("cursor=%d state=%d", m.cursor, m.state)
	}

	send("x")
	send("backspace")
	send("enter")
	m = tm.(menu)
	if m.input != "3," || m.inputErr == nil || m.state != stateInput {
		t.Fatalf("invalid input should keep the editor open: input=%q err=%v", m.input, m.inputErr)
	}

	send("tab")
	m = tm.(menu)
	want, _ := config.GetPreset(config.ListPresets()[0])
	if m.input != want {
		t.Fatalf("tab should load the first preset, got %q", m.input)
	}

	if cmd := send("enter"); cmd == nil {
		t.Fatal("starting a run should return a command")
	}
	m = tm.(menu)
	if m.state != stateRun || m.live.algorithm != "quick" || len(got) == 0 {
		t.Fatalf("run not started: state=%d algorithm=%s values=%v", m.state, m.live.algorithm, got)
	}

	send("q")
	if tm.(menu).state != stateMenu {
		t.Error("q should return to the menu")
	}
}

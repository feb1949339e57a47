package viz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/steps"
)

const (
	logCapacity = 8
	speedStep   = 100 * time.Millisecond
	maxSpeed    = 5 * time.Second
)

// Model drives one controller and shows its steps as coloured bars.
type Model struct {
	ctx       context.Context
	ctrl      *session.Controller
	bridge    *Bridge
	algorithm string
	theme     Theme

	state    session.State
	current  steps.Record
	target   []float64
	log      []string
	speech   string
	result   *session.Result
	err      error
	running  bool
	showHelp bool
	width    int
}

// NewModel wires bridge into ctrl as a renderer. The run starts from Init.
func NewModel(ctx context.Context, ctrl *session.Controller, bridge *Bridge, algorithm string, theme Theme) Model {
	ctrl.AddRenderer(bridge)
	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		bridge:    bridge,
		algorithm: algorithm,
		theme:     theme,
		width:     80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.Listen(), m.start())
}

func (m Model) start() tea.Cmd {
	ctx, ctrl, bridge, algorithm := m.ctx, m.ctrl, m.bridge, m.algorithm
	return func() tea.Msg {
		_, err := ctrl.Start(ctx, algorithm)
		return doneMsg{bridge: bridge, err: err}
	}
}

// Stop cancels the run and releases the bridge.
func (m Model) Stop() {
	m.ctrl.Cancel()
	m.bridge.Close()
}

// Err returns the error that ended the last run, if any.
func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case resetMsg:
		m.state = session.State(msg)
		m.running = true
		m.result, m.err = nil, nil
		m.log = m.log[:0]
		m.speech = ""
		m.current = steps.Record{Snapshot: steps.Snapshot(m.state.Input)}
		m.target = sortedCopy(m.state.Input)
		return m, m.bridge.Listen()
	case stepMsg:
		m.current = steps.Record(msg)
		m.state.Step = m.current.Seq
		m.appendLog(fmt.Sprintf("Step %d: %s", m.current.Seq, m.current.Description))
		return m, m.bridge.Listen()
	case finishMsg:
		res := session.Result(msg)
		m.result = &res
		m.appendLog("Final sorted array is: [" + steps.FormatList(res.Sorted, ",") + "]")
		return m, m.bridge.Listen()
	case speechMsg:
		m.speech = string(msg)
		return m, m.bridge.Listen()
	case doneMsg:
		if msg.bridge != m.bridge {
			return m, nil
		}
		m.running = false
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.err = msg.err
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Stop()
		return m, tea.Quit
	case " ":
		if m.ctrl.State().Paused {
			m.ctrl.Resume()
		} else {
			m.ctrl.Pause()
		}
	case "+", "=":
		m.ctrl.SetSpeed(m.ctrl.Speed() - speedStep)
	case "-", "_":
		m.ctrl.SetSpeed(min(m.ctrl.Speed()+speedStep, maxSpeed))
	case "v":
		m.ctrl.ToggleVoice()
	case "t":
		m.theme = m.theme.Next()
	case "r":
		if !m.running {
			return m, m.start()
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) appendLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > logCapacity {
		m.log = m.log[1:]
	}
}

func sortedCopy(vals []float64) []float64 {
	out := append([]float64(nil), vals...)
	sort.Float64s(out)
	return out
}

func (m Model) View() string {
	ctrlState := m.ctrl.State()

	var s strings.Builder
	title := strings.ToUpper(m.algorithm) + " SORT"
	s.WriteString(GradientText(title, m.theme.Title, m.theme.TitleEnd) + "\n")
	if desc := sorting.Describe(m.algorithm); desc != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).Render(desc) + "\n")
	}
	s.WriteString("\n")

	s.WriteString(RenderBars(m.current.Snapshot, m.current.Roles, m.theme) + "\n\n")

	status := statusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = statusError.Render("ERROR")
	case m.result != nil && !m.running:
		status = statusDone.Render("SORTED")
	case ctrlState.Paused:
		status = statusPaused.Render("PAUSED")
	case !m.running:
		status = statusPaused.Render("STOPPED")
	}
	voice := "off"
	if ctrlState.Voice {
		voice = "on"
	}
	s.WriteString(fmt.Sprintf("%s  %s %s  %s %s  %s %s\n",
		status,
		labelStyle.Render("step"), valueStyle.Render(fmt.Sprint(m.state.Step)),
		labelStyle.Render("speed"), valueStyle.Render(ctrlState.Speed.String()),
		labelStyle.Render("voice"), valueStyle.Render(voice),
	))
	s.WriteString(labelStyle.Render("sorted ") + ProgressBar(Sortedness(m.current.Snapshot, m.target), 30) + "\n\n")

	if m.speech != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Updated).Render(m.speech) + "\n")
	}
	s.WriteString(Panel("STEPS", strings.Join(m.log, "\n"), min(m.width-4, 76)) + "\n")
	if m.err != nil {
		s.WriteString(statusError.Render(m.err.Error()) + "\n")
	}

	if m.showHelp {
		s.WriteString(keyHint.Render("space pause/resume · +/- faster/slower · v voice · t theme · r rerun · q quit") + "\n")
	} else {
		s.WriteString(keyHint.Render("? help") + "\n")
	}
	return s.String()
}

package viz

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorting"
)

const (
	stateMenu = iota
	stateInput
	stateRun
)

// ControllerFactory builds a fresh controller for each run. Narration text
// written to speech is shown in the view.
type ControllerFactory func(input []float64, speech io.Writer) *session.Controller

type menu struct {
	ctx        context.Context
	newCtrl    ControllerFactory
	theme      Theme
	state      int
	cursor     int
	algorithms []string
	presets    []string
	preset     int
	input      string
	inputErr   error
	live       Model
	width      int
}

// NewMenu returns the interactive launcher: pick an algorithm, edit the
// array, watch it sort, and come back with q.
func NewMenu(ctx context.Context, algorithms []string, input string, theme Theme, newCtrl ControllerFactory) tea.Model {
	return menu{
		ctx:        ctx,
		newCtrl:    newCtrl,
		theme:      theme,
		algorithms: algorithms,
		presets:    config.ListPresets(),
		preset:     -1,
		input:      input,
		width:      80,
	}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateInput:
			return m.inputKey(msg)
		case stateRun:
			return m.runKey(msg)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.state == stateRun {
			next, cmd := m.live.Update(msg)
			m.live = next.(Model)
			return m, cmd
		}
	default:
		if m.state == stateRun {
			next, cmd := m.live.Update(msg)
			m.live = next.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m menu) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.algorithms)-1 {
			m.cursor++
		}
	case "t":
		m.theme = m.theme.Next()
	case "enter", " ":
		m.state = stateInput
		m.inputErr = nil
	}
	return m, nil
}

func (m menu) inputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "tab":
		if len(m.presets) > 0 {
			m.preset = (m.preset + 1) % len(m.presets)
			m.input, _ = config.GetPreset(m.presets[m.preset])
		}
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case "enter":
		values, err := config.ParseArray(m.input)
		if err != nil {
			m.inputErr = err
			return m, nil
		}
		bridge := NewBridge()
		m.live = NewModel(m.ctx, m.newCtrl(values, bridge), bridge, m.algorithms[m.cursor], m.theme)
		m.live.width = m.width
		m.state = stateRun
		return m, m.live.Init()
	default:
		if len(msg.Runes) == 1 && strings.ContainsRune("0123456789.,- eE", msg.Runes[0]) {
			m.input += string(msg.Runes)
			m.inputErr = nil
		}
	}
	return m, nil
}

func (m menu) runKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.live.Stop()
		return m, tea.Quit
	case "q", "esc":
		m.live.Stop()
		m.theme = m.live.theme
		m.state = stateMenu
		return m, nil
	}
	next, cmd := m.live.Update(msg)
	m.live = next.(Model)
	return m, cmd
}

func (m menu) View() string {
	if m.state == stateRun {
		return m.live.View()
	}

	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	active := lipgloss.NewStyle().Foreground(m.theme.Compared).Bold(true)

	var s strings.Builder
	s.WriteString(GradientText("SORTVIZ", m.theme.Title, m.theme.TitleEnd) + "\n\n")
	for i, name := range m.algorithms {
		line := fmt.Sprintf("%-10s %s", name, muted.Render(sorting.Describe(name)))
		if i == m.cursor {
			s.WriteString(active.Render("> "+name) + strings.TrimPrefix(line, name) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	if m.state == stateInput {
		s.WriteString("\n" + labelStyle.Render("array ") + valueStyle.Render(m.input) + active.Render("▌") + "\n")
		if m.preset >= 0 {
			s.WriteString(muted.Render("preset: "+m.presets[m.preset]) + "\n")
		}
		if m.inputErr != nil {
			s.WriteString(statusError.Render(m.inputErr.Error()) + "\n")
		}
		s.WriteString(keyHint.Render("\nenter start · tab preset · esc back") + "\n")
		return s.String()
	}
	s.WriteString(keyHint.Render("\n↑↓ select · enter choose · t theme · q quit") + "\n")
	return s.String()
}

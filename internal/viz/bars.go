package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/sortviz/internal/steps"
)

const (
	barHeight = 12
	barWidth  = 3
	maxBars   = 40
)

// RenderBars draws one vertical bar per value, coloured by its roles, with
// the values printed underneath.
func RenderBars(snap steps.Snapshot, roles steps.Roles, theme Theme) string {
	if len(snap) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Muted).Render("(empty)")
	}
	if len(snap) > maxBars {
		snap = snap[:maxBars]
	}

	heights := scale(snap, barHeight)
	styles := make([]lipgloss.Style, len(snap))
	for i := range snap {
		styles[i] = lipgloss.NewStyle().Foreground(theme.RoleColor(roles.Of(i)))
	}

	var b strings.Builder
	for row := barHeight; row >= 1; row-- {
		for i, h := range heights {
			cell := strings.Repeat(" ", barWidth)
			if h >= row {
				cell = styles[i].Render(strings.Repeat("█", barWidth-1)) + " "
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	for i, v := range snap {
		label := steps.FormatValue(v)
		if len(label) >= barWidth {
			label = label[:barWidth-1]
		}
		b.WriteString(styles[i].Render(label + strings.Repeat(" ", barWidth-len(label))))
	}
	return b.String()
}

// scale maps values onto 1..height, keeping the smallest value visible.
func scale(vals []float64, height int) []int {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make([]int, len(vals))
	rng := hi - lo
	for i, v := range vals {
		if rng == 0 {
			out[i] = height / 2
			continue
		}
		out[i] = 1 + int((v-lo)/rng*float64(height-1)+0.5)
	}
	return out
}

// Sortedness is the fraction of positions already holding their final value.
func Sortedness(snap steps.Snapshot, sorted []float64) float64 {
	if len(snap) == 0 || len(snap) != len(sorted) {
		return 0
	}
	n := 0
	for i := range snap {
		if snap[i] == sorted[i] {
			n++
		}
	}
	return float64(n) / float64(len(snap))
}

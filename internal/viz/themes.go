package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/sortviz/internal/steps"
)

// Theme maps step roles to colours.
type Theme struct {
	Name     string
	Title    lipgloss.Color
	TitleEnd lipgloss.Color
	Bar      lipgloss.Color
	Compared lipgloss.Color
	Swapped  lipgloss.Color
	Left     lipgloss.Color
	Right    lipgloss.Color
	Updated  lipgloss.Color
	Muted    lipgloss.Color
	Text     lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Title:    lipgloss.Color("#ff00ff"),
		TitleEnd: lipgloss.Color("#00ffff"),
		Bar:      lipgloss.Color("#5f5f87"),
		Compared: lipgloss.Color("#ffff00"),
		Swapped:  lipgloss.Color("#ff0055"),
		Left:     lipgloss.Color("#00ffff"),
		Right:    lipgloss.Color("#ff00ff"),
		Updated:  lipgloss.Color("#00ff88"),
		Muted:    lipgloss.Color("#666688"),
		Text:     lipgloss.Color("#ffffff"),
	}

	ThemeRetro = Theme{
		Name:     "retro",
		Title:    lipgloss.Color("#00ff00"),
		TitleEnd: lipgloss.Color("#88ff88"),
		Bar:      lipgloss.Color("#005500"),
		Compared: lipgloss.Color("#ffff00"),
		Swapped:  lipgloss.Color("#ff0000"),
		Left:     lipgloss.Color("#00cc00"),
		Right:    lipgloss.Color("#88ff88"),
		Updated:  lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#007700"),
		Text:     lipgloss.Color("#00ff00"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Title:    lipgloss.Color("#0077be"),
		TitleEnd: lipgloss.Color("#ffd700"),
		Bar:      lipgloss.Color("#4488aa"),
		Compared: lipgloss.Color("#ffcc00"),
		Swapped:  lipgloss.Color("#ff4444"),
		Left:     lipgloss.Color("#00a8cc"),
		Right:    lipgloss.Color("#0055aa"),
		Updated:  lipgloss.Color("#00ff88"),
		Muted:    lipgloss.Color("#4488aa"),
		Text:     lipgloss.Color("#e0f0ff"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Title:    lipgloss.Color("#ffffff"),
		TitleEnd: lipgloss.Color("#888888"),
		Bar:      lipgloss.Color("#888888"),
		Compared: lipgloss.Color("#0088ff"),
		Swapped:  lipgloss.Color("#ff0000"),
		Left:     lipgloss.Color("#cccccc"),
		Right:    lipgloss.Color("#aaaaaa"),
		Updated:  lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#555555"),
		Text:     lipgloss.Color("#ffffff"),
	}

	Themes = []Theme{ThemeCyberpunk, ThemeRetro, ThemeOcean, ThemeMinimal}
)

// GetTheme returns the named theme, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t in Themes.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// RoleColor picks the colour of the first role in priority order.
func (t Theme) RoleColor(roles []steps.Role) lipgloss.Color {
	if len(roles) == 0 {
		return t.Bar
	}
	switch roles[0] {
	case steps.Compared:
		return t.Compared
	case steps.Swapped:
		return t.Swapped
	case steps.Left:
		return t.Left
	case steps.Right:
		return t.Right
	case steps.Updated:
		return t.Updated
	}
	return t.Bar
}

package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/chromasim/internal/render"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Solvent lipgloss.Color // replaces black on dark terminals
	Warning lipgloss.Color
}

var (
	ThemeSilica = Theme{
		Name:    "silica",
		Accent:  lipgloss.Color("#00ccff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888899"),
		Border:  lipgloss.Color("#444466"),
		Solvent: lipgloss.Color("#cccccc"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeIodine = Theme{
		Name:    "iodine",
		Accent:  lipgloss.Color("#cc8844"),
		Text:    lipgloss.Color("#fff5e6"),
		Muted:   lipgloss.Color("#8b6b4c"),
		Border:  lipgloss.Color("#5a3d24"),
		Solvent: lipgloss.Color("#ffddaa"),
		Warning: lipgloss.Color("#ff4757"),
	}

	ThemeUV = Theme{
		Name:    "uv",
		Accent:  lipgloss.Color("#bb88ff"),
		Text:    lipgloss.Color("#eeeeff"),
		Muted:   lipgloss.Color("#6655aa"),
		Border:  lipgloss.Color("#332266"),
		Solvent: lipgloss.Color("#88ffcc"),
		Warning: lipgloss.Color("#ffff00"),
	}

	CurrentTheme = ThemeSilica

	Themes = []Theme{ThemeSilica, ThemeIodine, ThemeUV}
)

// GetTheme returns a theme by name, the default for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSilica
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// LaneStyles returns one style per palette color for t. The solvent's
// black is swapped for t.Solvent.
func LaneStyles(t Theme) []lipgloss.Style {
	styles := make([]lipgloss.Style, len(render.Palette))
	for i, c := range render.Palette {
		col := lipgloss.Color(hexColor(int(c.R), int(c.G), int(c.B)))
		if i == 0 {
			col = t.Solvent
		}
		styles[i] = lipgloss.NewStyle().Foreground(col)
	}
	return styles
}

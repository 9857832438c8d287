package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/emsim/internal/sim"
)

// Theme colors the live view. Electric and Magnetic tint the field arrows.
type Theme struct {
	Name     string
	Electric lipgloss.Color
	Magnetic lipgloss.Color
	Border   lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
}

// Available themes
var (
	// ThemeField brightens the renderer's base colors to terminal range.
	ThemeField = Theme{
		Name:     "field",
		Electric: SimColor(sim.ElectricColor.Scale(2)),
		Magnetic: SimColor(sim.MagneticColor.Scale(2)),
		Border:   SimColor(sim.BorderColor),
		Accent:   lipgloss.Color("#00ccff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666688"),
		Warning:  lipgloss.Color("#ff8800"),
	}

	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Electric: lipgloss.Color("#ff00ff"), // Magenta
		Magnetic: lipgloss.Color("#00ffff"), // Cyan
		Border:   lipgloss.Color("#ffff00"),
		Accent:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Warning:  lipgloss.Color("#ff8800"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Electric: lipgloss.Color("#00ff00"), // Green phosphor
		Magnetic: lipgloss.Color("#88ff88"),
		Border:   lipgloss.Color("#005500"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Warning:  lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Electric: lipgloss.Color("#ffd700"),
		Magnetic: lipgloss.Color("#00a8cc"),
		Border:   lipgloss.Color("#4488aa"),
		Accent:   lipgloss.Color("#0077be"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Warning:  lipgloss.Color("#ffcc00"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Electric: lipgloss.Color("#ff6b6b"), // Coral
		Magnetic: lipgloss.Color("#feca57"),
		Border:   lipgloss.Color("#8b6b8c"),
		Accent:   lipgloss.Color("#ff9ff3"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Warning:  lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{
		ThemeField,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
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

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// InkStyle returns the foreground style for one canvas layer.
func (t Theme) InkStyle(ink Ink) lipgloss.Style {
	switch ink {
	case InkElectric:
		return lipgloss.NewStyle().Foreground(t.Electric)
	case InkMagnetic:
		return lipgloss.NewStyle().Foreground(t.Magnetic)
	case InkBorder:
		return lipgloss.NewStyle().Foreground(t.Border)
	}
	return lipgloss.NewStyle().Foreground(t.Muted)
}

// SimColor converts a renderer color with channels in [0, 1] to hex.
func SimColor(c sim.Color) lipgloss.Color {
	ch := func(v float32) int { return int(v*255 + 0.5) }
	return lipgloss.Color(hexColor(ch(c[0]), ch(c[1]), ch(c[2])))
}

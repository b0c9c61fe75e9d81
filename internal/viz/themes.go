package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme of the live view. Lanes take their dot
// colour from Lanes in order, wrapping around.
type Theme struct {
	Name    string
	Lanes   []lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Divider lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

func (t Theme) LaneColor(i int) lipgloss.Color {
	if len(t.Lanes) == 0 {
		return t.Text
	}
	return t.Lanes[i%len(t.Lanes)]
}

var (
	ThemeClassic = Theme{
		Name: "classic",
		// cyan for the pseudorandom side, orange for the high-entropy side
		Lanes:   []lipgloss.Color{"#00ffc8", "#ff6432", "#c8a0ff", "#ffe066"},
		Text:    lipgloss.Color("#969696"),
		Muted:   lipgloss.Color("#5a5a5a"),
		Divider: lipgloss.Color("#323232"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffaa00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Lanes:   []lipgloss.Color{"#00ff00", "#88ff88", "#00cc00"},
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Divider: lipgloss.Color("#003300"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Lanes:   []lipgloss.Color{"#ff6b6b", "#feca57", "#ff9ff3"},
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Divider: lipgloss.Color("#4a2f4b"),
		Success: lipgloss.Color("#5fd068"),
		Warning: lipgloss.Color("#ffc048"),
		Error:   lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// NextTheme returns the theme after current in Themes.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
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

package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a colour scheme for the live view and the SVG snapshots. Bodies
// are coloured by ID, cycling through Bodies.
type Theme struct {
	Name       string
	Frame      lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Warning    lipgloss.Color
	Bodies     []lipgloss.Color
}

// BodyColor returns the colour of the body with the given ID.
func (t Theme) BodyColor(id int) lipgloss.Color {
	if len(t.Bodies) == 0 {
		return t.Text
	}
	i := id % len(t.Bodies)
	if i < 0 {
		i += len(t.Bodies)
	}
	return t.Bodies[i]
}

// Palette returns the body colours as hex strings.
func (t Theme) Palette() []string {
	out := make([]string, len(t.Bodies))
	for i, c := range t.Bodies {
		out[i] = string(c)
	}
	return out
}

var (
	ThemeClassic = Theme{
		Name:       "classic",
		Frame:      lipgloss.Color("#0064ff"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Accent:     lipgloss.Color("#00ccff"),
		Warning:    lipgloss.Color("#ffaa00"),
		Bodies: []lipgloss.Color{
			"#ff0000", "#0064ff", "#00d26a", "#ffd400", "#ff66cc", "#00e5ff", "#ff8c00", "#b388ff",
		},
	}

	ThemeNeon = Theme{
		Name:       "neon",
		Frame:      lipgloss.Color("#ff00ff"),
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Accent:     lipgloss.Color("#00ffff"),
		Warning:    lipgloss.Color("#ff8800"),
		Bodies: []lipgloss.Color{
			"#00ffff", "#ffff00", "#ff00ff", "#00ff00", "#ff3366", "#66aaff",
		},
	}

	ThemeRetro = Theme{
		Name:       "retro",
		Frame:      lipgloss.Color("#00cc00"),
		Background: lipgloss.Color("#001100"),
		Text:       lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Accent:     lipgloss.Color("#88ff88"),
		Warning:    lipgloss.Color("#ffff00"),
		Bodies: []lipgloss.Color{
			"#00ff00", "#88ff88", "#00aa00", "#ccffcc",
		},
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Frame:      lipgloss.Color("#0077be"),
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Accent:     lipgloss.Color("#ffd700"),
		Warning:    lipgloss.Color("#ffcc00"),
		Bodies: []lipgloss.Color{
			"#00a8cc", "#ffd700", "#00ff88", "#7fdbff", "#ff6f61",
		},
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Frame:      lipgloss.Color("#ff6b6b"),
		Background: lipgloss.Color("#2d1b2e"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Warning:    lipgloss.Color("#ffc048"),
		Bodies: []lipgloss.Color{
			"#feca57", "#ff9ff3", "#5fd068", "#ff4757", "#48dbfb",
		},
	}

	// Default theme
	CurrentTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeNeon,
		ThemeRetro,
		ThemeOcean,
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

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeClassic
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/experiment"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var presetInfo = map[string]string{
	"classic":     "two balls, the original demo",
	"billiards":   "equal disks on a lattice",
	"gas":         "many small fast disks",
	"heavy_light": "one heavy disk, four light",
	"crowded":     "dense random packing",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable config field.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var (
	paramWidth     = param{"width", func(c *config.Config) float64 { return c.Width }, func(c *config.Config, v float64) { c.Width = v }}
	paramHeight    = param{"height", func(c *config.Config) float64 { return c.Height }, func(c *config.Config, v float64) { c.Height = v }}
	paramCount     = param{"bodies", func(c *config.Config) float64 { return float64(c.Bodies.Count) }, func(c *config.Config, v float64) { c.Bodies.Count = int(v) }}
	paramSeed      = param{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = int64(v) }}
	paramRadiusMin = param{"radius_min", func(c *config.Config) float64 { return c.Bodies.RadiusMin }, func(c *config.Config, v float64) { c.Bodies.RadiusMin = v }}
	paramRadiusMax = param{"radius_max", func(c *config.Config) float64 { return c.Bodies.RadiusMax }, func(c *config.Config, v float64) { c.Bodies.RadiusMax = v }}
	paramSpeedMin  = param{"speed_min", func(c *config.Config) float64 { return c.Bodies.SpeedMin }, func(c *config.Config, v float64) { c.Bodies.SpeedMin = v }}
	paramSpeedMax  = param{"speed_max", func(c *config.Config) float64 { return c.Bodies.SpeedMax }, func(c *config.Config, v float64) { c.Bodies.SpeedMax = v }}
	paramFrameDt   = param{"frame_dt", func(c *config.Config) float64 { return c.FrameDt }, func(c *config.Config, v float64) { c.FrameDt = v }}
)

// paramsFor lists the fields worth editing for a scenario.
func paramsFor(scenario string) []param {
	switch scenario {
	case "random":
		return []param{paramCount, paramSeed, paramRadiusMin, paramRadiusMax, paramSpeedMin, paramSpeedMax, paramWidth, paramHeight, paramFrameDt}
	case "lattice":
		return []param{paramCount, paramSeed, paramRadiusMin, paramSpeedMin, paramWidth, paramHeight, paramFrameDt}
	default:
		return []param{paramWidth, paramHeight, paramFrameDt}
	}
}

type model struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	params        []param
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	width, height int
	liveModel     Model
}

func NewInteractiveApp() *model {
	return &model{
		state:   stateMenu,
		presets: config.ListPresets(),
		width:   80, height: 24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.state == stateSim {
			m.liveModel.resize(msg.Width, msg.Height)
		}
		return m, nil
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.params = paramsFor(m.cfg.Scenario)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[m.paramCursor].set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		p := m.params[m.paramCursor]
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(m.cfg), 'g', -1, 64)
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

// nudge steps the selected field by one unit, or a tenth for values below 1.
func (m *model) nudge(dir float64) {
	p := m.params[m.paramCursor]
	v := p.get(m.cfg)
	step := 1.0
	if v != 0 && v < 1 && v > -1 {
		step = 0.1 * v
	}
	p.set(m.cfg, v+dir*step)
}

func (m *model) start() tea.Cmd {
	exp, err := experiment.New(m.cfg)
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	m.liveModel = NewModel(exp.World(), exp.Generator(), m.selected, m.cfg.FrameDt)
	m.liveModel.resize(m.width, m.height)
	m.state = stateSim
	return m.liveModel.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("COLLISIM") + "\n    " + subStyle.Render("elastic disk collisions") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-14s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-14s", name)), idleStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.selected)) + "\n    " + subStyle.Render(presetInfo[m.selected]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, p := range m.params {
		valStr := fmt.Sprintf("%10.4g", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", p.name)), descStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", p.name)), idleStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}

package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxSpeed        = 8.0
	minSpeed        = 0.125
)

// DefaultGIFPath is where a recording is written when none is configured.
const DefaultGIFPath = "collisim.gif"

// Snapshot stores the bodies at a specific time for replay.
type Snapshot struct {
	Bodies     []dynamo.Body
	Time       float64
	Energy     float64
	Collisions int
}

type TickMsg time.Time

// Model drives a world from wall-clock ticks and renders it.
type Model struct {
	world         *dynamo.World
	gen           dynamo.Generator
	name          string
	frameDt       float64
	speed         float64
	t             float64
	lastTick      time.Time
	width, height int
	canvas        *Canvas
	running       bool
	initialEnergy float64
	stepHits      int
	energyHistory []float64
	hitHistory    []float64
	history       []Snapshot
	playHead      int
	recording     bool
	frames        []*image.Paletted
	gifPath       string
	showHelp      bool
	err           error
}

// NewModel wraps w for live display. gen is re-run on reset; it may be nil,
// in which case reset restores the bodies w held at construction.
func NewModel(w *dynamo.World, gen dynamo.Generator, name string, frameDt float64) Model {
	if !(frameDt > 0) {
		frameDt = 1.0 / 60
	}
	if gen == nil {
		initial := w.Bodies()
		gen = dynamo.GeneratorFunc(func(dynamo.Bounds) ([]dynamo.Body, error) { return initial, nil })
	}
	return Model{
		world:         w,
		gen:           gen,
		name:          name,
		frameDt:       frameDt,
		speed:         1,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		initialEnergy: w.TotalEnergy(),
		energyHistory: make([]float64, 0, historyCapacity),
		hitHistory:    make([]float64, 0, historyCapacity),
		history:       make([]Snapshot, 0, historyCapacity),
		playHead:      -1,
		gifPath:       DefaultGIFPath,
	}
}

// WithGIFPath sets where the g key writes its recording.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.frameDt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.speed = math.Min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = math.Max(m.speed/2, minSpeed)
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "g":
			if m.recording {
				m.err = m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		elapsed := m.frameDt
		if !m.lastTick.IsZero() {
			elapsed = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now

		if m.running {
			if m.playHead == -1 {
				m.advance(sim.ClampDt(elapsed, m.frameDt) * m.speed)
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance moves the world forward by dt, split into substeps no longer
// than one frame.
func (m *Model) advance(dt float64) {
	n := max(1, int(math.Ceil(dt/m.frameDt)))
	sub := dt / float64(n)
	m.stepHits = 0
	for range n {
		res, err := m.world.Step(sub)
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		m.stepHits += res.Collisions
		m.t += sub
	}

	energy := m.world.TotalEnergy()
	m.energyHistory = append(m.energyHistory, energy)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	m.hitHistory = append(m.hitHistory, float64(m.stepHits))
	if len(m.hitHistory) > historyCapacity {
		m.hitHistory = m.hitHistory[1:]
	}

	m.history = append(m.history, Snapshot{
		Bodies:     m.world.Bodies(),
		Time:       m.t,
		Energy:     energy,
		Collisions: m.world.TotalCollisions(),
	})
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset re-runs the generator and zeroes the clock and collision counter.
func (m *Model) reset() {
	if err := m.world.ResetFrom(m.gen); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.t = 0
	m.stepHits = 0
	m.initialEnergy = m.world.TotalEnergy()
	m.energyHistory = m.energyHistory[:0]
	m.hitHistory = m.hitHistory[:0]
	m.history = m.history[:0]
	m.playHead = -1
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsStyle.GetWidth()-6, 20)
	ch := max(h-4, 8)
	if cw == m.width && ch == m.height {
		return
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// current returns what the view shows: the live world or a replayed snapshot.
func (m *Model) current() Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return Snapshot{
		Bodies:     m.world.Bodies(),
		Time:       m.t,
		Energy:     m.world.TotalEnergy(),
		Collisions: m.world.TotalCollisions(),
	}
}

// scale maps world units to canvas sub-pixels, keeping one sub-pixel for
// the box outline on every side.
func (m *Model) scale() float64 {
	b := m.world.Bounds()
	sx := float64(m.canvas.SubWidth()-3) / b.Width
	sy := float64(m.canvas.SubHeight()-3) / b.Height
	return math.Min(sx, sy)
}

func (m *Model) draw() {
	m.canvas.Clear()
	b, s := m.world.Bounds(), m.scale()
	m.canvas.DrawRect(0, 0, int(b.Width*s)+2, int(b.Height*s)+2)
	for _, body := range m.current().Bodies {
		m.canvas.FillCircle(1+body.Position.X*s, 1+body.Position.Y*s, body.Radius*s, body.ID)
	}
}

func cellStyle(idx int) lipgloss.Style {
	if idx == NoColor {
		return lipgloss.NewStyle().Foreground(CurrentTheme.Frame)
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme.BodyColor(idx))
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusRecording.UnsetBlink().Render("ERROR")
	case m.playHead != -1:
		back := m.history[m.playHead].Time - m.history[len(m.history)-1].Time
		if m.running {
			return StatusPaused.Render(fmt.Sprintf("REPLAYING (%.1fs)", back))
		}
		return StatusPaused.Render(fmt.Sprintf("REPLAY PAUSED (%.1fs)", back))
	case !m.running:
		return StatusPaused.Render("PAUSED")
	case m.recording:
		return StatusRecording.Render("● REC")
	}
	return StatusRunning.Render("RUNNING")
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	snap := m.current()
	canvasView := canvasStyle.Render(m.canvas.Render(cellStyle))

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	drift := 0.0
	if m.initialEnergy > 0 {
		drift = (snap.Energy - m.initialEnergy) / m.initialEnergy
	}
	var p dynamo.Vec2
	for i := range snap.Bodies {
		p = p.Add(snap.Bodies[i].Momentum())
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Bodies", fmt.Sprintf("%d", len(snap.Bodies)))
	row("Energy", fmt.Sprintf("%.2f", snap.Energy))
	row("Drift", fmt.Sprintf("%+.2e", drift))
	row("Collisions", fmt.Sprintf("%d / %d", m.stepHits, snap.Collisions))
	row("Momentum", fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y))
	row("Speed", fmt.Sprintf("%gx", m.speed))
	row("Theme", CurrentTheme.Name)
	if len(m.hitHistory) > 0 {
		row("Hits", SparklineChart(m.hitHistory[max(0, len(m.hitHistory)-24):], 24))
	}
	if m.playHead != -1 {
		row("Replay", ProgressBar(float64(m.playHead+1)/float64(len(m.history)), 20))
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help\n[ ]:Replay +/-:Speed"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset bodies             ║
║  Q/Esc    - Quit                     ║
║  + / -    - Double / halve speed     ║
║  [        - Rewind (replay)          ║
║  ]        - Forward (replay)         ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// gifPalette is black, the frame colour, then the body colours.
func gifPalette() color.Palette {
	p := color.Palette{color.Black, hexColor(string(CurrentTheme.Frame))}
	for _, c := range CurrentTheme.Bodies {
		p = append(p, hexColor(string(c)))
	}
	return p
}

func hexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.White
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	dotW, dotH := charW/2, charH/4
	palette := gifPalette()
	img := image.NewPaletted(image.Rect(0, 0, m.width*charW, m.height*charH), palette)

	for row := 0; row < m.canvas.Height; row++ {
		for col := 0; col < m.canvas.Width; col++ {
			pattern := int(m.canvas.Grid[row][col] - 0x2800)
			if pattern == 0 {
				continue
			}
			idx := uint8(1)
			if c := m.canvas.Colors[row][col]; c != NoColor && len(CurrentTheme.Bodies) > 0 {
				n := len(CurrentTheme.Bodies)
				idx = uint8(2 + (c%n+n)%n)
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					baseX, baseY := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, idx)
						}
					}
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	delay := max(1, int(math.Round(m.frameDt*100)))
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return fmt.Errorf("create gif: %w", err)
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// RunLive opens the live view on w until the user quits.
func RunLive(w *dynamo.World, gen dynamo.Generator, name string, frameDt float64, gifPath string) error {
	m := NewModel(w, gen, name, frameDt)
	if gifPath != "" {
		m = m.WithGIFPath(gifPath)
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}

package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/emsim/internal/camera"
	"github.com/san-kum/emsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxStride       = 16

	// keyStep is the camera time applied per key event. Terminals report
	// presses only, so each event moves the camera by a fixed amount.
	keyStep = 0.1
)

type TickMsg time.Time

// Model is the bubbletea live view of a running field simulation.
type Model struct {
	sim           *sim.FieldsSimulator
	title         string
	frameDt       float32
	cam           *camera.Controller
	keys          *camera.KeyboardState
	bindings      camera.Bindings
	surface       *TermSurface
	theme         Theme
	running       bool
	ticks         int
	energyHistory []float64
	err           error
	showHelp      bool
	recording     bool
	frames        []*image.Paletted
	gifPath       string
}

func NewModel(s *sim.FieldsSimulator, title string, frameDt float32) Model {
	cam := camera.NewController()
	cam.Overview(s.Size())
	return Model{
		sim:           s,
		title:         title,
		frameDt:       frameDt,
		cam:           cam,
		keys:          camera.NewKeyboardState(),
		bindings:      camera.TerminalBindings(),
		surface:       NewTermSurface(NewCanvas(width, height)),
		theme:         Themes[0],
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		gifPath:       "emsim.gif",
	}
}

func (m Model) WithTheme(name string) Model {
	m.theme = GetTheme(name)
	return m
}

func (m Model) WithStride(stride int) Model {
	m.surface.Stride = min(max(stride, 1), maxStride)
	return m
}

func (m Model) Camera() *camera.Controller { return m.cam }
func (m Model) Surface() *TermSurface      { return m.surface }
func (m Model) Running() bool              { return m.running }
func (m Model) Err() error                 { return m.err }

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and advances the simulation one frame per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "t":
			m.theme = NextTheme(m.theme)
		case "+", "=":
			m.surface.Stride = max(m.surface.Stride-1, 1)
		case "-", "_":
			m.surface.Stride = min(m.surface.Stride+1, maxStride)
		case "r":
			m.cam.Overview(m.sim.Size())
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		default:
			if _, ok := m.bindings[camera.Key(key)]; ok {
				m.keys.Press(camera.Key(key))
			}
		}
	case tea.WindowSizeMsg:
		w, h := max(msg.Width-52, 20), max(msg.Height-4, 8)
		stride, cutoff := m.surface.Stride, m.surface.Cutoff
		m.surface = NewTermSurface(NewCanvas(w, h))
		m.surface.Stride, m.surface.Cutoff = stride, cutoff
	case TickMsg:
		m.step()
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.ticks++
	if in := m.keys.Snapshot(m.bindings); !in.Empty() {
		m.cam.Update(keyStep, in)
	}
	m.keys.Clear()

	if !m.running || m.err != nil {
		return
	}
	if err := m.sim.Update(m.frameDt); err != nil {
		m.err = err
		m.running = false
		return
	}
	e, h := m.sim.Field().Energy()
	m.energyHistory = append(m.energyHistory, e+h)
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) draw() {
	m.sim.Draw(m.surface, m.cam.ViewMatrix(m.surface.Aspect()))
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := canvasStyle.Render(m.surface.Canvas().Render(m.theme.InkStyle))

	var s strings.Builder
	s.WriteString(headerStyle(m.theme).Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Foreground(m.theme.Accent).Render(chart) + "\n")
	}
	s.WriteString(SparklineChart(m.energyHistory, 30) + "\n\n")

	e, h := m.sim.Field().Energy()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", m.sim.Frame()))
	row("Time", fmt.Sprintf("%.3f", m.sim.Time()))
	row("E energy", fmt.Sprintf("%.4g", e))
	row("H energy", fmt.Sprintf("%.4g", h))
	row("Total", fmt.Sprintf("%.4g", e+h))
	if e+h > 0 {
		row("E share", ProgressBar(e/(e+h), 16))
	}
	row("Backend", m.sim.Kernel().Name())
	row("Grid", m.sim.Size().String())
	row("Arrows", fmt.Sprintf("%d (stride %d)", m.surface.Drawn(), m.surface.Stride))
	p := m.cam.Position()
	row("Camera", fmt.Sprintf("%.1f %.1f %.1f", p[0], p[1], p[2]))
	row("Az/El", fmt.Sprintf("%.2f %.2f", m.cam.Azimuth(), m.cam.Elevation()))
	row("Theme", m.theme.Name)

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause Q:Quit R:Recenter\n←→↑↓:Look WASD:Move E/C:Up/Down\nT:Theme +/-:Density G:Record ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  ←/→      - Turn left/right          ║
║  ↑/↓      - Look up/down             ║
║  W/S      - Move forward/backward    ║
║  A/D      - Strafe left/right        ║
║  E/C      - Move up/down             ║
║  R        - Recenter camera          ║
║  +/-      - More/fewer arrows        ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("ERROR: " + m.err.Error())
	case m.recording:
		return errorStyle.Render("● REC")
	case m.running:
		return lipgloss.NewStyle().Foreground(m.theme.Accent).Render(AnimatedSpinner(m.ticks) + " RUNNING")
	}
	return lipgloss.NewStyle().Foreground(m.theme.Warning).Render("PAUSED")
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = m.frames[:0]
		return
	}
	m.recording = false
	if err := m.saveGIF(); err != nil {
		m.err = err
	}
	m.frames = nil
}

func (m *Model) palette() color.Palette {
	rgba := func(c lipgloss.Color) color.Color {
		var r, g, b uint8
		fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b)
		return color.RGBA{r, g, b, 255}
	}
	return color.Palette{color.Black, rgba(m.theme.Muted), rgba(m.theme.Electric), rgba(m.theme.Magnetic), rgba(m.theme.Border)}
}

// captureFrame rasterizes the braille canvas, one palette entry per ink.
func (m *Model) captureFrame() {
	const charW, charH = 8, 16
	c := m.surface.Canvas()
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), m.palette())
	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern <= 0 {
				continue
			}
			idx := uint8(c.Ink[row][col]) + 1
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(col*charW+dx*dotW+px, row*charH+dy*dotH+py, idx)
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
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

// Run starts the live view in the alternate screen and blocks until quit.
func Run(m Model) error {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/emsim/internal/config"
	"github.com/san-kum/emsim/internal/experiment"
)

var presetInfo = map[string]string{
	"wave_packet":  "gaussian packet, +z",
	"point_charge": "static 1/r² field",
	"uniform":      "constant fields",
	"small_wave":   "compact wave packet",
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one tunable setting on the config screen.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
	step float64
}

var params = []param{
	{"grid_x", func(c *config.Config) float64 { return float64(c.Grid.X) }, func(c *config.Config, v float64) { c.Grid.X = max(int(v), 1) }, 8},
	{"grid_y", func(c *config.Config) float64 { return float64(c.Grid.Y) }, func(c *config.Config, v float64) { c.Grid.Y = max(int(v), 1) }, 8},
	{"grid_z", func(c *config.Config) float64 { return float64(c.Grid.Z) }, func(c *config.Config, v float64) { c.Grid.Z = max(int(v), 1) }, 8},
	{"sub_steps", func(c *config.Config) float64 { return float64(c.SubSteps) }, func(c *config.Config, v float64) { c.SubSteps = max(int(v), 1) }, 1},
	{"time_scale", func(c *config.Config) float64 { return c.TimeScale }, func(c *config.Config, v float64) { c.TimeScale = max(v, 0.05) }, 0.05},
	{"wavelength", func(c *config.Config) float64 { return c.Wave.Wavelength }, func(c *config.Config, v float64) { c.Wave.Wavelength = max(v, 1) }, 1},
}

type model struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramCursor   int
	err           error
	exp           *experiment.Experiment
	liveModel     Model
}

// NewInteractiveApp starts at a preset menu. Choosing a preset opens its
// settings; starting launches the live view.
func NewInteractiveApp() model {
	return model{state: stateMenu, presets: config.ListPresets()}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
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
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	p := params[m.paramCursor]
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-p.step)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+p.step)
	case "s", "enter":
		return m.start()
	}
	return m, nil
}

func (m model) start() (model, tea.Cmd) {
	m.cfg.Frames = 0
	exp := experiment.New(m.cfg)
	if err := exp.Setup(); err != nil {
		m.err = err
		return m, nil
	}
	m.exp = exp
	m.liveModel = NewModel(exp.GetSimulator(), m.cfg.Scenario, float32(m.cfg.FrameDt))
	m.state = stateSim
	return m, m.liveModel.Init()
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

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("EMSIM") + "\n    " + subStyle.Render("maxwell field simulator") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-16s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-16s", name)), idleStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.cfg.Scenario)) + "\n    " + subStyle.Render(presetInfo[m.presets[m.cursor]]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, p := range params {
		valStr := fmt.Sprintf("%8.3f", p.get(m.cfg))
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", p.name)), descStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", p.name)), idleStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

// Close releases the kernel of a started session.
func (m model) Close() {
	if m.exp != nil {
		m.exp.Close()
	}
}

func RunInteractive() error {
	final, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	if fm, ok := final.(model); ok {
		fm.Close()
	}
	return err
}

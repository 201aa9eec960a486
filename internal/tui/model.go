// Package tui is a terminal viewer for the Potts lattice.
package tui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"potts-ca/internal/potts"
)

type tickMsg time.Time

// Model drives a potts.Sim from bubbletea ticks.
type Model struct {
	sim      *potts.Sim
	interval time.Duration
	paused   bool
	quitting bool
	status   string

	cellStyles  []lipgloss.Style
	statusStyle lipgloss.Style
	helpStyle   lipgloss.Style
}

// New returns a model that sweeps sim once per interval.
func New(sim *potts.Sim, interval time.Duration) Model {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return Model{
		sim:         sim,
		interval:    interval,
		cellStyles:  paletteStyles(sim.Palette()),
		statusStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		helpStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func paletteStyles(palette []color.RGBA) []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, c := range palette {
		hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
		styles[i] = lipgloss.NewStyle().Background(lipgloss.Color(hex))
	}
	return styles
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles keys and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			m.step()
		case "r":
			m.sim.Reset(m.sim.Config().Seed)
			m.status = "reset"
		case "+", "=":
			m.adjustTemperature(0.05)
		case "-", "_":
			m.adjustTemperature(-0.05)
		}
		return m, nil
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.sim.Step()
	if err := m.sim.Err(); err != nil {
		m.status = "halted: " + err.Error()
		m.paused = true
	}
}

func (m *Model) adjustTemperature(delta float64) {
	t := m.sim.Config().Params.Temperature + delta
	if m.sim.SetFloatParameter("temperature", t) {
		m.status = fmt.Sprintf("temperature %.2f", m.sim.Config().Params.Temperature)
	}
}

// View renders the lattice with row 0 at the bottom, two columns per site.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	size := m.sim.Size()
	cells := m.sim.Cells()
	for y := size.H - 1; y >= 0; y-- {
		row := cells[y*size.W : (y+1)*size.W]
		for x := 0; x < len(row); {
			v := row[x]
			run := 1
			for x+run < len(row) && row[x+run] == v {
				run++
			}
			b.WriteString(m.styleFor(v).Render(strings.Repeat("  ", run)))
			x += run
		}
		b.WriteByte('\n')
	}

	pop := m.sim.Population()
	state := "running"
	if m.paused {
		state = "paused"
	}
	if pop != nil {
		sum := pop.Summarize()
		b.WriteString(m.statusStyle.Render(fmt.Sprintf("t=%g  cells=%d  mean volume=%.2f  T=%.2f  %s",
			m.sim.Clock().Time(), sum.Cells, sum.MeanVolume, m.sim.Config().Params.Temperature, state)))
	}
	if m.status != "" {
		b.WriteString("  " + m.status)
	}
	b.WriteByte('\n')
	b.WriteString(m.helpStyle.Render("space pause  n step  r reset  +/- temperature  q quit"))
	return b.String()
}

func (m Model) styleFor(v uint8) lipgloss.Style {
	if int(v) < len(m.cellStyles) {
		return m.cellStyles[v]
	}
	return m.cellStyles[len(m.cellStyles)-1]
}

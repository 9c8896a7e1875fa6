package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"phaseplane/internal/dynamo"
	"phaseplane/internal/integrators"
	"phaseplane/internal/model"
)

const (
	liveWidth       = 70
	liveHeight      = 20
	historyCapacity = 600
	stepsPerFrame   = 4
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// LiveModel animates one predator-prey orbit in the terminal.
type LiveModel struct {
	sys     *model.LotkaVolterra
	integ   *integrators.RK4
	state   dynamo.State
	initial dynamo.State
	t, dt   float64

	xmax, ymax float64
	running    bool

	preyHistory []float64
	predHistory []float64
	h0          float64
}

func NewLiveModel(m *model.LotkaVolterra, x0 dynamo.State, dt, xmax, ymax float64) LiveModel {
	return LiveModel{
		sys:         m,
		integ:       integrators.NewRK4(),
		state:       x0.Clone(),
		initial:     x0.Clone(),
		dt:          dt,
		xmax:        xmax,
		ymax:        ymax,
		running:     true,
		preyHistory: make([]float64, 0, historyCapacity),
		predHistory: make([]float64, 0, historyCapacity),
		h0:          m.Invariant(x0),
	}
}

func (m LiveModel) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.state = m.initial.Clone()
			m.t = 0
			m.preyHistory = m.preyHistory[:0]
			m.predHistory = m.predHistory[:0]
		}
		return m, nil

	case TickMsg:
		if m.running {
			for i := 0; i < stepsPerFrame; i++ {
				m.state = m.integ.Step(m.sys, m.state, m.t, m.dt)
				m.t += m.dt
			}
			m.preyHistory = appendBounded(m.preyHistory, m.state[0])
			m.predHistory = appendBounded(m.predHistory, m.state[1])
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func appendBounded(hist []float64, v float64) []float64 {
	if len(hist) >= historyCapacity {
		hist = hist[1:]
	}
	return append(hist, v)
}

func (m LiveModel) View() string {
	c := NewCanvas(liveWidth, liveHeight, 0, m.xmax, 0, m.ymax)

	// Trail from the recorded history, head marked.
	for i := range m.preyHistory {
		c.Plot(m.preyHistory[i], m.predHistory[i])
	}
	c.Mark(m.state[0], m.state[1], '●')

	eqX, eqY := m.sys.Params().R2/m.sys.Params().Beta, m.sys.Params().R1/m.sys.Params().Alpha
	c.Mark(eqX, eqY, '+')

	drift := 0.0
	if m.h0 != 0 {
		h := m.sys.Invariant(m.state)
		drift = (h - m.h0) / m.h0
	}

	stats := strings.Join([]string{
		headerStyle.Render("lotka-volterra"),
		labelStyle.Render("t") + valueStyle.Render(fmt.Sprintf("%.2f", m.t)),
		labelStyle.Render("prey") + valueStyle.Render(fmt.Sprintf("%.4f", m.state[0])),
		labelStyle.Render("predator") + valueStyle.Render(fmt.Sprintf("%.4f", m.state[1])),
		labelStyle.Render("H drift") + valueStyle.Render(fmt.Sprintf("%+.2e", drift)),
	}, "\n")

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(c.String()),
		statsStyle.Render(stats),
	)

	var graphs string
	if len(m.preyHistory) > 2 {
		graphs = graphStyle.Render(
			asciigraph.Plot(m.preyHistory, asciigraph.Height(6), asciigraph.Width(90), asciigraph.Caption("prey")) +
				"\n" +
				asciigraph.Plot(m.predHistory, asciigraph.Height(6), asciigraph.Width(90), asciigraph.Caption("predator")))
	}

	help := helpStyle.Render("space pause · r reset · q quit")

	return main + "\n" + graphs + "\n" + help
}

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/moonsim/internal/dynamo"
	"github.com/san-kum/moonsim/internal/metrics"
	"github.com/san-kum/moonsim/internal/physics"
	"github.com/san-kum/moonsim/internal/viz"
)

var (
	cyan  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var planes = [][2]int{{0, 1}, {0, 2}, {1, 2}}

const historyLen = 60

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model steps a moon system one step per key press, or continuously when
// running.
type Model struct {
	initial dynamo.System
	current dynamo.System
	stepper *physics.Moons
	step    int
	running bool
	speed   int
	plane   int
	history []int64
	// repeatedAt is the first step at which the state matched the initial
	// one, or 0 if it has not yet.
	repeatedAt int
	canvas     *viz.Canvas

	width  int
	height int
}

func NewModel(initial dynamo.System) Model {
	m := Model{
		initial: initial.Clone(),
		current: initial.Clone(),
		stepper: physics.NewMoons(),
		speed:   1,
		history: []int64{metrics.TotalEnergy(initial)},
		width:   80,
		height:  24,
	}
	m.canvas = viz.NewCanvas(m.mapSize())
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas = viz.NewCanvas(m.mapSize())
		return m, nil
	case tickMsg:
		if !m.running {
			return m, nil
		}
		for i := 0; i < m.speed && m.running; i++ {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "n", "right", "l":
		m.advance()
	case " ":
		m.running = !m.running
		if m.running {
			return m, tick()
		}
	case "r":
		next := NewModel(m.initial)
		next.speed = m.speed
		next.plane = m.plane
		next.width, next.height = m.width, m.height
		next.canvas = viz.NewCanvas(next.mapSize())
		return next, tea.ClearScreen
	case "p":
		m.plane = (m.plane + 1) % len(planes)
	case "+", "=":
		m.speed = min(m.speed*2, 1024)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	}
	return m, nil
}

func (m *Model) advance() {
	m.stepper.Step(m.current)
	m.step++
	if m.repeatedAt == 0 && m.current.Equal(m.initial) {
		m.repeatedAt = m.step
		m.running = false
	}
	m.history = append(m.history, metrics.TotalEnergy(m.current))
	if len(m.history) > historyLen {
		m.history = m.history[len(m.history)-historyLen:]
	}
}

func (m Model) Step() int            { return m.step }
func (m Model) State() dynamo.System { return m.current.Clone() }
func (m Model) Repeated() bool       { return m.repeatedAt > 0 }
func (m Model) RepeatedAt() int      { return m.repeatedAt }

// mapSize fits the moon map inside the panel border and below the body list.
func (m Model) mapSize() (int, int) {
	w := clamp(m.width-4, 10, 200)
	h := clamp(m.height-len(m.initial)-10, 4, 60)
	return w, h
}

func (m Model) sparkWidth() int {
	return clamp(m.width-30, 10, historyLen)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("moonsim") + dim.Render(fmt.Sprintf("  step %d  speed x%d", m.step, m.speed)))
	if m.repeatedAt > 0 {
		b.WriteString("  " + green.Render(fmt.Sprintf("back at start after %d steps", m.repeatedAt)))
	}
	b.WriteString("\n\n")

	for _, body := range m.current {
		pot, kin := metrics.BodyEnergy(body)
		b.WriteString(white.Render(fmt.Sprintf("%d ", body.ID)))
		b.WriteString(body.String())
		b.WriteString(dim.Render(fmt.Sprintf("  pot %d kin %d", pot, kin)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viz.MetricLabel.Render("energy ") + viz.MetricValue.Render(fmt.Sprint(metrics.TotalEnergy(m.current))))
	b.WriteString("  " + viz.Sparkline(m.history, m.sparkWidth()) + "\n\n")

	pl := planes[m.plane]
	b.WriteString(dim.Render(fmt.Sprintf("%c/%c plane", "xyz"[pl[0]], "xyz"[pl[1]])) + "\n")
	m.canvas.DrawMoons(m.current, pl[0], pl[1])
	b.WriteString(viz.Panel.Render(strings.TrimSuffix(m.canvas.String(), "\n")))
	b.WriteString("\n")

	b.WriteString(viz.KeyHint.Render("n step · space run/pause · +/- speed · p plane · r reset · q quit"))
	return b.String()
}

// Run starts the viewer on the terminal.
func Run(initial dynamo.System) error {
	_, err := tea.NewProgram(NewModel(initial), tea.WithAltScreen()).Run()
	return err
}

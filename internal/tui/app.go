// Package tui is the terminal front-end. The scene is drawn on a braille
// dot matrix and driven by bubbletea ticks.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kbjakex/rollingball/internal/config"
	"github.com/kbjakex/rollingball/internal/fn"
	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/progress"
	"github.com/kbjakex/rollingball/internal/render"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type state int

const (
	stateMenu state = iota
	statePlay
)

// hudLines is the vertical space reserved under the canvas.
const hudLines = 6

// shared holds the fields written by simulator callbacks. The bubbletea
// model is copied by value on every update, so callbacks write here.
type shared struct {
	readout   string
	banner    string
	bannerWin bool
}

type model struct {
	cfg      *config.Config
	levels   []*game.Level
	progress *progress.Store

	state  state
	cursor int

	level   *game.Level
	sim     *game.Simulator
	surface *Surface
	driver  *render.Driver
	out     *shared

	input    []rune
	cond     []rune
	editCond bool

	width  int
	height int
}

// NewModel builds the initial menu model. prog may be nil.
func NewModel(cfg *config.Config, levels []*game.Level, prog *progress.Store) tea.Model {
	return model{
		cfg:      cfg,
		levels:   levels,
		progress: prog,
		out:      &shared{},
		width:    80,
		height:   24,
	}
}

// Run starts the bubbletea program and blocks until the player quits.
func Run(cfg *config.Config, levels []*game.Level, prog *progress.Store) error {
	p := tea.NewProgram(NewModel(cfg, levels, prog), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd { return nil }

type tickMsg time.Time

func tick() tea.Cmd {
	// One tick per simulation step keeps playing time true to the wall
	// clock.
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == statePlay {
			m.rebuildView()
		}
		return m, nil
	case tickMsg:
		if m.state != statePlay {
			return m, nil
		}
		m.driver.Tick(time.Now())
		return m, tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case statePlay:
		return m.playKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.levels)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.levels) > 0 {
			m.loadLevel(m.levels[m.cursor])
			return m, tea.Batch(tea.ClearScreen, tick())
		}
	}
	return m, nil
}

func (m *model) loadLevel(lv *game.Level) {
	m.level = lv
	out := m.out
	level := lv
	prog := m.progress
	var sim *game.Simulator
	sim = game.NewSimulator(lv, func(victory bool, seconds float64) {
		if !victory {
			out.banner = "the ball was lost. adjust your curves and try again"
			out.bannerWin = false
			return
		}
		score := level.ScorePercent(len(sim.ActiveGraphs()), seconds)
		out.banner = fmt.Sprintf("goal reached in %.2fs, score %d%%. enter for next level", seconds, score)
		out.bannerWin = true
		recordCompletion(prog, level.Name, score, seconds, sim.ActiveGraphs())
	})
	m.sim = sim
	m.state = statePlay
	m.input = nil
	m.cond = nil
	m.editCond = false
	m.out.banner = ""
	m.out.readout = render.FormatTime(0)
	m.rebuildView()
}

// rebuildView sizes the canvas to the terminal and scales the scene to fit.
func (m *model) rebuildView() {
	cols := m.width
	rows := m.height - hudLines
	if cols < 10 {
		cols = 10
	}
	if rows < 4 {
		rows = 4
	}
	m.surface = NewSurface(cols, rows)

	w, h := m.surface.Size()
	sx := w / (2 * game.LevelHalfWidth)
	sy := h / (2 * game.LevelHalfHeight)
	scale := sx
	if sy < sx {
		scale = sy
	}
	comp := render.NewCompositor(render.NewMapper(scale))
	out := m.out
	m.driver = render.NewDriver(m.sim, m.surface, comp, func(s string) { out.readout = s })
}

func recordCompletion(prog *progress.Store, level string, score int, seconds float64, graphs []*game.Graph) {
	if prog == nil {
		return
	}
	eqs := make([]progress.Equation, 0, len(graphs))
	for _, g := range graphs {
		formula, cond := g.Fn().Source()
		eqs = append(eqs, progress.Equation{Formula: formula, Condition: cond})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = prog.Add(ctx, level, score, seconds, eqs)
}

func (m model) playKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateMenu
		return m, tea.ClearScreen
	case "tab":
		m.editCond = !m.editCond
		return m, nil
	case "ctrl+r":
		m.sim.Reset()
		m.out.banner = ""
		return m, nil
	case "ctrl+d":
		if graphs := m.sim.ActiveGraphs(); len(graphs) > 0 {
			m.sim.RemoveGraph(graphs[len(graphs)-1])
		}
		return m, nil
	case "backspace":
		if m.editCond && len(m.cond) > 0 {
			m.cond = m.cond[:len(m.cond)-1]
		} else if !m.editCond && len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	case "enter":
		return m.enterKey()
	}

	// Everything printable is formula text, including q and space.
	for _, r := range msg.Runes {
		if r < 32 || r > 126 {
			continue
		}
		if m.editCond {
			m.cond = append(m.cond, r)
		} else {
			m.input = append(m.input, r)
		}
	}
	if msg.Type == tea.KeySpace {
		if m.editCond {
			m.cond = append(m.cond, ' ')
		} else {
			m.input = append(m.input, ' ')
		}
	}
	return m, nil
}

func (m model) enterKey() (tea.Model, tea.Cmd) {
	if m.sim.Done() {
		if next := m.level.Next(); next != nil {
			m.loadLevel(next)
			return m, tea.ClearScreen
		}
		m.state = stateMenu
		return m, tea.ClearScreen
	}
	if len(m.input) == 0 {
		m.sim.TogglePlaying()
		m.out.banner = ""
		return m, nil
	}
	f, err := fn.Parse(string(m.input), string(m.cond))
	if err != nil {
		m.out.banner = err.Error()
		m.out.bannerWin = false
		return m, nil
	}
	m.sim.AddGraph(f)
	m.input = nil
	m.cond = nil
	m.editCond = false
	m.out.banner = ""
	return m, nil
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case statePlay:
		return m.viewPlay()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("        " + cyan.Render("r o l l i n g b a l l") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, lv := range m.levels {
		par := fmt.Sprintf("par %d eq / %.0fs", lv.ParEquations, lv.ParSeconds)
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-18s", lv.Name)) + dim.Render(par) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-18s", lv.Name)) + dimmer.Render(par) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter play   q quit") + "\n")

	return b.String()
}

func (m model) viewPlay() string {
	var b strings.Builder
	b.WriteString(m.surface.Canvas().String())

	b.WriteString(cyan.Render(m.level.Name) + "  " + white.Render(m.out.readout))
	var eqs []string
	for _, g := range m.sim.ActiveGraphs() {
		formula, cond := g.Fn().Source()
		s := formula
		if cond != "" {
			s += " when " + cond
		}
		eqs = append(eqs, s)
	}
	if len(eqs) > 0 {
		b.WriteString("  " + dim.Render(strings.Join(eqs, "   ")))
	}
	b.WriteString("\n")

	cursor := func(active bool) string {
		if active {
			return white.Render("▋")
		}
		return ""
	}
	b.WriteString("  " + white.Render("y = "+string(m.input)) + cursor(!m.editCond) + "\n")
	b.WriteString("  " + dim.Render("when "+string(m.cond)) + cursor(m.editCond) + "\n")

	if m.out.banner != "" {
		style := red
		if m.out.bannerWin {
			style = green
		}
		b.WriteString("  " + style.Render(m.out.banner) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(dimmer.Render("  enter add/play   tab condition   ctrl+d remove   ctrl+r reset   esc menu") + "\n")
	return b.String()
}

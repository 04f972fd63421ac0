// Package tui is the terminal host: rule boxes on top, the start, current and
// goal grids below, all driven from the bubbletea event loop.
//
// The Model is single-threaded like every bubbletea model. Timer ticks and
// pack reloads reach it as messages, so the controller is only ever touched
// from Update.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cellrules/internal/core"
	"cellrules/internal/level"
	"cellrules/internal/play"
)

// tickMsg paces animation.
type tickMsg time.Time

// ReloadMsg delivers a new version of the level pack.
type ReloadMsg struct {
	Pack *level.Pack
}

// Model is the bubbletea model for a game.
type Model struct {
	ctl      *play.Controller
	keys     keyMap
	help     help.Model
	interval time.Duration
	log      *slog.Logger

	width    int
	height   int
	quitting bool
}

// New builds a model around ctl. interval paces animation.
func New(ctl *play.Controller, interval time.Duration, log *slog.Logger) Model {
	if interval <= 0 {
		interval = core.DefaultInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return Model{
		ctl:      ctl,
		keys:     defaultKeys(),
		help:     help.New(),
		interval: interval,
		log:      log,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.ctl.Tick()
		return m, m.tick()

	case ReloadMsg:
		if err := m.ctl.Reload(msg.Pack); err != nil {
			m.log.Warn("reload rejected", "error", err)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctl := m.ctl
	onState := ctl.Cursor().Area == play.AreaState

	switch {
	case key.Matches(msg, m.keys.ForceQ):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		ctl.Move(play.Up)
	case key.Matches(msg, m.keys.Down):
		ctl.Move(play.Down)
	case key.Matches(msg, m.keys.Left):
		ctl.Move(play.Left)
	case key.Matches(msg, m.keys.Right):
		ctl.Move(play.Right)
	case key.Matches(msg, m.keys.Space):
		ctl.Space()
	case key.Matches(msg, m.keys.Reset):
		ctl.ResetSim()

	case onState && key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case onState && key.Matches(msg, m.keys.Step):
		ctl.StepOnce()
	case onState && key.Matches(msg, m.keys.Next):
		ctl.NextLevel()
	case onState && key.Matches(msg, m.keys.Prev):
		ctl.PrevLevel()
	case onState && key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case !onState && msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		r := msg.Runes[0]
		if r < 0x80 && core.Printable(core.Symbol(r)) {
			ctl.Type(core.Symbol(r))
		}
	}
	return m, nil
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	solvedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	paneTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	ruleBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("39"))
	lockedBox = ruleBox.BorderForeground(lipgloss.Color("241"))
	gridBox   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder())
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	body := m.render()
	if m.width > 0 && m.height > 0 &&
		(lipgloss.Width(body) > m.width || lipgloss.Height(body) > m.height) {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			"terminal too small, please resize")
	}
	return body
}

func (m Model) render() string {
	s := m.ctl.Session()
	camp := m.ctl.Campaign()
	lvl := s.Level()

	header := titleStyle.Render(fmt.Sprintf("%s  (%d/%d)", lvl.Title(), camp.Index()+1, camp.Len()))

	sections := []string{header, m.renderRules(), m.renderGrids(), m.renderStatus()}
	if msg := m.ctl.Message(); msg != "" {
		style := messageStyle
		if msg == lvl.Hint {
			style = hintStyle
		}
		sections = append(sections, style.Render(msg))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderRules() string {
	auto := m.ctl.Session().Level().Auto
	cur := m.ctl.Cursor()
	boxes := make([]string, 0, auto.Len())
	for i, r := range auto.Rules() {
		rows := make([]string, 3)
		for y := 0; y < 3; y++ {
			var b strings.Builder
			for x := 0; x < 3; x++ {
				sel := cur.Area == play.AreaPattern && cur.Rule == i && cur.X == x && cur.Y == y
				b.WriteString(cell(r.Pattern[x+y*3], sel))
			}
			rows[y] = b.String()
		}
		box := ruleBox
		if r.Locked {
			box = lockedBox
		}
		replSel := cur.Area == play.AreaReplace && cur.Rule == i
		boxes = append(boxes, lipgloss.JoinVertical(lipgloss.Center,
			box.Render(strings.Join(rows, "\n")),
			"▼",
			box.Render(cell(r.Replace, replSel)),
		))
	}
	if len(boxes) == 0 {
		return hintStyle.Render("(no rules)")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, interleave(boxes, " ")...)
}

func (m Model) renderGrids() string {
	s := m.ctl.Session()
	lvl := s.Level()
	pane := func(title string, g *core.Grid, sel bool) string {
		t := paneTitle.Render(title)
		if sel {
			t = cursorStyle.Render(title)
		}
		return lipgloss.JoinVertical(lipgloss.Left, t, gridBox.Render(g.String()))
	}
	onState := m.ctl.Cursor().Area == play.AreaState
	return lipgloss.JoinHorizontal(lipgloss.Top,
		pane("Start", lvl.Start, false), " ",
		pane(fmt.Sprintf("Step %d", s.Steps()), core.Snapshot(m.ctl.Sim()), onState), " ",
		pane("Goal", lvl.Goal, false),
	)
}

func (m Model) renderStatus() string {
	s := m.ctl.Session()
	state := "paused"
	if m.ctl.Animating() {
		state = "animating"
	}
	switch s.Status() {
	case play.StatusSolved:
		return solvedStyle.Render("solved") + fmt.Sprintf(" after %d steps", s.Steps())
	case play.StatusEditing:
		state = "editing"
	}
	return fmt.Sprintf("%s · step %d · %s", s.Status(), s.Steps(), state)
}

func cell(s core.Symbol, selected bool) string {
	str := string(rune(s))
	if selected {
		return cursorStyle.Render(str)
	}
	return str
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, 2*len(items))
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}

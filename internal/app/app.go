//go:build ebiten

package app

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"cellrules/internal/core"
	"cellrules/internal/level"
	"cellrules/internal/play"
	"cellrules/internal/render"
	"cellrules/internal/ui"
)

// Game adapts a play.Controller to the ebiten.Game interface.
type Game struct {
	ctl      *play.Controller
	step     *core.FixedStep
	hud      *ui.HUD
	overlay  *ui.Overlay
	painters [3]*render.GridPainter
	layout   ui.Layout
	scale    int
	log      *slog.Logger

	reloads chan *level.Pack
	chars   []rune
	title   string
}

// New constructs a Game for the controller in env.
func New(env *Env) *Game {
	g := &Game{
		ctl:     env.Controller,
		step:    core.NewFixedStep(env.Config.Interval),
		hud:     ui.NewHUD(),
		overlay: ui.NewOverlay(),
		scale:   env.Config.Scale,
		log:     env.Logger,
		reloads: make(chan *level.Pack, 1),
	}
	pal := render.DefaultPalette()
	size := g.ctl.Sim().Size()
	for i := range g.painters {
		g.painters[i] = render.NewGridPainter(size.W, size.H, pal)
	}
	g.relayout()
	return g
}

// Reload hands a new pack to the game loop. It is safe to call from any
// goroutine; a pending pack is replaced by a newer one.
func (g *Game) Reload(p *level.Pack) {
	for {
		select {
		case g.reloads <- p:
			return
		default:
		}
		select {
		case <-g.reloads:
		default:
		}
	}
}

// WindowSize is the window size that fits the current level.
func (g *Game) WindowSize() (int, int) { return g.layout.W, g.layout.H }

func (g *Game) relayout() {
	sim := g.ctl.Sim()
	l := ui.ComputeLayout(sim.Size(), g.ctl.Session().Level().Auto.Len(), g.scale)
	if l.W != g.layout.W || l.H != g.layout.H {
		ebiten.SetWindowSize(l.W, l.H)
	}
	g.layout = l
	if name := sim.Name(); name != g.title {
		g.title = name
		ebiten.SetWindowTitle("cellrules: " + name)
	}
}

// Update handles per-frame input and advances the simulation on the fixed
// step.
func (g *Game) Update() error {
	select {
	case p := <-g.reloads:
		if err := g.ctl.Reload(p); err != nil {
			g.log.Warn("reload rejected", "error", err)
		}
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if quit := g.handleKeys(); quit {
		return ebiten.Termination
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if c, ok := g.layout.HitTest(ebiten.CursorPosition()); ok {
			g.ctl.SetCursor(c)
		}
	}
	g.overlay.Update()

	if g.step.ShouldStep() {
		g.ctl.Tick()
	}
	g.relayout()
	return nil
}

func (g *Game) handleKeys() bool {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.ctl.Move(play.Up)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.ctl.Move(play.Down)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.ctl.Move(play.Left)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.ctl.Move(play.Right)
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.ctl.ResetSim()
		g.step.Restart()
	}

	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		if r == ' ' {
			g.ctl.Space()
			g.step.Restart()
			continue
		}
		if g.ctl.Cursor().Area == play.AreaState {
			switch r {
			case 'q':
				return true
			case 's':
				g.ctl.StepOnce()
			case 'n':
				g.ctl.NextLevel()
			case 'p':
				g.ctl.PrevLevel()
			}
			continue
		}
		if r < 0x80 && core.Printable(core.Symbol(r)) {
			g.ctl.Type(core.Symbol(r))
		}
	}
	return false
}

// Draw renders the rule editor, the three grids and the status line.
func (g *Game) Draw(screen *ebiten.Image) {
	g.hud.Draw(screen, g.layout, g.ctl)
	sim := g.ctl.Sim()
	lvl := g.ctl.Session().Level()
	sources := [3]render.Source{lvl.Start, sim, lvl.Goal}
	for i, src := range sources {
		g.painters[i].Blit(screen, src, g.layout.GridX[i], g.layout.GridY, g.scale)
	}
	g.overlay.Draw(screen, g.layout, lvl.Start, core.Snapshot(sim), lvl.Goal)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.layout.W, g.layout.H
}

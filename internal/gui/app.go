// Package gui is the Raylib front-end: level menu, equation entry and the
// live game view, one frame per display refresh.
package gui

import (
	"context"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/kbjakex/rollingball/internal/config"
	"github.com/kbjakex/rollingball/internal/fn"
	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/progress"
	"github.com/kbjakex/rollingball/internal/render"
)

// Theme colors. The play field is white; chrome is drawn in grays around it.
var (
	colBg      = rl.NewColor(255, 255, 255, 255)
	colTitle   = rl.NewColor(20, 20, 20, 255)
	colText    = rl.NewColor(90, 90, 90, 255)
	colTextDim = rl.NewColor(170, 170, 170, 255)
	colSelect  = rl.NewColor(0, 0, 0, 255)
	colError   = rl.NewColor(200, 40, 40, 255)
	colWin     = rl.NewColor(30, 140, 60, 255)
)

type App struct {
	cfg      *config.Config
	levels   []*game.Level
	progress *progress.Store

	inMenu   bool
	selected int
	quit     bool

	level   *game.Level
	sim     *game.Simulator
	surface *Surface
	driver  *render.Driver
	readout string
	banner  string
	bannerC rl.Color

	input    []rune
	cond     []rune
	editCond bool
}

func initWindow(cfg *config.Config) {
	rl.InitWindow(int32(cfg.Window.Width), int32(cfg.Window.Height), "rollingball")
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(0)
}

// NewApp builds the application state. The window must already be open.
// prog may be nil; victories are then simply not recorded.
func NewApp(cfg *config.Config, levels []*game.Level, prog *progress.Store) (*App, error) {
	surface, err := NewSurface(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return nil, err
	}
	app := &App{
		cfg:      cfg,
		levels:   levels,
		progress: prog,
		surface:  surface,
		inMenu:   true,
	}
	return app, nil
}

// Run opens the window, runs the menu and game loop, and blocks until the
// player quits or the window is closed. An empty startLevel opens the
// menu; otherwise play begins at the named level.
func Run(cfg *config.Config, levels []*game.Level, prog *progress.Store, startLevel string) error {
	initWindow(cfg)
	defer rl.CloseWindow()

	app, err := NewApp(cfg, levels, prog)
	if err != nil {
		return err
	}
	defer app.surface.Close()

	if startLevel != "" {
		lv := findByName(levels, startLevel)
		if lv == nil {
			return fmt.Errorf("gui: unknown level %q", startLevel)
		}
		app.loadLevel(lv)
	}
	app.RunLoop()
	return nil
}

func findByName(levels []*game.Level, name string) *game.Level {
	for _, lv := range levels {
		if lv.Name == name {
			return lv
		}
	}
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.update()
		a.draw()
	}
}

func (a *App) loadLevel(lv *game.Level) {
	a.level = lv
	a.sim = game.NewSimulator(lv, a.onOutcome)
	comp := render.NewCompositor(render.NewMapper(a.cfg.PxPerUnit))
	a.driver = render.NewDriver(a.sim, a.surface, comp, func(s string) { a.readout = s })
	a.inMenu = false
	a.input = a.input[:0]
	a.cond = a.cond[:0]
	a.editCond = false
	a.banner = ""
	a.readout = render.FormatTime(0)
}

func (a *App) onOutcome(victory bool, seconds float64) {
	if !victory {
		a.banner = "The ball was lost. Adjust your curves and try again."
		a.bannerC = colError
		return
	}
	score := a.level.ScorePercent(len(a.sim.ActiveGraphs()), seconds)
	a.banner = fmt.Sprintf("Goal reached in %.2fs, score %d%%. ENTER for next level.", seconds, score)
	a.bannerC = colWin
	a.record(score, seconds)
}

func (a *App) record(score int, seconds float64) {
	if a.progress == nil {
		return
	}
	eqs := make([]progress.Equation, 0, len(a.sim.ActiveGraphs()))
	for _, g := range a.sim.ActiveGraphs() {
		formula, cond := g.Fn().Source()
		eqs = append(eqs, progress.Equation{Formula: formula, Condition: cond})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.progress.Add(ctx, a.level.Name, score, seconds, eqs); err != nil {
		a.banner = fmt.Sprintf("score not saved: %v", err)
		a.bannerC = colError
	}
}

func (a *App) update() {
	if a.inMenu {
		a.updateMenu()
		return
	}
	a.updateGame()
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.selected--
	}
	if a.selected >= len(a.levels) {
		a.selected = 0
	}
	if a.selected < 0 {
		a.selected = len(a.levels) - 1
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace)) && len(a.levels) > 0 {
		a.loadLevel(a.levels[a.selected])
	}
}

func (a *App) updateGame() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		a.inMenu = true
		return
	}

	// Text entry. Printable characters go to the focused field; everything
	// else is control keys, so formulas may contain any character raylib
	// reports as printable.
	for ch := rl.GetCharPressed(); ch != 0; ch = rl.GetCharPressed() {
		if ch < 32 || ch > 126 {
			continue
		}
		if a.editCond {
			a.cond = append(a.cond, ch)
		} else {
			a.input = append(a.input, ch)
		}
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		a.editCond = !a.editCond
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		if a.editCond && len(a.cond) > 0 {
			a.cond = a.cond[:len(a.cond)-1]
		} else if !a.editCond && len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	}
	if rl.IsKeyPressed(rl.KeyDelete) {
		if graphs := a.sim.ActiveGraphs(); len(graphs) > 0 {
			a.sim.RemoveGraph(graphs[len(graphs)-1])
		}
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		a.sim.Reset()
		a.banner = ""
	}

	if rl.IsKeyPressed(rl.KeyEnter) {
		if a.sim.Done() {
			a.advance()
			return
		}
		if len(a.input) == 0 {
			// Empty prompt: ENTER is the play/pause toggle.
			a.sim.TogglePlaying()
			a.banner = ""
			return
		}
		a.commitEquation()
	}
}

func (a *App) commitEquation() {
	f, err := fn.Parse(string(a.input), string(a.cond))
	if err != nil {
		a.banner = err.Error()
		a.bannerC = colError
		return
	}
	a.sim.AddGraph(f)
	a.input = a.input[:0]
	a.cond = a.cond[:0]
	a.editCond = false
	a.banner = ""
}

// advance moves to the next campaign level after a victory, or back to the
// menu at the end of the chain.
func (a *App) advance() {
	if next := a.level.Next(); next != nil {
		a.loadLevel(next)
		return
	}
	a.inMenu = true
}

func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)

	if a.inMenu {
		a.drawMenu()
	} else {
		a.driver.Tick(time.Now())
		a.drawHUD()
	}

	rl.EndDrawing()
}

func (a *App) drawMenu() {
	rl.DrawText("rollingball", 50, 50, 40, colTitle)
	rl.DrawText("Select level", 50, 100, 16, colTextDim)

	y := int32(160)
	for i, lv := range a.levels {
		label := lv.Name
		if best := a.bestScore(lv.Name); best > 0 {
			label = fmt.Sprintf("%s  (best %d%%)", lv.Name, best)
		}
		if i == a.selected {
			rl.DrawText("> "+label, 50, y, 20, colSelect)
		} else {
			rl.DrawText("  "+label, 50, y, 20, colText)
		}
		y += 28
	}

	hint := "ARROWS: NAVIGATE  ENTER: PLAY  Q: QUIT"
	w := int32(a.cfg.Window.Width)
	h := int32(a.cfg.Window.Height)
	rl.DrawText(hint, w-rl.MeasureText(hint, 14)-30, h-40, 14, colTextDim)
}

func (a *App) bestScore(level string) int {
	if a.progress == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	best, err := a.progress.BestScore(ctx, level)
	if err != nil {
		return 0
	}
	return best
}

func (a *App) drawHUD() {
	w := int32(a.cfg.Window.Width)
	h := int32(a.cfg.Window.Height)

	rl.DrawText(a.level.Name, 30, 20, 20, colTitle)
	rl.DrawText(a.readout, w-rl.MeasureText(a.readout, 20)-30, 20, 20, colTitle)

	// Active equations, in their curve colors.
	y := int32(50)
	for _, g := range a.sim.ActiveGraphs() {
		formula, cond := g.Fn().Source()
		label := "y = " + formula
		if cond != "" {
			label += "  when " + cond
		}
		rl.DrawText(label, 30, y, 16, rlColor(g.Color))
		y += 22
	}

	// Input prompt.
	prompt := "y = " + string(a.input)
	if !a.editCond {
		prompt += "_"
	}
	condPrompt := "when " + string(a.cond)
	if a.editCond {
		condPrompt += "_"
	}
	rl.DrawText(prompt, 30, h-80, 18, colSelect)
	rl.DrawText(condPrompt, 30, h-56, 16, colText)

	if a.banner != "" {
		rl.DrawText(a.banner, 30, h-110, 16, a.bannerC)
	}

	hint := "ENTER: ADD/PLAY  TAB: CONDITION  DEL: REMOVE  F5: RESET  ESC: MENU"
	rl.DrawText(hint, w-rl.MeasureText(hint, 12)-30, h-28, 12, colTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, h-28, 12, colTextDim)
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/kbjakex/rollingball/internal/analysis"
	"github.com/kbjakex/rollingball/internal/config"
	"github.com/kbjakex/rollingball/internal/fn"
	"github.com/kbjakex/rollingball/internal/game"
	"github.com/kbjakex/rollingball/internal/gui"
	"github.com/kbjakex/rollingball/internal/progress"
	"github.com/kbjakex/rollingball/internal/rasterdump"
	"github.com/kbjakex/rollingball/internal/render"
	"github.com/kbjakex/rollingball/internal/storage"
	"github.com/kbjakex/rollingball/internal/tui"
)

var (
	dataDir    string
	configFile string
	verbose    bool
	equations  []string
	maxSeconds float64
	frames     int
	outDir     string
	pxPerUnit  float64
)

// main is the entry point for the rollingball CLI; running it with no
// subcommand opens the graphical game.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rollingball",
		Short: "plot curves, roll the ball to the flag",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				game.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, levels, prog := setup(cmd)
			defer closeProgress(prog)
			return gui.Run(cfg, levels, prog, "")
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log engine events to stderr")

	playCmd := &cobra.Command{
		Use:   "play [level]",
		Short: "play a level in the graphical game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, levels, prog := setup(cmd)
			defer closeProgress(prog)
			return gui.Run(cfg, levels, prog, args[0])
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, levels, prog := setup(cmd)
			defer closeProgress(prog)
			return tui.Run(cfg, levels, prog)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [level]",
		Short: "run a level headless and record the ball trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().StringArrayVar(&equations, "eq", nil, "equation, \"formula\" or \"formula; condition\" (repeatable)")
	runCmd.Flags().Float64Var(&maxSeconds, "time", 30.0, "give up after this much playing time")

	renderCmd := &cobra.Command{
		Use:   "render [level]",
		Short: "render frames to png files",
		Args:  cobra.ExactArgs(1),
		RunE:  renderFrames,
	}
	renderCmd.Flags().StringArrayVar(&equations, "eq", nil, "equation, \"formula\" or \"formula; condition\" (repeatable)")
	renderCmd.Flags().IntVar(&frames, "frames", 120, "number of frames")
	renderCmd.Flags().StringVar(&outDir, "out", "frames", "output directory")
	renderCmd.Flags().Float64Var(&pxPerUnit, "scale", 0, "pixels per level unit (default from config)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded ball trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	levelsCmd := &cobra.Command{
		Use:   "levels",
		Short: "list playable levels",
		RunE:  listLevels,
	}

	progressCmd := &cobra.Command{
		Use:   "progress [level]",
		Short: "show completions, best first",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showProgress,
	}

	rootCmd.AddCommand(playCmd, tuiCmd, runCmd, renderCmd, listCmd, plotCmd, levelsCmd, progressCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration, the level set and the progress store. A
// broken progress database degrades to not recording scores.
func setup(cmd *cobra.Command) (*config.Config, []*game.Level, *progress.Store) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v, using defaults\n", err)
		} else {
			cfg = loaded
		}
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	levels := game.Campaign()
	if custom, err := config.LoadLevels(cfg.LevelsDir); err != nil {
		fmt.Fprintf(os.Stderr, "levels: %v\n", err)
	} else {
		levels = append(levels, custom...)
	}

	prog, err := openProgress(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "progress: %v, scores will not be saved\n", err)
		prog = nil
	}
	return cfg, levels, prog
}

func openProgress(cfg *config.Config) (*progress.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return progress.Open(ctx, filepath.Join(cfg.DataDir, "progress.db"))
}

func closeProgress(prog *progress.Store) {
	if prog != nil {
		prog.Close()
	}
}

func findLevel(cfg *config.Config, name string) (*game.Level, error) {
	if lv := game.FindLevel(name); lv != nil {
		return lv, nil
	}
	custom, err := config.LoadLevels(cfg.LevelsDir)
	if err != nil {
		return nil, err
	}
	for _, lv := range custom {
		if lv.Name == name {
			return lv, nil
		}
	}
	return nil, fmt.Errorf("unknown level: %s", name)
}

// parseEquations turns --eq values into functions. The optional condition
// follows a semicolon: "x*0.5; x < 4".
func parseEquations(values []string) ([]*fn.Function, error) {
	fns := make([]*fn.Function, 0, len(values))
	for _, v := range values {
		formula, cond := v, ""
		if i := strings.IndexByte(v, ';'); i >= 0 {
			formula, cond = v[:i], strings.TrimSpace(v[i+1:])
		}
		f, err := fn.Parse(strings.TrimSpace(formula), cond)
		if err != nil {
			return nil, err
		}
		fns = append(fns, f)
	}
	return fns, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	level, err := findLevel(cfg, args[0])
	if err != nil {
		return err
	}
	fns, err := parseEquations(equations)
	if err != nil {
		return err
	}
	if len(fns) == 0 {
		return fmt.Errorf("at least one --eq is required")
	}

	var victory bool
	var seconds float64
	done := false
	sim := game.NewSimulator(level, func(v bool, s float64) {
		victory, seconds, done = v, s, true
	})
	for _, f := range fns {
		sim.AddGraph(f)
	}
	sim.TogglePlaying()

	var samples []storage.Sample
	for !done && sim.PlayingTimeSeconds() < maxSeconds {
		sim.Step()
		x, y := sim.BallPosition()
		samples = append(samples, storage.Sample{T: sim.PlayingTimeSeconds(), X: x, Y: y})
	}
	if !done {
		seconds = sim.PlayingTimeSeconds()
	}

	eqs := make([]storage.Equation, 0, len(fns))
	for _, f := range fns {
		formula, cond := f.Source()
		eqs = append(eqs, storage.Equation{Formula: formula, Condition: cond})
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(level.Name, eqs, victory, seconds, samples)
	if err != nil {
		return err
	}

	outcome := "gave up"
	if done && victory {
		outcome = "victory"
	} else if done {
		outcome = "defeat"
	}
	fmt.Printf("level: %s\n", level.Name)
	fmt.Printf("outcome: %s after %.2fs\n", outcome, seconds)
	if victory {
		fmt.Printf("score: %d%%\n", level.ScorePercent(len(fns), seconds))
	}
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", len(samples))
	return nil
}

func renderFrames(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	level, err := findLevel(cfg, args[0])
	if err != nil {
		return err
	}
	fns, err := parseEquations(equations)
	if err != nil {
		return err
	}

	scale := pxPerUnit
	if scale <= 0 {
		scale = cfg.PxPerUnit
	}

	sim := game.NewSimulator(level, func(bool, float64) {})
	for _, f := range fns {
		sim.AddGraph(f)
	}
	sim.TogglePlaying()

	surface, err := rasterdump.NewSurface(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}
	defer surface.Close()

	writer, err := rasterdump.NewFrameWriter(surface, outDir)
	if err != nil {
		return err
	}

	comp := render.NewCompositor(render.NewMapper(scale))
	driver := render.NewDriver(sim, surface, comp, func(string) {})

	interval := time.Second / time.Duration(cfg.FPS)
	now := time.Unix(0, 0)
	for i := 0; i < frames; i++ {
		driver.Tick(now)
		if err := writer.Save(); err != nil {
			return err
		}
		now = now.Add(interval)
	}

	fmt.Printf("wrote %d frames to %s\n", writer.Count(), outDir)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLEVEL\tTIME\tRESULT\tSECONDS\tSAMPLES")
	for _, run := range runs {
		result := "defeat"
		if run.Victory {
			result = "victory"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\n",
			run.ID,
			run.Level,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			result,
			run.Seconds,
			run.Samples,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("level: %s\n", meta.Level)
	for _, eq := range meta.Equations {
		if eq.Condition != "" {
			fmt.Printf("  y = %s when %s\n", eq.Formula, eq.Condition)
		} else {
			fmt.Printf("  y = %s\n", eq.Formula)
		}
	}
	fmt.Println()

	ys := make([]float64, len(samples))
	xs := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.Y
		xs[i] = s.X
	}

	fmt.Println(asciigraph.Plot(ys,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("ball height vs time"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(xs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("ball x vs time"),
	))

	sum := analysis.Summarize(samples)
	fmt.Println()
	fmt.Printf("duration: %.2fs  path: %.2f units  avg speed: %.2f u/s\n",
		sum.Duration, sum.Distance, sum.AvgSpeed)
	fmt.Printf("height range: [%.2f, %.2f]  furthest x: %.2f\n",
		sum.MinHeight, sum.MaxHeight, sum.MaxX)
	return nil
}

func listLevels(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	custom, err := config.LoadLevels(cfg.LevelsDir)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSTART\tGOAL\tSPIKES\tPAR")
	printLevel := func(lv *game.Level) {
		fmt.Fprintf(w, "%s\t(%.1f, %.1f)\t(%.1f, %.1f)\t%d\t%d eq / %.0fs\n",
			lv.Name,
			lv.Start.X, lv.Start.Y,
			lv.Goal.X, lv.Goal.Y,
			len(lv.Obstacles),
			lv.ParEquations, lv.ParSeconds,
		)
	}
	for _, lv := range game.Campaign() {
		printLevel(lv)
	}
	for _, lv := range custom {
		printLevel(lv)
	}
	return w.Flush()
}

func showProgress(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	prog, err := openProgress(cfg)
	if err != nil {
		return err
	}
	defer prog.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var completions []progress.Completion
	if len(args) == 1 {
		completions, err = prog.ByLevel(ctx, args[0])
	} else {
		completions, err = prog.All(ctx)
	}
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		fmt.Println("no completions yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSCORE\tSECONDS\tWHEN\tEQUATIONS")
	for _, c := range completions {
		eqs := make([]string, 0, len(c.Equations))
		for _, eq := range c.Equations {
			s := eq.Formula
			if eq.Condition != "" {
				s += " when " + eq.Condition
			}
			eqs = append(eqs, s)
		}
		fmt.Fprintf(w, "%s\t%d%%\t%.2f\t%s\t%s\n",
			c.Level,
			c.Score,
			c.Seconds,
			c.CompletedAt.Format("2006-01-02 15:04:05"),
			strings.Join(eqs, ", "),
		)
	}
	return w.Flush()
}

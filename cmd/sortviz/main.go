package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/sortviz/internal/audio"
	"github.com/san-kum/sortviz/internal/config"
	"github.com/san-kum/sortviz/internal/narration"
	"github.com/san-kum/sortviz/internal/pacer"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/steps"
	"github.com/san-kum/sortviz/internal/storage"
	"github.com/san-kum/sortviz/internal/tui"
	"github.com/san-kum/sortviz/internal/viz"
	"github.com/san-kum/sortviz/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	configFile string
	dataDir    string
	input      string
	preset     string
	speedMs    int
	voice      bool
	theme      string
	logLevel   string
	addr       string
	bars       bool
	sound      bool
	plotStep   int
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sortviz",
		Short:         "step-by-step sorting algorithm visualizer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&input, "input", "", "comma-separated values to sort")
	pf.StringVar(&preset, "preset", "", "use a named input preset")
	pf.IntVar(&speedMs, "speed", config.DefaultSpeedMs, "delay between steps in milliseconds")
	pf.BoolVar(&voice, "voice", false, "narrate steps")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "sort and print the step log",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSort,
	}
	runCmd.Flags().BoolVar(&bars, "bars", false, "draw an ASCII chart after every step")

	liveCmd := &cobra.Command{
		Use:   "live [algorithm]",
		Short: "sort with the live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&sound, "sound", false, "play a tone per step")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the browser view",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	raceCmd := &cobra.Command{
		Use:   "race [algorithm...]",
		Short: "run algorithms side by side on the same input",
		RunE:  runRace,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a saved run's step log",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot inversions per step, or one step's values",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotStep, "step", 0, "plot the values at this step")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a saved run at the configured speed",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	replayCmd.Flags().BoolVar(&bars, "bars", false, "draw an ASCII chart after every step")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list available algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range sorting.NewRegistry().Names() {
				fmt.Printf("  %-10s %s\n", name, sorting.Describe(name))
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list input presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				in, _ := config.GetPreset(name)
				fmt.Printf("  %-10s %s\n", name, in)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "sortviz.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			cfg := config.DefaultConfig()
			cfg.Input = config.Presets["textbook"]
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, raceCmd, listCmd, showCmd, plotCmd, replayCmd, exportJSONCmd, algorithmsCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadSettings merges the config file, preset and flags. Flags win when set
// explicitly.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("speed") {
		cfg.SpeedMs = speedMs
	}
	if flags.Changed("voice") {
		cfg.Narration.Enabled = voice
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = addr
	}
	if preset != "" {
		in, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Input = in
	}
	if flags.Changed("input") {
		cfg.Input = input
	}
	if cfg.Input == "" {
		cfg.Input = config.Presets["textbook"]
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// fileLogger keeps log lines out of full-screen views.
func fileLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(st.Path("sortviz.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, cfg.LogLevel), func() { f.Close() }, nil
}

func newController(cfg *config.Config, values []float64, speech io.Writer, logger *slog.Logger, renderers ...session.Renderer) *session.Controller {
	engine := narration.NewTextEngine(speech, cfg.Narration.WordsPerMinute)
	narrator := narration.New(engine,
		narration.WithEnabled(cfg.Narration.Enabled),
		narration.WithLogger(logger),
	)
	return session.New(values,
		session.WithNarrator(narrator),
		session.WithNarrationAwait(cfg.Narration.Await),
		session.WithSpeed(cfg.Speed()),
		session.WithLogger(logger),
		session.WithRenderer(renderers...),
	)
}

func algorithmArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Algorithm
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSort(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	values, err := cfg.Values()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	saver := storage.NewAutoSaver(st, cfg.Speed, logger)
	ctrl := newController(cfg, values, os.Stdout, logger, tui.NewLogRenderer(os.Stdout, bars), saver)

	ctx, stop := signalContext()
	defer stop()

	res, err := ctrl.Start(ctx, algorithmArg(cfg, args))
	if err != nil {
		return err
	}
	fmt.Printf("\nsteps: %d  duration: %v\n", res.Steps, res.Duration.Round(time.Millisecond))
	if id := saver.LastID(); id != "" {
		fmt.Printf("run id: %s\n", id)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	values, err := cfg.Values()
	if err != nil {
		return err
	}
	algorithm := algorithmArg(cfg, args)
	if _, err := sorting.NewRegistry().Get(algorithm); err != nil {
		return err
	}
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	renderers := []session.Renderer{storage.NewAutoSaver(storage.New(cfg.DataDir), cfg.Speed, logger)}
	if sound {
		sonifier := audio.NewSonifier(logger)
		if err := sonifier.Start(); err != nil {
			return err
		}
		defer sonifier.Stop()
		renderers = append(renderers, sonifier)
	}

	ctx, stop := signalContext()
	defer stop()

	bridge := viz.NewBridge()
	ctrl := newController(cfg, values, bridge, logger, renderers...)
	m := viz.NewModel(ctx, ctrl, bridge, algorithm, viz.GetTheme(cfg.Theme))

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()

	st := storage.New(cfg.DataDir)
	factory := func(values []float64, speech io.Writer) *session.Controller {
		return newController(cfg, values, speech, logger, storage.NewAutoSaver(st, cfg.Speed, logger))
	}
	menu := viz.NewMenu(ctx, sorting.NewRegistry().Names(), cfg.Input, viz.GetTheme(cfg.Theme), factory)
	_, err = tea.NewProgram(menu).Run()
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	values, err := cfg.Values()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	engine := narration.NewTextEngine(os.Stdout, cfg.Narration.WordsPerMinute)
	narrator := narration.New(engine, narration.WithEnabled(cfg.Narration.Enabled), narration.WithLogger(logger))

	ctrl := session.New(values,
		session.WithNarrator(narrator),
		session.WithNarrationAwait(cfg.Narration.Await),
		session.WithSpeed(cfg.Speed()),
		session.WithLogger(logger),
	)
	ctrl.AddRenderer(storage.NewAutoSaver(st, ctrl.Speed, logger))
	srv := web.New(ctrl, web.WithLogger(logger), web.WithBaseContext(ctx))

	fmt.Printf("sortviz listening on %s\n", cfg.Addr)
	return srv.ListenAndServe(ctx, cfg.Addr)
}

type raceEntry struct {
	algorithm string
	result    *session.Result
	curve     []float64
}

func runRace(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	values, err := cfg.Values()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	registry := sorting.NewRegistry()
	algorithms := args
	if len(algorithms) == 0 {
		algorithms = registry.Names()
	}
	for _, name := range algorithms {
		if _, err := registry.Get(name); err != nil {
			return err
		}
	}

	ctx, stop := signalContext()
	defer stop()

	entries := make([]raceEntry, len(algorithms))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range algorithms {
		i, name := i, name
		g.Go(func() error {
			rec := storage.NewRecorder()
			ctrl := session.New(values,
				session.WithRegistry(registry),
				session.WithSpeed(0),
				session.WithLogger(logger),
				session.WithRenderer(rec),
			)
			res, err := ctrl.Start(gctx, name)
			if err != nil {
				return err
			}
			curve := []float64{float64(steps.Snapshot(values).Inversions())}
			for _, r := range rec.Records() {
				curve = append(curve, float64(r.Snapshot.Inversions()))
			}
			entries[i] = raceEntry{algorithm: name, result: res, curve: curve}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("input: [%s]\n\n", steps.FormatList(values, ","))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSTEPS\tCOMPARED\tSWAPPED\tUPDATED\tTIME")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%v\n",
			e.algorithm,
			e.result.Steps,
			e.result.Counts[steps.Compared],
			e.result.Counts[steps.Swapped],
			e.result.Counts[steps.Updated],
			e.result.Duration.Round(time.Microsecond),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	curves := make([][]float64, len(entries))
	colors := []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Green, asciigraph.Blue, asciigraph.Yellow, asciigraph.Magenta}
	var legend []string
	for i, e := range entries {
		curves[i] = e.curve
		legend = append(legend, e.algorithm)
	}
	fmt.Println()
	fmt.Println(asciigraph.PlotMany(curves,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(colors[:min(len(colors), len(curves))]...),
		asciigraph.Caption("inversions per step: "+strings.Join(legend, ", ")),
	))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tSIZE\tSTEPS\tSPEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%dms\n",
			run.ID,
			run.Algorithm,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Input),
			run.Steps,
			run.SpeedMs,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", meta.Algorithm)
	fmt.Printf("time: %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("input: [%s]\n", steps.FormatList(meta.Input, ","))
	fmt.Printf("steps: %d\n\n", meta.Steps)
	for _, rec := range records {
		fmt.Printf("Step %d: %s\n", rec.Seq, rec.Description)
	}
	fmt.Printf("Final sorted array is: [%s]\n", steps.FormatList(meta.Sorted, ","))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n\n", meta.Algorithm)

	if plotStep > 0 {
		if plotStep > len(records) {
			return fmt.Errorf("step %d out of range (1..%d)", plotStep, len(records))
		}
		rec := records[plotStep-1]
		fmt.Println(asciigraph.Plot(rec.Snapshot,
			asciigraph.Height(10),
			asciigraph.Width(max(len(rec.Snapshot)*4, 20)),
			asciigraph.Caption(fmt.Sprintf("step %d: %s", rec.Seq, rec.Description)),
		))
		return nil
	}

	data := make([]float64, 0, len(records)+1)
	data = append(data, float64(steps.Snapshot(meta.Input).Inversions()))
	for _, rec := range records {
		data = append(data, float64(rec.Snapshot.Inversions()))
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("inversions per step"),
	))
	return nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	out := tui.NewLogRenderer(os.Stdout, bars)
	p := pacer.New(pacer.Fixed(cfg.Speed()))
	out.Reset(session.State{Algorithm: meta.Algorithm, Input: meta.Input})
	for _, rec := range records {
		if err := p.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		out.Render(rec)
	}
	out.Finish(session.Result{Algorithm: meta.Algorithm, Sorted: meta.Sorted, Steps: meta.Steps})
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	if outFile != "" {
		if err := st.ExportJSONFile(outFile, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], outFile)
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

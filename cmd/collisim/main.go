package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/collisim/internal/analysis"
	"github.com/san-kum/collisim/internal/automation"
	"github.com/san-kum/collisim/internal/config"
	"github.com/san-kum/collisim/internal/dynamo"
	"github.com/san-kum/collisim/internal/experiment"
	"github.com/san-kum/collisim/internal/export"
	"github.com/san-kum/collisim/internal/sim"
	"github.com/san-kum/collisim/internal/storage"
	"github.com/san-kum/collisim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	configFile  string
	dt          float64
	frameDt     float64
	duration    float64
	seed        int64
	numBodies   int
	width       float64
	height      float64
	recordEvery int
	metricSet   string
	noSave      bool

	theme   string
	gifPath string
	outPath string
	energy  string
	bins    int

	sweepCounts []int
	sweepSeeds  int
)

// main registers the commands, opens the preset picker when no subcommand
// is given, and exits 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "collisim",
		Short:         "elastic disk collision simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel, logFormat)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".collisim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&metricSet, "metrics", "default", "metric set")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().Float64Var(&frameDt, "frame-dt", config.DefaultFrameDt, "target frame duration in seconds")
	liveCmd.Flags().StringVar(&theme, "theme", "classic", "colour theme: "+strings.Join(viz.ThemeNames(), ", "))
	liveCmd.Flags().StringVar(&gifPath, "gif", viz.DefaultGIFPath, "where the g key writes its recording")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy, momentum and collisions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "conservation and collision statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bins, "bins", 10, "speed histogram bins")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the time series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata, series and final bodies to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render the final bodies of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <run_id>.svg)")
	snapshotCmd.Flags().StringVar(&energy, "energy", "", "also write an energy chart to this file")
	snapshotCmd.Flags().StringVar(&theme, "theme", "classic", "colour theme: "+strings.Join(viz.ThemeNames(), ", "))

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "time the engine on a preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchPreset,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a YAML batch of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep body counts and seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().IntSliceVar(&sweepCounts, "counts", []int{4, 8, 16, 32}, "body counts")
	sweepCmd.Flags().IntVar(&sweepSeeds, "seeds", 4, "seeds per body count")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, presetsCmd, benchCmd, batchCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func setupLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	switch format {
	case "text":
		h = slog.NewTextHandler(os.Stderr, opts)
	case "json":
		h = slog.NewJSONHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (random, lattice)")
	cmd.Flags().Float64Var(&width, "width", config.DefaultWidth, "box width")
	cmd.Flags().Float64Var(&height, "height", config.DefaultHeight, "box height")
	cmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "record a sample every n steps")
}

// loadConfig starts from the named preset or the defaults, applies the
// config file over it, then any flag the user set.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		if cfg = config.GetPreset(args[0]); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("bodies") {
		cfg.Bodies.Count = numBodies
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if flags.Lookup("frame-dt") != nil && flags.Changed("frame-dt") {
		cfg.FrameDt = frameDt
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	metrics, err := experiment.NewRegistry().GetMetrics(metricSet)
	if err != nil {
		return err
	}
	exp.Setup(metrics)

	ctx, cancel := signalContext()
	defer cancel()

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		exp.GetSimulator().AddObserver(sim.ObserverFunc(logContacts))
	}

	fmt.Printf("running %s simulation with %d bodies...\n", cfg.Scenario, exp.World().Len())
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg, result)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("collisions: %d\n", result.TotalCollisions)
	fmt.Printf("energy: %.6f -> %.6f (drift %.3e)\n", result.InitialEnergy, result.FinalEnergy, result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for _, name := range slices.Sorted(maps.Keys(result.Metrics)) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func logContacts(_ *dynamo.World, res dynamo.StepResult, t float64) {
	for _, c := range res.Contacts {
		slog.Debug("contact",
			"t", t,
			"a", c.Pair.A,
			"b", c.Pair.B,
			"overlap", c.Overlap,
			"impulse", c.Impulse,
			"separating", c.Separating,
		)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	viz.SetTheme(theme)
	name := cfg.Scenario
	if len(args) > 0 {
		name = args[0]
	}
	return viz.RunLive(exp.World(), exp.Generator(), name, cfg.FrameDt, gifPath)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Printf("no runs found in %s\n", st.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDURATION\tDT\tCOLLISIONS\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%d\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.Collisions,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		field   func(sim.Sample) float64
	}{
		{"total kinetic energy", func(s sim.Sample) float64 { return s.Energy }},
		{"momentum x", func(s sim.Sample) float64 { return s.MomentumX }},
		{"momentum y", func(s sim.Sample) float64 { return s.MomentumY }},
		{"total collisions", func(s sim.Sample) float64 { return float64(s.Total) }},
	}

	for _, sr := range series {
		graph := asciigraph.Plot(analysis.Column(samples, sr.field),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data")
	}
	bodies, err := st.LoadBodies(runID)
	if err != nil {
		return err
	}

	rs := analysis.SummarizeRun(samples)
	iv := analysis.CollisionIntervals(samples)

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s, %d bodies, %d steps\n\n", meta.Scenario, meta.Bodies, meta.Steps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMEAN\tSTDDEV\tMIN\tMAX\tREL DRIFT")
	for _, row := range []struct {
		name string
		s    analysis.Summary
	}{
		{"energy", rs.Energy},
		{"momentum_x", rs.MomentumX},
		{"momentum_y", rs.MomentumY},
	} {
		fmt.Fprintf(w, "%s\t%.6f\t%.3e\t%.6f\t%.6f\t%.3e\n", row.name, row.s.Mean, row.s.StdDev, row.s.Min, row.s.Max, row.s.RelDrift)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncollisions: %d over %.2fs (%.3f/s)\n", rs.Collisions, rs.Duration, rs.Rate)
	if iv.Count > 1 {
		fmt.Printf("collision gaps: mean %.4fs, min %.4fs, max %.4fs\n", iv.Mean, iv.Min, iv.Max)
	}

	if len(bodies) > 0 {
		fmt.Println("\nfinal speed distribution:")
		fmt.Print(analysis.HistogramToASCII(analysis.SpeedHistogram(bodies, bins), 40))
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	if outPath != "" {
		if err := storage.ExportCSV(outPath, samples); err != nil {
			return err
		}
		slog.Info("exported csv", "run", args[0], "path", outPath, "rows", len(samples))
		return nil
	}
	return storage.WriteSeriesCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := storage.ExportJSON(outPath, data); err != nil {
			return err
		}
		slog.Info("exported json", "run", args[0], "path", outPath)
		return nil
	}
	return storage.WriteJSON(os.Stdout, data)
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadBodies(runID)
	if err != nil {
		return err
	}

	bodies := make([]dynamo.Body, len(records))
	for i, r := range records {
		bodies[i] = r.Body()
	}

	path := outPath
	if path == "" {
		path = runID + ".svg"
	}
	bounds := dynamo.Bounds{Width: meta.Width, Height: meta.Height}
	svg := export.BodiesToSVG(bounds, bodies, viz.GetTheme(theme).Palette())
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)

	if energy != "" {
		samples, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		chart := export.EnergyToSVG(samples, 800, 300)
		if chart == "" {
			return fmt.Errorf("not enough samples for an energy chart")
		}
		if err := os.WriteFile(energy, []byte(chart), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", energy)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCENARIO\tBOX\tBODIES\tDT\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		n := cfg.Bodies.Count
		switch cfg.Scenario {
		case "classic":
			n = 2
		case "explicit":
			n = len(cfg.Explicit)
		}
		fmt.Fprintf(w, "%s\t%s\t%.0fx%.0f\t%d\t%.4f\t%.0fs\n", name, cfg.Scenario, cfg.Width, cfg.Height, n, cfg.Dt, cfg.Duration)
	}
	return w.Flush()
}

func benchPreset(cmd *cobra.Command, args []string) error {
	name := "gas"
	if len(args) > 0 {
		name = args[0]
	}
	base := config.GetPreset(name)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{1.0 / 240, 1.0 / 120, 1.0 / 60}

	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tCOLLISIONS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, dt := range dts {
			cfg := base.Clone()
			cfg.Dt, cfg.Duration = dt, dur
			cfg.RecordEvery = max(cfg.Steps(), 1)

			exp, err := experiment.New(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%d\t%v\t%.0f\n",
				dur, dt, result.StepsTaken, result.TotalCollisions, elapsed, stepsPerSec)
		}
	}
	return w.Flush()
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunBatch(ctx, batch, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tID\tSCENARIO\tSTEPS\tCOLLISIONS\tDRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2e\n",
			r.Name, orDash(r.RunID), r.Config.Scenario, r.Result.StepsTaken, r.Result.TotalCollisions, r.Result.EnergyDrift)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"gas"}
	}
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	points, err := automation.RunSweep(ctx, &automation.Sweep{
		Base:      cfg,
		Counts:    sweepCounts,
		SeedStart: cfg.Seed,
		Seeds:     sweepSeeds,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSEED\tSTEPS\tCOLLISIONS\tDRIFT\tCONTAINMENT")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.2e\t%.3f\n", p.Bodies, p.Seed, p.Steps, p.Collisions, p.EnergyDrift, p.Containment)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	conserved, drifted := automation.SweepStats(points, 1e-9)
	fmt.Printf("\nenergy conserved to 1e-9: %d/%d\n", conserved, conserved+drifted)
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

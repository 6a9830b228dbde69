package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/solarsim/internal/automation"
	"github.com/san-kum/solarsim/internal/config"
	"github.com/san-kum/solarsim/internal/dynamo"
	"github.com/san-kum/solarsim/internal/export"
	"github.com/san-kum/solarsim/internal/integrators"
	"github.com/san-kum/solarsim/internal/metrics"
	"github.com/san-kum/solarsim/internal/physics"
	"github.com/san-kum/solarsim/internal/sim"
	"github.com/san-kum/solarsim/internal/storage"
	"github.com/san-kum/solarsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt         float64
	workers    int
	integrator string

	runSteps      int
	compareSteps  int
	benchSteps    int
	sampleEvery   int
	track         string
	save          bool
	stepsPerFrame int
	selectBody    string
	plotBody      string

	dts            []float64
	sweepYears     float64
	stabilityYears float64
	parallel       int
	trials         int
	kick           float64
	seed           int64
	svgSize        int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "solarsim",
		Short:        "gravitational n-body simulator for planetary systems",
		RunE:         runLive,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".solarsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "solar", "built-in system")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "system file path (yaml), overrides --preset")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and report diagnostics",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addEngineFlags(runCmd)
	runCmd.Flags().IntVar(&runSteps, "steps", 3650, "number of steps")
	runCmd.Flags().StringVar(&track, "track", "Earth", "body whose revolutions are counted")
	runCmd.Flags().BoolVar(&save, "save", false, "save a run log to the data directory")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 1, "record every n-th step when saving")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot distance and speed of a body from a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBody, "body", "Earth", "body to plot")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "compare energy drift of integration schemes",
		RunE:  compareIntegrators,
	}
	addEngineFlags(compareCmd)
	compareCmd.Flags().IntVar(&compareSteps, "steps", 3650, "number of steps")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in systems",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput for several worker counts",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 2000, "steps per measurement")

	dumpCmd := &cobra.Command{
		Use:   "dump [path]",
		Short: "write the selected system to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpSystem,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id] [out.svg]",
		Short: "draw the orbits of a saved run as svg",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	exportCmd.Flags().IntVar(&svgSize, "size", 800, "image width and height in pixels")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare energy drift across time steps",
		Args:  cobra.NoArgs,
		RunE:  sweepDt,
	}
	sweepCmd.Flags().Float64SliceVar(&dts, "dts", []float64{4 * 86400, 2 * 86400, 86400, 21600, 3600}, "time steps in seconds")
	sweepCmd.Flags().Float64Var(&sweepYears, "years", 10, "simulated years per run")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent runs (0: all)")

	stabilityCmd := &cobra.Command{
		Use:   "stability",
		Short: "monte carlo check of orbit stability under velocity kicks",
		Args:  cobra.NoArgs,
		RunE:  stability,
	}
	stabilityCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	stabilityCmd.Flags().Float64Var(&kick, "kick", 0.05, "relative velocity perturbation")
	stabilityCmd.Flags().Float64Var(&stabilityYears, "years", 10, "simulated years per trial")
	stabilityCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time based)")
	stabilityCmd.Flags().IntVar(&parallel, "parallel", 0, "concurrent trials (0: all)")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, compareCmd, presetsCmd, benchCmd, dumpCmd, exportCmd, sweepCmd, stabilityCmd)
	return rootCmd
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step in seconds")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines for the force pass")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, fmt.Sprintf("integration scheme %v", integrators.Names()))
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "time step in seconds")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines for the force pass")
	cmd.Flags().IntVar(&stepsPerFrame, "speed", 1, "steps per frame")
	cmd.Flags().StringVar(&selectBody, "select", "Earth", "body selected at start")
}

// loadSystem resolves --config or --preset and applies the flags the user
// actually set on cmd.
func loadSystem(cmd *cobra.Command) (*config.System, error) {
	var sys *config.System
	if configFile != "" {
		var err error
		sys, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		sys = config.GetPreset(preset)
		if sys == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		sys.Dt = dt
	}
	if flags.Changed("workers") {
		sys.Workers = workers
	}
	if flags.Changed("integrator") {
		sys.Integrator = integrator
	}
	return sys, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	e, err := sys.NewEngine()
	if err != nil {
		return err
	}
	if selectBody != "" {
		if err := e.Select(selectBody); err != nil && cmd.Flags().Changed("select") {
			return err
		}
	}

	if err := viz.Run(e, sys.Name, stepsPerFrame); err != nil {
		return fmt.Errorf("live view: %w", err)
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	e, err := sys.NewEngine()
	if err != nil {
		return err
	}

	tracked := track
	if _, err := e.Body(tracked); err != nil {
		if cmd.Flags().Changed("track") {
			return err
		}
		tracked = ""
	}
	for _, m := range metrics.Defaults(tracked) {
		e.AddMetric(m)
	}

	var rec *storage.Recorder
	if save {
		rec = storage.NewRecorder(sampleEvery)
		e.AddObserver(rec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "running %s for %d steps (dt=%gs, %s)...\n", sys.Name, runSteps, e.Dt(), e.Integrator())
	start := time.Now()

	result, runErr := e.Run(ctx, runSteps)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "completed %d steps in %v\n", result.StepsTaken, elapsed)
	fmt.Fprintf(out, "simulated: %.2f years\n", result.Time/(365.25*sim.DefaultDt))
	fmt.Fprintln(out, "\nmetrics:")
	printMetrics(out, result)

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tDISTANCE (AU)\tSPEED (km/s)")
	for _, b := range e.Bodies() {
		fmt.Fprintf(w, "%s\t%.3f\t%.2f\n", b.Name, b.DistanceToReference/physics.AU, b.Speed()/1000)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sys.Name, e.Dt(), e.Integrator(), rec, result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(out, "\nrun id: %s\n", runID)
	}

	var simErr *dynamo.SimulationError
	if errors.As(runErr, &simErr) {
		return fmt.Errorf("simulation stopped: %w", runErr)
	}
	return runErr
}

func printMetrics(w io.Writer, result *dynamo.Result) {
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, result.Metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tSTEPS\tDT\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%gs\t%s\t%.2e\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Integrator,
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

	samples, err := st.LoadSeries(runID, plotBody)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no samples for %q in run %s (bodies: %s)", plotBody, runID, strings.Join(meta.Bodies, ", "))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d\n\n", len(samples))

	dist := make([]float64, len(samples))
	speed := make([]float64, len(samples))
	for i, s := range samples {
		dist[i] = s.Distance / physics.AU
		speed[i] = (physics.Body{Vel: s.Vel}).Speed() / 1000
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{dist, plotBody + " distance to reference (AU)"},
		{speed, plotBody + " speed (km/s)"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "comparing integrators for %s (dt=%gs, steps=%d)\n\n", sys.Name, sys.Dt, compareSteps)
	fmt.Fprintf(out, "%-12s  %-14s  %-14s  %-12s\n", "integrator", "energy_drift", "momentum_drift", "time_ms")
	fmt.Fprintln(out, strings.Repeat("-", 58))

	for _, name := range names {
		integ, err := integrators.Get(name)
		if err != nil {
			fmt.Fprintf(out, "%-12s  error: %v\n", name, err)
			continue
		}
		e, err := sys.NewEngine(sim.WithIntegrator(integ))
		if err != nil {
			return err
		}
		energy, momentum := metrics.NewEnergyDrift(), metrics.NewMomentumDrift()
		e.AddMetric(energy)
		e.AddMetric(momentum)

		start := time.Now()
		_, err = e.Run(cmd.Context(), compareSteps)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(out, "%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Fprintf(out, "%-12s  %14.4e  %14.4e  %12.2f\n", name, energy.Value(), momentum.Value(), float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tREFERENCE\tPX/AU")
	for _, name := range config.ListPresets() {
		sys := config.GetPreset(name)
		ref := "-"
		names := make([]string, len(sys.Bodies))
		for i, b := range sys.Bodies {
			names[i] = b.Name
			if b.Reference {
				ref = b.Name
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\n", name, strings.Join(names, ", "), ref, sys.PixelsPerAU)
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "benchmarking %s (%d bodies, %d steps)\n\n", sys.Name, len(sys.Bodies), benchSteps)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTIME\tSTEPS/SEC")

	for _, n := range []int{1, 2, 4, 8} {
		e, err := sys.NewEngine(sim.WithWorkers(n))
		if err != nil {
			return err
		}

		start := time.Now()
		for i := 0; i < benchSteps; i++ {
			if err := e.Step(); err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%v\t%.0f\n", n, elapsed, float64(benchSteps)/elapsed.Seconds())
	}

	return w.Flush()
}

func dumpSystem(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], sys); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bodies) to %s\n", sys.Name, len(sys.Bodies), args[0])
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID, out := args[0], args[1]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID, "")
	if err != nil {
		return err
	}

	tracks := make([]export.Track, len(meta.Bodies))
	index := make(map[string]int, len(meta.Bodies))
	for i, name := range meta.Bodies {
		tracks[i] = export.Track{Name: name, Colour: meta.Colours[name]}
		index[name] = i
	}
	for _, s := range samples {
		if i, ok := index[s.Body]; ok {
			tracks[i].Points = append(tracks[i].Points, s.Pos)
		}
	}

	svg, err := export.OrbitsToSVG(tracks, svgSize, svgSize)
	if err != nil {
		return fmt.Errorf("run %s: %w", runID, err)
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d orbits to %s\n", len(tracks), out)
	return nil
}

func sweepDt(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	duration := sweepYears * 365.25 * sim.DefaultDt
	fmt.Printf("sweeping %s over %.1f years\n\n", sys.Name, sweepYears)

	results, err := automation.RunSweep(cmd.Context(), sys, automation.Sweep{
		Dts:      dts,
		Duration: duration,
		Parallel: parallel,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tTIME")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%gs\t%d\terror: %v\t\t\n", r.Dt, r.Steps, r.Err)
			continue
		}
		fmt.Fprintf(w, "%gs\t%d\t%.3e\t%.3e\t%v\n", r.Dt, r.Steps, r.EnergyDrift, r.MomentumDrift, r.Elapsed)
	}
	return w.Flush()
}

func stability(cmd *cobra.Command, args []string) error {
	sys, err := loadSystem(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %d trials of %s with %.1f%% velocity kicks over %.1f years\n\n", trials, sys.Name, kick*100, stabilityYears)

	results, err := automation.RunMonteCarlo(cmd.Context(), sys, automation.MonteCarloConfig{
		Perturbation: kick,
		NumTrials:    trials,
		Duration:     stabilityYears * 365.25 * sim.DefaultDt,
		Seed:         seed,
		Parallel:     parallel,
	})
	if err != nil {
		return err
	}

	stable := 0
	escapes := make(map[string]int)
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("trial %d: %v\n", r.TrialID, r.Err)
			continue
		}
		if r.Stable {
			stable++
		}
		for _, name := range r.Escaped {
			escapes[name]++
		}
	}

	fmt.Printf("stable: %d/%d\n", stable, len(results))
	names := make([]string, 0, len(escapes))
	for name := range escapes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s escaped in %d trials\n", name, escapes[name])
	}
	return nil
}

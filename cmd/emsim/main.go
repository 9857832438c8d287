package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/emsim/internal/analysis"
	"github.com/san-kum/emsim/internal/config"
	"github.com/san-kum/emsim/internal/experiment"
	"github.com/san-kum/emsim/internal/export"
	"github.com/san-kum/emsim/internal/field"
	"github.com/san-kum/emsim/internal/gui"
	"github.com/san-kum/emsim/internal/metrics"
	"github.com/san-kum/emsim/internal/scenario"
	"github.com/san-kum/emsim/internal/sim"
	"github.com/san-kum/emsim/internal/storage"
	"github.com/san-kum/emsim/internal/updater"
	"github.com/san-kum/emsim/internal/viz"
)

var (
	dataDir string
	quiet   bool

	configFile   string
	preset       string
	scenarioName string
	grid         []int
	probe        []int
	frames       int
	subSteps     int
	timeScale    float64
	backend      string
	workers      int
	validate     bool
	noSnapshot   bool

	theme      string
	liveStride int
	guiStride  int
	withAudio  bool

	outFile   string
	sliceZ    int
	fieldName string
	svgMode   string

	benchSteps   int
	dtMin, dtMax float64
	sweepPoints  int
	sweepSteps   int
	threshold    float64
)

// main is the entry point for the emsim CLI. Without a subcommand it opens
// the terminal preset picker.
func main() {
	log.SetFlags(0)
	log.SetPrefix("emsim: ")

	rootCmd := &cobra.Command{
		Use:          "emsim",
		Short:        "3-D electromagnetic field simulator",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quiet {
				log.SetOutput(io.Discard)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".emsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation headlessly and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&noSnapshot, "no-snapshot", false, "do not store the final field")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energies and the probe sample of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and energy analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "electric against magnetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-frame data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and per-frame data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a field slice heatmap or the energy trace as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&svgMode, "mode", "slice", "slice or energy")
	exportSVGCmd.Flags().StringVar(&fieldName, "field", "electric", "electric or magnetic")
	exportSVGCmd.Flags().IntVar(&sliceZ, "z", -1, "slice index (default: middle)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the update kernels",
		Args:  cobra.NoArgs,
		RunE:  benchKernels,
	}
	benchCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 20, "steps per measurement")

	stabilityCmd := &cobra.Command{
		Use:   "stability",
		Short: "sweep the timestep and measure perturbation growth",
		Args:  cobra.NoArgs,
		RunE:  stabilitySweep,
	}
	addConfigFlags(stabilityCmd)
	stabilityCmd.Flags().Float64Var(&dtMin, "dt-min", 0.05, "smallest timestep")
	stabilityCmd.Flags().Float64Var(&dtMax, "dt-max", 1.5, "largest timestep")
	stabilityCmd.Flags().IntVar(&sweepPoints, "points", 12, "number of timesteps")
	stabilityCmd.Flags().IntVar(&sweepSteps, "steps", 40, "steps per timestep")
	stabilityCmd.Flags().Float64Var(&threshold, "threshold", 0.5, "growth rate treated as unstable")

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or write one to a config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the preset to this file (.yaml, .gcfg or .ini)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation in the terminal viewer",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "field", "color theme")
	liveCmd.Flags().IntVar(&liveStride, "stride", 4, "draw every n-th cell per axis")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run a simulation in the 3-D window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addConfigFlags(guiCmd)
	guiCmd.Flags().IntVar(&guiStride, "stride", 1, "draw every n-th cell per axis")
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "sonify the field energy")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, phaseCmd, exportCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, benchCmd, stabilityCmd, presetsCmd, liveCmd, guiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml, gcfg or ini)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().StringVar(&scenarioName, "scenario", config.DefaultScenario, "initial field")
	cmd.Flags().IntSliceVar(&grid, "grid", nil, "grid size as x,y,z")
	cmd.Flags().IntSliceVar(&probe, "probe", nil, "probed cell as x,y,z (negative: grid center)")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	cmd.Flags().IntVar(&subSteps, "substeps", config.DefaultSubSteps, "kernel steps per frame")
	cmd.Flags().Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulated time per frame time")
	cmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "cpu, serial, opencl or auto")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	cmd.Flags().BoolVar(&validate, "validate", false, "stop on the first non-finite sample")
}

// loadConfig layers defaults, the preset, the config file and explicitly
// set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("scenario") {
		cfg.Scenario = scenarioName
	}
	if flags.Changed("grid") {
		if len(grid) != 3 {
			return nil, fmt.Errorf("--grid needs three values, got %d", len(grid))
		}
		cfg.Grid = config.GridConfig{X: grid[0], Y: grid[1], Z: grid[2]}
	}
	if flags.Changed("probe") {
		if len(probe) != 3 {
			return nil, fmt.Errorf("--probe needs three values, got %d", len(probe))
		}
		cfg.Probe = config.ProbeConfig{X: probe[0], Y: probe[1], Z: probe[2]}
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("substeps") {
		cfg.SubSteps = subSteps
	}
	if flags.Changed("time-scale") {
		cfg.TimeScale = timeScale
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("validate") {
		cfg.Validate = validate
	}
	return cfg, cfg.Check()
}

func setup(cmd *cobra.Command) (*experiment.Experiment, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

// progress logs every tenth of a run.
type progress struct {
	total, every int
	start        time.Time
}

func newProgress(total int) *progress {
	return &progress{total: total, every: max(total/10, 1), start: time.Now()}
}

func (p *progress) OnFrame(frame int, t float64, em *field.EMField) {
	if frame == 0 || frame%p.every != 0 {
		return
	}
	e, h := em.Energy()
	log.Printf("frame %d/%d t=%.3f energy=%.6g (%v)", frame, p.total, t, e+h, time.Since(p.start).Round(time.Millisecond))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd)
	if err != nil {
		return err
	}
	defer exp.Close()
	cfg := exp.Config()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp.GetSimulator().AddObserver(newProgress(cfg.Frames))
	log.Printf("running %s on %s grid, %s backend", cfg.Scenario, cfg.GridSize(), exp.KernelName())
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		log.Printf("stopped early: %v", runErr)
	}
	elapsed := time.Since(start)

	var snapshot *field.EMField
	if !noSnapshot {
		snapshot = exp.Field()
	}
	runID, err := st.Save(storage.NewMetadata(cfg, exp.KernelName(), result), result, snapshot)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Times)-1)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}
	return runErr
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tGRID\tFRAMES\tBACKEND\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%dx%d\t%d\t%s\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Grid[0], run.Grid[1], run.Grid[2],
			run.Frames,
			run.Backend,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

type columns struct {
	times, electric, magnetic, total, probeX []float64
}

func splitFrames(frames []storage.Frame) columns {
	var c columns
	for _, f := range frames {
		c.times = append(c.times, f.Time)
		c.electric = append(c.electric, f.ElectricEnergy)
		c.magnetic = append(c.magnetic, f.MagneticEnergy)
		c.total = append(c.total, f.TotalEnergy())
		c.probeX = append(c.probeX, f.Probe[0])
	}
	return c
}

func loadRun(runID string) (*storage.RunMetadata, columns, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, columns{}, err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, columns{}, err
	}
	if len(frames) < 2 {
		return nil, columns{}, fmt.Errorf("run %s has no frames to analyze", runID)
	}
	return meta, splitFrames(frames), nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, c, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(c.times))

	plots := []struct {
		caption string
		data    []float64
	}{
		{"electric energy", c.electric},
		{"magnetic energy", c.magnetic},
		{"total energy", c.total},
		{fmt.Sprintf("probe Ex at %v", meta.Probe), c.probeX},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, c, err := loadRun(args[0])
	if err != nil {
		return err
	}
	dt := c.times[1] - c.times[0]

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	ps := analysis.PowerSpectrum(analysis.Detrend(c.probeX))
	if len(ps) > 8 {
		graph := asciigraph.Plot(ps[1:len(ps)/2],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (probe Ex)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, mag := analysis.DominantFrequency(c.probeX, dt)
	fmt.Printf("dominant frequency: %.4f (magnitude %.3g)\n", freq, mag)
	if freq > 0 {
		fmt.Printf("period: %.4f\n", 1/freq)
	}
	if period := analysis.Period(analysis.Crossings(c.times, analysis.Detrend(c.probeX), 0)); period > 0 {
		fmt.Printf("period from crossings: %.4f\n", period)
	}
	exFreq, _ := analysis.DominantFrequency(c.electric, dt)
	fmt.Printf("electric/magnetic exchange frequency: %.4f\n\n", exFreq)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMIN\tMAX\tMEAN\tSTDDEV\tFIRST\tLAST")
	for _, s := range []struct {
		name string
		data []float64
	}{
		{"electric", c.electric},
		{"magnetic", c.magnetic},
		{"total", c.total},
		{"probe_x", c.probeX},
	} {
		sum := metrics.Summarize(s.data)
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
			s.name, sum.Min, sum.Max, sum.Mean, sum.StdDev, sum.First, sum.Last)
	}
	return w.Flush()
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, c, err := loadRun(args[0])
	if err != nil {
		return err
	}
	portrait := analysis.PortraitFromSeries("electric energy", c.electric, "magnetic energy", c.magnetic)
	fmt.Printf("energy portrait: %s\n\n", meta.ID)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 24))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// output opens --out, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.WriteFramesCSV(w, frames)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	return storage.ExportJSON(w, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	var svg string

	switch svgMode {
	case "energy":
		frames, err := st.LoadFrames(args[0])
		if err != nil {
			return err
		}
		c := splitFrames(frames)
		svg = export.SeriesToSVG(c.times, export.EnergySeries(c.electric, c.magnetic), 800, 400)
	case "slice":
		em, err := st.LoadSnapshot(args[0])
		if err != nil {
			return fmt.Errorf("run %s has no stored field: %w", args[0], err)
		}
		kind, f := sim.Electric, em.Electric
		if fieldName == "magnetic" {
			kind, f = sim.Magnetic, em.Magnetic
		}
		z := sliceZ
		if z < 0 {
			z = em.Size().Z / 2
		}
		if svg, err = export.SliceToSVG(f.View(), z, export.DefaultSliceOptions(kind)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown svg mode %q (slice or energy)", svgMode)
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = io.WriteString(w, svg)
	return err
}

func benchKernels(cmd *cobra.Command, args []string) error {
	sizes := []field.Size{{X: 16, Y: 16, Z: 16}, {X: 32, Y: 32, Z: 32}, {X: 64, Y: 64, Z: 64}}
	kernels := []string{"serial", "cpu", "opencl"}

	fmt.Printf("benchmarking %d steps per grid\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KERNEL\tGRID\tSTEPS\tTIME\tSTEP\tCELLS/SEC")

	for _, name := range kernels {
		kernel, err := updater.NewKernel(name, workers)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\tunavailable\n", name)
			continue
		}
		for _, size := range sizes {
			em, err := scenario.WavePacket(size, scenario.DefaultWaveParams())
			if err != nil {
				kernel.Close()
				return err
			}

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				if err := kernel.Step(em, float32(config.DefaultFrameDt)); err != nil {
					kernel.Close()
					return err
				}
			}
			elapsed := time.Since(start)
			perStep := elapsed / time.Duration(max(benchSteps, 1))
			cellsPerSec := float64(size.Cells()*benchSteps) / elapsed.Seconds()

			fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%v\t%.3g\n",
				kernel.Name(), size, benchSteps, elapsed.Round(time.Microsecond), perStep.Round(time.Microsecond), cellsPerSec)
		}
		kernel.Close()
	}

	return w.Flush()
}

func stabilitySweep(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd)
	if err != nil {
		return err
	}
	defer exp.Close()

	kernel := exp.GetSimulator().Kernel()
	log.Printf("sweeping dt in [%g, %g] on %s", dtMin, dtMax, exp.Config().GridSize())
	points, err := analysis.StabilitySweep(exp.Field(), kernel, dtMin, dtMax, sweepPoints, sweepSteps)
	if err != nil {
		return err
	}

	fmt.Println(analysis.SweepToASCII(points, 60, 16))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tGROWTH")
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4g\n", p.Dt, p.Growth)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if dt := analysis.CriticalTimestep(points, threshold); dt > 0 {
		fmt.Printf("\nunstable from dt = %.4f (growth > %g)\n", dt, threshold)
	} else {
		fmt.Printf("\nno instability up to dt = %g\n", dtMax)
	}
	return nil
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PRESET\tSCENARIO\tGRID\tSUBSTEPS\tTIME SCALE\tFRAMES")
		for _, name := range config.ListPresets() {
			p := config.GetPreset(name)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%d\n", name, p.Scenario, p.GridSize(), p.SubSteps, p.TimeScale, p.Frames)
		}
		return w.Flush()
	}

	p := config.GetPreset(args[0])
	if p == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if outFile == "" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	if err := config.Save(outFile, p); err != nil {
		return err
	}
	log.Printf("wrote %s to %s", args[0], outFile)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd)
	if err != nil {
		return err
	}
	defer exp.Close()

	cfg := exp.Config()
	m := viz.NewModel(exp.GetSimulator(), cfg.Scenario, float32(cfg.FrameDt)).
		WithTheme(theme).
		WithStride(liveStride)
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	exp, err := setup(cmd)
	if err != nil {
		return err
	}
	defer exp.Close()

	cfg := exp.Config()
	opts := gui.DefaultOptions()
	opts.Stride = guiStride
	opts.Audio = withAudio
	return gui.Run(exp.GetSimulator(), cfg.Scenario, float32(cfg.FrameDt), opts)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

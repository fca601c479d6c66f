package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/moonsim/internal/analysis"
	"github.com/san-kum/moonsim/internal/config"
	"github.com/san-kum/moonsim/internal/dynamo"
	"github.com/san-kum/moonsim/internal/experiment"
	"github.com/san-kum/moonsim/internal/storage"
	"github.com/san-kum/moonsim/internal/tui"
	"github.com/san-kum/moonsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	skipBlank  bool
	steps      int
	maxSteps   uint64
	progress   time.Duration
	save       bool
	quiet      bool
	// spectrum / plot selection
	body int
	axis string
)

// exitError carries a process exit status for outcomes that are not
// failures of the program itself.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	rootCmd := &cobra.Command{
		Use:          "moonsim",
		Short:        "moon orbit simulator and cycle finder",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	energyCmd := &cobra.Command{
		Use:   "energy [input]",
		Short: "simulate a fixed number of steps and report total energy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnergy,
	}
	addInputFlags(energyCmd)
	energyCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	energyCmd.Flags().BoolVar(&save, "save", false, "record the run in the data directory")
	energyCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print the final energy report")

	cycleCmd := &cobra.Command{
		Use:   "cycle [input]",
		Short: "step until the full state repeats",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCycle,
	}
	addInputFlags(cycleCmd)
	cycleCmd.Flags().Uint64Var(&maxSteps, "max-steps", config.DefaultMaxSteps, "step ceiling")
	cycleCmd.Flags().DurationVar(&progress, "progress", config.DefaultProgressInterval, "progress interval (0 disables)")
	cycleCmd.Flags().BoolVar(&save, "save", false, "record the run in the data directory")

	axesCmd := &cobra.Command{
		Use:   "axes [input]",
		Short: "compute the cycle length from independent axis periods",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAxes,
	}
	addInputFlags(axesCmd)
	axesCmd.Flags().Uint64Var(&maxSteps, "max-steps", config.DefaultMaxSteps, "per-axis step ceiling")

	plotCmd := &cobra.Command{
		Use:   "plot [input]",
		Short: "plot total energy over a fixed number of steps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlot,
	}
	addInputFlags(plotCmd)
	plotCmd.Flags().IntVar(&steps, "steps", 200, "number of steps")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [input]",
		Short: "estimate the dominant period of one moon on one axis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSpectrum,
	}
	addInputFlags(spectrumCmd)
	spectrumCmd.Flags().IntVar(&steps, "steps", 4096, "number of samples")
	spectrumCmd.Flags().IntVar(&body, "body", 1, "moon id")
	spectrumCmd.Flags().StringVar(&axis, "axis", "x", "axis (x, y or z)")

	watchCmd := &cobra.Command{
		Use:   "watch [input]",
		Short: "step through the simulation interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	addInputFlags(watchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in moon systems",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-8s %s\n", name, viz.Subtle.Render(p.Description))
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a recorded run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(resolveDataDir(cmd)).ExportJSON(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(energyCmd, cycleCmd, axesCmd, plotCmd, spectrumCmd, watchCmd, presetsCmd, listCmd, exportCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in moon system instead of an input file")
	cmd.Flags().BoolVar(&skipBlank, "skip-blank", true, "ignore blank input lines")
}

// loadConfig merges the config file, the positional input and any flags
// set explicitly on the command line, in that order.
func loadConfig(cmd *cobra.Command, args []string, mode string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Mode = mode

	if len(args) > 0 {
		cfg.Input = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("skip-blank") {
		cfg.SkipBlank = skipBlank
	}
	if flags.Lookup("steps") != nil && (flags.Changed("steps") || configFile == "") {
		cfg.Steps = steps
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("progress") {
		cfg.ProgressInterval = progress
	}
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveDataDir(cmd *cobra.Command) string {
	if configFile != "" && !cmd.Flags().Changed("data") {
		if cfg, err := config.Load(configFile); err == nil {
			return cfg.DataDir
		}
	}
	return dataDir
}

func setupExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	exp := experiment.New(experiment.FromConfig(cfg, preset))
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp, nil
}

type stepPrinter struct{}

func (stepPrinter) OnStep(s dynamo.System, step int) {
	viz.PrintStep(os.Stdout, step, s)
}

func runEnergy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.ModeEnergy)
	if err != nil {
		return err
	}
	expCfg := experiment.FromConfig(cfg, preset)
	expCfg.Sim.Record = save
	exp := experiment.New(expCfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	if !quiet {
		exp.Simulator().AddObserver(stepPrinter{})
	}

	result, err := exp.RunSteps(cmd.Context())
	if err != nil {
		return err
	}

	total := viz.PrintEnergy(os.Stdout, result.Final)

	if save {
		rec := &storage.Record{
			Meta: storage.RunMetadata{
				Input:   exp.Source(),
				Mode:    config.ModeEnergy,
				Bodies:  len(result.Final),
				Steps:   uint64(result.Steps),
				Energy:  total,
				Metrics: result.Metrics,
			},
			States:   result.States,
			Energies: result.Energies,
		}
		return saveRecord(cfg, rec)
	}
	return nil
}

func runCycle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.ModeCycle)
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	exp.Simulator().OnProgress(viz.NewProgress(os.Stdout, cfg.MaxSteps).Report)

	fmt.Printf("searching %s (%d moons) for a repeated state...\n", exp.Source(), len(exp.Initial()))
	result, err := exp.FindCycle(cmd.Context())
	if err != nil {
		return err
	}

	viz.PrintCycle(os.Stdout, result.Outcome, result.Step, result.Period(), result.State, result.Elapsed)

	if save {
		rec := &storage.Record{
			Meta: storage.RunMetadata{
				Input:   exp.Source(),
				Mode:    config.ModeCycle,
				Bodies:  len(result.State),
				Steps:   result.Step,
				Outcome: result.Outcome.String(),
			},
		}
		if err := saveRecord(cfg, rec); err != nil {
			return err
		}
	}

	if result.Outcome == dynamo.OutcomeExhausted {
		return &exitError{code: 2, msg: fmt.Sprintf("no repeated state within %d steps", result.Step)}
	}
	return nil
}

func saveRecord(cfg *config.Config, rec *storage.Record) error {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(rec)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runAxes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.ModeCycle)
	if err != nil {
		return err
	}
	initial, err := experiment.LoadSystem(cfg.Input, preset, cfg.SkipBlank)
	if err != nil {
		return err
	}

	start := time.Now()
	periods, err := analysis.AxisPeriods(cmd.Context(), initial, cfg.MaxSteps)
	if err != nil {
		return err
	}
	length, err := analysis.CycleLength(periods)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tPERIOD")
	for i, p := range periods {
		fmt.Fprintf(w, "%c\t%d\n", "xyz"[i], p)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Finished at step: %s\n", viz.MetricValue.Render(fmt.Sprint(length)))
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("computed in %v", time.Since(start).Round(time.Millisecond))))
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.ModeEnergy)
	if err != nil {
		return err
	}
	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	result, err := exp.RunSteps(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("source: %s\n", exp.Source())
	fmt.Printf("steps: %d\n\n", result.Steps)
	fmt.Println(viz.PlotSeries(result.Energies, "total energy vs step", 80, 15))
	fmt.Println()
	return nil
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.ModeEnergy)
	if err != nil {
		return err
	}
	initial, err := experiment.LoadSystem(cfg.Input, preset, cfg.SkipBlank)
	if err != nil {
		return err
	}

	axisIdx := map[string]int{"x": 0, "y": 1, "z": 2}
	a, ok := axisIdx[axis]
	if !ok {
		return fmt.Errorf("unknown axis: %s", axis)
	}

	data, err := analysis.Trajectory(initial, body-1, a, cfg.Steps)
	if err != nil {
		return err
	}
	mag := analysis.MagnitudeSpectrum(data)
	if len(mag) < 2 {
		return fmt.Errorf("not enough samples for a spectrum: %d", len(data))
	}

	fmt.Printf("moon %d, axis %s, %d samples\n\n", body, axis, len(data))
	fmt.Println(viz.PlotFloats(mag[1:], "magnitude spectrum", 80, 15))
	fmt.Println()

	if period := analysis.DominantPeriod(mag, len(data)); period > 0 {
		fmt.Printf("dominant period: ~%.1f steps\n", period)
	} else {
		fmt.Println("no dominant period")
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, config.ModeEnergy)
	if err != nil {
		return err
	}
	initial, err := experiment.LoadSystem(cfg.Input, preset, cfg.SkipBlank)
	if err != nil {
		return err
	}
	return tui.Run(initial)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(resolveDataDir(cmd))
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tINPUT\tMOONS\tSTEPS\tRESULT")

	for _, run := range runs {
		res := fmt.Sprintf("energy %d", run.Energy)
		if run.Mode == config.ModeCycle {
			res = run.Outcome
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Input,
			run.Bodies,
			run.Steps,
			res,
		)
	}

	return w.Flush()
}

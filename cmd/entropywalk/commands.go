package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/entropywalk/internal/config"
	"github.com/san-kum/entropywalk/internal/entropy"
	"github.com/san-kum/entropywalk/internal/export"
	"github.com/san-kum/entropywalk/internal/logging"
	"github.com/san-kum/entropywalk/internal/sim"
	"github.com/san-kum/entropywalk/internal/storage"
	"github.com/san-kum/entropywalk/internal/viz"
	"github.com/spf13/cobra"
)

var chartFields = []string{"entropy", "windowed_entropy", "dispersion", "return_rate", "quality"}

// resolveConfig layers preset, config file and explicitly set flags, in that
// order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
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
	if flags.Changed("sources") {
		pops := make([]config.Population, 0, len(sourceNames))
		for i, name := range sourceNames {
			name = strings.TrimSpace(name)
			pops = append(pops, config.Population{
				Name:    fmt.Sprintf("%s-%d", name, i+1),
				Source:  name,
				Seed:    uint64(i + 1),
				Walkers: config.DefaultWalkers,
			})
		}
		cfg.Populations = pops
	}
	if flags.Changed("walkers") {
		cfg.SetWalkers(walkers)
	}
	if flags.Changed("seed") {
		for i := range cfg.Populations {
			cfg.Populations[i].Seed = seed + uint64(i)
		}
	}
	if flags.Changed("fault-every") && len(cfg.Populations) > 0 {
		cfg.Populations[len(cfg.Populations)-1].FaultEvery = faultEvery
	}
	if flags.Changed("cell-size") {
		cfg.CellSize = cellSize
	}
	if flags.Changed("return-radius") {
		cfg.ReturnRadius = returnRadius
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Lookup("fps") != nil && flags.Changed("fps") {
		cfg.FPS = fps
	}
	cfg.DataDir = layered(flags.Changed("data"), dataDir, cfg.DataDir, config.DefaultDataDir)
	cfg.LogLevel = layered(flags.Changed("log-level"), logLevel, cfg.LogLevel, config.DefaultLogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// layered picks the flag value when it was set, then a value the config file
// changed from its default, then the flag default, which carries the
// environment.
func layered(changed bool, flagValue, fileValue, def string) string {
	if changed || fileValue == "" || fileValue == def {
		return flagValue
	}
	return fileValue
}

func runLabel() string {
	switch {
	case label != "":
		return label
	case preset != "":
		return preset
	}
	return "run"
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// the terminal belongs to the TUI, so logs go to a file
	logger, closeLog, err := logging.OpenFile(cfg.DataDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := sim.New(cfg, entropy.NewRegistry(logger), logger)
	if err != nil {
		return err
	}

	exportDir := filepath.Join(cfg.DataDir, "exports")
	opts := viz.Options{
		FPS:      cfg.FPS,
		Theme:    theme,
		Scale:    scale,
		OnExport: func(snap sim.Snapshot) (string, error) { return exportSnapshot(exportDir, snap, logger) },
	}

	logger.Info("starting live view", "lanes", len(cfg.Populations), "fps", cfg.FPS)
	return viz.Run(s, opts)
}

func exportSnapshot(dir string, snap sim.Snapshot, logger *log.Logger) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102_150405")
	written := 0
	for _, lane := range snap.Lanes {
		if lane.Heatmap.Len() == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%s_t%d.svg", lane.Name, stamp, snap.Tick))
		opts := export.SVGOptions{
			Title:     fmt.Sprintf("%s (%s) tick %d", lane.Name, lane.Source, snap.Tick),
			Positions: lane.Positions,
		}
		if err := export.SaveHeatmapSVG(path, lane.Heatmap, opts); err != nil {
			return "", err
		}
		logger.Info("exported heatmap", "lane", lane.Name, "path", path)
		written++
	}
	if written == 0 {
		return "nothing to export yet", nil
	}
	return fmt.Sprintf("exported %d heatmaps to %s", written, dir), nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	s, err := sim.New(cfg, entropy.NewRegistry(logger), logger)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := s.Run(cmd.Context(), cfg.Ticks)
	if err != nil {
		logger.Warn("run interrupted", "tick", s.Ticks(), "err", err)
		if result == nil {
			return err
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("%d ticks in %v\n\n", result.Ticks, elapsed.Round(time.Millisecond))
	printLanes(result.Lanes)

	if noSave {
		return nil
	}
	store := storage.New(cfg.DataDir)
	if err := store.Init(); err != nil {
		return err
	}
	runID, err := store.Save(runLabel(), cfg, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func printLanes(lanes []sim.LaneSnapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LANE\tSOURCE\tDISPERSION\tENTROPY\tWINDOWED\tRETURN %\tMOVES\tSKIPPED\tHEALTH")
	for _, l := range lanes {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.4f\t%.4f\t%.3f\t%d\t%d\t%s\n",
			l.Name, l.Source,
			l.Stats.Dispersion, l.Stats.Entropy, l.Stats.WindowedEntropy,
			l.Stats.ReturnRate, l.Stats.TotalMoves,
			l.Health.SkippedTicks, l.Health.Status())
	}
	w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if runs <= 0 {
		return fmt.Errorf("--runs must be positive, got %d", runs)
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	fmt.Printf("ensemble: %d runs x %d ticks\n\n", runs, cfg.Ticks)

	start := time.Now()
	results, err := sim.NewEnsemble(cfg, entropy.NewRegistry(logger), runs, logger).Run(cmd.Context(), cfg.Ticks)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LANE\tRUNS\tDISPERSION\t±\tENTROPY\t±\tRETURN %\tSKIPPED")
	for _, a := range sim.Aggregate(results) {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.4f\t%.4f\t%.3f\t%.1f\n",
			a.Name, a.Runs, a.DispersionMean, a.DispersionStd,
			a.EntropyMean, a.EntropyStd, a.ReturnRateMean, a.SkippedMean)
	}
	w.Flush()

	total := float64(runs * cfg.Ticks)
	fmt.Printf("\n%v total, %.0f ticks/sec\n", elapsed.Round(time.Millisecond), total/elapsed.Seconds())
	return nil
}

func openStore() *storage.Store {
	return storage.New(dataDir)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runList, err := openStore().List()
	if err != nil {
		return err
	}
	if len(runList) == 0 {
		fmt.Println("no runs saved yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tLANES\tTICKS\tTIME")
	for _, r := range runList {
		names := make([]string, len(r.Lanes))
		for i, l := range r.Lanes {
			names[i] = l.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Label, strings.Join(names, ","), r.Ticks, r.Timestamp.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, err := openStore().Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s  %d ticks  cell %d  radius %d\n\n",
		meta.ID, meta.Timestamp.Format(time.DateTime), meta.Ticks,
		meta.Config.CellSize, meta.Config.ReturnRadius)
	printLanes(meta.Lanes)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nLANE\tMETRIC\tVALUE")
	for _, l := range meta.Lanes {
		for _, name := range sortedKeys(l.Metrics) {
			fmt.Fprintf(w, "%s\t%s\t%.3f\n", l.Name, name, l.Metrics[name])
		}
	}
	w.Flush()
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	series, err := openStore().LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	fields := chartFields
	if field != "" {
		fields = []string{field}
	}
	for _, f := range fields {
		chart, err := viz.SeriesChart(series, f, 70, 12)
		if err != nil {
			return err
		}
		fmt.Println(chart)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	series, err := openStore().LoadSeries(args[0])
	if err != nil {
		return err
	}
	if output == "" {
		return storage.WriteSeriesCSV(os.Stdout, series)
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := storage.WriteSeriesCSV(f, series); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported: %s\n", output)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	data, err := openStore().Export(args[0])
	if err != nil {
		return err
	}
	if output == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(output, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported: %s\n", output)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	store := openStore()
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}

	lanes := meta.Lanes
	if laneName != "" {
		l, ok := meta.Lane(laneName)
		if !ok {
			return fmt.Errorf("run %s has no lane %q", meta.ID, laneName)
		}
		lanes = []sim.LaneSnapshot{l}
	}

	if err := os.MkdirAll(output, 0755); err != nil {
		return err
	}
	for _, l := range lanes {
		snap, err := store.LoadHeatmap(meta.ID, l.Name)
		if err != nil {
			return err
		}
		if snap.Len() == 0 {
			fmt.Fprintf(os.Stderr, "skipped %s: empty heatmap\n", l.Name)
			continue
		}
		path := filepath.Join(output, fmt.Sprintf("%s_%s.svg", meta.ID, l.Name))
		opts := export.SVGOptions{Title: fmt.Sprintf("%s (%s) %d ticks", l.Name, l.Source, meta.Ticks)}
		if err := export.SaveHeatmapSVG(path, snap, opts); err != nil {
			return err
		}
		fmt.Printf("exported: %s\n", path)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tPOPULATIONS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		pops := make([]string, len(cfg.Populations))
		for i, p := range cfg.Populations {
			pops[i] = fmt.Sprintf("%s=%s×%d", p.Name, p.Source, p.Walkers)
		}
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(pops, "  "))
	}
	w.Flush()
	return nil
}

func listSources(cmd *cobra.Command, args []string) error {
	reg := entropy.NewRegistry(nil)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tDESCRIPTION")
	for _, name := range reg.List() {
		fmt.Fprintf(w, "%s\t%s\n", name, reg.Describe(name))
	}
	fmt.Fprintf(w, "%s\t%s\n", sim.ReplaySource, "scripted directions from a population's script field")
	w.Flush()
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

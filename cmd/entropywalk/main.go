package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/san-kum/entropywalk/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dataDir      string
	logLevel     string
	configFile   string
	preset       string
	walkers      int
	cellSize     int
	returnRadius int
	ticks        int
	fps          int
	sampleEvery  int
	seed         uint64
	sourceNames  []string
	faultEvery   int
	theme        string
	scale        int
	runs         int
	noSave       bool
	label        string
	field        string
	laneName     string
	output       string
)

// main wires the CLI. With no subcommand it starts the live view.
// Environment (or a .env file): ENTROPYWALK_DATA and ENTROPYWALK_LOG_LEVEL set
// the defaults of --data and --log-level.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("could not load .env file", "err", err)
	}

	env := viper.New()
	env.SetEnvPrefix("ENTROPYWALK")
	env.AutomaticEnv()
	env.SetDefault("DATA", config.DefaultDataDir)
	env.SetDefault("LOG_LEVEL", config.DefaultLogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCmd(env).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(env *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "entropywalk",
		Short: "compare random walks driven by different entropy sources",
		RunE:  runLive,
	}
	addSimFlags(rootCmd)
	addLiveFlags(rootCmd)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.GetString("DATA"), "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", env.GetString("LOG_LEVEL"), "log level (debug, info, warn, error)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the live side-by-side view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addLiveFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and save a summary",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	addSimFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without saving it")
	runCmd.Flags().StringVar(&label, "label", "", "run label (defaults to preset or \"run\")")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run an ensemble of seeds in parallel and aggregate",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&runs, "runs", 8, "number of ensemble runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the final statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	chartsCmd := &cobra.Command{
		Use:   "charts [run_id]",
		Short: "plot the sampled series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	chartsCmd.Flags().StringVar(&field, "field", "", "series to plot (entropy, windowed_entropy, dispersion, return_rate, quality); all when empty")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the sampled series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and series as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render stored heatmaps as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&laneName, "lane", "", "lane to render (all when empty)")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "list entropy sources",
		Args:  cobra.NoArgs,
		RunE:  listSources,
	}

	rootCmd.AddCommand(liveCmd, runCmd, benchCmd, listCmd, showCmd, chartsCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, sourcesCmd)
	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&walkers, "walkers", config.DefaultWalkers, "walkers per population")
	cmd.Flags().IntVar(&cellSize, "cell-size", config.DefaultCellSize, "heatmap cell size")
	cmd.Flags().IntVar(&returnRadius, "return-radius", 0, "distance from origin that counts as a return (0 = exact)")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run (headless)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "series sampling period in ticks")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "base seed for seeded sources")
	cmd.Flags().StringSliceVar(&sourceNames, "sources", nil, "one population per source, e.g. pseudo,hybrid")
	cmd.Flags().IntVar(&faultEvery, "fault-every", 0, "fail every nth draw of the last population")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frames (ticks) per second")
	cmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	cmd.Flags().IntVar(&scale, "scale", 1, "dots per step (1-4)")
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/chromasim/internal/blob"
	"github.com/san-kum/chromasim/internal/config"
	"github.com/san-kum/chromasim/internal/experiment"
	"github.com/san-kum/chromasim/internal/export"
	"github.com/san-kum/chromasim/internal/frames"
	"github.com/san-kum/chromasim/internal/render"
	"github.com/san-kum/chromasim/internal/server"
	"github.com/san-kum/chromasim/internal/storage"
	"github.com/san-kum/chromasim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	frameCount int
	seed       int64
	random     int
	width      int
	height     int
	delay      int
	outFile    string
	addr       string
	theme      string
	title      string
	quiet      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chromasim",
		Short: "thin-layer chromatography simulator",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chromasim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml)")

	runCmd := &cobra.Command{
		Use:   "run [name=rf ...]",
		Short: "simulate a plate and write the animation",
		RunE:  runPlate,
	}
	runCmd.Flags().IntVar(&frameCount, "frames", config.DefaultFrameCount, "frames before the buffer")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	runCmd.Flags().StringVar(&preset, "preset", "", "named compound set")
	runCmd.Flags().IntVar(&random, "random", 0, "draw N random compounds")
	runCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width")
	runCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height")
	runCmd.Flags().IntVar(&delay, "delay", config.DefaultDelay, "frame delay in 1/100 s")
	runCmd.Flags().StringVar(&outFile, "out", "plate.gif", "output gif")
	runCmd.Flags().StringVar(&title, "title", "", "chart title")

	liveCmd := &cobra.Command{
		Use:   "live [name=rf ...]",
		Short: "animate a plate in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&frameCount, "frames", config.DefaultFrameCount, "frames before the buffer")
	liveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "named compound set")
	liveCmd.Flags().IntVar(&random, "random", 0, "draw N random compounds")
	liveCmd.Flags().StringVar(&theme, "theme", "silica", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the http service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&title, "title", "", "chart title")
	serveCmd.Flags().BoolVar(&quiet, "quiet", false, "discard request logs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the y trajectories of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write the final frame of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width")
	svgCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available compound presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-12s %s\n", name, p.Description)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// simulate resolves flags against cfg and runs one experiment.
func simulate(cmd *cobra.Command, args []string, cfg *config.Config) (*experiment.Experiment, *experiment.Result, error) {
	if !cmd.Flags().Changed("frames") {
		frameCount = cfg.FrameCount
	}
	if !cmd.Flags().Changed("seed") && cfg.Seed != 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	samples, err := chooseSamples(args, random, preset, cfg, seed)
	if err != nil {
		return nil, nil, err
	}

	exp := experiment.New(experiment.Config{
		Samples:    samples,
		FrameCount: frameCount,
		Seed:       seed,
		Jitter:     cfg.Jitter,
	})
	res, err := exp.Run(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return exp, res, nil
}

func runPlate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("width") {
		width = cfg.Render.Width
	}
	if !cmd.Flags().Changed("height") {
		height = cfg.Render.Height
	}
	if !cmd.Flags().Changed("delay") {
		delay = cfg.Render.Delay
	}

	start := time.Now()
	exp, res, err := simulate(cmd, args, cfg)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("title") {
		cfg.Render.Title = title
	}
	cfg.Render.Width, cfg.Render.Height, cfg.Render.Delay = width, height, delay
	r := render.New(renderOptions(cfg.Render)...)
	fmt.Printf("rendering %d frames...\n", frames.TotalFrames(res.FrameCount))
	gif, err := exp.Render(cmd.Context(), r, res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, gif, 0o644); err != nil {
		return err
	}

	st := storage.New(dataDir)
	runID, err := st.Save(storage.RunMetadata{
		Seed:       res.Seed,
		FrameCount: res.FrameCount,
		Compounds:  storage.MetaFor(res.Compounds),
		Artifact:   outFile,
	}, res.Entries)
	if err != nil {
		return err
	}

	fmt.Printf("%s %v\n", viz.MetricLabel.Render("completed in"), viz.MetricValue.Render(time.Since(start).Round(time.Millisecond).String()))
	fmt.Printf("%s %s\n", viz.MetricLabel.Render("run id:"), viz.MetricValue.Render(runID))
	fmt.Printf("%s %d\n", viz.MetricLabel.Render("seed:"), res.Seed)
	fmt.Printf("%s %s (%d bytes)\n", viz.MetricLabel.Render("gif:"), outFile, len(gif))
	var b strings.Builder
	for _, c := range res.Compounds {
		fmt.Fprintf(&b, "%-16s lane %d  rf %.3f\n", c.Name(), c.Lane(), c.Rate())
	}
	fmt.Println()
	fmt.Println(viz.BoxWithTitle("compounds", strings.TrimSuffix(b.String(), "\n"), 40))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	_, res, err := simulate(cmd, args, cfg)
	if err != nil {
		return err
	}
	viz.SetTheme(theme)
	return viz.Run(res.Entries, res.FrameCount, experiment.Labels(res.Compounds))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.ApplyEnv(nil)
	if cmd.Flags().Changed("addr") || cfg.Server.Addr == "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := blob.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("title") {
		cfg.Render.Title = title
	}

	srv := server.New(store,
		server.WithLogger(serverLogger(quiet, os.Stderr)),
		server.WithFrameCount(cfg.FrameCount),
		server.WithJitter(cfg.Jitter),
		server.WithRenderOptions(renderOptions(cfg.Render)...),
	)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func renderOptions(cfg config.Render) []render.Option {
	opts := []render.Option{
		render.WithSize(cfg.Width, cfg.Height),
		render.WithDelay(cfg.Delay),
		render.WithTrail(cfg.Trail),
		render.WithDotWidth(cfg.DotWidth),
	}
	if cfg.Title != "" {
		opts = append(opts, render.WithTitle(cfg.Title))
	}
	return opts
}

func serverLogger(quiet bool, w io.Writer) server.Logger {
	if quiet {
		w = io.Discard
	}
	return server.NewStdLogger(log.New(w, "chromasim: ", log.LstdFlags))
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
	fmt.Fprintln(w, "ID\tTIME\tFRAMES\tSEED\tCOMPOUNDS\tGIF")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.FrameCount,
			run.Seed,
			len(run.Compounds),
			run.Artifact,
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
	entries, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(entries[0].Series.Y))
	fmt.Println(viz.Trajectories(entries, len(entries[0].Series.Y), 80, 12, "y position vs frame"))
	return nil
}

// output returns the --out file, or stdout when unset.
func output() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	entries, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no data to export")
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteSeries(w, entries); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	entries, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if outFile != "" {
		return export.ExportJSON(outFile, *meta, entries)
	}
	return export.WriteJSON(os.Stdout, *meta, entries)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	entries, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	labels := render.DefaultTicks
	if len(meta.Compounds) > 0 {
		labels = svgLabels(meta.Compounds)
	}
	last := frames.TotalFrames(meta.FrameCount)
	svg := export.PlateSVG(entries, meta.FrameCount, last, labels, width, height)
	if svg == "" {
		return fmt.Errorf("run %s cannot be drawn", runID)
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, svg); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// svgLabels names lanes from run metadata, padded like experiment.Labels.
func svgLabels(compounds []storage.CompoundMeta) []string {
	labels := append([]string(nil), render.DefaultTicks...)
	for _, c := range compounds {
		if c.Lane >= 0 && c.Lane < len(labels) {
			labels[c.Lane] = c.Name
		}
	}
	return labels
}

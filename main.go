package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/df07/go-lighttree-raytracer/pkg/config"
	"github.com/df07/go-lighttree-raytracer/pkg/lights"
	"github.com/df07/go-lighttree-raytracer/pkg/lighttree"
	"github.com/df07/go-lighttree-raytracer/pkg/logging"
	"github.com/df07/go-lighttree-raytracer/pkg/renderer"
	"github.com/df07/go-lighttree-raytracer/pkg/scene"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// options are the flags shared by every command
type options struct {
	configPath string
	sceneID    string
	logLevel   string
}

// renderOptions override the render section of the configuration
type renderOptions struct {
	width, height int
	spp, workers  int
	seed          int64
	threshold     float64
	noTree        bool
	branched      bool
	output        string
	metricsPath   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "lighttree",
		Short:        "Path tracer with light tree direct lighting",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML or JSON configuration file")
	root.PersistentFlags().StringVarP(&opts.sceneID, "scene", "s", "cornell", "scene to load (see 'lighttree scenes')")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides the configuration")

	root.AddCommand(newRenderCmd(opts), newTreeCmd(opts), newScenesCmd())
	return root
}

// setup loads the configuration and the logger
func (o *options) setup(cmd *cobra.Command) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, logging.New(cfg.LogLevel, cmd.ErrOrStderr()), nil
}

// loadScene looks up and builds the selected scene
func (o *options) loadScene(cfg config.Config, logger logrus.FieldLogger) (*scene.Scene, error) {
	s, err := scene.Lookup(o.sceneID)
	if err != nil {
		return nil, err
	}
	if err := s.Build(cfg.Integrator, logger); err != nil {
		return nil, err
	}
	return s, nil
}

func newRenderCmd(opts *options) *cobra.Command {
	ro := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to a PNG file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			ro.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), opts, ro, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&ro.width, "width", 0, "image width")
	flags.IntVar(&ro.height, "height", 0, "image height")
	flags.IntVar(&ro.spp, "spp", 0, "samples per pixel")
	flags.IntVar(&ro.workers, "workers", 0, "parallel workers (0 = number of CPUs)")
	flags.Int64Var(&ro.seed, "seed", 0, "random seed")
	flags.Float64Var(&ro.threshold, "splitting-threshold", 0, "light tree splitting threshold in [0,1]")
	flags.BoolVar(&ro.noTree, "no-tree", false, "pick lights by power instead of through the light tree")
	flags.BoolVar(&ro.branched, "branched", false, "split the first bounce into per-lobe samples")
	flags.StringVarP(&ro.output, "output", "o", "", "output file (default output/<scene>/render_<timestamp>.png)")
	flags.StringVar(&ro.metricsPath, "metrics", "", "write prometheus metrics in text format to this file")
	return cmd
}

// apply copies the flags the user set into cfg
func (ro *renderOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Render.Width = ro.width
	}
	if flags.Changed("height") {
		cfg.Render.Height = ro.height
	}
	if flags.Changed("spp") {
		cfg.Render.SamplesPerPixel = ro.spp
	}
	if flags.Changed("workers") {
		cfg.Render.Workers = ro.workers
	}
	if flags.Changed("seed") {
		cfg.Render.Seed = ro.seed
	}
	if flags.Changed("splitting-threshold") {
		cfg.Integrator.SplittingThreshold = ro.threshold
	}
	if ro.noTree {
		cfg.Integrator.UseLightTree = false
	}
	if ro.branched {
		cfg.Integrator.Branched = true
	}
}

func runRender(ctx context.Context, out io.Writer, opts *options, ro *renderOptions, cfg config.Config, logger *logrus.Logger) error {
	s, err := opts.loadScene(cfg, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rt, err := renderer.NewRaytracer(s, cfg, logger, renderer.NewMetrics(reg))
	if err != nil {
		return err
	}

	img, stats, err := rt.Render(ctx)
	if err != nil {
		return err
	}

	filename := ro.output
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join("output", s.Name, fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := savePNG(filename, img); err != nil {
		return err
	}

	if ro.metricsPath != "" {
		if err := prometheus.WriteToTextfile(ro.metricsPath, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	printRenderStats(out, s.Name, filename, stats)
	return nil
}

func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}

func printRenderStats(out io.Writer, sceneName, filename string, stats renderer.RenderStats) {
	table := tablewriter.NewWriter(out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stat", "Value"})
	table.AppendBulk([][]string{
		{"Scene", sceneName},
		{"Run", stats.RunID.String()},
		{"Output", filename},
		{"Pixels", strconv.Itoa(stats.TotalPixels)},
		{"Samples", strconv.Itoa(stats.TotalSamples)},
		{"Samples/s", fmt.Sprintf("%.0f", stats.SamplesPerSecond())},
		{"Lights sampled", strconv.Itoa(stats.Diagnostics.LightsSampled)},
		{"Traversal failures", strconv.Itoa(stats.Diagnostics.TraversalFailures)},
		{"Invalid samples", strconv.Itoa(stats.InvalidSamples)},
	})
	table.SetFooter([]string{"Render time", stats.Duration.Round(time.Millisecond).String()})
	table.Render()
}

func newTreeCmd(opts *options) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the light groups and the top of the light tree of a scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			s, err := opts.loadScene(cfg, logger)
			if err != nil {
				return err
			}
			printGroups(cmd.OutOrStdout(), s.LightSet)
			printTree(cmd.OutOrStdout(), s.LightSet.Tree(), depth)
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 3, "deepest tree level to print")
	return cmd
}

func printGroups(out io.Writer, set *lights.Set) {
	table := tablewriter.NewWriter(out)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Group", "Lights", "Probability"})
	for _, g := range []lights.Group{lights.GroupTree, lights.GroupDistant, lights.GroupBackground} {
		table.Append([]string{
			g.String(),
			strconv.Itoa(len(set.Members(g))),
			fmt.Sprintf("%.4f", set.Groups().Probability(g)),
		})
	}
	table.Render()
}

// printTree lists the nodes down to maxDepth in depth-first order
func printTree(out io.Writer, tree *lighttree.Tree, maxDepth int) {
	if tree == nil || tree.Empty() {
		fmt.Fprintln(out, "light tree is empty")
		return
	}

	table := tablewriter.NewWriter(out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Offset", "Depth", "Kind", "Emitters", "Energy", "Variance", "Bounds"})

	type entry struct{ offset, depth int }
	stack := []entry{{0, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.ReadNode(e.offset)
		kind := "interior"
		if node.IsLeaf() {
			kind = fmt.Sprintf("leaf #%d", node.EmitterIndex)
		}
		bounds := node.Bounds()
		table.Append([]string{
			strconv.Itoa(e.offset),
			strconv.Itoa(e.depth),
			kind,
			strconv.Itoa(int(node.EmitterCount)),
			fmt.Sprintf("%.4g", node.Energy),
			fmt.Sprintf("%.4g", node.EnergyVariance),
			fmt.Sprintf("(%.2f %.2f %.2f)-(%.2f %.2f %.2f)", bounds.Min.X, bounds.Min.Y, bounds.Min.Z, bounds.Max.X, bounds.Max.Y, bounds.Max.Z),
		})

		if node.IsLeaf() || e.depth >= maxDepth {
			continue
		}
		left, right := tree.Children(e.offset)
		// right first so the left subtree prints first
		stack = append(stack, entry{right, e.depth + 1}, entry{left, e.depth + 1})
	}
	table.SetFooter([]string{"", "", "", "", "", "nodes", strconv.Itoa(tree.NumNodes())})
	table.Render()
}

func newScenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoFormatHeaders(false)
			table.SetHeader([]string{"ID", "Name", "Lights", "Description"})
			for _, info := range scene.ListScenes() {
				table.Append([]string{info.ID, info.DisplayName, strconv.Itoa(info.Lights), info.Description})
			}
			table.Render()
			return nil
		},
	}
}

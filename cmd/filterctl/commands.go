package main

import (
	"fmt"
	stdio "io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-filter-engine/internal/algorithms"
	"image-filter-engine/internal/core"
	"image-filter-engine/internal/grid"
	"image-filter-engine/internal/io"
	"image-filter-engine/internal/metrics"
)

func newApplyCommand(opts *rootOptions) *cobra.Command {
	var (
		filter      string
		rawParams   []string
		rescale     bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "apply INPUT OUTPUT",
		Short: "Apply one filter; \"-\" reads stdin or writes PNG to stdout",
		Example: "  filterctl apply --filter gaussian --param sigma=2 in.png out.png\n" +
			"  filterctl apply -f sobel -p dx=0 -p dy=1 --rescale in.png edges.png\n" +
			"  filterctl apply -f median - - < in.jpg > out.png",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			params := opts.cfg.Params(filter, overrides)

			input, err := opts.loadInput(cmd, args[0])
			if err != nil {
				return err
			}

			start := time.Now()
			output, err := algorithms.Apply(filter, input, params, algorithms.WithWorkers(opts.cfg.Workers))
			if err != nil {
				return err
			}
			opts.logger.WithFields(logrus.Fields{
				"algorithm": filter,
				"params":    params,
				"duration":  time.Since(start),
			}).Info("PIPELINE: filter applied")

			if err := opts.saveOutput(cmd, output, args[1], rescale); err != nil {
				return err
			}
			if showMetrics {
				return printReport(reportWriter(cmd, args[1]), input, output)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&filter, "filter", "f", "gaussian", "Algorithm name (see `filterctl list`)")
	flags.StringArrayVarP(&rawParams, "param", "p", nil, "Parameter override as key=value, repeatable")
	flags.BoolVar(&rescale, "rescale", false, "Stretch output to [0,255] instead of clamping")
	flags.BoolVar(&showMetrics, "metrics", false, "Print a quality report comparing input and output")
	return cmd
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	var (
		rescale     bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "run INPUT OUTPUT",
		Short: "Run the [[steps]] pipeline from the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.cfg.Steps) == 0 {
				return fmt.Errorf("configuration has no steps")
			}

			pipeline := core.NewPipeline(opts.logger)
			pipeline.SetWorkers(opts.cfg.Workers)
			pipeline.SetEvaluateSteps(opts.cfg.Debug)
			for _, step := range opts.cfg.Steps {
				if err := pipeline.AddStep(step.Algorithm, opts.cfg.Params(step.Algorithm, step.Params)); err != nil {
					return err
				}
			}

			input, err := opts.loadInput(cmd, args[0])
			if err != nil {
				return err
			}

			result, err := pipeline.Process(cmd.Context(), input)
			if err != nil {
				return err
			}
			for _, step := range result.Steps {
				fmt.Fprintf(reportWriter(cmd, args[1]), "step %d  %-10s %s\n", step.Index, step.Algorithm, step.Duration.Round(time.Microsecond))
			}

			if err := opts.saveOutput(cmd, result.Output, args[1], rescale); err != nil {
				return err
			}
			if showMetrics {
				return printReport(reportWriter(cmd, args[1]), input, result.Output)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rescale, "rescale", false, "Stretch output to [0,255] instead of clamping")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print a quality report comparing input and output")
	return cmd
}

func newDemoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo INPUT OUTDIR",
		Short: "Write all five filter outputs with default parameters into OUTDIR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := opts.store()
			input, err := loader.LoadGrayscale(args[0])
			if err != nil {
				return err
			}

			data := core.NewImageData()
			if err := data.SetOriginal(input, args[0]); err != nil {
				return err
			}

			start := time.Now()
			if err := core.RunDemo(cmd.Context(), data, opts.cfg.Workers); err != nil {
				return err
			}
			opts.logger.WithField("duration", time.Since(start)).Info("PIPELINE: demo filters complete")

			if err := os.MkdirAll(args[1], 0o755); err != nil {
				return err
			}
			for _, panel := range core.DemoPanels {
				if panel.Algorithm == "" {
					continue
				}
				out, _ := data.GetResult(panel.Algorithm)
				path := filepath.Join(args[1], panel.Algorithm+".png")
				if err := loader.SaveImage(panel.Display(out), path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-26s %s\n", panel.Title, path)
			}
			return nil
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List algorithms and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listAlgorithms(cmd.OutOrStdout(), opts.cfg.Params)
			return nil
		},
	}
}

// listAlgorithms prints every registered algorithm grouped by category,
// with each parameter's configured value, range and description.
func listAlgorithms(w stdio.Writer, params func(string, map[string]interface{}) map[string]interface{}) {
	all := algorithms.GetAllAlgorithms()
	groups := algorithms.GetAlgorithmsByCategory()

	order := []string{"Smoothing", "Edges"}
	for _, category := range order {
		for _, name := range groups[category] {
			delete(all, name)
		}
	}
	if len(all) > 0 {
		order = append(order, "Other")
		groups["Other"] = slices.Sorted(maps.Keys(all))
	}

	for _, category := range order {
		fmt.Fprintf(w, "%s:\n", category)
		for _, name := range groups[category] {
			algorithm, ok := algorithms.Get(name)
			if !ok {
				continue
			}
			values := params(name, nil)
			fmt.Fprintf(w, "  %s (%s): %s\n", name, algorithm.GetName(), algorithm.GetDescription())

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, info := range algorithm.GetParameterInfo() {
				fmt.Fprintf(tw, "    %s\t%v\t%s\t%s\n", info.Name, values[info.Name], describeRange(info), info.Description)
			}
			tw.Flush()
		}
	}
}

func describeRange(info algorithms.ParameterInfo) string {
	if len(info.Options) > 0 {
		return "{" + strings.Join(info.Options, ",") + "}"
	}
	return fmt.Sprintf("[%v..%v]", info.Min, info.Max)
}

// parseParams turns key=value pairs into float64 parameters
func parseParams(raw []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q: want key=value", kv)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}
		params[strings.TrimSpace(key)] = f
	}
	return params, nil
}

// loadInput reads path, or an encoded image from stdin when path is "-"
func (o *rootOptions) loadInput(cmd *cobra.Command, path string) (*grid.Grid, error) {
	if path == "-" {
		return io.NewImageLoader(o.logger).DecodeGrayscale(cmd.InOrStdin())
	}
	return o.store().LoadGrayscale(path)
}

// saveOutput writes g to path, or as PNG to stdout when path is "-"
func (o *rootOptions) saveOutput(cmd *cobra.Command, g *grid.Grid, path string, rescale bool) error {
	if rescale {
		g = g.Rescale()
	}
	if path == "-" {
		return io.NewImageLoader(o.logger).Encode(cmd.OutOrStdout(), g, imaging.PNG)
	}
	return o.store().SaveImage(g, path)
}

// reportWriter keeps the report off stdout when the image goes there
func reportWriter(cmd *cobra.Command, output string) stdio.Writer {
	if output == "-" {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

func printReport(w stdio.Writer, input, output *grid.Grid) error {
	evaluator := metrics.NewEvaluator()
	report := evaluator.GenerateReport(input, output)
	info := evaluator.GetMetricInfo()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range slices.Sorted(maps.Keys(report.Metrics)) {
		direction := "lower is better"
		if info[name].HigherBetter {
			direction = "higher is better"
		}
		fmt.Fprintf(tw, "%s\t%.4f\t%s\n", name, report.Metrics[name], direction)
	}
	fmt.Fprintf(tw, "overall\t%.1f\t%s\n", report.OverallScore, report.Analysis.QualityLevel)
	for _, issue := range report.Analysis.Issues {
		fmt.Fprintf(tw, "issue\t%s\n", issue)
	}
	return tw.Flush()
}

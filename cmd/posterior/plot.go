package main

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/uyouii/posterior-diagnostics/figure"
	"github.com/uyouii/posterior-diagnostics/kde"
	"github.com/uyouii/posterior-diagnostics/utils"
)

var plotCmd = &cobra.Command{
	Use:   "plot [csv-file]",
	Short: "plot the posterior histogram of one parameter with its HDI",
	Long: `
Plot the histogram of one parameter, marking the highest density interval
and, with --rope, the region of practical equivalence. The marginal mode is
printed to stderr.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlot,
}

var gridCmd = &cobra.Command{
	Use:   "grid [csv-file]",
	Short: "plot the histograms of all parameters in a grid",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGrid,
}

var densityCmd = &cobra.Command{
	Use:   "density [csv-file]",
	Short: "describe one parameter and draw its kernel density estimate in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDensity,
}

var densityQuantiles = []float64{0.05, 0.25, 0.5, 0.75, 0.95}

func runPlot(cmd *cobra.Command, args []string) (err error) {
	table, err := readTable(args)
	if err != nil {
		return err
	}
	density, err := densityConfig()
	if err != nil {
		return err
	}
	f, w, closeOut, err := output(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}()

	opts := figure.DefaultFeatureOptions()
	opts.Alpha = alpha
	opts.Rope = rope
	opts.Density = density

	res, err := figure.ShowFeaturePosterior(newContext(), w, f, table, selectFeature(table), opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: mode %v, HDI %v\n", res.Feature, res.Mode, res.HDI)
	return nil
}

func runGrid(cmd *cobra.Command, args []string) (err error) {
	table, err := readTable(args)
	if err != nil {
		return err
	}
	f, w, closeOut, err := output(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}()

	opts := figure.DefaultGridOptions()
	opts.Columns = columns
	_, err = figure.ShowHistogramGrid(newContext(), w, f, table, opts)
	return err
}

func runDensity(cmd *cobra.Command, args []string) error {
	table, err := readTable(args)
	if err != nil {
		return err
	}
	cfg, err := densityConfig()
	if err != nil {
		return err
	}
	cfg.GridSize = gridSize

	name := selectFeature(table)
	values, err := table.Column(name)
	if err != nil {
		return err
	}
	curve, err := kde.DensityCurve(newContext(), values, nil, cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	sample := (&stats.Sample{Xs: values}).Sort()
	fmt.Fprintf(w, "N %d  mean %.6g  std dev %.6g\n", len(sample.Xs), sample.Mean(), sample.StdDev())
	for _, p := range densityQuantiles {
		fmt.Fprintf(w, "%8s %.6g\n", utils.Percent(p)+"%ile", sample.Quantile(p))
	}
	fmt.Fprintln(w)

	first, last := curve.Points[0].X, curve.Points[len(curve.Points)-1].X
	caption := fmt.Sprintf("%s density on [%.4g, %.4g], bandwidth %.4g, peak at %.4g",
		name, first, last, curve.Bandwidth, curve.Peak.X)
	graph := asciigraph.Plot(curve.Values(), asciigraph.Height(figure.TextHeight*2),
		asciigraph.Width(80), asciigraph.Caption(caption))
	_, err = fmt.Fprintln(w, graph)
	return err
}

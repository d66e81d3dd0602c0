package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/posterior-diagnostics/bocd"
	"github.com/uyouii/posterior-diagnostics/estimate"
	"github.com/uyouii/posterior-diagnostics/figure"
)

var (
	alpha     float64
	roundTo   int
	raw       bool
	chains    int
	bandwidth string
	rhat      string
	format    string
	out       string
	feature   string
	verbose   bool
	jsonOut   bool
	rope      []float64
	columns   int
	gridSize  int
	hazard    float64
	threshold float64
)

var rootCmd = &cobra.Command{
	Use:   "posterior [command] (flags)",
	Short: "posterior sample diagnostics",
	Long: `
Summarize and plot posterior draws read from a CSV file (or stdin) with one
column per parameter and a header row of parameter names.
`,
	SilenceUsage: true,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		summaryCmd,
		mapCmd,
		modeCmd,
		hdiCmd,
		plotCmd,
		gridCmd,
		densityCmd,
		burninCmd,
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(
		&bandwidth, "bandwidth", "normal_reference", "KDE bandwidth rule: normal_reference, scott or silverman")

	for _, cmd := range []*cobra.Command{summaryCmd, hdiCmd, plotCmd} {
		cmd.Flags().Float64VarP(
			&alpha, "alpha", "a", estimate.DefaultAlpha, "HDI significance level")
	}
	for _, cmd := range []*cobra.Command{summaryCmd, burninCmd} {
		cmd.Flags().IntVarP(
			&chains, "chains", "c", 1, "number of chains concatenated in each column")
	}
	for _, cmd := range []*cobra.Command{plotCmd, gridCmd} {
		cmd.Flags().StringVarP(
			&format, "format", "f", "", "output format: png, svg, pdf, eps, jpg, tiff, text or json "+
				"(default from --out extension, else text)")
		cmd.Flags().StringVarP(
			&out, "out", "o", "", "output file (default stdout)")
	}
	for _, cmd := range []*cobra.Command{summaryCmd, mapCmd, burninCmd} {
		cmd.Flags().BoolVar(
			&jsonOut, "json", false, "print JSON instead of a table")
	}

	summaryCmd.Flags().IntVarP(
		&roundTo, "round", "r", estimate.DefaultRoundTo, "decimals kept in every value")
	summaryCmd.Flags().BoolVar(
		&raw, "raw", false, "keep raw precision, ignoring --round")
	summaryCmd.Flags().StringVar(
		&rhat, "rhat", "rank", "R-hat method: rank, split or identity")

	for _, cmd := range []*cobra.Command{plotCmd, densityCmd} {
		cmd.Flags().StringVar(
			&feature, "feature", "", "parameter to plot (default first column)")
	}
	plotCmd.Flags().Float64SliceVar(
		&rope, "rope", nil, "region of practical equivalence as lower,upper")

	gridCmd.Flags().IntVar(
		&columns, "columns", figure.GridColumns, "subplots per row")

	densityCmd.Flags().IntVar(
		&gridSize, "grid", 0, "number of grid points (0 means max(draws, 100))")

	burninCmd.Flags().Float64Var(
		&hazard, "hazard", bocd.DefaultHazard, "prior change point probability per draw")
	burninCmd.Flags().Float64Var(
		&threshold, "threshold", bocd.DefaultThreshold, "run length probability confirming a change point")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

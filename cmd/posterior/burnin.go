package main

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uyouii/posterior-diagnostics/bocd"
	"github.com/uyouii/posterior-diagnostics/mcmc"
)

var burninCmd = &cobra.Command{
	Use:   "burnin [csv-file]",
	Short: "detect the warm-up draws at the start of every chain",
	Long: `
Run Bayesian online change point detection over every chain of every
parameter. The burn-in of a chain is the last change point in its first
half; the reported burn-in of a parameter is the largest over its chains.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBurnIn,
}

type burnInResult struct {
	Parameter string `json:"parameter"`
	// Chains holds the burn-in of every chain, in draws.
	Chains []int `json:"chains"`
	Max    int   `json:"max"`
}

func runBurnIn(cmd *cobra.Command, args []string) error {
	table, err := readTable(args)
	if err != nil {
		return err
	}
	cfg := bocd.DefaultConfig()
	cfg.Hazard = hazard
	cfg.Threshold = threshold

	ctx := newContext()
	results := make([]burnInResult, 0, table.NumColumns())
	for i, name := range table.Names() {
		split, err := mcmc.Chains(table.ColumnAt(i), chains)
		if err != nil {
			return err
		}
		res := burnInResult{Parameter: name, Chains: make([]int, 0, len(split))}
		for c, draws := range split {
			burnIn, err := bocd.DetectBurnIn(ctx, draws, cfg)
			if err != nil {
				return errors.Wrapf(err, "parameter %q chain %d", name, c)
			}
			res.Chains = append(res.Chains, burnIn.Draws)
			res.Max = max(res.Max, burnIn.Draws)
		}
		results = append(results, res)
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(w, results)
	}

	header := []string{"Parameter"}
	for c := 0; c < chains; c++ {
		header = append(header, "Chain "+strconv.Itoa(c))
	}
	tbl := newTable(w, append(header, "Burn-in"))
	for _, res := range results {
		cells := []string{res.Parameter}
		for _, draws := range res.Chains {
			cells = append(cells, strconv.Itoa(draws))
		}
		tbl.Append(append(cells, strconv.Itoa(res.Max)))
	}
	tbl.Render()
	return nil
}

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/uyouii/posterior-diagnostics/estimate"
	"github.com/uyouii/posterior-diagnostics/mcmc"
	"github.com/uyouii/posterior-diagnostics/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [csv-file]",
	Short: "print mode, HDI, ESS and R-hat of every parameter",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummary,
}

var mapCmd = &cobra.Command{
	Use:   "map [csv-file]",
	Short: "print the maximum a posteriori draw",
	Long: `
Print the draw of highest joint density under a multivariate Gaussian
kernel density estimate fitted to all draws.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMAP,
}

var modeCmd = &cobra.Command{
	Use:   "mode [csv-file]",
	Short: "print the marginal mode of every parameter",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMode,
}

var hdiCmd = &cobra.Command{
	Use:   "hdi [csv-file]",
	Short: "print the highest density interval of every parameter",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHDI,
}

func runSummary(cmd *cobra.Command, args []string) error {
	table, err := readTable(args)
	if err != nil {
		return err
	}
	density, err := densityConfig()
	if err != nil {
		return err
	}
	method, err := mcmc.ParseRhatMethod(rhat)
	if err != nil {
		return err
	}

	cfg := estimate.DefaultSummaryConfig()
	cfg.Alpha = alpha
	cfg.Chains = chains
	cfg.Density = density
	cfg.Rhat = method
	cfg.RoundTo = estimate.Decimals(roundTo)
	if raw {
		cfg.RoundTo = nil
	}

	summary, err := estimate.SummaryTable(newContext(), table, cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		return writeSummaryJSON(w, summary)
	}
	writeSummaryTable(w, summary)
	return nil
}

func writeSummaryTable(w io.Writer, summary *model.Summary) {
	tbl := newTable(w, append([]string{"Parameter"}, summary.Header()...))
	for _, row := range summary.Rows {
		cells := []string{row.Parameter}
		for _, v := range row.Values() {
			cells = append(cells, formatValue(v))
		}
		tbl.Append(cells)
	}
	tbl.Render()
}

func writeSummaryJSON(w io.Writer, summary *model.Summary) error {
	type jsonRow struct {
		Parameter string   `json:"parameter"`
		Mode      *float64 `json:"mode"`
		HDILower  *float64 `json:"hdi_lower"`
		HDIUpper  *float64 `json:"hdi_upper"`
		BulkESS   *float64 `json:"ess_bulk"`
		TailESS   *float64 `json:"ess_tail"`
		Rhat      *float64 `json:"r_hat"`
	}
	rows := make([]jsonRow, 0, len(summary.Rows))
	for _, row := range summary.Rows {
		rows = append(rows, jsonRow{
			Parameter: row.Parameter,
			Mode:      nullable(row.Mode),
			HDILower:  nullable(row.HDILower),
			HDIUpper:  nullable(row.HDIUpper),
			BulkESS:   nullable(row.BulkESS),
			TailESS:   nullable(row.TailESS),
			Rhat:      nullable(row.Rhat),
		})
	}
	return writeJSON(w, map[string]any{
		"alpha":  summary.Alpha,
		"header": summary.Header(),
		"rows":   rows,
	})
}

func runMAP(cmd *cobra.Command, args []string) error {
	table, err := readTable(args)
	if err != nil {
		return err
	}
	density, err := densityConfig()
	if err != nil {
		return err
	}
	est, err := estimate.MaxPostEstimate(table, density)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(w, est)
	}
	tbl := newTable(w, []string{"Parameter", est.Name})
	for i, name := range est.Names {
		tbl.Append([]string{name, formatValue(est.Values[i])})
	}
	tbl.Render()
	fmt.Fprintf(w, "draw %d\n", est.Index)
	return nil
}

func runMode(cmd *cobra.Command, args []string) error {
	table, err := readTable(args)
	if err != nil {
		return err
	}
	density, err := densityConfig()
	if err != nil {
		return err
	}

	tbl := newTable(cmd.OutOrStdout(), []string{"Parameter", "Mode"})
	for i, name := range table.Names() {
		mode, err := estimate.ModeEstimate(table.ColumnAt(i), density)
		if err != nil {
			return errors.Wrapf(err, "parameter %q", name)
		}
		tbl.Append([]string{name, formatValue(mode)})
	}
	tbl.Render()
	return nil
}

func runHDI(cmd *cobra.Command, args []string) error {
	table, err := readTable(args)
	if err != nil {
		return err
	}

	summary := model.Summary{Alpha: alpha}
	header := summary.Header()
	tbl := newTable(cmd.OutOrStdout(), []string{"Parameter", header[1], header[2]})
	for i, name := range table.Names() {
		hdi, err := estimate.HighDensityInterval(table.ColumnAt(i), alpha)
		if err != nil {
			return errors.Wrapf(err, "parameter %q", name)
		}
		tbl.Append([]string{name, formatValue(hdi.Lower), formatValue(hdi.Upper)})
	}
	tbl.Render()
	return nil
}

// newTable keeps header cells as given, tablewriter would otherwise
// upper-case them and replace underscores.
func newTable(w io.Writer, header []string) *tablewriter.Table {
	tbl := tablewriter.NewWriter(w)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetHeader(header)
	return tbl
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal json")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

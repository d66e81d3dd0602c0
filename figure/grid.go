package figure

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
)

type GridOptions struct {
	// Columns is the number of subplots per row.
	Columns int
	Color   string
}

func DefaultGridOptions() GridOptions {
	return GridOptions{Columns: GridColumns, Color: ColorGray}
}

// HistogramGridPlot lays out one histogram per parameter, row-major, with
// at most opts.Columns subplots per row.
func HistogramGridPlot(ctx context.Context, table *model.Table, opts GridOptions) (*Figure, error) {
	if opts.Columns < 1 {
		return nil, errors.Wrapf(common.ErrorInvalidParameter, "grid columns must be positive, got %d", opts.Columns)
	}
	if opts.Color == "" {
		opts.Color = ColorGray
	}
	if table.IsEmpty() {
		return nil, errors.Wrap(common.ErrorDegenerateInput, "histogram grid of an empty table")
	}

	n := table.NumColumns()
	cols := min(n, opts.Columns)
	rows := (n + cols - 1) / cols
	fig := &Figure{
		Title:         GridTitle,
		TitleFontSize: GridTitleSize,
		Template:      TemplateWhite,
		BarGap:        BarGap,
		ShowLegend:    false,
		Rows:          rows,
		Cols:          cols,
		Subplots:      make([]*Subplot, 0, n),
	}

	for i, name := range table.Names() {
		values := table.ColumnAt(i)
		fig.Subplots = append(fig.Subplots, &Subplot{
			Row:   i/cols + 1,
			Col:   i%cols + 1,
			XAxis: Axis{Title: name, ShowTickLabels: true},
			YAxis: Axis{ShowTickLabels: false},
			Histograms: []Histogram{{
				Name:   name,
				Values: values,
				Color:  opts.Color,
				Bins:   binCount(values),
			}},
		})
	}

	utils.GetLogger(ctx).Debug("histogram grid", zap.Int("parameters", n), zap.Int("rows", rows),
		zap.Int("cols", cols))
	return fig, nil
}

func ShowHistogramGrid(ctx context.Context, w io.Writer, format Format, table *model.Table, opts GridOptions) (*Figure, error) {
	fig, err := HistogramGridPlot(ctx, table, opts)
	if err != nil {
		return nil, err
	}
	if err := Write(w, fig, format); err != nil {
		utils.GetLogger(ctx).Error("render histogram grid failed", zap.Error(err))
		return nil, err
	}
	return fig, nil
}

package figure

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/estimate"
	"github.com/uyouii/posterior-diagnostics/kde"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
)

type FeatureOptions struct {
	// Alpha is the significance of the drawn HDI.
	Alpha float64
	// Rope is either empty or [lower, upper].
	Rope    []float64
	Density kde.Config
}

func DefaultFeatureOptions() FeatureOptions {
	return FeatureOptions{
		Alpha:   estimate.DefaultAlpha,
		Density: kde.DefaultConfig(),
	}
}

func (o FeatureOptions) Validate() error {
	if err := common.ValidateAlpha(o.Alpha); err != nil {
		return err
	}
	switch len(o.Rope) {
	case 0:
	case 2:
		if !(o.Rope[0] <= o.Rope[1]) {
			return errors.Wrapf(common.ErrorInvalidParameter,
				"rope lower bound %v is above upper bound %v", o.Rope[0], o.Rope[1])
		}
	default:
		return errors.Wrapf(common.ErrorInvalidParameter,
			"rope needs a lower and an upper bound, got %d values", len(o.Rope))
	}
	return o.Density.Validate()
}

type FeaturePlot struct {
	Figure  *Figure
	Feature string
	Mode    float64
	HDI     model.Interval
}

// PlotFeaturePosterior draws the histogram of one parameter with its HDI
// marker, and the ROPE marker when opts.Rope is set.
func PlotFeaturePosterior(ctx context.Context, table *model.Table, feature string, opts FeatureOptions) (*FeaturePlot, error) {
	logger := utils.GetLogger(ctx)

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	values, err := table.Column(feature)
	if err != nil {
		return nil, err
	}

	mode, err := estimate.ModeEstimate(values, opts.Density)
	if err != nil {
		logger.Error("estimate mode failed", zap.String("feature", feature), zap.Error(err))
		return nil, err
	}
	hdi, err := estimate.HighDensityInterval(values, opts.Alpha)
	if err != nil {
		return nil, err
	}
	logger.Info("feature posterior", zap.String("feature", feature), zap.Float64("mode", mode),
		zap.Float64("hdi_lower", hdi.Lower), zap.Float64("hdi_upper", hdi.Upper))

	sp := &Subplot{
		Row:   1,
		Col:   1,
		XAxis: Axis{Title: feature, ShowTickLabels: true},
		YAxis: Axis{ShowTickLabels: false},
		Histograms: []Histogram{{
			Name:   feature,
			Values: values,
			Color:  ColorBlue,
			Bins:   binCount(values),
		}},
	}
	sp.addMarker(LabelHDI, ColorRed, HDIMarkerWidth, hdi.Lower, hdi.Upper, HDIMarkerY)
	if len(opts.Rope) == 2 {
		sp.addMarker(LabelROPE, ColorGray, ROPEMarkerWidth, opts.Rope[0], opts.Rope[1], ROPEMarkerY)
	}

	fig := &Figure{
		Title:      FeatureTitle,
		Template:   TemplateWhite,
		Height:     FeatureHeight,
		BarGap:     BarGap,
		ShowLegend: false,
		Rows:       1,
		Cols:       1,
		Subplots:   []*Subplot{sp},
	}
	return &FeaturePlot{Figure: fig, Feature: feature, Mode: mode, HDI: hdi}, nil
}

// ShowFeaturePosterior builds the feature plot and writes it to w.
func ShowFeaturePosterior(ctx context.Context, w io.Writer, format Format, table *model.Table,
	feature string, opts FeatureOptions) (*FeaturePlot, error) {
	res, err := PlotFeaturePosterior(ctx, table, feature, opts)
	if err != nil {
		return nil, err
	}
	if err := Write(w, res.Figure, format); err != nil {
		utils.GetLogger(ctx).Error("render feature posterior failed", zap.String("feature", feature), zap.Error(err))
		return nil, err
	}
	return res, nil
}

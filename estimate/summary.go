package estimate

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"github.com/uyouii/posterior-diagnostics/kde"
	"github.com/uyouii/posterior-diagnostics/mcmc"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
)

type SummaryConfig struct {
	// Alpha is the significance of the HDI, in (0, 1).
	Alpha float64

	// RoundTo is the number of decimals kept in every value. Nil keeps raw
	// precision.
	RoundTo *int

	// Chains is the number of chains concatenated in the table, each
	// holding NumRows/Chains consecutive draws.
	Chains int

	Density kde.Config
	Rhat    mcmc.RhatMethod
}

func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		Alpha:   DefaultAlpha,
		RoundTo: Decimals(DefaultRoundTo),
		Chains:  1,
		Density: kde.DefaultConfig(),
		Rhat:    mcmc.RhatRank,
	}
}

// Decimals returns a RoundTo value.
func Decimals(n int) *int {
	return &n
}

func (c SummaryConfig) Validate() error {
	if err := common.ValidateAlpha(c.Alpha); err != nil {
		return err
	}
	if c.RoundTo != nil && *c.RoundTo < 0 {
		return errors.Wrapf(common.ErrorInvalidParameter, "round_to must not be negative, got %d", *c.RoundTo)
	}
	if c.Chains < 1 {
		return errors.Wrapf(common.ErrorInvalidParameter, "chain count must be positive, got %d", c.Chains)
	}
	if _, err := mcmc.ParseRhatMethod(string(c.Rhat)); err != nil {
		return err
	}
	return c.Density.Validate()
}

// SummaryTable computes, for every parameter, the marginal mode, the HDI
// bounds, bulk and tail ESS and R-hat, one row per column in table order.
func SummaryTable(ctx context.Context, table *model.Table, cfg SummaryConfig) (res *model.Summary, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("SummaryTable recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()))
			res, err = nil, errors.Newf("summary table: %v", r)
		}
	}()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Rhat == "" {
		cfg.Rhat = mcmc.RhatRank
	}
	if table.IsEmpty() {
		return nil, errors.Wrap(common.ErrorDegenerateInput, "summary of an empty table")
	}
	logger.Debug("SummaryTable input", zap.String("table", table.DebugString()))
	if table.NumRows()%cfg.Chains != 0 {
		return nil, errors.Wrapf(common.ErrorInvalidParameter,
			"%d draws cannot be split into %d chains", table.NumRows(), cfg.Chains)
	}

	res = &model.Summary{
		Alpha: cfg.Alpha,
		Rows:  make([]model.DiagnosticsRow, 0, table.NumColumns()),
	}

	for i, name := range table.Names() {
		row, err := diagnose(name, table.ColumnAt(i), cfg)
		if err != nil {
			logger.Error("diagnose parameter failed", zap.String("parameter", name), zap.Error(err))
			return nil, err
		}
		if cfg.RoundTo != nil {
			row.Round(*cfg.RoundTo)
		}
		res.Rows = append(res.Rows, row)
	}

	logger.Info("SummaryTable success", zap.Int("parameters", len(res.Rows)),
		zap.Int("draws", table.NumRows()), zap.Int("chains", cfg.Chains))
	return res, nil
}

func diagnose(name string, draws []float64, cfg SummaryConfig) (model.DiagnosticsRow, error) {
	row := model.DiagnosticsRow{Parameter: name}

	mode, err := ModeEstimate(draws, cfg.Density)
	if err != nil {
		return row, errors.Wrapf(err, "parameter %q", name)
	}
	hdi, err := HighDensityInterval(draws, cfg.Alpha)
	if err != nil {
		return row, errors.Wrapf(err, "parameter %q", name)
	}

	chains, err := mcmc.Chains(draws, cfg.Chains)
	if err != nil {
		return row, err
	}
	bulk, err := mcmc.ESS(chains, mcmc.ESSBulk)
	if err != nil {
		return row, err
	}
	tail, err := mcmc.ESS(chains, mcmc.ESSTail)
	if err != nil {
		return row, err
	}
	rhat, err := mcmc.Rhat(chains, cfg.Rhat)
	if err != nil {
		return row, err
	}

	row.Mode = mode
	row.HDILower, row.HDIUpper = hdi.Lower, hdi.Upper
	row.BulkESS, row.TailESS, row.Rhat = bulk, tail, rhat
	return row, nil
}

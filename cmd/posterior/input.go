package main

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/figure"
	"github.com/uyouii/posterior-diagnostics/kde"
	"github.com/uyouii/posterior-diagnostics/model"
	"github.com/uyouii/posterior-diagnostics/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newContext carries a logger that only reports warnings unless --verbose
// is set.
func newContext() context.Context {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.L()
	}
	return utils.WithLogger(context.Background(), logger)
}

// readTable parses the CSV named by args[0], or stdin when there is none
// or it is "-".
func readTable(args []string) (*model.Table, error) {
	if len(args) == 0 || args[0] == "-" {
		return model.ReadCSV(os.Stdin)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", args[0])
	}
	defer f.Close()
	return model.ReadCSV(f)
}

func densityConfig() (kde.Config, error) {
	method, err := kde.ParseBandwidthMethod(bandwidth)
	if err != nil {
		return kde.Config{}, err
	}
	cfg := kde.DefaultConfig()
	cfg.Bandwidth = method
	return cfg, nil
}

// selectFeature returns --feature, or the first column of table.
func selectFeature(table *model.Table) string {
	if feature != "" || table.NumColumns() == 0 {
		return feature
	}
	return table.Names()[0]
}

// output resolves --format and --out. The returned close func must be
// called once the figure is written.
func output(w io.Writer) (figure.Format, io.Writer, func() error, error) {
	name := format
	if name == "" && out != "" {
		name = filepath.Ext(out)
	}
	if name == "" {
		name = string(figure.FormatText)
	}
	f, err := figure.ParseFormat(name)
	if err != nil {
		return "", nil, nil, err
	}
	if out == "" {
		return f, w, func() error { return nil }, nil
	}
	file, err := os.Create(out)
	if err != nil {
		return "", nil, nil, errors.Wrapf(err, "create %s", out)
	}
	return f, file, file.Close, nil
}

// nullable maps non finite values to nil, which JSON encodes as null.
func nullable(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

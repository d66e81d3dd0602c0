package model

import (
	"math"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/posterior-diagnostics/common"
)

func TestNewTable(t *testing.T) {
	table, err := NewTable([]string{"a", "b"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)
	require.Equal(t, 3, table.NumRows())
	require.Equal(t, 2, table.NumColumns())
	require.Equal(t, []float64{2, 5}, table.Row(1))
	require.False(t, table.IsEmpty())

	col, err := table.Column("b")
	require.NoError(t, err)
	require.Equal(t, []float64{4, 5, 6}, col)

	// Column returns a copy.
	col[0] = 100
	again, _ := table.Column("b")
	require.Equal(t, 4.0, again[0])

	_, err = table.Column("c")
	require.True(t, errors.Is(err, common.ErrorUnknownFeature))

	m := table.Matrix()
	r, c := m.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	require.Equal(t, 6.0, m.At(2, 1))

	require.Equal(t, "columns: [a b], rowCount: 3", table.DebugString())
}

func TestNewTableInvalid(t *testing.T) {
	for name, tc := range map[string]struct {
		names   []string
		columns [][]float64
	}{
		"count mismatch": {[]string{"a"}, [][]float64{{1}, {2}}},
		"ragged":         {[]string{"a", "b"}, [][]float64{{1, 2}, {3}}},
		"duplicate":      {[]string{"a", "a"}, [][]float64{{1}, {2}}},
		"empty name":     {[]string{""}, [][]float64{{1}}},
		"nan":            {[]string{"a"}, [][]float64{{1, math.NaN()}}},
		"inf":            {[]string{"a"}, [][]float64{{math.Inf(-1)}}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(tc.names, tc.columns)
			require.True(t, errors.Is(err, common.ErrorInvalidValue), "%v", err)
		})
	}
}

func TestNewTableFromRows(t *testing.T) {
	table, err := NewTableFromRows([]string{"x", "y"}, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 3}, table.ColumnAt(0))

	_, err = NewTableFromRows([]string{"x", "y"}, [][]float64{{1, 2}, {3}})
	require.True(t, errors.Is(err, common.ErrorInvalidValue))

	empty, err := NewTableFromRows([]string{"x"}, nil)
	require.NoError(t, err)
	require.True(t, empty.IsEmpty())
}

func TestReadCSV(t *testing.T) {
	input := "# posterior draws\nmu, sigma\n0.5, 1.2\n0.7,1.1\n"
	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"mu", "sigma"}, table.Names())
	require.Equal(t, 2, table.NumRows())
	require.Equal(t, []float64{0.7, 1.1}, table.Row(1))

	_, err = ReadCSV(strings.NewReader("mu\nabc\n"))
	require.True(t, errors.Is(err, common.ErrorInvalidValue))

	_, err = ReadCSV(strings.NewReader(""))
	require.True(t, errors.Is(err, common.ErrorInvalidValue))

	_, err = ReadCSV(strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)
}

func TestSummaryHeader(t *testing.T) {
	s := &Summary{Alpha: 0.05}
	require.Equal(t, []string{"Mode", "HDI_2.5%", "HDI_97.5%", "Bulk ESS", "Tail ESS", "Rhat"}, s.Header())

	s = &Summary{Alpha: 0.1}
	require.Equal(t, "HDI_5%", s.Header()[1])
	require.Equal(t, "HDI_95%", s.Header()[2])
}

func TestDiagnosticsRowRound(t *testing.T) {
	row := DiagnosticsRow{Mode: 1.23456, HDILower: -0.0049, HDIUpper: 2.999, BulkESS: 812.346, TailESS: math.NaN(), Rhat: 1.0049}
	row.Round(2)
	require.Equal(t, 1.23, row.Mode)
	require.Equal(t, 0.0, row.HDILower)
	require.Equal(t, 3.0, row.HDIUpper)
	require.Equal(t, 812.35, row.BulkESS)
	require.True(t, math.IsNaN(row.TailESS))
	require.Equal(t, 1.0, row.Rhat)
}

func TestInterval(t *testing.T) {
	i := Interval{Lower: -1, Upper: 2}
	require.Equal(t, 3.0, i.Width())
	require.True(t, i.Contains(0))
	require.False(t, i.Contains(2.5))
}

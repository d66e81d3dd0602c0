package model

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
	"gonum.org/v1/gonum/mat"
)

// Table holds posterior draws: one row per draw, one named column per
// model parameter. Values are stored column-major.
type Table struct {
	names   []string
	columns [][]float64
	index   map[string]int
}

// NewTable builds a table from columns. The slices are copied.
func NewTable(names []string, columns [][]float64) (*Table, error) {
	if len(names) != len(columns) {
		return nil, errors.Wrapf(common.ErrorInvalidValue,
			"%d names for %d columns", len(names), len(columns))
	}

	t := &Table{
		names:   make([]string, len(names)),
		columns: make([][]float64, len(columns)),
		index:   make(map[string]int, len(names)),
	}
	copy(t.names, names)

	for i, name := range names {
		if name == "" {
			return nil, errors.Wrapf(common.ErrorInvalidValue, "column %d has an empty name", i)
		}
		if _, ok := t.index[name]; ok {
			return nil, errors.Wrapf(common.ErrorInvalidValue, "duplicate column %q", name)
		}
		t.index[name] = i

		if len(columns[i]) != len(columns[0]) {
			return nil, errors.Wrapf(common.ErrorInvalidValue,
				"column %q has %d rows, expected %d", name, len(columns[i]), len(columns[0]))
		}
		for j, v := range columns[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(common.ErrorInvalidValue,
					"column %q row %d is not finite: %v", name, j, v)
			}
		}
		t.columns[i] = append([]float64(nil), columns[i]...)
	}
	return t, nil
}

// NewTableFromRows builds a table from draws given row by row.
func NewTableFromRows(names []string, rows [][]float64) (*Table, error) {
	columns := make([][]float64, len(names))
	for i := range columns {
		columns[i] = make([]float64, len(rows))
	}
	for j, row := range rows {
		if len(row) != len(names) {
			return nil, errors.Wrapf(common.ErrorInvalidValue,
				"row %d has %d values, expected %d", j, len(row), len(names))
		}
		for i, v := range row {
			columns[i][j] = v
		}
	}
	return NewTable(names, columns)
}

func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Table) NumColumns() int {
	return len(t.names)
}

func (t *Table) NumRows() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

func (t *Table) IsEmpty() bool {
	if t == nil {
		return true
	}
	return t.NumColumns() == 0 || t.NumRows() == 0
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, errors.Wrapf(common.ErrorUnknownFeature, "no column %q in %v", name, t.names)
	}
	return t.ColumnAt(i), nil
}

// ColumnAt returns a copy of the i-th column.
func (t *Table) ColumnAt(i int) []float64 {
	return append([]float64(nil), t.columns[i]...)
}

// Row returns draw i across all columns, in column order.
func (t *Table) Row(i int) []float64 {
	row := make([]float64, len(t.columns))
	for j := range t.columns {
		row[j] = t.columns[j][i]
	}
	return row
}

// Matrix returns the draws as a rows x columns dense matrix.
func (t *Table) Matrix() *mat.Dense {
	m := mat.NewDense(t.NumRows(), t.NumColumns(), nil)
	for j, col := range t.columns {
		m.SetCol(j, col)
	}
	return m
}

func (t *Table) DebugString() string {
	return fmt.Sprintf("columns: %+v, rowCount: %+v", t.names, t.NumRows())
}

type ChangePointType int

const (
	IncreaseChangePoint ChangePointType = 1
	DecreaseChangePoint ChangePointType = 2
)

func (c ChangePointType) String() string {
	switch c {
	case IncreaseChangePoint:
		return "increase"
	case DecreaseChangePoint:
		return "decrease"
	}
	return "unknown"
}

// ChangePoint is a draw where a trace shifts level. Index is the position
// of the first draw of the new level.
type ChangePoint struct {
	ChangePointType ChangePointType `json:"type"`
	Index           int             `json:"index"`
	Value           float64         `json:"value"`
}

// BurnIn is the warm-up segment detected at the start of a chain.
type BurnIn struct {
	// Draws is the number of leading draws to discard.
	Draws        int            `json:"draws"`
	ChangePoints []*ChangePoint `json:"change_points,omitempty"`
}

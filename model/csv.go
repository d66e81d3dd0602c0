package model

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/uyouii/posterior-diagnostics/common"
)

// ReadCSV loads a table from CSV: a header row with the parameter names,
// then one row of numbers per draw.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrap(common.ErrorInvalidValue, "empty csv input")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	names := make([]string, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
	}

	rows := [][]float64{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv line %d", line)
		}
		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(common.ErrorInvalidValue,
					"line %d column %q: %v", line, names[i], err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return NewTableFromRows(names, rows)
}

package model

import (
	"fmt"

	"github.com/uyouii/posterior-diagnostics/utils"
)

type Density struct {
	X     float64
	Value float64
}

// Interval is a credible interval, Lower <= Upper.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

func (i Interval) Contains(x float64) bool {
	return x >= i.Lower && x <= i.Upper
}

func (i Interval) String() string {
	return fmt.Sprintf("[%v, %v]", i.Lower, i.Upper)
}

// PointEstimate is a full parameter vector picked from the draws, e.g. the
// maximum a posteriori row.
type PointEstimate struct {
	Name string `json:"name"`
	// Index is the row of the draw in the input table.
	Index  int       `json:"index"`
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

func (p *PointEstimate) Get(name string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	for i, n := range p.Names {
		if n == name {
			return p.Values[i], true
		}
	}
	return 0, false
}

type DiagnosticsRow struct {
	Parameter string  `json:"parameter"`
	Mode      float64 `json:"mode"`
	HDILower  float64 `json:"hdi_lower"`
	HDIUpper  float64 `json:"hdi_upper"`
	BulkESS   float64 `json:"ess_bulk"`
	TailESS   float64 `json:"ess_tail"`
	Rhat      float64 `json:"r_hat"`
}

func (r *DiagnosticsRow) Values() []float64 {
	return []float64{r.Mode, r.HDILower, r.HDIUpper, r.BulkESS, r.TailESS, r.Rhat}
}

func (r *DiagnosticsRow) Round(decimals int) {
	r.Mode = utils.FormatFloat(r.Mode, decimals)
	r.HDILower = utils.FormatFloat(r.HDILower, decimals)
	r.HDIUpper = utils.FormatFloat(r.HDIUpper, decimals)
	r.BulkESS = utils.FormatFloat(r.BulkESS, decimals)
	r.TailESS = utils.FormatFloat(r.TailESS, decimals)
	r.Rhat = utils.FormatFloat(r.Rhat, decimals)
}

// Summary is the per parameter diagnostics table.
type Summary struct {
	Alpha float64          `json:"alpha"`
	Rows  []DiagnosticsRow `json:"rows"`
}

// Header returns the column names of the table; the HDI columns carry the
// percentiles derived from alpha, e.g. "HDI_2.5%" and "HDI_97.5%".
func (s *Summary) Header() []string {
	return []string{
		"Mode",
		fmt.Sprintf("HDI_%s%%", utils.Percent(s.Alpha/2)),
		fmt.Sprintf("HDI_%s%%", utils.Percent(1-s.Alpha/2)),
		"Bulk ESS",
		"Tail ESS",
		"Rhat",
	}
}

func (s *Summary) Row(parameter string) (DiagnosticsRow, bool) {
	for _, row := range s.Rows {
		if row.Parameter == parameter {
			return row, true
		}
	}
	return DiagnosticsRow{}, false
}

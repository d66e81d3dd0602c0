package figure

import (
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

type plotlyFigure struct {
	Data   []map[string]any `json:"data"`
	Layout map[string]any   `json:"layout"`
}

// MarshalPlotly encodes fig as a plotly figure: histogram traces bound to
// per-subplot axes, with the axis domains of a Rows x Cols grid.
func MarshalPlotly(fig *Figure) ([]byte, error) {
	layout := map[string]any{
		"title":      map[string]any{"text": fig.Title},
		"template":   fig.Template,
		"bargap":     fig.BarGap,
		"showlegend": fig.ShowLegend,
	}
	if fig.TitleFontSize > 0 {
		layout["title"].(map[string]any)["font"] = map[string]any{"size": fig.TitleFontSize}
	}
	if fig.Height > 0 {
		layout["height"] = fig.Height
	}
	if fig.Width > 0 {
		layout["width"] = fig.Width
	}

	res := plotlyFigure{Data: []map[string]any{}, Layout: layout}
	shapes := []map[string]any{}
	annotations := []map[string]any{}

	for _, sp := range fig.Subplots {
		idx := (sp.Row-1)*fig.Cols + (sp.Col - 1)
		xref, yref := AxisRef(RefX, idx), AxisRef(RefY, idx)

		for _, h := range sp.Histograms {
			res.Data = append(res.Data, map[string]any{
				"type":   "histogram",
				"name":   h.Name,
				"x":      h.Values,
				"nbinsx": h.Bins,
				"marker": map[string]any{"color": h.Color},
				"xaxis":  xref,
				"yaxis":  yref,
			})
		}

		x0, x1, y0, y1 := cellDomain(fig, sp.Row, sp.Col)
		layout[AxisName("xaxis", idx)] = map[string]any{
			"title":          map[string]any{"text": sp.XAxis.Title},
			"showticklabels": sp.XAxis.ShowTickLabels,
			"domain":         []float64{x0, x1},
			"anchor":         yref,
		}
		layout[AxisName("yaxis", idx)] = map[string]any{
			"title":          map[string]any{"text": sp.YAxis.Title},
			"showticklabels": sp.YAxis.ShowTickLabels,
			"domain":         []float64{y0, y1},
			"anchor":         xref,
		}

		for _, s := range sp.Shapes {
			shapes = append(shapes, map[string]any{
				"type": s.Type,
				"name": s.Label,
				"line": map[string]any{"color": s.Color, "width": s.Width},
				"xref": ref(s.XRef, xref, yref),
				"x0":   s.X0,
				"x1":   s.X1,
				"yref": ref(s.YRef, xref, yref),
				"y0":   s.Y0,
				"y1":   s.Y1,
			})
		}
		for _, a := range sp.Annotations {
			annotations = append(annotations, map[string]any{
				"text":      a.Text,
				"font":      map[string]any{"color": a.Color},
				"showarrow": false,
				"xref":      ref(a.XRef, xref, yref),
				"x":         a.X,
				"yref":      ref(a.YRef, xref, yref),
				"y":         a.Y,
			})
		}
	}
	layout["shapes"] = shapes
	layout["annotations"] = annotations

	data, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(err, "marshal plotly figure")
	}
	return data, nil
}

// ref resolves a subplot relative reference to the subplot's own axis.
func ref(r, xref, yref string) string {
	switch r {
	case RefX:
		return xref
	case RefY:
		return yref
	}
	return r
}

// cellDomain is the paper rectangle of a 1-based grid cell, rows counted
// from the top.
func cellDomain(fig *Figure, row, col int) (x0, x1, y0, y1 float64) {
	cols, rows := float64(max(fig.Cols, 1)), float64(max(fig.Rows, 1))
	hs, vs := 0.0, 0.0
	if fig.Cols > 1 {
		hs = HorizontalSpacing
	}
	if fig.Rows > 1 {
		vs = min(VerticalSpacing, 0.5/(rows-1))
	}
	w := (1 - hs*(cols-1)) / cols
	h := (1 - vs*(rows-1)) / rows

	x0 = float64(col-1) * (w + hs)
	x1 = x0 + w
	y1 = 1 - float64(row-1)*(h+vs)
	y0 = y1 - h
	return x0, x1, y0, y1
}

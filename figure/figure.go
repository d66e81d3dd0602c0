// Package figure builds histogram figures of posterior draws and renders
// them as images, terminal text or plotly compatible JSON.
//
// A Figure is a plain value: a grid of subplots, each holding histogram
// traces, line shapes and text annotations. Building a figure never
// renders it; Write does.
package figure

import (
	"strconv"
)

type Axis struct {
	Title          string `json:"title,omitempty"`
	ShowTickLabels bool   `json:"showticklabels"`
}

type Histogram struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Color  string    `json:"color"`
	Bins   int       `json:"bins"`
}

// Shape is a line segment. Coordinates are in data units when the ref is
// RefX / RefY, or in fractions of the plot area when the ref is RefPaper;
// paper y above 1 lies above the bars.
type Shape struct {
	Type  string  `json:"type"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	XRef  string  `json:"xref"`
	X0    float64 `json:"x0"`
	X1    float64 `json:"x1"`
	YRef  string  `json:"yref"`
	Y0    float64 `json:"y0"`
	Y1    float64 `json:"y1"`
}

type Annotation struct {
	Text  string  `json:"text"`
	Color string  `json:"color"`
	XRef  string  `json:"xref"`
	X     float64 `json:"x"`
	YRef  string  `json:"yref"`
	Y     float64 `json:"y"`
}

type Subplot struct {
	// Row and Col are 1-based grid positions.
	Row int `json:"row"`
	Col int `json:"col"`

	XAxis       Axis         `json:"xaxis"`
	YAxis       Axis         `json:"yaxis"`
	Histograms  []Histogram  `json:"histograms"`
	Shapes      []Shape      `json:"shapes,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// ShapesLabeled returns the shapes carrying label.
func (s *Subplot) ShapesLabeled(label string) []Shape {
	res := []Shape{}
	for _, shape := range s.Shapes {
		if shape.Label == label {
			res = append(res, shape)
		}
	}
	return res
}

// AnnotationsWithText returns the annotations showing text.
func (s *Subplot) AnnotationsWithText(text string) []Annotation {
	res := []Annotation{}
	for _, a := range s.Annotations {
		if a.Text == text {
			res = append(res, a)
		}
	}
	return res
}

// addMarker draws a labeled horizontal line spanning [x0, x1] at paper
// height y.
func (s *Subplot) addMarker(label, color string, width, x0, x1, y float64) {
	s.Shapes = append(s.Shapes, Shape{
		Type:  ShapeLine,
		Label: label,
		Color: color,
		Width: width,
		XRef:  RefX,
		X0:    x0,
		X1:    x1,
		YRef:  RefPaper,
		Y0:    y,
		Y1:    y,
	})
	s.Annotations = append(s.Annotations, Annotation{
		Text:  label,
		Color: color,
		XRef:  RefX,
		X:     x0,
		YRef:  RefPaper,
		Y:     y + MarkerLabelOffset,
	})
}

type Figure struct {
	Title         string `json:"title"`
	TitleFontSize int    `json:"title_font_size,omitempty"`
	Template      string `json:"template"`
	// Height and Width are in pixels, 0 picks a size from the grid.
	Height     int     `json:"height,omitempty"`
	Width      int     `json:"width,omitempty"`
	BarGap     float64 `json:"bargap"`
	ShowLegend bool    `json:"showlegend"`

	Rows int `json:"rows"`
	Cols int `json:"cols"`
	// Subplots in row-major order; a grid may have empty trailing cells.
	Subplots []*Subplot `json:"subplots"`
}

// Subplot returns the subplot at the 1-based grid position, or nil.
func (f *Figure) Subplot(row, col int) *Subplot {
	for _, s := range f.Subplots {
		if s.Row == row && s.Col == col {
			return s
		}
	}
	return nil
}

// AxisName is the layout key of the i-th (0-based) axis: the first axis
// has no numeric suffix, the following ones are numbered from 2.
// AxisName("xaxis", 0) is "xaxis", AxisName("xaxis", 1) is "xaxis2".
func AxisName(prefix string, i int) string {
	if i == 0 {
		return prefix
	}
	return prefix + strconv.Itoa(i+1)
}

// AxisRef is the trace and shape reference of the i-th axis: "x", "x2", ...
func AxisRef(axis string, i int) string {
	return AxisName(axis, i)
}

func (f *Figure) size() (width, height int) {
	width, height = f.Width, f.Height
	if width == 0 {
		width = DefaultWidth
		if f.Cols > 1 {
			width = GridCellWidth * f.Cols
		}
	}
	if height == 0 {
		height = GridCellHeight * max(f.Rows, 1)
	}
	return width, height
}

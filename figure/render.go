package figure

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/guptarohit/asciigraph"
	"github.com/uyouii/posterior-diagnostics/common"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatEPS  Format = "eps"
	FormatJPG  Format = "jpg"
	FormatTIFF Format = "tiff"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var formats = []Format{FormatPNG, FormatSVG, FormatPDF, FormatEPS, FormatJPG, FormatTIFF, FormatText, FormatJSON}

func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	switch s {
	case "jpeg":
		return FormatJPG, nil
	case "tif":
		return FormatTIFF, nil
	case "txt":
		return FormatText, nil
	}
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.Wrapf(common.ErrorInvalidParameter, "unknown figure format %q", s)
}

func (f Format) IsImage() bool {
	return f != FormatText && f != FormatJSON
}

var palette = map[string]color.RGBA{
	ColorBlue:  {R: 31, G: 119, B: 180, A: 255},
	ColorRed:   {R: 214, G: 39, B: 40, A: 255},
	ColorGray:  {R: 128, G: 128, B: 128, A: 255},
	"green":    {R: 44, G: 160, B: 44, A: 255},
	"orange":   {R: 255, G: 127, B: 14, A: 255},
	"black":    {A: 255},
	"darkgray": {R: 64, G: 64, B: 64, A: 255},
}

func colorOf(name string) color.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return palette[ColorBlue]
}

// Write renders fig to w in the given format.
func Write(w io.Writer, fig *Figure, format Format) error {
	switch format {
	case FormatJSON:
		data, err := MarshalPlotly(fig)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatText:
		return writeText(w, fig)
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}
	return writeImage(w, fig, format)
}

func writeImage(w io.Writer, fig *Figure, format Format) error {
	width, height := fig.size()
	c, err := draw.NewFormattedCanvas(pixels(width), pixels(height), string(format))
	if err != nil {
		return errors.Wrapf(err, "create %s canvas", format)
	}
	dc := draw.New(c)

	if fig.Title != "" {
		style := plot.New().Title.TextStyle
		if fig.TitleFontSize > 0 {
			style.Font.Size = pixels(fig.TitleFontSize)
		}
		style.XAlign = draw.XCenter
		style.YAlign = draw.YTop
		pad := vg.Points(4)
		dc.FillText(style, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - pad}, fig.Title)
		dc = draw.Crop(dc, 0, 0, 0, -(style.Height(fig.Title) + 2*pad))
	}

	plots := make([][]*plot.Plot, fig.Rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, fig.Cols)
	}
	for _, sp := range fig.Subplots {
		p, err := subplot(sp)
		if err != nil {
			return err
		}
		plots[sp.Row-1][sp.Col-1] = p
	}

	tiles := draw.Tiles{
		Rows:      fig.Rows,
		Cols:      fig.Cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j, p := range plots[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}

	if _, err := c.WriteTo(w); err != nil {
		return errors.Wrap(err, "write figure")
	}
	return nil
}

// subplot builds a gonum plot for one cell. Paper y coordinates are mapped
// onto counts so that 1 is the tallest bar.
func subplot(sp *Subplot) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = sp.XAxis.Title
	p.Y.Label.Text = sp.YAxis.Title
	if !sp.YAxis.ShowTickLabels {
		p.Y.Tick.Marker = plot.ConstantTicks([]plot.Tick{})
	}
	if !sp.XAxis.ShowTickLabels {
		p.X.Tick.Marker = plot.ConstantTicks([]plot.Tick{})
	}

	maxCount := 0.0
	for _, hist := range sp.Histograms {
		h, err := plotter.NewHist(plotter.Values(hist.Values), hist.Bins)
		if err != nil {
			return nil, errors.Wrapf(common.ErrorInvalidValue, "histogram %q: %v", hist.Name, err)
		}
		h.FillColor = colorOf(hist.Color)
		h.LineStyle.Color = color.White
		h.LineStyle.Width = vg.Points(0.5)
		for _, bin := range h.Bins {
			maxCount = max(maxCount, bin.Weight)
		}
		p.Add(h)
	}
	if maxCount == 0 {
		maxCount = 1
	}
	top := 1.0

	paperY := func(ref string, y float64) float64 {
		if ref == RefPaper {
			top = max(top, y)
			return y * maxCount
		}
		return y
	}

	for _, shape := range sp.Shapes {
		l, err := plotter.NewLine(plotter.XYs{
			{X: shape.X0, Y: paperY(shape.YRef, shape.Y0)},
			{X: shape.X1, Y: paperY(shape.YRef, shape.Y1)},
		})
		if err != nil {
			return nil, errors.Wrapf(common.ErrorInvalidValue, "shape %q: %v", shape.Label, err)
		}
		l.LineStyle.Color = colorOf(shape.Color)
		l.LineStyle.Width = vg.Points(shape.Width)
		p.Add(l)
	}

	if len(sp.Annotations) > 0 {
		xys := make(plotter.XYs, 0, len(sp.Annotations))
		texts := make([]string, 0, len(sp.Annotations))
		for _, a := range sp.Annotations {
			x := a.X
			if a.XRef == RefPaper {
				x = p.X.Min + a.X*(p.X.Max-p.X.Min)
			}
			xys = append(xys, plotter.XY{X: x, Y: paperY(a.YRef, a.Y)})
			texts = append(texts, a.Text)
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, errors.Wrapf(common.ErrorInvalidValue, "annotations: %v", err)
		}
		for i, a := range sp.Annotations {
			labels.TextStyle[i].Color = colorOf(a.Color)
		}
		p.Add(labels)
	}

	p.Y.Min = 0
	p.Y.Max = maxCount * (top + 0.08)
	return p, nil
}

func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}

// writeText renders every histogram as an ascii chart of its bin counts,
// followed by the markers of its subplot.
func writeText(w io.Writer, fig *Figure) error {
	var sb strings.Builder
	if fig.Title != "" {
		sb.WriteString(fig.Title + "\n\n")
	}
	for _, sp := range fig.Subplots {
		for _, hist := range sp.Histograms {
			h, err := plotter.NewHist(plotter.Values(hist.Values), hist.Bins)
			if err != nil {
				return errors.Wrapf(common.ErrorInvalidValue, "histogram %q: %v", hist.Name, err)
			}
			counts := make([]float64, len(h.Bins))
			for i, bin := range h.Bins {
				counts[i] = bin.Weight
			}
			caption := fmt.Sprintf("%s [%g, %g]", sp.XAxis.Title, h.Bins[0].Min, h.Bins[len(h.Bins)-1].Max)
			sb.WriteString(asciigraph.Plot(counts, asciigraph.Height(TextHeight), asciigraph.Caption(caption)))
			sb.WriteString("\n")
		}
		for _, shape := range sp.Shapes {
			fmt.Fprintf(&sb, "%s: [%g, %g]\n", shape.Label, shape.X0, shape.X1)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

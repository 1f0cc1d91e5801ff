package plots

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	ScatterSide = 8 // inches
	ScatterDPI  = 600
)

// Point is one labelled sample in a group scatter plot.
type Point struct {
	Label string
	Group string
	X, Y  float64
}

// GroupScatter plots points colored by group. groups fixes the legend order and
// colors[i] belongs to groups[i]; with fewer colors than groups the colors repeat.
func GroupScatter(points []Point, groups []string, colors []color.Color, title, xLabel, yLabel string) (Figure, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true

	for i, g := range groups {
		var xys plotter.XYs
		for _, pt := range points {
			if pt.Group == g {
				xys = append(xys, plotter.XY{X: pt.X, Y: pt.Y})
			}
		}
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return Figure{}, err
		}
		s.GlyphStyle.Color = pick(colors, i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(4)
		p.Add(s)
		p.Legend.Add(g, s)
	}

	if len(points) > 0 {
		labels := plotter.XYLabels{XYs: make(plotter.XYs, len(points)), Labels: make([]string, len(points))}
		for i, pt := range points {
			labels.XYs[i] = plotter.XY{X: pt.X, Y: pt.Y}
			labels.Labels[i] = pt.Label
		}
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return Figure{}, err
		}
		l.Offset = vg.Point{X: vg.Points(5)}
		p.Add(l)
	}

	return Figure{Plot: p, Width: ScatterSide * vg.Inch, Height: ScatterSide * vg.Inch, DPI: ScatterDPI}, nil
}

func pick(colors []color.Color, i int) color.Color {
	if len(colors) == 0 {
		return color.Black
	}
	return colors[i%len(colors)]
}

// withAlpha returns c with its opacity replaced by a in [0,1].
func withAlpha(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(a*255 + 0.5)
	return n
}

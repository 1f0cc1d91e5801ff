package plots

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	FoldChangeThreshold = 1.0
	PThreshold          = 0.05

	volcanoWidth  = 10 / 2.54 // inches
	volcanoHeight = 8 / 2.54
	VolcanoDPI    = 600

	volcanoAlpha = 0.5
	tinyP        = 0x1p-1022 // smallest normal float64, keeps -log10 finite
)

// NonSignificantColor is used for points outside the thresholds.
var NonSignificantColor = color.NRGBA{R: 204, G: 204, B: 204, A: 255}

// Regulation classifies one gene in a volcano plot.
type Regulation int

const (
	NotSignificant Regulation = iota
	Up
	Down
)

// Classify applies |log2FC| >= 1 and p <= 0.05.
func Classify(log2FC, p float64) Regulation {
	if math.Abs(log2FC) < FoldChangeThreshold || !(p <= PThreshold) {
		return NotSignificant
	}
	if log2FC > 0 {
		return Up
	}
	if log2FC < 0 {
		return Down
	}
	return NotSignificant
}

// VolcanoPoint is one gene of a differential-expression result.
type VolcanoPoint struct {
	Gene   string
	Log2FC float64
	P      float64
}

// VolcanoOptions controls coloring and labelling.
type VolcanoOptions struct {
	PColumn    string // axis label, e.g. padj
	Up, Down   color.Color
	LabelGenes []string
}

// Volcano plots -log10(p) against log2 fold change. Points with a NaN or infinite
// value are dropped. The x axis is symmetric around zero.
func Volcano(points []VolcanoPoint, opt VolcanoOptions) (Figure, error) {
	var groups [3]plotter.XYs
	wanted := make(map[string]bool, len(opt.LabelGenes))
	for _, g := range opt.LabelGenes {
		wanted[g] = true
	}
	labels := plotter.XYLabels{}
	absMax := 0.0

	for _, pt := range points {
		if !finite(pt.Log2FC) || !finite(pt.P) {
			continue
		}
		xy := plotter.XY{X: pt.Log2FC, Y: -math.Log10(math.Max(pt.P, tinyP))}
		r := Classify(pt.Log2FC, pt.P)
		groups[r] = append(groups[r], xy)
		absMax = math.Max(absMax, math.Abs(pt.Log2FC))
		if wanted[pt.Gene] {
			labels.XYs = append(labels.XYs, xy)
			labels.Labels = append(labels.Labels, pt.Gene)
		}
	}

	p := plot.New()
	p.X.Label.Text = "Log2 Fold Change"
	p.Y.Label.Text = "-Log10(" + opt.PColumn + ")"
	small := font.Length(8)
	p.X.Label.TextStyle.Font.Size = small
	p.Y.Label.TextStyle.Font.Size = small
	p.X.Tick.Label.Font.Size = small
	p.Y.Tick.Label.Font.Size = small

	styles := [3]struct {
		c      color.Color
		radius vg.Length
	}{
		NotSignificant: {NonSignificantColor, vg.Points(1.5)},
		Down:           {opt.Down, vg.Points(2)},
		Up:             {opt.Up, vg.Points(2)},
	}
	for _, r := range []Regulation{NotSignificant, Down, Up} {
		if len(groups[r]) == 0 {
			continue
		}
		s, err := plotter.NewScatter(groups[r])
		if err != nil {
			return Figure{}, err
		}
		c := styles[r].c
		if c == nil {
			c = color.Black
		}
		s.GlyphStyle.Color = withAlpha(c, volcanoAlpha)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = styles[r].radius
		p.Add(s)
	}

	if len(labels.Labels) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return Figure{}, err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Font.Size = font.Length(6)
		}
		l.Offset = vg.Point{X: vg.Points(6)}
		p.Add(l)
	}

	if absMax == 0 {
		absMax = 1
	}
	p.X.Min, p.X.Max = -absMax*1.05, absMax*1.05

	return Figure{
		Plot:   p,
		Width:  vg.Length(volcanoWidth) * vg.Inch,
		Height: vg.Length(volcanoHeight) * vg.Inch,
		DPI:    VolcanoDPI,
	}, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

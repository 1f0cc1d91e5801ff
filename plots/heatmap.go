package plots

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"rna_seq_go/table"
)

// Heatmap layout, in inches per cell and per label character.
const (
	HeatmapCellWidth  = 0.3
	HeatmapCellHeight = 0.01
	HeatmapCharWidth  = 0.08
	HeatmapDPI        = 600
	HeatmapColormap   = "PuBu"

	minHeatmapSide = 3.0
)

// matrixGrid adapts a Matrix to plotter.GridXYZ. Row 0 is drawn at the top.
type matrixGrid struct{ m *table.Matrix }

func (g matrixGrid) Dims() (c, r int)   { return len(g.m.Cols), len(g.m.Rows) }
func (g matrixGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Rows)-1-r][c] }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }

// HeatmapSize returns the figure size in inches: one fixed-size cell per value plus
// room for the labels.
func HeatmapSize(rows, cols []string) (w, h float64) {
	w = float64(len(cols))*HeatmapCellWidth + float64(maxLen(rows))*HeatmapCharWidth
	h = float64(len(rows))*HeatmapCellHeight + float64(maxLen(cols))*HeatmapCharWidth
	return math.Max(w, minHeatmapSide), math.Max(h, minHeatmapSide)
}

// Heatmap draws m with a sequential ColorBrewer colormap. Sample names label the
// x axis; gene rows are too dense to label.
func Heatmap(m *table.Matrix, colormap, title string) (Figure, error) {
	if len(m.Rows) == 0 || len(m.Cols) == 0 {
		return Figure{}, fmt.Errorf("heatmap: empty matrix")
	}
	pal, err := brewer.GetPalette(brewer.TypeSequential, colormap, 9)
	if err != nil {
		return Figure{}, err
	}

	hm := plotter.NewHeatMap(matrixGrid{m}, pal)
	hm.Rasterized = true
	if hm.Min > hm.Max { // every cell is NaN
		hm.Min, hm.Max = 0, 0
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%.3g to %.3g)", title, hm.Min, hm.Max)
	p.Add(hm)
	p.NominalX(m.Cols...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.HideY()

	w, h := HeatmapSize(m.Rows, m.Cols)
	return Figure{
		Plot:   p,
		Width:  vg.Length(w) * vg.Inch,
		Height: vg.Length(h) * vg.Inch,
		DPI:    DownsizeDPI(math.Max(w, h), HeatmapDPI),
	}, nil
}

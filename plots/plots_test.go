package plots

import (
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rna_seq_go/table"
)

func TestDownsizeDPI(t *testing.T) {
	assert.Equal(t, 600, DownsizeDPI(10, 600))
	// 120 in * 600 dpi = 72000 px, 120 * 300 = 36000 px
	assert.Equal(t, 300, DownsizeDPI(120, 600))
	assert.Equal(t, 150, DownsizeDPI(250, 600))
}

func TestHeatmapSize(t *testing.T) {
	rows := make([]string, 1000)
	for i := range rows {
		rows[i] = "ENSG0000"
	}
	cols := make([]string, 20)
	for i := range cols {
		cols[i] = "sample-10"
	}
	w, h := HeatmapSize(rows, cols)
	assert.InDelta(t, 20*0.3+8*0.08, w, 1e-9)
	assert.InDelta(t, 1000*0.01+9*0.08, h, 1e-9)

	w, h = HeatmapSize([]string{"G"}, []string{"S"})
	assert.Equal(t, minHeatmapSide, w)
	assert.Equal(t, minHeatmapSide, h)
}

func TestMatrixGridTopRowFirst(t *testing.T) {
	m, err := table.NewMatrix([]string{"G1", "G2"}, []string{"A", "B"}, [][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	g := matrixGrid{m}
	c, r := g.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 3.0, g.Z(0, 0))
	assert.Equal(t, 2.0, g.Z(1, 1))
}

func TestHeatmapSave(t *testing.T) {
	m, err := table.NewMatrix([]string{"G1", "G2", "G3"}, []string{"A", "B"}, [][]float64{{1, 2}, {3, math.NaN()}, {0, 1}})
	require.NoError(t, err)

	fig, err := Heatmap(m, HeatmapColormap, "heatmap-tpm")
	require.NoError(t, err)
	fig.DPI = 50

	dir := t.TempDir()
	png := filepath.Join(dir, "heatmap.png")
	pdf := filepath.Join(dir, "heatmap.pdf")
	require.NoError(t, fig.Save(png, pdf))
	assert.FileExists(t, png)
	assert.FileExists(t, pdf)
}

func TestHeatmapUnknownColormap(t *testing.T) {
	m, err := table.NewMatrix([]string{"G1"}, []string{"A"}, [][]float64{{1}})
	require.NoError(t, err)
	_, err = Heatmap(m, "NoSuchMap", "x")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		fc, p float64
		want  Regulation
	}{
		{2, 0.01, Up},
		{-1, 0.05, Down},
		{0.5, 0.001, NotSignificant},
		{3, 0.2, NotSignificant},
		{3, math.NaN(), NotSignificant},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.fc, c.p), "fc=%v p=%v", c.fc, c.p)
	}
}

func TestVolcanoAndScatterSave(t *testing.T) {
	dir := t.TempDir()

	vol, err := Volcano([]VolcanoPoint{
		{Gene: "TP53", Log2FC: 2, P: 1e-5},
		{Gene: "MYC", Log2FC: -3, P: 0},
		{Gene: "ACTB", Log2FC: 0.1, P: 0.9},
		{Gene: "NAN", Log2FC: math.NaN(), P: 0.1},
	}, VolcanoOptions{PColumn: "padj", Up: color.NRGBA{R: 255, A: 255}, Down: color.NRGBA{B: 255, A: 255}, LabelGenes: []string{"TP53"}})
	require.NoError(t, err)
	assert.InDelta(t, -3*1.05, vol.Plot.X.Min, 1e-9)
	assert.InDelta(t, 3*1.05, vol.Plot.X.Max, 1e-9)
	vol.DPI = 50
	require.NoError(t, vol.Save(filepath.Join(dir, "padj-volcano-plot.png")))

	sc, err := GroupScatter([]Point{
		{Label: "S1", Group: "normal", X: 1, Y: 2},
		{Label: "S2", Group: "cancer", X: -1, Y: 0},
	}, []string{"normal", "cancer"}, []color.Color{color.Black}, "pca-tpm", "PC 1", "PC 2")
	require.NoError(t, err)
	sc.DPI = 50
	require.NoError(t, sc.Save(filepath.Join(dir, "pca.png"), filepath.Join(dir, "pca.pdf")))
	assert.FileExists(t, filepath.Join(dir, "pca.pdf"))
}

func TestWithAlpha(t *testing.T) {
	c := withAlpha(color.NRGBA{R: 255, A: 255}, 0.5).(color.NRGBA)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.A)
}

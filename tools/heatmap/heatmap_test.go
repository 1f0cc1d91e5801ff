package heatmap

import (
	"math"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/logger"
	"rna_seq_go/table"
)

func column(t *testing.T, rows []string, values ...float64) *table.Matrix {
	t.Helper()
	v := make([][]float64, len(values))
	for i, x := range values {
		v[i] = []float64{x}
	}
	m, err := table.NewMatrix(rows, []string{"S1"}, v)
	require.NoError(t, err)
	return m
}

func TestFilterByCumulativeReadsBoundary(t *testing.T) {
	// cumulative fractions 0.5, 0.75, 0.9, 1.0
	m := column(t, []string{"G20", "G100", "G30", "G50"}, 20, 100, 30, 50)

	out, err := FilterByCumulativeReads(m, 0.8)
	require.NoError(t, err)
	assert.Equal(t, []string{"G100", "G50", "G30"}, out.Rows)
	assert.Equal(t, [][]float64{{100}, {50}, {30}}, out.Values)
	assert.Equal(t, []string{"S1"}, out.Cols)
}

func TestFilterByCumulativeReadsExactFraction(t *testing.T) {
	// 0.75 is not strictly greater than 0.75, so the next row is the crossing one
	m := column(t, []string{"A", "B", "C", "D"}, 100, 50, 30, 20)
	out, err := FilterByCumulativeReads(m, 0.75)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, out.Rows)
}

func TestFilterByCumulativeReadsSingleDominantGene(t *testing.T) {
	m := column(t, []string{"A", "B", "C"}, 1, 98, 1)
	out, err := FilterByCumulativeReads(m, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, out.Rows)
}

func TestFilterByCumulativeReadsTiesKeepInputOrder(t *testing.T) {
	m := column(t, []string{"A", "B", "C", "D"}, 10, 10, 10, 10)
	out, err := FilterByCumulativeReads(m, 0.3)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, out.Rows)
}

func TestFilterByCumulativeReadsRowSumsAcrossSamples(t *testing.T) {
	m, err := table.NewMatrix([]string{"A", "B"}, []string{"S1", "S2"}, [][]float64{{1, 1}, {0, 8}})
	require.NoError(t, err)
	out, err := FilterByCumulativeReads(m, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, out.Rows)
	assert.Equal(t, []float64{0, 8}, out.Values[0])
}

func TestFilterByCumulativeReadsInvalidFraction(t *testing.T) {
	m := column(t, []string{"A"}, 1)
	for _, f := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		_, err := FilterByCumulativeReads(m, f)
		assert.True(t, apperrors.Is(err, apperrors.CodeValidation), "fraction %v", f)
	}
}

func TestRescale(t *testing.T) {
	m, err := table.NewMatrix([]string{"A", "B"}, []string{"S1", "S2"}, [][]float64{{0, 10}, {100, 1000}})
	require.NoError(t, err)

	out, err := Rescale(m, true, false)
	require.NoError(t, err)
	// pseudocount = 0.1 * 10
	assert.InDeltaSlice(t, []float64{0, math.Log10(11)}, out.Values[0], 1e-12)
	assert.InDeltaSlice(t, []float64{math.Log10(101), math.Log10(1001)}, out.Values[1], 1e-12)
	assert.Equal(t, []float64{0, 10}, m.Values[0])
}

func TestRescaleBySampleReads(t *testing.T) {
	m, err := table.NewMatrix([]string{"A", "B"}, []string{"S1"}, [][]float64{{1}, {3}})
	require.NoError(t, err)

	out, err := Rescale(m, false, true)
	require.NoError(t, err)
	assert.InDelta(t, 250000, out.Values[0][0], 1e-6)
	assert.InDelta(t, 750000, out.Values[1][0], 1e-6)
}

func TestRescaleAllZero(t *testing.T) {
	m := column(t, []string{"A"}, 0)
	_, err := Rescale(m, true, false)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	// without the log transform no pseudocount is needed
	out, err := Rescale(m, false, false)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0}}, out.Values)
}

func TestLeafOrderGroupsNeighbours(t *testing.T) {
	vectors := [][]float64{{0}, {10}, {0.1}, {10.2}, {0.3}}
	order := LeafOrder(vectors)
	require.Len(t, order, 5)

	sorted := append([]int(nil), order...)
	sort.Ints(sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sorted)

	// the two far points end up next to each other
	pos := make(map[int]int)
	for k, i := range order {
		pos[i] = k
	}
	assert.Equal(t, 1, abs(pos[1]-pos[3]))

	assert.Equal(t, order, LeafOrder(vectors))
}

func TestLeafOrderSmallInput(t *testing.T) {
	assert.Equal(t, []int{0, 1}, LeafOrder([][]float64{{1}, {2}}))
	assert.Empty(t, LeafOrder(nil))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func TestRunWritesArtifacts(t *testing.T) {
	m, err := table.NewMatrix(
		[]string{"G1", "G2", "G3", "G4"},
		[]string{"S1", "S2", "S3"},
		[][]float64{{500, 400, 450}, {300, 20, 310}, {10, 200, 15}, {1, 2, 3}},
	)
	require.NoError(t, err)

	s := config.Settings{Outdir: t.TempDir(), Log: logger.Discard()}
	out, err := Run(s, "tpm", m, 0.8)
	require.NoError(t, err)
	assert.Len(t, out.Rows, 2) // 1350 and 630 of 2211 cover more than 80%

	for _, ext := range []string{".csv", ".png", ".pdf"} {
		assert.FileExists(t, filepath.Join(s.Outdir, DirName, "heatmap-tpm"+ext))
	}
	back, err := table.ReadMatrix(filepath.Join(s.Outdir, DirName, "heatmap-tpm.csv"))
	require.NoError(t, err)
	assert.True(t, out.Equal(back, 1e-9))
}

func TestRunErrorCarriesStepOnly(t *testing.T) {
	m, err := table.NewMatrix([]string{"G1", "G2"}, []string{"S1", "S2"}, [][]float64{{0, 0}, {0, 0}})
	require.NoError(t, err)

	s := config.Settings{Outdir: t.TempDir(), Log: logger.Discard()}
	_, err = Run(s, "tpm", m, 0.8)
	assert.EqualError(t, err, "rescale: cannot pick a pseudocount: matrix has no non-zero value")
}

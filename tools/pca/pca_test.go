package pca

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/logger"
	"rna_seq_go/table"
)

func lineMatrix(t *testing.T) *table.Matrix {
	t.Helper()
	// samples lie on the line y = 2x in gene space
	m, err := table.NewMatrix([]string{"G1", "G2"}, []string{"S1", "S2", "S3"}, [][]float64{{1, 2, 3}, {2, 4, 6}})
	require.NoError(t, err)
	return m
}

func TestComputeLine(t *testing.T) {
	res, err := Compute(lineMatrix(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"S1", "S2", "S3"}, res.Samples)
	assert.InDelta(t, -math.Sqrt(5), res.Coordinates[0][0], 1e-9)
	assert.InDelta(t, 0, res.Coordinates[1][0], 1e-9)
	assert.InDelta(t, math.Sqrt(5), res.Coordinates[2][0], 1e-9)
	for _, xy := range res.Coordinates {
		assert.InDelta(t, 0, xy[1], 1e-9)
	}
	assert.InDelta(t, 1, res.Explained[0], 1e-9)
	assert.InDelta(t, 0, res.Explained[1], 1e-9)
}

func TestComputeDeterministic(t *testing.T) {
	m, err := table.NewMatrix(
		[]string{"G1", "G2", "G3", "G4"},
		[]string{"S1", "S2", "S3", "S4", "S5"},
		[][]float64{
			{5, 3, 8, 1, 9},
			{2, 7, 1, 8, 2},
			{9, 9, 4, 3, 1},
			{0, 1, 0, 2, 7},
		},
	)
	require.NoError(t, err)

	first, err := Compute(m)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Compute(m)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.InDelta(t, 1, first.Explained[0]+first.Explained[1]+residual(t, m, first), 1e-9)
	assert.GreaterOrEqual(t, first.Explained[0], first.Explained[1])
}

// residual is the variance share not carried by the first two components.
func residual(t *testing.T, m *table.Matrix, r *Result) float64 {
	t.Helper()
	var total, kept float64
	n := float64(len(m.Cols))
	for _, row := range m.Values {
		mean := 0.0
		for _, v := range row {
			mean += v / n
		}
		for _, v := range row {
			total += (v - mean) * (v - mean)
		}
	}
	for _, xy := range r.Coordinates {
		kept += xy[0]*xy[0] + xy[1]*xy[1]
	}
	return (total - kept) / total
}

func TestComputeTooFewSamples(t *testing.T) {
	m, err := table.NewMatrix([]string{"G1", "G2"}, []string{"S1"}, [][]float64{{1}, {2}})
	require.NoError(t, err)
	_, err = Compute(m)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestComputeRejectsNaN(t *testing.T) {
	m, err := table.NewMatrix([]string{"G1", "G2"}, []string{"S1", "S2"}, [][]float64{{1, math.NaN()}, {2, 3}})
	require.NoError(t, err)
	_, err = Compute(m)
	assert.ErrorContains(t, err, `"S2"`)
}

func sampleInfo(t *testing.T, index ...string) *table.Table {
	t.Helper()
	cells := make([][]string, len(index))
	for i := range index {
		cells[i] = []string{[]string{"normal", "cancer"}[i%2]}
	}
	tb, err := table.NewTable(index, []string{"group"}, cells)
	require.NoError(t, err)
	return tb
}

func TestRunWritesArtifacts(t *testing.T) {
	s := config.Settings{Outdir: t.TempDir(), Log: logger.Discard()}
	colors := []color.Color{color.NRGBA{R: 255, A: 255}, color.NRGBA{G: 128, A: 255}}

	_, err := Run(s, "tpm", lineMatrix(t), sampleInfo(t, "S1", "S2", "S3"), "group", colors)
	require.NoError(t, err)

	dir := filepath.Join(s.Outdir, DirName)
	for _, f := range []string{
		"pca-tpm-sample-coordinate.csv",
		"pca-tpm-sample-coordinate.png",
		"pca-tpm-sample-coordinate.pdf",
		"pca-tpm-proportion-explained.csv",
	} {
		assert.FileExists(t, filepath.Join(dir, f))
	}

	coords, err := table.ReadTable(filepath.Join(dir, "pca-tpm-sample-coordinate.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"PC 1", "PC 2", "group"}, coords.Columns)
	assert.Equal(t, []string{"S1", "S2", "S3"}, coords.Index)

	explained, err := os.ReadFile(filepath.Join(dir, "pca-tpm-proportion-explained.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(explained), ",Proportion Explained\n0,")
}

func TestRunJoinConsistency(t *testing.T) {
	s := config.Settings{Outdir: t.TempDir(), Log: logger.Discard()}
	info := sampleInfo(t, "S1", "S2", "S3", "S3")

	_, err := Run(s, "tpm", lineMatrix(t), info, "group", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConsistency, apperrors.GetCode(err))
}

func TestRunErrorCarriesNoStageName(t *testing.T) {
	s := config.Settings{Outdir: t.TempDir(), Log: logger.Discard()}
	m, err := table.NewMatrix([]string{"G1"}, []string{"S1", "S2", "S3"}, [][]float64{{1, 2, 3}})
	require.NoError(t, err)

	_, err = Run(s, "tpm", m, sampleInfo(t, "S1", "S2", "S3"), "group", nil)
	assert.EqualError(t, err, "PCA needs at least 2 features, got 1")
	assert.EqualError(t, apperrors.Wrapf(err, "pca %s", "tpm"), "pca tpm: PCA needs at least 2 features, got 1")
}

package tpm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
)

func geneInfo(t *testing.T, rows map[string]string, order ...string) *table.Table {
	t.Helper()
	cells := make([][]string, len(order))
	for i, g := range order {
		cells[i] = []string{rows[g], "name-" + g}
	}
	tb, err := table.NewTable(order, []string{"gene_length", "gene_name"}, cells)
	require.NoError(t, err)
	return tb
}

func TestNormalizeSingleGene(t *testing.T) {
	counts, err := table.NewMatrix([]string{"G1"}, []string{"S1", "S2"}, [][]float64{{10, 20}})
	require.NoError(t, err)

	out, dropped, err := Normalize(counts, geneInfo(t, map[string]string{"G1": "2000"}, "G1"), "gene_length")
	require.NoError(t, err)
	assert.Empty(t, dropped)
	assert.InDeltaSlice(t, []float64{1e6, 1e6}, out.Values[0], 1e-6)
}

func TestNormalizeColumnsSumToMillion(t *testing.T) {
	counts, err := table.NewMatrix(
		[]string{"G1", "G2", "G3", "G4"},
		[]string{"S1", "S2", "S3"},
		[][]float64{{10, 0, 3}, {200, 15, 7}, {0, 0, 1}, {55, 80, 12}},
	)
	require.NoError(t, err)
	info := geneInfo(t, map[string]string{"G1": "1500", "G2": "800", "G3": "NA", "G4": "3200"}, "G4", "G3", "G2", "G1")

	out, dropped, err := Normalize(counts, info, "gene_length")
	require.NoError(t, err)
	assert.Equal(t, []string{"G3"}, dropped)
	assert.Equal(t, []string{"G1", "G2", "G4"}, out.Rows)
	for _, sum := range out.ColSums() {
		assert.InDelta(t, 1e6, sum, 1e-6)
	}
	for _, row := range out.Values {
		assert.True(t, floats.Min(row) >= 0)
	}

	// input untouched
	assert.Equal(t, []float64{10, 0, 3}, counts.Values[0])
}

func TestNormalizeLengthRatio(t *testing.T) {
	counts, err := table.NewMatrix([]string{"short", "long"}, []string{"S1"}, [][]float64{{100}, {100}})
	require.NoError(t, err)
	info := geneInfo(t, map[string]string{"short": "1000", "long": "3000"}, "short", "long")

	out, _, err := Normalize(counts, info, "gene_length")
	require.NoError(t, err)
	assert.InDelta(t, 750000, out.Values[0][0], 1e-6)
	assert.InDelta(t, 250000, out.Values[1][0], 1e-6)
}

func TestNormalizeMissingGeneInfo(t *testing.T) {
	counts, err := table.NewMatrix([]string{"G1", "G9"}, []string{"S1"}, [][]float64{{1}, {2}})
	require.NoError(t, err)

	out, dropped, err := Normalize(counts, geneInfo(t, map[string]string{"G1": "1000"}, "G1"), "gene_length")
	require.NoError(t, err)
	assert.Equal(t, []string{"G9"}, dropped)
	assert.Equal(t, []string{"G1"}, out.Rows)
}

func TestNormalizeUnknownLengthColumn(t *testing.T) {
	counts, err := table.NewMatrix([]string{"G1"}, []string{"S1"}, [][]float64{{1}})
	require.NoError(t, err)

	_, _, err = Normalize(counts, geneInfo(t, map[string]string{"G1": "1000"}, "G1"), "length")
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestNormalizeZeroSample(t *testing.T) {
	counts, err := table.NewMatrix([]string{"G1"}, []string{"S1", "S2"}, [][]float64{{5, 0}})
	require.NoError(t, err)

	out, _, err := Normalize(counts, geneInfo(t, map[string]string{"G1": "1000"}, "G1"), "gene_length")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1e6, 0}, out.Values[0], 1e-6)
}

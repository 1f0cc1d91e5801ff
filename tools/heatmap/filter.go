// Package heatmap selects the most abundant genes of a normalized matrix and draws them
// as a clustered heatmap.
package heatmap

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
)

const (
	PseudocountFactor = 0.1 // pseudocount = factor * smallest non-zero value
	SampleReadsUnit   = 1e6
)

// FilterByCumulativeReads keeps the most abundant rows that together first cover more
// than fraction of the matrix total. Rows are ranked by row sum, descending, with ties
// in input order. The row at which the cumulative fraction first exceeds fraction is
// kept, so at least one row always survives; if no row exceeds it, all rows are kept.
// The result is in ranked order.
func FilterByCumulativeReads(m *table.Matrix, fraction float64) (*table.Matrix, error) {
	if !(fraction > 0 && fraction < 1) {
		return nil, apperrors.Validation("heatmap read fraction must be in (0, 1), got %v", fraction)
	}
	n := len(m.Rows)
	if n == 0 {
		return m.Clone(), nil
	}

	sums := m.RowSums()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		x, y := sums[order[a]], sums[order[b]]
		return x > y || (!math.IsNaN(x) && math.IsNaN(y))
	})

	sorted := make([]float64, n)
	for k, i := range order {
		sorted[k] = sums[i]
	}
	cum := floats.CumSum(make([]float64, n), sorted)
	total := cum[n-1]

	keep := n
	for k, c := range cum {
		if c/total > fraction {
			keep = k + 1
			break
		}
	}
	return m.SelectRows(order[:keep]), nil
}

// Rescale prepares a matrix for display. With bySampleReads each column is divided by
// its total / 1e6. With logPseudocount every cell becomes log10(v + pc), where pc is
// 0.1 times the smallest non-zero value of the matrix.
func Rescale(m *table.Matrix, logPseudocount, bySampleReads bool) (*table.Matrix, error) {
	out := m.Clone()

	if bySampleReads {
		perUnit := out.ColSums()
		floats.Scale(1/SampleReadsUnit, perUnit)
		for _, row := range out.Values {
			floats.Div(row, perUnit)
		}
	}

	if !logPseudocount {
		return out, nil
	}

	var nonZero stats.Float64Data
	for _, row := range out.Values {
		for _, v := range row {
			if v != 0 && !math.IsNaN(v) {
				nonZero = append(nonZero, v)
			}
		}
	}
	nonZeroMin, err := stats.Min(nonZero)
	if err != nil {
		return nil, apperrors.Validation("cannot pick a pseudocount: matrix has no non-zero value")
	}
	pseudocount := nonZeroMin * PseudocountFactor

	for _, row := range out.Values {
		floats.AddConst(pseudocount, row)
		for j, v := range row {
			row[j] = math.Log10(v)
		}
	}
	return out, nil
}

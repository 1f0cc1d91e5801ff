package deseq2

import (
	"math"
	"sort"

	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
)

// Annotate left-joins the gene name (and description, if given) onto the statistics
// and moves those columns to the front.
func Annotate(statistics, geneInfo *table.Table, nameColumn, descriptionColumn string) (*table.Table, error) {
	cols := []string{nameColumn}
	if descriptionColumn != "" {
		cols = append(cols, descriptionColumn)
	}
	annotation, err := geneInfo.Select(cols...)
	if err != nil {
		return nil, apperrors.Validation("gene info table: %v", err)
	}

	joined, err := table.LeftJoin(statistics, annotation)
	if err != nil {
		return nil, apperrors.Wrap(err, "annotate DESeq2 statistics")
	}
	return joined.Select(append(cols, statistics.Columns...)...)
}

// SortByP sorts the rows of t in place by padj, then pvalue, both ascending with NaN last. Ties keep
// their order.
func SortByP(t *table.Table) error {
	var keys [][]float64
	for _, c := range []string{PAdjColumn, PValueColumn} {
		v, err := t.Floats(c)
		if err != nil {
			return apperrors.Validation("statistics table: %v", err)
		}
		keys = append(keys, v)
	}

	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		for _, k := range keys {
			va, vb := k[ia], k[ib]
			switch {
			case math.IsNaN(va) && math.IsNaN(vb):
				continue
			case math.IsNaN(va):
				return false
			case math.IsNaN(vb):
				return true
			case va != vb:
				return va < vb
			}
		}
		return false
	})

	index := make([]string, len(order))
	cells := make([][]string, len(order))
	for k, i := range order {
		index[k] = t.Index[i]
		cells[k] = t.Cells[i]
	}
	t.Index, t.Cells = index, cells
	return nil
}

// Package subset_samples aligns the count matrix columns to the samples declared in the
// sample info table.
package subset_samples

import (
	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
)

// Subset returns counts restricted and reordered to the sample info index.
// Every sample info id must be a count column; nothing is matched partially.
func Subset(counts *table.Matrix, sampleInfo *table.Table) (*table.Matrix, error) {
	cols := counts.ColIndex()
	seen := make(map[string]bool, sampleInfo.Len())
	for _, id := range sampleInfo.Index {
		if _, ok := cols[id]; !ok {
			return nil, apperrors.Validation("sample %q of the sample info table is not a column of the count table", id)
		}
		if seen[id] {
			return nil, apperrors.Validation("sample %q is listed more than once in the sample info table", id)
		}
		seen[id] = true
	}

	out, err := counts.SelectCols(sampleInfo.Index)
	if err != nil {
		return nil, apperrors.Wrap(err, "subset samples")
	}
	return out, nil
}

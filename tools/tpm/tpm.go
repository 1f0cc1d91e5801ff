// Package tpm normalizes raw counts to transcripts per million.
package tpm

import (
	"math"

	"gonum.org/v1/gonum/floats"

	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
)

// Normalize converts raw counts to transcripts per million in two passes:
// counts / (gene length / 1000), then each sample / (sample sum / 1e6).
//
// Gene lengths come from lengthColumn of geneInfo, matched on the count row ids. Genes
// without a usable length (absent, empty, unparsable or not positive) are dropped and
// returned as the second value. A sample whose length-normalized sum is zero stays zero.
func Normalize(counts *table.Matrix, geneInfo *table.Table, lengthColumn string) (*table.Matrix, []string, error) {
	lengths, err := geneInfo.Lookup(lengthColumn)
	if err != nil {
		return nil, nil, apperrors.Validation("gene info table: %v", err)
	}

	// Pass 1: reads per kilobase
	rpk := counts.Clone()
	for i, gene := range rpk.Rows {
		kb := math.NaN()
		if cell, ok := lengths[gene]; ok {
			if v := table.ParseFloat(cell); v > 0 {
				kb = v / 1000
			}
		}
		floats.Scale(1/kb, rpk.Values[i])
	}
	rpk, dropped := rpk.DropNaNRows()

	// Pass 2: per-million scaling of each sample
	perMillion := rpk.ColSums()
	floats.Scale(1e-6, perMillion)
	for j, f := range perMillion {
		if f == 0 {
			perMillion[j] = 1
		}
	}
	for _, row := range rpk.Values {
		floats.Div(row, perMillion)
	}
	return rpk, dropped, nil
}

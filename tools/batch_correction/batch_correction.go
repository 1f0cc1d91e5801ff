// Package batch_correction removes batch effects from raw counts with ComBat-seq (R package sva).
package batch_correction

import (
	"context"
	"path/filepath"
	"text/template"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/runner"
	"rna_seq_go/table"
	common "rna_seq_go/utils"
)

const (
	CorrectedFile = "batch-corrected-count.csv"
	ScriptFile    = "combat-seq.R"
	LogFile       = "combat-seq.log"
)

var script = template.Must(template.New(ScriptFile).Funcs(runner.RFuncs).Parse(`library(sva)

count_df <- read.csv(
    file={{rstr .CountCSV}},
    header=TRUE,
    row.names=1,
    check.names=FALSE
)

count_matrix = as.matrix(count_df)

batch <- {{rvec .Batches}}

adjusted <- ComBat_seq(count_matrix, batch=batch, group=NULL)

write.csv(
    adjusted,
    file={{rstr .CorrectedCSV}}
)
`))

// BatchVector returns the batch of every count column, read from the sample info table.
func BatchVector(counts *table.Matrix, sampleInfo *table.Table, batchColumn string) ([]string, error) {
	bySample, err := sampleInfo.Lookup(batchColumn)
	if err != nil {
		return nil, apperrors.Validation("sample info table: %v", err)
	}
	batches := make([]string, len(counts.Cols))
	for j, sample := range counts.Cols {
		b, ok := bySample[sample]
		if !ok {
			return nil, apperrors.Validation("sample %q is not in the sample info table", sample)
		}
		batches[j] = b
	}
	return batches, nil
}

// ComBatSeq runs ComBat-seq through Rscript. Its output lands in the output directory
// as batch-corrected-count.csv.
type ComBatSeq struct {
	Settings config.Settings
	Runner   runner.Runner
}

// Correct adjusts counts for the given per-column batches. The result has the labels
// of counts.
func (c *ComBatSeq) Correct(ctx context.Context, counts *table.Matrix, batches []string) (*table.Matrix, error) {
	s := c.Settings
	if len(batches) != len(counts.Cols) {
		return nil, apperrors.Consistency("%d batches for %d samples", len(batches), len(counts.Cols))
	}

	countCSV := common.TempPath(filepath.Join(s.Workdir, "raw-count-"), ".csv")
	if err := table.WriteMatrix(countCSV, counts); err != nil {
		return nil, err
	}
	corrected := filepath.Join(s.Outdir, CorrectedFile)
	rScript := filepath.Join(s.Outdir, ScriptFile)

	err := runner.WriteRScript(rScript, script, struct {
		CountCSV     string
		CorrectedCSV string
		Batches      []string
	}{countCSV, corrected, batches})
	if err != nil {
		return nil, err
	}

	cmd := runner.Rscript(s.Rscript, rScript, filepath.Join(s.Outdir, LogFile))
	s.Log.WithField("stage", "batch-correction").Infof("running ComBat-seq over %d batches", len(common.Unique(batches)))
	if err := c.Runner.Run(ctx, cmd); err != nil {
		return nil, err
	}

	out, err := table.ReadMatrix(corrected)
	if err != nil {
		return nil, apperrors.Wrap(err, "read batch corrected counts")
	}
	if rows, cols := out.Dims(); rows != len(counts.Rows) || cols != len(counts.Cols) {
		return nil, apperrors.Consistency("batch correction changed the matrix shape from %dx%d to %dx%d",
			len(counts.Rows), len(counts.Cols), rows, cols)
	}
	return out, nil
}

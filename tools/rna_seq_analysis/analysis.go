// Package rna_seq_analysis runs the whole RNA-seq analysis: sample subsetting, optional
// batch correction, TPM, optional DESeq2, heatmaps, PCA and optional GSEA.
package rna_seq_analysis

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/runner"
	"rna_seq_go/stage"
	"rna_seq_go/table"
	"rna_seq_go/tools/batch_correction"
	"rna_seq_go/tools/colors"
	"rna_seq_go/tools/deseq2"
	"rna_seq_go/tools/gsea"
	"rna_seq_go/tools/heatmap"
	"rna_seq_go/tools/pca"
	"rna_seq_go/tools/subset_samples"
	"rna_seq_go/tools/tpm"
)

const (
	TPMFile = "tpm.csv"
	LogFile = "rna-seq-analysis.log"

	// matrix names used in heatmap and PCA artifacts
	tpmName    = "tpm"
	deseq2Name = "deseq2"
)

// DifferentialExpression compares the experimental group against the control group.
type DifferentialExpression interface {
	Run(ctx context.Context, req deseq2.Request) (deseq2.Result, error)
}

// BatchCorrector removes batch effects from raw counts. batches[j] belongs to column j.
type BatchCorrector interface {
	Correct(ctx context.Context, counts *table.Matrix, batches []string) (*table.Matrix, error)
}

// Enricher runs gene set enrichment. A ran outcome holds the report directory.
type Enricher interface {
	Run(ctx context.Context, req gsea.Request) (stage.Outcome[string], error)
}

// Analysis wires the stages to their external collaborators.
type Analysis struct {
	Settings   config.Settings
	DE         DifferentialExpression
	Batch      BatchCorrector
	Enrichment Enricher
}

// New returns an Analysis whose collaborators run R and GSEA through r.
func New(s config.Settings, r runner.Runner) *Analysis {
	return &Analysis{
		Settings:   s,
		DE:         &deseq2.DESeq2{Settings: s, Runner: r},
		Batch:      &batch_correction.ComBatSeq{Settings: s, Runner: r},
		Enrichment: &gsea.CLI{Settings: s, Runner: r},
	}
}

// inputs are the tables of one run after loading and subsetting.
type inputs struct {
	counts     *table.Matrix
	sampleInfo *table.Table
	geneInfo   *table.Table
	colors     []colors.RGBA
}

type namedMatrix struct {
	name string
	m    *table.Matrix
}

// Run executes the pipeline. Stages run one after another and the first error stops
// the run; the workdir is then left in place for inspection.
func (a *Analysis) Run(ctx context.Context, p Params) (*RunInfo, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	info := &RunInfo{RunID: uuid.NewString(), Start: time.Now()}
	s := a.Settings
	log := s.Log.WithField("run_id", info.RunID)
	s.Log = log
	log.WithFields(logrus.Fields{"outdir": s.Outdir, "workdir": s.Workdir}).Info("Start RNA-seq analysis")

	in, err := load(s, p)
	if err != nil {
		return nil, err
	}
	info.describeInput(in.counts)

	counts := in.counts
	batch, err := a.batchCorrect(ctx, p, in)
	if err != nil {
		return nil, apperrors.Wrap(err, "batch correction")
	}
	if corrected, ok := batch.Get(); ok {
		counts = corrected
	}

	tpmMatrix, dropped, err := tpm.Normalize(counts, in.geneInfo, p.GeneLengthColumn)
	if err != nil {
		return nil, apperrors.Wrap(err, "tpm")
	}
	if len(dropped) > 0 {
		log.WithField("genes", len(dropped)).Debug("TPM dropped genes without a usable length")
	}
	if err := table.WriteMatrix(filepath.Join(s.Outdir, TPMFile), tpmMatrix); err != nil {
		return nil, err
	}

	de, err := a.differentialExpression(ctx, s, p, in, counts)
	if err != nil {
		return nil, apperrors.Wrap(err, "deseq2")
	}

	matrices := []namedMatrix{{tpmName, tpmMatrix}}
	if res, ok := de.Get(); ok {
		matrices = append(matrices, namedMatrix{deseq2Name, res.Normalized})
	}
	for _, x := range matrices {
		if _, err := heatmap.Run(s, x.name, x.m, p.HeatmapReadFraction); err != nil {
			return nil, apperrors.Wrapf(err, "heatmap %s", x.name)
		}
	}
	for _, x := range matrices {
		if _, err := pca.Run(s, x.name, x.m, in.sampleInfo, p.SampleGroupColumn, colors.ToColors(in.colors)); err != nil {
			return nil, apperrors.Wrapf(err, "pca %s", x.name)
		}
	}

	enrichment, err := a.enrich(ctx, s, p, in, tpmMatrix, de)
	if err != nil {
		return nil, apperrors.Wrap(err, "gsea")
	}

	info.Stages = []stage.Record{
		stage.Summarize("batch-correction", batch),
		stage.Summarize("deseq2", de),
		stage.Summarize("gsea", enrichment),
	}
	for _, r := range info.Stages {
		if r.Status == stage.StatusSkipped {
			log.WithField("stage", r.Stage).Infof("skipped: %s", r.Reason)
		}
	}

	if err := Finalize(s, info); err != nil {
		return nil, err
	}
	log.Info("Done")
	return info, nil
}

func load(s config.Settings, p Params) (*inputs, error) {
	counts, err := table.ReadMatrix(p.CountTable)
	if err != nil {
		return nil, apperrors.Wrap(err, "read count table")
	}
	if err := counts.CheckCounts(); err != nil {
		return nil, apperrors.Validation("count table %s: %v", p.CountTable, err)
	}
	sampleInfo, err := table.ReadTable(p.SampleInfoTable)
	if err != nil {
		return nil, apperrors.Wrap(err, "read sample info table")
	}
	geneInfo, err := table.ReadTable(p.GeneInfoTable)
	if err != nil {
		return nil, apperrors.Wrap(err, "read gene info table")
	}
	// output files carry no index name
	sampleInfo.IndexName, geneInfo.IndexName = "", ""

	if counts, err = subset_samples.Subset(counts, sampleInfo); err != nil {
		return nil, apperrors.Wrap(err, "subset samples")
	}
	s.Log.Infof("Count table: %d genes x %d samples", len(counts.Rows), len(counts.Cols))

	rgba, err := colors.Assign(sampleInfo, p.SampleGroupColumn, p.Colormap, p.InvertColors, s.Log)
	if err != nil {
		return nil, apperrors.Wrap(err, "assign colors")
	}
	return &inputs{counts: counts, sampleInfo: sampleInfo, geneInfo: geneInfo, colors: rgba}, nil
}

func (a *Analysis) batchCorrect(ctx context.Context, p Params, in *inputs) (stage.Outcome[*table.Matrix], error) {
	if p.SampleBatchColumn == "" {
		return stage.Skipped[*table.Matrix]("no sample batch column given"), nil
	}
	batches, err := batch_correction.BatchVector(in.counts, in.sampleInfo, p.SampleBatchColumn)
	if err != nil {
		return stage.Outcome[*table.Matrix]{}, err
	}
	corrected, err := a.Batch.Correct(ctx, in.counts, batches)
	if err != nil {
		return stage.Outcome[*table.Matrix]{}, err
	}
	return stage.Ran(corrected), nil
}

func (a *Analysis) differentialExpression(ctx context.Context, s config.Settings, p Params, in *inputs, counts *table.Matrix) (stage.Outcome[deseq2.Result], error) {
	if p.SkipDESeq2GSEA {
		return stage.Skipped[deseq2.Result]("DESeq2 and GSEA skipped by option"), nil
	}
	res, err := a.DE.Run(ctx, deseq2.Request{
		Counts:                counts,
		SampleInfo:            in.sampleInfo,
		GroupColumn:           p.SampleGroupColumn,
		ControlGroup:          p.ControlGroupName,
		ExperimentalGroup:     p.ExperimentalGroupName,
		GeneInfo:              in.geneInfo,
		GeneNameColumn:        p.GeneNameColumn,
		GeneDescriptionColumn: p.GeneDescriptionColumn,
		Colors:                colors.ToColors(in.colors),
		LabelGenes:            p.VolcanoPlotLabelGenes,
	})
	if err != nil {
		return stage.Outcome[deseq2.Result]{}, err
	}
	s.Log.Infof("DESeq2 tested %d genes", res.Statistics.Len())
	return stage.Ran(res), nil
}

func (a *Analysis) enrich(ctx context.Context, s config.Settings, p Params, in *inputs, tpmMatrix *table.Matrix, de stage.Outcome[deseq2.Result]) (stage.Outcome[string], error) {
	res, ran := de.Get()
	switch {
	case !ran:
		return stage.Skipped[string]("differential expression did not run"), nil
	case p.GeneSetsGMT == "":
		return stage.Skipped[string]("no gene sets GMT given"), nil
	}

	expression := res.Normalized
	if p.GSEAInput == GSEAInputTPM {
		expression = tpmMatrix
	}
	if _, err := os.Stat(p.GeneSetsGMT); err != nil {
		return stage.Outcome[string]{}, apperrors.IO(p.GeneSetsGMT, err)
	}
	s.Log.WithField("input", p.GSEAInput).Info("Running GSEA")

	return a.Enrichment.Run(ctx, gsea.Request{
		Counts:              expression,
		GeneInfo:            in.geneInfo,
		SampleInfo:          in.sampleInfo,
		GeneNameColumn:      p.GeneNameColumn,
		GroupColumn:         p.SampleGroupColumn,
		ControlGroup:        p.ControlGroupName,
		ExperimentalGroup:   p.ExperimentalGroupName,
		GeneSetsGMT:         p.GeneSetsGMT,
		GeneNameKeywords:    p.GSEAGeneNameKeywords,
		GeneSetNameKeywords: p.GSEAGeneSetNameKeywords,
	})
}

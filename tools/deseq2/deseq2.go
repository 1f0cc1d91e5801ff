// Package deseq2 runs a two-group DESeq2 comparison through Rscript and post-processes
// its output: gene annotation, sorting by adjusted p-value, and volcano plots.
package deseq2

import (
	"context"
	"image/color"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/plots"
	"rna_seq_go/runner"
	"rna_seq_go/table"
	common "rna_seq_go/utils"
)

const (
	DirName        = "deseq2"
	StatisticsFile = "deseq2-statistics.csv"
	NormalizedFile = "deseq2-normalized-count.csv"
	ScriptFile     = "deseq2.R"
	LogFile        = "deseq2.log"

	FoldChangeColumn = "log2FoldChange"
	PValueColumn     = "pvalue"
	PAdjColumn       = "padj"
)

// Request is one experimental-versus-control comparison.
type Request struct {
	Counts            *table.Matrix // raw (or batch corrected) counts, genes by samples
	SampleInfo        *table.Table
	GroupColumn       string
	ControlGroup      string
	ExperimentalGroup string

	GeneInfo              *table.Table
	GeneNameColumn        string
	GeneDescriptionColumn string // optional

	// Colors[i] belongs to the i-th distinct group of the sample info table.
	Colors     []color.Color
	LabelGenes []string // gene names labelled on the volcano plots
}

// Result holds the sorted, annotated statistics and the size-factor normalized counts.
type Result struct {
	Statistics *table.Table
	Normalized *table.Matrix
}

// DESeq2 runs the comparison with an R interpreter.
type DESeq2 struct {
	Settings config.Settings
	Runner   runner.Runner
}

// Run writes the inputs to the workdir, renders and runs deseq2.R, then rewrites
// <outdir>/deseq2/deseq2-statistics.csv and deseq2-normalized-count.csv and draws
// padj-volcano-plot.png and pvalue-volcano-plot.png.
func (d *DESeq2) Run(ctx context.Context, req Request) (Result, error) {
	s := d.Settings
	log := s.Log.WithField("stage", "deseq2")

	if err := CheckGroups(req.SampleInfo, req.GroupColumn, req.ControlGroup, req.ExperimentalGroup); err != nil {
		return Result{}, err
	}

	countCSV := common.TempPath(filepath.Join(s.Workdir, "deseq2-count-"), ".csv")
	if err := table.WriteMatrix(countCSV, req.Counts); err != nil {
		return Result{}, err
	}
	sampleInfoCSV := common.TempPath(filepath.Join(s.Workdir, "deseq2-sample-info-"), ".csv")
	if err := table.WriteTable(sampleInfoCSV, req.SampleInfo); err != nil {
		return Result{}, err
	}

	dir := filepath.Join(s.Outdir, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, apperrors.IO(dir, err)
	}
	statisticsCSV := filepath.Join(dir, StatisticsFile)
	normalizedCSV := filepath.Join(dir, NormalizedFile)
	rScript := filepath.Join(dir, ScriptFile)

	err := runner.WriteRScript(rScript, script, scriptData{
		CountCSV:          countCSV,
		SampleInfoCSV:     sampleInfoCSV,
		GroupColumn:       req.GroupColumn,
		ExperimentalGroup: req.ExperimentalGroup,
		ControlGroup:      req.ControlGroup,
		StatisticsCSV:     statisticsCSV,
		NormalizedCSV:     normalizedCSV,
		Threads:           max(s.Threads, 1),
	})
	if err != nil {
		return Result{}, err
	}

	cmd := runner.Rscript(s.Rscript, rScript, filepath.Join(dir, LogFile))
	log.WithFields(logrus.Fields{
		"contrast": req.ExperimentalGroup + " vs " + req.ControlGroup,
		"log":      cmd.LogPath,
	}).Info("running DESeq2")
	if err := d.Runner.Run(ctx, cmd); err != nil {
		return Result{}, err
	}

	statistics, err := table.ReadTable(statisticsCSV)
	if err != nil {
		return Result{}, apperrors.Wrap(err, "read DESeq2 statistics")
	}
	normalized, err := table.ReadMatrix(normalizedCSV)
	if err != nil {
		return Result{}, apperrors.Wrap(err, "read DESeq2 normalized counts")
	}

	statistics, err = Annotate(statistics, req.GeneInfo, req.GeneNameColumn, req.GeneDescriptionColumn)
	if err != nil {
		return Result{}, err
	}
	if err := SortByP(statistics); err != nil {
		return Result{}, err
	}
	if err := table.WriteTable(statisticsCSV, statistics); err != nil {
		return Result{}, err
	}
	if err := table.WriteMatrix(normalizedCSV, normalized); err != nil {
		return Result{}, err
	}

	if err := d.volcanoPlots(dir, statistics, req); err != nil {
		return Result{}, err
	}
	return Result{Statistics: statistics, Normalized: normalized}, nil
}

// CheckGroups requires both group labels to be values of the group column.
func CheckGroups(sampleInfo *table.Table, groupColumn string, names ...string) error {
	groups, err := sampleInfo.Column(groupColumn)
	if err != nil {
		return apperrors.Validation("sample info table: %v", err)
	}
	valid := make(map[string]bool, len(groups))
	for _, g := range groups {
		valid[g] = true
	}
	for _, name := range names {
		if !valid[name] {
			return apperrors.Validation("%q does not exist in the %q column of the sample info table", name, groupColumn)
		}
	}
	return nil
}

func (d *DESeq2) volcanoPlots(dir string, statistics *table.Table, req Request) error {
	groups, err := req.SampleInfo.Column(req.GroupColumn)
	if err != nil {
		return apperrors.Validation("sample info table: %v", err)
	}
	order := common.Unique(groups)
	var up, down color.Color
	for i, g := range order {
		switch g {
		case req.ExperimentalGroup:
			up = groupColor(req.Colors, i)
		case req.ControlGroup:
			down = groupColor(req.Colors, i)
		}
	}

	names, err := statistics.Column(req.GeneNameColumn)
	if err != nil {
		return apperrors.Validation("statistics table: %v", err)
	}
	fc, err := statistics.Floats(FoldChangeColumn)
	if err != nil {
		return apperrors.Validation("statistics table: %v", err)
	}

	for _, pColumn := range []string{PAdjColumn, PValueColumn} {
		p, err := statistics.Floats(pColumn)
		if err != nil {
			return apperrors.Validation("statistics table: %v", err)
		}
		points := make([]plots.VolcanoPoint, len(p))
		for i := range p {
			points[i] = plots.VolcanoPoint{Gene: names[i], Log2FC: fc[i], P: p[i]}
		}
		fig, err := plots.Volcano(points, plots.VolcanoOptions{
			PColumn:    pColumn,
			Up:         up,
			Down:       down,
			LabelGenes: req.LabelGenes,
		})
		if err != nil {
			return apperrors.Wrapf(err, "%s volcano plot", pColumn)
		}
		png := filepath.Join(dir, pColumn+"-volcano-plot.png")
		if err := fig.Save(png); err != nil {
			return apperrors.IO(png, err)
		}
	}
	return nil
}

// groupColor cycles when fewer colors than groups were given.
func groupColor(colors []color.Color, i int) color.Color {
	if len(colors) == 0 {
		return nil
	}
	return colors[i%len(colors)]
}

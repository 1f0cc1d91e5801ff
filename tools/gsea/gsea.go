package gsea

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/runner"
	"rna_seq_go/stage"
	"rna_seq_go/table"
)

// Fixed GSEA parameters.
const (
	AnalysisName        = "gsea"
	EnrichmentStatistic = "weighted"
	RankingMetric       = "Signal2Noise"
	SortingMode         = "real"
	OrderingMode        = "descending"
	CollapseMode        = "No_Collapse"
	ProbeCollapsingMode = "Max_probe"
	NormalizationMode   = "meandiv"
	Permutations        = 1000
	PermutationType     = "phenotype"
	PermutationSeed     = 149
	RandomizationMode   = "no_balance"
	Markers             = 100
	PlotTopSets         = 20
	MaxSetSize          = 500
	MinSetSize          = 15
	LogFile             = "gsea.log"
)

// Request carries everything one enrichment run needs. Counts is the expression matrix
// (TPM or DESeq2 normalized), genes by samples.
type Request struct {
	Counts            *table.Matrix
	GeneInfo          *table.Table
	SampleInfo        *table.Table
	GeneNameColumn    string
	GroupColumn       string
	ControlGroup      string
	ExperimentalGroup string

	GeneSetsGMT         string
	GeneNameKeywords    []string // nil means no filtering on genes
	GeneSetNameKeywords []string // nil means no filtering on set names
}

// CLI runs GSEA through the command line launcher.
type CLI struct {
	Settings config.Settings
	Runner   runner.Runner
}

// Run writes the inputs, pre-filters the gene sets and runs GSEA into <outdir>/gsea.
// An empty gene set file skips the external call. The value of a ran outcome is the
// report directory.
func (c *CLI) Run(ctx context.Context, req Request) (stage.Outcome[string], error) {
	s := c.Settings
	log := s.Log.WithField("stage", "gsea")

	expression, err := BuildExpressionTxt(s, req.Counts, req.GeneInfo, req.GeneNameColumn)
	if err != nil {
		return stage.Outcome[string]{}, apperrors.Wrap(err, "gsea expression table")
	}
	cls, err := BuildGroupsCls(s, req.Counts, req.SampleInfo, req.GroupColumn)
	if err != nil {
		return stage.Outcome[string]{}, apperrors.Wrap(err, "gsea phenotype labels")
	}
	gmt, err := FilterGeneSets(s, req.GeneSetsGMT, req.GeneNameKeywords, req.GeneSetNameKeywords)
	if err != nil {
		return stage.Outcome[string]{}, err
	}

	empty, err := IsEmpty(gmt)
	if err != nil {
		return stage.Outcome[string]{}, err
	}
	if empty {
		log.Infof("%q is empty. Skip running GSEA.", gmt)
		return stage.Skipped[string]("gene set file " + gmt + " is empty"), nil
	}

	cmd, err := c.command(expression, cls, gmt, req.ExperimentalGroup, req.ControlGroup)
	if err != nil {
		return stage.Outcome[string]{}, err
	}
	log.WithFields(logrus.Fields{"gmt": gmt, "log": cmd.LogPath}).Info("running GSEA")
	if err := c.Runner.Run(ctx, cmd); err != nil {
		return stage.Outcome[string]{}, err
	}
	return stage.Ran(filepath.Join(s.Outdir, DirName)), nil
}

// command builds the launcher call. Every path is absolute because GSEA runs inside the
// workdir, where it leaves its temporary files.
func (c *CLI) command(expression, cls, gmt, experimental, control string) (runner.Command, error) {
	paths := []*string{&expression, &cls, &gmt}
	for _, p := range paths {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return runner.Command{}, apperrors.IO(*p, err)
		}
		*p = abs
	}
	workdir, err := filepath.Abs(c.Settings.Workdir)
	if err != nil {
		return runner.Command{}, apperrors.IO(c.Settings.Workdir, err)
	}
	outdir, err := filepath.Abs(c.Settings.Outdir)
	if err != nil {
		return runner.Command{}, apperrors.IO(c.Settings.Outdir, err)
	}

	return runner.Command{
		Name:    c.Settings.GSEACli,
		Args:    Args(expression, cls, gmt, filepath.Join(outdir, DirName), experimental, control),
		Dir:     workdir,
		LogPath: filepath.Join(outdir, LogFile),
	}, nil
}

// Args is the argument list of "gsea-cli.sh GSEA" for a two-group comparison.
func Args(expression, cls, gmt, out, experimental, control string) []string {
	itoa := strconv.Itoa
	return []string{
		"GSEA",
		"-res", expression,
		"-cls", cls + "#" + experimental + "_versus_" + control,
		"-gmx", gmt,
		"-out", out,
		"-collapse", CollapseMode,
		"-mode", ProbeCollapsingMode,
		"-norm", NormalizationMode,
		"-nperm", itoa(Permutations),
		"-permute", PermutationType,
		"-rnd_seed", itoa(PermutationSeed),
		"-rnd_type", RandomizationMode,
		"-scoring_scheme", EnrichmentStatistic,
		"-rpt_label", AnalysisName,
		"-metric", RankingMetric,
		"-sort", SortingMode,
		"-order", OrderingMode,
		"-create_gcts", "false",
		"-create_svgs", "false",
		"-include_only_symbols", "true",
		"-make_sets", "true",
		"-median", "false",
		"-num", itoa(Markers),
		"-plot_top_x", itoa(PlotTopSets),
		"-save_rnd_lists", "false",
		"-set_max", itoa(MaxSetSize),
		"-set_min", itoa(MinSetSize),
		"-zip_report", "false",
	}
}

package rna_seq_analysis

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/logger"
	"rna_seq_go/runner"
)

// Run is the "rna_seq_analysis" tool. Usage errors exit; a failed run is logged and
// returned.
func Run(args []string) error {
	env := config.LoadEnv()

	fs := flag.NewFlagSet("rna_seq_analysis", flag.ExitOnError) // Isolated flag set for the "rna_seq_analysis" subcommand

	countTable := fs.String("count_table", "", "Count table, genes x samples (.csv, .tsv, .txt, .tab, .xlsx, optionally .gz)")
	sampleInfoTable := fs.String("sample_info_table", "", "Sample info table; its samples define the analysis")
	geneInfoTable := fs.String("gene_info_table", "", "Gene info table (gene names, lengths, descriptions)")
	geneSetsGMT := fs.String("gene_sets_gmt", "", "Gene sets for GSEA (.gmt), GSEA is skipped without it")
	geneLengthColumn := fs.String("gene_length_column", "gene_length", "Gene length column of the gene info table")
	geneNameColumn := fs.String("gene_name_column", "gene_name", "Gene name column of the gene info table")
	geneDescriptionColumn := fs.String("gene_description_column", "", "Optional gene description column of the gene info table")
	sampleGroupColumn := fs.String("sample_group_column", "group", "Group column of the sample info table")
	sampleBatchColumn := fs.String("sample_batch_column", "", "Batch column of the sample info table, enables ComBat-seq")
	controlGroupName := fs.String("control_group_name", "", "Control group, e.g. normal")
	experimentalGroupName := fs.String("experimental_group_name", "", "Experimental group, e.g. tumor")
	heatmapReadFraction := fs.Float64("heatmap_read_fraction", 0.8, "Fraction of reads covered by the genes drawn in heatmaps (0-1)")
	skipDESeq2GSEA := fs.Bool("skip_deseq2_gsea", false, "Skip DESeq2 and GSEA")
	gseaInput := fs.String("gsea_input", GSEAInputDESeq2, "Expression used by GSEA: deseq2 or tpm")
	geneNameKeywords := fs.String("gsea_gene_name_keywords", "", "Comma separated; keep gene sets with a matching gene")
	geneSetNameKeywords := fs.String("gsea_gene_set_name_keywords", "", "Comma separated; keep gene sets with a matching name")
	colormap := fs.String("colormap", "Set1", "Palette name, or comma separated colors (red,#1f77b4)")
	invertColors := fs.Bool("invert_colors", false, "Reverse the group colors")
	labelGenes := fs.String("volcano_plot_label_genes", "", "Comma separated gene names labelled on volcano plots")
	threads := fs.Int("threads", env.Threads, "Threads for the external tools")
	debug := fs.Bool("debug", false, "Keep the workdir and log at debug level")
	outdir := fs.String("outdir", "rna_seq_analysis_outdir", "Output directory")
	logLevel := fs.String("log_level", env.LogLevel, "Log level (error, warn, info, debug)")

	err := fs.Parse(args)
	if err != nil {
		fmt.Println("Error parsing flags:", err)
		os.Exit(1)
	}

	if len(fs.Args()) > 0 { // Leftover arguments are a usage error
		fmt.Printf("Unrecognized arguments: %v\n", fs.Args())
		fmt.Println("Use -h to view valid flags.")
		os.Exit(1)
	}

	if *countTable == "" || *sampleInfoTable == "" || *geneInfoTable == "" {
		fmt.Println("Error: count_table, sample_info_table and gene_info_table are required")
		fs.Usage()
		os.Exit(1)
	}

	params := Params{
		CountTable:              *countTable,
		SampleInfoTable:         *sampleInfoTable,
		GeneInfoTable:           *geneInfoTable,
		GeneSetsGMT:             *geneSetsGMT,
		GeneLengthColumn:        *geneLengthColumn,
		GeneNameColumn:          *geneNameColumn,
		GeneDescriptionColumn:   *geneDescriptionColumn,
		SampleGroupColumn:       *sampleGroupColumn,
		SampleBatchColumn:       *sampleBatchColumn,
		ControlGroupName:        *controlGroupName,
		ExperimentalGroupName:   *experimentalGroupName,
		HeatmapReadFraction:     *heatmapReadFraction,
		SkipDESeq2GSEA:          *skipDESeq2GSEA,
		GSEAInput:               *gseaInput,
		GSEAGeneNameKeywords:    config.SplitList(*geneNameKeywords),
		GSEAGeneSetNameKeywords: config.SplitList(*geneSetNameKeywords),
		Colormap:                *colormap,
		InvertColors:            *invertColors,
		VolcanoPlotLabelGenes:   config.SplitList(*labelGenes),
	}
	if err := params.Validate(); err != nil {
		fmt.Println("Error:", err)
		fs.Usage()
		os.Exit(1)
	}

	log := logger.New(*logLevel)
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	s, err := Setup(config.Settings{
		Outdir:  *outdir,
		Threads: *threads,
		Debug:   *debug,
		Rscript: env.Rscript,
		GSEACli: env.GSEACli,
		Log:     log,
	}, env.WorkdirPrefix)
	if err != nil {
		log.WithField("code", apperrors.GetCode(err)).Error(err)
		return err
	}

	tee, err := logger.Tee(log, filepath.Join(s.Outdir, LogFile))
	if err != nil {
		log.WithField("code", apperrors.GetCode(err)).Error(err)
		return err
	}

	exec := &runner.Exec{Log: log, Threads: s.Threads}
	_, err = New(s, exec).Run(context.Background(), params)
	tee.Close()
	if err != nil {
		log.WithField("code", apperrors.GetCode(err)).Error(err)
		return err
	}
	return nil
}

package gmt_filter

import (
	"flag"
	"fmt"
	"os"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/logger"
	"rna_seq_go/tools/gsea"
)

// Run is the standalone "gmt_filter" tool: keep the gene sets of a GMT file that match
// any keyword, writing <outdir>/gsea/pre-filtered-<name>.
func Run(args []string) error {
	env := config.LoadEnv()

	fs := flag.NewFlagSet("gmt_filter", flag.ExitOnError) // Isolated flag set for the "gmt_filter" subcommand

	gmt := fs.String("gene_sets_gmt", "", "Gene sets (.gmt)")
	geneKeywords := fs.String("gene_name_keywords", "", "Comma separated; keep sets with a gene containing any of them")
	setKeywords := fs.String("gene_set_name_keywords", "", "Comma separated; keep sets whose name contains any of them")
	outdir := fs.String("outdir", ".", "Output directory")
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

	if *gmt == "" {
		fmt.Println("Error: gene_sets_gmt is required")
		fs.Usage()
		os.Exit(1)
	}

	genes, sets := config.SplitList(*geneKeywords), config.SplitList(*setKeywords)
	if genes == nil && sets == nil {
		fmt.Println("Error: at least one of gene_name_keywords and gene_set_name_keywords is required")
		fs.Usage()
		os.Exit(1)
	}

	log := logger.New(*logLevel)
	s := config.Settings{Outdir: *outdir, Log: log}

	out, err := gsea.FilterGeneSets(s, *gmt, genes, sets)
	if err == nil {
		var kept []gsea.GeneSet
		if kept, err = gsea.ReadGMT(out); err == nil {
			for _, g := range kept {
				log.Debugf("%s (%d genes)", g.Name, len(g.Genes))
			}
		}
	}
	if err != nil {
		log.WithField("code", apperrors.GetCode(err)).Error(err)
		return err
	}
	fmt.Println(out)
	return nil
}

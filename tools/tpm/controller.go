package tpm

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/logger"
	"rna_seq_go/table"
	"rna_seq_go/tools/subset_samples"
)

// Run is the standalone "tpm" tool: count table + gene info table -> TPM csv.
// Usage errors exit; a failed normalization is logged and returned.
func Run(args []string) error {
	env := config.LoadEnv()

	fs := flag.NewFlagSet("tpm", flag.ExitOnError) // Isolated flag set for the "tpm" subcommand

	countTable := fs.String("count_table", "", "Count table (gene rows x sample columns)")
	geneInfoTable := fs.String("gene_info_table", "", "Gene info table (gene rows)")
	sampleInfoTable := fs.String("sample_info_table", "", "Optional sample info table; columns are subset to its samples")
	lengthColumn := fs.String("gene_length_column", "gene_length", "Gene length column of the gene info table")
	outFile := fs.String("out_file", "tpm.csv", "Output CSV")
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

	if *countTable == "" || *geneInfoTable == "" {
		fmt.Println("Error: count_table and gene_info_table are required")
		fs.Usage()
		os.Exit(1)
	}

	log := logger.New(*logLevel)
	if err := normalizeFile(log, *countTable, *geneInfoTable, *sampleInfoTable, *lengthColumn, *outFile); err != nil {
		log.WithField("code", apperrors.GetCode(err)).Error(err)
		return err
	}
	return nil
}

func normalizeFile(log logrus.FieldLogger, countTable, geneInfoTable, sampleInfoTable, lengthColumn, outFile string) error {
	counts, err := table.ReadMatrix(countTable)
	if err != nil {
		return apperrors.Wrap(err, "read count table")
	}
	if err := counts.CheckCounts(); err != nil {
		return apperrors.Validation("count table %s: %v", countTable, err)
	}
	geneInfo, err := table.ReadTable(geneInfoTable)
	if err != nil {
		return apperrors.Wrap(err, "read gene info table")
	}
	if sampleInfoTable != "" {
		sampleInfo, err := table.ReadTable(sampleInfoTable)
		if err != nil {
			return apperrors.Wrap(err, "read sample info table")
		}
		if counts, err = subset_samples.Subset(counts, sampleInfo); err != nil {
			return err
		}
	}

	out, dropped, err := Normalize(counts, geneInfo, lengthColumn)
	if err != nil {
		return err
	}
	if len(dropped) > 0 {
		log.Debugf("dropped %d genes without a usable length", len(dropped))
	}
	if err := table.WriteMatrix(outFile, out); err != nil {
		return err
	}
	log.Infof("Wrote TPM of %d genes x %d samples to %s", len(out.Rows), len(out.Cols), outFile)
	return nil
}

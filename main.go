package main

import (
	"fmt"
	"os"
	"strings"

	"rna_seq_go/config"
	"rna_seq_go/logger"
	"rna_seq_go/tools/benchmark"
	"rna_seq_go/tools/gmt_filter"
	"rna_seq_go/tools/rna_seq_analysis"
	"rna_seq_go/tools/sanity_check"
	"rna_seq_go/tools/tpm"
)

// printCustomHelp formats a custom help menu
func printCustomHelp() {
	fmt.Println(`rna_seq_go - Custom Help Menu
Usage:
  rna_seq_go <tool> [options]

Tools:
  rna_seq_analysis	TPM, DESeq2, heatmaps, PCA and GSEA from a count table
  tpm			TPM normalization of a count table
  gmt_filter		Keep the gene sets of a GMT file matching keywords
  check			Run diagnostic test (version, Rscript and GSEA on PATH)

Global Flags:
  -h, -help		Show this help message
  -v, -version		Show version information

Benchmarking:
  -benchmark		Must be used in association with a tool.
			Logs computational resource usage and
			pertinent operating system information

Environment (or .env file):
  RNA_SEQ_RSCRIPT, RNA_SEQ_GSEA_CLI, RNA_SEQ_LOG_LEVEL,
  RNA_SEQ_WORKDIR_PREFIX, RNA_SEQ_THREADS
  `,
	)
	os.Exit(0)
}

func printVersion() {
	fmt.Println("rna_seq_go - Version Information Menu")
	fmt.Println("Central Executable:")
	fmt.Printf("\trna_seq_go:\t\t%s\n", config.Main_version)
	fmt.Printf("\nModular tools:\n")
	fmt.Printf("\tRNA-seq Analysis:\t%s\n", config.RNA_Seq_Analysis)
	fmt.Printf("\tTPM:\t\t\t%s\n", config.TPM)
	fmt.Printf("\tGMT Filter:\t\t%s\n", config.GMT_Filter)
	fmt.Printf("\tSanity Check:\t\t%s\n", config.Sanity_check)
	fmt.Printf("\tBenchmark:\t\t%s\n", config.Benchmark)

	fmt.Println("")

	os.Exit(0)
}

// Main controller
func main() {

	// If no arguments are given, show help
	if len(os.Args) < 2 {
		printCustomHelp()
	}

	// Scan for executable-specific help flags
	if len(os.Args) < 3 {
		for _, arg := range os.Args[1:] {
			if arg == "-h" || arg == "-help" {
				printCustomHelp()
			}
		}
	}

	// Version request
	for _, arg := range os.Args[1:] {
		if arg == "-v" || arg == "-version" {
			printVersion()
		}
	}

	toolName := os.Args[1]
	toolArgs := os.Args[2:]

	// Check for global -benchmark flag
	benchmarking := false
	var cleanedArgs []string
	for _, arg := range toolArgs {
		if arg == "-benchmark" {
			benchmarking = true
		} else {
			cleanedArgs = append(cleanedArgs, arg)
		}
	}

	// Tool execution wrapper
	run := func() error {
		switch toolName {
		case "rna_seq_analysis":
			return rna_seq_analysis.Run(cleanedArgs)
		case "tpm":
			return tpm.Run(cleanedArgs)
		case "gmt_filter":
			return gmt_filter.Run(cleanedArgs)
		case "check":
			sanity_check.Run(cleanedArgs)
			return nil
		default:
			fmt.Printf("Unknown tool: %s\n", toolName)
			os.Exit(1)
		}
		return nil
	}

	var err error
	if benchmarking {
		label := fmt.Sprintf("rna_seq_go %s %s", toolName, strings.Join(cleanedArgs, " "))
		log := logger.New(config.LoadEnv().LogLevel)
		err = benchmark.Run(label, log, run).Err
	} else {
		err = run()
	}
	if err != nil {
		os.Exit(1)
	}
}

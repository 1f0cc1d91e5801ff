package rna_seq_analysis

import (
	"math"

	apperrors "rna_seq_go/errors"
)

// Values of Params.GSEAInput
const (
	GSEAInputDESeq2 = "deseq2"
	GSEAInputTPM    = "tpm"
)

// Params are the user options of one analysis run.
type Params struct {
	CountTable      string
	SampleInfoTable string
	GeneInfoTable   string
	GeneSetsGMT     string // optional

	GeneLengthColumn      string
	GeneNameColumn        string
	GeneDescriptionColumn string // optional
	SampleGroupColumn     string
	SampleBatchColumn     string // optional, enables ComBat-seq

	ControlGroupName      string
	ExperimentalGroupName string

	HeatmapReadFraction float64
	SkipDESeq2GSEA      bool

	GSEAInput               string
	GSEAGeneNameKeywords    []string
	GSEAGeneSetNameKeywords []string

	Colormap              string
	InvertColors          bool
	VolcanoPlotLabelGenes []string
}

// Validate rejects option combinations that cannot run.
func (p Params) Validate() error {
	switch {
	case p.CountTable == "" || p.SampleInfoTable == "" || p.GeneInfoTable == "":
		return apperrors.Config("count, sample info and gene info tables are required")
	case p.GeneLengthColumn == "" || p.GeneNameColumn == "" || p.SampleGroupColumn == "":
		return apperrors.Config("gene length, gene name and sample group columns must not be empty")
	case math.IsNaN(p.HeatmapReadFraction) || p.HeatmapReadFraction <= 0 || p.HeatmapReadFraction >= 1:
		return apperrors.Config("heatmap read fraction must be between 0 and 1, got %g", p.HeatmapReadFraction)
	case p.GSEAInput != GSEAInputDESeq2 && p.GSEAInput != GSEAInputTPM:
		return apperrors.Config("gsea input must be %q or %q, got %q", GSEAInputDESeq2, GSEAInputTPM, p.GSEAInput)
	case p.Colormap == "":
		return apperrors.Config("colormap must not be empty")
	}
	if !p.SkipDESeq2GSEA {
		if p.ControlGroupName == "" || p.ExperimentalGroupName == "" {
			return apperrors.Config("control and experimental group names are required unless DESeq2 and GSEA are skipped")
		}
		if p.ControlGroupName == p.ExperimentalGroupName {
			return apperrors.Config("control and experimental groups are both %q", p.ControlGroupName)
		}
	}
	return nil
}

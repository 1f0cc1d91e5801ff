package deseq2

import (
	"text/template"

	"rna_seq_go/runner"
)

type scriptData struct {
	CountCSV          string
	SampleInfoCSV     string
	GroupColumn       string
	ExperimentalGroup string
	ControlGroup      string
	StatisticsCSV     string
	NormalizedCSV     string
	Threads           int
}

var script = template.Must(template.New("deseq2.R").Funcs(runner.RFuncs).Parse(`library(DESeq2)
library(BiocParallel)

register(MulticoreParam({{.Threads}}))

count_df <- read.table(
    file={{rstr .CountCSV}},
    header=TRUE,
    sep=',',
    row.names=1,
    check.names=FALSE
)

sample_sheet_df <- read.table(
    file={{rstr .SampleInfoCSV}},
    header=TRUE,
    sep=',',
    row.names=1,
    check.names=FALSE
)

dataset <- DESeqDataSetFromMatrix(
    countData=round(count_df),
    colData=sample_sheet_df,
    design=as.formula(paste0("~", {{rstr .GroupColumn}}))
)

dataset <- DESeq(dataset, parallel=TRUE)

res <- results(
    dataset,
    contrast=c({{rstr .GroupColumn}}, {{rstr .ExperimentalGroup}}, {{rstr .ControlGroup}}),
    parallel=TRUE
)

statistics_df <- data.frame(
    res,
    stringsAsFactors=FALSE,
    check.names=FALSE
)

write.csv(
    statistics_df,
    file={{rstr .StatisticsCSV}}
)

count_df <- counts(dataset, normalized=TRUE)

write.csv(
    count_df,
    file={{rstr .NormalizedCSV}}
)
`))

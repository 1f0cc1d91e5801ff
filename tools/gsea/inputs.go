package gsea

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
	common "rna_seq_go/utils"
)

const (
	ExpressionFile = "gsea-expression.txt"
	GroupsFile     = "gsea-groups.cls"
)

// BuildExpressionTxt writes the GSEA expression table into the workdir: genes without a
// name are dropped, the index is the gene name ("Name") and a constant "Description"
// column holding "na" comes before the samples. Tab separated.
func BuildExpressionTxt(s config.Settings, m *table.Matrix, geneInfo *table.Table, geneNameColumn string) (string, error) {
	names, err := geneInfo.Lookup(geneNameColumn)
	if err != nil {
		return "", apperrors.Validation("gene info table: %v", err)
	}

	t := &table.Table{
		IndexName: "Name",
		Columns:   append([]string{"Description"}, m.Cols...),
	}
	for i, gene := range m.Rows {
		name, ok := names[gene]
		if !ok || table.IsMissing(name) {
			continue
		}
		row := make([]string, 0, len(m.Cols)+1)
		row = append(row, "na")
		for _, v := range m.Values[i] {
			row = append(row, table.FormatFloat(v))
		}
		t.Index = append(t.Index, name)
		t.Cells = append(t.Cells, row)
	}
	s.Log.Infof("For GSEA, drop genes without name (i.e. symbol), %d -> %d", len(m.Rows), t.Len())

	path := filepath.Join(s.Workdir, ExpressionFile)
	if err := table.WriteTableDelim(path, t, '\t'); err != nil {
		return "", err
	}
	return path, nil
}

// ClsText renders a categorical .cls phenotype file:
//
//	<n samples> <n groups> 1
//	# <distinct groups in first-seen order>
//	<group of each sample>
//
// Samples are the columns of m. The group count covers the whole sample info table.
func ClsText(m *table.Matrix, sampleInfo *table.Table, groupColumn string) (string, error) {
	all, err := sampleInfo.Column(groupColumn)
	if err != nil {
		return "", apperrors.Validation("sample info table: %v", err)
	}
	bySample, err := sampleInfo.Lookup(groupColumn)
	if err != nil {
		return "", apperrors.Validation("sample info table: %v", err)
	}

	groups := make([]string, len(m.Cols))
	for j, sample := range m.Cols {
		g, ok := bySample[sample]
		if !ok {
			return "", apperrors.Validation("sample %q is not in the sample info table", sample)
		}
		groups[j] = g
	}

	return fmt.Sprintf("%d %d 1\n# %s\n%s",
		len(m.Cols), len(common.Unique(all)),
		strings.Join(common.Unique(groups), " "),
		strings.Join(groups, " ")), nil
}

// BuildGroupsCls writes ClsText into the workdir.
func BuildGroupsCls(s config.Settings, m *table.Matrix, sampleInfo *table.Table, groupColumn string) (string, error) {
	text, err := ClsText(m, sampleInfo, groupColumn)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.Workdir, GroupsFile)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", apperrors.IO(path, err)
	}
	return path, nil
}

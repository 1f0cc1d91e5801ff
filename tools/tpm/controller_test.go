package tpm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rna_seq_go/errors"
	"rna_seq_go/table"
)

func TestRunReturnsFailure(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(text), 0644))
		return p
	}
	geneInfo := write("gene-info.csv", ",gene_length\nG1,1000\nG2,2000\n")
	out := filepath.Join(dir, "tpm.csv")

	good := write("count.csv", ",S1,S2\nG1,10,20\nG2,20,40\n")
	require.NoError(t, Run([]string{"-count_table", good, "-gene_info_table", geneInfo, "-out_file", out, "-log_level", "error"}))
	m, err := table.ReadMatrix(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"G1", "G2"}, m.Rows)

	bad := write("bad-count.csv", ",S1,S2\nG1,10,20\nG2,20,abc\n")
	err = Run([]string{"-count_table", bad, "-gene_info_table", geneInfo, "-out_file", filepath.Join(dir, "never.csv"), "-log_level", "error"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	assert.NoFileExists(t, filepath.Join(dir, "never.csv"))
}

package rna_seq_analysis

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
)

func TestRunReturnsFailure(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvWorkdirPrefix, filepath.Join(dir, "workdir_"))
	p := inputFiles(t)
	require.NoError(t, os.WriteFile(p.CountTable, []byte(",S1,S2,S3,S4\nG1,1,-2,3,4\n"), 0644))

	err := Run([]string{
		"-count_table", p.CountTable,
		"-sample_info_table", p.SampleInfoTable,
		"-gene_info_table", p.GeneInfoTable,
		"-skip_deseq2_gsea",
		"-outdir", filepath.Join(dir, "out"),
		"-log_level", "error",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	assert.DirExists(t, filepath.Join(dir, "workdir_001"))
	assert.FileExists(t, filepath.Join(dir, "out", LogFile))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"TP53", "MYC"}, SplitList("TP53, MYC,"))
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv(EnvRscript, "")
	t.Setenv(EnvGSEACli, "")
	t.Setenv(EnvThreads, "")
	env := LoadEnv()
	assert.Equal(t, "Rscript", env.Rscript)
	assert.Equal(t, "gsea-cli.sh", env.GSEACli)
	assert.Equal(t, 4, env.Threads)
}

func TestLoadEnvFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RNA_SEQ_GSEA_CLI=/opt/gsea/gsea-cli.sh\n"), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	t.Setenv(EnvGSEACli, "") // godotenv does not override already-set variables, keep it empty
	os.Unsetenv(EnvGSEACli)
	t.Setenv(EnvThreads, "8")

	env := LoadEnv()
	assert.Equal(t, "/opt/gsea/gsea-cli.sh", env.GSEACli)
	assert.Equal(t, 8, env.Threads)
}

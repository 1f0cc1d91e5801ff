package config // Run configuration shared by every stage

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables recognized by the tools
const (
	EnvRscript       = "RNA_SEQ_RSCRIPT"
	EnvGSEACli       = "RNA_SEQ_GSEA_CLI"
	EnvLogLevel      = "RNA_SEQ_LOG_LEVEL"
	EnvWorkdirPrefix = "RNA_SEQ_WORKDIR_PREFIX"
	EnvThreads       = "RNA_SEQ_THREADS"
)

// Settings is the explicit context handed to every stage. Stages never mutate it.
type Settings struct {
	Workdir string // scratch space, removed on success unless Debug
	Outdir  string // final artifacts
	Threads int    // forwarded to external tools only
	Debug   bool

	Rscript string // R interpreter used for DESeq2 and ComBat-seq
	GSEACli string // GSEA command line launcher

	Log logrus.FieldLogger
}

// Env holds defaults read from the environment (and an optional .env file)
type Env struct {
	Rscript       string
	GSEACli       string
	LogLevel      string
	WorkdirPrefix string
	Threads       int
}

// LoadEnv reads a .env file in the working directory when present, then the process environment.
func LoadEnv() Env {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load() // already-set variables win over the file
	}
	return Env{
		Rscript:       getEnvOrDefault(EnvRscript, "Rscript"),
		GSEACli:       getEnvOrDefault(EnvGSEACli, "gsea-cli.sh"),
		LogLevel:      getEnvOrDefault(EnvLogLevel, "info"),
		WorkdirPrefix: getEnvOrDefault(EnvWorkdirPrefix, "./rna_seq_analysis_workdir_"),
		Threads:       getEnvIntOrDefault(EnvThreads, 4),
	}
}

// SplitList turns a comma separated flag value into a list. An empty value yields nil,
// which downstream code treats as "not given".
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

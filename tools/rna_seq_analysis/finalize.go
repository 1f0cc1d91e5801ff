package rna_seq_analysis

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/montanaflynn/stats"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/stage"
	"rna_seq_go/table"
	common "rna_seq_go/utils"
)

const (
	LogDir      = "log"
	RScriptDir  = "r-script"
	RunInfoFile = "run-info.json"
)

// RunInfo summarizes one run in <outdir>/run-info.json.
type RunInfo struct {
	RunID             string         `json:"run_id"`
	Version           string         `json:"version"`
	Start             time.Time      `json:"start"`
	End               time.Time      `json:"end"`
	Genes             int            `json:"genes"`
	Samples           int            `json:"samples"`
	MedianLibrarySize float64        `json:"median_library_size"`
	Stages            []stage.Record `json:"stages"`
}

func (r *RunInfo) describeInput(counts *table.Matrix) {
	r.Genes, r.Samples = counts.Dims()
	if median, err := stats.Median(stats.Float64Data(counts.ColSums())); err == nil {
		r.MedianLibrarySize = median
	}
}

// Finalize collects *.log files from the output directory and its stage subdirectories
// into log/, *.R scripts into r-script/, writes run-info.json and removes the workdir
// unless running in debug mode.
func Finalize(s config.Settings, info *RunInfo) error {
	dirs := []string{s.Outdir}
	entries, err := os.ReadDir(s.Outdir)
	if err != nil {
		return apperrors.IO(s.Outdir, err)
	}
	for _, e := range entries {
		if e.IsDir() && e.Name() != LogDir && e.Name() != RScriptDir {
			dirs = append(dirs, filepath.Join(s.Outdir, e.Name()))
		}
	}

	for _, d := range dirs {
		for pattern, dst := range map[string]string{"*.log": LogDir, "*.R": RScriptDir} {
			if _, err := common.MoveMatching(filepath.Join(d, pattern), filepath.Join(s.Outdir, dst)); err != nil {
				return apperrors.IO(d, err)
			}
		}
	}

	info.Version = config.Main_version
	info.End = time.Now()
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "encode run info")
	}
	path := filepath.Join(s.Outdir, RunInfoFile)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return apperrors.IO(path, err)
	}

	if s.Debug {
		s.Log.WithField("workdir", s.Workdir).Info("Debug mode, keeping the workdir")
		return nil
	}
	if err := os.RemoveAll(s.Workdir); err != nil {
		return apperrors.IO(s.Workdir, err)
	}
	return nil
}

// Setup creates the output directory and a fresh workdir named <prefix>NNN.
func Setup(s config.Settings, workdirPrefix string) (config.Settings, error) {
	if err := os.MkdirAll(s.Outdir, 0755); err != nil {
		return s, apperrors.IO(s.Outdir, err)
	}
	if parent := filepath.Dir(workdirPrefix); parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return s, apperrors.IO(parent, err)
		}
	}
	// Mkdir fails on an existing directory, so a concurrent run that picked the
	// same suffix sends this one on to the next free name.
	for {
		s.Workdir = common.TempPath(workdirPrefix, "")
		err := os.Mkdir(s.Workdir, 0755)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return s, apperrors.IO(s.Workdir, err)
		}
	}
}

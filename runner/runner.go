// Package runner executes the external tools (Rscript, GSEA) with their output captured in a log file.
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	apperrors "rna_seq_go/errors"
)

// Command is one external program invocation.
type Command struct {
	Name    string   // executable, looked up on PATH
	Args    []string
	Dir     string   // working directory, empty for the current one
	LogPath string   // stdout and stderr are appended here
	Env     []string // extra KEY=VALUE pairs on top of the process environment
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs commands. The pipeline depends on this interface so tests can stand in a fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// Exec runs commands as child processes.
type Exec struct {
	Log     logrus.FieldLogger
	Threads int // exported to the child as OMP_NUM_THREADS when > 0
}

// Run starts the command and waits for it. A non-zero exit becomes an ExternalToolError
// pointing at the log file.
func (e *Exec) Run(ctx context.Context, c Command) error {
	if c.LogPath == "" {
		return apperrors.New(apperrors.CodeInternal, "runner: command has no log path")
	}
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0755); err != nil {
		return apperrors.IO(c.LogPath, err)
	}
	logFile, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return apperrors.IO(c.LogPath, err)
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = os.Environ()
	if e.Threads > 0 {
		cmd.Env = append(cmd.Env, fmt.Sprintf("OMP_NUM_THREADS=%d", e.Threads))
	}
	cmd.Env = append(cmd.Env, c.Env...)

	if e.Log != nil {
		e.Log.WithFields(logrus.Fields{"log": c.LogPath, "dir": c.Dir}).Debugf("running %s", c)
	}
	if err := cmd.Run(); err != nil {
		return apperrors.ExternalTool(filepath.Base(c.Name), c.LogPath, err)
	}
	return nil
}

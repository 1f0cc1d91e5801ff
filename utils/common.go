// Common package contains commonly used functions that benefit multiple tools
// Exporting these functions from the Common package reduces redundant code
package common

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenMaybeGzip opens a file for reading, transparently decompressing it when the
// first two bytes carry the gzip magic number. The caller must close the returned reader.
func OpenMaybeGzip(file string) (io.ReadCloser, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1F && magic[1] == 0x8B {
		gr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip reader: %w", err)
		}
		return &gzipFile{Reader: gr, f: f}, nil
	}
	return &plainFile{Reader: br, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	g.Reader.Close()
	return g.f.Close()
}

type plainFile struct {
	*bufio.Reader
	f *os.File
}

func (p *plainFile) Close() error { return p.f.Close() }

// TrimGzipExt strips a trailing ".gz" so the inner extension decides the format.
func TrimGzipExt(path string) string {
	return strings.TrimSuffix(path, ".gz")
}

// TempPath returns the first non-existing path of the form prefix + 001, 002, ... + suffix.
func TempPath(prefix, suffix string) string {
	for i := 1; ; i++ {
		p := fmt.Sprintf("%s%03d%s", prefix, i, suffix)
		if _, err := os.Lstat(p); os.IsNotExist(err) {
			return p
		}
	}
}

// Unique returns items with duplicates removed, keeping first-seen order.
func Unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}

// MoveMatching moves every regular file matching pattern (a filepath.Glob pattern)
// into dstDir, creating it only when something matches. It returns the moved count.
func MoveMatching(pattern, dstDir string) (int, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := os.MkdirAll(dstDir, 0755); err != nil {
			return moved, err
		}
		dst := filepath.Join(dstDir, filepath.Base(m))
		if err := os.Rename(m, dst); err != nil {
			return moved, fmt.Errorf("move %s: %w", m, err)
		}
		moved++
	}
	return moved, nil
}

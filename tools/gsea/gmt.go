// Package gsea prepares the inputs of a GSEA run (expression table, phenotype labels and
// an optionally pre-filtered gene set file) and drives the GSEA command line launcher.
package gsea

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
)

// DirName is the GSEA subdirectory of the output directory.
const DirName = "gsea"

// GeneSet is one GMT record: <name>\t<description>\t<gene>...
type GeneSet struct {
	Name        string
	Description string
	Genes       []string
}

// ParseGeneSet splits a GMT line. The line terminator is ignored.
func ParseGeneSet(line string) GeneSet {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	g := GeneSet{Name: fields[0]}
	if len(fields) > 1 {
		g.Description = fields[1]
	}
	if len(fields) > 2 {
		g.Genes = fields[2:]
	}
	return g
}

// Matches reports whether the set name contains any of setKeywords or any member gene
// contains any of geneKeywords. Matching is case-insensitive.
func (g GeneSet) Matches(geneKeywords, setKeywords []string) bool {
	name := strings.ToLower(g.Name)
	for _, w := range setKeywords {
		if strings.Contains(name, strings.ToLower(w)) {
			return true
		}
	}
	for _, w := range geneKeywords {
		w = strings.ToLower(w)
		for _, gene := range g.Genes {
			if strings.Contains(strings.ToLower(gene), w) {
				return true
			}
		}
	}
	return false
}

// ReadGMT parses every non-blank line of a GMT file.
func ReadGMT(path string) ([]GeneSet, error) {
	var sets []GeneSet
	err := eachLine(path, func(line string) error {
		if strings.TrimSpace(line) != "" {
			sets = append(sets, ParseGeneSet(line))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sets, nil
}

// eachLine calls fn with every line of the file, terminator included.
func eachLine(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.IO(path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return apperrors.IO(path, err)
		}
	}
}

// FilterGeneSets keeps the GMT lines whose set matches any keyword and writes them, unchanged
// and in order, to <outdir>/gsea/pre-filtered-<basename>. With no keywords at all the input
// path is returned and nothing is written. The output may be empty.
func FilterGeneSets(s config.Settings, gmt string, geneKeywords, setKeywords []string) (string, error) {
	if geneKeywords == nil && setKeywords == nil {
		s.Log.Info("No keywords are given for filtering gene sets. Skip pre-filtering.")
		return gmt, nil
	}

	dir := filepath.Join(s.Outdir, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", apperrors.IO(dir, err)
	}
	out := filepath.Join(dir, "pre-filtered-"+filepath.Base(gmt))

	w, err := os.Create(out)
	if err != nil {
		return "", apperrors.IO(out, err)
	}
	bw := bufio.NewWriter(w)

	total, kept := 0, 0
	err = eachLine(gmt, func(line string) error {
		total++
		if !ParseGeneSet(line).Matches(geneKeywords, setKeywords) {
			return nil
		}
		kept++
		_, err := bw.WriteString(line)
		return err
	})
	if err == nil {
		err = bw.Flush()
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", apperrors.Wrapf(err, "filter gene sets %s", gmt)
	}

	s.Log.Infof("Pre-filtered gene sets: %d of %d kept in %s", kept, total, out)
	return out, nil
}

// IsEmpty reports whether the file holds nothing but white space.
func IsEmpty(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, apperrors.IO(path, err)
	}
	return strings.TrimSpace(string(data)) == "", nil
}

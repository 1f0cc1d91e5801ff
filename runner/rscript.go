package runner

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	apperrors "rna_seq_go/errors"
)

// RString renders s as a double-quoted R string literal.
func RString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

// RVector renders a character vector, c("a", "b").
func RVector(items []string) string {
	quoted := make([]string, len(items))
	for i, it := range items {
		quoted[i] = RString(it)
	}
	return "c(" + strings.Join(quoted, ", ") + ")"
}

// RFuncs are the template helpers available to R script templates.
var RFuncs = template.FuncMap{
	"rstr": RString,
	"rvec": RVector,
}

// WriteRScript renders tmpl with data into path.
func WriteRScript(path string, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return apperrors.Wrapf(err, "render %s", tmpl.Name())
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return apperrors.IO(path, err)
	}
	return nil
}

// Rscript is the command running an R script with its output in logPath.
func Rscript(interpreter, script, logPath string) Command {
	return Command{Name: interpreter, Args: []string{script}, LogPath: logPath}
}

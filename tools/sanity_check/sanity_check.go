package sanity_check

import (
	"fmt"
	"os/exec"

	"rna_seq_go/config" // Version control file
)

// Dependency is an external program the pipeline may call.
type Dependency struct {
	Name    string
	Purpose string
	Path    string // empty when not found on PATH
}

// Dependencies resolves the external programs named by the environment.
func Dependencies(env config.Env) []Dependency {
	deps := []Dependency{
		{Name: env.Rscript, Purpose: "DESeq2 and ComBat-seq"},
		{Name: env.GSEACli, Purpose: "GSEA"},
	}
	for i := range deps {
		if p, err := exec.LookPath(deps[i].Name); err == nil {
			deps[i].Path = p
		}
	}
	return deps
}

// Run prints the version and whether the external tools can be found.
func Run(args []string) {
	fmt.Printf("Successfully running rna_seq_go! (%s)\n", config.Main_version)
	for _, d := range Dependencies(config.LoadEnv()) {
		if d.Path == "" {
			fmt.Printf("\t%-16s not found (needed for %s)\n", d.Name, d.Purpose)
			continue
		}
		fmt.Printf("\t%-16s %s\n", d.Name, d.Path)
	}
}

// Package pca projects samples onto their first two principal components.
package pca

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"rna_seq_go/config"
	apperrors "rna_seq_go/errors"
	"rna_seq_go/plots"
	"rna_seq_go/table"
	common "rna_seq_go/utils"
)

const (
	DirName      = "pca"
	NComponents  = 2
	ExplainedCol = "Proportion Explained"
)

// Columns of the sample coordinate table.
var XYColumns = [NComponents]string{"PC 1", "PC 2"}

// Result holds the per-sample coordinates and the explained variance ratio of each component.
type Result struct {
	Samples     []string
	Coordinates [][NComponents]float64
	Explained   [NComponents]float64
}

// Compute runs PCA on a feature-by-sample matrix: samples are observations, features
// are variables. Component signs are fixed so that the largest-magnitude loading of
// each component is positive, which makes repeated runs identical.
func Compute(m *table.Matrix) (*Result, error) {
	samples := m.Transpose()
	n, d := samples.Dims()
	if n < NComponents {
		return nil, apperrors.Validation("PCA needs at least %d samples, got %d", NComponents, n)
	}
	if d < NComponents {
		return nil, apperrors.Validation("PCA needs at least %d features, got %d", NComponents, d)
	}

	data := mat.NewDense(n, d, nil)
	for i, row := range samples.Values {
		if floats.HasNaN(row) {
			return nil, apperrors.Validation("PCA input has a missing value for sample %q", samples.Rows[i])
		}
		data.SetRow(i, row)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, apperrors.New(apperrors.CodeInternal, "PCA: singular value decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	// center columns, as PrincipalComponents does internally
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, data)
		mean := stat.Mean(col, nil)
		floats.AddConst(-mean, col)
		data.SetCol(j, col)
	}

	res := &Result{
		Samples:     append([]string(nil), samples.Rows...),
		Coordinates: make([][NComponents]float64, n),
	}
	total := floats.Sum(vars)
	for k := 0; k < NComponents; k++ {
		loading := mat.Col(nil, k, &vecs)
		if loading[floats.MaxIdx(absAll(loading))] < 0 {
			floats.Scale(-1, loading)
		}
		for i := 0; i < n; i++ {
			res.Coordinates[i][k] = floats.Dot(data.RawRowView(i), loading)
		}
		if total > 0 {
			res.Explained[k] = vars[k] / total
		}
	}
	return res, nil
}

func absAll(s []float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = math.Abs(v)
	}
	return out
}

// CoordinateTable renders the result as a table indexed by sample, with the PC columns.
func (r *Result) CoordinateTable() *table.Table {
	cells := make([][]string, len(r.Samples))
	for i, xy := range r.Coordinates {
		cells[i] = []string{table.FormatFloat(xy[0]), table.FormatFloat(xy[1])}
	}
	return &table.Table{
		Index:   append([]string(nil), r.Samples...),
		Columns: append([]string(nil), XYColumns[:]...),
		Cells:   cells,
	}
}

// ExplainedTable renders the explained variance ratios, one row per component.
func (r *Result) ExplainedTable() *table.Table {
	t := &table.Table{Columns: []string{ExplainedCol}}
	for k, v := range r.Explained {
		t.Index = append(t.Index, fmt.Sprint(k))
		t.Cells = append(t.Cells, []string{table.FormatFloat(v)})
	}
	return t
}

// Run computes the PCA of m and writes, under <outdir>/pca:
// pca-<name>-sample-coordinate.csv (joined with sample info), pca-<name>-proportion-explained.csv
// and a scatter plot of the samples colored by group (.pdf and .png).
// colors[i] belongs to the i-th distinct group of the sample info table.
func Run(s config.Settings, name string, m *table.Matrix, sampleInfo *table.Table, groupColumn string, colors []color.Color) (*Result, error) {
	log := s.Log.WithField("stage", "pca-"+name)

	res, err := Compute(m)
	if err != nil {
		return nil, err
	}
	coords, err := table.LeftJoin(res.CoordinateTable(), sampleInfo)
	if err != nil {
		return nil, apperrors.Wrap(err, "join sample info")
	}
	log.Infof("PC 1 explains %.2f%%, PC 2 explains %.2f%%", res.Explained[0]*100, res.Explained[1]*100)

	dir := filepath.Join(s.Outdir, DirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.IO(dir, err)
	}
	prefix := filepath.Join(dir, "pca-"+name)

	if err := table.WriteTable(prefix+"-sample-coordinate.csv", coords); err != nil {
		return nil, err
	}
	if err := table.WriteTable(prefix+"-proportion-explained.csv", res.ExplainedTable()); err != nil {
		return nil, err
	}

	groups, err := coords.Column(groupColumn)
	if err != nil {
		return nil, apperrors.Validation("sample info table: %v", err)
	}
	allGroups, err := sampleInfo.Column(groupColumn)
	if err != nil {
		return nil, apperrors.Validation("sample info table: %v", err)
	}
	points := make([]plots.Point, len(res.Samples))
	for i, id := range res.Samples {
		points[i] = plots.Point{Label: id, Group: groups[i], X: res.Coordinates[i][0], Y: res.Coordinates[i][1]}
	}
	fig, err := plots.GroupScatter(points, common.Unique(allGroups), colors, "pca-"+name, XYColumns[0], XYColumns[1])
	if err != nil {
		return nil, apperrors.Wrap(err, "scatter plot")
	}
	if err := fig.Save(prefix+"-sample-coordinate.pdf", prefix+"-sample-coordinate.png"); err != nil {
		return nil, apperrors.IO(prefix, err)
	}
	return res, nil
}

// Package table holds the labelled numeric matrix and string metadata table used by every stage,
// plus the readers and writers for their on-disk forms.
package table

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Matrix is a labelled row-major numeric matrix: rows are features (genes), columns are samples.
// Values may be NaN. Row and column labels are unique.
type Matrix struct {
	Rows   []string
	Cols   []string
	Values [][]float64
}

// NewMatrix validates shape and label uniqueness. The slices are used as given.
func NewMatrix(rows, cols []string, values [][]float64) (*Matrix, error) {
	if len(values) != len(rows) {
		return nil, fmt.Errorf("matrix has %d row labels but %d rows", len(rows), len(values))
	}
	for i, row := range values {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("row %q has %d values, expected %d", rows[i], len(row), len(cols))
		}
	}
	if dup, ok := firstDuplicate(rows); ok {
		return nil, fmt.Errorf("duplicate row label %q", dup)
	}
	if dup, ok := firstDuplicate(cols); ok {
		return nil, fmt.Errorf("duplicate column label %q", dup)
	}
	return &Matrix{Rows: rows, Cols: cols, Values: values}, nil
}

func firstDuplicate(labels []string) (string, bool) {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return l, true
		}
		seen[l] = true
	}
	return "", false
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) { return len(m.Rows), len(m.Cols) }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.Values[i][j] }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{
		Rows:   append([]string(nil), m.Rows...),
		Cols:   append([]string(nil), m.Cols...),
		Values: make([][]float64, len(m.Values)),
	}
	for i, row := range m.Values {
		out.Values[i] = append([]float64(nil), row...)
	}
	return out
}

// RowIndex maps row labels to their position.
func (m *Matrix) RowIndex() map[string]int { return indexOf(m.Rows) }

// ColIndex maps column labels to their position.
func (m *Matrix) ColIndex() map[string]int { return indexOf(m.Cols) }

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}

// SelectCols returns a new matrix restricted and reordered to cols.
// Every requested column must exist.
func (m *Matrix) SelectCols(cols []string) (*Matrix, error) {
	idx := m.ColIndex()
	pos := make([]int, len(cols))
	for j, c := range cols {
		p, ok := idx[c]
		if !ok {
			return nil, fmt.Errorf("column %q not found", c)
		}
		pos[j] = p
	}
	values := make([][]float64, len(m.Values))
	for i, row := range m.Values {
		out := make([]float64, len(pos))
		for j, p := range pos {
			out[j] = row[p]
		}
		values[i] = out
	}
	return NewMatrix(append([]string(nil), m.Rows...), append([]string(nil), cols...), values)
}

// SelectRows returns a new matrix holding the rows at the given positions, in that order.
func (m *Matrix) SelectRows(positions []int) *Matrix {
	out := &Matrix{
		Rows:   make([]string, len(positions)),
		Cols:   append([]string(nil), m.Cols...),
		Values: make([][]float64, len(positions)),
	}
	for k, i := range positions {
		out.Rows[k] = m.Rows[i]
		out.Values[k] = append([]float64(nil), m.Values[i]...)
	}
	return out
}

// DropNaNRows returns a copy without rows holding any NaN, plus the dropped labels.
func (m *Matrix) DropNaNRows() (*Matrix, []string) {
	var keep []int
	var dropped []string
	for i, row := range m.Values {
		if floats.HasNaN(row) {
			dropped = append(dropped, m.Rows[i])
			continue
		}
		keep = append(keep, i)
	}
	return m.SelectRows(keep), dropped
}

// RowSums returns the sum of each row.
func (m *Matrix) RowSums() []float64 {
	sums := make([]float64, len(m.Values))
	for i, row := range m.Values {
		sums[i] = floats.Sum(row)
	}
	return sums
}

// ColSums returns the sum of each column.
func (m *Matrix) ColSums() []float64 {
	sums := make([]float64, len(m.Cols))
	for _, row := range m.Values {
		floats.Add(sums, row)
	}
	return sums
}

// Transpose returns a new matrix with rows and columns swapped.
func (m *Matrix) Transpose() *Matrix {
	out := &Matrix{
		Rows:   append([]string(nil), m.Cols...),
		Cols:   append([]string(nil), m.Rows...),
		Values: make([][]float64, len(m.Cols)),
	}
	for j := range m.Cols {
		col := make([]float64, len(m.Rows))
		for i := range m.Rows {
			col[i] = m.Values[i][j]
		}
		out.Values[j] = col
	}
	return out
}

// CheckCounts returns an error naming the first cell that is not a finite, non-negative
// number. Unparsable or empty cells were read as NaN.
func (m *Matrix) CheckCounts() error {
	for i, row := range m.Values {
		for j, v := range row {
			switch {
			case math.IsNaN(v):
				return fmt.Errorf("missing or non-numeric value at row %q, column %q", m.Rows[i], m.Cols[j])
			case math.IsInf(v, 0):
				return fmt.Errorf("infinite value at row %q, column %q", m.Rows[i], m.Cols[j])
			case v < 0:
				return fmt.Errorf("negative value %g at row %q, column %q", v, m.Rows[i], m.Cols[j])
			}
		}
	}
	return nil
}

// Equal reports whether both matrices share labels and values within tol. NaNs compare equal.
func (m *Matrix) Equal(o *Matrix, tol float64) bool {
	if len(m.Rows) != len(o.Rows) || len(m.Cols) != len(o.Cols) {
		return false
	}
	for i := range m.Rows {
		if m.Rows[i] != o.Rows[i] {
			return false
		}
	}
	for j := range m.Cols {
		if m.Cols[j] != o.Cols[j] {
			return false
		}
	}
	for i, row := range m.Values {
		for j, v := range row {
			w := o.Values[i][j]
			if math.IsNaN(v) && math.IsNaN(w) {
				continue
			}
			if !scalar.EqualWithinAbsOrRel(v, w, tol, tol) {
				return false
			}
		}
	}
	return true
}

package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is a string metadata table (sample info, gene info). Index values identify rows.
// The index may hold duplicates; joins detect them.
type Table struct {
	IndexName string
	Index     []string
	Columns   []string
	Cells     [][]string // Cells[i][j] is row i, column j
}

// NewTable validates shape and column uniqueness.
func NewTable(index, columns []string, cells [][]string) (*Table, error) {
	if len(cells) != len(index) {
		return nil, fmt.Errorf("table has %d index values but %d rows", len(index), len(cells))
	}
	for i, row := range cells {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %q has %d cells, expected %d", index[i], len(row), len(columns))
		}
	}
	if dup, ok := firstDuplicate(columns); ok {
		return nil, fmt.Errorf("duplicate column %q", dup)
	}
	return &Table{Index: index, Columns: columns, Cells: cells}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Index) }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colPos(name)
	return ok
}

func (t *Table) colPos(name string) (int, bool) {
	for j, c := range t.Columns {
		if c == name {
			return j, true
		}
	}
	return 0, false
}

// Column returns the values of the named column in index order.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.colPos(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found, available: %s", name, strings.Join(t.Columns, ", "))
	}
	out := make([]string, len(t.Cells))
	for i, row := range t.Cells {
		out[i] = row[j]
	}
	return out, nil
}

// Floats parses the named column with ParseFloat.
func (t *Table) Floats(name string) ([]float64, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = ParseFloat(v)
	}
	return out, nil
}

// Lookup returns the named column keyed by index. With a duplicated index the first row wins.
func (t *Table) Lookup(name string) (map[string]string, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(values))
	for i, id := range t.Index {
		if _, seen := out[id]; !seen {
			out[id] = values[i]
		}
	}
	return out, nil
}

// Select returns a table restricted to the named columns.
func (t *Table) Select(columns ...string) (*Table, error) {
	pos := make([]int, len(columns))
	for k, c := range columns {
		j, ok := t.colPos(c)
		if !ok {
			return nil, fmt.Errorf("column %q not found", c)
		}
		pos[k] = j
	}
	cells := make([][]string, len(t.Cells))
	for i, row := range t.Cells {
		out := make([]string, len(pos))
		for k, j := range pos {
			out[k] = row[j]
		}
		cells[i] = out
	}
	return &Table{
		IndexName: t.IndexName,
		Index:     append([]string(nil), t.Index...),
		Columns:   append([]string(nil), columns...),
		Cells:     cells,
	}, nil
}

// IsMissing reports whether a cell is empty or one of the usual NA spellings.
func IsMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "NaN", "nan", "N/A", "null", "None":
		return true
	}
	return false
}

// ParseFloat parses a cell. Missing or unparsable cells become NaN.
func ParseFloat(cell string) float64 {
	if IsMissing(cell) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatFloat renders a value the way the CSV writers do. NaN becomes an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

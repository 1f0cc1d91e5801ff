package table

import (
	apperrors "rna_seq_go/errors"
)

// LeftJoin appends the columns of right to left, matching left.Index against right.Index.
// Unmatched left rows get empty cells. A right index value present more than once
// multiplies the matching left row, which changes the row count and is reported as a
// ConsistencyError, as is any other change in row count.
func LeftJoin(left, right *Table) (*Table, error) {
	byID := make(map[string][]int, len(right.Index))
	for i, id := range right.Index {
		byID[id] = append(byID[id], i)
	}

	columns := append(append([]string(nil), left.Columns...), right.Columns...)
	if dup, ok := firstDuplicate(columns); ok {
		return nil, apperrors.Consistency("left join: column %q present on both sides", dup)
	}

	var index []string
	var cells [][]string
	for i, id := range left.Index {
		matches := byID[id]
		if len(matches) == 0 {
			row := append(append([]string(nil), left.Cells[i]...), make([]string, len(right.Columns))...)
			index = append(index, id)
			cells = append(cells, row)
			continue
		}
		for _, r := range matches {
			row := append(append([]string(nil), left.Cells[i]...), right.Cells[r]...)
			index = append(index, id)
			cells = append(cells, row)
		}
	}

	if len(index) != len(left.Index) {
		return nil, apperrors.Consistency("left join changed row count from %d to %d; duplicated keys in the right table", len(left.Index), len(index))
	}
	return &Table{IndexName: left.IndexName, Index: index, Columns: columns, Cells: cells}, nil
}

// FromMatrix renders a numeric matrix as a string table, so it can be joined with metadata.
func FromMatrix(m *Matrix) *Table {
	cells := make([][]string, len(m.Values))
	for i, row := range m.Values {
		out := make([]string, len(row))
		for j, v := range row {
			out[j] = FormatFloat(v)
		}
		cells[i] = out
	}
	return &Table{
		Index:   append([]string(nil), m.Rows...),
		Columns: append([]string(nil), m.Cols...),
		Cells:   cells,
	}
}

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "rna_seq_go/errors"
	common "rna_seq_go/utils"
)

// Delimiter infers the field separator from the file extension: .tsv, .txt and .tab are
// tab separated, everything else comma separated. A trailing .gz is ignored.
func Delimiter(path string) rune {
	p := strings.ToLower(common.TrimGzipExt(path))
	for _, ext := range []string{".tsv", ".txt", ".tab"} {
		if strings.HasSuffix(p, ext) {
			return '\t'
		}
	}
	return ','
}

func isExcel(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// ReadRecords reads every row of a delimited (optionally gzipped) or .xlsx file.
func ReadRecords(path string) ([][]string, error) {
	if isExcel(path) {
		return readExcel(path)
	}

	rc, err := common.OpenMaybeGzip(path)
	if err != nil {
		return nil, apperrors.IO(path, err)
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.Comma = Delimiter(path)
	r.FieldsPerRecord = -1 // ragged rows are checked by the callers
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.IO(path, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

// readExcel reads the first sheet of a workbook.
func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.IO(path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.IO(path, fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.IO(path, err)
	}
	return rows, nil
}

// split separates the header and body of a table file, padding short rows (excelize
// trims trailing empty cells) and rejecting rows that are too long.
func split(path string, records [][]string) (header []string, body [][]string, err error) {
	if len(records) == 0 {
		return nil, nil, apperrors.IO(path, fmt.Errorf("file is empty"))
	}
	header = records[0]
	if len(header) == 0 {
		return nil, nil, apperrors.IO(path, fmt.Errorf("header row is empty"))
	}
	for n, rec := range records[1:] {
		if len(rec) == 0 || (len(rec) == 1 && rec[0] == "") {
			continue
		}
		if len(rec) > len(header) {
			return nil, nil, apperrors.IO(path, fmt.Errorf("line %d has %d fields, header has %d", n+2, len(rec), len(header)))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		body = append(body, rec)
	}
	return header, body, nil
}

// ReadMatrix reads a numeric table whose first column is the row index.
func ReadMatrix(path string) (*Matrix, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}
	header, body, err := split(path, records)
	if err != nil {
		return nil, err
	}

	rows := make([]string, len(body))
	values := make([][]float64, len(body))
	for i, rec := range body {
		rows[i] = rec[0]
		row := make([]float64, len(header)-1)
		for j, cell := range rec[1:] {
			row[j] = ParseFloat(cell)
		}
		values[i] = row
	}
	m, err := NewMatrix(rows, append([]string(nil), header[1:]...), values)
	if err != nil {
		return nil, apperrors.Validation("%s: %v", path, err)
	}
	return m, nil
}

// ReadTable reads a metadata table whose first column is the row index.
func ReadTable(path string) (*Table, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return nil, err
	}
	header, body, err := split(path, records)
	if err != nil {
		return nil, err
	}

	index := make([]string, len(body))
	cells := make([][]string, len(body))
	for i, rec := range body {
		index[i] = rec[0]
		cells[i] = append([]string(nil), rec[1:]...)
	}
	t, err := NewTable(index, append([]string(nil), header[1:]...), cells)
	if err != nil {
		return nil, apperrors.Validation("%s: %v", path, err)
	}
	t.IndexName = header[0]
	return t, nil
}

// WriteMatrix writes m as CSV with an unnamed index column.
func WriteMatrix(path string, m *Matrix) error {
	return writeRecords(path, ',', matrixRecords(m, ""))
}

// WriteMatrixDelim writes m with the given separator and index column name.
func WriteMatrixDelim(path string, m *Matrix, comma rune, indexName string) error {
	return writeRecords(path, comma, matrixRecords(m, indexName))
}

func matrixRecords(m *Matrix, indexName string) [][]string {
	records := make([][]string, 0, len(m.Rows)+1)
	records = append(records, append([]string{indexName}, m.Cols...))
	for i, row := range m.Values {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, m.Rows[i])
		for _, v := range row {
			rec = append(rec, FormatFloat(v))
		}
		records = append(records, rec)
	}
	return records
}

// WriteTable writes t as CSV.
func WriteTable(path string, t *Table) error {
	return WriteTableDelim(path, t, ',')
}

// WriteTableDelim writes t with the given separator.
func WriteTableDelim(path string, t *Table, comma rune) error {
	records := make([][]string, 0, len(t.Index)+1)
	records = append(records, append([]string{t.IndexName}, t.Columns...))
	for i, row := range t.Cells {
		records = append(records, append([]string{t.Index[i]}, row...))
	}
	return writeRecords(path, comma, records)
}

func writeRecords(path string, comma rune, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.IO(path, err)
	}
	if err := encodeRecords(f, comma, records); err != nil {
		f.Close()
		return apperrors.IO(path, err)
	}
	if err := f.Close(); err != nil {
		return apperrors.IO(path, err)
	}
	return nil
}

func encodeRecords(w io.Writer, comma rune, records [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.WriteAll(records); err != nil { // WriteAll flushes
		return err
	}
	return cw.Error()
}

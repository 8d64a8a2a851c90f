// Package sheet reads the first table of a CSV, XLSX or XLS file into a
// header row and data rows.
package sheet

import (
	"io"
	"path/filepath"
	"strings"

	"fjacquet/finrecon/internal/finerror"
)

// Table is the first sheet of a spreadsheet. Rows exclude the header and
// every blank row.
type Table struct {
	Header []string
	Rows   [][]string
}

// Reader reads a table from a spreadsheet stream.
type Reader interface {
	Read(r io.Reader) (Table, error)
	// Format names the file type, e.g. "csv".
	Format() string
}

// SupportedExtensions are the file extensions ForFilename accepts.
var SupportedExtensions = []string{".csv", ".xlsx", ".xls"}

// ForFilename selects a Reader from the file extension, case-insensitively.
func ForFilename(name string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv":
		return CSVReader{}, nil
	case ".xlsx":
		return XLSXReader{}, nil
	case ".xls":
		return XLSReader{}, nil
	}
	return nil, &finerror.ValidationError{
		Field:  "file",
		Value:  name,
		Reason: "unsupported file type, expected one of " + strings.Join(SupportedExtensions, " "),
	}
}

// fromRows turns raw rows into a Table: the first non-blank row is the
// header and blank rows are dropped. A sheet with no content yields an empty
// Table.
func fromRows(rows [][]string) Table {
	var t Table
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if t.Header == nil {
			t.Header = trimCells(row)
			continue
		}
		t.Rows = append(t.Rows, trimCells(row))
	}
	return t
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

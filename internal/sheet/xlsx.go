package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXReader reads the first worksheet of an Office Open XML workbook.
type XLSXReader struct{}

func (XLSXReader) Format() string { return "xlsx" }

func (XLSXReader) Read(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("error reading sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows), nil
}

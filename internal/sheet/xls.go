package sheet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"
)

// XLSReader reads the first worksheet of a legacy BIFF workbook.
type XLSReader struct{}

func (XLSReader) Format() string { return "xls" }

func (XLSReader) Read(r io.Reader) (table Table, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("error reading workbook: %w", err)
	}

	// the BIFF decoder panics on some malformed input
	defer func() {
		if rec := recover(); rec != nil {
			table, err = Table{}, fmt.Errorf("corrupt workbook: %v", rec)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return Table{}, fmt.Errorf("error opening workbook: %w", err)
	}

	ws := wb.GetSheet(0)
	if ws == nil {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	rows := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return fromRows(rows), nil
}

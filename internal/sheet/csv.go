package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader reads comma, semicolon or tab separated text. The separator is
// picked from the header line.
type CSVReader struct{}

func (CSVReader) Format() string { return "csv" }

func (CSVReader) Read(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("error reading CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := gocsv.LazyCSVReader(bytes.NewReader(data))
	if cr, ok := reader.(*csv.Reader); ok {
		cr.Comma = detectDelimiter(data)
		cr.TrimLeadingSpace = cr.Comma != '\t'
		cr.FieldsPerRecord = -1
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("error parsing CSV: %w", err)
	}
	return fromRows(rows), nil
}

// detectDelimiter counts candidate separators on the first non-empty line.
func detectDelimiter(data []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		best, bestCount := ',', strings.Count(line, ",")
		for _, candidate := range []rune{';', '\t'} {
			if n := strings.Count(line, string(candidate)); n > bestCount {
				best, bestCount = candidate, n
			}
		}
		return best
	}
	return ','
}

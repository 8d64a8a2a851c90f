// Package dateutils parses the date spellings found in user spreadsheets and
// provides the calendar-month helpers used by aggregation.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutUS        = "01/02/2006"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutWithMonth = "2-Jan-2006"
)

// CommonFormats is tried in order by ParseDate. Day-first layouts come before
// month-first ones for the ambiguous dd/mm forms.
var CommonFormats = []string{
	DateLayoutISO,
	time.RFC3339,
	DateLayoutFull,
	"2006-01-02T15:04:05",
	DateLayoutEuropean,
	"02-01-2006",
	"02/01/2006",
	DateLayoutUS,
	"2006/01/02",
	DateLayoutWithMonth,
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"01-02-06",
	"1/2/06",
}

var whitespace = regexp.MustCompile(`\s+`)

// excelEpoch is day zero of the 1900 date system as spreadsheets count it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate parses dateStr with the first matching layout from CommonFormats
// and returns the layout used. Bare numbers in the plausible range are read
// as spreadsheet date serials.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)
	if dateStr == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	if t, ok := FromSerial(dateStr); ok {
		return t, "serial", nil
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// FromSerial converts a spreadsheet date serial (days since 1899-12-30) to a
// date. Only serials between 1954 and 2119 are accepted so that ordinary
// amounts are not mistaken for dates.
func FromSerial(s string) (time.Time, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 20000 || f > 80000 {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(f)), true
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// StartOfMonth returns the first day of date's month.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// SameMonth reports whether a and b share calendar year and month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// MonthLabel returns the three-letter label for m ("Jan".."Dec").
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// MonthFromLabel parses a short or long English month name.
func MonthFromLabel(label string) (time.Month, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	if len(l) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if l == name || l == name[:3] {
			return m, true
		}
	}
	return 0, false
}

package normalizer

import "strings"

// Field aliases in lookup order. The first entry is the canonical header.
var (
	dateAliases        = []string{"Date", "Datum", "Day"}
	descriptionAliases = []string{"Description", "Narration", "Details", "Particulars", "Merchant", "Memo", "Remarks", "Note"}
	categoryAliases    = []string{"Category"}
	amountAliases      = []string{"Amount", "Debit", "Withdrawal", "Spent", "Price", "Cost", "Value", "Betrag"}
)

// ColumnMap holds the header index of each wanted field, -1 when absent.
type ColumnMap struct {
	Date        int
	Description int
	Category    int
	Amount      int
}

// NewColumnMap resolves every field against header once so rows can be read
// by index.
func NewColumnMap(header []string) ColumnMap {
	return ColumnMap{
		Date:        lookup(header, dateAliases),
		Description: lookup(header, descriptionAliases),
		Category:    lookup(header, categoryAliases),
		Amount:      lookup(header, amountAliases),
	}
}

// HasAmount reports whether any column can supply an amount. Without one no
// row can be imported.
func (c ColumnMap) HasAmount() bool {
	return c.Amount >= 0
}

// lookup tries each alias in turn: exact header, lower-cased header, then the
// first header whose folded form contains the alias.
func lookup(header []string, aliases []string) int {
	for _, alias := range aliases {
		if i := index(header, func(h string) bool { return h == alias }); i >= 0 {
			return i
		}
		lower := strings.ToLower(alias)
		if i := index(header, func(h string) bool { return h == lower }); i >= 0 {
			return i
		}
		if i := index(header, func(h string) bool {
			return strings.Contains(strings.ToLower(strings.TrimSpace(h)), lower)
		}); i >= 0 {
			return i
		}
	}
	return -1
}

func index(header []string, match func(string) bool) int {
	for i, h := range header {
		if match(h) {
			return i
		}
	}
	return -1
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

// Package normalizer turns raw spreadsheet rows into validated transaction
// records.
package normalizer

import (
	"fmt"
	"sort"
	"time"

	"fjacquet/finrecon/internal/currencyutils"
	"fjacquet/finrecon/internal/dateutils"
	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/models"
)

// Classifier is the part of the categorizer the normalizer needs.
type Classifier interface {
	ClassifyLabel(label string) (models.CategoryTag, bool)
	ClassifyDescription(description string) models.CategoryTag
}

// Normalizer converts rows of one import into TransactionRecords. It has no
// side effects.
type Normalizer struct {
	classifier         Classifier
	DefaultDescription string
	// Now supplies the default date and CreatedAt.
	Now func() time.Time
}

// NewNormalizer creates a Normalizer using classifier for categories.
func NewNormalizer(classifier Classifier) *Normalizer {
	return &Normalizer{
		classifier:         classifier,
		DefaultDescription: models.DefaultImportDescription,
		Now:                time.Now,
	}
}

// NormalizeRow builds a record from cells laid out as described by cols.
// rowIndex is only used in the rejection. A row without a positive amount is
// rejected with a *finerror.RowRejection.
func (n *Normalizer) NormalizeRow(cols ColumnMap, rowIndex int, cells []string) (models.TransactionRecord, error) {
	rawAmount := cell(cells, cols.Amount)
	if rawAmount == "" {
		return models.TransactionRecord{}, &finerror.RowRejection{Row: rowIndex, Field: "amount", Reason: "missing"}
	}
	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		return models.TransactionRecord{}, &finerror.RowRejection{Row: rowIndex, Field: "amount", Value: rawAmount, Reason: "not a number"}
	}
	if !amount.IsPositive() {
		return models.TransactionRecord{}, &finerror.RowRejection{Row: rowIndex, Field: "amount", Value: rawAmount, Reason: "must be greater than zero"}
	}

	description := cell(cells, cols.Description)
	if description == "" {
		description = n.DefaultDescription
	}

	category, ok := n.classifier.ClassifyLabel(cell(cells, cols.Category))
	if !ok {
		category = n.classifier.ClassifyDescription(cell(cells, cols.Description))
	}

	now := n.Now()
	date := dateutils.ToISODate(now)
	if raw := cell(cells, cols.Date); raw != "" {
		if t, _, err := dateutils.ParseDate(raw); err == nil {
			date = dateutils.ToISODate(t)
		}
	}

	return models.TransactionRecord{
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
		CreatedAt:   now,
		IsImported:  true,
	}, nil
}

// Normalize builds a record from a single keyed row. Keys are matched in
// sorted order so the result does not depend on map iteration.
func (n *Normalizer) Normalize(row map[string]any) (models.TransactionRecord, error) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cells := make([]string, len(keys))
	for i, k := range keys {
		cells[i] = cellText(row[k])
	}
	return n.NormalizeRow(NewColumnMap(keys), 0, cells)
}

// cellText renders a keyed value the way a spreadsheet cell would hold it.
// Dates become ISO text so the date parser can read them back.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return dateutils.ToISODate(t)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return dateutils.ToISODate(*t)
	default:
		return fmt.Sprint(v)
	}
}

// Package models holds the domain types shared by the classifier, importer,
// aggregator and reconciler.
package models

import (
	"strings"
	"time"

	"fjacquet/finrecon/internal/dateutils"
	"fjacquet/finrecon/internal/finerror"

	"github.com/shopspring/decimal"
)

// DefaultImportDescription is used when an imported row has no description.
const DefaultImportDescription = "Imported Expense"

// TransactionRecord is one expense in a user's ledger. Records are created by
// manual entry or bulk import and are never mutated afterwards.
type TransactionRecord struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    CategoryTag     `json:"category"`
	// Date is an ISO calendar date (YYYY-MM-DD) without a time component.
	Date       string    `json:"date"`
	CreatedAt  time.Time `json:"createdAt"`
	IsImported bool      `json:"isImported"`
}

// ParsedDate returns the record date, accepting the ISO layout first and then
// the other layouts dateutils knows about.
func (r TransactionRecord) ParsedDate() (time.Time, bool) {
	d := strings.TrimSpace(r.Date)
	if d == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(dateutils.DateLayoutISO, d); err == nil {
		return t, true
	}
	t, _, err := dateutils.ParseDate(d)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Validate checks the record invariants: positive amount, a tag from the
// closed set and a non-empty description.
func (r TransactionRecord) Validate() error {
	if !r.Amount.IsPositive() {
		return &finerror.ValidationError{Field: "amount", Value: r.Amount.String(), Reason: "must be greater than zero"}
	}
	if !r.Category.IsValid() {
		return &finerror.ValidationError{Field: "category", Value: string(r.Category), Reason: "not a known category"}
	}
	if strings.TrimSpace(r.Description) == "" {
		return &finerror.ValidationError{Field: "description", Reason: "must not be empty"}
	}
	return nil
}

// Package ledger provides typed access to a user's expenses, budgets, goals
// and subscriptions on top of a DocumentStore.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/finrecon/internal/dateutils"
	"fjacquet/finrecon/internal/finerror"
	"fjacquet/finrecon/internal/logging"
	"fjacquet/finrecon/internal/models"
	"fjacquet/finrecon/internal/store"

	"github.com/shopspring/decimal"
)

// Ledger is the per-user transaction ledger.
type Ledger struct {
	store  store.DocumentStore
	logger logging.Logger
	// Now supplies the default date of manual entries and CreatedAt.
	Now func() time.Time
}

// NewLedger creates a Ledger over s.
func NewLedger(s store.DocumentStore, logger logging.Logger) *Ledger {
	return &Ledger{store: s, logger: logging.OrDefault(logger), Now: time.Now}
}

// ManualEntry is an expense typed in by the user.
type ManualEntry struct {
	Description string
	Amount      decimal.Decimal
	// Category must name a tag; empty means "other".
	Category string
	// Date is YYYY-MM-DD; empty means today.
	Date string
}

// AddExpense validates and stores a manual entry.
func (l *Ledger) AddExpense(ctx context.Context, userID string, entry ManualEntry) (models.TransactionRecord, error) {
	rec, err := l.recordFromEntry(entry)
	if err != nil {
		return models.TransactionRecord{}, err
	}

	doc, err := l.store.Add(ctx, userID, store.CollectionExpenses, expenseFields(rec))
	if err != nil {
		return models.TransactionRecord{}, writeError(store.CollectionExpenses, "add", err)
	}

	rec.ID = doc.ID
	rec.CreatedAt = doc.CreatedAt
	l.logger.Info("Expense added",
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldCategory, string(rec.Category)))
	return rec, nil
}

func (l *Ledger) recordFromEntry(entry ManualEntry) (models.TransactionRecord, error) {
	category := models.CategoryOther
	if strings.TrimSpace(entry.Category) != "" {
		tag, ok := models.ParseCategoryTag(entry.Category)
		if !ok {
			return models.TransactionRecord{}, &finerror.ValidationError{Field: "category", Value: entry.Category, Reason: "not a known category"}
		}
		category = tag
	}

	date := strings.TrimSpace(entry.Date)
	if date == "" {
		date = dateutils.ToISODate(l.Now())
	} else if _, err := time.Parse(dateutils.DateLayoutISO, date); err != nil {
		return models.TransactionRecord{}, &finerror.ValidationError{Field: "date", Value: entry.Date, Reason: "expected YYYY-MM-DD"}
	}

	rec := models.TransactionRecord{
		Description: strings.TrimSpace(entry.Description),
		Amount:      entry.Amount,
		Category:    category,
		Date:        date,
		CreatedAt:   l.Now(),
		IsImported:  false,
	}
	if err := rec.Validate(); err != nil {
		return models.TransactionRecord{}, err
	}
	return rec, nil
}

// CommitImport stores records in one atomic batch and returns them with
// their IDs.
func (l *Ledger) CommitImport(ctx context.Context, userID string, records []models.TransactionRecord) ([]models.TransactionRecord, error) {
	batch := make([]map[string]any, len(records))
	for i, rec := range records {
		batch[i] = expenseFields(rec)
	}

	docs, err := l.store.AddBatch(ctx, userID, store.CollectionExpenses, batch)
	if err != nil {
		return nil, writeError(store.CollectionExpenses, "batch", err)
	}

	out := make([]models.TransactionRecord, len(records))
	for i, rec := range records {
		rec.ID = docs[i].ID
		rec.CreatedAt = docs[i].CreatedAt
		out[i] = rec
	}
	return out, nil
}

// ListExpenses returns the user's expenses, newest first. Documents that do
// not decode to a valid record are skipped.
func (l *Ledger) ListExpenses(ctx context.Context, userID string) ([]models.TransactionRecord, error) {
	docs, err := l.store.List(ctx, userID, store.CollectionExpenses)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	records := make([]models.TransactionRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := decodeExpense(doc)
		if err != nil {
			l.logger.WithError(err).Warn("Skipping undecodable expense",
				logging.F(logging.FieldUser, userID),
				logging.F("id", doc.ID))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// DeleteExpense removes one expense.
func (l *Ledger) DeleteExpense(ctx context.Context, userID, id string) error {
	return l.DeleteDocument(ctx, userID, store.CollectionExpenses, id)
}

// AddDocument stores an arbitrary document in one of the known collections.
func (l *Ledger) AddDocument(ctx context.Context, userID, collection string, fields map[string]any) (store.Document, error) {
	doc, err := l.store.Add(ctx, userID, collection, fields)
	if err != nil {
		return store.Document{}, writeError(collection, "add", err)
	}
	return doc, nil
}

// ListDocuments returns a collection newest first.
func (l *Ledger) ListDocuments(ctx context.Context, userID, collection string) ([]store.Document, error) {
	docs, err := l.store.List(ctx, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

// DeleteDocument removes one document. Unknown IDs yield store.ErrNotFound.
func (l *Ledger) DeleteDocument(ctx context.Context, userID, collection, id string) error {
	if err := l.store.Delete(ctx, userID, collection, id); err != nil {
		return writeError(collection, "delete", err)
	}
	l.logger.Info("Document deleted",
		logging.F(logging.FieldUser, userID),
		logging.F(logging.FieldCollection, collection))
	return nil
}

// writeError keeps validation and not-found errors as they are and reports
// everything else as a StoreWriteError.
func writeError(collection, op string, err error) error {
	var verr *finerror.ValidationError
	if errors.As(err, &verr) || errors.Is(err, store.ErrNotFound) {
		return err
	}
	return &finerror.StoreWriteError{Collection: collection, Op: op, Err: err}
}

func expenseFields(rec models.TransactionRecord) map[string]any {
	return map[string]any{
		"description": rec.Description,
		"amount":      json.Number(rec.Amount.String()),
		"category":    string(rec.Category),
		"date":        rec.Date,
		"isImported":  rec.IsImported,
	}
}

type expenseDoc struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	IsImported  bool            `json:"isImported"`
}

// decodeExpense accepts amounts stored as numbers or strings. Unknown
// categories read as "other".
func decodeExpense(doc store.Document) (models.TransactionRecord, error) {
	var e expenseDoc
	if err := remarshal(doc.Fields, &e); err != nil {
		return models.TransactionRecord{}, err
	}

	category, ok := models.ParseCategoryTag(e.Category)
	if !ok {
		category = models.CategoryOther
	}
	description := strings.TrimSpace(e.Description)
	if description == "" {
		description = models.DefaultImportDescription
	}

	rec := models.TransactionRecord{
		ID:          doc.ID,
		Description: description,
		Amount:      e.Amount,
		Category:    category,
		Date:        e.Date,
		CreatedAt:   doc.CreatedAt,
		IsImported:  e.IsImported,
	}
	if err := rec.Validate(); err != nil {
		return models.TransactionRecord{}, err
	}
	return rec, nil
}

func remarshal(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

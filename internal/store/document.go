// Package store persists per-user document collections and loads the
// classifier rules file.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/finrecon/internal/finerror"

	"github.com/google/uuid"
)

// Known collections.
const (
	CollectionExpenses      = "expenses"
	CollectionBudgets       = "budgets"
	CollectionGoals         = "goals"
	CollectionSubscriptions = "subscriptions"
)

// Collections lists every collection a user can hold.
var Collections = []string{
	CollectionExpenses,
	CollectionBudgets,
	CollectionGoals,
	CollectionSubscriptions,
}

// ErrNotFound is returned by Delete when no document has the given ID.
var ErrNotFound = errors.New("document not found")

// Document is a stored JSON object. Numbers in Fields come back as
// json.Number so amounts keep their exact decimal text.
type Document struct {
	ID        string
	Fields    map[string]any
	CreatedAt time.Time
}

// DocumentStore is a document database keyed by user and collection.
type DocumentStore interface {
	// Add stores one document and returns it with its generated ID.
	Add(ctx context.Context, userID, collection string, fields map[string]any) (Document, error)

	// AddBatch stores all documents or none of them.
	AddBatch(ctx context.Context, userID, collection string, batch []map[string]any) ([]Document, error)

	// List returns every document of the collection, newest first.
	List(ctx context.Context, userID, collection string) ([]Document, error)

	// Delete removes one document. It returns ErrNotFound when id is unknown.
	Delete(ctx context.Context, userID, collection, id string) error

	Close() error
}

// ValidateCollection rejects collection names outside Collections.
func ValidateCollection(name string) error {
	for _, c := range Collections {
		if c == name {
			return nil
		}
	}
	return &finerror.ValidationError{
		Field:  "collection",
		Value:  name,
		Reason: "must be one of " + strings.Join(Collections, ", "),
	}
}

func validateKey(userID, collection string) error {
	if strings.TrimSpace(userID) == "" {
		return &finerror.ValidationError{Field: "user", Reason: "must not be empty"}
	}
	return ValidateCollection(collection)
}

// NewID returns a random document identifier.
func NewID() string {
	return uuid.NewString()
}

func encodeFields(fields map[string]any) ([]byte, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decodeFields(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

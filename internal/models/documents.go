package models

import "github.com/shopspring/decimal"

// Budget is a document of the budgets collection.
type Budget struct {
	ID     string          `json:"id,omitempty"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Spent  decimal.Decimal `json:"spent"`
}

// Subscription is a document of the subscriptions collection.
type Subscription struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Cost        decimal.Decimal `json:"cost"`
	NextRenewal string          `json:"nextRenewal"`
	Category    string          `json:"category"`
	IsActive    bool            `json:"isActive"`
}

// ClassifierRules extends the built-in synonym table and keyword groups.
// It is read from the YAML rules file.
type ClassifierRules struct {
	Synonyms map[string]string `yaml:"synonyms"`
	Keywords []KeywordRule     `yaml:"keywords"`
}

// KeywordRule adds keywords to one category.
type KeywordRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

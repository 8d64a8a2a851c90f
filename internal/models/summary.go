package models

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotals sums amounts per category. A key exists only when at least
// one record carried that category.
type CategoryTotals map[CategoryTag]decimal.Decimal

// Add accumulates amount under tag.
func (ct CategoryTotals) Add(tag CategoryTag, amount decimal.Decimal) {
	ct[tag] = ct[tag].Add(amount)
}

// Total sums every category.
func (ct CategoryTotals) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range ct {
		total = total.Add(v)
	}
	return total
}

// CategoryAmount is one entry of a sorted CategoryTotals.
type CategoryAmount struct {
	Category CategoryTag     `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Sorted returns the totals by descending amount, ties broken by tag name.
func (ct CategoryTotals) Sorted() []CategoryAmount {
	out := make([]CategoryAmount, 0, len(ct))
	for tag, amount := range ct {
		out = append(out, CategoryAmount{Category: tag, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// MonthlyHistoryPoint is the total spent in one calendar month.
type MonthlyHistoryPoint struct {
	// Month is the short month label, "Jan" to "Dec".
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// SourceStatus describes how one reconciliation source settled.
type SourceStatus string

const (
	SourceOK      SourceStatus = "ok"
	SourceFailed  SourceStatus = "failed"
	SourceTimeout SourceStatus = "timeout"
)

// ReconciledSummary is a best-effort snapshot merged from the remote API and
// the local ledger. Every field is independently nil when no source provided
// it.
type ReconciledSummary struct {
	Profile         *Profile              `json:"profile,omitempty"`
	MonthlyIncome   *decimal.Decimal      `json:"monthlyIncome,omitempty"`
	TotalExpenses   *decimal.Decimal      `json:"totalExpenses,omitempty"`
	TotalInvestment *decimal.Decimal      `json:"totalInvestment,omitempty"`
	CategoryTotals  CategoryTotals        `json:"categoryTotals,omitempty"`
	History         []MonthlyHistoryPoint `json:"history,omitempty"`
	Investments     []Investment          `json:"investments,omitempty"`
	Goals           []Goal                `json:"goals,omitempty"`
	Analytics       json.RawMessage       `json:"analytics,omitempty"`
	Savings         *decimal.Decimal      `json:"savings,omitempty"`
	// SavingsRate is a percentage rounded to one decimal place.
	SavingsRate *decimal.Decimal        `json:"savingsRate,omitempty"`
	Sources     map[string]SourceStatus `json:"sources,omitempty"`
}

// Profile is the user profile reported by the remote summary.
type Profile struct {
	Name          string           `json:"name,omitempty"`
	Email         string           `json:"email,omitempty"`
	MonthlyIncome *decimal.Decimal `json:"monthly_income,omitempty"`
}

// Investment is one holding from the remote investments view.
type Investment struct {
	Type         string           `json:"type"`
	Amount       decimal.Decimal  `json:"amount"`
	AnnualReturn *decimal.Decimal `json:"annual_return,omitempty"`
}

// Goal is a savings goal, used both by the remote goals view and the local
// goals collection.
type Goal struct {
	Name     string          `json:"name"`
	Target   decimal.Decimal `json:"target"`
	Current  decimal.Decimal `json:"current"`
	Deadline string          `json:"deadline,omitempty"`
}

// Progress returns Current/Target as a percentage in [0, 100].
func (g Goal) Progress() decimal.Decimal {
	if !g.Target.IsPositive() {
		return decimal.Zero
	}
	p := g.Current.Div(g.Target).Mul(decimal.NewFromInt(100)).Round(1)
	if p.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

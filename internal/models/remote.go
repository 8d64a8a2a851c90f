package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Payloads returned by the remote dashboard API. Only the fields the
// reconciler consumes are modelled; unknown fields are ignored.

// SummaryPayload is the body of GET /dashboard/summary.
type SummaryPayload struct {
	Profile         *Profile         `json:"profile"`
	CurrentMonth    json.RawMessage  `json:"current_month,omitempty"`
	TotalInvestment *decimal.Decimal `json:"total_investment"`
	TotalExpenses   *decimal.Decimal `json:"total_expenses"`
}

// RemoteExpense is one entry of the remote expense list.
type RemoteExpense struct {
	Date     string        `json:"date"`
	Category string        `json:"category"`
	Amount   LenientAmount `json:"amount"`
}

// LenientAmount decodes any JSON number or numeric string. Anything else,
// such as "" or "n/a", decodes to zero instead of failing the payload.
type LenientAmount struct {
	decimal.Decimal
}

// Amount wraps d.
func Amount(d decimal.Decimal) LenientAmount {
	return LenientAmount{Decimal: d}
}

func (a *LenientAmount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// ExpensesPayload is the body of GET /dashboard/expenses.
type ExpensesPayload struct {
	Expenses []RemoteExpense           `json:"expenses"`
	Summary  map[string]decimal.Decimal `json:"summary"`
}

// InvestmentsPayload is the body of GET /dashboard/investments.
type InvestmentsPayload struct {
	Investments []Investment `json:"investments"`
}

// GoalsPayload is the body of GET /dashboard/goals.
type GoalsPayload struct {
	Goals []Goal `json:"goals"`
}

// RemoteHistoryPoint is one month of the remote history.
type RemoteHistoryPoint struct {
	Month      string          `json:"month"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Investment decimal.Decimal `json:"investment"`
}

// HistoryPayload is the body of GET /dashboard/history.
type HistoryPayload struct {
	History []RemoteHistoryPoint `json:"history"`
}

// AnalyticsPayload is the body of GET /dashboard/analytics.
type AnalyticsPayload struct {
	Analytics json.RawMessage `json:"analytics"`
	Summary   struct {
		Expenses    map[string]decimal.Decimal `json:"expenses"`
		MonthlyData []RemoteHistoryPoint       `json:"monthly_data"`
	} `json:"summary"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

// Package aggregator derives category totals and monthly history from ledger
// records.
package aggregator

import (
	"time"

	"fjacquet/finrecon/internal/dateutils"
	"fjacquet/finrecon/internal/models"

	"github.com/shopspring/decimal"
)

// Result is the local view of a ledger.
type Result struct {
	// CategoryTotals covers every record regardless of date.
	CategoryTotals models.CategoryTotals
	// CurrentMonthTotal sums records dated in the same year and month as the
	// reference time.
	CurrentMonthTotal decimal.Decimal
	// History has one point per month name present, in calendar order.
	// Months of different years share a point.
	History []models.MonthlyHistoryPoint
}

// Aggregate computes Result in a single pass. Records whose date cannot be
// parsed count towards category totals only.
func Aggregate(records []models.TransactionRecord, ref time.Time) Result {
	res := Result{
		CategoryTotals:    models.CategoryTotals{},
		CurrentMonthTotal: decimal.Zero,
	}

	var (
		months [12]decimal.Decimal
		seen   [12]bool
	)
	for _, r := range records {
		res.CategoryTotals.Add(r.Category, r.Amount)

		date, ok := r.ParsedDate()
		if !ok {
			continue
		}
		if dateutils.SameMonth(date, ref) {
			res.CurrentMonthTotal = res.CurrentMonthTotal.Add(r.Amount)
		}
		i := int(date.Month()) - 1
		months[i] = months[i].Add(r.Amount)
		seen[i] = true
	}

	for i := range months {
		if seen[i] {
			res.History = append(res.History, models.MonthlyHistoryPoint{
				Month: dateutils.MonthLabel(time.Month(i + 1)),
				Total: months[i],
			})
		}
	}
	return res
}

// Package currencyutils parses and formats the money amounts that appear in
// imported spreadsheets and remote payloads.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	currencyCodes   = regexp.MustCompile(`(?i)\b(inr|usd|eur|gbp|chf|rs\.?)`)
	currencySymbols = regexp.MustCompile(`[€$£¥₹₣₤₽₩฿₫₺\s]`)
)

// ParseAmount parses an amount written in any of the usual spreadsheet
// spellings: "1,234.56", "1.234,56", "₹ 1,200", "Rs. 499", "INR 1 200.50".
// Empty input is an error because an expense row needs an amount.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// StandardizeAmount strips currency markers and thousands separators so the
// result can be handed to decimal.NewFromString.
func StandardizeAmount(amountStr string) string {
	amountStr = currencyCodes.ReplaceAllString(amountStr, "")
	amountStr = currencySymbols.ReplaceAllString(amountStr, "")
	amountStr = strings.ReplaceAll(amountStr, "'", "")

	// Accounting negatives: (120.00)
	if strings.HasPrefix(amountStr, "(") && strings.HasSuffix(amountStr, ")") {
		amountStr = "-" + strings.Trim(amountStr, "()")
	}

	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			// 1.234,56
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			// 1,234.56 and the Indian 1,00,000.00
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	return amountStr
}

// FormatAmount renders an amount with two decimals and an optional currency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)

	switch strings.ToUpper(currency) {
	case "":
		return formatted
	case "INR":
		return "₹" + formatted
	case "USD":
		return "$" + formatted
	case "EUR":
		return "€" + formatted
	case "GBP":
		return "£" + formatted
	default:
		return currency + " " + formatted
	}
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns part/whole*100 rounded to one decimal. A zero or negative
// whole yields zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1)
}

package domain

import "github.com/shopspring/decimal"

// VATRate is the flat value added tax applied to POS sales.
var VATRate = decimal.RequireFromString("0.15")

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func Subtotal(lines []CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// ComputeTotals returns subtotal, VAT and the grand total, each rounded to
// cents. Total is derived from the unrounded subtotal so that
// Total == round(subtotal * 1.15, 2).
func ComputeTotals(lines []CartLine) Totals {
	subtotal := Subtotal(lines)
	total := subtotal.Mul(decimal.NewFromInt(1).Add(VATRate)).Round(2)
	return Totals{
		Subtotal: subtotal.Round(2),
		Tax:      total.Sub(subtotal.Round(2)),
		Total:    total,
	}
}

// Change is paid minus total, never negative.
func Change(paid, total decimal.Decimal) decimal.Decimal {
	change := paid.Sub(total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change.Round(2)
}

func LoyaltyPoints(lines []CartLine) int {
	points := 0
	for _, line := range lines {
		points += line.LoyaltyPointsPerItem * line.Quantity
	}
	return points
}

package service

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// pnlDecimal is the direction-adjusted return of a position in percent, unrounded.
//
//	bullish: (reference - entry) / entry * 100
//	bearish: (entry - reference) / entry * 100
func pnlDecimal(signal string, entryPrice, referencePrice float64) decimal.Decimal {
	entry := decimal.NewFromFloat(entryPrice)
	ref := decimal.NewFromFloat(referencePrice)
	if entry.IsZero() {
		return decimal.Zero
	}

	delta := ref.Sub(entry)
	if signal == model.SignalBearish {
		delta = entry.Sub(ref)
	}
	return delta.Div(entry).Mul(hundred)
}

// PnLPercent returns the direction-adjusted percentage return of a position, rounded to two places.
// A bearish thesis profits when the price falls.
func PnLPercent(signal string, entryPrice, referencePrice float64) float64 {
	return round(pnlDecimal(signal, entryPrice, referencePrice))
}

// investmentPnL derives P&L against the exit price when closed or the latest mark when active.
// The second return is false when no reference price exists yet.
func investmentPnL(inv model.Investment) (decimal.Decimal, bool) {
	ref := inv.ReferencePrice()
	if ref == nil {
		return decimal.Zero, false
	}
	return pnlDecimal(inv.Signal, inv.EntryPrice, *ref), true
}

// withPnL fills the derived PnLPercent of inv. It is left nil when no reference price exists.
func withPnL(inv model.Investment) model.Investment {
	inv.PnLPercent = nil
	if d, ok := investmentPnL(inv); ok {
		pnl := round(d)
		inv.PnLPercent = &pnl
	}
	return inv
}

func withPnLAll(investments []model.Investment) []model.Investment {
	for i := range investments {
		investments[i] = withPnL(investments[i])
	}
	return investments
}

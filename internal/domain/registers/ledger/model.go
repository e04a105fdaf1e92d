// Package ledger provides the stock register. Balances are never
// stored: every figure is derived from the day's setup and bills, so
// the register cannot drift from its sources.
package ledger

import (
	"github.com/shopspring/decimal"
)

// Position is the stock state of one product line.
type Position struct {
	// InitialLive is fresh plus remaining live stock at day start, kg.
	InitialLive decimal.Decimal `json:"initialLive"`

	// SoldLive is the live weight consumed by the day's bills, kg.
	SoldLive decimal.Decimal `json:"soldLive"`

	// SoldMeat is the processed equivalent of the sold weight, kg.
	SoldMeat decimal.Decimal `json:"soldMeat"`

	// RemainingLive never goes negative; overselling sets Oversold
	// instead of producing a negative balance.
	RemainingLive decimal.Decimal `json:"remainingLive"`

	// RemainingMeat is the processed equivalent of the remaining live
	// stock at the current meat conversion factor.
	RemainingMeat decimal.Decimal `json:"remainingMeat"`

	InitialBirds   int `json:"initialBirds"`
	SoldBirds      int `json:"soldBirds"`
	RemainingBirds int `json:"remainingBirds"`

	// Oversold flags that bills consumed more live weight than the day
	// started with. Sales are not blocked retroactively; the flag is
	// surfaced for the closing reconciliation.
	Oversold bool `json:"oversold"`
}

// Snapshot is the full stock and earnings state of a business day.
type Snapshot struct {
	Date string `json:"date"`

	Broiler Position `json:"broiler"`
	Country Position `json:"country"`

	BillCount int `json:"billCount"`

	// TotalSales is the sum of bill prices.
	TotalSales decimal.Decimal `json:"totalSales"`

	// CollectedEarnings is the sum of amounts actually paid; it trails
	// TotalSales by the outstanding partial-payment balance.
	CollectedEarnings decimal.Decimal `json:"collectedEarnings"`

	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`

	// TotalDiscounts is the money given away against the base rates.
	TotalDiscounts decimal.Decimal `json:"totalDiscounts"`
}

// Package reports aggregates historical day closings.
package reports

import (
	"github.com/shopspring/decimal"

	"meatpos/internal/domain/closing"
)

// HistoryFilter defines the period and pagination for closing history.
type HistoryFilter struct {
	// From and To are inclusive date bounds (YYYY-MM-DD); empty means
	// open-ended.
	From string
	To   string

	Limit  int
	Offset int
}

// HistoryReport lists closings newest first.
type HistoryReport struct {
	Items      []*closing.DailyClosing `json:"items"`
	TotalItems int                     `json:"totalItems"`
}

// StatsReport summarizes a period of closed days.
type StatsReport struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	DaysClosed int `json:"daysClosed"`

	TotalEarnings  decimal.Decimal `json:"totalEarnings"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	TotalNet       decimal.Decimal `json:"totalNet"`
	TotalDiscounts decimal.Decimal `json:"totalDiscounts"`

	// TotalWeightLoss sums the primary-unit broiler loss plus the
	// live-weight country loss.
	TotalWeightLoss decimal.Decimal `json:"totalWeightLoss"`
	TotalBirdLoss   int             `json:"totalBirdLoss"`

	// AvgWeightLossPercentage averages the broiler loss percentage over
	// the closed days.
	AvgWeightLossPercentage decimal.Decimal `json:"avgWeightLossPercentage"`

	AvgNetPerDay decimal.Decimal `json:"avgNetPerDay"`
}

// Package closing implements the end-of-day reconciliation: comparing
// expected against actual remaining stock, totalling expenses, and
// archiving the day.
package closing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/entity"
	"meatpos/internal/core/id"
	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/domain/documents/setup"
)

// ExpenseItem is one categorized spend retained on the closing record.
// Only categories with a positive amount are kept.
type ExpenseItem struct {
	CategoryID   id.ID           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
}

// DailyClosing is the reconciliation record, written exactly once per
// business day and immutable thereafter.
type DailyClosing struct {
	entity.BaseDocument

	Date      string    `db:"date" json:"date"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`

	// Broiler stock reconciliation. Expected, actual and loss are in
	// the day's primary unit: live kg under live-rate estimation,
	// processed kg under skin-out estimation.
	ExpectedStock        decimal.Decimal `db:"expected_stock" json:"expectedStock"`
	ActualStock          decimal.Decimal `db:"actual_stock" json:"actualStock"`
	WeightLoss           decimal.Decimal `db:"weight_loss" json:"weightLoss"`
	WeightLossPercentage decimal.Decimal `db:"weight_loss_percentage" json:"weightLossPercentage"`

	// WeightLossLive and WeightLossMeat express the loss in both units
	// via the broiler meat conversion factor, whichever the primary was.
	WeightLossLive decimal.Decimal `db:"weight_loss_live" json:"weightLossLive"`
	WeightLossMeat decimal.Decimal `db:"weight_loss_meat" json:"weightLossMeat"`

	ExpectedBirds      int             `db:"expected_birds" json:"expectedBirds"`
	ActualBirds        int             `db:"actual_birds" json:"actualBirds"`
	BirdLoss           int             `db:"bird_loss" json:"birdLoss"`
	BirdLossPercentage decimal.Decimal `db:"bird_loss_percentage" json:"birdLossPercentage"`

	// Country chicken mirrors.
	CountryExpectedStock        decimal.Decimal `db:"country_expected_stock" json:"countryExpectedStock"`
	CountryActualStock          decimal.Decimal `db:"country_actual_stock" json:"countryActualStock"`
	CountryWeightLoss           decimal.Decimal `db:"country_weight_loss" json:"countryWeightLoss"`
	CountryWeightLossPercentage decimal.Decimal `db:"country_weight_loss_percentage" json:"countryWeightLossPercentage"`
	CountryWeightLossMeat       decimal.Decimal `db:"country_weight_loss_meat" json:"countryWeightLossMeat"`

	CountryExpectedBirds      int             `db:"country_expected_birds" json:"countryExpectedBirds"`
	CountryActualBirds        int             `db:"country_actual_birds" json:"countryActualBirds"`
	CountryBirdLoss           int             `db:"country_bird_loss" json:"countryBirdLoss"`
	CountryBirdLossPercentage decimal.Decimal `db:"country_bird_loss_percentage" json:"countryBirdLossPercentage"`

	EstimatedEarnings decimal.Decimal `db:"estimated_earnings" json:"estimatedEarnings"`
	ActualEarnings    decimal.Decimal `db:"actual_earnings" json:"actualEarnings"`
	TotalDiscounts    decimal.Decimal `db:"total_discounts" json:"totalDiscounts"`
	TotalExpenses     decimal.Decimal `db:"total_expenses" json:"totalExpenses"`
	NetEarnings       decimal.Decimal `db:"net_earnings" json:"netEarnings"`

	ExpenseItems []ExpenseItem `db:"expense_items" json:"expenseItems"`
}

// Validate implements entity.Validatable.
func (c *DailyClosing) Validate(ctx context.Context) error {
	if c.Date == "" {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if c.ActualStock.IsNegative() || c.CountryActualStock.IsNegative() {
		return apperror.NewValidation("actual stock must not be negative")
	}
	if c.ActualBirds < 0 || c.CountryActualBirds < 0 {
		return apperror.NewValidation("actual bird count must not be negative")
	}
	for _, item := range c.ExpenseItems {
		if item.Amount.IsNegative() {
			return apperror.NewValidation("expense amount must not be negative").
				WithDetail("categoryId", item.CategoryID)
		}
	}
	return nil
}

// ClosedDay is the historical archive entry: the closing record bundled
// with the day's setup and its full bill list.
type ClosedDay struct {
	Date    string          `json:"date"`
	Setup   *setup.DailySetup `json:"setup"`
	Closing *DailyClosing   `json:"closing"`
	Bills   []*bill.Bill    `json:"bills"`

	ArchivedAt time.Time `json:"archivedAt"`
}

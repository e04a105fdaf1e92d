// Package setup provides the DailySetup document: the start-of-day
// record holding rates, opening stock and bird counts for both product
// lines. Exactly one setup is active at a time.
package setup

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/entity"
)

// DateLayout is the business day key format.
const DateLayout = "2006-01-02"

// EstimationMethod selects how the day's earnings estimate is derived.
type EstimationMethod string

const (
	// EstimateByLiveRate estimates from live weight at the live rate.
	EstimateByLiveRate EstimationMethod = "live_rate"
	// EstimateBySkinOutRate estimates from processed weight at the shop rate.
	EstimateBySkinOutRate EstimationMethod = "skin_out_rate"
)

// Status tracks the business day lifecycle.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosing Status = "closing"
	StatusClosed  Status = "closed"
)

// ProductPrices holds per-product retail rates. A zero value means the
// price was not configured; readers must go through the effective-price
// resolvers rather than reading optional fields directly.
type ProductPrices struct {
	LiveChicken            decimal.Decimal `json:"liveChicken"`
	ChickenWithSkin        decimal.Decimal `json:"chickenWithSkin"`
	CountryChicken         decimal.Decimal `json:"countryChicken"`
	CountryChickenWithSkin decimal.Decimal `json:"countryChickenWithSkin"`
	CountryChickenMeat     decimal.Decimal `json:"countryChickenMeat"`
}

// EffectiveCountryWithSkin resolves the country with-skin price,
// falling back to the plain country chicken price when the variant is
// not configured.
func (p ProductPrices) EffectiveCountryWithSkin() decimal.Decimal {
	if p.CountryChickenWithSkin.IsPositive() {
		return p.CountryChickenWithSkin
	}
	return p.CountryChicken
}

// EffectiveCountryMeat resolves the country meat price with the same
// fallback order.
func (p ProductPrices) EffectiveCountryMeat() decimal.Decimal {
	if p.CountryChickenMeat.IsPositive() {
		return p.CountryChickenMeat
	}
	return p.CountryChicken
}

// DailySetup is the start-of-day document for one business day.
type DailySetup struct {
	entity.BaseDocument

	// Date is the business day key (2006-01-02).
	Date string `db:"date" json:"date"`

	// IsActive marks the single currently open day.
	IsActive bool `db:"is_active" json:"isActive"`

	Status Status `db:"status" json:"status"`

	// PaperRate is the wholesale live-weight base price per kg.
	PaperRate decimal.Decimal `db:"paper_rate" json:"paperRate"`

	// ShopRate is the retail meat base price per kg.
	ShopRate decimal.Decimal `db:"shop_rate" json:"shopRate"`

	// Broiler opening stock (live kg) and birds.
	FreshStock     decimal.Decimal `db:"fresh_stock" json:"freshStock"`
	RemainingStock decimal.Decimal `db:"remaining_stock" json:"remainingStock"`
	FreshBirds     int             `db:"fresh_birds" json:"freshBirds"`
	RemainingBirds int             `db:"remaining_birds" json:"remainingBirds"`

	// Country chicken opening stock (live kg) and birds.
	CountryFreshStock     decimal.Decimal `db:"country_fresh_stock" json:"countryFreshStock"`
	CountryRemainingStock decimal.Decimal `db:"country_remaining_stock" json:"countryRemainingStock"`
	CountryFreshBirds     int             `db:"country_fresh_birds" json:"countryFreshBirds"`
	CountryRemainingBirds int             `db:"country_remaining_birds" json:"countryRemainingBirds"`

	// ProductPrices holds per-product retail rates (JSONB).
	ProductPrices ProductPrices `db:"product_prices" json:"productPrices"`

	EstimationMethod  EstimationMethod `db:"estimation_method" json:"estimationMethod"`
	EstimatedEarnings decimal.Decimal  `db:"estimated_earnings" json:"estimatedEarnings"`

	// HasClosedDay is set once the day close has been committed.
	HasClosedDay bool `db:"has_closed_day" json:"hasClosedDay"`
}

// NewDailySetup creates a setup document for the given business day.
func NewDailySetup(day time.Time) *DailySetup {
	return &DailySetup{
		BaseDocument: entity.NewBaseDocument(),
		Date:         day.Format(DateLayout),
		IsActive:     true,
		Status:       StatusOpen,
	}
}

// TotalInitialStock returns fresh + carried-over broiler live weight.
func (s *DailySetup) TotalInitialStock() decimal.Decimal {
	return s.FreshStock.Add(s.RemainingStock)
}

// TotalInitialBirds returns fresh + carried-over broiler birds.
func (s *DailySetup) TotalInitialBirds() int {
	return s.FreshBirds + s.RemainingBirds
}

// TotalInitialCountryStock returns fresh + carried-over country live weight.
func (s *DailySetup) TotalInitialCountryStock() decimal.Decimal {
	return s.CountryFreshStock.Add(s.CountryRemainingStock)
}

// TotalInitialCountryBirds returns fresh + carried-over country birds.
func (s *DailySetup) TotalInitialCountryBirds() int {
	return s.CountryFreshBirds + s.CountryRemainingBirds
}

// Validate implements entity.Validatable. The setup is the boundary
// where the loosely shaped rates/prices input is checked once; the
// calculators downstream assume a valid setup.
func (s *DailySetup) Validate(ctx context.Context) error {
	if s.Date == "" {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return apperror.NewValidation("date must be formatted YYYY-MM-DD").
			WithDetail("field", "date").
			WithDetail("value", s.Date)
	}

	if s.PaperRate.IsNegative() || s.ShopRate.IsNegative() {
		return apperror.NewValidation("rates must not be negative").
			WithDetail("field", "paperRate/shopRate")
	}

	for field, v := range map[string]decimal.Decimal{
		"freshStock":            s.FreshStock,
		"remainingStock":        s.RemainingStock,
		"countryFreshStock":     s.CountryFreshStock,
		"countryRemainingStock": s.CountryRemainingStock,
	} {
		if v.IsNegative() {
			return apperror.NewValidation("stock must not be negative").
				WithDetail("field", field)
		}
	}

	for field, v := range map[string]int{
		"freshBirds":            s.FreshBirds,
		"remainingBirds":        s.RemainingBirds,
		"countryFreshBirds":     s.CountryFreshBirds,
		"countryRemainingBirds": s.CountryRemainingBirds,
	} {
		if v < 0 {
			return apperror.NewValidation("bird count must not be negative").
				WithDetail("field", field)
		}
	}

	switch s.EstimationMethod {
	case EstimateByLiveRate, EstimateBySkinOutRate:
	case "":
		s.EstimationMethod = EstimateByLiveRate
	default:
		return apperror.NewValidation("invalid estimation method").
			WithDetail("field", "estimationMethod").
			WithDetail("value", string(s.EstimationMethod))
	}

	return nil
}

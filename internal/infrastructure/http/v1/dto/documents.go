package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/domain/documents/setup"
)

// StartDayRequest opens a new business day.
type StartDayRequest struct {
	// Date defaults to today when empty.
	Date string `json:"date"`

	PaperRate decimal.Decimal `json:"paperRate" binding:"required"`
	ShopRate  decimal.Decimal `json:"shopRate" binding:"required"`

	FreshStock     decimal.Decimal `json:"freshStock"`
	RemainingStock decimal.Decimal `json:"remainingStock"`
	FreshBirds     int             `json:"freshBirds"`
	RemainingBirds int             `json:"remainingBirds"`

	CountryFreshStock     decimal.Decimal `json:"countryFreshStock"`
	CountryRemainingStock decimal.Decimal `json:"countryRemainingStock"`
	CountryFreshBirds     int             `json:"countryFreshBirds"`
	CountryRemainingBirds int             `json:"countryRemainingBirds"`

	ProductPrices    setup.ProductPrices `json:"productPrices"`
	EstimationMethod string              `json:"estimationMethod"`
}

// ToEntity converts the request to a daily setup document.
func (r *StartDayRequest) ToEntity() *setup.DailySetup {
	day := time.Now()
	if r.Date != "" {
		if parsed, err := time.Parse(setup.DateLayout, r.Date); err == nil {
			day = parsed
		}
	}

	s := setup.NewDailySetup(day)
	if r.Date != "" {
		s.Date = r.Date
	}
	s.PaperRate = r.PaperRate
	s.ShopRate = r.ShopRate
	s.FreshStock = r.FreshStock
	s.RemainingStock = r.RemainingStock
	s.FreshBirds = r.FreshBirds
	s.RemainingBirds = r.RemainingBirds
	s.CountryFreshStock = r.CountryFreshStock
	s.CountryRemainingStock = r.CountryRemainingStock
	s.CountryFreshBirds = r.CountryFreshBirds
	s.CountryRemainingBirds = r.CountryRemainingBirds
	s.ProductPrices = r.ProductPrices
	s.EstimationMethod = setup.EstimationMethod(r.EstimationMethod)
	return s
}

// UpdateRatesRequest adjusts the active day's rates mid-day.
type UpdateRatesRequest struct {
	PaperRate     decimal.Decimal     `json:"paperRate" binding:"required"`
	ShopRate      decimal.Decimal     `json:"shopRate" binding:"required"`
	ProductPrices setup.ProductPrices `json:"productPrices"`
}

// CreateBillRequest records a sale.
type CreateBillRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`

	Category    string `json:"category" binding:"required"`
	ChickenType string `json:"chickenType"`
	ProductType string `json:"productType" binding:"required"`
	SaleType    string `json:"saleType"`
	WeightType  string `json:"weightType"`

	Weight        decimal.Decimal `json:"weight" binding:"required"`
	NumberOfBirds int             `json:"numberOfBirds"`

	DiscountPerKg        decimal.Decimal `json:"discountPerKg"`
	TargetPrice          decimal.Decimal `json:"targetPrice"`
	CustomerSellingPrice decimal.Decimal `json:"customerSellingPrice"`

	PaymentType string          `json:"paymentType" binding:"required"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`
}

// ToInput converts the request to a service input.
func (r *CreateBillRequest) ToInput() bill.CreateInput {
	return bill.CreateInput{
		CustomerName:         r.CustomerName,
		CustomerPhone:        r.CustomerPhone,
		Category:             bill.Category(r.Category),
		ChickenType:          bill.ChickenType(r.ChickenType),
		ProductType:          bill.ProductType(r.ProductType),
		SaleType:             bill.SaleType(r.SaleType),
		WeightType:           bill.WeightType(r.WeightType),
		Weight:               r.Weight,
		NumberOfBirds:        r.NumberOfBirds,
		DiscountPerKg:        r.DiscountPerKg,
		TargetPrice:          r.TargetPrice,
		CustomerSellingPrice: r.CustomerSellingPrice,
		PaymentType:          bill.PaymentType(r.PaymentType),
		AmountPaid:           r.AmountPaid,
	}
}

// PaymentRequest applies or corrects a payment on a partial bill.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

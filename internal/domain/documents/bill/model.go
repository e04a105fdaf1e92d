// Package bill provides the Bill document and the pricing calculator
// used at the point of sale.
package bill

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/entity"
	"meatpos/internal/domain/catalogs/conversion"
)

// Category classifies the sale channel.
type Category string

const (
	CategoryRetail     Category = "retail"
	CategoryWholesale  Category = "wholesale"
	CategoryAdditional Category = "additional"
)

// ChickenType identifies the product line.
type ChickenType string

const (
	ChickenBroiler ChickenType = "broiler"
	ChickenCountry ChickenType = "country"
)

// ConversionCategory maps a chicken type to its conversion factor category.
func (t ChickenType) ConversionCategory() conversion.Category {
	if t == ChickenCountry {
		return conversion.CategoryCountry
	}
	return conversion.CategoryBroiler
}

// ProductType identifies the form the chicken is sold in.
type ProductType string

const (
	ProductLive     ProductType = "live"
	ProductWithSkin ProductType = "with_skin"
	ProductMeat     ProductType = "meat"
)

// FactorKind maps a product type to the conversion factor kind used for
// its processed-weight derivations.
func (p ProductType) FactorKind() conversion.Kind {
	if p == ProductWithSkin {
		return conversion.KindWithSkin
	}
	return conversion.KindMeat
}

// SaleType mirrors the retail/wholesale pricing split.
type SaleType string

const (
	SaleRetail    SaleType = "retail"
	SaleWholesale SaleType = "wholesale"
)

// PaymentType identifies how the bill was settled.
type PaymentType string

const (
	PaymentCash    PaymentType = "cash"
	PaymentOnline  PaymentType = "online"
	PaymentPartial PaymentType = "partial"
)

// WeightType records how the sold weight was measured.
type WeightType string

const (
	// WeightLive: the bird was weighed live; meat weight is derived.
	WeightLive WeightType = "live"
	// WeightInventory: pre-processed meat was weighed directly.
	WeightInventory WeightType = "inventory"
)

// Bill is a single sale. Fully paid bills are immutable; partially paid
// bills stay editable until settled.
type Bill struct {
	entity.BaseDocument

	// Date is the business day the bill belongs to.
	Date      string    `db:"date" json:"date"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`

	CustomerName  string `db:"customer_name" json:"customerName,omitempty"`
	CustomerPhone string `db:"customer_phone" json:"customerPhone,omitempty"`

	Category    Category    `db:"category" json:"category"`
	ChickenType ChickenType `db:"chicken_type" json:"chickenType"`
	ProductType ProductType `db:"product_type" json:"productType"`
	SaleType    SaleType    `db:"sale_type" json:"saleType"`
	WeightType  WeightType  `db:"weight_type" json:"weightType"`

	// Weight is the weight the price was computed on (processed kg for
	// retail meat sales, live kg otherwise).
	Weight decimal.Decimal `db:"weight" json:"weight"`

	// RawWeight is the live weight the sale removes from the ledger.
	RawWeight decimal.Decimal `db:"raw_weight" json:"rawWeight"`

	// InventoryWeight is the directly weighed processed weight for
	// inventory sales.
	InventoryWeight decimal.Decimal `db:"inventory_weight" json:"inventoryWeight"`

	// MeatWeight is the derived processed weight for live-weighed sales,
	// precomputed at creation time as RawWeight / UsedConversionFactor.
	MeatWeight decimal.Decimal `db:"meat_weight" json:"meatWeight"`

	NumberOfBirds int `db:"number_of_birds" json:"numberOfBirds"`

	DiscountPerKg decimal.Decimal `db:"discount_per_kg" json:"discountPerKg"`
	Price         decimal.Decimal `db:"price" json:"price"`

	PaymentType   PaymentType     `db:"payment_type" json:"paymentType"`
	AmountPaid    decimal.Decimal `db:"amount_paid" json:"amountPaid"`
	BalanceAmount decimal.Decimal `db:"balance_amount" json:"balanceAmount"`

	UsedConversionFactor decimal.Decimal `db:"used_conversion_factor" json:"usedConversionFactor"`
}

// IsSettled reports whether the bill is fully paid.
func (b *Bill) IsSettled() bool {
	return !b.BalanceAmount.IsPositive()
}

// Validate implements entity.Validatable.
func (b *Bill) Validate(ctx context.Context) error {
	if b.Date == "" {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	if !b.RawWeight.IsPositive() {
		return apperror.NewValidation("weight must be positive").
			WithDetail("field", "weight")
	}
	if b.NumberOfBirds < 0 {
		return apperror.NewValidation("number of birds must not be negative").
			WithDetail("field", "numberOfBirds")
	}
	if b.DiscountPerKg.IsNegative() {
		return apperror.NewValidation("discount must not be negative").
			WithDetail("field", "discountPerKg")
	}

	switch b.Category {
	case CategoryRetail, CategoryWholesale, CategoryAdditional:
	default:
		return apperror.NewValidation("invalid bill category").
			WithDetail("field", "category").
			WithDetail("value", string(b.Category))
	}

	switch b.ProductType {
	case ProductLive, ProductWithSkin, ProductMeat:
	default:
		return apperror.NewValidation("invalid product type").
			WithDetail("field", "productType").
			WithDetail("value", string(b.ProductType))
	}

	switch b.PaymentType {
	case PaymentCash, PaymentOnline:
		if !b.AmountPaid.Equal(b.Price) {
			return apperror.NewValidation("cash and online bills must be paid in full").
				WithDetail("field", "amountPaid")
		}
	case PaymentPartial:
		if b.AmountPaid.IsNegative() || b.AmountPaid.GreaterThan(b.Price) {
			return apperror.NewValidation("amount paid must be between 0 and the bill price").
				WithDetail("field", "amountPaid")
		}
	default:
		return apperror.NewValidation("invalid payment type").
			WithDetail("field", "paymentType").
			WithDetail("value", string(b.PaymentType))
	}

	return nil
}

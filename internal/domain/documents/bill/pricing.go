package bill

import (
	"github.com/shopspring/decimal"

	"meatpos/internal/core/types"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/documents/setup"
)

// BillingOption selects the pricing table column.
type BillingOption string

const (
	OptionRetail           BillingOption = "retail"
	OptionWholesale        BillingOption = "wholesale"
	OptionCountryRetail    BillingOption = "country_retail"
	OptionCountryWholesale BillingOption = "country_wholesale"
)

// ResolveOption derives the billing option from the sale channel and
// product line.
func ResolveOption(saleType SaleType, chickenType ChickenType) BillingOption {
	switch {
	case chickenType == ChickenCountry && saleType == SaleWholesale:
		return OptionCountryWholesale
	case chickenType == ChickenCountry:
		return OptionCountryRetail
	case saleType == SaleWholesale:
		return OptionWholesale
	default:
		return OptionRetail
	}
}

// IsWholesale reports whether the option prices against the paper rate
// and accepts a customer markup.
func (o BillingOption) IsWholesale() bool {
	return o == OptionWholesale || o == OptionCountryWholesale
}

// Rates bundles the day's pricing inputs.
type Rates struct {
	// PaperRate is the wholesale live-weight base price per kg.
	PaperRate decimal.Decimal

	// ShopRate is the retail meat base price per kg.
	ShopRate decimal.Decimal

	// Prices holds the per-product retail rates.
	Prices setup.ProductPrices
}

// RatesFromSetup extracts pricing inputs from a daily setup.
func RatesFromSetup(s *setup.DailySetup) Rates {
	return Rates{
		PaperRate: s.PaperRate,
		ShopRate:  s.ShopRate,
		Prices:    s.ProductPrices,
	}
}

// ResolveBaseRate is the single source of truth for the per-kg base
// price table, keyed by (billing option, product type).
func ResolveBaseRate(option BillingOption, productType ProductType, rates Rates) decimal.Decimal {
	switch option {
	case OptionRetail:
		switch productType {
		case ProductLive:
			return rates.Prices.LiveChicken
		case ProductWithSkin:
			return rates.Prices.ChickenWithSkin
		default: // ProductMeat
			return rates.ShopRate
		}

	case OptionWholesale:
		if productType == ProductMeat {
			return rates.ShopRate
		}
		return rates.PaperRate

	case OptionCountryRetail:
		switch productType {
		case ProductWithSkin:
			return rates.Prices.EffectiveCountryWithSkin()
		case ProductMeat:
			return rates.Prices.EffectiveCountryMeat()
		default: // ProductLive
			return rates.Prices.CountryChicken
		}

	default: // OptionCountryWholesale
		if productType == ProductMeat {
			return rates.ShopRate
		}
		return rates.PaperRate
	}
}

// QuoteInput carries everything a price computation needs.
type QuoteInput struct {
	Option      BillingOption
	ProductType ProductType

	// Weight is the entered weight in kg: live kg for live-weighed
	// sales, processed kg when WeightType is inventory.
	Weight decimal.Decimal

	// WeightType tells whether Weight is live or already processed.
	WeightType WeightType

	DiscountPerKg decimal.Decimal

	// CustomerSellingPrice is a per-customer markup layered over the
	// paper rate on wholesale sales. Ignored for retail.
	CustomerSellingPrice decimal.Decimal

	// ConversionFactor is the effective live-to-processed ratio. A
	// non-positive value degrades to the category default.
	ConversionFactor decimal.Decimal
}

// Quote is the result of a price computation.
type Quote struct {
	// BaseRate is the resolved per-kg price including any wholesale markup.
	BaseRate decimal.Decimal

	// RatePerKg is the discounted per-kg price, clamped at zero.
	RatePerKg decimal.Decimal

	// BillableWeight is the weight the price is computed on: processed
	// kg for retail meat sales, the entered live kg otherwise.
	BillableWeight decimal.Decimal

	Price decimal.Decimal

	// FactorUsed is the conversion factor applied, zero when no
	// conversion happened.
	FactorUsed decimal.Decimal
}

// ComputeQuote prices a sale.
//
// The billable weight for a live-weighed retail meat sale is the
// entered live weight divided by the conversion factor, rounded to two
// decimals. Inventory-weighed meat is already processed kg and is
// priced as entered; all other sales are priced on the entered weight.
// The per-kg rate never goes negative regardless of the discount.
func ComputeQuote(in QuoteInput, rates Rates) Quote {
	base := ResolveBaseRate(in.Option, in.ProductType, rates)

	if in.Option.IsWholesale() && in.CustomerSellingPrice.IsPositive() {
		base = base.Add(in.CustomerSellingPrice)
	}

	rate := types.ClampNonNegative(base.Sub(in.DiscountPerKg))

	billable := in.Weight
	var factorUsed decimal.Decimal
	if in.ProductType == ProductMeat && !in.Option.IsWholesale() && in.WeightType != WeightInventory {
		factorUsed = effectiveFactor(in.Option, in.ConversionFactor)
		billable = types.Round2(in.Weight.Div(factorUsed))
	}

	return Quote{
		BaseRate:       base,
		RatePerKg:      rate,
		BillableWeight: billable,
		Price:          types.Round2(billable.Mul(rate)),
		FactorUsed:     factorUsed,
	}
}

// DiscountFromPrice derives the per-kg discount that produces the given
// target price. The inverse of ComputeQuote's price step: feeding the
// result back reproduces the target within two-decimal rounding.
//
// The discount keeps four decimals so the per-kg rounding error stays
// below the final price's two-decimal step for any realistic weight.
//
// weight must be the billable weight the price applies to and basePrice
// the resolved base rate including any wholesale markup.
func DiscountFromPrice(targetPrice, weight, basePrice decimal.Decimal) decimal.Decimal {
	if !weight.IsPositive() {
		return decimal.Zero
	}
	return weight.Mul(basePrice).Sub(targetPrice).Div(weight).Round(4)
}

func effectiveFactor(option BillingOption, factor decimal.Decimal) decimal.Decimal {
	if factor.IsPositive() {
		return factor
	}
	category := conversion.CategoryBroiler
	if option == OptionCountryRetail || option == OptionCountryWholesale {
		category = conversion.CategoryCountry
	}
	return conversion.DefaultValue(category, conversion.KindMeat)
}

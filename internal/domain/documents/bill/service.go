package bill

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/entity"
	"meatpos/internal/core/id"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/documents/setup"
	"meatpos/pkg/logger"
)

// StockChecker reports the remaining sellable live weight for a product
// line on a business day. Implemented by the stock ledger.
type StockChecker interface {
	RemainingLive(ctx context.Context, date string, chickenType ChickenType) (decimal.Decimal, error)
}

// Service implements point-of-sale billing.
type Service struct {
	repo    Repository
	setups  *setup.Service
	factors *conversion.Service
	stock   StockChecker
}

func NewService(repo Repository, setups *setup.Service, factors *conversion.Service) *Service {
	return &Service{
		repo:    repo,
		setups:  setups,
		factors: factors,
	}
}

// SetStockChecker wires the stock ledger in after construction. The
// ledger depends on this package for bill types, so the dependency
// cannot be taken in NewService.
func (s *Service) SetStockChecker(stock StockChecker) {
	s.stock = stock
}

// CreateInput is what the counter enters for a sale.
type CreateInput struct {
	CustomerName  string
	CustomerPhone string

	Category    Category
	ChickenType ChickenType
	ProductType ProductType
	SaleType    SaleType
	WeightType  WeightType

	// Weight is the scale reading in kg: live weight for live-weighed
	// sales, processed weight for inventory sales.
	Weight        decimal.Decimal
	NumberOfBirds int

	DiscountPerKg decimal.Decimal

	// TargetPrice, when positive, overrides DiscountPerKg: the discount
	// is derived so the bill lands on this price.
	TargetPrice decimal.Decimal

	// CustomerSellingPrice is the per-kg wholesale markup.
	CustomerSellingPrice decimal.Decimal

	PaymentType PaymentType

	// AmountPaid is only read for partial payments; cash and online
	// bills are settled in full automatically.
	AmountPaid decimal.Decimal
}

// Create prices and records a sale on the active business day.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Bill, error) {
	day, err := s.setups.Current(ctx)
	if err != nil {
		return nil, err
	}
	if day.Status != setup.StatusOpen {
		return nil, apperror.NewDayAlreadyClosed(day.Date)
	}

	if !in.Weight.IsPositive() {
		return nil, apperror.NewValidation("weight must be positive").
			WithDetail("field", "weight")
	}

	if in.ChickenType == "" {
		in.ChickenType = ChickenBroiler
	}
	if in.SaleType == "" {
		if in.Category == CategoryWholesale {
			in.SaleType = SaleWholesale
		} else {
			in.SaleType = SaleRetail
		}
	}
	if in.WeightType == "" {
		in.WeightType = WeightLive
	}

	option := ResolveOption(in.SaleType, in.ChickenType)
	rates := RatesFromSetup(day)

	// The meat factor is always resolved: even sales priced on live
	// weight need it for the ledger's processed-weight mirror.
	meatFactor := s.factors.Effective(ctx, in.ChickenType.ConversionCategory(), conversion.KindMeat)

	pricingFactor := meatFactor
	if in.ProductType == ProductWithSkin {
		pricingFactor = s.factors.Effective(ctx, in.ChickenType.ConversionCategory(), conversion.KindWithSkin)
	}

	discount := in.DiscountPerKg
	if in.TargetPrice.IsPositive() {
		discount = s.discountForTarget(in, option, rates, pricingFactor)
		if discount.IsNegative() {
			return nil, apperror.NewValidation("target price must not exceed the undiscounted total").
				WithDetail("field", "targetPrice")
		}
	}

	quote := ComputeQuote(QuoteInput{
		Option:               option,
		ProductType:          in.ProductType,
		Weight:               in.Weight,
		WeightType:           in.WeightType,
		DiscountPerKg:        discount,
		CustomerSellingPrice: in.CustomerSellingPrice,
		ConversionFactor:     pricingFactor,
	}, rates)

	b := &Bill{
		BaseDocument:  entity.NewBaseDocument(),
		Date:          day.Date,
		Timestamp:     time.Now(),
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Category:      in.Category,
		ChickenType:   in.ChickenType,
		ProductType:   in.ProductType,
		SaleType:      in.SaleType,
		WeightType:    in.WeightType,
		Weight:        quote.BillableWeight,
		NumberOfBirds: in.NumberOfBirds,
		DiscountPerKg: discount,
		Price:         quote.Price,
		PaymentType:   in.PaymentType,

		UsedConversionFactor: meatFactor,
	}

	switch in.WeightType {
	case WeightInventory:
		// Inventory sales consume processed stock directly; the live
		// equivalent is back-derived for the live ledger.
		b.InventoryWeight = in.Weight
		b.RawWeight = types.Round2(in.Weight.Mul(meatFactor))
	default:
		b.RawWeight = in.Weight
		b.MeatWeight = types.Round2(in.Weight.Div(meatFactor))
	}

	switch in.PaymentType {
	case PaymentPartial:
		b.AmountPaid = in.AmountPaid
		b.BalanceAmount = b.Price.Sub(in.AmountPaid)
	default:
		b.AmountPaid = b.Price
		b.BalanceAmount = decimal.Zero
	}

	if err := b.Validate(ctx); err != nil {
		return nil, err
	}

	if err := s.checkStock(ctx, b); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	logger.Info(ctx, "bill created",
		"bill_id", b.ID,
		"date", b.Date,
		"category", b.Category,
		"chicken_type", b.ChickenType,
		"product_type", b.ProductType,
		"raw_weight", b.RawWeight,
		"price", b.Price,
	)
	return b, nil
}

// discountForTarget derives the per-kg discount that lands the bill on
// the requested total price.
func (s *Service) discountForTarget(in CreateInput, option BillingOption, rates Rates, factor decimal.Decimal) decimal.Decimal {
	base := ResolveBaseRate(option, in.ProductType, rates)
	if option.IsWholesale() && in.CustomerSellingPrice.IsPositive() {
		base = base.Add(in.CustomerSellingPrice)
	}

	billable := in.Weight
	if in.ProductType == ProductMeat && !option.IsWholesale() && in.WeightType != WeightInventory {
		billable = types.Round2(in.Weight.Div(effectiveFactor(option, factor)))
	}
	return DiscountFromPrice(in.TargetPrice, billable, base)
}

func (s *Service) checkStock(ctx context.Context, b *Bill) error {
	if s.stock == nil {
		return nil
	}
	remaining, err := s.stock.RemainingLive(ctx, b.Date, b.ChickenType)
	if err != nil {
		return err
	}
	if b.RawWeight.GreaterThan(remaining) {
		reqF, _ := b.RawWeight.Float64()
		availF, _ := remaining.Float64()
		return apperror.NewInsufficientStock(string(b.ChickenType), reqF, availF)
	}
	return nil
}

// RecordPayment applies an additional payment to a partially paid bill.
func (s *Service) RecordPayment(ctx context.Context, billID id.ID, amount decimal.Decimal) (*Bill, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}

	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.IsSettled() {
		return nil, apperror.NewBusinessRule(apperror.CodeBillSettled, "bill is already fully paid").
			WithDetail("billId", billID)
	}
	if amount.GreaterThan(b.BalanceAmount) {
		return nil, apperror.NewValidation("payment exceeds outstanding balance").
			WithDetail("balance", b.BalanceAmount).
			WithDetail("amount", amount)
	}

	if err := s.guardDayOpen(ctx, b.Date); err != nil {
		return nil, err
	}

	b.AmountPaid = b.AmountPaid.Add(amount)
	b.BalanceAmount = b.BalanceAmount.Sub(amount)
	b.Touch()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment recorded",
		"bill_id", b.ID,
		"amount", amount,
		"balance", b.BalanceAmount,
	)
	return b, nil
}

// CorrectPayment replaces the paid amount on a partially paid bill,
// for fixing mis-keyed entries before the day closes.
func (s *Service) CorrectPayment(ctx context.Context, billID id.ID, amountPaid decimal.Decimal) (*Bill, error) {
	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if b.PaymentType != PaymentPartial {
		return nil, apperror.NewBusinessRule(apperror.CodeBillSettled, "only partial bills can be corrected").
			WithDetail("billId", billID)
	}
	if amountPaid.IsNegative() || amountPaid.GreaterThan(b.Price) {
		return nil, apperror.NewValidation("amount paid must be between 0 and the bill price").
			WithDetail("field", "amountPaid")
	}

	if err := s.guardDayOpen(ctx, b.Date); err != nil {
		return nil, err
	}

	b.AmountPaid = amountPaid
	b.BalanceAmount = b.Price.Sub(amountPaid)
	b.Touch()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get retrieves a single bill.
func (s *Service) Get(ctx context.Context, billID id.ID) (*Bill, error) {
	return s.repo.GetByID(ctx, billID)
}

// ListForDay retrieves a day's bills, optionally filtered by category.
func (s *Service) ListForDay(ctx context.Context, date string, category Category) ([]*Bill, error) {
	if category == "" {
		return s.repo.ListByDate(ctx, date)
	}
	return s.repo.ListByCategory(ctx, date, category)
}

// Outstanding lists the day's partially paid bills that still carry a
// balance.
func (s *Service) Outstanding(ctx context.Context, date string) ([]*Bill, error) {
	bills, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	var open []*Bill
	for _, b := range bills {
		if !b.IsSettled() {
			open = append(open, b)
		}
	}
	return open, nil
}

func (s *Service) guardDayOpen(ctx context.Context, date string) error {
	day, err := s.setups.GetByDate(ctx, date)
	if err != nil {
		return err
	}
	if day.Status == setup.StatusClosed {
		return apperror.NewDayAlreadyClosed(date)
	}
	return nil
}

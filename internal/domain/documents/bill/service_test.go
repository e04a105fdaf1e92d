package bill

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/documents/setup"
)

// --- fakes ---

type fakeBillRepo struct {
	bills map[id.ID]*Bill
	order []id.ID
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[id.ID]*Bill)}
}

func (r *fakeBillRepo) Create(ctx context.Context, b *Bill) error {
	r.bills[b.ID] = b
	r.order = append(r.order, b.ID)
	return nil
}

func (r *fakeBillRepo) Update(ctx context.Context, b *Bill) error {
	r.bills[b.ID] = b
	return nil
}

func (r *fakeBillRepo) GetByID(ctx context.Context, billID id.ID) (*Bill, error) {
	b, ok := r.bills[billID]
	if !ok {
		return nil, apperror.NewNotFound("bill", billID.String())
	}
	return b, nil
}

func (r *fakeBillRepo) ListByDate(ctx context.Context, date string) ([]*Bill, error) {
	var out []*Bill
	for _, bid := range r.order {
		if b := r.bills[bid]; b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) ListByCategory(ctx context.Context, date string, category Category) ([]*Bill, error) {
	var out []*Bill
	for _, bid := range r.order {
		if b := r.bills[bid]; b.Date == date && b.Category == category {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) ListByChickenType(ctx context.Context, date string, chickenType ChickenType) ([]*Bill, error) {
	var out []*Bill
	for _, bid := range r.order {
		if b := r.bills[bid]; b.Date == date && b.ChickenType == chickenType {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeSetupRepo struct {
	days map[string]*setup.DailySetup
}

func (r *fakeSetupRepo) Create(ctx context.Context, s *setup.DailySetup) error {
	r.days[s.Date] = s
	return nil
}

func (r *fakeSetupRepo) Update(ctx context.Context, s *setup.DailySetup) error {
	r.days[s.Date] = s
	return nil
}

func (r *fakeSetupRepo) GetActive(ctx context.Context) (*setup.DailySetup, error) {
	for _, s := range r.days {
		if s.IsActive {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("daily setup", "active")
}

func (r *fakeSetupRepo) GetByDate(ctx context.Context, date string) (*setup.DailySetup, error) {
	s, ok := r.days[date]
	if !ok {
		return nil, apperror.NewNotFound("daily setup", date)
	}
	return s, nil
}

func (r *fakeSetupRepo) DeactivateAll(ctx context.Context) error { return nil }

type emptyFactorCatalog struct{}

func (emptyFactorCatalog) Create(ctx context.Context, f *conversion.Factor) error { return nil }
func (emptyFactorCatalog) Update(ctx context.Context, f *conversion.Factor) error { return nil }

func (emptyFactorCatalog) GetByID(ctx context.Context, factorID id.ID) (*conversion.Factor, error) {
	return nil, apperror.NewNotFound("conversion factor", factorID.String())
}

func (emptyFactorCatalog) ListByCategory(ctx context.Context, category conversion.Category) ([]*conversion.Factor, error) {
	return nil, nil
}

func (emptyFactorCatalog) ListAll(ctx context.Context) ([]*conversion.Factor, error) {
	return nil, nil
}

type fixedStock struct {
	remaining decimal.Decimal
}

func (s fixedStock) RemainingLive(ctx context.Context, date string, chickenType ChickenType) (decimal.Decimal, error) {
	return s.remaining, nil
}

// --- helpers ---

func openDay(status setup.Status) *setup.DailySetup {
	day := setup.NewDailySetup(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	day.Status = status
	day.PaperRate = types.MustMoney("180")
	day.ShopRate = types.MustMoney("300")
	day.FreshStock = types.MustMoney("100")
	day.ProductPrices = setup.ProductPrices{
		LiveChicken:     types.MustMoney("200"),
		ChickenWithSkin: types.MustMoney("250"),
	}
	return day
}

func newTestService(repo *fakeBillRepo, day *setup.DailySetup) *Service {
	setupRepo := &fakeSetupRepo{days: map[string]*setup.DailySetup{day.Date: day}}
	factors := conversion.NewService(emptyFactorCatalog{})
	return NewService(repo, setup.NewService(setupRepo, factors), factors)
}

// --- tests ---

func TestCreate_RetailLiveSale(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))

	b, err := service.Create(context.Background(), CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !b.Price.Equal(types.MustMoney("1000")) {
		t.Errorf("price = %s, want 1000", b.Price)
	}
	if !b.RawWeight.Equal(types.MustMoney("5")) {
		t.Errorf("raw weight = %s, want 5", b.RawWeight)
	}
	// 5kg live / 1.45 default factor
	if !b.MeatWeight.Equal(types.MustMoney("3.45")) {
		t.Errorf("meat weight = %s, want 3.45", b.MeatWeight)
	}
	if b.ChickenType != ChickenBroiler {
		t.Errorf("chicken type = %s, want broiler default", b.ChickenType)
	}
	if b.SaleType != SaleRetail {
		t.Errorf("sale type = %s, want retail default", b.SaleType)
	}
	if !b.AmountPaid.Equal(b.Price) || !b.BalanceAmount.IsZero() {
		t.Errorf("cash bill should settle in full: paid %s, balance %s", b.AmountPaid, b.BalanceAmount)
	}
	if len(repo.bills) != 1 {
		t.Errorf("stored bills = %d, want 1", len(repo.bills))
	}
}

func TestCreate_RetailMeatConvertsWeight(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))

	b, err := service.Create(context.Background(), CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductMeat,
		Weight:      types.MustMoney("2.9"),
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !b.Weight.Equal(types.MustMoney("2")) {
		t.Errorf("billable weight = %s, want 2", b.Weight)
	}
	if !b.Price.Equal(types.MustMoney("600")) {
		t.Errorf("price = %s, want 600", b.Price)
	}
	if !b.RawWeight.Equal(types.MustMoney("2.9")) {
		t.Errorf("raw weight = %s, want 2.9", b.RawWeight)
	}
}

func TestCreate_InventorySaleBackDerivesLiveWeight(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))

	b, err := service.Create(context.Background(), CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductMeat,
		WeightType:  WeightInventory,
		Weight:      types.MustMoney("2"),
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !b.InventoryWeight.Equal(types.MustMoney("2")) {
		t.Errorf("inventory weight = %s, want 2", b.InventoryWeight)
	}
	// The entered 2kg is already processed: billed as-is, no conversion.
	if !b.Weight.Equal(types.MustMoney("2")) {
		t.Errorf("billable weight = %s, want 2", b.Weight)
	}
	if !b.Price.Equal(types.MustMoney("600")) {
		t.Errorf("price = %s, want 600", b.Price)
	}
	// 2kg processed × 1.45 default factor
	if !b.RawWeight.Equal(types.MustMoney("2.9")) {
		t.Errorf("raw weight = %s, want 2.9", b.RawWeight)
	}
}

func TestCreate_InventoryTargetPriceUsesProcessedWeight(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))

	b, err := service.Create(context.Background(), CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductMeat,
		WeightType:  WeightInventory,
		Weight:      types.MustMoney("2"),
		TargetPrice: types.MustMoney("550"),
		PaymentType: PaymentCash,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !b.Price.Equal(types.MustMoney("550")) {
		t.Errorf("price = %s, want target 550", b.Price)
	}
	// (2 × 300 − 550) / 2
	if !b.DiscountPerKg.Equal(types.MustMoney("25")) {
		t.Errorf("discount = %s, want derived 25", b.DiscountPerKg)
	}
}

func TestCreate_TargetPriceAboveTotalRejected(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))

	_, err := service.Create(context.Background(), CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		TargetPrice: types.MustMoney("1100"),
		PaymentType: PaymentCash,
	})
	if err == nil {
		t.Fatal("expected error for target price above the undiscounted total")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Errorf("error = %v, want validation error", err)
	}
	if len(repo.bills) != 0 {
		t.Errorf("stored bills = %d, want 0", len(repo.bills))
	}
}

func TestCreate_TargetPriceOverridesDiscount(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))

	b, err := service.Create(context.Background(), CreateInput{
		Category:      CategoryRetail,
		ProductType:   ProductLive,
		Weight:        types.MustMoney("5"),
		DiscountPerKg: types.MustMoney("99"),
		TargetPrice:   types.MustMoney("900"),
		PaymentType:   PaymentCash,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !b.Price.Equal(types.MustMoney("900")) {
		t.Errorf("price = %s, want target 900", b.Price)
	}
	if !b.DiscountPerKg.Equal(types.MustMoney("20")) {
		t.Errorf("discount = %s, want derived 20", b.DiscountPerKg)
	}
}

func TestCreate_PartialPaymentKeepsBalance(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))

	b, err := service.Create(context.Background(), CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		PaymentType: PaymentPartial,
		AmountPaid:  types.MustMoney("600"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !b.AmountPaid.Equal(types.MustMoney("600")) {
		t.Errorf("paid = %s, want 600", b.AmountPaid)
	}
	if !b.BalanceAmount.Equal(types.MustMoney("400")) {
		t.Errorf("balance = %s, want 400", b.BalanceAmount)
	}
	if b.IsSettled() {
		t.Error("partially paid bill should not be settled")
	}
}

func TestCreate_RejectedWhenDayNotOpen(t *testing.T) {
	for _, status := range []setup.Status{setup.StatusClosing, setup.StatusClosed} {
		t.Run(string(status), func(t *testing.T) {
			service := newTestService(newFakeBillRepo(), openDay(status))

			_, err := service.Create(context.Background(), CreateInput{
				Category:    CategoryRetail,
				ProductType: ProductLive,
				Weight:      types.MustMoney("5"),
				PaymentType: PaymentCash,
			})
			if err == nil {
				t.Fatal("expected error on non-open day")
			}
		})
	}
}

func TestCreate_InsufficientStock(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))
	service.SetStockChecker(fixedStock{remaining: types.MustMoney("3")})

	_, err := service.Create(context.Background(), CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		PaymentType: PaymentCash,
	})
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeInsufficientStock {
		t.Errorf("error = %v, want %s", err, apperror.CodeInsufficientStock)
	}
	if len(repo.bills) != 0 {
		t.Errorf("stored bills = %d, want 0", len(repo.bills))
	}
}

func TestRecordPayment(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))
	ctx := context.Background()

	b, err := service.Create(ctx, CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		PaymentType: PaymentPartial,
		AmountPaid:  types.MustMoney("600"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	b, err = service.RecordPayment(ctx, b.ID, types.MustMoney("400"))
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if !b.IsSettled() {
		t.Error("bill should be settled after paying the balance")
	}

	if _, err := service.RecordPayment(ctx, b.ID, types.MustMoney("1")); err == nil {
		t.Error("payment on settled bill should fail")
	}
}

func TestRecordPayment_Validation(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))
	ctx := context.Background()

	b, err := service.Create(ctx, CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		PaymentType: PaymentPartial,
		AmountPaid:  types.MustMoney("600"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := service.RecordPayment(ctx, b.ID, decimal.Zero); err == nil {
		t.Error("zero payment should fail")
	}
	if _, err := service.RecordPayment(ctx, b.ID, types.MustMoney("500")); err == nil {
		t.Error("payment above the balance should fail")
	}
}

func TestCorrectPayment(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))
	ctx := context.Background()

	b, err := service.Create(ctx, CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		PaymentType: PaymentPartial,
		AmountPaid:  types.MustMoney("600"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	b, err = service.CorrectPayment(ctx, b.ID, types.MustMoney("800"))
	if err != nil {
		t.Fatalf("CorrectPayment failed: %v", err)
	}
	if !b.BalanceAmount.Equal(types.MustMoney("200")) {
		t.Errorf("balance = %s, want 200", b.BalanceAmount)
	}

	if _, err := service.CorrectPayment(ctx, b.ID, types.MustMoney("2000")); err == nil {
		t.Error("correction above the price should fail")
	}
}

func TestOutstanding(t *testing.T) {
	repo := newFakeBillRepo()
	service := newTestService(repo, openDay(setup.StatusOpen))
	ctx := context.Background()

	if _, err := service.Create(ctx, CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("5"),
		PaymentType: PaymentCash,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	partial, err := service.Create(ctx, CreateInput{
		Category:    CategoryRetail,
		ProductType: ProductLive,
		Weight:      types.MustMoney("3"),
		PaymentType: PaymentPartial,
		AmountPaid:  types.MustMoney("100"),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	open, err := service.Outstanding(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("Outstanding failed: %v", err)
	}
	if len(open) != 1 || open[0].ID != partial.ID {
		t.Errorf("outstanding = %d bills, want just the partial one", len(open))
	}
}

package setup

import (
	"context"
	"testing"
	"time"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/catalogs/conversion"
)

type fakeSetupRepo struct {
	byDate map[string]*DailySetup
	active *DailySetup
}

func newFakeSetupRepo() *fakeSetupRepo {
	return &fakeSetupRepo{byDate: make(map[string]*DailySetup)}
}

func (r *fakeSetupRepo) Create(ctx context.Context, s *DailySetup) error {
	r.byDate[s.Date] = s
	if s.IsActive {
		r.active = s
	}
	return nil
}

func (r *fakeSetupRepo) Update(ctx context.Context, s *DailySetup) error {
	r.byDate[s.Date] = s
	return nil
}

func (r *fakeSetupRepo) GetActive(ctx context.Context) (*DailySetup, error) {
	if r.active == nil {
		return nil, apperror.NewNotFound("daily setup", "active")
	}
	return r.active, nil
}

func (r *fakeSetupRepo) GetByDate(ctx context.Context, date string) (*DailySetup, error) {
	s, ok := r.byDate[date]
	if !ok {
		return nil, apperror.NewNotFound("daily setup", date)
	}
	return s, nil
}

func (r *fakeSetupRepo) DeactivateAll(ctx context.Context) error {
	if r.active != nil {
		r.active.IsActive = false
		r.active = nil
	}
	return nil
}

// emptyFactorCatalog makes the conversion service fall back to its
// seeded defaults.
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

func newTestService(repo Repository) *Service {
	return NewService(repo, conversion.NewService(emptyFactorCatalog{}))
}

func newDay(date string) *DailySetup {
	t, _ := time.Parse(DateLayout, date)
	day := NewDailySetup(t)
	day.PaperRate = types.MustMoney("180")
	day.ShopRate = types.MustMoney("300")
	day.FreshStock = types.MustMoney("100")
	day.FreshBirds = 50
	return day
}

func TestStartDay_FirstDay(t *testing.T) {
	repo := newFakeSetupRepo()
	service := newTestService(repo)
	ctx := context.Background()

	day, err := service.StartDay(ctx, newDay("2025-03-10"))
	if err != nil {
		t.Fatalf("StartDay failed: %v", err)
	}

	if !day.IsActive {
		t.Error("started day should be active")
	}
	if day.Status != StatusOpen {
		t.Errorf("status = %s, want %s", day.Status, StatusOpen)
	}
	if day.HasClosedDay {
		t.Error("fresh day should not be marked closed")
	}
	// 100kg live at paper rate 180
	if !day.EstimatedEarnings.Equal(types.MustMoney("18000")) {
		t.Errorf("estimated earnings = %s, want 18000", day.EstimatedEarnings)
	}
}

func TestStartDay_BlockedWhileActiveDayUnclosed(t *testing.T) {
	repo := newFakeSetupRepo()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.StartDay(ctx, newDay("2025-03-10")); err != nil {
		t.Fatalf("first StartDay failed: %v", err)
	}

	_, err := service.StartDay(ctx, newDay("2025-03-11"))
	if err == nil {
		t.Fatal("expected error when previous day is still open")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDayNotClosed {
		t.Errorf("error code = %v, want %s", err, apperror.CodeDayNotClosed)
	}
}

func TestStartDay_AllowedAfterClose(t *testing.T) {
	repo := newFakeSetupRepo()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.StartDay(ctx, newDay("2025-03-10")); err != nil {
		t.Fatalf("first StartDay failed: %v", err)
	}
	if _, err := service.MarkClosed(ctx, "2025-03-10"); err != nil {
		t.Fatalf("MarkClosed failed: %v", err)
	}

	next, err := service.StartDay(ctx, newDay("2025-03-11"))
	if err != nil {
		t.Fatalf("StartDay after close failed: %v", err)
	}
	if !next.IsActive {
		t.Error("new day should be active")
	}

	prev := repo.byDate["2025-03-10"]
	if prev.IsActive {
		t.Error("previous day should have been deactivated")
	}
}

func TestStartDay_DuplicateDate(t *testing.T) {
	repo := newFakeSetupRepo()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.StartDay(ctx, newDay("2025-03-10")); err != nil {
		t.Fatalf("first StartDay failed: %v", err)
	}
	if _, err := service.MarkClosed(ctx, "2025-03-10"); err != nil {
		t.Fatalf("MarkClosed failed: %v", err)
	}

	_, err := service.StartDay(ctx, newDay("2025-03-10"))
	if err == nil {
		t.Fatal("expected duplicate date error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		t.Errorf("error code = %v, want %s", err, apperror.CodeDuplicate)
	}
}

func TestEstimateEarnings_SkinOut(t *testing.T) {
	repo := newFakeSetupRepo()
	service := newTestService(repo)
	ctx := context.Background()

	day := newDay("2025-03-10")
	day.EstimationMethod = EstimateBySkinOutRate
	// 145kg live / 1.45 default factor = 100kg meat at shop rate 300
	day.FreshStock = types.MustMoney("145")

	started, err := service.StartDay(ctx, day)
	if err != nil {
		t.Fatalf("StartDay failed: %v", err)
	}
	if !started.EstimatedEarnings.Equal(types.MustMoney("30000")) {
		t.Errorf("estimated earnings = %s, want 30000", started.EstimatedEarnings)
	}
}

func TestClosingLifecycle(t *testing.T) {
	repo := newFakeSetupRepo()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.StartDay(ctx, newDay("2025-03-10")); err != nil {
		t.Fatalf("StartDay failed: %v", err)
	}

	day, err := service.BeginClosing(ctx)
	if err != nil {
		t.Fatalf("BeginClosing failed: %v", err)
	}
	if day.Status != StatusClosing {
		t.Errorf("status = %s, want %s", day.Status, StatusClosing)
	}

	// Repeated begin is idempotent.
	if _, err := service.BeginClosing(ctx); err != nil {
		t.Fatalf("repeated BeginClosing failed: %v", err)
	}

	day, err = service.CancelClosing(ctx)
	if err != nil {
		t.Fatalf("CancelClosing failed: %v", err)
	}
	if day.Status != StatusOpen {
		t.Errorf("status after cancel = %s, want %s", day.Status, StatusOpen)
	}

	if _, err := service.BeginClosing(ctx); err != nil {
		t.Fatalf("BeginClosing failed: %v", err)
	}
	day, err = service.MarkClosed(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("MarkClosed failed: %v", err)
	}
	if day.Status != StatusClosed || !day.HasClosedDay {
		t.Errorf("closed day = %s/%v, want %s/true", day.Status, day.HasClosedDay, StatusClosed)
	}

	if _, err := service.BeginClosing(ctx); err == nil {
		t.Error("BeginClosing on a closed day should fail")
	}
	if _, err := service.MarkClosed(ctx, "2025-03-10"); err == nil {
		t.Error("repeated MarkClosed should fail")
	}
}

func TestUpdateRates_RefreshesEstimate(t *testing.T) {
	repo := newFakeSetupRepo()
	service := newTestService(repo)
	ctx := context.Background()

	if _, err := service.StartDay(ctx, newDay("2025-03-10")); err != nil {
		t.Fatalf("StartDay failed: %v", err)
	}

	day, err := service.UpdateRates(ctx, types.MustMoney("200"), types.MustMoney("320"), ProductPrices{})
	if err != nil {
		t.Fatalf("UpdateRates failed: %v", err)
	}

	if !day.PaperRate.Equal(types.MustMoney("200")) {
		t.Errorf("paper rate = %s, want 200", day.PaperRate)
	}
	if !day.EstimatedEarnings.Equal(types.MustMoney("20000")) {
		t.Errorf("estimated earnings = %s, want 20000", day.EstimatedEarnings)
	}
}

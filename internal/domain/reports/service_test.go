package reports

import (
	"context"
	"sort"
	"testing"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/closing"
)

type fakeClosingRepo struct {
	closings map[string]*closing.DailyClosing
}

func newFakeClosingRepo(closings ...*closing.DailyClosing) *fakeClosingRepo {
	r := &fakeClosingRepo{closings: make(map[string]*closing.DailyClosing)}
	for _, c := range closings {
		r.closings[c.Date] = c
	}
	return r
}

func (r *fakeClosingRepo) CreateClosing(ctx context.Context, c *closing.DailyClosing) error {
	r.closings[c.Date] = c
	return nil
}

func (r *fakeClosingRepo) GetClosingByDate(ctx context.Context, date string) (*closing.DailyClosing, error) {
	return r.closings[date], nil
}

func (r *fakeClosingRepo) ListClosings(ctx context.Context, from, to string) ([]*closing.DailyClosing, error) {
	var out []*closing.DailyClosing
	for _, c := range r.closings {
		if from != "" && c.Date < from {
			continue
		}
		if to != "" && c.Date > to {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *fakeClosingRepo) ArchiveDay(ctx context.Context, day *closing.ClosedDay) error {
	return nil
}

func (r *fakeClosingRepo) GetArchivedDay(ctx context.Context, date string) (*closing.ClosedDay, error) {
	return nil, nil
}

func testClosing(date, earnings, expenses, net, weightLoss, lossPct string, birdLoss int) *closing.DailyClosing {
	return &closing.DailyClosing{
		Date:                 date,
		ActualEarnings:       types.MustMoney(earnings),
		TotalExpenses:        types.MustMoney(expenses),
		NetEarnings:          types.MustMoney(net),
		WeightLoss:           types.MustMoney(weightLoss),
		WeightLossPercentage: types.MustMoney(lossPct),
		BirdLoss:             birdLoss,
	}
}

func TestGetHistory_NewestFirstWithPagination(t *testing.T) {
	repo := newFakeClosingRepo(
		testClosing("2025-03-10", "20000", "1000", "19000", "2", "10", 1),
		testClosing("2025-03-11", "22000", "1500", "20500", "1", "5", 0),
		testClosing("2025-03-12", "18000", "800", "17200", "3", "15", 2),
	)
	service := NewService(repo)
	ctx := context.Background()

	report, err := service.GetHistory(ctx, HistoryFilter{})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if report.TotalItems != 3 || len(report.Items) != 3 {
		t.Fatalf("items = %d/%d, want 3/3", len(report.Items), report.TotalItems)
	}
	if report.Items[0].Date != "2025-03-12" {
		t.Errorf("first item = %s, want newest 2025-03-12", report.Items[0].Date)
	}

	paged, err := service.GetHistory(ctx, HistoryFilter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if paged.TotalItems != 3 || len(paged.Items) != 1 {
		t.Fatalf("paged items = %d/%d, want 1/3", len(paged.Items), paged.TotalItems)
	}
	if paged.Items[0].Date != "2025-03-11" {
		t.Errorf("paged item = %s, want 2025-03-11", paged.Items[0].Date)
	}

	empty, err := service.GetHistory(ctx, HistoryFilter{Offset: 10})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(empty.Items) != 0 || empty.TotalItems != 3 {
		t.Errorf("out-of-range offset items = %d/%d, want 0/3", len(empty.Items), empty.TotalItems)
	}
}

func TestGetHistory_RejectsInvertedRange(t *testing.T) {
	service := NewService(newFakeClosingRepo())

	_, err := service.GetHistory(context.Background(), HistoryFilter{
		From: "2025-03-12",
		To:   "2025-03-10",
	})
	if err == nil {
		t.Fatal("expected error for inverted date range")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestGetStats(t *testing.T) {
	repo := newFakeClosingRepo(
		testClosing("2025-03-10", "20000", "1000", "19000", "2", "10", 1),
		testClosing("2025-03-11", "22000", "1500", "20500", "1", "5", 0),
	)
	service := NewService(repo)

	stats, err := service.GetStats(context.Background(), "", "")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}

	if stats.DaysClosed != 2 {
		t.Errorf("days closed = %d, want 2", stats.DaysClosed)
	}
	if !stats.TotalEarnings.Equal(types.MustMoney("42000")) {
		t.Errorf("total earnings = %s, want 42000", stats.TotalEarnings)
	}
	if !stats.TotalExpenses.Equal(types.MustMoney("2500")) {
		t.Errorf("total expenses = %s, want 2500", stats.TotalExpenses)
	}
	if !stats.TotalNet.Equal(types.MustMoney("39500")) {
		t.Errorf("total net = %s, want 39500", stats.TotalNet)
	}
	if !stats.TotalWeightLoss.Equal(types.MustMoney("3")) {
		t.Errorf("total weight loss = %s, want 3", stats.TotalWeightLoss)
	}
	if stats.TotalBirdLoss != 1 {
		t.Errorf("total bird loss = %d, want 1", stats.TotalBirdLoss)
	}
	if !stats.AvgWeightLossPercentage.Equal(types.MustMoney("7.5")) {
		t.Errorf("avg weight loss pct = %s, want 7.5", stats.AvgWeightLossPercentage)
	}
	if !stats.AvgNetPerDay.Equal(types.MustMoney("19750")) {
		t.Errorf("avg net per day = %s, want 19750", stats.AvgNetPerDay)
	}
}

func TestGetStats_EmptyPeriod(t *testing.T) {
	service := NewService(newFakeClosingRepo())

	stats, err := service.GetStats(context.Background(), "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.DaysClosed != 0 {
		t.Errorf("days closed = %d, want 0", stats.DaysClosed)
	}
	if !stats.TotalEarnings.IsZero() || !stats.AvgNetPerDay.IsZero() {
		t.Error("empty period should produce zero totals")
	}
}

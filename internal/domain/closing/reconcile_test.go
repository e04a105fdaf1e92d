package closing

import (
	"testing"
	"time"

	"meatpos/internal/core/id"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/domain/registers/ledger"
)

func reconcileInput() ReconcileInput {
	day := setup.NewDailySetup(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	day.EstimationMethod = setup.EstimateByLiveRate
	day.EstimatedEarnings = types.MustMoney("25000")

	return ReconcileInput{
		Day: day,
		Snapshot: &ledger.Snapshot{
			Date: day.Date,
			Broiler: ledger.Position{
				RemainingLive:  types.MustMoney("20"),
				RemainingMeat:  types.MustMoney("13.79"),
				RemainingBirds: 10,
			},
			Country: ledger.Position{
				RemainingLive:  types.MustMoney("8"),
				RemainingBirds: 4,
			},
			TotalSales:     types.MustMoney("22000"),
			TotalDiscounts: types.MustMoney("150"),
		},
		ActualStock:        types.MustMoney("18"),
		ActualBirds:        9,
		CountryActualStock: types.MustMoney("8"),
		CountryActualBirds: 4,
		BroilerMeatFactor:  types.MustMoney("1.45"),
		CountryMeatFactor:  types.MustMoney("1.65"),
		Now:                time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC),
	}
}

func TestReconcile_LiveRateWeightLoss(t *testing.T) {
	c := Reconcile(reconcileInput())

	if !c.ExpectedStock.Equal(types.MustMoney("20")) {
		t.Errorf("expected stock = %s, want 20", c.ExpectedStock)
	}
	if !c.WeightLoss.Equal(types.MustMoney("2")) {
		t.Errorf("weight loss = %s, want 2", c.WeightLoss)
	}
	if !c.WeightLossPercentage.Equal(types.MustMoney("10")) {
		t.Errorf("weight loss pct = %s, want 10", c.WeightLossPercentage)
	}
	if !c.WeightLossLive.Equal(types.MustMoney("2")) {
		t.Errorf("weight loss live = %s, want 2", c.WeightLossLive)
	}
	if !c.WeightLossMeat.Equal(types.MustMoney("1.38")) {
		t.Errorf("weight loss meat = %s, want 1.38", c.WeightLossMeat)
	}
	if c.BirdLoss != 1 {
		t.Errorf("bird loss = %d, want 1", c.BirdLoss)
	}
	if !c.BirdLossPercentage.Equal(types.MustMoney("10")) {
		t.Errorf("bird loss pct = %s, want 10", c.BirdLossPercentage)
	}
}

func TestReconcile_SkinOutUsesMeatAsPrimaryUnit(t *testing.T) {
	in := reconcileInput()
	in.Day.EstimationMethod = setup.EstimateBySkinOutRate
	in.ActualStock = types.MustMoney("12.79")

	c := Reconcile(in)

	if !c.ExpectedStock.Equal(types.MustMoney("13.79")) {
		t.Errorf("expected stock = %s, want 13.79", c.ExpectedStock)
	}
	if !c.WeightLoss.Equal(types.MustMoney("1")) {
		t.Errorf("weight loss = %s, want 1", c.WeightLoss)
	}
	if !c.WeightLossMeat.Equal(types.MustMoney("1")) {
		t.Errorf("weight loss meat = %s, want 1", c.WeightLossMeat)
	}
	if !c.WeightLossLive.Equal(types.MustMoney("1.45")) {
		t.Errorf("weight loss live = %s, want 1.45", c.WeightLossLive)
	}
}

func TestReconcile_ZeroExpectedStockAbsorbsDivision(t *testing.T) {
	in := reconcileInput()
	in.Snapshot.Broiler.RemainingLive = types.Zero()
	in.Snapshot.Broiler.RemainingBirds = 0
	in.ActualStock = types.Zero()
	in.ActualBirds = 0

	c := Reconcile(in)

	if !c.WeightLossPercentage.IsZero() {
		t.Errorf("weight loss pct = %s, want 0", c.WeightLossPercentage)
	}
	if !c.BirdLossPercentage.IsZero() {
		t.Errorf("bird loss pct = %s, want 0", c.BirdLossPercentage)
	}
}

func TestReconcile_CountryIsAlwaysLivePrimary(t *testing.T) {
	in := reconcileInput()
	in.Day.EstimationMethod = setup.EstimateBySkinOutRate
	in.CountryActualStock = types.MustMoney("6.35")

	c := Reconcile(in)

	if !c.CountryExpectedStock.Equal(types.MustMoney("8")) {
		t.Errorf("country expected stock = %s, want 8", c.CountryExpectedStock)
	}
	if !c.CountryWeightLoss.Equal(types.MustMoney("1.65")) {
		t.Errorf("country weight loss = %s, want 1.65", c.CountryWeightLoss)
	}
	if !c.CountryWeightLossMeat.Equal(types.MustMoney("1")) {
		t.Errorf("country weight loss meat = %s, want 1", c.CountryWeightLossMeat)
	}
}

func TestReconcile_NetEarnings(t *testing.T) {
	in := reconcileInput()
	in.ExpenseItems = []ExpenseItem{
		{CategoryID: id.New(), CategoryName: "Transport", Amount: types.MustMoney("500")},
		{CategoryID: id.New(), CategoryName: "Wages", Amount: types.MustMoney("1200")},
		{CategoryID: id.New(), CategoryName: "Refund", Amount: types.MustMoney("-100")},
	}

	c := Reconcile(in)

	if !c.ActualEarnings.Equal(types.MustMoney("22000")) {
		t.Errorf("actual earnings = %s, want 22000", c.ActualEarnings)
	}
	if !c.TotalExpenses.Equal(types.MustMoney("1700")) {
		t.Errorf("total expenses = %s, want 1700", c.TotalExpenses)
	}
	if !c.NetEarnings.Equal(types.MustMoney("20300")) {
		t.Errorf("net earnings = %s, want 20300", c.NetEarnings)
	}
	if !c.EstimatedEarnings.Equal(types.MustMoney("25000")) {
		t.Errorf("estimated earnings = %s, want 25000", c.EstimatedEarnings)
	}
}

func TestSubmitInput_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      SubmitInput
		wantErr bool
	}{
		{
			name: "valid",
			in: SubmitInput{
				ActualStock: types.MustMoney("10"),
				ActualBirds: 5,
			},
		},
		{
			name: "negative stock",
			in: SubmitInput{
				ActualStock: types.MustMoney("-1"),
			},
			wantErr: true,
		},
		{
			name: "negative birds",
			in: SubmitInput{
				ActualBirds: -2,
			},
			wantErr: true,
		},
		{
			name: "negative country stock",
			in: SubmitInput{
				CountryActualStock: types.MustMoney("-0.5"),
			},
			wantErr: true,
		},
		{
			name: "negative expense amount",
			in: SubmitInput{
				Expenses: []ExpenseInput{
					{CategoryID: id.New(), Amount: types.MustMoney("-50")},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

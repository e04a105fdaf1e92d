package closing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/entity"
	"meatpos/internal/core/id"
	"meatpos/internal/core/tx"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/catalogs/expense"
	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/domain/registers/ledger"
	"meatpos/pkg/logger"
)

// Service runs the day-closing reconciliation.
type Service struct {
	repo     Repository
	setups   *setup.Service
	bills    bill.Repository
	ledger   *ledger.Service
	expenses *expense.Service
	factors  *conversion.Service
	txm      tx.Manager
}

func NewService(
	repo Repository,
	setups *setup.Service,
	bills bill.Repository,
	ledgerSvc *ledger.Service,
	expenses *expense.Service,
	factors *conversion.Service,
	txm tx.Manager,
) *Service {
	return &Service{
		repo:     repo,
		setups:   setups,
		bills:    bills,
		ledger:   ledgerSvc,
		expenses: expenses,
		factors:  factors,
		txm:      txm,
	}
}

// Begin moves the active day into the closing state.
func (s *Service) Begin(ctx context.Context) (*setup.DailySetup, error) {
	return s.setups.BeginClosing(ctx)
}

// Cancel returns a closing day to the open state.
func (s *Service) Cancel(ctx context.Context) (*setup.DailySetup, error) {
	return s.setups.CancelClosing(ctx)
}

// ExpenseInput is one categorized spend entered at close time.
type ExpenseInput struct {
	CategoryID id.ID
	Amount     decimal.Decimal
}

// SubmitInput carries the actual counts entered when closing the day.
type SubmitInput struct {
	ActualStock decimal.Decimal
	ActualBirds int

	CountryActualStock decimal.Decimal
	CountryActualBirds int

	// Expenses entered in the closing form. Recorded as expense entries
	// and folded into the day's totals alongside entries recorded
	// during the day.
	Expenses []ExpenseInput
}

func (in SubmitInput) validate() error {
	if in.ActualStock.IsNegative() {
		return apperror.NewValidation("actual stock must not be negative").
			WithDetail("field", "actualStock")
	}
	if in.CountryActualStock.IsNegative() {
		return apperror.NewValidation("actual country stock must not be negative").
			WithDetail("field", "countryActualStock")
	}
	if in.ActualBirds < 0 || in.CountryActualBirds < 0 {
		return apperror.NewValidation("actual bird count must not be negative")
	}
	for _, e := range in.Expenses {
		if e.Amount.IsNegative() {
			return apperror.NewValidation("expense amount must not be negative").
				WithDetail("categoryId", e.CategoryID)
		}
	}
	return nil
}

// Submit reconciles and closes the active business day. The closing
// record, the archive snapshot and the day's state transition are
// written in a single transaction: the close either fully succeeds or
// leaves the day in the closing state untouched.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*DailyClosing, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	active, err := s.setups.Current(ctx)
	if err != nil {
		return nil, err
	}
	if active.Status == setup.StatusClosed {
		return nil, apperror.NewDayAlreadyClosed(active.Date)
	}

	if existing, err := s.repo.GetClosingByDate(ctx, active.Date); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("daily closing", "date", active.Date)
	}

	var result *DailyClosing
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, e := range in.Expenses {
			if !e.Amount.IsPositive() {
				continue
			}
			if _, err := s.expenses.Record(ctx, e.CategoryID, active.Date, e.Amount); err != nil {
				return err
			}
		}

		items, err := s.collectExpenseItems(ctx, active.Date)
		if err != nil {
			return err
		}

		snap, err := s.ledger.Snapshot(ctx, active.Date)
		if err != nil {
			return err
		}

		c := Reconcile(ReconcileInput{
			Day:                active,
			Snapshot:           snap,
			ActualStock:        in.ActualStock,
			ActualBirds:        in.ActualBirds,
			CountryActualStock: in.CountryActualStock,
			CountryActualBirds: in.CountryActualBirds,
			BroilerMeatFactor:  s.factors.Effective(ctx, conversion.CategoryBroiler, conversion.KindMeat),
			CountryMeatFactor:  s.factors.Effective(ctx, conversion.CategoryCountry, conversion.KindMeat),
			ExpenseItems:       items,
			Now:                time.Now(),
		})
		if err := c.Validate(ctx); err != nil {
			return err
		}

		if err := s.repo.CreateClosing(ctx, c); err != nil {
			return fmt.Errorf("create closing: %w", err)
		}

		dayBills, err := s.bills.ListByDate(ctx, active.Date)
		if err != nil {
			return err
		}
		archive := &ClosedDay{
			Date:       active.Date,
			Setup:      active,
			Closing:    c,
			Bills:      dayBills,
			ArchivedAt: c.Timestamp,
		}
		if err := s.repo.ArchiveDay(ctx, archive); err != nil {
			return fmt.Errorf("archive day: %w", err)
		}

		if _, err := s.setups.MarkClosed(ctx, active.Date); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "day closed",
		"date", result.Date,
		"weight_loss", result.WeightLoss,
		"net_earnings", result.NetEarnings,
	)
	return result, nil
}

// GetByDate returns a day's closing record.
func (s *Service) GetByDate(ctx context.Context, date string) (*DailyClosing, error) {
	return s.repo.GetClosingByDate(ctx, date)
}

// GetArchivedDay returns the full archived snapshot for a closed day.
func (s *Service) GetArchivedDay(ctx context.Context, date string) (*ClosedDay, error) {
	return s.repo.GetArchivedDay(ctx, date)
}

// collectExpenseItems folds the day's expense entries into per-category
// line items, keeping only categories with positive spend.
func (s *Service) collectExpenseItems(ctx context.Context, date string) ([]ExpenseItem, error) {
	totals, err := s.expenses.TotalsForDay(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return nil, nil
	}

	categories, err := s.expenses.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[id.ID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	items := make([]ExpenseItem, 0, len(totals))
	for _, c := range categories {
		amount, ok := totals[c.ID]
		if !ok || !amount.IsPositive() {
			continue
		}
		items = append(items, ExpenseItem{
			CategoryID:   c.ID,
			CategoryName: names[c.ID],
			Amount:       types.Round2(amount),
		})
	}
	return items, nil
}

// ReconcileInput feeds the pure reconciliation computation.
type ReconcileInput struct {
	Day      *setup.DailySetup
	Snapshot *ledger.Snapshot

	ActualStock decimal.Decimal
	ActualBirds int

	CountryActualStock decimal.Decimal
	CountryActualBirds int

	BroilerMeatFactor decimal.Decimal
	CountryMeatFactor decimal.Decimal

	ExpenseItems []ExpenseItem

	Now time.Time
}

// Reconcile computes the closing record. Pure: no I/O, fully determined
// by its input.
//
// Broiler loss is measured in the day's primary unit (live kg under
// live-rate estimation, processed kg under skin-out) with a mirror in
// the other unit via the meat conversion factor. Country loss is always
// measured in live kg. A zero expected stock yields a zero loss
// percentage rather than a division error.
func Reconcile(in ReconcileInput) *DailyClosing {
	c := &DailyClosing{
		BaseDocument: entity.NewBaseDocument(),
		Date:         in.Day.Date,
		Timestamp:    in.Now,

		ActualStock: types.Round2(in.ActualStock),
		ActualBirds: in.ActualBirds,

		CountryActualStock: types.Round2(in.CountryActualStock),
		CountryActualBirds: in.CountryActualBirds,

		EstimatedEarnings: in.Day.EstimatedEarnings,
		ActualEarnings:    in.Snapshot.TotalSales,
		TotalDiscounts:    in.Snapshot.TotalDiscounts,
		ExpenseItems:      in.ExpenseItems,
	}

	// Broiler: expected stock in the estimation method's primary unit.
	if in.Day.EstimationMethod == setup.EstimateBySkinOutRate {
		c.ExpectedStock = in.Snapshot.Broiler.RemainingMeat
		c.WeightLoss = types.Round2(c.ExpectedStock.Sub(c.ActualStock))
		c.WeightLossMeat = c.WeightLoss
		c.WeightLossLive = types.Round2(c.WeightLoss.Mul(in.BroilerMeatFactor))
	} else {
		c.ExpectedStock = in.Snapshot.Broiler.RemainingLive
		c.WeightLoss = types.Round2(c.ExpectedStock.Sub(c.ActualStock))
		c.WeightLossLive = c.WeightLoss
		if in.BroilerMeatFactor.IsPositive() {
			c.WeightLossMeat = types.Round2(c.WeightLoss.Div(in.BroilerMeatFactor))
		}
	}
	c.WeightLossPercentage = types.Percentage(c.WeightLoss, c.ExpectedStock)

	c.ExpectedBirds = in.Snapshot.Broiler.RemainingBirds
	c.BirdLoss = c.ExpectedBirds - c.ActualBirds
	c.BirdLossPercentage = types.Percentage(
		decimal.NewFromInt(int64(c.BirdLoss)),
		decimal.NewFromInt(int64(c.ExpectedBirds)),
	)

	// Country chicken: always live-weight primary.
	c.CountryExpectedStock = in.Snapshot.Country.RemainingLive
	c.CountryWeightLoss = types.Round2(c.CountryExpectedStock.Sub(c.CountryActualStock))
	if in.CountryMeatFactor.IsPositive() {
		c.CountryWeightLossMeat = types.Round2(c.CountryWeightLoss.Div(in.CountryMeatFactor))
	}
	c.CountryWeightLossPercentage = types.Percentage(c.CountryWeightLoss, c.CountryExpectedStock)

	c.CountryExpectedBirds = in.Snapshot.Country.RemainingBirds
	c.CountryBirdLoss = c.CountryExpectedBirds - c.CountryActualBirds
	c.CountryBirdLossPercentage = types.Percentage(
		decimal.NewFromInt(int64(c.CountryBirdLoss)),
		decimal.NewFromInt(int64(c.CountryExpectedBirds)),
	)

	for _, item := range in.ExpenseItems {
		if item.Amount.IsPositive() {
			c.TotalExpenses = c.TotalExpenses.Add(item.Amount)
		}
	}
	c.TotalExpenses = types.Round2(c.TotalExpenses)
	c.NetEarnings = types.Round2(c.ActualEarnings.Sub(c.TotalExpenses))

	return c
}

package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/types"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/domain/documents/setup"
)

// Service derives stock balances on demand.
type Service struct {
	setups  *setup.Service
	bills   bill.Repository
	factors *conversion.Service
}

func NewService(setups *setup.Service, bills bill.Repository, factors *conversion.Service) *Service {
	return &Service{
		setups:  setups,
		bills:   bills,
		factors: factors,
	}
}

// Snapshot derives the full stock and earnings state for a business day.
func (s *Service) Snapshot(ctx context.Context, date string) (*Snapshot, error) {
	day, err := s.setups.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	bills, err := s.bills.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	broilerFactor := s.factors.Effective(ctx, conversion.CategoryBroiler, conversion.KindMeat)
	countryFactor := s.factors.Effective(ctx, conversion.CategoryCountry, conversion.KindMeat)

	return Derive(day, bills, broilerFactor, countryFactor), nil
}

// RemainingLive implements bill.StockChecker: the sellable live weight
// left for a product line on the given day.
func (s *Service) RemainingLive(ctx context.Context, date string, chickenType bill.ChickenType) (decimal.Decimal, error) {
	snap, err := s.Snapshot(ctx, date)
	if err != nil {
		return decimal.Zero, err
	}
	if chickenType == bill.ChickenCountry {
		return snap.Country.RemainingLive, nil
	}
	return snap.Broiler.RemainingLive, nil
}

// Derive computes a snapshot from its sources. Pure: the same day and
// bills always produce the same snapshot.
func Derive(day *setup.DailySetup, bills []*bill.Bill, broilerFactor, countryFactor decimal.Decimal) *Snapshot {
	snap := &Snapshot{
		Date: day.Date,
		Broiler: Position{
			InitialLive:  day.TotalInitialStock(),
			InitialBirds: day.TotalInitialBirds(),
		},
		Country: Position{
			InitialLive:  day.TotalInitialCountryStock(),
			InitialBirds: day.TotalInitialCountryBirds(),
		},
	}

	for _, b := range bills {
		pos := &snap.Broiler
		if b.ChickenType == bill.ChickenCountry {
			pos = &snap.Country
		}

		pos.SoldLive = pos.SoldLive.Add(b.RawWeight)
		pos.SoldBirds += b.NumberOfBirds

		// Live-weighed sales carry a precomputed meat equivalent;
		// inventory sales were weighed processed already.
		if b.WeightType == bill.WeightInventory {
			pos.SoldMeat = pos.SoldMeat.Add(b.InventoryWeight)
		} else {
			pos.SoldMeat = pos.SoldMeat.Add(b.MeatWeight)
		}

		snap.BillCount++
		snap.TotalSales = snap.TotalSales.Add(b.Price)
		snap.CollectedEarnings = snap.CollectedEarnings.Add(b.AmountPaid)
		snap.OutstandingBalance = snap.OutstandingBalance.Add(b.BalanceAmount)
		snap.TotalDiscounts = snap.TotalDiscounts.Add(b.DiscountPerKg.Mul(b.Weight))
	}

	finalize(&snap.Broiler, broilerFactor)
	finalize(&snap.Country, countryFactor)

	snap.TotalSales = types.Round2(snap.TotalSales)
	snap.CollectedEarnings = types.Round2(snap.CollectedEarnings)
	snap.OutstandingBalance = types.Round2(snap.OutstandingBalance)
	snap.TotalDiscounts = types.Round2(snap.TotalDiscounts)

	return snap
}

func finalize(pos *Position, meatFactor decimal.Decimal) {
	pos.SoldLive = types.Round2(pos.SoldLive)
	pos.SoldMeat = types.Round2(pos.SoldMeat)

	remaining := pos.InitialLive.Sub(pos.SoldLive)
	pos.Oversold = remaining.IsNegative()
	pos.RemainingLive = types.Round2(types.ClampNonNegative(remaining))

	if meatFactor.IsPositive() {
		pos.RemainingMeat = types.Round2(pos.RemainingLive.Div(meatFactor))
	}

	pos.RemainingBirds = pos.InitialBirds - pos.SoldBirds
	if pos.RemainingBirds < 0 {
		pos.RemainingBirds = 0
	}
}

package setup

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/pkg/logger"
)

// Service provides business operations for daily setups.
type Service struct {
	repo    Repository
	factors *conversion.Service
}

// NewService creates a new daily setup service.
func NewService(repo Repository, factors *conversion.Service) *Service {
	return &Service{
		repo:    repo,
		factors: factors,
	}
}

// StartDay opens a new business day with the given setup. A day may
// only be started when no day is active or the active day has been
// closed; the previous active setup is superseded either way.
func (s *Service) StartDay(ctx context.Context, day *DailySetup) (*DailySetup, error) {
	if err := day.Validate(ctx); err != nil {
		return nil, err
	}

	active, err := s.repo.GetActive(ctx)
	if err == nil {
		if !active.HasClosedDay {
			return nil, apperror.NewBusinessRule(
				apperror.CodeDayNotClosed,
				"Close the current business day before starting a new one.",
			).WithDetail("date", active.Date)
		}
	} else if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("get active setup: %w", err)
	}

	if existing, err := s.repo.GetByDate(ctx, day.Date); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("daily setup", "date", day.Date)
	}

	day.IsActive = true
	day.Status = StatusOpen
	day.HasClosedDay = false
	day.EstimatedEarnings = s.estimateEarnings(ctx, day)

	if err := s.repo.DeactivateAll(ctx); err != nil {
		return nil, fmt.Errorf("deactivate setups: %w", err)
	}
	if err := s.repo.Create(ctx, day); err != nil {
		return nil, fmt.Errorf("create setup: %w", err)
	}

	logger.Info(ctx, "business day started",
		"date", day.Date,
		"paper_rate", day.PaperRate,
		"shop_rate", day.ShopRate,
		"estimated_earnings", day.EstimatedEarnings,
	)

	return day, nil
}

// Current returns the active setup or a day-not-open error.
func (s *Service) Current(ctx context.Context) (*DailySetup, error) {
	active, err := s.repo.GetActive(ctx)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewDayNotOpen()
		}
		return nil, fmt.Errorf("get active setup: %w", err)
	}
	return active, nil
}

// UpdateRates adjusts the rates and product prices of the active day.
// Closed days are immutable.
func (s *Service) UpdateRates(ctx context.Context, paperRate, shopRate decimal.Decimal, prices ProductPrices) (*DailySetup, error) {
	active, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if active.HasClosedDay {
		return nil, apperror.NewDayAlreadyClosed(active.Date)
	}

	active.PaperRate = paperRate
	active.ShopRate = shopRate
	active.ProductPrices = prices
	if err := active.Validate(ctx); err != nil {
		return nil, err
	}
	active.EstimatedEarnings = s.estimateEarnings(ctx, active)
	active.Touch()

	if err := s.repo.Update(ctx, active); err != nil {
		return nil, fmt.Errorf("update setup: %w", err)
	}

	logger.Info(ctx, "daily rates updated", "date", active.Date)
	return active, nil
}

// GetByDate returns the setup for a past or current business day.
func (s *Service) GetByDate(ctx context.Context, date string) (*DailySetup, error) {
	return s.repo.GetByDate(ctx, date)
}

// BeginClosing moves the active day into the closing state, where
// actual stock counts are awaited and new sales are blocked.
func (s *Service) BeginClosing(ctx context.Context) (*DailySetup, error) {
	active, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if active.Status == StatusClosed {
		return nil, apperror.NewDayAlreadyClosed(active.Date)
	}
	if active.Status == StatusClosing {
		return active, nil
	}

	active.Status = StatusClosing
	active.Touch()
	if err := s.repo.Update(ctx, active); err != nil {
		return nil, fmt.Errorf("update setup: %w", err)
	}

	logger.Info(ctx, "day closing started", "date", active.Date)
	return active, nil
}

// CancelClosing returns a closing day to the open state.
func (s *Service) CancelClosing(ctx context.Context) (*DailySetup, error) {
	active, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if active.Status != StatusClosing {
		return active, nil
	}

	active.Status = StatusOpen
	active.Touch()
	if err := s.repo.Update(ctx, active); err != nil {
		return nil, fmt.Errorf("update setup: %w", err)
	}
	return active, nil
}

// MarkClosed finalizes the active day. Called by the closing
// reconciliator inside its commit transaction.
func (s *Service) MarkClosed(ctx context.Context, date string) (*DailySetup, error) {
	day, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if day.Status == StatusClosed {
		return nil, apperror.NewDayAlreadyClosed(date)
	}

	day.Status = StatusClosed
	day.HasClosedDay = true
	day.Touch()
	if err := s.repo.Update(ctx, day); err != nil {
		return nil, fmt.Errorf("update setup: %w", err)
	}

	logger.Info(ctx, "business day closed", "date", date)
	return day, nil
}

// estimateEarnings projects the day's takings from opening stock.
// Live-rate estimation prices live weight directly; skin-out estimation
// converts to processed weight first and prices at the meat rates.
func (s *Service) estimateEarnings(ctx context.Context, day *DailySetup) decimal.Decimal {
	broilerStock := day.TotalInitialStock()
	countryStock := day.TotalInitialCountryStock()

	countryLivePrice := day.ProductPrices.CountryChicken
	if !countryLivePrice.IsPositive() {
		countryLivePrice = day.PaperRate
	}

	switch day.EstimationMethod {
	case EstimateBySkinOutRate:
		broilerFactor := s.factors.Effective(ctx, conversion.CategoryBroiler, conversion.KindMeat)
		countryFactor := s.factors.Effective(ctx, conversion.CategoryCountry, conversion.KindMeat)

		countryMeatPrice := day.ProductPrices.EffectiveCountryMeat()
		if !countryMeatPrice.IsPositive() {
			countryMeatPrice = day.ShopRate
		}

		estimate := broilerStock.Div(broilerFactor).Mul(day.ShopRate).
			Add(countryStock.Div(countryFactor).Mul(countryMeatPrice))
		return types.Round2(estimate)

	default: // EstimateByLiveRate
		estimate := broilerStock.Mul(day.PaperRate).
			Add(countryStock.Mul(countryLivePrice))
		return types.Round2(estimate)
	}
}

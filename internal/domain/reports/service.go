package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/types"
	"meatpos/internal/domain/closing"
)

// Service generates reports over the closing archive.
type Service struct {
	closings closing.Repository
}

// NewService creates a new reports service.
func NewService(closings closing.Repository) *Service {
	return &Service{closings: closings}
}

// GetHistory lists closing records for a period, newest first.
func (s *Service) GetHistory(ctx context.Context, filter HistoryFilter) (*HistoryReport, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, apperror.NewValidation("from must not be after to").
			WithDetail("from", filter.From).
			WithDetail("to", filter.To)
	}

	items, err := s.closings.ListClosings(ctx, filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("list closings: %w", err)
	}

	total := len(items)
	if filter.Offset > 0 {
		if filter.Offset >= len(items) {
			items = nil
		} else {
			items = items[filter.Offset:]
		}
	}
	if len(items) > filter.Limit {
		items = items[:filter.Limit]
	}

	return &HistoryReport{Items: items, TotalItems: total}, nil
}

// GetStats summarizes the closed days in a period.
func (s *Service) GetStats(ctx context.Context, from, to string) (*StatsReport, error) {
	items, err := s.closings.ListClosings(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list closings: %w", err)
	}

	report := &StatsReport{
		From:       from,
		To:         to,
		DaysClosed: len(items),
	}
	if len(items) == 0 {
		return report, nil
	}

	var pctSum decimal.Decimal
	for _, c := range items {
		report.TotalEarnings = report.TotalEarnings.Add(c.ActualEarnings)
		report.TotalExpenses = report.TotalExpenses.Add(c.TotalExpenses)
		report.TotalNet = report.TotalNet.Add(c.NetEarnings)
		report.TotalDiscounts = report.TotalDiscounts.Add(c.TotalDiscounts)
		report.TotalWeightLoss = report.TotalWeightLoss.Add(c.WeightLoss).Add(c.CountryWeightLoss)
		report.TotalBirdLoss += c.BirdLoss + c.CountryBirdLoss
		pctSum = pctSum.Add(c.WeightLossPercentage)
	}

	days := decimal.NewFromInt(int64(len(items)))
	report.TotalEarnings = types.Round2(report.TotalEarnings)
	report.TotalExpenses = types.Round2(report.TotalExpenses)
	report.TotalNet = types.Round2(report.TotalNet)
	report.TotalDiscounts = types.Round2(report.TotalDiscounts)
	report.TotalWeightLoss = types.Round2(report.TotalWeightLoss)
	report.AvgWeightLossPercentage = types.Round2(pctSum.Div(days))
	report.AvgNetPerDay = types.Round2(report.TotalNet.Div(days))

	return report, nil
}

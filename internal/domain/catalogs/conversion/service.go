package conversion

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/id"
	"meatpos/pkg/logger"
)

// Service provides business operations for the conversion factor catalog.
type Service struct {
	repo Repository
}

// NewService creates a new conversion factor service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all factors for a category. It never fails towards the
// caller: when the catalog is empty or unreachable the seeded defaults
// are returned instead.
func (s *Service) List(ctx context.Context, category Category) ([]*Factor, error) {
	factors, err := s.repo.ListByCategory(ctx, category)
	if err != nil || len(factors) == 0 {
		if err != nil {
			logger.Warn(ctx, "conversion catalog unavailable, serving defaults",
				"category", category,
				"error", err,
			)
		}
		return defaultsForCategory(category), nil
	}
	return factors, nil
}

// All returns every factor across categories, with the same default
// fallback as List.
func (s *Service) All(ctx context.Context) ([]*Factor, error) {
	factors, err := s.repo.ListAll(ctx)
	if err != nil || len(factors) == 0 {
		if err != nil {
			logger.Warn(ctx, "conversion catalog unavailable, serving defaults", "error", err)
		}
		return append(defaultsForCategory(CategoryBroiler), defaultsForCategory(CategoryCountry)...), nil
	}
	return factors, nil
}

// Get returns a single factor by ID.
func (s *Service) Get(ctx context.Context, factorID id.ID) (*Factor, error) {
	return s.repo.GetByID(ctx, factorID)
}

// Update applies a tracked value change to a factor.
//
// Non-positive values and unchanged values are treated as successful
// no-ops: nothing is written and history does not grow. Otherwise the
// prior value is prepended to history and the current fields are
// overwritten.
func (s *Service) Update(ctx context.Context, factorID id.ID, newValue decimal.Decimal, modifiedBy, notes string) error {
	if !newValue.IsPositive() {
		logger.Warn(ctx, "ignoring non-positive conversion factor update",
			"factor_id", factorID,
			"value", newValue,
		)
		return nil
	}

	factor, err := s.repo.GetByID(ctx, factorID)
	if err != nil {
		return fmt.Errorf("get factor: %w", err)
	}

	if factor.Value.Equal(newValue) {
		return nil
	}

	factor.supersede(newValue, modifiedBy, notes, time.Now().UTC())

	if err := s.repo.Update(ctx, factor); err != nil {
		return fmt.Errorf("update factor: %w", err)
	}

	logger.Info(ctx, "conversion factor updated",
		"factor_id", factorID,
		"name", factor.Name,
		"value", factor.Value,
		"modified_by", modifiedBy,
	)

	return nil
}

// FlatHistoryEntry is one row of the flattened audit view: either the
// current value of a factor or one of its superseded values.
type FlatHistoryEntry struct {
	FactorID   id.ID           `json:"factorId"`
	FactorName string          `json:"factorName"`
	Category   Category        `json:"category"`
	Kind       Kind            `json:"kind"`
	Value      decimal.Decimal `json:"value"`
	Timestamp  time.Time       `json:"timestamp"`
	ModifiedBy string          `json:"modifiedBy"`
	Notes      string          `json:"notes"`
	IsCurrent  bool            `json:"isCurrent"`
}

// History flattens every factor's current value plus all historical
// entries into one list, sorted most-recent-first. Powers audit and
// trend views.
func (s *Service) History(ctx context.Context) ([]FlatHistoryEntry, error) {
	factors, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list factors: %w", err)
	}

	var entries []FlatHistoryEntry
	for _, f := range factors {
		entries = append(entries, FlatHistoryEntry{
			FactorID:   f.ID,
			FactorName: f.Name,
			Category:   f.Category,
			Kind:       f.Kind,
			Value:      f.Value,
			Timestamp:  f.UpdatedAt,
			ModifiedBy: orSystem(f.LastModifiedBy),
			Notes:      f.LastModifiedNotes,
			IsCurrent:  true,
		})
		for _, h := range f.History {
			entries = append(entries, FlatHistoryEntry{
				FactorID:   f.ID,
				FactorName: f.Name,
				Category:   f.Category,
				Kind:       f.Kind,
				Value:      h.Value,
				Timestamp:  h.Timestamp,
				ModifiedBy: h.ModifiedBy,
				Notes:      h.Notes,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	return entries, nil
}

// Effective resolves the factor value to use for a category and kind.
// Missing or non-positive values degrade to the documented defaults so
// that dependent computations never divide by zero.
func (s *Service) Effective(ctx context.Context, category Category, kind Kind) decimal.Decimal {
	factors, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		logger.Warn(ctx, "conversion catalog unavailable, using default factor",
			"category", category,
			"kind", kind,
			"error", err,
		)
		return DefaultValue(category, kind)
	}

	for _, f := range factors {
		if f.Kind == kind && f.Value.IsPositive() {
			return f.Value
		}
	}
	return DefaultValue(category, kind)
}

func defaultsForCategory(category Category) []*Factor {
	var out []*Factor
	for _, f := range DefaultFactors() {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

func orSystem(s string) string {
	if s == "" {
		return "System"
	}
	return s
}

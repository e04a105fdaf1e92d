// Package conversion provides the conversion factor catalog.
// A conversion factor is the ratio of live bird weight to processed
// (dressed) weight for a chicken category. Factors are versioned:
// every tracked update prepends the superseded value to the history.
package conversion

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/entity"
	"meatpos/internal/core/types"
)

// Category identifies the chicken line a factor belongs to.
type Category string

const (
	CategoryBroiler Category = "broiler"
	CategoryCountry Category = "country"
)

// Kind identifies the processed form the factor converts to.
type Kind string

const (
	KindMeat        Kind = "meat"
	KindWithSkin    Kind = "with_skin"
	KindWithoutSkin Kind = "without_skin"
)

// HistoryEntry records a superseded factor value.
type HistoryEntry struct {
	Value      decimal.Decimal `json:"value"`
	Timestamp  time.Time       `json:"timestamp"`
	ModifiedBy string          `json:"modifiedBy"`
	Notes      string          `json:"notes"`
}

// Factor represents a conversion factor with its change history.
type Factor struct {
	entity.BaseCatalog

	Name     string   `db:"name" json:"name"`
	Category Category `db:"category" json:"category"`
	Kind     Kind     `db:"kind" json:"kind"`

	// Value is the current ratio (> 0, typically > 1).
	Value decimal.Decimal `db:"value" json:"value"`

	// History holds superseded values, most recent first (JSONB).
	History []HistoryEntry `db:"history" json:"history"`

	LastModifiedBy    string    `db:"last_modified_by" json:"lastModifiedBy,omitempty"`
	LastModifiedNotes string    `db:"last_modified_notes" json:"lastModifiedNotes,omitempty"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// NewFactor creates a factor with the given current value.
func NewFactor(name string, category Category, kind Kind, value decimal.Decimal) *Factor {
	return &Factor{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
		Category:    category,
		Kind:        kind,
		Value:       value,
		History:     []HistoryEntry{},
		UpdatedAt:   time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (f *Factor) Validate(ctx context.Context) error {
	if f.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if !isValidCategory(f.Category) {
		return apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(f.Category))
	}
	if !isValidKind(f.Kind) {
		return apperror.NewValidation("invalid kind").
			WithDetail("field", "kind").
			WithDetail("value", string(f.Kind))
	}
	if !f.Value.IsPositive() {
		return apperror.NewValidation("value must be positive").
			WithDetail("field", "value")
	}
	return nil
}

// supersede pushes the current value onto the history and overwrites
// the current fields. History is most-recent-first; the initial value
// only enters history once it is superseded.
func (f *Factor) supersede(newValue decimal.Decimal, modifiedBy, notes string, now time.Time) {
	prev := HistoryEntry{
		Value:      f.Value,
		Timestamp:  f.UpdatedAt,
		ModifiedBy: f.LastModifiedBy,
		Notes:      f.LastModifiedNotes,
	}
	if prev.ModifiedBy == "" {
		prev.ModifiedBy = "System"
	}
	if prev.Notes == "" {
		prev.Notes = "Initial value"
	}

	f.History = append([]HistoryEntry{prev}, f.History...)
	f.Value = newValue
	f.LastModifiedBy = modifiedBy
	f.LastModifiedNotes = notes
	f.UpdatedAt = now
}

// --- Defaults ---

// Default seed values. Every computation that depends on a factor
// degrades to these instead of failing when the catalog is empty or
// holds a non-positive value.
var defaults = map[Category]map[Kind]decimal.Decimal{
	CategoryBroiler: {
		KindMeat:        types.MustMoney("1.45"),
		KindWithSkin:    types.MustMoney("1.25"),
		KindWithoutSkin: types.MustMoney("1.35"),
	},
	CategoryCountry: {
		KindMeat:        types.MustMoney("1.65"),
		KindWithSkin:    types.MustMoney("1.45"),
		KindWithoutSkin: types.MustMoney("1.55"),
	},
}

// DefaultValue returns the fallback factor for a category and kind.
func DefaultValue(category Category, kind Kind) decimal.Decimal {
	if byKind, ok := defaults[category]; ok {
		if v, ok := byKind[kind]; ok {
			return v
		}
	}
	// Unknown combination: broiler meat is the most conservative ratio.
	return defaults[CategoryBroiler][KindMeat]
}

// DefaultFactors returns a freshly built default factor set for seeding
// and for read paths when the catalog is empty.
func DefaultFactors() []*Factor {
	names := map[Kind]string{
		KindMeat:        "Meat",
		KindWithSkin:    "With Skin",
		KindWithoutSkin: "Without Skin",
	}
	labels := map[Category]string{
		CategoryBroiler: "Broiler",
		CategoryCountry: "Country Chicken",
	}

	out := make([]*Factor, 0, 6)
	for _, cat := range []Category{CategoryBroiler, CategoryCountry} {
		for _, kind := range []Kind{KindMeat, KindWithSkin, KindWithoutSkin} {
			out = append(out, NewFactor(
				labels[cat]+" "+names[kind],
				cat, kind,
				defaults[cat][kind],
			))
		}
	}
	return out
}

// --- Validation helpers ---

func isValidCategory(c Category) bool {
	return c == CategoryBroiler || c == CategoryCountry
}

func isValidKind(k Kind) bool {
	switch k {
	case KindMeat, KindWithSkin, KindWithoutSkin:
		return true
	}
	return false
}

// Package catalog_repo implements catalog repositories over PostgreSQL.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/domain/catalogs/conversion"
	"meatpos/internal/infrastructure/storage/postgres"
)

const conversionTable = "conversion_factors"

// ConversionRepo implements conversion.Repository.
type ConversionRepo struct {
	txm     *postgres.TxManager
	columns []string
}

// NewConversionRepo creates a new conversion factor repository.
func NewConversionRepo(txm *postgres.TxManager) *ConversionRepo {
	return &ConversionRepo{
		txm:     txm,
		columns: postgres.ExtractDBColumns[conversion.Factor](),
	}
}

func (r *ConversionRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.columns...).From(conversionTable)
}

// Create inserts a new factor.
func (r *ConversionRepo) Create(ctx context.Context, f *conversion.Factor) error {
	values := postgres.StructToMap(f)

	sql, args, err := postgres.Builder().
		Insert(conversionTable).
		SetMap(values).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert conversion factor: %w", err)
	}
	return nil
}

// Update persists a changed factor with optimistic locking on version.
func (r *ConversionRepo) Update(ctx context.Context, f *conversion.Factor) error {
	values := postgres.StructToMap(f)
	currentVersion := f.Version
	values["version"] = currentVersion + 1
	delete(values, "id")

	sql, args, err := postgres.Builder().
		Update(conversionTable).
		SetMap(values).
		Where(squirrel.Eq{"id": f.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update conversion factor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("conversion factor", f.ID)
	}

	f.SetVersion(currentVersion + 1)
	return nil
}

// GetByID retrieves a factor by ID.
func (r *ConversionRepo) GetByID(ctx context.Context, factorID id.ID) (*conversion.Factor, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": factorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var f conversion.Factor
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &f, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("conversion factor", factorID)
		}
		return nil, fmt.Errorf("get conversion factor: %w", err)
	}
	return &f, nil
}

// ListByCategory retrieves the factors for one chicken category.
func (r *ConversionRepo) ListByCategory(ctx context.Context, category conversion.Category) ([]*conversion.Factor, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"category": category}).
		OrderBy("kind").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var factors []*conversion.Factor
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &factors, sql, args...); err != nil {
		return nil, fmt.Errorf("list conversion factors: %w", err)
	}
	return factors, nil
}

// ListAll retrieves every factor.
func (r *ConversionRepo) ListAll(ctx context.Context) ([]*conversion.Factor, error) {
	sql, args, err := r.baseSelect().
		OrderBy("category", "kind").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var factors []*conversion.Factor
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &factors, sql, args...); err != nil {
		return nil, fmt.Errorf("list conversion factors: %w", err)
	}
	return factors, nil
}

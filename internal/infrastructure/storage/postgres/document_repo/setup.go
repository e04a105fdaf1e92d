// Package document_repo implements document repositories over PostgreSQL.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meatpos/internal/core/apperror"
	"meatpos/internal/domain/documents/setup"
	"meatpos/internal/infrastructure/storage/postgres"
)

const setupTable = "daily_setups"

// SetupRepo implements setup.Repository.
type SetupRepo struct {
	txm     *postgres.TxManager
	columns []string
}

// NewSetupRepo creates a new daily setup repository.
func NewSetupRepo(txm *postgres.TxManager) *SetupRepo {
	return &SetupRepo{
		txm:     txm,
		columns: postgres.ExtractDBColumns[setup.DailySetup](),
	}
}

func (r *SetupRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.columns...).From(setupTable)
}

// Create inserts a new daily setup.
func (r *SetupRepo) Create(ctx context.Context, s *setup.DailySetup) error {
	sql, args, err := postgres.Builder().
		Insert(setupTable).
		SetMap(postgres.StructToMap(s)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert daily setup: %w", err)
	}
	return nil
}

// Update persists a changed setup with optimistic locking on version.
func (r *SetupRepo) Update(ctx context.Context, s *setup.DailySetup) error {
	values := postgres.StructToMap(s)
	currentVersion := s.Version
	values["version"] = currentVersion + 1
	delete(values, "id")

	sql, args, err := postgres.Builder().
		Update(setupTable).
		SetMap(values).
		Where(squirrel.Eq{"id": s.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update daily setup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("daily setup", s.ID)
	}

	s.SetVersion(currentVersion + 1)
	return nil
}

// GetActive retrieves the single active setup.
func (r *SetupRepo) GetActive(ctx context.Context) (*setup.DailySetup, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"is_active": true}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s setup.DailySetup
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("daily setup", "active")
		}
		return nil, fmt.Errorf("get active setup: %w", err)
	}
	return &s, nil
}

// GetByDate retrieves the setup for a business day.
func (r *SetupRepo) GetByDate(ctx context.Context, date string) (*setup.DailySetup, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s setup.DailySetup
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("daily setup", date)
		}
		return nil, fmt.Errorf("get setup by date: %w", err)
	}
	return &s, nil
}

// DeactivateAll clears the active flag on every setup.
func (r *SetupRepo) DeactivateAll(ctx context.Context) error {
	sql, args, err := postgres.Builder().
		Update(setupTable).
		Set("is_active", false).
		Where(squirrel.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("deactivate setups: %w", err)
	}
	return nil
}

// Package closing_repo implements the day-closing repository over
// PostgreSQL. Closing records live in a regular table; archived day
// snapshots are stored as zstd-compressed JSON blobs.
package closing_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meatpos/internal/core/apperror"
	"meatpos/internal/domain/closing"
	"meatpos/internal/infrastructure/storage/postgres"
)

const closingTable = "daily_closings"

// ClosingRepo implements closing.Repository.
type ClosingRepo struct {
	txm      *postgres.TxManager
	columns  []string
	archiver *snapshotArchiver
}

// NewClosingRepo creates a new closing repository.
func NewClosingRepo(txm *postgres.TxManager) (*ClosingRepo, error) {
	archiver, err := newSnapshotArchiver(txm)
	if err != nil {
		return nil, err
	}
	return &ClosingRepo{
		txm:      txm,
		columns:  postgres.ExtractDBColumns[closing.DailyClosing](),
		archiver: archiver,
	}, nil
}

func (r *ClosingRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.columns...).From(closingTable)
}

// CreateClosing inserts the reconciliation record.
func (r *ClosingRepo) CreateClosing(ctx context.Context, c *closing.DailyClosing) error {
	sql, args, err := postgres.Builder().
		Insert(closingTable).
		SetMap(postgres.StructToMap(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert daily closing: %w", err)
	}
	return nil
}

// GetClosingByDate retrieves a day's closing record.
func (r *ClosingRepo) GetClosingByDate(ctx context.Context, date string) (*closing.DailyClosing, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c closing.DailyClosing
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("daily closing", date)
		}
		return nil, fmt.Errorf("get daily closing: %w", err)
	}
	return &c, nil
}

// ListClosings retrieves closing records in a date range, newest first.
func (r *ClosingRepo) ListClosings(ctx context.Context, from, to string) ([]*closing.DailyClosing, error) {
	q := r.baseSelect().OrderBy("date DESC")
	if from != "" {
		q = q.Where(squirrel.GtOrEq{"date": from})
	}
	if to != "" {
		q = q.Where(squirrel.LtOrEq{"date": to})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var closings []*closing.DailyClosing
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &closings, sql, args...); err != nil {
		return nil, fmt.Errorf("list daily closings: %w", err)
	}
	return closings, nil
}

// ArchiveDay stores the closed-day snapshot.
func (r *ClosingRepo) ArchiveDay(ctx context.Context, day *closing.ClosedDay) error {
	return r.archiver.store(ctx, day)
}

// GetArchivedDay retrieves an archived snapshot.
func (r *ClosingRepo) GetArchivedDay(ctx context.Context, date string) (*closing.ClosedDay, error) {
	return r.archiver.load(ctx, date)
}

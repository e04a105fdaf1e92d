package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/domain/documents/bill"
	"meatpos/internal/infrastructure/storage/postgres"
)

const billTable = "bills"

// BillRepo implements bill.Repository.
type BillRepo struct {
	txm     *postgres.TxManager
	columns []string
}

// NewBillRepo creates a new bill repository.
func NewBillRepo(txm *postgres.TxManager) *BillRepo {
	return &BillRepo{
		txm:     txm,
		columns: postgres.ExtractDBColumns[bill.Bill](),
	}
}

func (r *BillRepo) baseSelect() squirrel.SelectBuilder {
	return postgres.Builder().Select(r.columns...).From(billTable)
}

// Create inserts a new bill.
func (r *BillRepo) Create(ctx context.Context, b *bill.Bill) error {
	sql, args, err := postgres.Builder().
		Insert(billTable).
		SetMap(postgres.StructToMap(b)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// Update persists a changed bill with optimistic locking on version.
func (r *BillRepo) Update(ctx context.Context, b *bill.Bill) error {
	values := postgres.StructToMap(b)
	currentVersion := b.Version
	values["version"] = currentVersion + 1
	delete(values, "id")

	sql, args, err := postgres.Builder().
		Update(billTable).
		SetMap(values).
		Where(squirrel.Eq{"id": b.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("bill", b.ID)
	}

	b.SetVersion(currentVersion + 1)
	return nil
}

// GetByID retrieves a bill by ID.
func (r *BillRepo) GetByID(ctx context.Context, billID id.ID) (*bill.Bill, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": billID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b bill.Bill
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("bill", billID)
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// ListByDate retrieves a day's bills, oldest first.
func (r *BillRepo) ListByDate(ctx context.Context, date string) ([]*bill.Bill, error) {
	return r.list(ctx, squirrel.Eq{"date": date})
}

// ListByCategory retrieves a day's bills for one sale channel.
func (r *BillRepo) ListByCategory(ctx context.Context, date string, category bill.Category) ([]*bill.Bill, error) {
	return r.list(ctx, squirrel.Eq{"date": date, "category": category})
}

// ListByChickenType retrieves a day's bills for one product line.
func (r *BillRepo) ListByChickenType(ctx context.Context, date string, chickenType bill.ChickenType) ([]*bill.Bill, error) {
	return r.list(ctx, squirrel.Eq{"date": date, "chicken_type": chickenType})
}

func (r *BillRepo) list(ctx context.Context, where squirrel.Eq) ([]*bill.Bill, error) {
	sql, args, err := r.baseSelect().
		Where(where).
		OrderBy("timestamp").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var bills []*bill.Bill
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &bills, sql, args...); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

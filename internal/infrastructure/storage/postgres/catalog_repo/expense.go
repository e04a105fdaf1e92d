package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/domain/catalogs/expense"
	"meatpos/internal/infrastructure/storage/postgres"
)

const (
	expenseCategoryTable = "expense_categories"
	expenseEntryTable    = "expenses"
)

// ExpenseCategoryRepo implements expense.CategoryRepository.
type ExpenseCategoryRepo struct {
	txm     *postgres.TxManager
	columns []string
}

// NewExpenseCategoryRepo creates a new expense category repository.
func NewExpenseCategoryRepo(txm *postgres.TxManager) *ExpenseCategoryRepo {
	return &ExpenseCategoryRepo{
		txm:     txm,
		columns: postgres.ExtractDBColumns[expense.Category](),
	}
}

// Create inserts a new category.
func (r *ExpenseCategoryRepo) Create(ctx context.Context, c *expense.Category) error {
	sql, args, err := postgres.Builder().
		Insert(expenseCategoryTable).
		SetMap(postgres.StructToMap(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense category: %w", err)
	}
	return nil
}

// Update renames a category with optimistic locking.
func (r *ExpenseCategoryRepo) Update(ctx context.Context, c *expense.Category) error {
	values := postgres.StructToMap(c)
	currentVersion := c.Version
	values["version"] = currentVersion + 1
	delete(values, "id")

	sql, args, err := postgres.Builder().
		Update(expenseCategoryTable).
		SetMap(values).
		Where(squirrel.Eq{"id": c.ID, "version": currentVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update expense category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("expense category", c.ID)
	}

	c.SetVersion(currentVersion + 1)
	return nil
}

// Delete removes a category.
func (r *ExpenseCategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	sql, args, err := postgres.Builder().
		Delete(expenseCategoryTable).
		Where(squirrel.Eq{"id": categoryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete expense category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("expense category", categoryID)
	}
	return nil
}

// GetByID retrieves a category by ID.
func (r *ExpenseCategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*expense.Category, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(expenseCategoryTable).
		Where(squirrel.Eq{"id": categoryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c expense.Category
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("expense category", categoryID)
		}
		return nil, fmt.Errorf("get expense category: %w", err)
	}
	return &c, nil
}

// ListAll retrieves every category ordered by name.
func (r *ExpenseCategoryRepo) ListAll(ctx context.Context) ([]*expense.Category, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(expenseCategoryTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []*expense.Category
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list expense categories: %w", err)
	}
	return categories, nil
}

// ExpenseEntryRepo implements expense.EntryRepository.
type ExpenseEntryRepo struct {
	txm     *postgres.TxManager
	columns []string
}

// NewExpenseEntryRepo creates a new expense entry repository.
func NewExpenseEntryRepo(txm *postgres.TxManager) *ExpenseEntryRepo {
	return &ExpenseEntryRepo{
		txm:     txm,
		columns: postgres.ExtractDBColumns[expense.Entry](),
	}
}

// Create inserts a new expense entry.
func (r *ExpenseEntryRepo) Create(ctx context.Context, e *expense.Entry) error {
	sql, args, err := postgres.Builder().
		Insert(expenseEntryTable).
		SetMap(postgres.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (r *ExpenseEntryRepo) Delete(ctx context.Context, entryID id.ID) error {
	sql, args, err := postgres.Builder().
		Delete(expenseEntryTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("expense", entryID)
	}
	return nil
}

// GetByID retrieves an entry by ID.
func (r *ExpenseEntryRepo) GetByID(ctx context.Context, entryID id.ID) (*expense.Entry, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(expenseEntryTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var e expense.Entry
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("expense", entryID)
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &e, nil
}

// ListByDate retrieves a day's entries, oldest first.
func (r *ExpenseEntryRepo) ListByDate(ctx context.Context, date string) ([]*expense.Entry, error) {
	sql, args, err := postgres.Builder().
		Select(r.columns...).
		From(expenseEntryTable).
		Where(squirrel.Eq{"date": date}).
		OrderBy("timestamp").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*expense.Entry
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return entries, nil
}

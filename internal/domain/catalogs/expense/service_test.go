package expense

import (
	"context"
	"testing"

	"meatpos/internal/core/apperror"
	"meatpos/internal/core/id"
	"meatpos/internal/core/types"
)

type fakeCategoryRepo struct {
	categories map[id.ID]*Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[id.ID]*Category)}
}

func (r *fakeCategoryRepo) Create(ctx context.Context, c *Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) Update(ctx context.Context, c *Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	delete(r.categories, categoryID)
	return nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	c, ok := r.categories[categoryID]
	if !ok {
		return nil, apperror.NewNotFound("expense category", categoryID.String())
	}
	return c, nil
}

func (r *fakeCategoryRepo) ListAll(ctx context.Context) ([]*Category, error) {
	var out []*Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

type fakeEntryRepo struct {
	entries map[id.ID]*Entry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[id.ID]*Entry)}
}

func (r *fakeEntryRepo) Create(ctx context.Context, e *Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) Delete(ctx context.Context, entryID id.ID) error {
	delete(r.entries, entryID)
	return nil
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	e, ok := r.entries[entryID]
	if !ok {
		return nil, apperror.NewNotFound("expense entry", entryID.String())
	}
	return e, nil
}

func (r *fakeEntryRepo) ListByDate(ctx context.Context, date string) ([]*Entry, error) {
	var out []*Entry
	for _, e := range r.entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService() (*Service, *fakeCategoryRepo, *fakeEntryRepo) {
	categories := newFakeCategoryRepo()
	entries := newFakeEntryRepo()
	return NewService(categories, entries), categories, entries
}

func TestCreateCategory(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, "  Transport  ")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if category.Name != "Transport" {
		t.Errorf("name = %q, want trimmed Transport", category.Name)
	}

	if _, err := service.CreateCategory(ctx, "transport"); err == nil {
		t.Error("case-insensitive duplicate name should fail")
	}

	if _, err := service.CreateCategory(ctx, "   "); err == nil {
		t.Error("blank name should fail")
	}
}

func TestRecord_UnknownCategory(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Record(context.Background(), id.New(), "2025-03-10", types.MustMoney("100"))
	if err == nil {
		t.Fatal("expected not-found error for unknown category")
	}
	if !apperror.IsNotFound(err) {
		t.Errorf("error = %v, want not found", err)
	}
}

func TestRecord_RejectsNonPositiveAmount(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, "Transport")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	for _, amount := range []string{"0", "-50"} {
		if _, err := service.Record(ctx, category.ID, "2025-03-10", types.MustMoney(amount)); err == nil {
			t.Errorf("amount %s should fail validation", amount)
		}
	}
}

func TestTotalsForDay(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	transport, err := service.CreateCategory(ctx, "Transport")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	wages, err := service.CreateCategory(ctx, "Wages")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	amounts := []struct {
		category id.ID
		date     string
		amount   string
	}{
		{transport.ID, "2025-03-10", "200"},
		{transport.ID, "2025-03-10", "150"},
		{wages.ID, "2025-03-10", "1200"},
		{transport.ID, "2025-03-11", "999"},
	}
	for _, a := range amounts {
		if _, err := service.Record(ctx, a.category, a.date, types.MustMoney(a.amount)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	totals, err := service.TotalsForDay(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("TotalsForDay failed: %v", err)
	}

	if len(totals) != 2 {
		t.Fatalf("totals has %d categories, want 2", len(totals))
	}
	if !totals[transport.ID].Equal(types.MustMoney("350")) {
		t.Errorf("transport total = %s, want 350", totals[transport.ID])
	}
	if !totals[wages.ID].Equal(types.MustMoney("1200")) {
		t.Errorf("wages total = %s, want 1200", totals[wages.ID])
	}
}

func TestRemove(t *testing.T) {
	service, _, entries := newTestService()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, "Transport")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	entry, err := service.Record(ctx, category.ID, "2025-03-10", types.MustMoney("100"))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if err := service.Remove(ctx, entry.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(entries.entries) != 0 {
		t.Errorf("entries left = %d, want 0", len(entries.entries))
	}
}

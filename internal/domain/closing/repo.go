package closing

import (
	"context"
)

// Repository persists closing records and archived day snapshots.
type Repository interface {
	// CreateClosing inserts the reconciliation record.
	CreateClosing(ctx context.Context, c *DailyClosing) error

	// GetClosingByDate retrieves a day's closing record.
	GetClosingByDate(ctx context.Context, date string) (*DailyClosing, error)

	// ListClosings retrieves closing records in a date range, newest
	// first. Empty bounds are open-ended.
	ListClosings(ctx context.Context, from, to string) ([]*DailyClosing, error)

	// ArchiveDay stores the closed-day snapshot.
	ArchiveDay(ctx context.Context, day *ClosedDay) error

	// GetArchivedDay retrieves an archived snapshot.
	GetArchivedDay(ctx context.Context, date string) (*ClosedDay, error)
}

// Package repo contains all database access logic for the name store.
// Each dialect has its own file implementing the same interfaces.
// No business logic lives here — only SQL and type mapping. Inputs are
// expected to be normalized by the service layer.
package repo

import (
	"context"

	"github.com/pkordes/prenoms/internal/domain"
)

// NameRepo defines the read operations on the name_stats table.
// The service layer depends on this interface, not on a dialect, which
// allows it to be unit-tested with a mock.
type NameRepo interface {
	// SearchByPrefix returns distinct (name, gender) pairs whose name starts
	// with prefix, ordered by name then gender, at most limit rows.
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]domain.NameMatch, error)

	// Series returns every record of name ordered by year then gender.
	Series(ctx context.Context, name string) ([]domain.SeriesPoint, error)

	// SeriesMultiple returns every record whose name is one of names,
	// ordered by name, year, gender.
	SeriesMultiple(ctx context.Context, names []string) ([]domain.NameRecord, error)

	// GrowthStats returns, for every name whose reference-year total lies in
	// [c.MinCount, c.MaxCount] and which has data in both windows, the
	// reference total and the mean yearly totals of each window, ordered by name.
	// GrowthPercent is left to the caller.
	GrowthStats(ctx context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error)
}

// ImportRepo defines the write operations used by the one-time import.
type ImportRepo interface {
	// Clear deletes every row of name_stats.
	Clear(ctx context.Context) error

	// InsertBatch inserts records in a single round of work.
	InsertBatch(ctx context.Context, records []domain.NameRecord) error
}

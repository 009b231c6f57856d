package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/prenoms/internal/domain"
)

// pgDB is the minimal interface satisfied by *pgxpool.Pool, *pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresRepo is the Postgres implementation of NameRepo and ImportRepo.
type PostgresRepo struct {
	db pgDB
}

// NewPostgresRepo constructs a Postgres-backed repo.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresRepo(db pgDB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// SearchByPrefix relies on the "C" collation of name_stats.name: ordering is
// bytewise and the btree index serves the LIKE prefix.
func (r *PostgresRepo) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]domain.NameMatch, error) {
	const q = `
		SELECT DISTINCT name, gender
		FROM name_stats
		WHERE name LIKE @pattern ESCAPE '\'
		ORDER BY name, gender
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pattern": escapeLike(prefix) + "%", "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SearchByPrefix: %w", err)
	}

	matches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.NameMatch, error) {
		var m domain.NameMatch
		err := row.Scan(&m.Name, &m.Gender)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SearchByPrefix: scan: %w", err)
	}
	return matches, nil
}

func (r *PostgresRepo) Series(ctx context.Context, name string) ([]domain.SeriesPoint, error) {
	const q = `
		SELECT year, count, gender
		FROM name_stats
		WHERE name = @name
		ORDER BY year, gender`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"name": name})
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.Series: %w", err)
	}

	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SeriesPoint, error) {
		var p domain.SeriesPoint
		err := row.Scan(&p.Year, &p.Count, &p.Gender)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.Series: scan: %w", err)
	}
	return points, nil
}

func (r *PostgresRepo) SeriesMultiple(ctx context.Context, names []string) ([]domain.NameRecord, error) {
	const q = `
		SELECT name, year, count, gender
		FROM name_stats
		WHERE name = ANY(@names)
		ORDER BY name, year, gender`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"names": names})
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SeriesMultiple: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanPgRecord)
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SeriesMultiple: scan: %w", err)
	}
	return records, nil
}

func (r *PostgresRepo) GrowthStats(ctx context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error) {
	const q = `
		WITH yearly AS (
			SELECT name, year, SUM(count) AS total
			FROM name_stats
			GROUP BY name, year
		),
		ref AS (
			SELECT name, total FROM yearly
			WHERE year = @ref_year AND total BETWEEN @min_count AND @max_count
		),
		head AS (
			SELECT name, AVG(total)::float8 AS avg_total FROM yearly
			WHERE year BETWEEN @start_from AND @start_to
			GROUP BY name
		),
		tail AS (
			SELECT name, AVG(total)::float8 AS avg_total FROM yearly
			WHERE year BETWEEN @end_from AND @end_to
			GROUP BY name
		)
		SELECT ref.name, ref.total, head.avg_total, tail.avg_total
		FROM ref
		JOIN head ON head.name = ref.name
		JOIN tail ON tail.name = ref.name
		ORDER BY ref.name`

	startFrom, startTo := c.StartWindow()
	endFrom, endTo := c.EndWindow()
	args := pgx.NamedArgs{
		"ref_year":   c.ReferenceYear,
		"min_count":  c.MinCount,
		"max_count":  c.MaxCount,
		"start_from": startFrom,
		"start_to":   startTo,
		"end_from":   endFrom,
		"end_to":     endTo,
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.GrowthStats: %w", err)
	}

	stats, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.GrowthStat, error) {
		var (
			g     domain.GrowthStat
			total int64
		)
		err := row.Scan(&g.Name, &total, &g.StartAverage, &g.EndAverage)
		g.ReferenceCount = int(total)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.GrowthStats: scan: %w", err)
	}
	return stats, nil
}

func (r *PostgresRepo) Clear(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM name_stats`); err != nil {
		return fmt.Errorf("repo.ImportRepo.Clear: %w", err)
	}
	return nil
}

// InsertBatch streams the batch with COPY; the table is cleared before a
// load so the unique index never rejects a row mid-copy.
func (r *PostgresRepo) InsertBatch(ctx context.Context, records []domain.NameRecord) error {
	if len(records) == 0 {
		return nil
	}
	src := pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		rec := records[i]
		return []any{rec.Name, int16(rec.Gender), rec.Year, rec.Count}, nil
	})
	_, err := r.db.CopyFrom(ctx, pgx.Identifier{"name_stats"}, []string{"name", "gender", "year", "count"}, src)
	if err != nil {
		return fmt.Errorf("repo.ImportRepo.InsertBatch: %w", err)
	}
	return nil
}

// scanPgRecord maps a (name, year, count, gender) row into a domain.NameRecord.
func scanPgRecord(row pgx.CollectableRow) (domain.NameRecord, error) {
	var rec domain.NameRecord
	err := row.Scan(&rec.Name, &rec.Year, &rec.Count, &rec.Gender)
	return rec, err
}

var (
	_ NameRepo   = (*PostgresRepo)(nil)
	_ ImportRepo = (*PostgresRepo)(nil)
)

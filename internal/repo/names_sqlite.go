package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkordes/prenoms/internal/domain"
)

// sqliteMaxRowsPerInsert keeps a multi-row INSERT well under SQLite's bound
// parameter limit (4 parameters per row).
const sqliteMaxRowsPerInsert = 200

// sqlDB is the subset of *sql.DB and *sql.Tx used by SQLiteRepo.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLiteRepo is the SQLite implementation of NameRepo and ImportRepo,
// used with modernc.org/sqlite for local files and tests.
type SQLiteRepo struct {
	db sqlDB
}

// NewSQLiteRepo constructs a SQLite-backed repo.
func NewSQLiteRepo(db sqlDB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

// SearchByPrefix uses GLOB rather than LIKE: SQLite's LIKE folds ASCII case,
// GLOB compares bytes and can use the name index for a literal prefix.
func (r *SQLiteRepo) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]domain.NameMatch, error) {
	const q = `
		SELECT DISTINCT name, gender
		FROM name_stats
		WHERE name GLOB ?
		ORDER BY name, gender
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, q, escapeGlob(prefix)+"*", limit)
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SearchByPrefix: %w", err)
	}
	defer rows.Close()

	matches := []domain.NameMatch{}
	for rows.Next() {
		var m domain.NameMatch
		if err := rows.Scan(&m.Name, &m.Gender); err != nil {
			return nil, fmt.Errorf("repo.NameRepo.SearchByPrefix: scan: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SearchByPrefix: rows: %w", err)
	}
	return matches, nil
}

func (r *SQLiteRepo) Series(ctx context.Context, name string) ([]domain.SeriesPoint, error) {
	const q = `
		SELECT year, count, gender
		FROM name_stats
		WHERE name = ?
		ORDER BY year, gender`

	rows, err := r.db.QueryContext(ctx, q, name)
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.Series: %w", err)
	}
	defer rows.Close()

	points := []domain.SeriesPoint{}
	for rows.Next() {
		var p domain.SeriesPoint
		if err := rows.Scan(&p.Year, &p.Count, &p.Gender); err != nil {
			return nil, fmt.Errorf("repo.NameRepo.Series: scan: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NameRepo.Series: rows: %w", err)
	}
	return points, nil
}

// SeriesMultiple passes the name set as one JSON array parameter expanded
// with json_each, so the statement text does not depend on len(names).
func (r *SQLiteRepo) SeriesMultiple(ctx context.Context, names []string) ([]domain.NameRecord, error) {
	const q = `
		SELECT name, year, count, gender
		FROM name_stats
		WHERE name IN (SELECT value FROM json_each(?))
		ORDER BY name, year, gender`

	set, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SeriesMultiple: encode names: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, q, string(set))
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SeriesMultiple: %w", err)
	}
	defer rows.Close()

	records := []domain.NameRecord{}
	for rows.Next() {
		var rec domain.NameRecord
		if err := rows.Scan(&rec.Name, &rec.Year, &rec.Count, &rec.Gender); err != nil {
			return nil, fmt.Errorf("repo.NameRepo.SeriesMultiple: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NameRepo.SeriesMultiple: rows: %w", err)
	}
	return records, nil
}

func (r *SQLiteRepo) GrowthStats(ctx context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error) {
	const q = `
		WITH yearly AS (
			SELECT name, year, SUM(count) AS total
			FROM name_stats
			GROUP BY name, year
		),
		ref AS (
			SELECT name, total FROM yearly
			WHERE year = ? AND total BETWEEN ? AND ?
		),
		head AS (
			SELECT name, AVG(total) AS avg_total FROM yearly
			WHERE year BETWEEN ? AND ?
			GROUP BY name
		),
		tail AS (
			SELECT name, AVG(total) AS avg_total FROM yearly
			WHERE year BETWEEN ? AND ?
			GROUP BY name
		)
		SELECT ref.name, ref.total, head.avg_total, tail.avg_total
		FROM ref
		JOIN head ON head.name = ref.name
		JOIN tail ON tail.name = ref.name
		ORDER BY ref.name`

	startFrom, startTo := c.StartWindow()
	endFrom, endTo := c.EndWindow()

	rows, err := r.db.QueryContext(ctx, q,
		c.ReferenceYear, c.MinCount, c.MaxCount,
		startFrom, startTo,
		endFrom, endTo,
	)
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.GrowthStats: %w", err)
	}
	defer rows.Close()

	stats := []domain.GrowthStat{}
	for rows.Next() {
		var g domain.GrowthStat
		if err := rows.Scan(&g.Name, &g.ReferenceCount, &g.StartAverage, &g.EndAverage); err != nil {
			return nil, fmt.Errorf("repo.NameRepo.GrowthStats: scan: %w", err)
		}
		stats = append(stats, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NameRepo.GrowthStats: rows: %w", err)
	}
	return stats, nil
}

func (r *SQLiteRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM name_stats`); err != nil {
		return fmt.Errorf("repo.ImportRepo.Clear: %w", err)
	}
	return nil
}

// InsertBatch writes records with multi-row INSERT statements of at most
// sqliteMaxRowsPerInsert rows each.
func (r *SQLiteRepo) InsertBatch(ctx context.Context, records []domain.NameRecord) error {
	for start := 0; start < len(records); start += sqliteMaxRowsPerInsert {
		end := min(start+sqliteMaxRowsPerInsert, len(records))
		chunk := records[start:end]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO name_stats (name, gender, year, count) VALUES `)
		args := make([]any, 0, len(chunk)*4)
		for i, rec := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
			args = append(args, rec.Name, int(rec.Gender), rec.Year, rec.Count)
		}

		if _, err := r.db.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("repo.ImportRepo.InsertBatch: %w", err)
		}
	}
	return nil
}

var (
	_ NameRepo   = (*SQLiteRepo)(nil)
	_ ImportRepo = (*SQLiteRepo)(nil)
)

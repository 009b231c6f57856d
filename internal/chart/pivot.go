// Package chart turns row-per-(name, year, gender) series into the
// row-per-year shape a line chart plots.
package chart

import (
	"maps"
	"slices"

	"github.com/pkordes/prenoms/internal/domain"
)

// Pivot groups records by year and sums Count per name across genders.
// When names is non-empty, records for any other name are ignored.
// Rows are ordered by strictly ascending year whatever the input order, and a
// name with no record in a year is absent from that row's Counts.
func Pivot(records []domain.NameRecord, names []string) []domain.ChartRow {
	var keep map[string]struct{}
	if len(names) > 0 {
		keep = make(map[string]struct{}, len(names))
		for _, n := range names {
			keep[n] = struct{}{}
		}
	}

	byYear := make(map[int]map[string]int)
	for _, r := range records {
		if keep != nil {
			if _, ok := keep[r.Name]; !ok {
				continue
			}
		}
		counts, ok := byYear[r.Year]
		if !ok {
			counts = make(map[string]int)
			byYear[r.Year] = counts
		}
		counts[r.Name] += r.Count
	}

	years := slices.Sorted(maps.Keys(byYear))
	rows := make([]domain.ChartRow, 0, len(years))
	for _, y := range years {
		rows = append(rows, domain.ChartRow{Year: y, Counts: byYear[y]})
	}
	return rows
}

// ZeroFill returns a copy of rows in which every row has an entry for each
// of names, 0 where the name had no record that year.
func ZeroFill(rows []domain.ChartRow, names []string) []domain.ChartRow {
	out := make([]domain.ChartRow, len(rows))
	for i, row := range rows {
		counts := make(map[string]int, len(names))
		maps.Copy(counts, row.Counts)
		for _, n := range names {
			if _, ok := counts[n]; !ok {
				counts[n] = 0
			}
		}
		out[i] = domain.ChartRow{Year: row.Year, Counts: counts}
	}
	return out
}

// Package service contains the business logic for the name statistics API.
// Services normalize and validate inputs, apply query thresholds, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/prenoms/internal/chart"
	"github.com/pkordes/prenoms/internal/domain"
	"github.com/pkordes/prenoms/internal/repo"
)

// NameService implements the read operations of the API.
type NameService struct {
	names repo.NameRepo

	// searches coalesces identical concurrent prefix searches.
	searches singleflight.Group

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a NameService.
type Option func(*NameService)

// WithRand sets the source used to sample discovery results.
func WithRand(r *rand.Rand) Option {
	return func(s *NameService) { s.rng = r }
}

// NewNameService constructs a NameService backed by the provided NameRepo.
func NewNameService(names repo.NameRepo, opts ...Option) *NameService {
	s := &NameService{names: names}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return s
}

// Search returns up to domain.SearchLimit distinct (name, gender) pairs whose
// name starts with query. Queries shorter than domain.MinQueryLength runes
// return an empty slice without touching the store.
func (s *NameService) Search(ctx context.Context, query string) ([]domain.NameMatch, error) {
	if !domain.SearchableQuery(query) {
		return []domain.NameMatch{}, nil
	}
	prefix := domain.NormalizeName(query)
	if !domain.SearchableQuery(prefix) {
		return []domain.NameMatch{}, nil
	}

	// The shared query runs detached so one caller going away does not
	// fail the others waiting on it.
	shared := context.WithoutCancel(ctx)
	ch := s.searches.DoChan(prefix, func() (any, error) {
		return s.names.SearchByPrefix(shared, prefix, domain.SearchLimit)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("service.NameService.Search: %w", res.Err)
		}
		matches := res.Val.([]domain.NameMatch)
		return slices.Clone(matches), nil
	}
}

// Series returns every (year, count, gender) point of name ordered by year.
// An unknown name yields an empty slice.
func (s *NameService) Series(ctx context.Context, name string) ([]domain.SeriesPoint, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		return []domain.SeriesPoint{}, nil
	}
	points, err := s.names.Series(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("service.NameService.Series: %w", err)
	}
	return points, nil
}

// SeriesMultiple returns the records of every requested name ordered by
// (name, year, gender). An empty request returns an empty slice without a
// store call.
func (s *NameService) SeriesMultiple(ctx context.Context, names []string) ([]domain.NameRecord, error) {
	names = domain.NormalizeNames(names)
	if len(names) == 0 {
		return []domain.NameRecord{}, nil
	}
	records, err := s.names.SeriesMultiple(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("service.NameService.SeriesMultiple: %w", err)
	}
	return records, nil
}

// Chart returns the pivoted series of names. Names absent in a year are
// omitted from that row unless zeroFill is set.
func (s *NameService) Chart(ctx context.Context, names []string, zeroFill bool) (domain.Chart, error) {
	names = domain.NormalizeNames(names)
	if len(names) == 0 {
		return domain.Chart{Names: []string{}, Rows: []domain.ChartRow{}}, nil
	}
	records, err := s.names.SeriesMultiple(ctx, names)
	if err != nil {
		return domain.Chart{}, fmt.Errorf("service.NameService.Chart: %w", err)
	}
	rows := chart.Pivot(records, names)
	if zeroFill {
		rows = chart.ZeroFill(rows, names)
	}
	return domain.Chart{Names: names, Rows: rows}, nil
}

// Discover returns names matching c: a reference-year total within
// [c.MinCount, c.MaxCount] and a smoothed growth of at least c.Threshold
// percent. When more than c.Sample names qualify, c.Sample of them are
// picked at random. Results are sorted by name.
func (s *NameService) Discover(ctx context.Context, c domain.DiscoverCriteria) ([]domain.GrowthStat, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	stats, err := s.names.GrowthStats(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("service.NameService.Discover: %w", err)
	}

	kept := make([]domain.GrowthStat, 0, len(stats))
	for _, st := range stats {
		st.GrowthPercent = st.Growth()
		if st.GrowthPercent >= c.Threshold {
			kept = append(kept, st)
		}
	}

	if len(kept) > c.Sample {
		s.mu.Lock()
		s.rng.Shuffle(len(kept), func(i, j int) { kept[i], kept[j] = kept[j], kept[i] })
		s.mu.Unlock()
		kept = kept[:c.Sample]
	}
	slices.SortFunc(kept, func(a, b domain.GrowthStat) int { return cmp.Compare(a.Name, b.Name) })
	return kept, nil
}

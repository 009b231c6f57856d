package domain

import "fmt"

// DiscoverCriteria selects names by popularity in a reference year and by
// smoothed growth between two windows of Window years:
// [Start, Start+Window-1] and [End-Window+1, End].
type DiscoverCriteria struct {
	ReferenceYear int
	MinCount      int
	MaxCount      int
	Window        int
	Start         int
	End           int
	// Threshold is the minimum growth in percent.
	Threshold float64
	// Sample caps the number of names returned; qualifying names beyond it
	// are sampled at random.
	Sample int
}

// DefaultDiscoverCriteria mirrors the defaults of the original exploration tool.
func DefaultDiscoverCriteria() DiscoverCriteria {
	return DiscoverCriteria{
		ReferenceYear: 2022,
		MinCount:      0,
		MaxCount:      100000,
		Window:        3,
		Start:         1980,
		End:           2020,
		Threshold:     0,
		Sample:        5,
	}
}

// Validate returns an error wrapping ErrValidation when the criteria cannot
// describe a meaningful query.
func (c DiscoverCriteria) Validate() error {
	switch {
	case c.Window < 1:
		return fmt.Errorf("%w: window must be at least 1 year", ErrValidation)
	case c.Start > c.End:
		return fmt.Errorf("%w: start year %d is after end year %d", ErrValidation, c.Start, c.End)
	case c.MinCount < 0:
		return fmt.Errorf("%w: min count must not be negative", ErrValidation)
	case c.MinCount > c.MaxCount:
		return fmt.Errorf("%w: min count %d exceeds max count %d", ErrValidation, c.MinCount, c.MaxCount)
	case c.Sample < 1:
		return fmt.Errorf("%w: sample must be at least 1", ErrValidation)
	}
	return nil
}

// StartWindow returns the inclusive year bounds of the first window.
func (c DiscoverCriteria) StartWindow() (from, to int) {
	return c.Start, c.Start + c.Window - 1
}

// EndWindow returns the inclusive year bounds of the second window.
func (c DiscoverCriteria) EndWindow() (from, to int) {
	return c.End - c.Window + 1, c.End
}

// GrowthStat is the per-name aggregate computed by the store for discovery.
type GrowthStat struct {
	Name           string  `json:"name"`
	ReferenceCount int     `json:"reference_count"`
	StartAverage   float64 `json:"start_average"`
	EndAverage     float64 `json:"end_average"`
	GrowthPercent  float64 `json:"growth_percent"`
}

// Growth returns the relative change between the two window averages in
// percent, or 0 when the first window averages zero births.
func (g GrowthStat) Growth() float64 {
	if g.StartAverage <= 0 {
		return 0
	}
	return (g.EndAverage - g.StartAverage) / g.StartAverage * 100
}

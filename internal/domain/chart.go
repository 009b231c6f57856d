package domain

// ChartRow is one year of a pivoted multi-name series.
// Counts holds the births for each name summed across genders; a name with
// no record that year is absent rather than zero.
type ChartRow struct {
	Year   int            `json:"year"`
	Counts map[string]int `json:"counts"`
}

// Chart is the payload plotted by the clients: the requested names in
// selection order and one row per year, ascending.
type Chart struct {
	Names []string   `json:"names"`
	Rows  []ChartRow `json:"rows"`
}

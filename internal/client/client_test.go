package client_test

import (
	"bytes"
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prenoms/internal/client"
	"github.com/pkordes/prenoms/internal/domain"
	"github.com/pkordes/prenoms/internal/handler"
	"github.com/pkordes/prenoms/internal/selection"
	"github.com/pkordes/prenoms/internal/service"
	"github.com/pkordes/prenoms/testutil"
)

// newClient serves the real router over a seeded SQLite store.
func newClient(t *testing.T) *client.Client {
	t.Helper()
	ctx := context.Background()

	store := testutil.NewSQLiteStore(t)
	require.NoError(t, store.Importer().InsertBatch(ctx, []domain.NameRecord{
		{Name: "ALEX", Gender: domain.Male, Year: 2020, Count: 5},
		{Name: "ALEX", Gender: domain.Female, Year: 2020, Count: 3},
		{Name: "ALEX", Gender: domain.Male, Year: 2021, Count: 7},
		{Name: "ALEXIA", Gender: domain.Female, Year: 2021, Count: 2},
		{Name: "LÉA", Gender: domain.Female, Year: 2020, Count: 40},
		{Name: "LÉA", Gender: domain.Female, Year: 2022, Count: 50},
	}))

	svc := service.NewNameService(store.Names(), service.WithRand(rand.New(rand.NewPCG(1, 2))))
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	srv := httptest.NewServer(handler.NewRouter(handler.NewServer(svc, store, logger)))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestClient_Search(t *testing.T) {
	c := newClient(t)

	got, err := c.Search(context.Background(), "al")

	require.NoError(t, err)
	assert.Equal(t, []domain.NameMatch{
		{Name: "ALEX", Gender: domain.Male},
		{Name: "ALEX", Gender: domain.Female},
		{Name: "ALEXIA", Gender: domain.Female},
	}, got)
}

func TestClient_Search_Short(t *testing.T) {
	c := newClient(t)

	got, err := c.Search(context.Background(), "a")

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_Series_Accented(t *testing.T) {
	c := newClient(t)

	got, err := c.Series(context.Background(), "léa")

	require.NoError(t, err)
	assert.Equal(t, []domain.SeriesPoint{
		{Year: 2020, Count: 40, Gender: domain.Female},
		{Year: 2022, Count: 50, Gender: domain.Female},
	}, got)
}

func TestClient_SeriesMultiple(t *testing.T) {
	c := newClient(t)

	got, err := c.SeriesMultiple(context.Background(), selection.New("LÉA", "ALEXIA"))

	require.NoError(t, err)
	assert.Equal(t, []domain.NameRecord{
		{Name: "ALEXIA", Gender: domain.Female, Year: 2021, Count: 2},
		{Name: "LÉA", Gender: domain.Female, Year: 2020, Count: 40},
		{Name: "LÉA", Gender: domain.Female, Year: 2022, Count: 50},
	}, got)
}

func TestClient_Chart(t *testing.T) {
	c := newClient(t)
	sel := selection.New("ALEX", "LÉA")

	got, err := c.Chart(context.Background(), sel, false)
	require.NoError(t, err)
	assert.Equal(t, domain.Chart{
		Names: []string{"ALEX", "LÉA"},
		Rows: []domain.ChartRow{
			{Year: 2020, Counts: map[string]int{"ALEX": 8, "LÉA": 40}},
			{Year: 2021, Counts: map[string]int{"ALEX": 7}},
			{Year: 2022, Counts: map[string]int{"LÉA": 50}},
		},
	}, got)

	filled, err := c.Chart(context.Background(), sel, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ALEX": 7, "LÉA": 0}, filled.Rows[1].Counts)
}

func TestClient_Chart_EmptySelection(t *testing.T) {
	c := newClient(t)

	got, err := c.Chart(context.Background(), selection.New(), false)

	require.NoError(t, err)
	assert.Empty(t, got.Rows)
}

func TestClient_Discover(t *testing.T) {
	c := newClient(t)
	crit := domain.DiscoverCriteria{
		ReferenceYear: 2022, MinCount: 0, MaxCount: 100, Window: 1, Start: 2020, End: 2022, Sample: 5,
	}

	got, err := c.Discover(context.Background(), crit)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LÉA", got[0].Name)
	assert.InDelta(t, 25.0, got[0].GrowthPercent, 1e-9)
}

func TestClient_Discover_ValidationError(t *testing.T) {
	c := newClient(t)
	crit := domain.DefaultDiscoverCriteria()
	crit.Window = 0

	_, err := c.Discover(context.Background(), crit)

	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnprocessableEntity))
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "validation_error", apiErr.Code)
}

func TestClient_Ping(t *testing.T) {
	c := newClient(t)

	assert.NoError(t, c.Ping(context.Background()))
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := client.New("ftp://example.com")
	assert.Error(t, err)

	_, err = client.New("://")
	assert.Error(t, err)
}

package tui

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/prenoms/internal/domain"
	"github.com/pkordes/prenoms/internal/search"
	"github.com/pkordes/prenoms/internal/selection"
)

type fakeAPI struct {
	search func(ctx context.Context, query string) ([]domain.NameMatch, error)
	chart  func(ctx context.Context, sel selection.Selection, zeroFill bool) (domain.Chart, error)
}

func (f *fakeAPI) Search(ctx context.Context, query string) ([]domain.NameMatch, error) {
	return f.search(ctx, query)
}

func (f *fakeAPI) Chart(ctx context.Context, sel selection.Selection, zeroFill bool) (domain.Chart, error) {
	return f.chart(ctx, sel, zeroFill)
}

var _ API = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		search: func(_ context.Context, q string) ([]domain.NameMatch, error) {
			q = domain.NormalizeName(q)
			return []domain.NameMatch{
				{Name: q + "NDRE", Gender: domain.Male},
				{Name: q + "NDRA", Gender: domain.Female},
			}, nil
		},
		chart: func(_ context.Context, sel selection.Selection, _ bool) (domain.Chart, error) {
			rows := []domain.ChartRow{
				{Year: 2020, Counts: map[string]int{}},
				{Year: 2021, Counts: map[string]int{}},
			}
			for i, n := range sel.Names() {
				rows[0].Counts[n] = 10 * (i + 1)
				rows[1].Counts[n] = 20 * (i + 1)
			}
			return domain.Chart{Names: sel.Names(), Rows: rows}, nil
		},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// searchNow delivers the debounce tick for the latest input and runs the
// resulting fetch.
func searchNow(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, debounceMsg{token: m.search.Token(), query: m.input.Value()})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func TestModel_TypingSchedulesSearch(t *testing.T) {
	m := New(newFakeAPI(), Options{Delay: time.Millisecond})

	m = typeText(t, m, "a")
	assert.Equal(t, search.Typing, m.search.State())

	m = typeText(t, m, "l")
	m = searchNow(t, m)

	snap := m.search.Snapshot()
	assert.Equal(t, search.ResultsOpen, snap.State)
	assert.Equal(t, []domain.NameMatch{
		{Name: "ALNDRE", Gender: domain.Male},
		{Name: "ALNDRA", Gender: domain.Female},
	}, snap.Results)
	assert.Contains(t, m.View(), "ALNDRE (Garçon)")
}

func TestModel_StaleDebounceIgnored(t *testing.T) {
	m := New(newFakeAPI(), Options{})
	m = typeText(t, m, "al")
	stale := m.search.Token()
	m = typeText(t, m, "e")

	_, cmd := update(t, m, debounceMsg{token: stale, query: "al"})

	assert.Nil(t, cmd)
}

func TestModel_StaleSearchResponseDiscarded(t *testing.T) {
	m := New(newFakeAPI(), Options{})
	m = typeText(t, m, "al")
	stale := m.search.Token()
	m = typeText(t, m, "e")
	m = searchNow(t, m)

	m, _ = update(t, m, searchMsg{token: stale, results: []domain.NameMatch{{Name: "ALBAN", Gender: domain.Male}}})

	assert.Equal(t, "ALENDRE", m.search.Snapshot().Results[0].Name)
}

func TestModel_PickAddsToSelectionAndFetchesChart(t *testing.T) {
	api := newFakeAPI()
	var zeroFill bool
	chart := api.chart
	api.chart = func(ctx context.Context, sel selection.Selection, z bool) (domain.Chart, error) {
		zeroFill = z
		return chart(ctx, sel, z)
	}
	m := New(api, Options{})
	m = searchNow(t, typeText(t, m, "al"))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"ALNDRA"}, m.Selection().Names())
	assert.Equal(t, search.ResultsClosed, m.search.State())
	assert.Empty(t, m.input.Value())
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.True(t, zeroFill)
	assert.False(t, m.loading)
	view := m.View()
	assert.Contains(t, view, "2020 … 2021")
	assert.Contains(t, view, "pic 20 en 2021")
}

func TestModel_StaleChartDiscarded(t *testing.T) {
	m := New(newFakeAPI(), Options{Initial: selection.New("NOA")})
	first := m.Init()
	require.NotNil(t, first)

	// Selection changes before the first chart arrives.
	m, second := update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.True(t, m.Selection().Empty())
	assert.Nil(t, second)

	m, _ = update(t, m, chartMsg{gen: 1, chart: domain.Chart{Names: []string{"NOA"}}})
	assert.Empty(t, m.chart.Names)
}

func TestModel_ChartError(t *testing.T) {
	api := newFakeAPI()
	api.chart = func(context.Context, selection.Selection, bool) (domain.Chart, error) {
		return domain.Chart{}, errors.New("api: status 500")
	}
	m := New(api, Options{Initial: selection.New("NOA")})

	m, _ = update(t, m, m.chartCmd(m.chartGen, m.sel)())

	assert.Contains(t, m.View(), "graphique indisponible")
}

func TestModel_SearchError(t *testing.T) {
	api := newFakeAPI()
	api.search = func(context.Context, string) ([]domain.NameMatch, error) {
		return nil, errors.New("connection refused")
	}
	m := searchNow(t, typeText(t, New(api, Options{}), "al"))

	assert.Equal(t, search.ResultsClosed, m.search.State())
	assert.Contains(t, m.View(), "recherche indisponible")
}

func TestModel_EscClosesThenQuits(t *testing.T) {
	m := searchNow(t, typeText(t, New(newFakeAPI(), Options{}), "al"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, search.ResultsClosed, m.search.State())
	assert.Nil(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, search.ResultsOpen, m.search.State(), "focus reopens held results")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ClearSelection(t *testing.T) {
	m := New(newFakeAPI(), Options{Initial: selection.New("NOA", "JADE")})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})

	assert.True(t, m.Selection().Empty())
	assert.Contains(t, m.View(), "Aucun prénom sélectionné.")
}

func TestModel_ShareURL(t *testing.T) {
	base, err := url.Parse("https://prenoms.example/")
	require.NoError(t, err)
	m := New(newFakeAPI(), Options{Initial: selection.New("LÉA", "NOA"), ShareBase: base})

	link := m.ShareURL()

	shared, err := url.Parse(link)
	require.NoError(t, err)
	sel, err := selection.Parse(shared.RawQuery)
	require.NoError(t, err)
	assert.True(t, sel.Equal(m.Selection()))
	assert.True(t, strings.HasPrefix(link, "https://prenoms.example/?"))
}

func TestModel_ShareURLWithoutBase(t *testing.T) {
	m := New(newFakeAPI(), Options{Initial: selection.New("NOA")})

	assert.Empty(t, m.ShareURL())
}

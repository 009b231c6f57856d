// Package tui is a terminal explorer for the name statistics API: a
// debounced search box, the current selection, and one trend sparkline per
// selected name.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pkordes/prenoms/internal/domain"
	"github.com/pkordes/prenoms/internal/search"
	"github.com/pkordes/prenoms/internal/selection"
)

// DefaultTimeout bounds each request issued by the explorer.
const DefaultTimeout = 5 * time.Second

// API is the part of the HTTP client the explorer needs.
type API interface {
	Search(ctx context.Context, query string) ([]domain.NameMatch, error)
	Chart(ctx context.Context, sel selection.Selection, zeroFill bool) (domain.Chart, error)
}

// Options configures a Model.
type Options struct {
	// Delay is the search debounce; zero means search.DefaultDelay.
	Delay time.Duration
	// Timeout bounds each request; zero means DefaultTimeout.
	Timeout time.Duration
	// Initial is the selection shown at start, e.g. decoded from a shared link.
	Initial selection.Selection
	// ShareBase is the page whose URL carries the selection. Nil hides the link.
	ShareBase *url.URL
}

type debounceMsg struct {
	token search.Token
	query string
}

type searchMsg struct {
	token   search.Token
	results []domain.NameMatch
	err     error
}

type chartMsg struct {
	gen   uint64
	chart domain.Chart
	err   error
}

// Model is the bubbletea model of the explorer.
type Model struct {
	api    API
	opts   Options
	keys   keyMap
	styles Styles

	input  textinput.Model
	search search.Machine
	cancel context.CancelFunc
	cursor int

	sel      selection.Selection
	chartGen uint64
	chart    domain.Chart
	chartErr error
	loading  bool

	width int
}

// New returns a Model querying api.
func New(api API, opts Options) Model {
	if opts.Delay <= 0 {
		opts.Delay = search.DefaultDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	in := textinput.New()
	in.Prompt = "Recherche › "
	in.Placeholder = "au moins 2 lettres"
	in.CharLimit = 40
	in.Focus()

	m := Model{
		api:    api,
		opts:   opts,
		keys:   defaultKeys(),
		styles: DefaultStyles(),
		input:  in,
		sel:    opts.Initial,
	}
	if !m.sel.Empty() {
		m.chartGen = 1
		m.loading = true
	}
	return m
}

// Init starts the cursor blink and loads the initial selection's chart.
func (m Model) Init() tea.Cmd {
	if m.sel.Empty() {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.chartCmd(m.chartGen, m.sel))
}

// Selection returns the names currently selected.
func (m Model) Selection() selection.Selection { return m.sel }

// ShareURL returns the link reproducing the selection, or "" without ShareBase.
func (m Model) ShareURL() string {
	if m.opts.ShareBase == nil {
		return ""
	}
	return m.sel.ShareURL(m.opts.ShareBase).String()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		if !m.search.Current(msg.token) {
			return m, nil
		}
		return m, m.searchCmd(msg.token, msg.query)

	case searchMsg:
		if msg.err != nil {
			m.search.Fail(msg.token, msg.err)
		} else if m.search.Results(msg.token, msg.results) {
			m.cursor = 0
		}
		return m, nil

	case chartMsg:
		if msg.gen != m.chartGen {
			return m, nil
		}
		m.loading = false
		m.chart, m.chartErr = msg.chart, msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	open := m.search.State() == search.ResultsOpen

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		if open {
			m.search.OutsideClick()
			return m, nil
		}
		m.teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if open && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if open && m.cursor < len(m.search.Snapshot().Results)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Pick):
		return m.pick()

	case key.Matches(msg, m.keys.Reopen):
		m.search.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.sel.Empty() {
			return m, nil
		}
		m.sel = m.sel.Clear()
		return m, m.selectionChanged()

	case key.Matches(msg, m.keys.Pop) && m.input.Value() == "":
		names := m.sel.Names()
		if len(names) == 0 {
			return m, nil
		}
		m.sel = m.sel.Remove(names[len(names)-1])
		return m, m.selectionChanged()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		return m, tea.Batch(cmd, m.typed(v))
	}
	return m, cmd
}

// typed feeds a new input value to the search machine and schedules the
// debounced query when the value is long enough.
func (m *Model) typed(value string) tea.Cmd {
	m.cancelSearch()
	m.cursor = 0
	token, schedule := m.search.Input(value)
	if !schedule {
		return nil
	}
	return tea.Tick(m.opts.Delay, func(time.Time) tea.Msg {
		return debounceMsg{token: token, query: value}
	})
}

func (m Model) pick() (tea.Model, tea.Cmd) {
	snap := m.search.Snapshot()
	if snap.State != search.ResultsOpen || len(snap.Results) == 0 {
		return m, nil
	}
	name := snap.Results[min(m.cursor, len(snap.Results)-1)].Name

	m.cancelSearch()
	m.search.Select()
	m.input.Reset()
	m.cursor = 0

	next := m.sel.Add(name)
	if next.Equal(m.sel) {
		return m, nil
	}
	m.sel = next
	return m, m.selectionChanged()
}

// selectionChanged starts a new chart generation; responses of earlier
// generations are dropped on arrival.
func (m *Model) selectionChanged() tea.Cmd {
	m.chartGen++
	m.chartErr = nil
	if m.sel.Empty() {
		m.chart = domain.Chart{}
		m.loading = false
		return nil
	}
	m.loading = true
	return m.chartCmd(m.chartGen, m.sel)
}

func (m *Model) searchCmd(token search.Token, query string) tea.Cmd {
	m.cancelSearch()
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.Timeout)
	m.cancel = cancel
	api := m.api
	return func() tea.Msg {
		defer cancel()
		results, err := api.Search(ctx, query)
		return searchMsg{token: token, results: results, err: err}
	}
}

func (m Model) chartCmd(gen uint64, sel selection.Selection) tea.Cmd {
	api, timeout := m.api, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		c, err := api.Chart(ctx, sel, true)
		return chartMsg{gen: gen, chart: c, err: err}
	}
}

func (m *Model) cancelSearch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) teardown() {
	m.cancelSearch()
	m.search.Teardown()
	m.chartGen++
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Prénoms en France"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n")

	snap := m.search.Snapshot()
	if snap.State == search.ResultsOpen {
		for i, r := range snap.Results {
			line := fmt.Sprintf("%s (%s)", r.Name, r.Gender.Label())
			if i == m.cursor {
				sb.WriteString(m.styles.Selected.Render("› " + line))
			} else {
				sb.WriteString(m.styles.Result.Render(line))
			}
			sb.WriteString("\n")
		}
	}
	if snap.Err != nil && !errors.Is(snap.Err, context.Canceled) {
		sb.WriteString(m.styles.Error.Render("recherche indisponible: " + snap.Err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.sel.Empty() {
		sb.WriteString(m.styles.Muted.Render("Aucun prénom sélectionné."))
		sb.WriteString("\n")
	} else {
		for _, n := range m.sel.Names() {
			sb.WriteString(m.styles.Chip.Render(n))
		}
		sb.WriteString("\n\n")
		sb.WriteString(m.renderChart())
	}

	if link := m.ShareURL(); link != "" && !m.sel.Empty() {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Label.Render("Lien: "))
		sb.WriteString(link)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(helpLine(m.keys.help())))
	return sb.String()
}

func (m Model) renderChart() string {
	switch {
	case m.loading:
		return m.styles.Muted.Render("chargement…") + "\n"
	case m.chartErr != nil:
		return m.styles.Error.Render("graphique indisponible: "+m.chartErr.Error()) + "\n"
	case len(m.chart.Rows) == 0:
		return m.styles.Muted.Render("Aucune donnée.") + "\n"
	}

	rows := m.chart.Rows
	peak := 0
	for _, row := range rows {
		for _, v := range row.Counts {
			peak = max(peak, v)
		}
	}
	width := 60
	if m.width > 40 {
		width = m.width - 40
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d … %d\n", rows[0].Year, rows[len(rows)-1].Year)
	for _, name := range m.chart.Names {
		values := make([]int, len(rows))
		best, bestYear := 0, 0
		for i, row := range rows {
			values[i] = row.Counts[name]
			if values[i] > best {
				best, bestYear = values[i], row.Year
			}
		}
		fmt.Fprintf(&sb, "%-14s %s", name, m.styles.Spark.Render(Sparkline(values, peak, width)))
		if best > 0 {
			fmt.Fprintf(&sb, "  pic %d en %d", best, bestYear)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run shows the explorer until the user quits and returns the final selection.
func Run(ctx context.Context, api API, opts Options) (selection.Selection, error) {
	p := tea.NewProgram(New(api, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return selection.Selection{}, fmt.Errorf("tui.Run: %w", err)
	}
	return final.(Model).Selection(), nil
}

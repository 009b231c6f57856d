// Package search models the search-as-you-type box of the clients.
//
// Machine is a pure state machine: it never starts timers or requests, it
// only tells its driver what to schedule and decides which responses may be
// applied. Every input change issues a new token; a response is applied only
// if it carries the latest token, so a slow response to an older query can
// never overwrite the results of a newer one, whatever the completion order.
// Debouncer drives a Machine with real timers and goroutines; the terminal
// client drives one with bubbletea commands.
package search

import (
	"github.com/pkordes/prenoms/internal/domain"
)

// State is the visible state of the search box.
type State int

const (
	Idle State = iota
	Typing
	ResultsOpen
	ResultsClosed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case ResultsOpen:
		return "results-open"
	case ResultsClosed:
		return "results-closed"
	default:
		return "unknown"
	}
}

// Token identifies one scheduled query. Zero never identifies a query.
type Token uint64

// Machine is the search box state. The zero value is ready to use and Idle.
type Machine struct {
	state   State
	query   string
	token   Token
	results []domain.NameMatch
	err     error
}

// Snapshot is a read-only copy of the machine for rendering.
type Snapshot struct {
	State   State
	Query   string
	Results []domain.NameMatch
	Err     error
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{State: m.state, Query: m.query, Results: m.results, Err: m.err}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Token returns the latest issued token.
func (m *Machine) Token() Token { return m.token }

// Current reports whether t is still the latest token, i.e. whether the
// query it names should run or its response be applied.
func (m *Machine) Current(t Token) bool {
	return t != 0 && t == m.token
}

// Input records a new value of the text box and invalidates every earlier
// token. When the value is long enough it returns a fresh token and
// schedule=true: the driver should run the query after the debounce delay,
// provided the token is still current by then.
func (m *Machine) Input(text string) (t Token, schedule bool) {
	m.query = text
	m.token++
	m.err = nil

	if !domain.SearchableQuery(text) {
		m.results = nil
		switch m.state {
		case Idle:
			if text != "" {
				m.state = Typing
			}
		case ResultsOpen:
			m.state = ResultsClosed
		}
		return 0, false
	}

	if m.state != ResultsOpen {
		m.state = Typing
	}
	return m.token, true
}

// Results applies the response of the query named by t. It returns false,
// leaving the machine untouched, when t has been superseded.
func (m *Machine) Results(t Token, results []domain.NameMatch) bool {
	if !m.Current(t) {
		return false
	}
	m.results = results
	m.err = nil
	if len(results) > 0 {
		m.state = ResultsOpen
	} else {
		m.state = ResultsClosed
	}
	return true
}

// Fail records a failed query named by t; stale failures are ignored too.
func (m *Machine) Fail(t Token, err error) bool {
	if !m.Current(t) {
		return false
	}
	m.results = nil
	m.err = err
	m.state = ResultsClosed
	return true
}

// Select closes the dropdown after a result was picked and clears the box.
// Any query still pending or in flight is invalidated.
func (m *Machine) Select() {
	m.token++
	m.query = ""
	m.results = nil
	m.err = nil
	m.state = ResultsClosed
}

// OutsideClick closes an open dropdown but keeps its results for Focus.
func (m *Machine) OutsideClick() {
	if m.state == ResultsOpen {
		m.state = ResultsClosed
	}
}

// Focus reopens the dropdown when results are still held.
func (m *Machine) Focus() {
	if m.state == ResultsClosed && len(m.results) > 0 {
		m.state = ResultsOpen
	}
}

// Teardown invalidates every outstanding token; nothing scheduled before it
// will be applied.
func (m *Machine) Teardown() {
	m.token++
}

package search

import (
	"context"
	"sync"
	"time"

	"github.com/pkordes/prenoms/internal/domain"
)

// DefaultDelay is how long typing must pause before a query is sent.
const DefaultDelay = 200 * time.Millisecond

// Fetcher runs one prefix search. It should honour ctx cancellation; if it
// does not, its late result is discarded anyway.
type Fetcher func(ctx context.Context, query string) ([]domain.NameMatch, error)

// Debouncer drives a Machine with timers: the latest keystroke wins, a new
// keystroke cancels both the pending timer and the in-flight request, and
// only the response to the latest query reaches onChange.
//
// All methods are safe for concurrent use. onChange is called without the
// internal lock held, from the caller's goroutine or a timer goroutine.
type Debouncer struct {
	fetch    Fetcher
	delay    time.Duration
	onChange func(Snapshot)

	mu       sync.Mutex
	machine  Machine
	timer    *time.Timer
	cancel   context.CancelFunc
	closed   bool
	inflight sync.WaitGroup
}

// NewDebouncer returns a Debouncer calling fetch after delay of inactivity.
// A non-positive delay means DefaultDelay. onChange may be nil.
func NewDebouncer(fetch Fetcher, delay time.Duration, onChange func(Snapshot)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if onChange == nil {
		onChange = func(Snapshot) {}
	}
	return &Debouncer{fetch: fetch, delay: delay, onChange: onChange}
}

// Type records a new value of the search box.
func (d *Debouncer) Type(text string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.stopPendingLocked()
	token, schedule := d.machine.Input(text)
	if schedule {
		d.timer = time.AfterFunc(d.delay, func() { d.run(token, text) })
	}
	snap := d.machine.Snapshot()
	d.mu.Unlock()

	d.onChange(snap)
}

// Select records that a result was picked.
func (d *Debouncer) Select() {
	d.update(func(m *Machine) { m.Select() }, true)
}

// OutsideClick records an interaction outside the search box.
func (d *Debouncer) OutsideClick() {
	d.update(func(m *Machine) { m.OutsideClick() }, false)
}

// Focus records that the search box regained focus.
func (d *Debouncer) Focus() {
	d.update(func(m *Machine) { m.Focus() }, false)
}

// Snapshot returns the current state.
func (d *Debouncer) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.machine.Snapshot()
}

// Close cancels any pending or in-flight query and waits for running
// fetches to return. Later calls are no-ops.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.stopPendingLocked()
	d.machine.Teardown()
	d.mu.Unlock()

	d.inflight.Wait()
}

func (d *Debouncer) update(fn func(*Machine), stop bool) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if stop {
		d.stopPendingLocked()
	}
	fn(&d.machine)
	snap := d.machine.Snapshot()
	d.mu.Unlock()

	d.onChange(snap)
}

// run is the timer callback for token.
func (d *Debouncer) run(token Token, query string) {
	d.mu.Lock()
	if d.closed || !d.machine.Current(token) {
		d.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.inflight.Add(1)
	d.mu.Unlock()

	results, err := d.fetch(ctx, query)
	cancel()

	d.mu.Lock()
	var applied bool
	if err != nil {
		applied = d.machine.Fail(token, err)
	} else {
		applied = d.machine.Results(token, results)
	}
	snap := d.machine.Snapshot()
	d.mu.Unlock()
	// Done before onChange: the callback may call Close.
	d.inflight.Done()

	if applied {
		d.onChange(snap)
	}
}

// stopPendingLocked stops the debounce timer and cancels the in-flight
// request. d.mu must be held.
func (d *Debouncer) stopPendingLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

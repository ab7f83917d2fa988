// Package clock formalizes the "out of scope, but the core must supply"
// clock-source collaborator (spec.md §6): a monotonic tick source with a
// fixed frame budget, injected into the tick loop instead of read from
// wall-clock time directly.
package clock

import "time"

// Source delivers one tick per fixed budget and can be stopped. The
// production tick loop (internal/match.Match.Run) drives against Real;
// tests substitute Manual to advance ticks without sleeping on wall-clock
// time, matching spec.md §8's "two server runs produce byte-identical
// snapshots" determinism requirement — the simulation itself never reads
// wall-clock time, only the loop that decides when to call Kernel.Tick.
type Source interface {
	// C delivers one value per tick boundary.
	C() <-chan time.Time
	// Budget is the fixed duration between ticks this Source was built for.
	Budget() time.Duration
	// Stop releases the underlying timer. Safe to call more than once.
	Stop()
}

// Real wraps time.Ticker as the production Source.
type Real struct {
	ticker *time.Ticker
	budget time.Duration
}

// NewReal starts a Real ticking every budget.
func NewReal(budget time.Duration) *Real {
	return &Real{ticker: time.NewTicker(budget), budget: budget}
}

func (r *Real) C() <-chan time.Time   { return r.ticker.C }
func (r *Real) Budget() time.Duration { return r.budget }
func (r *Real) Stop()                 { r.ticker.Stop() }

// Manual is a test Source driven by explicit Advance calls instead of
// wall-clock time.
type Manual struct {
	budget time.Duration
	ch     chan time.Time
}

// NewManual returns a Manual Source with the given nominal budget. Its
// channel holds one tick, so an Advance returns at once when the loop has
// read every earlier tick; an Advance made while one tick is still unread
// blocks until the loop reads it.
func NewManual(budget time.Duration) *Manual {
	return &Manual{budget: budget, ch: make(chan time.Time, 1)}
}

func (m *Manual) C() <-chan time.Time   { return m.ch }
func (m *Manual) Budget() time.Duration { return m.budget }
func (m *Manual) Stop()                 {}

// Advance delivers one synthetic tick carrying t.
func (m *Manual) Advance(t time.Time) { m.ch <- t }

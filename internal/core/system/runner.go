package system

import (
	"sort"
	"time"
)

// Runner executes registered systems in Phase order every tick. Ordering
// within a tick is a hard requirement (spec.md §5: "Within a tick, systems
// execute in the order listed in §4.2"), so Register invalidates the cached
// sort and Tick re-sorts lazily rather than trusting registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{systems: make([]System, 0, 16)}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner) ensureSorted() {
	if r.sorted {
		return
	}
	sort.SliceStable(r.systems, func(i, j int) bool {
		return r.systems[i].Phase() < r.systems[j].Phase()
	})
	r.sorted = true
}

// Tick runs every registered system once, in Phase order.
func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(dt)
	}
}

// Systems returns the registered systems in Phase order, for callers that
// need to reach a specific system by type assertion (e.g. the snapshot
// system's last-built GameState).
func (r *Runner) Systems() []System {
	r.ensureSorted()
	return r.systems
}

// TickPhase runs only the systems registered under the given phase. Useful
// for a client that only predicts a subset of the pipeline (spec.md §4.2:
// "the client runs only the italicized ones for prediction").
func (r *Runner) TickPhase(p Phase, dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == p {
			s.Update(dt)
		}
	}
}

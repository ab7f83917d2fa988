package sim

import (
	"time"

	coresys "github.com/shmup/server/internal/core/system"
)

// cleanupSystem flushes entities queued by QueueKill during this tick
// (spec.md §2's "cleanup" step), run after snapshot build so the snapshot
// system can still see the about-to-die entities' final component values
// and mark M_DELETE for them.
type cleanupSystem struct{ k *Kernel }

func newCleanupSystem(k *Kernel) *cleanupSystem { return &cleanupSystem{k} }

func (s *cleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *cleanupSystem) Update(time.Duration) {
	s.k.World.FlushKills()
}

package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// boundsSystem clamps players inside the arena and zeroes the offending
// velocity axis (spec.md §4.2 step 11).
type boundsSystem struct{ k *Kernel }

func newBoundsSystem(k *Kernel) *boundsSystem { return &boundsSystem{k} }

func (s *boundsSystem) Phase() coresys.Phase { return coresys.PhaseBounds }

func (s *boundsSystem) Update(time.Duration) {
	w := s.k.World
	ecs.Each2(w.Players, w.Transforms, func(e ecs.Entity, _ *component.Player, t *component.Transform) {
		rb, hasRB := w.RigidBodies.Get(e)
		if t.X < 0 {
			t.X = 0
			if hasRB {
				rb.VelX = 0
			}
		} else if t.X > w.ArenaWidth {
			t.X = w.ArenaWidth
			if hasRB {
				rb.VelX = 0
			}
		}
		if t.Y < 0 {
			t.Y = 0
			if hasRB {
				rb.VelY = 0
			}
		} else if t.Y > w.ArenaHeight {
			t.Y = w.ArenaHeight
			if hasRB {
				rb.VelY = 0
			}
		}
	})
}

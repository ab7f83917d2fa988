package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// forceSystem moves each satellite Force drone relative to its owning
// player (spec.md §3's Force component: "drone that absorbs shots and
// deals contact damage"). Attached states hold at a fixed offset from the
// owner; Detached drifts outward along Direction up to MaxDistance, then
// holds. Runs in the movement phase, before physics integrates this tick's
// player motion, so the Force follows the owner's position as of the
// previous tick. The collision system lets a Force absorb enemy projectiles
// but does not apply its ContactDamage.
type forceSystem struct{ k *Kernel }

func newForceSystem(k *Kernel) *forceSystem { return &forceSystem{k} }

func (s *forceSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *forceSystem) Update(dt time.Duration) {
	w := s.k.World
	ecs.Each2(w.Forces, w.Transforms, func(_ ecs.Entity, f *component.Force, t *component.Transform) {
		ownerT, ok := w.Transforms.Get(f.OwnerPlayer)
		if !ok {
			return
		}
		switch f.State {
		case component.ForceAttachedFront:
			t.X = ownerT.X + f.FrontOffset[0]
			t.Y = ownerT.Y + f.FrontOffset[1]
			f.CurrentDistance = 0
		case component.ForceAttachedBack:
			t.X = ownerT.X + f.BackOffset[0]
			t.Y = ownerT.Y + f.BackOffset[1]
			f.CurrentDistance = 0
		case component.ForceDetached:
			if f.CurrentDistance < f.MaxDistance {
				f.CurrentDistance += f.Speed * float32(dt.Seconds())
				if f.CurrentDistance > f.MaxDistance {
					f.CurrentDistance = f.MaxDistance
				}
			}
			t.X = ownerT.X + f.CurrentDistance
			t.Y = ownerT.Y
		}
	})
}

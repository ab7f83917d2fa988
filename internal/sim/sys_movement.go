package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// playerMovementSystem zeroes velocity then sets axis components from
// InputState × speed (spec.md §4.2 step 2). Arena clamping is done later,
// by boundsSystem.
type playerMovementSystem struct{ k *Kernel }

func newPlayerMovementSystem(k *Kernel) *playerMovementSystem { return &playerMovementSystem{k} }

func (s *playerMovementSystem) Phase() coresys.Phase { return coresys.PhaseMovement }

func (s *playerMovementSystem) Update(time.Duration) {
	w := s.k.World
	ecs.Each3(w.Players, w.Inputs, w.RigidBodies, func(_ ecs.Entity, p *component.Player, in *component.InputState, rb *component.RigidBody) {
		if !p.IsAlive {
			rb.VelX, rb.VelY = 0, 0
			return
		}
		var vx, vy float32
		if in.Left {
			vx -= p.Speed
		}
		if in.Right {
			vx += p.Speed
		}
		if in.Up {
			vy -= p.Speed
		}
		if in.Down {
			vy += p.Speed
		}
		rb.VelX, rb.VelY = vx, vy
	})
}

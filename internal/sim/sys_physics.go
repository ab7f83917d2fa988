package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// gravity is zero for a top-down/side-scrolling shmup; kept as a named
// constant since spec.md §4.2 step 6 states the integration formula with a
// gravity term explicitly.
const gravity float32 = 0

// physicsSystem integrates v += (a+g)·dt; p += v·dt; a := 0 for every
// non-static RigidBody (spec.md §4.2 step 6). Also guards against NaN/Inf
// positions per spec.md §7's GameLogicError handling.
type physicsSystem struct{ k *Kernel }

func newPhysicsSystem(k *Kernel) *physicsSystem { return &physicsSystem{k} }

func (s *physicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *physicsSystem) Update(dt time.Duration) {
	w := s.k.World
	dtSec := float32(dt.Seconds())
	ecs.Each2(w.Transforms, w.RigidBodies, func(_ ecs.Entity, t *component.Transform, rb *component.RigidBody) {
		if rb.IsStatic {
			return
		}
		rb.VelX += (rb.AccX + gravity) * dtSec
		rb.VelY += (rb.AccY + gravity) * dtSec
		t.X += rb.VelX * dtSec
		t.Y += rb.VelY * dtSec
		rb.AccX, rb.AccY = 0, 0

		if isBadFloat(t.X) {
			t.X = 0
		}
		if isBadFloat(t.Y) {
			t.Y = 0
		}
	})
}

func isBadFloat(f float32) bool {
	return f != f || f > 1e9 || f < -1e9 // NaN != NaN; clamp runaway magnitudes
}

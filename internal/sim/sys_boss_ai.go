package sim

import (
	"math"
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// bossAISystem drives motion and phase transitions per Boss.kind × phase
// (spec.md §4.2.1). Boss.timer is a monotonically increasing per-boss
// clock, not wall time, so phase thresholds stay deterministic.
type bossAISystem struct{ k *Kernel }

func newBossAISystem(k *Kernel) *bossAISystem { return &bossAISystem{k} }

func (s *bossAISystem) Phase() coresys.Phase { return coresys.PhaseBossAI }

func (s *bossAISystem) Update(dt time.Duration) {
	w := s.k.World
	dtSec := float32(dt.Seconds())
	ecs.Each3(w.Bosses, w.Transforms, w.RigidBodies, func(e ecs.Entity, b *component.Boss, t *component.Transform, rb *component.RigidBody) {
		if b.HP <= 0 {
			return
		}
		b.Timer += dtSec

		switch b.Kind {
		case component.BossBigShip:
			if b.Phase == 1 && b.Timer >= 10 {
				b.Phase = 2
			} else if b.Phase == 2 && b.Timer >= 20 {
				b.Phase = 3
			}
			rb.VelY = float32(math.Sin(float64(b.Timer))) * b.Amplitude * float32(b.Phase)
		case component.BossSnake:
			rb.VelX = -b.Speed * 0.3
			rb.VelY = float32(math.Sin(float64(b.Timer)*0.8)) * b.Amplitude
		case component.BossBydoEye:
			rb.VelX, rb.VelY = 0, float32(math.Sin(float64(b.Timer)*1.5))*b.Amplitude*0.5
		case component.BossBattleship:
			rb.VelX = -b.Speed * 0.1
		case component.BossFinalBoss:
			rb.VelY = float32(math.Sin(float64(b.Timer))) * b.Amplitude
			if math.Mod(float64(b.Timer), 5) < float64(dtSec) {
				w.SpawnEnemy(component.EnemyBasic, t.X, t.Y, w.Level.LevelIndex)
			}
			if math.Mod(float64(b.Timer), 2) < float64(dtSec) {
				s.fireSpread(e, t, 5)
			}
		}
	})
}

func (s *bossAISystem) fireSpread(owner ecs.Entity, t *component.Transform, width int) {
	w := s.k.World
	for i := 0; i < width; i++ {
		spread := float32(i-width/2) * 0.25
		norm := vecLen(-1, spread)
		w.SpawnProjectile(owner, t.X, t.Y, -1/norm, spread/norm, 140, 20, 5, component.LayerBoss)
	}
}

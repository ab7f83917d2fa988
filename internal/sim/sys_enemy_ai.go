package sim

import (
	"math"
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// enemyAISystem implements the per-kind motion formulas of spec.md §4.2.1.
// All motions are pure functions of (timer, direction, amplitude, speed,
// nearest player position) — no wall-clock time, for determinism.
type enemyAISystem struct{ k *Kernel }

func newEnemyAISystem(k *Kernel) *enemyAISystem { return &enemyAISystem{k} }

func (s *enemyAISystem) Phase() coresys.Phase { return coresys.PhaseEnemyAI }

func (s *enemyAISystem) Update(dt time.Duration) {
	w := s.k.World
	dtSec := float32(dt.Seconds())
	ecs.Each3(w.Enemies, w.Transforms, w.RigidBodies, func(e ecs.Entity, en *component.Enemy, t *component.Transform, rb *component.RigidBody) {
		if en.HP <= 0 {
			return
		}
		en.Timer += dtSec
		en.LastShotTimer += dtSec
		px, py, hasPlayer := s.nearestPlayer(t.X, t.Y)

		switch en.Kind {
		case component.EnemyBasic:
			rb.VelX = 0
			rb.VelY = float32(math.Sin(float64(en.Timer)*2)) * en.Amplitude * 2.5
			if en.LastShotTimer >= 1.5 {
				en.LastShotTimer = 0
				s.fireTripleShot(e, t)
			}
		case component.EnemyZigzag:
			rb.VelX = -en.Speed * (1 + float32(math.Abs(math.Sin(float64(en.Timer)*2)))*0.8)
			rb.VelY = (float32(math.Sin(float64(en.Timer)*8)) + float32(math.Sin(float64(en.Timer)*3))*0.5) * en.Amplitude * 1.5
			if hasPlayer && math.Mod(float64(en.Timer), 3) < float64(dtSec) {
				// Track toward nearest player for 0.5s, approximated as a
				// one-tick heading correction (discrete re-aim every 3s).
				dx, dy := px-t.X, py-t.Y
				norm := vecLen(dx, dy)
				if norm > 0 {
					rb.VelX += (dx / norm) * en.Speed * 0.5
					rb.VelY += (dy / norm) * en.Speed * 0.5
				}
			}
			if t.X < -16 {
				t.X = w.ArenaWidth + 16
			}
		case component.EnemyChase:
			s.chaseMotion(en, t, rb, px, py, hasPlayer)
		case component.EnemyMiniGreen:
			s.miniGreenMotion(en, t, rb, e)
		case component.EnemySpinner:
			if math.Mod(float64(en.Timer), 0.3) < float64(dtSec) {
				en.Direction = float32(s.k.RNG.Float64()*2 - 1)
			}
			rb.VelX = -en.Speed * 1.5
			rb.VelY = en.Direction * en.Speed
		}
	})
}

func vecLen(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}

func (s *enemyAISystem) nearestPlayer(x, y float32) (px, py float32, ok bool) {
	w := s.k.World
	best := float32(math.MaxFloat32)
	w.Players.Each(func(e ecs.Entity, p *component.Player) {
		if !p.IsAlive {
			return
		}
		t, has := w.Transforms.Get(e)
		if !has {
			return
		}
		d := vecLen(t.X-x, t.Y-y)
		if d < best {
			best, px, py, ok = d, t.X, t.Y, true
		}
	})
	return
}

func (s *enemyAISystem) chaseMotion(en *component.Enemy, t *component.Transform, rb *component.RigidBody, px, py float32, hasPlayer bool) {
	if !hasPlayer {
		rb.VelX, rb.VelY = 0, 0
		return
	}
	dx, dy := px-t.X, py-t.Y
	dist := vecLen(dx, dy)
	if dist == 0 {
		return
	}
	ux, uy := dx/dist, dy/dist
	switch {
	case dist > 300:
		// spiral orbit: tangent + slight inward pull
		rb.VelX = -uy*en.Speed + ux*en.Speed*0.2
		rb.VelY = ux*en.Speed + uy*en.Speed*0.2
	case dist >= 100:
		rb.VelX = ux * en.Speed
		rb.VelY = uy * en.Speed
	default:
		// alternating feint/dash inside 100 units, keyed off Timer parity
		if int(en.Timer)%2 == 0 {
			rb.VelX, rb.VelY = -ux*en.Speed*0.5, -uy*en.Speed*0.5
		} else {
			rb.VelX, rb.VelY = ux*en.Speed*1.5, uy*en.Speed*1.5
		}
	}
}

func (s *enemyAISystem) miniGreenMotion(en *component.Enemy, t *component.Transform, rb *component.RigidBody, e ecs.Entity) {
	cycle := float32(math.Mod(float64(en.Timer), 4))
	switch {
	case cycle < 2:
		rb.VelX, rb.VelY = 0, 0
	case cycle < 2.8:
		rb.VelX, rb.VelY = -en.Speed, 0
	default:
		rb.VelX, rb.VelY = en.Speed*0.5, 0
	}
	if en.LastShotTimer >= 2.0 {
		en.LastShotTimer = 0
		s.fireStraightLeft(e, t)
	}
}

func (s *enemyAISystem) fireTripleShot(owner ecs.Entity, t *component.Transform) {
	w := s.k.World
	for _, dy := range []float32{-0.4, 0, 0.4} {
		norm := vecLen(-1, dy)
		w.SpawnProjectile(owner, t.X, t.Y, -1/norm, dy/norm, 160, 10, 4, component.LayerEnemy)
	}
}

func (s *enemyAISystem) fireStraightLeft(owner ecs.Entity, t *component.Transform) {
	s.k.World.SpawnProjectile(owner, t.X, t.Y, -1, 0, 160, 10, 4, component.LayerEnemy)
}

package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	"github.com/shmup/server/internal/core/event"
	coresys "github.com/shmup/server/internal/core/system"
)

// collisionSystem implements spec.md §4.2.3: pairwise O(n²) AABB over the
// current active entities (a few hundred at most, per spec), physical
// response, and the gameplay-layer damage dispatch table.
type collisionSystem struct{ k *Kernel }

func newCollisionSystem(k *Kernel) *collisionSystem { return &collisionSystem{k} }

func (s *collisionSystem) Phase() coresys.Phase { return coresys.PhaseCollision }

type collidable struct {
	e    ecs.Entity
	t    *component.Transform
	c    *component.BoxCollider
	rb   *component.RigidBody // nil if none
}

func (s *collisionSystem) Update(time.Duration) {
	w := s.k.World
	bodies := make([]collidable, 0, 256)
	w.Colliders.Each(func(e ecs.Entity, c *component.BoxCollider) {
		t, ok := w.Transforms.Get(e)
		if !ok {
			return
		}
		rb, _ := w.RigidBodies.Get(e)
		bodies = append(bodies, collidable{e: e, t: t, c: c, rb: rb})
	})

	var dead []ecs.Entity
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			if a.c.Layer&b.c.Mask == 0 || b.c.Layer&a.c.Mask == 0 {
				continue
			}
			al, ar, at, ab := a.c.Bounds(a.t.X, a.t.Y)
			bl, br, bt, bb := b.c.Bounds(b.t.X, b.t.Y)
			if !(al < br && ar > bl && at < bb && ab > bt) {
				continue
			}

			nx, ny := b.t.X-a.t.X, b.t.Y-a.t.Y
			if n := vecLen(nx, ny); n > 0 {
				nx, ny = nx/n, ny/n
			}
			event.Emit(w.Bus, event.Collision{
				A: a.e, B: b.e,
				PointX: (al + br + bl + ar) / 4, PointY: (at + ab + bt + bb) / 4,
				NormalX: nx, NormalY: ny,
			})

			s.respond(a, b)
			s.dispatchGameplay(a, b, &dead)
		}
	}
	for _, e := range dead {
		w.QueueKill(e)
	}
}

// respond applies spec.md §4.2.3's physical response rule.
func (s *collisionSystem) respond(a, b collidable) {
	if a.c.IsTrigger || b.c.IsTrigger {
		return
	}
	aStatic := a.rb == nil || a.rb.IsStatic
	bStatic := b.rb == nil || b.rb.IsStatic
	switch {
	case !aStatic && !bStatic:
		avx, avy := a.rb.VelX, a.rb.VelY
		a.rb.VelX, a.rb.VelY = b.rb.VelX*a.rb.Restitution, b.rb.VelY*a.rb.Restitution
		b.rb.VelX, b.rb.VelY = avx*b.rb.Restitution, avy*b.rb.Restitution
	case !aStatic && bStatic:
		a.rb.VelX, a.rb.VelY = -a.rb.VelX*a.rb.Restitution, -a.rb.VelY*a.rb.Restitution
	case aStatic && !bStatic:
		b.rb.VelX, b.rb.VelY = -b.rb.VelX*b.rb.Restitution, -b.rb.VelY*b.rb.Restitution
	}
}

// dispatchGameplay applies the damage table of spec.md §4.2.3 by category
// pair and queues death for any entity whose hp crosses zero. Projectiles
// are always killed on any hit.
func (s *collisionSystem) dispatchGameplay(a, b collidable, dead *[]ecs.Entity) {
	w := s.k.World
	catA, catB := s.category(a.e), s.category(b.e)

	switch {
	case catA == event.CategoryPlayer && catB == event.CategoryEnemy:
		s.damagePlayer(a.e, 10, dead)
		s.damageEnemy(b.e, 5, a.e, dead)
	case catA == event.CategoryEnemy && catB == event.CategoryPlayer:
		s.damagePlayer(b.e, 10, dead)
		s.damageEnemy(a.e, 5, b.e, dead)

	case catA == event.CategoryProjectile && catB == event.CategoryEnemy:
		s.damageProjectileHit(a.e, dead)
		s.damageEnemy(b.e, 15, a.e, dead)
	case catA == event.CategoryEnemy && catB == event.CategoryProjectile:
		s.damageProjectileHit(b.e, dead)
		s.damageEnemy(a.e, 15, b.e, dead)

	case catA == event.CategoryProjectile && (catB == event.CategoryBoss || catB == event.CategoryBossPart):
		s.damageProjectileHit(a.e, dead)
		s.damageBossLike(b.e, catB, 15, a.e, dead)
	case (catA == event.CategoryBoss || catA == event.CategoryBossPart) && catB == event.CategoryProjectile:
		s.damageProjectileHit(b.e, dead)
		s.damageBossLike(a.e, catA, 15, b.e, dead)

	case catA == event.CategoryProjectile && catB == event.CategoryPlayer:
		s.damageProjectileHit(a.e, dead)
		s.damagePlayer(b.e, 10, dead)
	case catA == event.CategoryPlayer && catB == event.CategoryProjectile:
		s.damageProjectileHit(b.e, dead)
		s.damagePlayer(a.e, 10, dead)

	case catA == event.CategoryBoss && catB == event.CategoryPlayer:
		s.damagePlayer(b.e, 30, dead)
		s.damageBossLike(a.e, catA, 5, b.e, dead)
	case catA == event.CategoryPlayer && catB == event.CategoryBoss:
		s.damagePlayer(a.e, 30, dead)
		s.damageBossLike(b.e, catB, 5, a.e, dead)

	case catA == event.CategoryForce && catB == event.CategoryProjectile:
		s.damageProjectileHit(b.e, dead)
	case catA == event.CategoryProjectile && catB == event.CategoryForce:
		s.damageProjectileHit(a.e, dead)
	}
}

func (s *collisionSystem) category(e ecs.Entity) event.Category {
	w := s.k.World
	switch {
	case w.Players.Has(e):
		return event.CategoryPlayer
	case w.Bosses.Has(e):
		return event.CategoryBoss
	case w.BossParts.Has(e):
		return event.CategoryBossPart
	case w.Enemies.Has(e):
		return event.CategoryEnemy
	case w.Projectiles.Has(e):
		return event.CategoryProjectile
	case w.Forces.Has(e):
		return event.CategoryForce
	default:
		return event.CategoryNone
	}
}

func (s *collisionSystem) damageProjectileHit(e ecs.Entity, dead *[]ecs.Entity) {
	if proj, ok := s.k.World.Projectiles.Get(e); ok {
		proj.IsActive = false
	}
	*dead = append(*dead, e)
}

func (s *collisionSystem) damagePlayer(e ecs.Entity, dmg int32, dead *[]ecs.Entity) {
	w := s.k.World
	p, ok := w.Players.Get(e)
	if !ok || p.InvincibilityTimer > 0 || !p.IsAlive {
		return
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.IsAlive = false
		t, _ := w.Transforms.Get(e)
		x, y := floatOrZero(t)
		event.Emit(w.Bus, event.Death{Entity: e, Category: event.CategoryPlayer, X: x, Y: y})
	}
}

func (s *collisionSystem) damageEnemy(e ecs.Entity, dmg int32, killer ecs.Entity, dead *[]ecs.Entity) {
	w := s.k.World
	en, ok := w.Enemies.Get(e)
	if !ok {
		return
	}
	en.HP -= dmg
	event.Emit(w.Bus, event.EnemyHit{Entity: e, DamageDone: dmg, Remaining: en.HP})
	if en.HP <= 0 {
		if p, ok := w.Players.Get(killer); ok {
			p.Score += en.ScoreReward
		}
		t, _ := w.Transforms.Get(e)
		x, y := floatOrZero(t)
		event.Emit(w.Bus, event.Death{Entity: e, Killer: killer, Category: event.CategoryEnemy, X: x, Y: y})
		*dead = append(*dead, e)
	}
}

func (s *collisionSystem) damageBossLike(e ecs.Entity, cat event.Category, dmg int32, killer ecs.Entity, dead *[]ecs.Entity) {
	w := s.k.World
	if cat == event.CategoryBossPart {
		part, ok := w.BossParts.Get(e)
		if !ok {
			return
		}
		part.HP -= dmg
		if part.HP <= 0 {
			part.Alive = false
			*dead = append(*dead, e)
		}
		return
	}
	boss, ok := w.Bosses.Get(e)
	if !ok {
		return
	}
	boss.HP -= dmg
	if boss.HP <= 0 {
		t, _ := w.Transforms.Get(e)
		x, y := floatOrZero(t)
		event.Emit(w.Bus, event.Death{Entity: e, Killer: killer, Category: event.CategoryBoss, X: x, Y: y})
		*dead = append(*dead, e)
		s.killBossParts(e, dead)
	}
}

// killBossParts implements spec.md §3's lifecycle rule: "when the Boss
// dies, parts die."
func (s *collisionSystem) killBossParts(boss ecs.Entity, dead *[]ecs.Entity) {
	w := s.k.World
	w.BossParts.Each(func(e ecs.Entity, part *component.BossPart) {
		if part.OwnerEntity == boss {
			part.Alive = false
			*dead = append(*dead, e)
		}
	})
}

func floatOrZero(t *component.Transform) (float32, float32) {
	if t == nil {
		return 0, 0
	}
	return t.X, t.Y
}

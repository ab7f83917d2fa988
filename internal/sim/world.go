// Package sim implements the fixed-step simulation kernel: the ordered
// per-tick pipeline of spec.md §4.2 running against the ECS substrate in
// internal/core/ecs and the component types in internal/component.
package sim

import (
	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	"github.com/shmup/server/internal/core/event"
)

// World is the concrete closed set of component stores this game uses,
// wrapping ecs.World. Each store is registered with the embedded Registry
// so Kill/QueueKill erase an entity everywhere in one pass.
type World struct {
	*ecs.World

	Transforms  *ecs.Store[component.Transform]
	RigidBodies *ecs.Store[component.RigidBody]
	Colliders   *ecs.Store[component.BoxCollider]
	Players     *ecs.Store[component.Player]
	Inputs      *ecs.Store[component.InputState]
	Enemies     *ecs.Store[component.Enemy]
	Bosses      *ecs.Store[component.Boss]
	BossParts   *ecs.Store[component.BossPart]
	Projectiles *ecs.Store[component.Projectile]
	Weapons     *ecs.Store[component.Weapon]
	Forces      *ecs.Store[component.Force]

	// Per-match singletons, not per-entity components.
	Level *component.LevelPlan
	Map   *component.TileMap

	ArenaWidth, ArenaHeight float32

	Bus *event.Bus

	// PlayerByID maps the stable PlayerID carried over the wire to the
	// current entity, since Entity indices are per-match and never reused.
	PlayerByID map[int32]ecs.Entity
}

func NewWorld() *World {
	w := &World{
		World:       ecs.NewWorld(),
		Transforms:  ecs.NewStore[component.Transform](),
		RigidBodies: ecs.NewStore[component.RigidBody](),
		Colliders:   ecs.NewStore[component.BoxCollider](),
		Players:     ecs.NewStore[component.Player](),
		Inputs:      ecs.NewStore[component.InputState](),
		Enemies:     ecs.NewStore[component.Enemy](),
		Bosses:      ecs.NewStore[component.Boss](),
		BossParts:   ecs.NewStore[component.BossPart](),
		Projectiles: ecs.NewStore[component.Projectile](),
		Weapons:     ecs.NewStore[component.Weapon](),
		Forces:      ecs.NewStore[component.Force](),
		Level:       &component.LevelPlan{},
		Bus:         event.NewBus(),
		ArenaWidth:  480,
		ArenaHeight: 480,
		PlayerByID:  make(map[int32]ecs.Entity),
	}
	reg := w.Registry()
	reg.Register(w.Transforms)
	reg.Register(w.RigidBodies)
	reg.Register(w.Colliders)
	reg.Register(w.Players)
	reg.Register(w.Inputs)
	reg.Register(w.Enemies)
	reg.Register(w.Bosses)
	reg.Register(w.BossParts)
	reg.Register(w.Projectiles)
	reg.Register(w.Weapons)
	reg.Register(w.Forces)
	return w
}

// SpawnPlayer creates a player entity with Transform, RigidBody,
// BoxCollider, Player, InputState and a default Weapon.
func (w *World) SpawnPlayer(playerID int32, x, y float32) ecs.Entity {
	e := w.Spawn()
	w.Transforms.Set(e, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	w.RigidBodies.Set(e, &component.RigidBody{Mass: 1, Restitution: 0})
	w.Colliders.Set(e, &component.BoxCollider{
		Width: 16, Height: 16,
		Layer: component.LayerPlayer,
		Mask:  component.LayerEnemy | component.LayerBoss | component.LayerBossPart | component.LayerProjectile,
	})
	w.Players.Set(e, &component.Player{PlayerID: playerID, Speed: 180, HP: 100, MaxHP: 100, IsAlive: true})
	w.Inputs.Set(e, &component.InputState{})
	weapon := w.Spawn()
	w.Weapons.Set(weapon, &component.Weapon{FireRate: 6, IsAutomatic: true, MaxAmmo: -1, MagazineSize: -1, MaxChargeTime: 1.2})
	if p, _ := w.Players.Get(e); p != nil {
		p.WeaponHandle = weapon
	}
	w.PlayerByID[playerID] = e
	w.spawnForce(e, x, y)
	return e
}

// spawnForce creates the satellite drone that ships with every player
// (spec.md §3 lifecycle: "The Force is created with its owner.").
func (w *World) spawnForce(owner ecs.Entity, x, y float32) ecs.Entity {
	e := w.Spawn()
	w.Transforms.Set(e, &component.Transform{X: x - 24, Y: y, ScaleX: 1, ScaleY: 1})
	w.Colliders.Set(e, &component.BoxCollider{
		Width: 12, Height: 12,
		Layer: component.LayerForce,
		Mask:  component.LayerEnemy | component.LayerBoss | component.LayerBossPart | component.LayerProjectile,
	})
	w.Forces.Set(e, &component.Force{
		OwnerPlayer: owner, State: component.ForceAttachedFront,
		FrontOffset: [2]float32{24, 0}, BackOffset: [2]float32{-24, 0},
		Speed: 120, MaxDistance: 80, ContactDamage: 10, BlocksProjectiles: true,
	})
	return e
}

// KillPlayer erases the player's weapon and Force entities alongside the
// player entity itself and removes the PlayerByID mapping.
func (w *World) KillPlayer(playerID int32) {
	e, ok := w.PlayerByID[playerID]
	if !ok {
		return
	}
	if p, ok := w.Players.Get(e); ok {
		w.Kill(p.WeaponHandle)
	}
	var forceEntity ecs.Entity
	var hasForce bool
	w.Forces.Each(func(fe ecs.Entity, f *component.Force) {
		if f.OwnerPlayer == e {
			forceEntity, hasForce = fe, true
		}
	})
	if hasForce {
		w.Kill(forceEntity)
	}
	w.Kill(e)
	delete(w.PlayerByID, playerID)
}

// SpawnEnemy creates an enemy entity scaled for the given level index
// (spec.md §4.2.4 difficulty scaling).
func (w *World) SpawnEnemy(kind component.EnemyKind, x, y float32, levelIndex int) ecs.Entity {
	e := w.Spawn()
	w.Transforms.Set(e, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	w.RigidBodies.Set(e, &component.RigidBody{Mass: 1})
	w.Colliders.Set(e, &component.BoxCollider{
		Width: 16, Height: 16,
		Layer: component.LayerEnemy,
		Mask:  component.LayerPlayer | component.LayerProjectile | component.LayerForce,
	})
	baseSpeed, baseHP, contactDmg, reward := enemyBaseStats(kind)
	scale := 1 + 0.15*float32(levelIndex)
	hpScale := 1 + 0.2*float32(levelIndex)
	w.Enemies.Set(e, &component.Enemy{
		Kind: kind, Speed: baseSpeed * scale, HP: int32(float32(baseHP) * hpScale),
		ContactDamage: contactDmg, ScoreReward: reward, Amplitude: 40,
	})
	return e
}

func enemyBaseStats(kind component.EnemyKind) (speed float32, hp int32, contactDamage int32, scoreReward int32) {
	switch kind {
	case component.EnemyBasic:
		return 60, 20, 10, 100
	case component.EnemyZigzag:
		return 90, 15, 10, 150
	case component.EnemyChase:
		return 100, 25, 15, 200
	case component.EnemyMiniGreen:
		return 70, 30, 10, 120
	case component.EnemySpinner:
		return 120, 10, 10, 180
	default:
		return 60, 20, 10, 100
	}
}

// SpawnBoss creates a boss entity at full health for its kind.
func (w *World) SpawnBoss(kind component.BossKind, hp int32, x, y float32) ecs.Entity {
	e := w.Spawn()
	w.Transforms.Set(e, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	w.RigidBodies.Set(e, &component.RigidBody{Mass: 10})
	w.Colliders.Set(e, &component.BoxCollider{
		Width: 64, Height: 64,
		Layer: component.LayerBoss,
		Mask:  component.LayerPlayer | component.LayerProjectile | component.LayerForce,
	})
	w.Bosses.Set(e, &component.Boss{Kind: kind, Phase: 1, HP: hp, Speed: 30, Amplitude: 60})
	return e
}

// SpawnProjectile creates a projectile owned by owner, traveling in the
// given unit direction.
func (w *World) SpawnProjectile(owner ecs.Entity, x, y, dirX, dirY, speed float32, damage int32, lifetimeCap float32, ownerLayer uint32) ecs.Entity {
	e := w.Spawn()
	w.Transforms.Set(e, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	var mask uint32
	if ownerLayer == component.LayerPlayer {
		mask = component.LayerEnemy | component.LayerBoss | component.LayerBossPart
	} else {
		mask = component.LayerPlayer | component.LayerForce
	}
	w.RigidBodies.Set(e, &component.RigidBody{VelX: dirX * speed, VelY: dirY * speed, Mass: 0.1})
	w.Colliders.Set(e, &component.BoxCollider{
		Width: 6, Height: 6,
		Layer: component.LayerProjectile,
		Mask:  mask,
	})
	w.Projectiles.Set(e, &component.Projectile{
		Damage: damage, Speed: speed, DirX: dirX, DirY: dirY,
		LifetimeCap: lifetimeCap, OwnerEntity: owner, IsActive: true,
	})
	return e
}

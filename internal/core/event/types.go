package event

import "github.com/shmup/server/internal/core/ecs"

// Collision is emitted once per colliding pair by the physics-layer pass
// (spec.md §4.2.3). Symmetric pairs never both emit: if (A,B) is reported,
// (B,A) is not.
type Collision struct {
	A, B    ecs.Entity
	PointX  float32
	PointY  float32
	NormalX float32
	NormalY float32
}

// Death is emitted by the gameplay-layer collision dispatch (or by any
// system that reduces an entity's hp to zero) and consumed by the scoring
// and snapshot systems.
type Death struct {
	Entity   ecs.Entity
	Killer   ecs.Entity
	Category Category
	X, Y     float32
}

// Category identifies the gameplay role of a colliding entity for the
// damage table in spec.md §4.2.3.
type Category int

const (
	CategoryNone Category = iota
	CategoryPlayer
	CategoryEnemy
	CategoryBoss
	CategoryBossPart
	CategoryProjectile
	CategoryForce
)

// WaveCleared is emitted by the level director when every enemy/boss in the
// current wave has died.
type WaveCleared struct {
	LevelIndex int
	WaveIndex  int
}

// LevelFinished is emitted when a level's final wave is cleared.
type LevelFinished struct {
	LevelIndex int
}

// GameEnd is emitted once, either on campaign victory or on a terminal
// failure condition (e.g. all players dead with no lives remaining).
type GameEnd struct {
	Victory bool
}

// EnemyHit is emitted whenever an enemy takes damage (dies or not), feeding
// the ENEMY_HIT broadcast (spec.md §4.3) separately from the GameState
// delta so clients can play a hit reaction even when HP didn't cross the
// snapshot's change threshold.
type EnemyHit struct {
	Entity     ecs.Entity
	DamageDone int32
	Remaining  int32
}

// BossSpawned is emitted when the level director spawns a boss wave,
// feeding the BOSS_SPAWN broadcast.
type BossSpawned struct {
	Entity ecs.Entity
	Kind   int
	HP     int32
	X, Y   float32
}

// PlayerJoined/PlayerLeft mirror the session director's lobby→game and
// disconnect transitions into the simulation's event stream.
type PlayerJoined struct {
	PlayerID int32
	Entity   ecs.Entity
}

type PlayerLeft struct {
	PlayerID int32
	Entity   ecs.Entity
}

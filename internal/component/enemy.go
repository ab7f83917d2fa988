package component

import "github.com/shmup/server/internal/core/ecs"

// EnemyKind selects the motion/attack formulas in spec.md §4.2.1.
type EnemyKind byte

const (
	EnemyBasic EnemyKind = iota
	EnemyZigzag
	EnemyChase
	EnemyMiniGreen
	EnemySpinner
)

type Enemy struct {
	Kind           EnemyKind
	Speed          float32
	Direction      float32 // radians or signed unit, formula-dependent
	Amplitude      float32
	Timer          float32
	LastShotTimer  float32
	HP             int32
	ContactDamage  int32
	ScoreReward    int32
}

// BossKind selects phase tables and motion formulas (spec.md §4.2.1).
type BossKind byte

const (
	BossBigShip BossKind = iota
	BossSnake
	BossBydoEye
	BossBattleship
	BossFinalBoss
)

type Boss struct {
	Kind      BossKind
	Phase     int // 1, 2, or 3
	Direction float32
	Timer     float32
	Speed     float32
	Amplitude float32
	HP        int32
}

// BossPart is a snake segment or a turret, parented to its Boss by entity
// index only — never an owning pointer (Design Notes: cyclic references).
type BossPart struct {
	OwnerEntity  ecs.Entity // back-reference by index only, never an owning pointer
	Offset       [2]float32
	SegmentIndex int
	TimeOffset   float32
	HP           int32
	Alive        bool
}

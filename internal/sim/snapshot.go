package sim

import "github.com/shmup/server/internal/core/ecs"

// Field mask bits for GameState sub-records (spec.md §4.2.5, §4.3). Bit 15
// is reserved across every record type as the delete sentinel so the codec
// can special-case it without knowing the record's other fields.
const (
	MaskDelete uint16 = 1 << 15

	MaskPosX  uint16 = 1 << 0
	MaskPosY  uint16 = 1 << 1
	MaskHP    uint16 = 1 << 2
	MaskScore uint16 = 1 << 3
	MaskAlive uint16 = 1 << 4
)

// PlayerRecord, EnemyRecord and ProjectileRecord carry only the fields named
// by Mask; the rest are zero and must not be applied by a receiver.
type PlayerRecord struct {
	ID    ecs.Entity
	Mask  uint16
	PosX  float32
	PosY  float32
	HP    int32
	Score int32
	Alive bool
}

type EnemyRecord struct {
	ID   ecs.Entity
	Mask uint16
	PosX float32
	PosY float32
	HP   int32
}

type ProjectileRecord struct {
	ID   ecs.Entity
	Mask uint16
	PosX float32
	PosY float32
}

// GameState is one tick's worth of delta snapshot, sent unreliably
// (spec.md §4.2.5, §4.4). Bosses and boss parts ride the separate
// BOSS_SPAWN/BOSS_UPDATE messages instead of a GameState sub-list.
type GameState struct {
	Tick        uint32
	Players     []PlayerRecord
	Enemies     []EnemyRecord
	Projectiles []ProjectileRecord
}

type playerBaseline struct {
	posX, posY float32
	hp         int32
	score      int32
	alive      bool
}

type enemyBaseline struct {
	posX, posY float32
	hp         int32
}

type projectileBaseline struct {
	posX, posY float32
}

// snapshotBaselines holds the last values broadcast to peers, against which
// the next snapshot is diffed. A single shared baseline is kept rather than
// one per connected peer: a deliberate simplification (see DESIGN.md) that
// trades per-peer-optimal bandwidth for a much simpler kernel, acceptable
// for a cooperative game with no anti-cheat requirement on state visibility.
type snapshotBaselines struct {
	players     map[ecs.Entity]playerBaseline
	enemies     map[ecs.Entity]enemyBaseline
	projectiles map[ecs.Entity]projectileBaseline
}

func newSnapshotBaselines() *snapshotBaselines {
	return &snapshotBaselines{
		players:     make(map[ecs.Entity]playerBaseline),
		enemies:     make(map[ecs.Entity]enemyBaseline),
		projectiles: make(map[ecs.Entity]projectileBaseline),
	}
}

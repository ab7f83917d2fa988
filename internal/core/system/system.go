package system

import "time"

// Phase defines execution order within a single fixed-step tick, matching
// the pipeline in spec.md §4.2 plus a final cleanup step. Cleanup runs after
// the snapshot build, so the snapshot still sees the entities queued for
// death this tick.
type Phase int

const (
	PhaseInput        Phase = iota // 1: drain queued per-player InputState
	PhaseMovement                  // 2: player movement from InputState × speed
	PhaseEnemyAI                   // 3: enemy motion per Enemy.kind
	PhaseBossAI                    // 4: boss motion per Boss.kind × phase
	PhaseBossPart                  // 5: segment/turret part update
	PhasePhysics                   // 6: v += (a+g)·dt; p += v·dt
	PhaseWeapon                    // 7: cooldown, reload, firing
	PhaseProjectile                // 8: lifetime advance + expiry
	PhaseCollision                 // 9: pairwise AABB + gameplay dispatch
	PhaseTilemap                   // 10: tilemap push-out for players/enemies
	PhaseBounds                    // 11: arena clamp
	PhaseLevelDirector              // 12: wave/boss progression
	PhaseSnapshot                  // 13: GameState delta build
	PhaseCleanup                   // 14: flush deferred entity destruction
)

// System is the interface every kernel system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

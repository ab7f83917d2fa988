package sim

import (
	"sort"
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// snapshotSystem implements spec.md §4.2.5: walk the component stores and
// build a GameState carrying only the fields that changed since the last
// broadcast baseline, plus M_DELETE for entities that died this tick.
type snapshotSystem struct {
	k         *Kernel
	baselines *snapshotBaselines
	tick      uint32
	Latest    GameState
}

func newSnapshotSystem(k *Kernel) *snapshotSystem {
	return &snapshotSystem{k: k, baselines: newSnapshotBaselines()}
}

func (s *snapshotSystem) Phase() coresys.Phase { return coresys.PhaseSnapshot }

func (s *snapshotSystem) Update(time.Duration) {
	w := s.k.World
	s.tick++

	dying := make(map[ecs.Entity]bool, len(w.PendingKills()))
	for _, e := range w.PendingKills() {
		dying[e] = true
	}

	state := GameState{Tick: s.tick}

	seenPlayers := make(map[ecs.Entity]bool, w.Players.Len())
	ecs.Each2(w.Players, w.Transforms, func(e ecs.Entity, p *component.Player, t *component.Transform) {
		seenPlayers[e] = true
		prev, known := s.baselines.players[e]
		cur := playerBaseline{posX: t.X, posY: t.Y, hp: p.HP, score: p.Score, alive: p.IsAlive}
		rec := PlayerRecord{ID: e}
		if !known || prev.posX != cur.posX {
			rec.Mask |= MaskPosX
			rec.PosX = cur.posX
		}
		if !known || prev.posY != cur.posY {
			rec.Mask |= MaskPosY
			rec.PosY = cur.posY
		}
		if !known || prev.hp != cur.hp {
			rec.Mask |= MaskHP
			rec.HP = cur.hp
		}
		if !known || prev.score != cur.score {
			rec.Mask |= MaskScore
			rec.Score = cur.score
		}
		if !known || prev.alive != cur.alive {
			rec.Mask |= MaskAlive
			rec.Alive = cur.alive
		}
		if dying[e] {
			rec.Mask |= MaskDelete
			delete(s.baselines.players, e)
		} else {
			s.baselines.players[e] = cur
		}
		if rec.Mask != 0 {
			state.Players = append(state.Players, rec)
		}
	})
	pruneDeleted(seenPlayers, s.baselines.players, func(e ecs.Entity) {
		state.Players = append(state.Players, PlayerRecord{ID: e, Mask: MaskDelete})
	})

	seenEnemies := make(map[ecs.Entity]bool, w.Enemies.Len())
	ecs.Each2(w.Enemies, w.Transforms, func(e ecs.Entity, en *component.Enemy, t *component.Transform) {
		seenEnemies[e] = true
		prev, known := s.baselines.enemies[e]
		cur := enemyBaseline{posX: t.X, posY: t.Y, hp: en.HP}
		rec := EnemyRecord{ID: e}
		if !known || prev.posX != cur.posX {
			rec.Mask |= MaskPosX
			rec.PosX = cur.posX
		}
		if !known || prev.posY != cur.posY {
			rec.Mask |= MaskPosY
			rec.PosY = cur.posY
		}
		if !known || prev.hp != cur.hp {
			rec.Mask |= MaskHP
			rec.HP = cur.hp
		}
		if dying[e] {
			rec.Mask |= MaskDelete
			delete(s.baselines.enemies, e)
		} else {
			s.baselines.enemies[e] = cur
		}
		if rec.Mask != 0 {
			state.Enemies = append(state.Enemies, rec)
		}
	})
	pruneDeleted(seenEnemies, s.baselines.enemies, func(e ecs.Entity) {
		state.Enemies = append(state.Enemies, EnemyRecord{ID: e, Mask: MaskDelete})
	})

	seenProjectiles := make(map[ecs.Entity]bool, w.Projectiles.Len())
	ecs.Each2(w.Projectiles, w.Transforms, func(e ecs.Entity, _ *component.Projectile, t *component.Transform) {
		seenProjectiles[e] = true
		prev, known := s.baselines.projectiles[e]
		cur := projectileBaseline{posX: t.X, posY: t.Y}
		rec := ProjectileRecord{ID: e}
		if !known || prev.posX != cur.posX {
			rec.Mask |= MaskPosX
			rec.PosX = cur.posX
		}
		if !known || prev.posY != cur.posY {
			rec.Mask |= MaskPosY
			rec.PosY = cur.posY
		}
		if dying[e] {
			rec.Mask |= MaskDelete
			delete(s.baselines.projectiles, e)
		} else {
			s.baselines.projectiles[e] = cur
		}
		if rec.Mask != 0 {
			state.Projectiles = append(state.Projectiles, rec)
		}
	})
	pruneDeleted(seenProjectiles, s.baselines.projectiles, func(e ecs.Entity) {
		state.Projectiles = append(state.Projectiles, ProjectileRecord{ID: e, Mask: MaskDelete})
	})

	// Each2 above already visits entities in ascending Entity order, but
	// pruneDeleted appends its bare M_DELETE records afterward in its own
	// sorted-but-separate run — the two runs interleave, so the combined
	// slice needs an explicit sort to give spec.md §4.1's Zipper contract
	// ("iteration order is ascending by index") and to keep encodeGameState's
	// output byte-identical across runs fed identical input.
	sort.Slice(state.Players, func(i, j int) bool { return state.Players[i].ID < state.Players[j].ID })
	sort.Slice(state.Enemies, func(i, j int) bool { return state.Enemies[i].ID < state.Enemies[j].ID })
	sort.Slice(state.Projectiles, func(i, j int) bool { return state.Projectiles[i].ID < state.Projectiles[j].ID })

	s.Latest = state
}

// GameState returns the delta snapshot built by the most recent tick.
func (s *snapshotSystem) GameState() GameState { return s.Latest }

// pruneDeleted emits a bare M_DELETE record for any baseline entry whose
// entity wasn't visited this tick — it was erased by a direct Kill (e.g.
// KillPlayer) rather than going through QueueKill/PendingKills.
func pruneDeleted[T any](seen map[ecs.Entity]bool, baseline map[ecs.Entity]T, emit func(ecs.Entity)) {
	stale := make([]ecs.Entity, 0, len(baseline))
	for e := range baseline {
		if !seen[e] {
			stale = append(stale, e)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i] < stale[j] })
	for _, e := range stale {
		emit(e)
		delete(baseline, e)
	}
}

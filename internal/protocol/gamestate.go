package protocol

import (
	"github.com/shmup/server/internal/core/ecs"
	"github.com/shmup/server/internal/sim"
)

// GAME_STATE's wire layout (spec.md §4.2.5, §4.3): a 32-bit tick, then three
// length-prefixed sub-lists, each record leading with id:2, mask:2 and then
// only the fields named by the mask, in this declared order.
//
// Player record field order: posX, posY, hp, score, alive.
// Enemy record field order: posX, posY, hp.
// Projectile record field order: posX, posY.

func encodeGameState(w *Writer, s sim.GameState) {
	w.WriteU32(s.Tick)

	w.WriteU16(uint16(len(s.Players)))
	for _, p := range s.Players {
		w.WriteU16(uint16(p.ID))
		w.WriteU16(p.Mask)
		if p.Mask&sim.MaskPosX != 0 {
			w.WriteF32(p.PosX)
		}
		if p.Mask&sim.MaskPosY != 0 {
			w.WriteF32(p.PosY)
		}
		if p.Mask&sim.MaskHP != 0 {
			w.WriteI32(p.HP)
		}
		if p.Mask&sim.MaskScore != 0 {
			w.WriteI32(p.Score)
		}
		if p.Mask&sim.MaskAlive != 0 {
			w.WriteBool(p.Alive)
		}
	}

	w.WriteU16(uint16(len(s.Enemies)))
	for _, e := range s.Enemies {
		w.WriteU16(uint16(e.ID))
		w.WriteU16(e.Mask)
		if e.Mask&sim.MaskPosX != 0 {
			w.WriteF32(e.PosX)
		}
		if e.Mask&sim.MaskPosY != 0 {
			w.WriteF32(e.PosY)
		}
		if e.Mask&sim.MaskHP != 0 {
			w.WriteI32(e.HP)
		}
	}

	w.WriteU16(uint16(len(s.Projectiles)))
	for _, pr := range s.Projectiles {
		w.WriteU16(uint16(pr.ID))
		w.WriteU16(pr.Mask)
		if pr.Mask&sim.MaskPosX != 0 {
			w.WriteF32(pr.PosX)
		}
		if pr.Mask&sim.MaskPosY != 0 {
			w.WriteF32(pr.PosY)
		}
	}
}

func decodeGameState(r *Reader) sim.GameState {
	s := sim.GameState{Tick: r.ReadU32()}

	for n := int(r.ReadU16()); n > 0; n-- {
		id := ecs.Entity(r.ReadU16())
		mask := r.ReadU16()
		rec := sim.PlayerRecord{ID: id, Mask: mask}
		if mask&sim.MaskPosX != 0 {
			rec.PosX = r.ReadF32()
		}
		if mask&sim.MaskPosY != 0 {
			rec.PosY = r.ReadF32()
		}
		if mask&sim.MaskHP != 0 {
			rec.HP = r.ReadI32()
		}
		if mask&sim.MaskScore != 0 {
			rec.Score = r.ReadI32()
		}
		if mask&sim.MaskAlive != 0 {
			rec.Alive = r.ReadBool()
		}
		s.Players = append(s.Players, rec)
	}

	for n := int(r.ReadU16()); n > 0; n-- {
		id := ecs.Entity(r.ReadU16())
		mask := r.ReadU16()
		rec := sim.EnemyRecord{ID: id, Mask: mask}
		if mask&sim.MaskPosX != 0 {
			rec.PosX = r.ReadF32()
		}
		if mask&sim.MaskPosY != 0 {
			rec.PosY = r.ReadF32()
		}
		if mask&sim.MaskHP != 0 {
			rec.HP = r.ReadI32()
		}
		s.Enemies = append(s.Enemies, rec)
	}

	for n := int(r.ReadU16()); n > 0; n-- {
		id := ecs.Entity(r.ReadU16())
		mask := r.ReadU16()
		rec := sim.ProjectileRecord{ID: id, Mask: mask}
		if mask&sim.MaskPosX != 0 {
			rec.PosX = r.ReadF32()
		}
		if mask&sim.MaskPosY != 0 {
			rec.PosY = r.ReadF32()
		}
		s.Projectiles = append(s.Projectiles, rec)
	}

	return s
}

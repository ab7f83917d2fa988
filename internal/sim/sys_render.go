package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
	"github.com/shmup/server/internal/render"
)

// renderExportSystem builds the per-tick drawable list spec.md §6 asks the
// core to supply and pushes it to Kernel.RenderSink. A headless server with
// no attached renderer leaves RenderSink nil, and the system is a no-op.
type renderExportSystem struct {
	k *Kernel
}

func newRenderExportSystem(k *Kernel) *renderExportSystem { return &renderExportSystem{k: k} }

func (s *renderExportSystem) Phase() coresys.Phase { return coresys.PhaseSnapshot }

// Update walks each drawable store in increasing Layer order — players,
// then enemies, then bosses, then projectiles — so the list Submit
// receives is already "ordered by layer ascending" per spec.md §6, without
// needing a separate sort pass: Each2's own ascending-by-Entity walk keeps
// each category internally stable too.
func (s *renderExportSystem) Update(time.Duration) {
	if s.k.RenderSink == nil {
		return
	}
	w := s.k.World
	frame := make([]render.Drawable, 0, w.Players.Len()+w.Enemies.Len()+w.Bosses.Len()+w.Projectiles.Len())

	ecs.Each2(w.Players, w.Transforms, func(_ ecs.Entity, _ *component.Player, t *component.Transform) {
		frame = append(frame, render.Drawable{TextureKey: "player", DestX: t.X, DestY: t.Y, Rotation: t.RotationDeg, Layer: 0})
	})
	ecs.Each2(w.Enemies, w.Transforms, func(_ ecs.Entity, en *component.Enemy, t *component.Transform) {
		frame = append(frame, render.Drawable{TextureKey: enemyTextureKey(en.Kind), DestX: t.X, DestY: t.Y, Rotation: t.RotationDeg, Layer: 1})
	})
	ecs.Each2(w.Bosses, w.Transforms, func(_ ecs.Entity, b *component.Boss, t *component.Transform) {
		frame = append(frame, render.Drawable{TextureKey: bossTextureKey(b.Kind), DestX: t.X, DestY: t.Y, Rotation: t.RotationDeg, Layer: 2})
	})
	ecs.Each2(w.Projectiles, w.Transforms, func(_ ecs.Entity, _ *component.Projectile, t *component.Transform) {
		frame = append(frame, render.Drawable{TextureKey: "projectile", DestX: t.X, DestY: t.Y, Rotation: t.RotationDeg, Layer: 3})
	})

	s.k.RenderSink.Submit(frame)
}

func enemyTextureKey(k component.EnemyKind) string {
	switch k {
	case component.EnemyZigzag:
		return "enemy_zigzag"
	case component.EnemyChase:
		return "enemy_chase"
	case component.EnemyMiniGreen:
		return "enemy_mini_green"
	case component.EnemySpinner:
		return "enemy_spinner"
	default:
		return "enemy_basic"
	}
}

func bossTextureKey(k component.BossKind) string {
	switch k {
	case component.BossSnake:
		return "boss_snake"
	case component.BossBydoEye:
		return "boss_bydo_eye"
	case component.BossBattleship:
		return "boss_battleship"
	case component.BossFinalBoss:
		return "boss_final"
	default:
		return "boss_big_ship"
	}
}

package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// tilemapCollisionSystem axis-separates players and enemies out of solid
// tiles (spec.md §4.2 step 10).
type tilemapCollisionSystem struct{ k *Kernel }

func newTilemapCollisionSystem(k *Kernel) *tilemapCollisionSystem { return &tilemapCollisionSystem{k} }

func (s *tilemapCollisionSystem) Phase() coresys.Phase { return coresys.PhaseTilemap }

func (s *tilemapCollisionSystem) Update(time.Duration) {
	w := s.k.World
	m := w.Map
	if m == nil {
		return
	}
	w.Players.Each(func(e ecs.Entity, _ *component.Player) {
		s.pushOut(e)
	})
	w.Enemies.Each(func(e ecs.Entity, _ *component.Enemy) {
		s.pushOut(e)
	})
}

func (s *tilemapCollisionSystem) pushOut(e ecs.Entity) {
	w := s.k.World
	m := w.Map
	t, ok := w.Transforms.Get(e)
	if !ok {
		return
	}
	c, ok := w.Colliders.Get(e)
	if !ok {
		return
	}
	col := int((t.X + m.ScrollOffset) / m.TileSize)
	row := int(t.Y / m.TileSize)

	if m.At(col, row).Solid() {
		// Axis-separated push-out: nudge along whichever axis has the
		// smaller penetration against the tile's cell bounds.
		tileLeft := float32(col)*m.TileSize - m.ScrollOffset
		tileTop := float32(row) * m.TileSize
		penLeft := (t.X + c.Width/2) - tileLeft
		penTop := (t.Y + c.Height/2) - tileTop
		if penLeft < penTop {
			t.X = tileLeft - c.Width/2 - 0.01
		} else {
			t.Y = tileTop - c.Height/2 - 0.01
		}
		if rb, ok := w.RigidBodies.Get(e); ok {
			rb.VelX, rb.VelY = 0, 0
		}
	}
}

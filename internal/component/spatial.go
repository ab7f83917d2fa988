// Package component defines the concrete ECS component types for the
// shoot-'em-up core (spec.md §3). Each type is a plain struct registered
// into exactly one ecs.Store[T] — no runtime type map, per the Design
// Notes' guidance against any_cast-style type erasure.
package component

// Transform is world-space position, scale and rotation.
type Transform struct {
	X, Y         float32
	ScaleX       float32
	ScaleY       float32
	RotationDeg  float32
}

// RigidBody integrates under PhasePhysics. A static body never moves.
type RigidBody struct {
	VelX, VelY float32
	AccX, AccY float32
	Mass       float32
	Restitution float32 // [0,1]
	IsStatic   bool
}

// Layer/Mask bitfields used by BoxCollider; collision requires
// (layerA & maskB) != 0 && (layerB & maskA) != 0.
const (
	LayerPlayer     uint32 = 1 << 0
	LayerEnemy      uint32 = 1 << 1
	LayerBoss       uint32 = 1 << 2
	LayerBossPart   uint32 = 1 << 3
	LayerProjectile uint32 = 1 << 4
	LayerForce      uint32 = 1 << 5
	LayerTile       uint32 = 1 << 6
)

// BoxCollider is an axis-aligned box offset from Transform's position.
type BoxCollider struct {
	Width, Height float32
	OffsetX       float32
	OffsetY       float32
	Layer         uint32
	Mask          uint32
	IsTrigger     bool
}

// Bounds returns the world-space AABB edges for a collider anchored at
// (tx, ty).
func (c *BoxCollider) Bounds(tx, ty float32) (left, right, top, bottom float32) {
	cx := tx + c.OffsetX
	cy := ty + c.OffsetY
	hw, hh := c.Width/2, c.Height/2
	return cx - hw, cx + hw, cy - hh, cy + hh
}

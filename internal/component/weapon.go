package component

import "github.com/shmup/server/internal/core/ecs"

// Projectile is destroyed when CurrentLife >= LifetimeCap or on collision.
type Projectile struct {
	Damage       int32
	Speed        float32
	Direction    float32 // unit vector angle or signed +1/-1 muzzle direction
	DirX, DirY   float32
	CurrentLife  float32
	LifetimeCap  float32
	OwnerEntity  ecs.Entity
	IsActive     bool
}

// Weapon; -1 on MaxAmmo/MagazineSize encodes "infinite/none".
type Weapon struct {
	FireRate          float32 // shots per second
	IsAutomatic       bool
	MaxAmmo           int32
	MagazineSize      int32
	ReloadTime        float32
	IsBurst           bool
	BurstCount        int
	BurstInterval     float32
	TimeSinceLastShot float32
	CurrentAmmo       int32
	Reloading         bool
	ReloadRemaining   float32
	ChargeTime        float32 // accumulated while InputState.Fire == FireCharge
	MaxChargeTime     float32
}

// NeedsReload reports whether firing again requires a completed reload.
func (w *Weapon) NeedsReload() bool {
	return w.Reloading || (w.MagazineSize >= 0 && w.CurrentAmmo <= 0)
}

// CanFire implements spec.md §4.2.2's can_fire predicate.
func (w *Weapon) CanFire() bool {
	if w.FireRate <= 0 {
		return false
	}
	if w.TimeSinceLastShot < 1.0/w.FireRate {
		return false
	}
	if w.MagazineSize != -1 && w.CurrentAmmo <= 0 {
		return false
	}
	return !w.NeedsReload()
}

// ForceState is the satellite drone's attachment state.
type ForceState byte

const (
	ForceAttachedFront ForceState = iota
	ForceAttachedBack
	ForceDetached
)

// Force is a satellite drone component of a player that absorbs enemy
// shots and deals contact damage.
type Force struct {
	OwnerPlayer       ecs.Entity
	State             ForceState
	FrontOffset       [2]float32
	BackOffset        [2]float32
	Direction         float32
	Speed             float32
	MaxDistance       float32
	CurrentDistance   float32
	ContactDamage     int32
	BlocksProjectiles bool
}

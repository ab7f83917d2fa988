package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	"github.com/shmup/server/internal/core/ecs"
	coresys "github.com/shmup/server/internal/core/system"
)

// weaponSystem implements cooldown, reload, and fire/charge per
// spec.md §4.2.2.
type weaponSystem struct{ k *Kernel }

func newWeaponSystem(k *Kernel) *weaponSystem { return &weaponSystem{k} }

func (s *weaponSystem) Phase() coresys.Phase { return coresys.PhaseWeapon }

func (s *weaponSystem) Update(dt time.Duration) {
	w := s.k.World
	dtSec := float32(dt.Seconds())
	ecs.Each3(w.Players, w.Inputs, w.Transforms, func(_ ecs.Entity, p *component.Player, in *component.InputState, t *component.Transform) {
		if !p.IsAlive {
			return
		}
		weapon, ok := w.Weapons.Get(p.WeaponHandle)
		if !ok {
			return
		}
		weapon.TimeSinceLastShot += dtSec

		if weapon.Reloading {
			weapon.ReloadRemaining -= dtSec
			if weapon.ReloadRemaining <= 0 {
				weapon.Reloading = false
				weapon.CurrentAmmo = weapon.MagazineSize
			}
			return
		}

		if in.Fire == component.FireCharge {
			if weapon.ChargeTime < weapon.MaxChargeTime {
				weapon.ChargeTime += dtSec
			}
			return
		}

		// Release: if we were charging last tick (ChargeTime > 0) and fire
		// dropped to none/normal, fire the charged shot now.
		if weapon.ChargeTime > 0 {
			s.fireCharged(p, weapon, t)
			weapon.ChargeTime = 0
			return
		}

		if in.Fire != component.FireNormal {
			return
		}
		if !weapon.IsAutomatic && weapon.TimeSinceLastShot < 1.0/maxFloat(weapon.FireRate, 0.0001) {
			return
		}
		if weapon.CanFire() {
			s.fire(p, weapon, t, 1, 10, 220)
		}
	})
}

func (s *weaponSystem) fire(p *component.Player, weapon *component.Weapon, t *component.Transform, _ int, damage int32, speed float32) {
	w := s.k.World
	w.SpawnProjectile(w.PlayerByID[p.PlayerID], t.X+8, t.Y, 1, 0, speed, damage, 3, component.LayerPlayer)
	weapon.TimeSinceLastShot = 0
	if weapon.MagazineSize != -1 {
		weapon.CurrentAmmo--
		if weapon.CurrentAmmo <= 0 {
			weapon.Reloading = true
			weapon.ReloadRemaining = weapon.ReloadTime
		}
	}
}

// fireCharged spawns one projectile whose damage/speed scale with the
// discrete charge level reached (spec.md §4.2.2).
func (s *weaponSystem) fireCharged(p *component.Player, weapon *component.Weapon, t *component.Transform) {
	level := chargeLevel(weapon.ChargeTime, weapon.MaxChargeTime)
	damage := int32(10 * (1 + level))
	speed := 220 + 60*float32(level)
	s.fire(p, weapon, t, 0, damage, speed)
}

// chargeLevel buckets charge progress into 0..3 discrete tiers.
func chargeLevel(charge, max float32) int {
	if max <= 0 {
		return 0
	}
	ratio := charge / max
	switch {
	case ratio >= 1:
		return 3
	case ratio >= 0.66:
		return 2
	case ratio >= 0.33:
		return 1
	default:
		return 0
	}
}

func maxFloat(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
